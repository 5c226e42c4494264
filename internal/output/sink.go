package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ErrSinkOpen indicates the output destination could not be opened.
var ErrSinkOpen = errors.New("cannot open output destination")

const (
	outputFileMode       = 0o644
	errorSinkOpenFormat  = "%w: '%s': %v"
	errorSinkCloseFormat = "close output file '%s': %w"
)

// Sink is the destination of one rendering run: standard output or a file
// opened in overwrite or append mode. A Sink is owned exclusively for the
// duration of one invocation and closed on completion.
type Sink struct {
	writer        io.Writer
	file          *os.File
	captureBuffer *bytes.Buffer
	terminal      bool
}

// NewStdoutSink returns a sink writing to standard output. With capture
// enabled every rendered byte is additionally retained for later retrieval.
func NewStdoutSink(capture bool) *Sink {
	sink := &Sink{
		writer:   os.Stdout,
		terminal: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	if capture {
		sink.captureBuffer = &bytes.Buffer{}
		sink.writer = io.MultiWriter(os.Stdout, sink.captureBuffer)
	}
	return sink
}

// NewFileSink opens the destination file for writing, truncating existing
// content unless appendMode is set. Open failures wrap ErrSinkOpen.
func NewFileSink(path string, appendMode bool, capture bool) (*Sink, error) {
	openFlags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		openFlags |= os.O_APPEND
	} else {
		openFlags |= os.O_TRUNC
	}
	fileHandle, openError := os.OpenFile(path, openFlags, outputFileMode)
	if openError != nil {
		return nil, fmt.Errorf(errorSinkOpenFormat, ErrSinkOpen, path, openError)
	}
	sink := &Sink{writer: fileHandle, file: fileHandle}
	if capture {
		sink.captureBuffer = &bytes.Buffer{}
		sink.writer = io.MultiWriter(fileHandle, sink.captureBuffer)
	}
	return sink, nil
}

// Writer returns the destination writer.
func (sink *Sink) Writer() io.Writer {
	return sink.writer
}

// IsTerminal reports whether the sink writes to an interactive terminal.
func (sink *Sink) IsTerminal() bool {
	return sink.terminal
}

// Captured returns the bytes retained since the sink was opened. It returns
// the empty string unless capture was requested.
func (sink *Sink) Captured() string {
	if sink.captureBuffer == nil {
		return ""
	}
	return sink.captureBuffer.String()
}

// Close releases the underlying file handle if one is held.
func (sink *Sink) Close() error {
	if sink.file == nil {
		return nil
	}
	if closeError := sink.file.Close(); closeError != nil {
		return fmt.Errorf(errorSinkCloseFormat, sink.file.Name(), closeError)
	}
	return nil
}
