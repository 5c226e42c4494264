// Package output renders selected files to a destination sink.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/avetisov/globcat/internal/types"
	"github.com/avetisov/globcat/internal/utils"
)

const (
	headerSuffix          = ":"
	readErrorNoticeFormat = "Error reading file: %v\n"
	summaryLineFormat     = "Summary: %d %s, %s"
	summaryTokensFormat   = ", %d tokens (%s)"
	fileLabelSingular     = "file"
	fileLabelPlural       = "files"
)

// Renderer consumes selected files and writes the formatted result.
type Renderer interface {
	RenderFile(file types.FileOutput) error
	RenderName(path string) error
	Flush() error
}

type summaryTracker struct {
	files  int
	bytes  int64
	tokens int
}

func (tracker *summaryTracker) add(size int64, tokens int) {
	tracker.files++
	tracker.bytes += size
	tracker.tokens += tokens
}

// textRenderer writes the documented raw text format: in content mode each
// file is a header line holding the path relative to the root directory
// followed by the raw contents and a single blank separator line; in
// names-only mode it is one relative path per line.
type textRenderer struct {
	writer         io.Writer
	rootDirectory  string
	colorEnabled   bool
	includeSummary bool
	tokenModel     string
	headerColor    *color.Color
	summary        summaryTracker
}

// NewTextRenderer constructs the raw text renderer. Headers are colorized only
// when colorEnabled is set; the optional summary line is emitted by Flush.
func NewTextRenderer(writer io.Writer, rootDirectory string, colorEnabled bool, includeSummary bool, tokenModel string) Renderer {
	return &textRenderer{
		writer:         writer,
		rootDirectory:  rootDirectory,
		colorEnabled:   colorEnabled,
		includeSummary: includeSummary,
		tokenModel:     tokenModel,
		headerColor:    color.New(color.FgCyan),
	}
}

func (renderer *textRenderer) RenderFile(file types.FileOutput) error {
	if writeError := renderer.writeHeader(file.Path); writeError != nil {
		return writeError
	}

	if file.ReadError != nil {
		if _, writeError := fmt.Fprintf(renderer.writer, readErrorNoticeFormat, file.ReadError); writeError != nil {
			return writeError
		}
	} else {
		content := file.Content
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if _, writeError := io.WriteString(renderer.writer, content); writeError != nil {
			return writeError
		}
		renderer.summary.add(file.SizeBytes, file.Tokens)
	}

	_, writeError := fmt.Fprintln(renderer.writer)
	return writeError
}

func (renderer *textRenderer) RenderName(path string) error {
	relativePath := utils.RelativePathOrSelf(path, renderer.rootDirectory)
	_, writeError := fmt.Fprintln(renderer.writer, relativePath)
	if writeError == nil {
		renderer.summary.add(0, 0)
	}
	return writeError
}

func (renderer *textRenderer) Flush() error {
	if !renderer.includeSummary {
		return nil
	}
	_, writeError := fmt.Fprintln(renderer.writer, renderer.formatSummaryLine())
	return writeError
}

func (renderer *textRenderer) writeHeader(path string) error {
	relativePath := utils.RelativePathOrSelf(path, renderer.rootDirectory)
	header := relativePath + headerSuffix
	if renderer.colorEnabled {
		_, writeError := renderer.headerColor.Fprintln(renderer.writer, header)
		return writeError
	}
	_, writeError := fmt.Fprintln(renderer.writer, header)
	return writeError
}

func (renderer *textRenderer) formatSummaryLine() string {
	fileLabel := fileLabelPlural
	if renderer.summary.files == 1 {
		fileLabel = fileLabelSingular
	}
	line := fmt.Sprintf(summaryLineFormat, renderer.summary.files, fileLabel, utils.FormatFileSize(renderer.summary.bytes))
	if renderer.summary.tokens > 0 && renderer.tokenModel != "" {
		line += fmt.Sprintf(summaryTokensFormat, renderer.summary.tokens, renderer.tokenModel)
	}
	return line
}
