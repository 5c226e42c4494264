package output_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avetisov/globcat/internal/output"
	"github.com/avetisov/globcat/internal/types"
)

// TestTextRendererContentFormat verifies the documented content layout: a
// relative path header, the raw contents, and a single blank separator line.
func TestTextRendererContentFormat(testingHandle *testing.T) {
	rootDirectory := filepath.Join("/tmp", "work")
	var buffer bytes.Buffer
	renderer := output.NewTextRenderer(&buffer, rootDirectory, false, false, "")

	renderError := renderer.RenderFile(types.FileOutput{
		Path:      filepath.Join(rootDirectory, "sub", "b.txt"),
		Content:   "world\n",
		SizeBytes: 6,
	})
	if renderError != nil {
		testingHandle.Fatalf("RenderFile error: %v", renderError)
	}
	if flushError := renderer.Flush(); flushError != nil {
		testingHandle.Fatalf("Flush error: %v", flushError)
	}

	expected := "sub/b.txt:\nworld\n\n"
	if buffer.String() != expected {
		testingHandle.Fatalf("unexpected output %q, want %q", buffer.String(), expected)
	}
}

// TestTextRendererEnsuresTrailingNewline verifies content lacking a final
// newline still gets a clean blank separator.
func TestTextRendererEnsuresTrailingNewline(testingHandle *testing.T) {
	rootDirectory := filepath.Join("/tmp", "work")
	var buffer bytes.Buffer
	renderer := output.NewTextRenderer(&buffer, rootDirectory, false, false, "")

	renderError := renderer.RenderFile(types.FileOutput{
		Path:    filepath.Join(rootDirectory, "a.txt"),
		Content: "hello",
	})
	if renderError != nil {
		testingHandle.Fatalf("RenderFile error: %v", renderError)
	}

	expected := "a.txt:\nhello\n\n"
	if buffer.String() != expected {
		testingHandle.Fatalf("unexpected output %q, want %q", buffer.String(), expected)
	}
}

// TestTextRendererInlineReadError verifies an unreadable file renders a notice
// instead of contents.
func TestTextRendererInlineReadError(testingHandle *testing.T) {
	rootDirectory := filepath.Join("/tmp", "work")
	var buffer bytes.Buffer
	renderer := output.NewTextRenderer(&buffer, rootDirectory, false, false, "")

	renderError := renderer.RenderFile(types.FileOutput{
		Path:      filepath.Join(rootDirectory, "locked.txt"),
		ReadError: errors.New("permission denied"),
	})
	if renderError != nil {
		testingHandle.Fatalf("RenderFile error: %v", renderError)
	}

	rendered := buffer.String()
	if !strings.Contains(rendered, "locked.txt:") {
		testingHandle.Fatalf("missing header in %q", rendered)
	}
	if !strings.Contains(rendered, "Error reading file: permission denied") {
		testingHandle.Fatalf("missing read error notice in %q", rendered)
	}
}

// TestTextRendererNamesOnly verifies names mode emits one relative path per
// line and no content.
func TestTextRendererNamesOnly(testingHandle *testing.T) {
	rootDirectory := filepath.Join("/tmp", "work")
	var buffer bytes.Buffer
	renderer := output.NewTextRenderer(&buffer, rootDirectory, false, false, "")

	paths := []string{
		filepath.Join(rootDirectory, "a.txt"),
		filepath.Join(rootDirectory, "sub", "b.txt"),
	}
	for _, path := range paths {
		if renderError := renderer.RenderName(path); renderError != nil {
			testingHandle.Fatalf("RenderName error: %v", renderError)
		}
	}

	expected := "a.txt\nsub/b.txt\n"
	if buffer.String() != expected {
		testingHandle.Fatalf("unexpected output %q, want %q", buffer.String(), expected)
	}
}

// TestTextRendererSummaryLine verifies the optional summary, including the
// singular file label and token reporting.
func TestTextRendererSummaryLine(testingHandle *testing.T) {
	testCases := []struct {
		name              string
		files             []types.FileOutput
		tokenModel        string
		expectedFragments []string
	}{
		{
			name: "single file without tokens",
			files: []types.FileOutput{
				{Path: "/tmp/work/a.txt", Content: "hello", SizeBytes: 5},
			},
			expectedFragments: []string{"Summary: 1 file, 5b"},
		},
		{
			name: "multiple files with tokens",
			files: []types.FileOutput{
				{Path: "/tmp/work/a.txt", Content: "hello", SizeBytes: 5, Tokens: 2},
				{Path: "/tmp/work/b.txt", Content: "world", SizeBytes: 5, Tokens: 3},
			},
			tokenModel:        "gpt-4o",
			expectedFragments: []string{"Summary: 2 files, 10b", "5 tokens (gpt-4o)"},
		},
		{
			name:              "zero matches",
			files:             nil,
			expectedFragments: []string{"Summary: 0 files, 0b"},
		},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			var buffer bytes.Buffer
			renderer := output.NewTextRenderer(&buffer, "/tmp/work", false, true, testCase.tokenModel)
			for _, file := range testCase.files {
				if renderError := renderer.RenderFile(file); renderError != nil {
					subTest.Fatalf("RenderFile error: %v", renderError)
				}
			}
			if flushError := renderer.Flush(); flushError != nil {
				subTest.Fatalf("Flush error: %v", flushError)
			}
			for _, fragment := range testCase.expectedFragments {
				if !strings.Contains(buffer.String(), fragment) {
					subTest.Fatalf("output %q missing fragment %q", buffer.String(), fragment)
				}
			}
		})
	}
}
