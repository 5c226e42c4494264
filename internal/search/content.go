package search

import (
	"os"

	"github.com/avetisov/globcat/internal/tokenizer"
	"github.com/avetisov/globcat/internal/types"
)

// CollectContents reads every selected file and returns one FileOutput per
// path in the given order. A file that cannot be read is kept in the result
// with its ReadError populated so the renderer can report it inline; a single
// unreadable file never aborts the run. When a token counter is provided the
// token count of each readable file is recorded. The warn callback, if
// non-nil, receives a message for every per-file failure.
func CollectContents(selectedPaths []string, tokenCounter tokenizer.Counter, warn func(message string)) []types.FileOutput {
	fileOutputs := make([]types.FileOutput, 0, len(selectedPaths))
	for _, selectedPath := range selectedPaths {
		fileBytes, fileReadError := os.ReadFile(selectedPath)
		if fileReadError != nil {
			if warn != nil {
				warn("failed to read file " + selectedPath + ": " + fileReadError.Error())
			}
			fileOutputs = append(fileOutputs, types.FileOutput{Path: selectedPath, ReadError: fileReadError})
			continue
		}

		fileOutput := types.FileOutput{
			Path:      selectedPath,
			Content:   string(fileBytes),
			SizeBytes: int64(len(fileBytes)),
		}
		if tokenCounter != nil {
			tokenCount, tokenCountError := tokenCounter.CountString(fileOutput.Content)
			if tokenCountError != nil {
				if warn != nil {
					warn("failed to count tokens for " + selectedPath + ": " + tokenCountError.Error())
				}
			} else {
				fileOutput.Tokens = tokenCount
			}
		}
		fileOutputs = append(fileOutputs, fileOutput)
	}
	return fileOutputs
}
