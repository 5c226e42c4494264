// Package types defines cross-package data structures used by the globcat CLI.
package types

// FileOutput represents one matched file handed to a renderer in content mode.
type FileOutput struct {
	Path      string
	Content   string
	SizeBytes int64
	Tokens    int
	ReadError error
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles  int
	TotalSize   string
	TotalTokens int
	Model       string
}
