// Package search implements the file selection pipeline: glob enumeration,
// optional recursive descent, and regular-expression exclusion.
package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrEmptyPattern indicates the glob pattern was missing.
	ErrEmptyPattern = errors.New("glob pattern is empty")
	// ErrInvalidPattern indicates the glob engine rejected the pattern.
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrInvalidExcludePattern indicates an exclusion expression failed to compile.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")
	// ErrDirectoryNotFound indicates the root directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")
)

const (
	recursivePatternPrefix      = "**/"
	errorAbsolutePathFormat     = "abs failed for '%s': %w"
	errorDirectoryMissingFormat = "%w: '%s'"
	errorDirectoryStatFormat    = "stat failed for '%s': %w"
	errorNotDirectoryFormat     = "%w: '%s' is not a directory"
	errorPatternFormat          = "%w: '%s'"
	errorExcludeFormat          = "%w: '%s': %v"
	errorGlobFormat             = "glob '%s' failed: %w"
)

// Request describes one file selection run. A Request is built once by
// NewRequest and is not modified afterwards.
type Request struct {
	RootDirectory      string
	Pattern            string
	Recursive          bool
	ExcludeExpressions []*regexp.Regexp
	NamesOnly          bool
}

// NewRequest validates the inputs and constructs an immutable Request.
// The root directory is resolved to its cleaned absolute form and must exist.
// Every exclude pattern must compile as a regular expression; a compilation
// failure is reported before any traversal begins.
func NewRequest(rootDirectory string, pattern string, recursive bool, excludePatterns []string, namesOnly bool) (*Request, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf(errorPatternFormat, ErrInvalidPattern, pattern)
	}

	var excludeExpressions []*regexp.Regexp
	for _, excludePattern := range excludePatterns {
		if excludePattern == "" {
			continue
		}
		compiledExpression, compileError := regexp.Compile(excludePattern)
		if compileError != nil {
			return nil, fmt.Errorf(errorExcludeFormat, ErrInvalidExcludePattern, excludePattern, compileError)
		}
		excludeExpressions = append(excludeExpressions, compiledExpression)
	}

	absoluteRootDirectory, absolutePathError := filepath.Abs(rootDirectory)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectory, absolutePathError)
	}
	cleanedRootDirectory := filepath.Clean(absoluteRootDirectory)
	directoryInformation, directoryStatError := os.Stat(cleanedRootDirectory)
	if directoryStatError != nil {
		if os.IsNotExist(directoryStatError) {
			return nil, fmt.Errorf(errorDirectoryMissingFormat, ErrDirectoryNotFound, rootDirectory)
		}
		return nil, fmt.Errorf(errorDirectoryStatFormat, rootDirectory, directoryStatError)
	}
	if !directoryInformation.IsDir() {
		return nil, fmt.Errorf(errorNotDirectoryFormat, ErrDirectoryNotFound, rootDirectory)
	}

	return &Request{
		RootDirectory:      cleanedRootDirectory,
		Pattern:            pattern,
		Recursive:          recursive,
		ExcludeExpressions: excludeExpressions,
		NamesOnly:          namesOnly,
	}, nil
}

// Select enumerates files under the request's root directory matching its glob
// pattern and returns their absolute paths sorted lexicographically. With
// Recursive enabled the pattern is applied at every depth; otherwise it only
// matches direct children of the root. Paths whose slash-normalized absolute
// form matches any exclude expression are dropped. Directories never appear in
// the result.
func (request *Request) Select() ([]string, error) {
	globPattern := request.Pattern
	if request.Recursive {
		globPattern = recursivePatternPrefix + request.Pattern
	}

	relativeMatches, globError := doublestar.Glob(os.DirFS(request.RootDirectory), globPattern, doublestar.WithFilesOnly())
	if globError != nil {
		return nil, fmt.Errorf(errorGlobFormat, globPattern, globError)
	}

	var selectedPaths []string
	for _, relativeMatch := range relativeMatches {
		absolutePath := filepath.Join(request.RootDirectory, filepath.FromSlash(relativeMatch))
		if request.isExcluded(absolutePath) {
			continue
		}
		selectedPaths = append(selectedPaths, absolutePath)
	}
	sort.Strings(selectedPaths)
	return selectedPaths, nil
}

// isExcluded tests the slash-normalized absolute path against every exclude
// expression.
func (request *Request) isExcluded(absolutePath string) bool {
	normalizedPath := filepath.ToSlash(absolutePath)
	for _, excludeExpression := range request.ExcludeExpressions {
		if excludeExpression.MatchString(normalizedPath) {
			return true
		}
	}
	return false
}
