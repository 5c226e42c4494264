// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avetisov/globcat/internal/config"
	"github.com/avetisov/globcat/internal/output"
	"github.com/avetisov/globcat/internal/search"
	"github.com/avetisov/globcat/internal/services/clipboard"
	"github.com/avetisov/globcat/internal/tokenizer"
	"github.com/avetisov/globcat/internal/utils"
)

const (
	recursiveFlagName = "recursive"
	directoryFlagName = "directory"
	outputFlagName    = "output"
	appendFlagName    = "append"
	excludeFlagName   = "exclude"
	namesOnlyFlagName = "names-only"
	summaryFlagName   = "summary"
	tokensFlagName    = "tokens"
	modelFlagName     = "model"
	copyFlagName      = "copy"
	noColorFlagName   = "no-color"
	configFlagName    = "config"
	versionFlagName   = "version"

	recursiveFlagShorthand = "r"
	directoryFlagShorthand = "d"
	outputFlagShorthand    = "o"
	appendFlagShorthand    = "a"
	excludeFlagShorthand   = "x"
	namesOnlyFlagShorthand = "n"

	recursiveFlagDescription = "search subdirectories recursively"
	directoryFlagDescription = "root directory to search"
	outputFlagDescription    = "write output to file instead of standard output"
	appendFlagDescription    = "append to the output file instead of overwriting"
	excludeFlagDescription   = "regular expression excluding matching paths"
	namesOnlyFlagDescription = "print matched file paths without contents"
	summaryFlagDescription   = "append a summary of rendered files"
	tokensFlagDescription    = "include token counts in the summary"
	modelFlagDescription     = "tokenizer model to use for token counting"
	copyFlagDescription      = "copy rendered output to the system clipboard"
	noColorFlagDescription   = "disable colorized path headers"
	configFlagDescription    = "configuration file path"
	versionFlagDescription   = "display application version"

	defaultDirectory          = "."
	defaultTokenizerModelName = "gpt-4o"
	versionTemplate           = "globcat version: %s\n"

	rootUse              = "globcat <pattern>"
	rootShortDescription = "globcat prints files matching a glob pattern"
	rootLongDescription  = `globcat searches a directory for files matching a glob pattern and prints
their contents, each preceded by a header line holding the path relative to
the searched directory and followed by a blank separator line.

Use -r to descend into subdirectories, -x to exclude paths matching a regular
expression, and -n to list matched paths without their contents. Output goes
to standard output unless -o names a destination file.`
	rootUsageExample = `  # Print every Go file under the current directory
  globcat -r '*.go'

  # List matching paths only, skipping anything under vendor
  globcat -r -n -x '/vendor/' '*.go'

  # Collect Markdown files into one document
  globcat -r -o notes.txt '*.md'`

	warningMessageFormat      = "Warning: %s\n"
	warningClipboardFormat    = "Warning: failed to copy output to clipboard: %v\n"
	errorLoadConfigFormat     = "load configuration: %w"
	errorRenderFormat         = "write output: %w"
	errorTokenizerFormat      = "initialize tokenizer: %w"
	errorAppendWithoutOutput  = "append flag requires an output file"
	errorExactPatternArgument = "exactly one glob pattern argument is required"
)

// Execute runs the globcat application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// runOptions stores the flag values of one invocation.
type runOptions struct {
	recursive       bool
	directory       string
	outputPath      string
	appendOutput    bool
	excludePattern  string
	namesOnly       bool
	includeSummary  bool
	includeTokens   bool
	tokenModel      string
	copyToClipboard bool
	disableColor    bool
	configPath      string
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options runOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) != 1 {
				return fmt.Errorf(errorExactPatternArgument)
			}
			return run(command, arguments[0], options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().BoolVarP(&options.recursive, recursiveFlagName, recursiveFlagShorthand, false, recursiveFlagDescription)
	rootCommand.Flags().StringVarP(&options.directory, directoryFlagName, directoryFlagShorthand, defaultDirectory, directoryFlagDescription)
	rootCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	rootCommand.Flags().BoolVarP(&options.appendOutput, appendFlagName, appendFlagShorthand, false, appendFlagDescription)
	rootCommand.Flags().StringVarP(&options.excludePattern, excludeFlagName, excludeFlagShorthand, "", excludeFlagDescription)
	rootCommand.Flags().BoolVarP(&options.namesOnly, namesOnlyFlagName, namesOnlyFlagShorthand, false, namesOnlyFlagDescription)
	rootCommand.Flags().BoolVar(&options.includeSummary, summaryFlagName, false, summaryFlagDescription)
	rootCommand.Flags().BoolVar(&options.includeTokens, tokensFlagName, false, tokensFlagDescription)
	rootCommand.Flags().StringVar(&options.tokenModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVar(&options.disableColor, noColorFlagName, false, noColorFlagDescription)
	rootCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)

	return rootCommand
}

// applyConfigurationDefaults overlays configuration file values onto flags the
// user did not set on the command line. Flags always win when changed.
func applyConfigurationDefaults(command *cobra.Command, options *runOptions, configuration config.ApplicationConfiguration) {
	flagSet := command.Flags()
	if !flagSet.Changed(recursiveFlagName) && configuration.Search.Recursive != nil {
		options.recursive = *configuration.Search.Recursive
	}
	if !flagSet.Changed(directoryFlagName) && configuration.Search.Directory != "" {
		options.directory = configuration.Search.Directory
	}
	if !flagSet.Changed(namesOnlyFlagName) && configuration.Output.NamesOnly != nil {
		options.namesOnly = *configuration.Output.NamesOnly
	}
	if !flagSet.Changed(summaryFlagName) && configuration.Output.Summary != nil {
		options.includeSummary = *configuration.Output.Summary
	}
	if !flagSet.Changed(noColorFlagName) && configuration.Output.Color != nil {
		options.disableColor = !*configuration.Output.Color
	}
	if !flagSet.Changed(copyFlagName) && configuration.Output.Clipboard != nil {
		options.copyToClipboard = *configuration.Output.Clipboard
	}
	if !flagSet.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		options.includeTokens = *configuration.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		options.tokenModel = configuration.Tokens.Model
	}
}

// run executes one selection and rendering pass for the given pattern.
func run(command *cobra.Command, pattern string, options runOptions) (err error) {
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
	if configurationError != nil {
		return fmt.Errorf(errorLoadConfigFormat, configurationError)
	}
	applyConfigurationDefaults(command, &options, configuration)

	if options.appendOutput && options.outputPath == "" {
		return fmt.Errorf(errorAppendWithoutOutput)
	}

	excludePatterns := append([]string{}, configuration.Search.Exclude...)
	if options.excludePattern != "" {
		excludePatterns = append(excludePatterns, options.excludePattern)
	}

	request, requestError := search.NewRequest(options.directory, pattern, options.recursive, excludePatterns, options.namesOnly)
	if requestError != nil {
		return requestError
	}

	selectedPaths, selectError := request.Select()
	if selectError != nil {
		return selectError
	}

	var tokenCounter tokenizer.Counter
	tokenModel := ""
	if options.includeTokens && !options.namesOnly {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(options.tokenModel)
		if counterError != nil {
			return fmt.Errorf(errorTokenizerFormat, counterError)
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
		options.includeSummary = true
	}

	sink, sinkError := openSink(options)
	if sinkError != nil {
		return sinkError
	}
	defer func() {
		if closeError := sink.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	colorEnabled := sink.IsTerminal() && !options.disableColor
	renderer := output.NewTextRenderer(sink.Writer(), request.RootDirectory, colorEnabled, options.includeSummary, tokenModel)

	if renderError := renderSelection(renderer, request, selectedPaths, tokenCounter); renderError != nil {
		return fmt.Errorf(errorRenderFormat, renderError)
	}

	if options.copyToClipboard {
		copier := clipboard.NewService()
		if copyError := copier.Copy(sink.Captured()); copyError != nil {
			fmt.Fprintf(os.Stderr, warningClipboardFormat, copyError)
		}
	}

	return nil
}

// openSink opens the destination selected by the output flags.
func openSink(options runOptions) (*output.Sink, error) {
	if options.outputPath == "" {
		return output.NewStdoutSink(options.copyToClipboard), nil
	}
	return output.NewFileSink(options.outputPath, options.appendOutput, options.copyToClipboard)
}

// renderSelection feeds the selected paths through the renderer in order.
func renderSelection(renderer output.Renderer, request *search.Request, selectedPaths []string, tokenCounter tokenizer.Counter) error {
	if request.NamesOnly {
		for _, selectedPath := range selectedPaths {
			if renderError := renderer.RenderName(selectedPath); renderError != nil {
				return renderError
			}
		}
		return renderer.Flush()
	}

	fileOutputs := search.CollectContents(selectedPaths, tokenCounter, func(message string) {
		fmt.Fprintf(os.Stderr, warningMessageFormat, message)
	})
	for _, fileOutput := range fileOutputs {
		if renderError := renderer.RenderFile(fileOutput); renderError != nil {
			return renderError
		}
	}
	return renderer.Flush()
}
