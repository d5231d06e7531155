// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/termfs/internal/config"
	"github.com/temirov/termfs/internal/services/clipboard"
	"github.com/temirov/termfs/internal/types"
	"github.com/temirov/termfs/internal/utils"
)

const (
	versionFlagName = "version"
	configFlagName  = "config"
	verboseFlagName = "verbose"
	formatFlagName  = "format"
	bytesFlagName   = "bytes"
	summaryFlagName = "summary"
	copyFlagName    = "copy"

	versionTemplate      = "termfs version: %s\n"
	rootUse              = "termfs"
	rootShortDescription = "termfs command line interface"
	rootLongDescription  = `termfs reconstructs a directory tree from a recorded shell session.
The transcript holds "$ cd <dir>" and "$ ls" commands followed by their listings.
Use tree to render the reconstructed hierarchy, small to sum the directories below a size
bound and free to pick the directory whose deletion frees enough space.
Transcripts are read from the given paths, or from standard input when none or "-" is given.`

	versionFlagDescription = "display application version"
	configFlagDescription  = "path to a configuration file"
	verboseFlagDescription = "log debug information"
	formatFlagDescription  = "output format (raw, json or xml)"
	bytesFlagDescription   = "print sizes as exact byte counts"
	summaryFlagDescription = "include summary of files, directories and bytes"
	copyFlagDescription    = "copy rendered output to the clipboard"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	clipboardCopyFailedMessage  = "copy output to clipboard failed"
	loggerRebuildErrorFormat    = "enable verbose logging: %w"
)

var errVersionDisplayed = errors.New("version displayed")

// applicationDependencies groups what the commands read from and write to.
type applicationDependencies struct {
	logger           *zap.Logger
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
	clipboard        clipboard.Copier
	workingDirectory string
	configPath       string
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the termfs application.
func Execute(logger *zap.Logger) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	dependencies := &applicationDependencies{
		logger:           logger,
		stdin:            os.Stdin,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		clipboard:        clipboard.NewService(),
		workingDirectory: workingDirectory,
	}
	return executeWithArguments(dependencies, os.Args[1:])
}

func executeWithArguments(dependencies *applicationDependencies, arguments []string) error {
	if dependencies.logger == nil {
		dependencies.logger = zap.NewNop()
	}
	rootCommand := createRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	executionError := rootCommand.Execute()
	if errors.Is(executionError, errVersionDisplayed) {
		return nil
	}
	return executionError
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies *applicationDependencies) *cobra.Command {
	var showVersion bool
	var verbose bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(dependencies.stdout, versionTemplate, utils.GetApplicationVersion())
				return errVersionDisplayed
			}
			if verbose {
				verboseLogger, loggerError := utils.NewApplicationLogger(true)
				if loggerError != nil {
					return fmt.Errorf(loggerRebuildErrorFormat, loggerError)
				}
				dependencies.logger = verboseLogger
			}
			return nil
		},
	}
	rootCommand.SetOut(dependencies.stdout)
	rootCommand.SetErr(dependencies.stderr)
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&dependencies.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createTreeCommand(dependencies),
		createSmallCommand(dependencies),
		createFreeCommand(dependencies),
		createInitCommand(dependencies),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// outputOptions stores the flags every rendering command shares.
type outputOptions struct {
	format      string
	exactSizes  bool
	copyEnabled bool
}

func addOutputFlags(command *cobra.Command, options *outputOptions, exactByDefault bool) {
	command.Flags().StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(command.Flags(), &options.exactSizes, bytesFlagName, exactByDefault, bytesFlagDescription)
	registerBooleanFlag(command.Flags(), &options.copyEnabled, copyFlagName, false, copyFlagDescription)
}

// resolve overlays configured values on flags the user did not set explicitly.
func (options outputOptions) resolve(command *cobra.Command, configured config.OutputConfiguration) (outputOptions, error) {
	resolved := options
	flags := command.Flags()
	if !flags.Changed(formatFlagName) {
		resolved.format = configured.FormatOrDefault(options.format)
	}
	if !flags.Changed(bytesFlagName) && configured.ExactSizes != nil {
		resolved.exactSizes = *configured.ExactSizes
	}
	if !flags.Changed(copyFlagName) && configured.Copy != nil {
		resolved.copyEnabled = *configured.Copy
	}
	resolved.format = strings.ToLower(resolved.format)
	if !isSupportedFormat(resolved.format) {
		return outputOptions{}, fmt.Errorf(invalidFormatMessage, resolved.format)
	}
	return resolved, nil
}

func loadConfiguration(dependencies *applicationDependencies) (config.ApplicationConfiguration, error) {
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.workingDirectory,
		ExplicitFilePath: dependencies.configPath,
	})
	if loadError != nil {
		return config.ApplicationConfiguration{}, loadError
	}
	dependencies.logger.Debug("configuration loaded",
		zap.String("workingDirectory", dependencies.workingDirectory),
		zap.String("explicitPath", dependencies.configPath),
	)
	return configuration, nil
}

// renderWithClipboard writes through render to stdout and, when copying is enabled, also
// places the same text on the clipboard. A clipboard failure is logged, not returned.
func renderWithClipboard(dependencies *applicationDependencies, copyEnabled bool, render func(io.Writer) error) error {
	if !copyEnabled {
		return render(dependencies.stdout)
	}
	recorder := clipboard.NewRecorder(dependencies.clipboard)
	if renderError := render(io.MultiWriter(dependencies.stdout, recorder)); renderError != nil {
		return renderError
	}
	if copyError := recorder.Commit(); copyError != nil {
		dependencies.logger.Warn(clipboardCopyFailedMessage, zap.Error(copyError))
		return nil
	}
	dependencies.logger.Debug("output copied to clipboard", zap.Int("bytes", recorder.Len()))
	return nil
}
