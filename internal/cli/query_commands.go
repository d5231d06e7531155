package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/termfs/internal/config"
	"github.com/temirov/termfs/internal/output"
	"github.com/temirov/termfs/internal/query"
	"github.com/temirov/termfs/internal/types"
	"github.com/temirov/termfs/internal/utils"
)

const (
	smallUse              = "small [transcripts...]"
	smallAlias            = "s"
	smallShortDescription = "sum the directories of at most a size (" + smallAlias + ")"
	smallLongDescription  = `List every directory, the root included, whose aggregated size is at most
--threshold bytes, together with the sum of their sizes. Nested directories are counted
in their own right, so a file may contribute to the sum more than once.`
	smallUsageExample = `  # Directories of at most 100000 bytes
  termfs small session.txt

  # Use a different bound and XML output
  termfs s --threshold 5000 --format xml session.txt`

	freeUse              = "free [transcripts...]"
	freeAlias            = "f"
	freeShortDescription = "pick the smallest directory to delete for free space (" + freeAlias + ")"
	freeLongDescription  = `Compute how much must be deleted so that --required bytes are unused on a device
of --capacity bytes, and report the smallest directory whose deletion is enough.`
	freeUsageExample = `  # Defaults: capacity 70000000, required 30000000
  termfs free session.txt

  # Custom device
  termfs f --capacity 1000000 --required 250000 session.txt`

	thresholdFlagName        = "threshold"
	capacityFlagName         = "capacity"
	requiredFlagName         = "required"
	thresholdFlagDescription = "largest directory size, in bytes, still reported"
	capacityFlagDescription  = "total device capacity in bytes"
	requiredFlagDescription  = "unused space required in bytes"

	errorQueryFormat = "query %s: %w"
)

type smallOptions struct {
	outputOptions
	threshold int64
}

type freeOptions struct {
	outputOptions
	capacity int64
	required int64
}

// createSmallCommand returns the small subcommand.
func createSmallCommand(dependencies *applicationDependencies) *cobra.Command {
	var options smallOptions

	smallCommand := &cobra.Command{
		Use:     smallUse,
		Aliases: []string{smallAlias},
		Short:   smallShortDescription,
		Long:    smallLongDescription,
		Example: smallUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationError := loadConfiguration(dependencies)
			if configurationError != nil {
				return configurationError
			}
			resolved, resolveError := options.outputOptions.resolve(command, configuration.Small.OutputConfiguration)
			if resolveError != nil {
				return resolveError
			}
			threshold := options.threshold
			if !command.Flags().Changed(thresholdFlagName) {
				threshold = configuration.Small.ThresholdOrDefault()
			}
			return runQuery(command, dependencies, arguments, resolved, func(loaded loadedTranscript) (types.QueryReport, error) {
				return buildSmallReport(loaded, threshold, resolved.exactSizes)
			})
		},
	}

	addOutputFlags(smallCommand, &options.outputOptions, true)
	smallCommand.Flags().Int64Var(&options.threshold, thresholdFlagName, config.DefaultSmallThreshold, thresholdFlagDescription)
	return smallCommand
}

// createFreeCommand returns the free subcommand.
func createFreeCommand(dependencies *applicationDependencies) *cobra.Command {
	var options freeOptions

	freeCommand := &cobra.Command{
		Use:     freeUse,
		Aliases: []string{freeAlias},
		Short:   freeShortDescription,
		Long:    freeLongDescription,
		Example: freeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationError := loadConfiguration(dependencies)
			if configurationError != nil {
				return configurationError
			}
			resolved, resolveError := options.outputOptions.resolve(command, configuration.Free.OutputConfiguration)
			if resolveError != nil {
				return resolveError
			}
			capacity := options.capacity
			if !command.Flags().Changed(capacityFlagName) {
				capacity = configuration.Free.CapacityOrDefault()
			}
			required := options.required
			if !command.Flags().Changed(requiredFlagName) {
				required = configuration.Free.RequiredOrDefault()
			}
			return runQuery(command, dependencies, arguments, resolved, func(loaded loadedTranscript) (types.QueryReport, error) {
				return buildFreeReport(loaded, capacity, required, resolved.exactSizes)
			})
		},
	}

	addOutputFlags(freeCommand, &options.outputOptions, true)
	freeCommand.Flags().Int64Var(&options.capacity, capacityFlagName, config.DefaultCapacity, capacityFlagDescription)
	freeCommand.Flags().Int64Var(&options.required, requiredFlagName, config.DefaultRequired, requiredFlagDescription)
	return freeCommand
}

func runQuery(
	command *cobra.Command,
	dependencies *applicationDependencies,
	arguments []string,
	options outputOptions,
	buildReport func(loadedTranscript) (types.QueryReport, error),
) error {
	sources, sourcesError := resolveTranscriptSources(arguments)
	if sourcesError != nil {
		return sourcesError
	}
	transcripts, loadError := loadTranscripts(command.Context(), dependencies, sources)
	if loadError != nil {
		return loadError
	}
	reports := make([]types.QueryReport, 0, len(transcripts))
	for _, loaded := range transcripts {
		report, reportError := buildReport(loaded)
		if reportError != nil {
			return fmt.Errorf(errorQueryFormat, loaded.displayName(), reportError)
		}
		dependencies.logger.Debug("query evaluated",
			zap.String("command", report.Command),
			zap.String("source", report.Source),
			zap.Int("directories", len(report.Directories)),
		)
		reports = append(reports, report)
	}
	rendered, renderError := output.RenderReports(options.format, reports)
	if renderError != nil {
		return renderError
	}
	return renderWithClipboard(dependencies, options.copyEnabled, func(writer io.Writer) error {
		_, writeError := io.WriteString(writer, ensureTrailingNewline(rendered))
		return writeError
	})
}

func buildSmallReport(loaded loadedTranscript, threshold int64, exactSizes bool) (types.QueryReport, error) {
	directories, findError := query.FindDirectoriesAtMostSize(loaded.filesystem, threshold)
	if findError != nil {
		return types.QueryReport{}, findError
	}
	total, sumError := query.SumSizes(directories)
	if sumError != nil {
		return types.QueryReport{}, sumError
	}
	return types.QueryReport{
		Command:     types.CommandSmall,
		Source:      loaded.displayName(),
		Threshold:   threshold,
		UsedBytes:   loaded.filesystem.TotalSize(),
		Directories: directoryOutputs(directories, exactSizes),
		TotalBytes:  total,
		TotalSize:   utils.FormatSize(total, exactSizes),
	}, nil
}

func buildFreeReport(loaded loadedTranscript, capacity int64, required int64, exactSizes bool) (types.QueryReport, error) {
	needed, spaceError := query.SpaceToFree(loaded.filesystem, capacity, required)
	if spaceError != nil {
		return types.QueryReport{}, spaceError
	}
	report := types.QueryReport{
		Command:     types.CommandFree,
		Source:      loaded.displayName(),
		Capacity:    capacity,
		Required:    required,
		UsedBytes:   loaded.filesystem.TotalSize(),
		NeededBytes: needed,
		Directories: []types.DirectoryOutput{},
		TotalSize:   utils.FormatSize(0, exactSizes),
	}
	if needed == 0 {
		return report, nil
	}
	candidate, found, findError := query.FindSmallestDirectoryAtLeastSize(loaded.filesystem, needed)
	if findError != nil {
		return types.QueryReport{}, findError
	}
	if found {
		report.Directories = directoryOutputs([]query.DirectoryReport{candidate}, exactSizes)
		report.TotalBytes = candidate.Size
		report.TotalSize = utils.FormatSize(candidate.Size, exactSizes)
	}
	return report, nil
}

func directoryOutputs(directories []query.DirectoryReport, exactSizes bool) []types.DirectoryOutput {
	outputs := make([]types.DirectoryOutput, 0, len(directories))
	for _, directory := range directories {
		outputs = append(outputs, types.DirectoryOutput{
			Name:      directory.Name,
			Path:      directory.Path,
			Size:      utils.FormatSize(directory.Size, exactSizes),
			SizeBytes: directory.Size,
		})
	}
	return outputs
}

func ensureTrailingNewline(text string) string {
	if text == "" || text[len(text)-1] == '\n' {
		return text
	}
	return text + "\n"
}
