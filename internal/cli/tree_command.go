package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/termfs/internal/output"
	"github.com/temirov/termfs/internal/services/stream"
)

const (
	treeUse              = "tree [transcripts...]"
	treeAlias            = "t"
	treeShortDescription = "display the reconstructed directory tree (" + treeAlias + ")"
	treeLongDescription  = `Reconstruct the directory tree recorded in each transcript and render it with
aggregated directory sizes. Use --format to select raw, json, or xml output.`
	treeUsageExample = `  # Render the tree with exact byte counts
  termfs tree --bytes session.txt

  # Read the transcript from standard input as JSON
  cat session.txt | termfs t --format json`
)

type treeOptions struct {
	outputOptions
	summaryEnabled bool
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(dependencies *applicationDependencies) *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, configurationError := loadConfiguration(dependencies)
			if configurationError != nil {
				return configurationError
			}
			resolved, resolveError := options.outputOptions.resolve(command, configuration.Tree.OutputConfiguration)
			if resolveError != nil {
				return resolveError
			}
			sources, sourcesError := resolveTranscriptSources(arguments)
			if sourcesError != nil {
				return sourcesError
			}
			transcripts, loadError := loadTranscripts(command.Context(), dependencies, sources)
			if loadError != nil {
				return loadError
			}
			return renderWithClipboard(dependencies, resolved.copyEnabled, func(writer io.Writer) error {
				return runTree(command.Context(), transcripts, resolved, options.summaryEnabled, writer, dependencies.stderr)
			})
		},
	}

	addOutputFlags(treeCommand, &options.outputOptions, false)
	registerBooleanFlag(treeCommand.Flags(), &options.summaryEnabled, summaryFlagName, true, summaryFlagDescription)
	return treeCommand
}

// runTree streams every transcript's tree through one renderer.
func runTree(ctx context.Context, transcripts []loadedTranscript, options outputOptions, withSummary bool, stdout io.Writer, stderr io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	renderer, rendererError := output.NewStreamRenderer(options.format, stdout, stderr, withSummary)
	if rendererError != nil {
		return rendererError
	}
	defer func() {
		if flushErr := renderer.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}()

	for _, loaded := range transcripts {
		streamOptions := stream.TreeOptions{
			Filesystem: loaded.filesystem,
			Source:     loaded.displayName(),
			ExactSizes: options.exactSizes,
		}
		producer := func(streamCtx context.Context, ch chan<- stream.Event) error {
			return stream.StreamTree(streamCtx, streamOptions, ch)
		}
		if streamErr := dispatchStream(ctx, producer, renderer.Handle); streamErr != nil {
			return streamErr
		}
	}
	return nil
}

func dispatchStream(
	ctx context.Context,
	produce func(context.Context, chan<- stream.Event) error,
	consume func(stream.Event) error,
) error {
	group, streamCtx := errgroup.WithContext(ctx)
	events := make(chan stream.Event)

	group.Go(func() error {
		defer close(events)
		return produce(streamCtx, events)
	})

	group.Go(func() error {
		for {
			select {
			case <-streamCtx.Done():
				return streamCtx.Err()
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := consume(event); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
