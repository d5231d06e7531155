package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/termfs/internal/filesystem"
	"github.com/temirov/termfs/internal/transcript"
	"github.com/temirov/termfs/internal/types"
)

const (
	standardInputDisplayName = "<stdin>"

	errorOpenTranscriptFormat    = "open transcript %s: %w"
	errorParseTranscriptFormat   = "parse transcript %s: %w"
	errorBuildFilesystemFormat   = "reconstruct filesystem from %s: %w"
	errorStandardInputRepeated   = "standard input may be named only once"
	errorStandardInputUnassigned = "standard input is not available"
)

// loadedTranscript is one transcript reconstructed into a filesystem.
type loadedTranscript struct {
	source       types.TranscriptSource
	filesystem   *filesystem.Filesystem
	commandCount int
}

func (loaded loadedTranscript) displayName() string {
	return sourceDisplayName(loaded.source)
}

func sourceDisplayName(source types.TranscriptSource) string {
	if source.IsStdin {
		return standardInputDisplayName
	}
	return source.Path
}

// resolveTranscriptSources maps command arguments to sources. No argument selects stdin.
func resolveTranscriptSources(arguments []string) ([]types.TranscriptSource, error) {
	if len(arguments) == 0 {
		return []types.TranscriptSource{{Path: types.StandardInputPath, IsStdin: true}}, nil
	}
	sources := make([]types.TranscriptSource, 0, len(arguments))
	stdinNamed := false
	for _, argument := range arguments {
		if argument == types.StandardInputPath {
			if stdinNamed {
				return nil, errors.New(errorStandardInputRepeated)
			}
			stdinNamed = true
			sources = append(sources, types.TranscriptSource{Path: argument, IsStdin: true})
			continue
		}
		sources = append(sources, types.TranscriptSource{Path: argument})
	}
	return sources, nil
}

// loadTranscripts parses and reconstructs every source concurrently. Results keep the order
// of sources and the first failure cancels the remaining work.
func loadTranscripts(ctx context.Context, dependencies *applicationDependencies, sources []types.TranscriptSource) ([]loadedTranscript, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]loadedTranscript, len(sources))
	group, groupContext := errgroup.WithContext(ctx)
	for index, source := range sources {
		index, source := index, source
		group.Go(func() error {
			loaded, loadError := loadTranscript(groupContext, dependencies.stdin, source)
			if loadError != nil {
				return loadError
			}
			results[index] = loaded
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	for _, loaded := range results {
		dependencies.logger.Debug("transcript reconstructed",
			zap.String("source", loaded.displayName()),
			zap.Int("commands", loaded.commandCount),
			zap.Int64("bytes", loaded.filesystem.TotalSize()),
		)
	}
	return results, nil
}

func loadTranscript(ctx context.Context, stdin io.Reader, source types.TranscriptSource) (loadedTranscript, error) {
	if ctxError := ctx.Err(); ctxError != nil {
		return loadedTranscript{}, ctxError
	}
	name := sourceDisplayName(source)

	var reader io.Reader
	if source.IsStdin {
		if stdin == nil {
			return loadedTranscript{}, errors.New(errorStandardInputUnassigned)
		}
		reader = stdin
	} else {
		file, openError := os.Open(source.Path)
		if openError != nil {
			return loadedTranscript{}, fmt.Errorf(errorOpenTranscriptFormat, source.Path, openError)
		}
		defer file.Close()
		reader = file
	}

	commands, parseError := transcript.ParseReader(reader)
	if parseError != nil {
		return loadedTranscript{}, fmt.Errorf(errorParseTranscriptFormat, name, parseError)
	}
	if ctxError := ctx.Err(); ctxError != nil {
		return loadedTranscript{}, ctxError
	}
	reconstructed, buildError := filesystem.Build(commands)
	if buildError != nil {
		return loadedTranscript{}, fmt.Errorf(errorBuildFilesystemFormat, name, buildError)
	}
	return loadedTranscript{source: source, filesystem: reconstructed, commandCount: len(commands)}, nil
}
