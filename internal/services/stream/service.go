package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/temirov/termfs/internal/filesystem"
	"github.com/temirov/termfs/internal/types"
	"github.com/temirov/termfs/internal/utils"
)

const (
	warningLevel                 = "warning"
	emptyTranscriptWarningFormat = "%s: transcript has no commands, rendering an empty root"
)

// TreeOptions selects what StreamTree emits.
type TreeOptions struct {
	Filesystem *filesystem.Filesystem
	Source     string
	ExactSizes bool
}

type emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
	source  string
}

func newEmitter(ctx context.Context, out chan<- Event, command string, source string) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, command: command, source: source}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = e.command
	}
	if event.Source == "" {
		event.Source = e.source
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

type directoryStackEntry struct {
	directory *filesystem.DirectoryNode
	node      *types.TreeOutputNode
	summary   SummaryEvent
	expanded  bool
}

// StreamTree walks the filesystem depth first and emits, per directory, an enter event,
// one event per file, the subdirectories and a leave event carrying the aggregated size.
// The complete tree snapshot follows the root's leave event.
func StreamTree(ctx context.Context, opts TreeOptions, out chan<- Event) error {
	if opts.Filesystem == nil {
		return fmt.Errorf("stream: filesystem is nil")
	}

	emitter := newEmitter(ctx, out, types.CommandTree, opts.Source)
	root := opts.Filesystem.Root()
	if err := emitter.send(Event{Kind: EventKindStart, Path: root.Path()}); err != nil {
		return err
	}
	if opts.Filesystem.SyntheticRoot() {
		if err := emitter.send(Event{
			Kind:    EventKindWarning,
			Path:    root.Path(),
			Message: &LogEvent{Level: warningLevel, Message: fmt.Sprintf(emptyTranscriptWarningFormat, opts.Source)},
		}); err != nil {
			return err
		}
	}

	stack := []*directoryStackEntry{newDirectoryStackEntry(root)}
	var rootNode *types.TreeOutputNode
	var total SummaryEvent

	for len(stack) > 0 {
		entry := stack[len(stack)-1]

		if !entry.expanded {
			entry.expanded = true
			if err := emitter.send(directoryEvent(entry, DirectoryEnter)); err != nil {
				return err
			}
			for _, fileNode := range entry.directory.Files() {
				if err := emitter.send(Event{
					Kind: EventKindFile,
					Path: fileNode.Path(),
					File: &FileEvent{
						Path:      fileNode.Path(),
						Name:      fileNode.Name(),
						Depth:     fileNode.Depth(),
						SizeBytes: fileNode.Size(),
					},
				}); err != nil {
					return err
				}
				entry.node.Children = append(entry.node.Children, &types.TreeOutputNode{
					Path:      fileNode.Path(),
					Name:      fileNode.Name(),
					Type:      types.NodeTypeFile,
					Depth:     fileNode.Depth(),
					Size:      utils.FormatSize(fileNode.Size(), opts.ExactSizes),
					SizeBytes: fileNode.Size(),
				})
				entry.summary.Files++
				entry.summary.Bytes += fileNode.Size()
			}
			subdirectories := entry.directory.Subdirectories()
			for index := len(subdirectories) - 1; index >= 0; index-- {
				stack = append(stack, newDirectoryStackEntry(subdirectories[index]))
			}
			continue
		}

		stack = stack[:len(stack)-1]
		entry.node.SizeBytes = entry.summary.Bytes
		entry.node.Size = utils.FormatSize(entry.summary.Bytes, opts.ExactSizes)
		entry.node.TotalFiles = entry.summary.Files
		if err := emitter.send(directoryEvent(entry, DirectoryLeave)); err != nil {
			return err
		}

		if len(stack) == 0 {
			rootNode = entry.node
			total = entry.summary
			break
		}
		parent := findParentEntry(stack, entry.directory.Parent())
		if parent == nil {
			return fmt.Errorf("stream: directory stack mismatch for %s", entry.directory.Path())
		}
		parent.node.Children = append(parent.node.Children, entry.node)
		parent.summary.Files += entry.summary.Files
		parent.summary.Directories += entry.summary.Directories + 1
		parent.summary.Bytes += entry.summary.Bytes
	}

	if err := emitter.send(Event{Kind: EventKindTree, Path: rootNode.Path, Tree: rootNode}); err != nil {
		return err
	}
	if err := emitter.send(Event{Kind: EventKindSummary, Summary: &total}); err != nil {
		return err
	}
	return emitter.send(Event{Kind: EventKindDone})
}

func newDirectoryStackEntry(directory *filesystem.DirectoryNode) *directoryStackEntry {
	return &directoryStackEntry{
		directory: directory,
		node: &types.TreeOutputNode{
			Path:  directory.Path(),
			Name:  directory.Name(),
			Type:  types.NodeTypeDirectory,
			Depth: directory.Depth(),
		},
	}
}

func directoryEvent(entry *directoryStackEntry, phase DirectoryPhase) Event {
	directory := &DirectoryEvent{
		Phase: phase,
		Path:  entry.node.Path,
		Name:  entry.node.Name,
		Depth: entry.node.Depth,
	}
	if phase == DirectoryLeave {
		summary := entry.summary
		directory.Summary = &summary
	}
	return Event{Kind: EventKindDirectory, Path: entry.node.Path, Directory: directory}
}

// findParentEntry returns the expanded stack entry for parent. Pending siblings sit above it.
func findParentEntry(stack []*directoryStackEntry, parent *filesystem.DirectoryNode) *directoryStackEntry {
	for index := len(stack) - 1; index >= 0; index-- {
		if stack[index].directory == parent && stack[index].expanded {
			return stack[index]
		}
	}
	return nil
}
