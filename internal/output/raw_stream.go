package output

import (
	"fmt"
	"io"

	"github.com/temirov/termfs/internal/services/stream"
	"github.com/temirov/termfs/internal/types"
	"github.com/temirov/termfs/internal/utils"
)

type rawTree struct {
	source  string
	node    *types.TreeOutputNode
	summary *stream.SummaryEvent
}

type rawStreamRenderer struct {
	stdout         io.Writer
	stderr         io.Writer
	includeSummary bool
	trees          []*rawTree
}

func NewRawStreamRenderer(stdout, stderr io.Writer, includeSummary bool) StreamRenderer {
	return &rawStreamRenderer{
		stdout:         stdout,
		stderr:         stderr,
		includeSummary: includeSummary,
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	writeWarning(renderer.stderr, event)
	switch event.Kind {
	case stream.EventKindTree:
		if event.Tree != nil {
			renderer.trees = append(renderer.trees, &rawTree{source: event.Source, node: event.Tree})
		}
	case stream.EventKindSummary:
		if len(renderer.trees) > 0 && event.Summary != nil {
			renderer.trees[len(renderer.trees)-1].summary = event.Summary
		}
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	for index, tree := range renderer.trees {
		if index > 0 {
			fmt.Fprintln(renderer.stdout)
		}
		if len(renderer.trees) > 1 && tree.source != "" {
			fmt.Fprintf(renderer.stdout, transcriptHeaderFormat, tree.source)
		}
		WriteTreeRaw(renderer.stdout, tree.node)
		if renderer.includeSummary && tree.summary != nil {
			fmt.Fprintln(renderer.stdout, FormatSummaryLine(&types.OutputSummary{
				TotalFiles:       tree.summary.Files,
				TotalDirectories: tree.summary.Directories,
				TotalSize:        utils.FormatFileSize(tree.summary.Bytes),
			}))
		}
	}
	return nil
}

// WriteTreeRaw renders a directory tree with box drawing connectors.
func WriteTreeRaw(writer io.Writer, node *types.TreeOutputNode) {
	if node == nil {
		return
	}
	renderTreeNode(writer, node, "", true, true)
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, isRoot bool, isLast bool) {
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	if node.Type == types.NodeTypeDirectory {
		fmt.Fprintf(writer, "%s%s (dir, %s)\n", linePrefix, node.Name, node.Size)
	} else {
		fmt.Fprintf(writer, "%s%s (file, %s)\n", linePrefix, node.Name, node.Size)
	}
	for index, child := range node.Children {
		if child == nil {
			continue
		}
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1)
	}
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	fileLabel := "files"
	if summary.TotalFiles == 1 {
		fileLabel = "file"
	}
	directoryLabel := "directories"
	if summary.TotalDirectories == 1 {
		directoryLabel = "directory"
	}
	return fmt.Sprintf("Summary: %d %s, %d %s, %s", summary.TotalFiles, fileLabel, summary.TotalDirectories, directoryLabel, summary.TotalSize)
}
