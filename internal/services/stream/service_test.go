package stream_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/temirov/termfs/internal/filesystem"
	"github.com/temirov/termfs/internal/services/stream"
	"github.com/temirov/termfs/internal/transcript"
	"github.com/temirov/termfs/internal/types"
)

func buildExampleFilesystem(t *testing.T) *filesystem.Filesystem {
	t.Helper()
	commands, parseError := transcript.Parse([]string{
		"$ cd /", "$ ls", "dir a", "14848514 b.txt", "8504156 c.dat", "dir d",
		"$ cd a", "$ ls", "dir e", "29116 f", "2557 g", "62596 h.lst",
		"$ cd e", "$ ls", "584 i",
		"$ cd ..", "$ cd ..", "$ cd d", "$ ls",
		"4060174 j", "8033020 d.log", "5626152 d.ext", "7214296 k",
	})
	if parseError != nil {
		t.Fatalf("Parse error: %v", parseError)
	}
	builtFilesystem, buildError := filesystem.Build(commands)
	if buildError != nil {
		t.Fatalf("Build error: %v", buildError)
	}
	return builtFilesystem
}

func collectEvents(t *testing.T, options stream.TreeOptions) []stream.Event {
	t.Helper()
	events := make(chan stream.Event, 128)
	if err := stream.StreamTree(context.Background(), options, events); err != nil {
		t.Fatalf("StreamTree error: %v", err)
	}
	close(events)
	var collected []stream.Event
	for event := range events {
		collected = append(collected, event)
	}
	return collected
}

func TestStreamTreeEmitsOrderedEvents(t *testing.T) {
	builtFilesystem := buildExampleFilesystem(t)
	events := collectEvents(t, stream.TreeOptions{Filesystem: builtFilesystem, Source: "example.txt", ExactSizes: true})

	if events[0].Kind != stream.EventKindStart || events[len(events)-1].Kind != stream.EventKindDone {
		t.Fatalf("unexpected framing events %s ... %s", events[0].Kind, events[len(events)-1].Kind)
	}

	var directoryOrder []string
	leaveSizes := map[string]int64{}
	var fileCount int
	var tree *types.TreeOutputNode
	var summary *stream.SummaryEvent
	for _, event := range events {
		if event.Version != stream.SchemaVersion || event.Command != types.CommandTree || event.Source != "example.txt" {
			t.Fatalf("unexpected envelope %+v", event)
		}
		switch event.Kind {
		case stream.EventKindDirectory:
			if event.Directory.Phase == stream.DirectoryEnter {
				directoryOrder = append(directoryOrder, event.Directory.Path)
			} else {
				leaveSizes[event.Directory.Path] = event.Directory.Summary.Bytes
			}
		case stream.EventKindFile:
			fileCount++
		case stream.EventKindTree:
			tree = event.Tree
		case stream.EventKindSummary:
			summary = event.Summary
		}
	}

	expectedOrder := []string{"/", "/a", "/a/e", "/d"}
	if len(directoryOrder) != len(expectedOrder) {
		t.Fatalf("expected %v, got %v", expectedOrder, directoryOrder)
	}
	for index := range expectedOrder {
		if directoryOrder[index] != expectedOrder[index] {
			t.Fatalf("expected %v, got %v", expectedOrder, directoryOrder)
		}
	}
	expectedSizes := map[string]int64{"/": 48381165, "/a": 94853, "/a/e": 584, "/d": 24933642}
	for path, size := range expectedSizes {
		if leaveSizes[path] != size {
			t.Fatalf("expected %s to total %d, got %d", path, size, leaveSizes[path])
		}
	}
	if fileCount != 10 {
		t.Fatalf("expected 10 file events, got %d", fileCount)
	}
	if summary == nil || summary.Files != 10 || summary.Directories != 3 || summary.Bytes != 48381165 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if tree == nil || tree.SizeBytes != 48381165 || tree.Size != "48381165" || len(tree.Children) != 4 {
		t.Fatalf("unexpected tree snapshot %+v", tree)
	}
	if tree.Children[0].Name != "b.txt" || tree.Children[2].Name != "a" || tree.Children[3].Name != "d" {
		t.Fatalf("expected files before subdirectories in insertion order")
	}
	if tree.Children[2].Children[0].Name != "f" || tree.Children[2].Children[3].Name != "e" {
		t.Fatalf("unexpected children of a: %+v", tree.Children[2].Children)
	}
}

func TestStreamTreeHonorsCancellation(t *testing.T) {
	builtFilesystem := buildExampleFilesystem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := stream.StreamTree(ctx, stream.TreeOptions{Filesystem: builtFilesystem}, make(chan stream.Event))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStreamTreeRejectsMissingFilesystem(t *testing.T) {
	if err := stream.StreamTree(context.Background(), stream.TreeOptions{}, make(chan stream.Event, 1)); err == nil {
		t.Fatalf("expected error for nil filesystem")
	}
}

func TestStreamTreeWarnsAboutEmptyTranscript(t *testing.T) {
	builtFilesystem, buildError := filesystem.Build(nil)
	if buildError != nil {
		t.Fatalf("Build error: %v", buildError)
	}
	events := collectEvents(t, stream.TreeOptions{Filesystem: builtFilesystem, Source: "empty.txt"})
	if len(events) < 2 || events[1].Kind != stream.EventKindWarning {
		t.Fatalf("expected a warning right after the start event, got %+v", events)
	}
	if events[1].Message == nil || !strings.Contains(events[1].Message.Message, "empty.txt") {
		t.Fatalf("warning should name the transcript, got %+v", events[1].Message)
	}

	for _, event := range collectEvents(t, stream.TreeOptions{Filesystem: buildExampleFilesystem(t)}) {
		if event.Kind == stream.EventKindWarning {
			t.Fatalf("unexpected warning for a populated transcript: %+v", event.Message)
		}
	}
}
