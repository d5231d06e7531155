package filesystem_test

import (
	"fmt"
	"testing"

	"github.com/temirov/termfs/internal/filesystem"
	"github.com/temirov/termfs/internal/transcript"
)

const deepTreeLevels = 10000

func TestSizeOfHandlesDeepTrees(testingHandle *testing.T) {
	commands := []transcript.Command{transcript.ChangeDirectory{Target: filesystem.RootDirectoryName}}
	for level := 0; level < deepTreeLevels; level++ {
		commands = append(commands,
			transcript.ListDirectory{Files: []transcript.File{{Name: "f", Size: 1}}},
			transcript.ChangeDirectory{Target: fmt.Sprintf("level%d", level)},
		)
	}
	builtFilesystem, buildError := filesystem.Build(commands)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if totalSize := builtFilesystem.TotalSize(); totalSize != deepTreeLevels {
		testingHandle.Fatalf("expected %d, got %d", deepTreeLevels, totalSize)
	}
	sizes := filesystem.Sizes(builtFilesystem.Root())
	if len(sizes) != deepTreeLevels+1 || sizes[builtFilesystem.Root()] != deepTreeLevels {
		testingHandle.Fatalf("unexpected size table of %d entries", len(sizes))
	}
}

func TestSizesMatchesSizeOf(testingHandle *testing.T) {
	builtFilesystem := buildFromLines(testingHandle, exampleTranscriptLines)
	sizes := filesystem.Sizes(builtFilesystem.Root())
	walkError := builtFilesystem.Walk(func(directory *filesystem.DirectoryNode) error {
		if sizes[directory] != filesystem.SizeOf(directory) {
			return fmt.Errorf("size mismatch for %s: %d != %d", directory.Path(), sizes[directory], filesystem.SizeOf(directory))
		}
		return nil
	})
	if walkError != nil {
		testingHandle.Fatal(walkError)
	}
}

func TestSizeOfFileAndNil(testingHandle *testing.T) {
	builtFilesystem := buildFromLines(testingHandle, []string{"$ cd /", "$ ls", "42 answer"})
	fileNode, _ := builtFilesystem.Root().File("answer")
	if filesystem.SizeOf(fileNode) != 42 {
		testingHandle.Fatalf("expected 42")
	}
	var missingDirectory *filesystem.DirectoryNode
	if filesystem.SizeOf(missingDirectory) != 0 {
		testingHandle.Fatalf("expected 0 for nil directory")
	}
	if sizes := filesystem.Sizes(nil); sizes == nil || len(sizes) != 0 {
		testingHandle.Fatalf("expected an empty map for a nil root, got %v", sizes)
	}
}

func TestWalkVisitsInPreOrder(testingHandle *testing.T) {
	builtFilesystem := buildFromLines(testingHandle, exampleTranscriptLines)
	var visited []string
	walkError := builtFilesystem.Walk(func(directory *filesystem.DirectoryNode) error {
		visited = append(visited, directory.Name())
		return nil
	})
	if walkError != nil {
		testingHandle.Fatalf("Walk error: %v", walkError)
	}
	expected := []string{"/", "a", "e", "d"}
	if fmt.Sprint(visited) != fmt.Sprint(expected) {
		testingHandle.Fatalf("expected %v, got %v", expected, visited)
	}
}
