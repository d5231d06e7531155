package filesystem

import (
	"fmt"

	"github.com/temirov/termfs/internal/transcript"
)

const (
	sentinelDirectoryName = ""

	errorUnsupportedCommandFormat = "unsupported command %T"
)

// Filesystem owns the logical root of a reconstructed tree.
type Filesystem struct {
	root          *DirectoryNode
	syntheticRoot bool
}

// Root returns the logical root directory.
func (filesystem *Filesystem) Root() *DirectoryNode {
	return filesystem.root
}

// SyntheticRoot reports whether the transcript never entered a directory, so the root
// is the empty placeholder named "/".
func (filesystem *Filesystem) SyntheticRoot() bool {
	return filesystem.syntheticRoot
}

// TotalSize returns the aggregated size of the root directory.
func (filesystem *Filesystem) TotalSize() int64 {
	return SizeOf(filesystem.root)
}

// Walk visits every directory in pre-order: parents before children and children in
// insertion order. Returning an error from visit stops the walk with that error.
func (filesystem *Filesystem) Walk(visit func(directory *DirectoryNode) error) error {
	pending := []*DirectoryNode{filesystem.root}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if visitError := visit(current); visitError != nil {
			return visitError
		}
		children := current.Subdirectories()
		for index := len(children) - 1; index >= 0; index-- {
			pending = append(pending, children[index])
		}
	}
	return nil
}

// builder replays commands against a cursor that starts at a sentinel directory.
type builder struct {
	sentinel *DirectoryNode
	cursor   *DirectoryNode
}

// Build replays commands in a single forward pass and returns the resulting tree.
// The first change directory, applied at the sentinel, names the logical root. Every
// other target is a child of the current directory. Changing into a directory that was
// never listed creates it empty. An empty command sequence yields an empty root named "/".
func Build(commands []transcript.Command) (*Filesystem, error) {
	sentinel := newDirectoryNode(sentinelDirectoryName, nil)
	treeBuilder := &builder{sentinel: sentinel, cursor: sentinel}

	for _, command := range commands {
		var applyError error
		switch typedCommand := command.(type) {
		case transcript.ChangeDirectory:
			applyError = treeBuilder.changeDirectory(typedCommand)
		case transcript.ListDirectory:
			applyError = treeBuilder.listDirectory(typedCommand)
		default:
			applyError = fmt.Errorf(errorUnsupportedCommandFormat, command)
		}
		if applyError != nil {
			return nil, applyError
		}
	}

	reconstructed := &Filesystem{}
	if roots := sentinel.Subdirectories(); len(roots) > 0 {
		reconstructed.root = roots[0]
	} else {
		reconstructed.root = sentinel.ensureSubdirectory(RootDirectoryName)
		reconstructed.syntheticRoot = true
	}
	reconstructed.root.parent = nil
	return reconstructed, nil
}

func (treeBuilder *builder) changeDirectory(command transcript.ChangeDirectory) error {
	if command.IsParent() {
		parent := treeBuilder.cursor.parent
		if parent == nil || parent == treeBuilder.sentinel {
			return treeBuilder.traversalError(command.Target, reasonAscendPastRoot)
		}
		treeBuilder.cursor = parent
		return nil
	}

	treeBuilder.cursor = treeBuilder.cursor.ensureSubdirectory(command.Target)
	return nil
}

func (treeBuilder *builder) listDirectory(command transcript.ListDirectory) error {
	if treeBuilder.cursor == treeBuilder.sentinel {
		return treeBuilder.traversalError(transcript.ListDirectoryVerb, reasonListingOutsideRoot)
	}
	for _, file := range command.Files {
		treeBuilder.cursor.putFile(file.Name, file.Size)
	}
	for _, subdirectoryName := range command.SubdirectoryNames {
		treeBuilder.cursor.ensureSubdirectory(subdirectoryName)
	}
	return nil
}

func (treeBuilder *builder) traversalError(target string, reason string) *InvalidTraversalError {
	return &InvalidTraversalError{Target: target, Directory: treeBuilder.cursor.Path(), Reason: reason}
}
