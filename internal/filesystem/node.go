// Package filesystem models the directory tree reconstructed from a transcript.
// Parents own their children; the parent reference held by a child is only used for navigation.
package filesystem

import "strings"

const (
	// RootDirectoryName is the conventional name of the logical root.
	RootDirectoryName = "/"

	pathSeparator = "/"
)

// Node is either a *DirectoryNode or a *FileNode.
type Node interface {
	Name() string
	Parent() *DirectoryNode
	isNode()
}

// FileNode is a file held by exactly one directory.
type FileNode struct {
	name   string
	size   int64
	parent *DirectoryNode
}

// Name returns the file name.
func (fileNode *FileNode) Name() string {
	return fileNode.name
}

// Size returns the size recorded by the listing.
func (fileNode *FileNode) Size() int64 {
	return fileNode.size
}

// Parent returns the owning directory.
func (fileNode *FileNode) Parent() *DirectoryNode {
	return fileNode.parent
}

// Depth is the distance from the logical root.
func (fileNode *FileNode) Depth() int {
	return fileNode.parent.Depth() + 1
}

// Path returns the slash separated location of the file.
func (fileNode *FileNode) Path() string {
	return joinPath(fileNode.parent.Path(), fileNode.name)
}

func (*FileNode) isNode() {}

// DirectoryNode is a directory with independently named files and subdirectories.
// Both collections remember the order in which their entries were first seen.
type DirectoryNode struct {
	name              string
	parent            *DirectoryNode
	files             map[string]*FileNode
	fileOrder         []string
	subdirectories    map[string]*DirectoryNode
	subdirectoryOrder []string
}

func newDirectoryNode(name string, parent *DirectoryNode) *DirectoryNode {
	return &DirectoryNode{
		name:           name,
		parent:         parent,
		files:          map[string]*FileNode{},
		subdirectories: map[string]*DirectoryNode{},
	}
}

// Name returns the directory name.
func (directoryNode *DirectoryNode) Name() string {
	return directoryNode.name
}

// Parent returns the owning directory, or nil for the logical root.
func (directoryNode *DirectoryNode) Parent() *DirectoryNode {
	return directoryNode.parent
}

// Depth is the distance from the logical root, which has depth 0.
func (directoryNode *DirectoryNode) Depth() int {
	depth := 0
	for current := directoryNode.parent; current != nil; current = current.parent {
		depth++
	}
	return depth
}

// Path returns the slash separated location of the directory. Paths always start at
// "/", so a root named home yields "/home" and its child user yields "/home/user".
func (directoryNode *DirectoryNode) Path() string {
	var names []string
	for current := directoryNode; current != nil; current = current.parent {
		if current.name == sentinelDirectoryName && current.parent == nil {
			break
		}
		names = append(names, current.name)
	}
	path := ""
	for index := len(names) - 1; index >= 0; index-- {
		path = joinPath(path, names[index])
	}
	return path
}

// File returns the named file, if present.
func (directoryNode *DirectoryNode) File(name string) (*FileNode, bool) {
	fileNode, found := directoryNode.files[name]
	return fileNode, found
}

// Subdirectory returns the named subdirectory, if present.
func (directoryNode *DirectoryNode) Subdirectory(name string) (*DirectoryNode, bool) {
	subdirectory, found := directoryNode.subdirectories[name]
	return subdirectory, found
}

// Files returns the files in insertion order.
func (directoryNode *DirectoryNode) Files() []*FileNode {
	fileNodes := make([]*FileNode, 0, len(directoryNode.fileOrder))
	for _, name := range directoryNode.fileOrder {
		fileNodes = append(fileNodes, directoryNode.files[name])
	}
	return fileNodes
}

// Subdirectories returns the subdirectories in insertion order.
func (directoryNode *DirectoryNode) Subdirectories() []*DirectoryNode {
	subdirectories := make([]*DirectoryNode, 0, len(directoryNode.subdirectoryOrder))
	for _, name := range directoryNode.subdirectoryOrder {
		subdirectories = append(subdirectories, directoryNode.subdirectories[name])
	}
	return subdirectories
}

func (*DirectoryNode) isNode() {}

// putFile adds the file or replaces the size of an existing one in place.
func (directoryNode *DirectoryNode) putFile(name string, size int64) {
	if existing, found := directoryNode.files[name]; found {
		existing.size = size
		return
	}
	directoryNode.files[name] = &FileNode{name: name, size: size, parent: directoryNode}
	directoryNode.fileOrder = append(directoryNode.fileOrder, name)
}

// ensureSubdirectory returns the named subdirectory, creating it empty when absent.
func (directoryNode *DirectoryNode) ensureSubdirectory(name string) *DirectoryNode {
	if existing, found := directoryNode.subdirectories[name]; found {
		return existing
	}
	subdirectory := newDirectoryNode(name, directoryNode)
	directoryNode.subdirectories[name] = subdirectory
	directoryNode.subdirectoryOrder = append(directoryNode.subdirectoryOrder, name)
	return subdirectory
}

func joinPath(parentPath string, name string) string {
	switch {
	case parentPath == "" && strings.HasPrefix(name, pathSeparator):
		return name
	case parentPath == "":
		return pathSeparator + name
	case strings.HasSuffix(parentPath, pathSeparator):
		return parentPath + name
	default:
		return parentPath + pathSeparator + name
	}
}
