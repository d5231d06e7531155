package filesystem

// SizeOf returns the stored size of a file or the aggregated size of a directory.
// Directories are summed with an explicit stack so arbitrarily deep trees are safe.
func SizeOf(node Node) int64 {
	switch typedNode := node.(type) {
	case *FileNode:
		if typedNode == nil {
			return 0
		}
		return typedNode.size
	case *DirectoryNode:
		if typedNode == nil {
			return 0
		}
		return directorySize(typedNode)
	default:
		return 0
	}
}

// Sizes returns the aggregated size of every directory under root, root included,
// computed in one post-order pass. A nil root yields an empty map.
func Sizes(root *DirectoryNode) map[*DirectoryNode]int64 {
	sizes := map[*DirectoryNode]int64{}
	if root == nil {
		return sizes
	}
	type frame struct {
		directory *DirectoryNode
		expanded  bool
	}
	pending := []frame{{directory: root}}
	for len(pending) > 0 {
		top := pending[len(pending)-1]
		if !top.expanded {
			pending[len(pending)-1].expanded = true
			for _, subdirectoryName := range top.directory.subdirectoryOrder {
				pending = append(pending, frame{directory: top.directory.subdirectories[subdirectoryName]})
			}
			continue
		}
		pending = pending[:len(pending)-1]

		var total int64
		for _, fileNode := range top.directory.files {
			total += fileNode.size
		}
		for _, subdirectory := range top.directory.subdirectories {
			total += sizes[subdirectory]
		}
		sizes[top.directory] = total
	}
	return sizes
}

func directorySize(directory *DirectoryNode) int64 {
	var total int64
	pending := []*DirectoryNode{directory}
	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, fileNode := range current.files {
			total += fileNode.size
		}
		for _, subdirectory := range current.subdirectories {
			pending = append(pending, subdirectory)
		}
	}
	return total
}
