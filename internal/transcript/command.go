// Package transcript turns a terminal transcript into an ordered replay log of commands.
package transcript

// ParentDirectoryTarget is the change directory target that ascends to the parent.
const ParentDirectoryTarget = ".."

// File is a single file reported by a directory listing.
type File struct {
	Name string
	Size int64
}

// Command is one replayable step of a transcript.
// The set of implementations is closed: ChangeDirectory and ListDirectory.
type Command interface {
	isCommand()
}

// ChangeDirectory moves the working directory to Target, either a child name or "..".
type ChangeDirectory struct {
	Target string
}

// ListDirectory carries the entries printed by one listing of the working directory.
type ListDirectory struct {
	Files             []File
	SubdirectoryNames []string
}

func (ChangeDirectory) isCommand() {}

func (ListDirectory) isCommand() {}

// IsParent reports whether the command ascends to the parent directory.
func (command ChangeDirectory) IsParent() bool {
	return command.Target == ParentDirectoryTarget
}
