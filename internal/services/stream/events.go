// Package stream emits a reconstructed filesystem as an ordered sequence of events.
package stream

import (
	"encoding/xml"
	"time"

	"github.com/temirov/termfs/internal/types"
)

const SchemaVersion = 1

type EventKind string

const (
	EventKindStart     EventKind = "start"
	EventKindDirectory EventKind = "directory"
	EventKindFile      EventKind = "file"
	EventKindSummary   EventKind = "summary"
	EventKindWarning   EventKind = "warning"
	EventKindTree      EventKind = "tree"
	EventKindDone      EventKind = "done"
)

type DirectoryPhase string

const (
	DirectoryEnter DirectoryPhase = "enter"
	DirectoryLeave DirectoryPhase = "leave"
)

type Event struct {
	XMLName   xml.Name  `json:"-" xml:"event"`
	Version   int       `json:"version" xml:"version,attr"`
	Kind      EventKind `json:"kind" xml:"kind,attr"`
	Command   string    `json:"command,omitempty" xml:"command,attr,omitempty"`
	Source    string    `json:"source,omitempty" xml:"source,attr,omitempty"`
	Path      string    `json:"path,omitempty" xml:"path,attr,omitempty"`
	EmittedAt time.Time `json:"emittedAt,omitempty" xml:"emittedAt,attr,omitempty"`

	Directory *DirectoryEvent       `json:"directory,omitempty" xml:"directory,omitempty"`
	File      *FileEvent            `json:"file,omitempty" xml:"file,omitempty"`
	Summary   *SummaryEvent         `json:"summary,omitempty" xml:"summary,omitempty"`
	Message   *LogEvent             `json:"message,omitempty" xml:"message,omitempty"`
	Tree      *types.TreeOutputNode `json:"tree,omitempty" xml:"tree,omitempty"`
}

type DirectoryEvent struct {
	Phase   DirectoryPhase `json:"phase" xml:"phase,attr"`
	Path    string         `json:"path" xml:"path,attr"`
	Name    string         `json:"name,omitempty" xml:"name,attr,omitempty"`
	Depth   int            `json:"depth" xml:"depth,attr"`
	Summary *SummaryEvent  `json:"summary,omitempty" xml:"summary,omitempty"`
}

type FileEvent struct {
	Path      string `json:"path" xml:"path,attr"`
	Name      string `json:"name" xml:"name,attr"`
	Depth     int    `json:"depth" xml:"depth,attr"`
	SizeBytes int64  `json:"sizeBytes" xml:"sizeBytes,attr"`
}

// SummaryEvent aggregates the files and directories below a directory, the directory itself excluded.
type SummaryEvent struct {
	Files       int   `json:"files" xml:"files,attr"`
	Directories int   `json:"directories" xml:"directories,attr"`
	Bytes       int64 `json:"bytes" xml:"bytes,attr"`
}

type LogEvent struct {
	Level   string `json:"level,omitempty" xml:"level,attr,omitempty"`
	Message string `json:"message" xml:",chardata"`
}
