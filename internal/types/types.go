// Package types defines every cross‑package data structure used by the termfs CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandTree  = "tree"
	CommandSmall = "small"
	CommandFree  = "free"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"

	// StandardInputPath selects standard input as the transcript source.
	StandardInputPath = "-"
)

// TranscriptSource names where a transcript was read from.
type TranscriptSource struct {
	Path    string
	IsStdin bool
}

// TreeOutputNode represents a node of a reconstructed directory tree.
type TreeOutputNode struct {
	XMLName    xml.Name          `json:"-" xml:"node"`
	Path       string            `json:"path" xml:"path"`
	Name       string            `json:"name" xml:"name"`
	Type       string            `json:"type" xml:"type"`
	Depth      int               `json:"depth" xml:"depth"`
	Size       string            `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes  int64             `json:"sizeBytes" xml:"sizeBytes"`
	Children   []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty"`
	TotalFiles int               `json:"totalFiles,omitempty" xml:"totalFiles,omitempty"`
}

// DirectoryOutput is one directory selected by a size query.
type DirectoryOutput struct {
	Name      string `json:"name" xml:"name"`
	Path      string `json:"path" xml:"path"`
	Size      string `json:"size" xml:"size"`
	SizeBytes int64  `json:"sizeBytes" xml:"sizeBytes"`
}

// QueryReport is the result of a size query over one transcript.
type QueryReport struct {
	XMLName     xml.Name          `json:"-" xml:"report"`
	Command     string            `json:"command" xml:"command,attr"`
	Source      string            `json:"source" xml:"source"`
	Threshold   int64             `json:"threshold,omitempty" xml:"threshold,omitempty"`
	Capacity    int64             `json:"capacity,omitempty" xml:"capacity,omitempty"`
	Required    int64             `json:"required,omitempty" xml:"required,omitempty"`
	UsedBytes   int64             `json:"usedBytes" xml:"usedBytes"`
	NeededBytes int64             `json:"neededBytes,omitempty" xml:"neededBytes,omitempty"`
	Directories []DirectoryOutput `json:"directories" xml:"directories>directory"`
	TotalBytes  int64             `json:"totalBytes" xml:"totalBytes"`
	TotalSize   string            `json:"totalSize" xml:"totalSize"`
}

// OutputSummary captures aggregate information about rendered trees.
type OutputSummary struct {
	TotalFiles       int    `json:"totalFiles" xml:"totalFiles"`
	TotalDirectories int    `json:"totalDirectories" xml:"totalDirectories"`
	TotalSize        string `json:"totalSize" xml:"totalSize"`
}
