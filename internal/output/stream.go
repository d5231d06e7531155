// Package output renders reconstructed trees and query reports as raw text, JSON or XML.
package output

import (
	"fmt"
	"io"

	"github.com/temirov/termfs/internal/services/stream"
	"github.com/temirov/termfs/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	transcriptHeaderFormat = "--- Transcript: %s ---\n"

	errorUnsupportedFormat = "unsupported output format %q"
)

type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// NewStreamRenderer returns the renderer for format.
func NewStreamRenderer(format string, stdout, stderr io.Writer, includeSummary bool) (StreamRenderer, error) {
	switch format {
	case types.FormatRaw:
		return NewRawStreamRenderer(stdout, stderr, includeSummary), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout, stderr), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout, stderr), nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, format)
	}
}

func writeWarning(stderr io.Writer, event stream.Event) {
	if event.Kind == stream.EventKindWarning && event.Message != nil && stderr != nil {
		fmt.Fprintln(stderr, event.Message.Message)
	}
}
