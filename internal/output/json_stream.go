package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/temirov/termfs/internal/services/stream"
	"github.com/temirov/termfs/internal/types"
)

type jsonTreeDocument struct {
	Source  string                `json:"source,omitempty"`
	Tree    *types.TreeOutputNode `json:"tree"`
	Summary *stream.SummaryEvent  `json:"summary,omitempty"`
}

type jsonStreamRenderer struct {
	stdout    io.Writer
	stderr    io.Writer
	documents []*jsonTreeDocument
}

// NewJSONStreamRenderer collects tree snapshots and writes them as one JSON array on Flush.
func NewJSONStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &jsonStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	writeWarning(renderer.stderr, event)
	switch event.Kind {
	case stream.EventKindTree:
		if event.Tree != nil {
			renderer.documents = append(renderer.documents, &jsonTreeDocument{Source: event.Source, Tree: event.Tree})
		}
	case stream.EventKindSummary:
		if len(renderer.documents) > 0 {
			renderer.documents[len(renderer.documents)-1].Summary = event.Summary
		}
	}
	return nil
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	documents := renderer.documents
	if documents == nil {
		documents = []*jsonTreeDocument{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(documents, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return jsonEncodeError
	}
	_, writeError := fmt.Fprintln(renderer.stdout, string(encoded))
	return writeError
}
