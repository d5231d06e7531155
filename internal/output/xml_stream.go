package output

import (
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"github.com/temirov/termfs/internal/services/stream"
)

type xmlStreamRenderer struct {
	stdout  io.Writer
	stderr  io.Writer
	encoder *xml.Encoder
	started bool
}

// NewXMLStreamRenderer writes every event as an XML element inside an <events> document.
func NewXMLStreamRenderer(stdout, stderr io.Writer) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout, stderr: stderr}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	writeWarning(renderer.stderr, event)
	return renderer.writeEvent(event)
}

func (renderer *xmlStreamRenderer) Flush() error {
	if renderer.encoder != nil {
		if err := renderer.encoder.Flush(); err != nil {
			return err
		}
	}
	if renderer.started && renderer.stdout != nil {
		if _, err := io.WriteString(renderer.stdout, "</events>\n"); err != nil {
			return err
		}
	}
	return nil
}

func (renderer *xmlStreamRenderer) ensureEncoder() error {
	if renderer.stdout == nil || renderer.started {
		return nil
	}
	if _, err := io.WriteString(renderer.stdout, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(renderer.stdout, "<events>\n"); err != nil {
		return err
	}
	renderer.encoder = xml.NewEncoder(renderer.stdout)
	renderer.encoder.Indent("", "  ")
	renderer.started = true
	return nil
}

func (renderer *xmlStreamRenderer) writeEvent(event stream.Event) error {
	if renderer.stdout == nil {
		return nil
	}
	if err := renderer.ensureEncoder(); err != nil {
		return err
	}
	start := xml.StartElement{Name: xml.Name{Local: "event"}}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "version"}, Value: strconv.Itoa(event.Version)})
	optionalAttributes := []struct {
		name  string
		value string
	}{
		{name: "kind", value: string(event.Kind)},
		{name: "command", value: event.Command},
		{name: "source", value: event.Source},
		{name: "path", value: event.Path},
	}
	for _, attribute := range optionalAttributes {
		if attribute.value != "" {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attribute.name}, Value: attribute.value})
		}
	}
	if !event.EmittedAt.IsZero() {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "emittedAt"}, Value: event.EmittedAt.Format(time.RFC3339Nano)})
	}
	if err := renderer.encoder.EncodeToken(start); err != nil {
		return err
	}
	encodeElement := func(name string, value interface{}) error {
		return renderer.encoder.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
	}
	if event.Directory != nil {
		if err := encodeElement("directory", event.Directory); err != nil {
			return err
		}
	}
	if event.File != nil {
		if err := encodeElement("file", event.File); err != nil {
			return err
		}
	}
	if event.Summary != nil {
		if err := encodeElement("summary", event.Summary); err != nil {
			return err
		}
	}
	if event.Message != nil {
		if err := encodeElement("message", event.Message); err != nil {
			return err
		}
	}
	if event.Tree != nil {
		if err := encodeElement("tree", event.Tree); err != nil {
			return err
		}
	}
	if err := renderer.encoder.EncodeToken(start.End()); err != nil {
		return err
	}
	if err := renderer.encoder.Flush(); err != nil {
		return err
	}
	if _, err := renderer.stdout.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}
