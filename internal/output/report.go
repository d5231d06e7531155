package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/temirov/termfs/internal/types"
)

const (
	xmlReportsElement = "reports"

	reportSeparatorLine = "----------------------------------------"
	noDirectoriesLine   = "  (none)"
	nothingToFreeLine   = "Enough space is already free."
)

// RenderReports renders query reports in the requested format.
func RenderReports(format string, reports []types.QueryReport) (string, error) {
	switch format {
	case types.FormatRaw:
		return RenderReportsRaw(reports), nil
	case types.FormatJSON:
		return RenderReportsJSON(reports)
	case types.FormatXML:
		return RenderReportsXML(reports)
	default:
		return "", fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// RenderReportsRaw returns the reports as plain text, one block per transcript.
func RenderReportsRaw(reports []types.QueryReport) string {
	var buffer bytes.Buffer
	for index, report := range reports {
		if index > 0 {
			buffer.WriteString(reportSeparatorLine + "\n")
		}
		if len(reports) > 1 && report.Source != "" {
			fmt.Fprintf(&buffer, transcriptHeaderFormat, report.Source)
		}
		switch report.Command {
		case types.CommandFree:
			writeFreeReport(&buffer, report)
		default:
			writeSmallReport(&buffer, report)
		}
	}
	return buffer.String()
}

func writeSmallReport(buffer *bytes.Buffer, report types.QueryReport) {
	fmt.Fprintf(buffer, "Directories of at most %d bytes:\n", report.Threshold)
	if len(report.Directories) == 0 {
		buffer.WriteString(noDirectoriesLine + "\n")
	}
	for _, directory := range report.Directories {
		fmt.Fprintf(buffer, "  %s (%s)\n", directory.Path, directory.Size)
	}
	fmt.Fprintf(buffer, "Total: %s\n", report.TotalSize)
}

func writeFreeReport(buffer *bytes.Buffer, report types.QueryReport) {
	fmt.Fprintf(buffer, "Used %d of %d bytes, %d bytes required.\n", report.UsedBytes, report.Capacity, report.Required)
	if report.NeededBytes == 0 {
		buffer.WriteString(nothingToFreeLine + "\n")
		return
	}
	fmt.Fprintf(buffer, "Need to free %d bytes.\n", report.NeededBytes)
	if len(report.Directories) == 0 {
		buffer.WriteString("No single directory is large enough.\n")
		return
	}
	directory := report.Directories[0]
	fmt.Fprintf(buffer, "Delete %s (%s)\n", directory.Path, directory.Size)
}

// RenderReportsJSON marshals the reports as a JSON array.
func RenderReportsJSON(reports []types.QueryReport) (string, error) {
	if reports == nil {
		reports = []types.QueryReport{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(reports, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderReportsXML marshals the reports as an XML document.
func RenderReportsXML(reports []types.QueryReport) (string, error) {
	wrapper := struct {
		XMLName xml.Name
		Reports []types.QueryReport `xml:"report"`
	}{
		XMLName: xml.Name{Local: xmlReportsElement},
		Reports: reports,
	}
	encoded, xmlMarshalError := xml.MarshalIndent(wrapper, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xml.Header + string(encoded), nil
}
