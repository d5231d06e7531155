package transcript

import "fmt"

const malformedInputErrorFormat = "malformed input at line %d (%q): %s"

// MalformedInputError reports a transcript line that matches no command or listing shape.
type MalformedInputError struct {
	LineNumber int
	Line       string
	Reason     string
}

func (malformedInputError *MalformedInputError) Error() string {
	return fmt.Sprintf(malformedInputErrorFormat, malformedInputError.LineNumber, malformedInputError.Line, malformedInputError.Reason)
}

func newMalformedInputError(lineNumber int, line string, reason string) *MalformedInputError {
	return &MalformedInputError{LineNumber: lineNumber, Line: line, Reason: reason}
}
