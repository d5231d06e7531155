package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// PromptMarker prefixes every command line of a transcript.
	PromptMarker = "$ "
	// ChangeDirectoryVerb is the command verb that changes the working directory.
	ChangeDirectoryVerb = "cd"
	// ListDirectoryVerb is the command verb that lists the working directory.
	ListDirectoryVerb = "ls"
	// DirectoryEntryMarker introduces a subdirectory line in listing output.
	DirectoryEntryMarker = "dir"

	promptSymbol = "$"

	reasonEmptyCommand        = "empty command"
	reasonUnknownVerbFormat   = "unknown command %q"
	reasonChangeDirectoryArgs = "cd expects a target"
	reasonListDirectoryArgs   = "ls takes no arguments"
	reasonOrphanListing       = "listing output without a preceding ls"
	reasonEntryShape          = "expected \"dir <name>\" or \"<size> <name>\""
	reasonEmptyName           = "entry name is empty"
	reasonInvalidSizeFormat   = "file size %q is not a non-negative integer"

	errorReadTranscriptFormat = "reading transcript: %w"
)

// Parse converts transcript lines into commands, preserving their order.
// Whitespace-only lines are ignored; every other line must be a command or belong to a listing.
func Parse(lines []string) ([]Command, error) {
	var commands []Command
	var listing *ListDirectory

	flushListing := func() {
		if listing != nil {
			commands = append(commands, *listing)
			listing = nil
		}
	}

	for lineIndex, rawLine := range lines {
		lineNumber := lineIndex + 1
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if isCommandLine(line) {
			flushListing()
			command, parseError := parseCommandLine(lineNumber, line)
			if parseError != nil {
				return nil, parseError
			}
			if listCommand, isList := command.(ListDirectory); isList {
				listing = &listCommand
				continue
			}
			commands = append(commands, command)
			continue
		}

		if listing == nil {
			return nil, newMalformedInputError(lineNumber, line, reasonOrphanListing)
		}
		if entryError := parseListingEntry(lineNumber, line, listing); entryError != nil {
			return nil, entryError
		}
	}
	flushListing()

	return commands, nil
}

// ParseReader reads every line from reader and parses them with Parse.
func ParseReader(reader io.Reader) ([]Command, error) {
	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadTranscriptFormat, scanError)
	}
	return Parse(lines)
}

func isCommandLine(line string) bool {
	return line == promptSymbol || strings.HasPrefix(line, PromptMarker)
}

func parseCommandLine(lineNumber int, line string) (Command, error) {
	body := strings.TrimSpace(strings.TrimPrefix(line, promptSymbol))
	segments := strings.Fields(body)
	if len(segments) == 0 {
		return nil, newMalformedInputError(lineNumber, line, reasonEmptyCommand)
	}
	verb := segments[0]
	// The argument keeps inner spaces so directories listed as "dir my dir" can be entered.
	argument := strings.TrimSpace(strings.TrimPrefix(body, verb))

	switch verb {
	case ChangeDirectoryVerb:
		if argument == "" {
			return nil, newMalformedInputError(lineNumber, line, reasonChangeDirectoryArgs)
		}
		return ChangeDirectory{Target: argument}, nil
	case ListDirectoryVerb:
		if argument != "" {
			return nil, newMalformedInputError(lineNumber, line, reasonListDirectoryArgs)
		}
		return ListDirectory{}, nil
	default:
		return nil, newMalformedInputError(lineNumber, line, fmt.Sprintf(reasonUnknownVerbFormat, verb))
	}
}

func parseListingEntry(lineNumber int, line string, listing *ListDirectory) error {
	head, name, found := strings.Cut(line, " ")
	if !found {
		return newMalformedInputError(lineNumber, line, reasonEntryShape)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return newMalformedInputError(lineNumber, line, reasonEmptyName)
	}

	if head == DirectoryEntryMarker {
		listing.SubdirectoryNames = append(listing.SubdirectoryNames, name)
		return nil
	}

	size, sizeError := strconv.ParseInt(head, 10, 64)
	if sizeError != nil || size < 0 || strings.HasPrefix(head, "+") {
		return newMalformedInputError(lineNumber, line, fmt.Sprintf(reasonInvalidSizeFormat, head))
	}
	listing.Files = append(listing.Files, File{Name: name, Size: size})
	return nil
}
