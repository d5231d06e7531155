package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:         "defaults_to_false",
			defaultValue: false,
			arguments:    []string{},
			expected:     false,
		},
		{
			name:         "keeps_true_default",
			defaultValue: true,
			arguments:    []string{},
			expected:     true,
		},
		{
			name:         "sets_true_without_value",
			defaultValue: false,
			arguments:    []string{"--copy"},
			expected:     true,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--copy=false"},
			expected:     false,
		},
		{
			name:         "sets_false_with_no_literal",
			defaultValue: true,
			arguments:    []string{"--copy", "no"},
			expected:     false,
		},
		{
			name:         "sets_true_with_on_literal",
			defaultValue: false,
			arguments:    []string{"--copy", "on"},
			expected:     true,
		},
		{
			name:         "leaves_transcript_path_positional",
			defaultValue: false,
			arguments:    []string{"--copy", "session.txt"},
			expected:     true,
		},
		{
			name:         "rejects_invalid_literal",
			defaultValue: false,
			arguments:    []string{"--copy=maybe"},
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, copyFlagName, testCase.defaultValue, copyFlagDescription)
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArgumentsKeepsCommandNames(t *testing.T) {
	t.Parallel()
	rootCommand := createRootCommand(&applicationDependencies{})

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "joins_literal",
			arguments: []string{"small", "--copy", "yes", "session.txt"},
			expected:  []string{"small", "--copy=yes", "session.txt"},
		},
		{
			name:      "keeps_tree_alias",
			arguments: []string{"--verbose", "t", "session.txt"},
			expected:  []string{"--verbose", "t", "session.txt"},
		},
		{
			name:      "keeps_free_alias",
			arguments: []string{"--verbose", "f"},
			expected:  []string{"--verbose", "f"},
		},
		{
			name:      "stops_at_terminator",
			arguments: []string{"tree", "--", "--bytes", "no"},
			expected:  []string{"tree", "--", "--bytes", "no"},
		},
		{
			name:      "ignores_value_flags",
			arguments: []string{"small", "--threshold", "1"},
			expected:  []string{"small", "--threshold", "1"},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			normalized := normalizeBooleanFlagArguments(rootCommand, testCase.arguments)
			if !reflect.DeepEqual(normalized, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}
