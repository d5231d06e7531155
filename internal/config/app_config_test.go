package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/termfs/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	explicitContent string
	expectFormat    string
	expectThreshold int64
	expectExact     *bool
	expectCapacity  int64
	expectRequired  int64
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "defaults_without_files",
			expectFormat:    "",
			expectThreshold: DefaultSmallThreshold,
			expectCapacity:  DefaultCapacity,
			expectRequired:  DefaultRequired,
		},
		{
			name:            "local_overrides_global",
			globalContent:   "small:\n  format: json\n  threshold: 5\n  exact_sizes: false\nfree:\n  capacity: 100\n",
			localContent:    "small:\n  format: xml\n  exact_sizes: true\n",
			expectFormat:    "xml",
			expectThreshold: 5,
			expectExact:     boolPointer(true),
			expectCapacity:  100,
			expectRequired:  DefaultRequired,
		},
		{
			name:            "explicit_path_replaces_local",
			globalContent:   "small:\n  threshold: 7\n",
			localContent:    "small:\n  format: json\n",
			explicitPath:    "custom.yaml",
			explicitContent: "small:\n  format: raw\nfree:\n  required: 9\n",
			expectFormat:    "raw",
			expectThreshold: 7,
			expectCapacity:  DefaultCapacity,
			expectRequired:  9,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Small.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loadedConfig.Small.Format)
			}
			if threshold := loadedConfig.Small.ThresholdOrDefault(); threshold != testCase.expectThreshold {
				t.Fatalf("expected threshold %d, got %d", testCase.expectThreshold, threshold)
			}
			if testCase.expectExact == nil {
				if loadedConfig.Small.ExactSizes != nil {
					t.Fatalf("expected no exact_sizes override")
				}
			} else if loadedConfig.Small.ExactSizes == nil || *loadedConfig.Small.ExactSizes != *testCase.expectExact {
				t.Fatalf("unexpected exact_sizes value")
			}
			if capacity := loadedConfig.Free.CapacityOrDefault(); capacity != testCase.expectCapacity {
				t.Fatalf("expected capacity %d, got %d", testCase.expectCapacity, capacity)
			}
			if required := loadedConfig.Free.RequiredOrDefault(); required != testCase.expectRequired {
				t.Fatalf("expected required %d, got %d", testCase.expectRequired, required)
			}
		})
	}
}

func TestLoadApplicationConfigurationRequiresExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "missing.yaml"})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestLoadApplicationConfigurationRejectsNegativeThreshold(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	workingDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(workingDir, utils.ConfigFileName), []byte("small:\n  threshold: -1\n"), 0o600); err != nil {
		t.Fatalf("write local config: %v", err)
	}
	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir})
	if err == nil || !strings.Contains(err.Error(), "small.threshold") {
		t.Fatalf("expected negative threshold error, got %v", err)
	}
}

func TestMergeKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := ApplicationConfiguration{
		Tree: TreeConfiguration{OutputConfiguration: OutputConfiguration{Format: "json", Copy: boolPointer(true)}},
		Free: FreeConfiguration{Capacity: int64Pointer(10)},
	}
	merged := base.Merge(ApplicationConfiguration{})
	if merged.Tree.Format != "json" || merged.Tree.Copy == nil || !*merged.Tree.Copy {
		t.Fatalf("unexpected tree configuration %+v", merged.Tree)
	}
	if merged.Free.CapacityOrDefault() != 10 {
		t.Fatalf("expected capacity to survive merge")
	}
	override := ApplicationConfiguration{Free: FreeConfiguration{Capacity: int64Pointer(20)}}
	merged = merged.Merge(override)
	*override.Free.Capacity = 30
	if merged.Free.CapacityOrDefault() != 20 {
		t.Fatalf("merge must clone override values")
	}
}
