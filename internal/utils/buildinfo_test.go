package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetApplicationVersionPrefersBuildVersion(t *testing.T) {
	previous := BuildVersion
	t.Cleanup(func() { BuildVersion = previous })

	BuildVersion = "v9.9.9"
	if version := GetApplicationVersion(); version != "v9.9.9" {
		t.Fatalf("expected injected version, got %s", version)
	}
}

func TestFindGitDirectoryLocatesRepository(t *testing.T) {
	repositoryDirectory := t.TempDir()
	nestedDirectory := filepath.Join(repositoryDirectory, "a", "b")
	for _, directory := range []string{nestedDirectory, filepath.Join(repositoryDirectory, GitDirectoryName)} {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			t.Fatalf("prepare directories: %v", err)
		}
	}
	found, findError := findGitDirectory(nestedDirectory)
	if findError != nil {
		t.Fatalf("findGitDirectory error: %v", findError)
	}
	if found != repositoryDirectory {
		t.Fatalf("expected %s, got %s", repositoryDirectory, found)
	}
}
