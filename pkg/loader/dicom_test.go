package loader

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDICOMDirMissing verifies an unreadable directory is reported
func TestLoadDICOMDirMissing(t *testing.T) {
	if _, err := LoadDICOMDir(filepath.Join(t.TempDir(), "no-such-dir")); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}

// TestLoadDICOMDirEmpty verifies a directory without any parseable DICOM
// files is rejected rather than producing an empty volume
func TestLoadDICOMDirEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadDICOMDir(dir); err == nil {
		t.Error("Expected an error for an empty directory")
	}
}

// TestLoadDICOMDirSkipsStrayFiles verifies non-DICOM files are skipped
// silently instead of aborting the load
func TestLoadDICOMDirSkipsStrayFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not a scan"), 0644); err != nil {
		t.Fatalf("Failed to write stray file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	// With nothing parseable left the loader must fail on slice count,
	// not on the stray content
	_, err := LoadDICOMDir(dir)
	if err == nil {
		t.Fatal("Expected an error when no DICOM slices remain")
	}
}
