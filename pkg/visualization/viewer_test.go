package visualization

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"lungseg/internal/models"
)

// testScan builds an asymmetric normalized volume with a single masked
// voxel, so plane orientation mistakes show up as dimension mismatches
func testScan() (*models.Volume, *models.Mask) {
	scan := &models.Volume{
		Data:    make([]float64, 4*3*2),
		Width:   4,
		Height:  3,
		Depth:   2,
		Spacing: [3]float64{1, 1, 1},
	}
	for i := range scan.Data {
		scan.Data[i] = 0.5
	}

	mask := models.NewMask(4, 3, 2)
	mask.Data[mask.Index(1, 2, 1)] = models.MaskForeground

	return scan, mask
}

// TestExtractSliceDimensions verifies each plane produces an image with
// the expected in-plane axes
func TestExtractSliceDimensions(t *testing.T) {
	scan, mask := testScan()
	viewer := NewViewer(scan, mask)

	cases := []struct {
		plane  string
		width  int
		height int
	}{
		{Transverse, 4, 3},
		{Coronal, 4, 2},
		{Sagittal, 3, 2},
	}

	for _, tc := range cases {
		img, err := viewer.ExtractSlice(tc.plane, 0)
		if err != nil {
			t.Fatalf("ExtractSlice(%s) failed: %v", tc.plane, err)
		}
		bounds := img.Bounds()
		if bounds.Dx() != tc.width || bounds.Dy() != tc.height {
			t.Errorf("%s slice: expected %dx%d image, got %dx%d",
				tc.plane, tc.width, tc.height, bounds.Dx(), bounds.Dy())
		}
	}
}

// TestExtractSliceMaskOverlay verifies masked voxels render at full
// intensity while the rest follow the normalized scan value
func TestExtractSliceMaskOverlay(t *testing.T) {
	scan, mask := testScan()
	viewer := NewViewer(scan, mask)

	img, err := viewer.ExtractSlice(Transverse, 1)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}

	white := color.Gray16{Y: 65535}
	if got := img.At(1, 2); got != white {
		t.Errorf("Expected masked voxel to render white, got %v", got)
	}

	half := 0.5
	mid := color.Gray16{Y: uint16(half * 65535.0)}
	if got := img.At(0, 0); got != mid {
		t.Errorf("Expected unmasked voxel at mid gray, got %v", got)
	}
}

// TestExtractSliceNilMask verifies the viewer renders plain scan slices
// without a mask
func TestExtractSliceNilMask(t *testing.T) {
	scan, _ := testScan()
	viewer := NewViewer(scan, nil)

	img, err := viewer.ExtractSlice(Transverse, 0)
	if err != nil {
		t.Fatalf("ExtractSlice failed: %v", err)
	}
	if img == nil {
		t.Fatal("Expected an image")
	}
}

// TestExtractSliceBounds verifies out-of-range positions and unknown
// planes are rejected
func TestExtractSliceBounds(t *testing.T) {
	scan, mask := testScan()
	viewer := NewViewer(scan, mask)

	if _, err := viewer.ExtractSlice(Transverse, -1); err == nil {
		t.Error("Expected an error for a negative position")
	}
	if _, err := viewer.ExtractSlice(Transverse, scan.Depth); err == nil {
		t.Error("Expected an error for a transverse position past the depth")
	}
	if _, err := viewer.ExtractSlice(Coronal, scan.Height); err == nil {
		t.Error("Expected an error for a coronal position past the height")
	}
	if _, err := viewer.ExtractSlice(Sagittal, scan.Width); err == nil {
		t.Error("Expected an error for a sagittal position past the width")
	}
	if _, err := viewer.ExtractSlice("oblique", 0); err == nil {
		t.Error("Expected an error for an unknown plane")
	}
}

// TestSaveSliceSequence verifies one JPEG per slice lands in the output
// directory with the expected names
func TestSaveSliceSequence(t *testing.T) {
	scan, mask := testScan()
	viewer := NewViewer(scan, mask)

	dir := filepath.Join(t.TempDir(), "transverse")
	if err := viewer.SaveSliceSequence(Transverse, dir); err != nil {
		t.Fatalf("SaveSliceSequence failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read output directory: %v", err)
	}
	if len(entries) != scan.Depth {
		t.Fatalf("Expected %d slice images, got %d", scan.Depth, len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "transverse_000.jpg")); err != nil {
		t.Errorf("Expected transverse_000.jpg to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "transverse_001.jpg")); err != nil {
		t.Errorf("Expected transverse_001.jpg to exist: %v", err)
	}
}

// TestMeshBuffers verifies the GL buffer accessors pass the flat arrays
// through unchanged
func TestMeshBuffers(t *testing.T) {
	mesh := &models.Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Faces:    []uint32{0, 1, 2},
	}

	vertices, faces := MeshBuffers(mesh)
	if len(vertices) != 9 || len(faces) != 3 {
		t.Errorf("Expected 9 vertex scalars and 3 indices, got %d and %d",
			len(vertices), len(faces))
	}
}
