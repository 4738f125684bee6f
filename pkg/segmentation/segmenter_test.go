package segmentation

import (
	"testing"

	"lungseg/internal/models"
)

const (
	airHU    = -1000.0
	tissueHU = 40.0
)

// phantomVolume builds a synthetic chest: a dense tissue shell enclosing
// an air cavity, itself surrounded by exterior air that reaches the
// volume boundary. The cavity spans [cavityLo, cavityHi) on every axis
// and the shell spans [shellLo, shellHi).
func phantomVolume(size, shellLo, shellHi, cavityLo, cavityHi int) *models.Volume {
	vol := &models.Volume{
		Data:    make([]float64, size*size*size),
		Width:   size,
		Height:  size,
		Depth:   size,
		Spacing: [3]float64{1, 1, 1},
	}

	inRange := func(v, lo, hi int) bool { return v >= lo && v < hi }

	for z := 0; z < size; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				value := airHU
				if inRange(x, shellLo, shellHi) && inRange(y, shellLo, shellHi) && inRange(z, shellLo, shellHi) {
					value = tissueHU
				}
				if inRange(x, cavityLo, cavityHi) && inRange(y, cavityLo, cavityHi) && inRange(z, cavityLo, cavityHi) {
					value = airHU
				}
				vol.Data[vol.Index(x, y, z)] = value
			}
		}
	}

	return vol
}

// cavityOnly reports whether the mask marks exactly the phantom cavity
func cavityOnly(t *testing.T, mask *models.Mask, cavityLo, cavityHi int) {
	t.Helper()
	inRange := func(v int) bool { return v >= cavityLo && v < cavityHi }

	for z := 0; z < mask.Depth; z++ {
		for y := 0; y < mask.Height; y++ {
			for x := 0; x < mask.Width; x++ {
				want := models.MaskBackground
				if inRange(x) && inRange(y) && inRange(z) {
					want = models.MaskForeground
				}
				if got := mask.At(x, y, z); got != want {
					t.Fatalf("Voxel (%d,%d,%d): expected %d, got %d", x, y, z, want, got)
				}
			}
		}
	}
}

// TestSegmentPhantomWithFill verifies that the enclosed cavity is marked
// foreground and both the shell and exterior air are background
func TestSegmentPhantomWithFill(t *testing.T) {
	vol := phantomVolume(20, 4, 16, 7, 13)
	segmenter := NewSegmenter(DefaultThreshold)

	mask, err := segmenter.Segment(vol, true)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if mask.Width != vol.Width || mask.Height != vol.Height || mask.Depth != vol.Depth {
		t.Fatalf("Mask shape %dx%dx%d does not match volume %dx%dx%d",
			mask.Width, mask.Height, mask.Depth, vol.Width, vol.Height, vol.Depth)
	}

	cavityOnly(t, mask, 7, 13)
}

// TestSegmentPhantomWithoutFill verifies that the global
// largest-component pass alone still isolates the cavity
func TestSegmentPhantomWithoutFill(t *testing.T) {
	vol := phantomVolume(20, 4, 16, 7, 13)
	segmenter := NewSegmenter(DefaultThreshold)

	mask, err := segmenter.Segment(vol, false)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	cavityOnly(t, mask, 7, 13)
}

// TestSegmentFillRecoversInteriorStructures verifies that a small dense
// structure floating inside the cavity is folded into the mask when fill
// is enabled and excluded when it is not
func TestSegmentFillRecoversInteriorStructures(t *testing.T) {
	vol := phantomVolume(20, 4, 16, 7, 13)
	// A vessel-like dense voxel in the middle of the cavity
	vessel := vol.Index(10, 10, 10)
	vol.Data[vessel] = tissueHU

	segmenter := NewSegmenter(DefaultThreshold)

	filled, err := segmenter.Segment(vol, true)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if filled.Data[vessel] != models.MaskForeground {
		t.Error("Expected interior structure to be folded into the mask with fill enabled")
	}

	unfilled, err := segmenter.Segment(vol, false)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if unfilled.Data[vessel] != models.MaskBackground {
		t.Error("Expected interior structure to stay excluded with fill disabled")
	}
}

// TestSegmentOutputIsBinary verifies that the mask contains only the two
// membership values regardless of input content
func TestSegmentOutputIsBinary(t *testing.T) {
	vol := phantomVolume(12, 2, 10, 4, 8)
	segmenter := NewSegmenter(DefaultThreshold)

	mask, err := segmenter.Segment(vol, true)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	for i, v := range mask.Data {
		if v != models.MaskForeground && v != models.MaskBackground {
			t.Fatalf("Voxel %d has value %d, expected %d or %d",
				i, v, models.MaskBackground, models.MaskForeground)
		}
	}
}

// TestSegmentDegenerateVolumes verifies the graceful all-background
// results for volumes with no enclosed cavity
func TestSegmentDegenerateVolumes(t *testing.T) {
	segmenter := NewSegmenter(DefaultThreshold)

	// Uniformly dense volume: the only air is the corner-connected none
	dense := &models.Volume{
		Data:   make([]float64, 4*4*4),
		Width:  4, Height: 4, Depth: 4,
		Spacing: [3]float64{1, 1, 1},
	}
	for i := range dense.Data {
		dense.Data[i] = tissueHU
	}

	mask, err := segmenter.Segment(dense, true)
	if err != nil {
		t.Fatalf("Segment failed on dense volume: %v", err)
	}
	if count := mask.ForegroundCount(); count != 0 {
		t.Errorf("Expected all-background mask for dense volume, got %d foreground voxels", count)
	}

	// Uniform air volume: everything joins the exterior component
	air := &models.Volume{
		Data:   make([]float64, 4*4*4),
		Width:  4, Height: 4, Depth: 4,
		Spacing: [3]float64{1, 1, 1},
	}
	for i := range air.Data {
		air.Data[i] = airHU
	}

	mask, err = segmenter.Segment(air, true)
	if err != nil {
		t.Fatalf("Segment failed on air volume: %v", err)
	}
	if count := mask.ForegroundCount(); count != 0 {
		t.Errorf("Expected all-background mask for air volume, got %d foreground voxels", count)
	}
}

// TestSegmentRejectsDegenerateDimensions verifies the input-shape error
// is raised before any labeling happens
func TestSegmentRejectsDegenerateDimensions(t *testing.T) {
	segmenter := NewSegmenter(DefaultThreshold)

	if _, err := segmenter.Segment(nil, true); err == nil {
		t.Error("Expected an error for a nil volume")
	}

	empty := &models.Volume{Width: 0, Height: 4, Depth: 4}
	if _, err := segmenter.Segment(empty, true); err == nil {
		t.Error("Expected an error for zero-width volume")
	}

	mismatched := &models.Volume{Data: make([]float64, 10), Width: 2, Height: 2, Depth: 2}
	if _, err := segmenter.Segment(mismatched, true); err == nil {
		t.Error("Expected an error for mismatched data length")
	}
}

// TestSegmentDeterministic verifies that repeated runs on the same input
// produce identical masks
func TestSegmentDeterministic(t *testing.T) {
	vol := phantomVolume(16, 3, 13, 6, 10)
	segmenter := NewSegmenter(DefaultThreshold)

	first, err := segmenter.Segment(vol, true)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	second, err := segmenter.Segment(vol, true)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	for i := range first.Data {
		if first.Data[i] != second.Data[i] {
			t.Fatalf("Masks differ at voxel %d", i)
		}
	}
}
