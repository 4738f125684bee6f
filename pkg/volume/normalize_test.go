package volume

import (
	"math"
	"testing"

	"lungseg/internal/models"
)

func testVolume(data []float64) *models.Volume {
	return &models.Volume{
		Data:    data,
		Width:   len(data),
		Height:  1,
		Depth:   1,
		Spacing: [3]float64{1, 1, 1},
	}
}

// TestNormalizerClampsAndRescales verifies the window mapping: values at
// or below the lower bound map to 0, at or above the upper bound to 1,
// and interior values rescale linearly
func TestNormalizerClampsAndRescales(t *testing.T) {
	n := NewNormalizer(DefaultMinBound, DefaultMaxBound)

	vol := testVolume([]float64{-2000, -1000, -300, 400, 3000})
	out, err := n.Apply(vol)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	expected := []float64{0, 0, 0.5, 1, 1}
	for i, want := range expected {
		if math.Abs(out.Data[i]-want) > 1e-9 {
			t.Errorf("Voxel %d: expected %f, got %f", i, want, out.Data[i])
		}
	}
}

// TestNormalizerPreservesInput verifies the input volume is left untouched
// and its shape and spacing are carried to the output
func TestNormalizerPreservesInput(t *testing.T) {
	n := NewNormalizer(0, 100)

	vol := testVolume([]float64{-50, 50, 150})
	vol.Spacing = [3]float64{2.5, 0.8, 0.7}
	original := append([]float64(nil), vol.Data...)

	out, err := n.Apply(vol)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	for i := range original {
		if vol.Data[i] != original[i] {
			t.Errorf("Input voxel %d was modified: %f -> %f", i, original[i], vol.Data[i])
		}
	}
	if out.Width != vol.Width || out.Height != vol.Height || out.Depth != vol.Depth {
		t.Errorf("Output shape %dx%dx%d does not match input %dx%dx%d",
			out.Width, out.Height, out.Depth, vol.Width, vol.Height, vol.Depth)
	}
	if out.Spacing != vol.Spacing {
		t.Errorf("Expected spacing %v to carry through, got %v", vol.Spacing, out.Spacing)
	}
}

// TestNormalizerRange verifies every output value lands in [0, 1]
func TestNormalizerRange(t *testing.T) {
	n := NewNormalizer(DefaultMinBound, DefaultMaxBound)

	vol := testVolume([]float64{-3024, -1024, -320, 0, 40, 400, 1500, 3071})
	out, err := n.Apply(vol)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	for i, v := range out.Data {
		if v < 0 || v > 1 {
			t.Errorf("Voxel %d: value %f outside [0, 1]", i, v)
		}
	}
}

// TestNormalizerRejectsBadInput verifies the error cases: empty volumes,
// mismatched data lengths, and inverted windows
func TestNormalizerRejectsBadInput(t *testing.T) {
	n := NewNormalizer(DefaultMinBound, DefaultMaxBound)

	if _, err := n.Apply(nil); err == nil {
		t.Error("Expected an error for a nil volume")
	}
	if _, err := n.Apply(&models.Volume{}); err == nil {
		t.Error("Expected an error for an empty volume")
	}

	mismatched := &models.Volume{Data: make([]float64, 5), Width: 2, Height: 2, Depth: 2}
	if _, err := n.Apply(mismatched); err == nil {
		t.Error("Expected an error for mismatched data length")
	}

	inverted := NewNormalizer(400, -1000)
	if _, err := inverted.Apply(testVolume([]float64{0})); err == nil {
		t.Error("Expected an error for an inverted window")
	}

	degenerate := NewNormalizer(0, 0)
	if _, err := degenerate.Apply(testVolume([]float64{0})); err == nil {
		t.Error("Expected an error for a zero-width window")
	}
}
