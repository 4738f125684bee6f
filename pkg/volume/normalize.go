// Package volume provides intensity calibration and statistics for 3D
// scan volumes.
package volume

import (
	"fmt"

	"lungseg/internal/models"
)

// Default radiodensity bounds in Hounsfield units. Values at or below
// MinBound render as full black, values at or above MaxBound as full white.
const (
	DefaultMinBound = -1000.0
	DefaultMaxBound = 400.0
)

// Normalizer maps raw voxel intensities onto the unit interval using a
// fixed physical-unit window.
type Normalizer struct {
	minBound float64
	maxBound float64
}

// NewNormalizer creates a normalizer for the given intensity window.
//
// Parameters:
//   - minBound: intensity mapped to 0.0; anything below is clamped
//   - maxBound: intensity mapped to 1.0; anything above is clamped
func NewNormalizer(minBound, maxBound float64) *Normalizer {
	return &Normalizer{
		minBound: minBound,
		maxBound: maxBound,
	}
}

// Apply returns a new volume with every intensity clamped to the window
// and linearly rescaled to [0, 1]. The input volume is not modified and
// its spacing metadata is carried through unchanged.
func (n *Normalizer) Apply(vol *models.Volume) (*models.Volume, error) {
	if vol == nil || len(vol.Data) < 1 {
		return nil, fmt.Errorf("cannot normalize an empty volume")
	}
	if vol.NumVoxels() != len(vol.Data) {
		return nil, fmt.Errorf("volume dimensions %dx%dx%d do not match data length %d",
			vol.Width, vol.Height, vol.Depth, len(vol.Data))
	}
	span := n.maxBound - n.minBound
	if span <= 0 {
		return nil, fmt.Errorf("invalid normalization window [%f, %f]", n.minBound, n.maxBound)
	}

	out := &models.Volume{
		Data:    make([]float64, len(vol.Data)),
		Width:   vol.Width,
		Height:  vol.Height,
		Depth:   vol.Depth,
		Spacing: vol.Spacing,
	}

	for i, v := range vol.Data {
		switch {
		case v <= n.minBound:
			out.Data[i] = 0.0
		case v >= n.maxBound:
			out.Data[i] = 1.0
		default:
			out.Data[i] = (v - n.minBound) / span
		}
	}

	return out, nil
}
