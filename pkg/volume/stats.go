package volume

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"lungseg/internal/models"
)

// MaskStats summarizes the scan intensities covered by a binary mask.
// These figures give a quick plausibility check on a segmentation result:
// healthy aerated lung tissue averages around -700 HU, and adult total
// lung capacity is on the order of a few liters.
type MaskStats struct {
	// VoxelCount is the number of foreground voxels in the mask
	VoxelCount int

	// PhysicalVolumeML is the physical volume covered by the mask in
	// milliliters, derived from the voxel spacing
	PhysicalVolumeML float64

	// MeanIntensity is the mean scan intensity inside the mask
	MeanIntensity float64

	// StdIntensity is the standard deviation of scan intensity inside the mask
	StdIntensity float64
}

// ComputeMaskStats calculates summary statistics for the voxels selected
// by the mask. An all-background mask yields zero-valued statistics.
func ComputeMaskStats(vol *models.Volume, mask *models.Mask) (MaskStats, error) {
	if vol == nil || mask == nil {
		return MaskStats{}, fmt.Errorf("volume and mask are required")
	}
	if len(vol.Data) != len(mask.Data) {
		return MaskStats{}, fmt.Errorf("volume has %d voxels but mask has %d",
			len(vol.Data), len(mask.Data))
	}

	values := make([]float64, 0, len(vol.Data)/4)
	for i, v := range mask.Data {
		if v != models.MaskBackground {
			values = append(values, vol.Data[i])
		}
	}

	stats := MaskStats{VoxelCount: len(values)}
	if len(values) == 0 {
		return stats, nil
	}

	// mm^3 per voxel, spacing ordered (z, y, x)
	voxelVolume := vol.Spacing[0] * vol.Spacing[1] * vol.Spacing[2]
	stats.PhysicalVolumeML = float64(len(values)) * voxelVolume / 1000.0

	stats.MeanIntensity = stat.Mean(values, nil)
	if len(values) > 1 {
		stats.StdIntensity = stat.StdDev(values, nil)
	}

	return stats, nil
}
