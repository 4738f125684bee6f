// Package segmentation extracts a binary lung-tissue mask from a
// calibrated CT volume using iterative connected-component analysis.
package segmentation

import (
	"fmt"

	"lungseg/internal/models"
)

// DefaultThreshold is the radiodensity cutoff in Hounsfield units
// separating air and lung parenchyma from denser tissue. Soft tissue,
// blood and bone all sit well above it; lung air sits far below.
const DefaultThreshold = -320.0

// Voxel classes used during segmentation. The class volume is kept
// one-based so that the labeler can treat 0 as "no class" where needed.
const (
	classAir   uint8 = 1
	classDense uint8 = 2
)

// Segmenter produces binary lung masks from calibrated scan volumes.
//
// The algorithm follows a fixed sequence: threshold the volume into air
// and dense-tissue classes, label connected regions in 3D, reclassify the
// exterior-air component as dense (so air inside the body can be told
// apart from air around it), optionally fold per-slice structures such as
// vessels back into the lung region, then invert and keep only the
// largest connected air region.
type Segmenter struct {
	// threshold is the intensity above which a voxel counts as dense tissue
	threshold float64
}

// NewSegmenter creates a segmenter using the given density threshold.
// Pass DefaultThreshold unless the scan calibration is unusual.
func NewSegmenter(threshold float64) *Segmenter {
	return &Segmenter{threshold: threshold}
}

// Segment computes a binary lung mask for the volume. The mask has the
// same dimensions as the input and contains exactly the values
// models.MaskForeground and models.MaskBackground.
//
// When fillLungStructures is true, each depth slice is post-processed
// independently: only the largest dense region in the slice is kept as
// tissue and every smaller dense region is folded into the lung class.
// This recovers vasculature and bronchial walls inside the lung
// silhouette that the global pass would otherwise exclude, and it is
// what keeps the trachea's connection to outside air from bleeding the
// lung region into the exterior background.
//
// Degenerate scans are not an error: a volume with no enclosed air
// cavity yields an all-background mask.
func (s *Segmenter) Segment(vol *models.Volume, fillLungStructures bool) (*models.Mask, error) {
	if vol == nil {
		return nil, fmt.Errorf("segmentation requires a volume")
	}
	if vol.Width < 1 || vol.Height < 1 || vol.Depth < 1 {
		return nil, fmt.Errorf("volume has degenerate dimensions %dx%dx%d",
			vol.Width, vol.Height, vol.Depth)
	}
	if len(vol.Data) != vol.NumVoxels() {
		return nil, fmt.Errorf("volume dimensions %dx%dx%d do not match data length %d",
			vol.Width, vol.Height, vol.Depth, len(vol.Data))
	}

	width, height, depth := vol.Width, vol.Height, vol.Depth
	n := vol.NumVoxels()

	// Step 1: threshold into air / dense-tissue classes
	classes := make([]uint8, n)
	for i, v := range vol.Data {
		if v > s.threshold {
			classes[i] = classDense
		} else {
			classes[i] = classAir
		}
	}

	// Step 2: label connected regions of the full class volume. No voxel
	// carries class 0, so every region receives a label.
	labels, _ := labelComponents(classes, width, height, depth, 0)

	// Step 3: the component touching the corner voxel is exterior air;
	// reclassify it as dense so it cannot be mistaken for lung cavity
	exterior := backgroundSeedLabel(labels)
	for i := range classes {
		if labels[i] == exterior {
			classes[i] = classDense
		}
	}

	// Step 4: optional per-slice fill of structures inside the lungs
	if fillLungStructures {
		s.fillSliceStructures(classes, width, height, depth)
	}

	// Step 5: invert so air becomes foreground, then keep only the
	// largest connected air region and discard disconnected fragments
	binary := make([]uint8, n)
	for i, c := range classes {
		if c == classAir {
			binary[i] = 1
		}
	}

	labels, counts := labelComponents(binary, width, height, depth, 0)
	mask := models.NewMask(width, height, depth)
	if lung, ok := largestComponent(counts); ok {
		for i := range labels {
			if labels[i] == lung {
				mask.Data[i] = models.MaskForeground
			}
		}
	}

	return mask, nil
}

// fillSliceStructures relabels each depth slice independently, keeping
// the single largest dense region per slice and reclassifying every other
// dense region as air. A slice with no dense region is left unchanged.
// Slices are processed in place on the class volume.
func (s *Segmenter) fillSliceStructures(classes []uint8, width, height, depth int) {
	sliceSize := width * height
	slice := make([]uint8, sliceSize)

	for z := 0; z < depth; z++ {
		offset := z * sliceSize

		// Shift classes down so air maps to 0 and is excluded from labeling
		for i := 0; i < sliceSize; i++ {
			slice[i] = classes[offset+i] - classAir
		}

		sliceLabels, counts := labelComponents(slice, width, height, 1, 0)
		largest, ok := largestComponent(counts)
		if !ok {
			continue
		}

		for i := 0; i < sliceSize; i++ {
			if sliceLabels[i] != largest {
				classes[offset+i] = classAir
			}
		}
	}
}
