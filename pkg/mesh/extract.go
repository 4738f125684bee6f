// Package mesh converts binary segmentation masks into triangulated
// iso-surfaces using marching cubes.
package mesh

import (
	"fmt"

	"lungseg/internal/models"
)

// isoLevel is the surface threshold: the midpoint between the two mask
// states, so the surface sits halfway between foreground and background
// voxels.
const isoLevel = 0.5

// ExtractSurface runs marching cubes over the mask and returns an indexed
// triangle mesh of the foreground boundary.
//
// The mask's axis order is permuted before extraction so that the depth
// axis of the scan becomes the innermost axis of the sampled grid; vertex
// coordinates are therefore expressed in that permuted voxel-index space.
// Physical spacing is deliberately not applied here, scaling is the
// renderer's concern.
//
// voxelStep sub-samples the grid for coarser, cheaper meshes; a step of 1
// extracts at full resolution. Vertex coordinates remain in the original
// index space regardless of step. An all-background mask produces an
// empty mesh, not an error.
func ExtractSurface(mask *models.Mask, voxelStep int) (*models.Mesh, error) {
	if mask == nil {
		return nil, fmt.Errorf("surface extraction requires a mask")
	}
	if len(mask.Data) != mask.NumVoxels() {
		return nil, fmt.Errorf("mask dimensions %dx%dx%d do not match data length %d",
			mask.Width, mask.Height, mask.Depth, len(mask.Data))
	}
	if voxelStep < 1 {
		return nil, fmt.Errorf("voxel step must be at least 1, got %d", voxelStep)
	}

	grid, gw, gh, gd := transposeDepthInner(mask)
	mc := newMarchingCubes(grid, gw, gh, gd, isoLevel, voxelStep)
	return mc.generate(), nil
}

// transposeDepthInner permutes the mask so that the scan's depth axis
// becomes the innermost (x) axis of the returned grid, matching the axis
// convention the extraction routine expects. The returned dimensions are
// the permuted (width, height, depth).
func transposeDepthInner(mask *models.Mask) ([]float64, int, int, int) {
	w, h, d := mask.Width, mask.Height, mask.Depth
	gw, gh, gd := d, h, w

	grid := make([]float64, len(mask.Data))
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			rowSrc := z*w*h + y*w
			for x := 0; x < w; x++ {
				// (x, y, z) in the scan becomes (z, y, x) in the grid
				grid[x*gw*gh+y*gw+z] = float64(mask.Data[rowSrc+x])
			}
		}
	}

	return grid, gw, gh, gd
}
