package models

// Volume represents a 3D scan volume with calibrated scalar intensities
type Volume struct {
	// Data is the 3D volume data as a 1D array in row-major order,
	// indexed as z*Width*Height + y*Width + x
	Data []float64

	// Width is the width of the volume in voxels (x axis)
	Width int

	// Height is the height of the volume in voxels (y axis)
	Height int

	// Depth is the depth of the volume in voxels (z axis, one entry per scan slice)
	Depth int

	// Spacing is the physical size of each voxel in mm, ordered to match
	// the axis order of the volume: (z, y, x)
	Spacing [3]float64
}

// NumVoxels returns the total number of voxels described by the volume dimensions
func (v *Volume) NumVoxels() int {
	return v.Width * v.Height * v.Depth
}

// Index returns the flat array index for the voxel at (x, y, z)
func (v *Volume) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// At returns the intensity of the voxel at (x, y, z)
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[v.Index(x, y, z)]
}
