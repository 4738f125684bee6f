package models

// MaskForeground marks voxels that belong to the segmented tissue of interest
const MaskForeground uint8 = 1

// MaskBackground marks voxels outside the segmented tissue
const MaskBackground uint8 = 0

// Mask is a binary membership volume with the same shape as the scan
// volume it was derived from
type Mask struct {
	// Data holds one membership value per voxel, indexed the same way
	// as Volume.Data
	Data []uint8

	// Width, Height, Depth are the dimensions of the mask in voxels
	Width, Height, Depth int
}

// NewMask allocates an all-background mask with the given dimensions
func NewMask(width, height, depth int) *Mask {
	return &Mask{
		Data:   make([]uint8, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// NumVoxels returns the total number of voxels described by the mask dimensions
func (m *Mask) NumVoxels() int {
	return m.Width * m.Height * m.Depth
}

// Index returns the flat array index for the voxel at (x, y, z)
func (m *Mask) Index(x, y, z int) int {
	return z*m.Width*m.Height + y*m.Width + x
}

// At returns the membership value of the voxel at (x, y, z)
func (m *Mask) At(x, y, z int) uint8 {
	return m.Data[m.Index(x, y, z)]
}

// ForegroundCount returns the number of foreground voxels in the mask
func (m *Mask) ForegroundCount() int {
	count := 0
	for _, v := range m.Data {
		if v != MaskBackground {
			count++
		}
	}
	return count
}
