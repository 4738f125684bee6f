// Package visualization renders scan and segmentation slices to image
// files and prepares mesh buffers for a GL-based viewer.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"

	"lungseg/internal/models"
)

// Anatomical viewing planes. Transverse slices run along the scan (depth)
// axis; coronal and sagittal cut across it.
const (
	Transverse = "transverse"
	Coronal    = "coronal"
	Sagittal   = "sagittal"
)

// Viewer renders 2D views of a normalized scan volume, optionally
// highlighting the voxels selected by a segmentation mask
type Viewer struct {
	// scan holds normalized [0,1] intensities
	scan *models.Volume

	// mask is the optional segmentation overlay; nil disables highlighting
	mask *models.Mask
}

// NewViewer creates a viewer for a normalized scan volume.
// Pass a nil mask to render plain scan slices.
func NewViewer(scan *models.Volume, mask *models.Mask) *Viewer {
	return &Viewer{scan: scan, mask: mask}
}

// ExtractSlice renders a 2D slice of the scan on the given anatomical
// plane. Masked voxels are rendered at full intensity so the segmented
// region stands out against the windowed scan.
func (v *Viewer) ExtractSlice(plane string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	switch plane {
	case Transverse:
		if position >= v.scan.Depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.scan.Depth)
		}
		img := image.NewGray16(image.Rect(0, 0, v.scan.Width, v.scan.Height))
		for y := 0; y < v.scan.Height; y++ {
			for x := 0; x < v.scan.Width; x++ {
				img.SetGray16(x, y, v.voxelGray(x, y, position))
			}
		}
		return img, nil

	case Coronal:
		if position >= v.scan.Height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.scan.Height)
		}
		img := image.NewGray16(image.Rect(0, 0, v.scan.Width, v.scan.Depth))
		for z := 0; z < v.scan.Depth; z++ {
			for x := 0; x < v.scan.Width; x++ {
				img.SetGray16(x, z, v.voxelGray(x, position, z))
			}
		}
		return img, nil

	case Sagittal:
		if position >= v.scan.Width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.scan.Width)
		}
		img := image.NewGray16(image.Rect(0, 0, v.scan.Height, v.scan.Depth))
		for z := 0; z < v.scan.Depth; z++ {
			for y := 0; y < v.scan.Height; y++ {
				img.SetGray16(y, z, v.voxelGray(position, y, z))
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("invalid plane: %s (must be transverse, coronal, or sagittal)", plane)
	}
}

// voxelGray maps one voxel to a 16-bit gray value, clamping the
// normalized intensity and overriding with full white inside the mask
func (v *Viewer) voxelGray(x, y, z int) color.Gray16 {
	if v.mask != nil && v.mask.At(x, y, z) != models.MaskBackground {
		return color.Gray16{Y: 65535}
	}

	value := v.scan.At(x, y, z)
	if value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}
	return color.Gray16{Y: uint16(value * 65535.0)}
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice on the given plane
func (v *Viewer) SaveSliceSequence(plane string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch plane {
	case Transverse:
		maxPos = v.scan.Depth
	case Coronal:
		maxPos = v.scan.Height
	case Sagittal:
		maxPos = v.scan.Width
	default:
		return fmt.Errorf("invalid plane: %s (must be transverse, coronal, or sagittal)", plane)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(plane, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%03d.jpg", plane, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// MeshBuffers returns the flat vertex coordinate and face index arrays a
// GL viewer binds directly: three coordinate scalars per vertex and three
// indices per triangle
func MeshBuffers(mesh *models.Mesh) ([]float32, []uint32) {
	return mesh.Vertices, mesh.Faces
}
