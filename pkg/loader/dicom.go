// Package loader reads CT scan volumes from DICOM series directories and
// MetaImage (MHD) files, producing calibrated intensity volumes with
// physical voxel spacing.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"lungseg/internal/models"
)

// dicomSlice pairs a parsed dataset with the sort key used to order the
// series along the scan axis
type dicomSlice struct {
	dataset  dicom.Dataset
	position float64
}

// LoadDICOMDir reads every DICOM file in the given directory and stacks
// the slices into a single volume in Hounsfield units.
//
// Files that are not valid DICOM are skipped silently, so scan
// directories containing stray metadata files still load. Slices are
// ordered by the z component of ImagePositionPatient, falling back to
// SliceLocation when position metadata is missing. Voxel spacing is
// (slice thickness, row spacing, column spacing) in mm, with thickness
// inferred from the gap between the first two slices.
func LoadDICOMDir(scanPath string) (*models.Volume, error) {
	entries, err := os.ReadDir(scanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan directory: %v", err)
	}

	var slices []dicomSlice
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		dataset, err := dicom.ParseFile(filepath.Join(scanPath, entry.Name()), nil)
		if err != nil {
			// Not a DICOM file; skip it
			continue
		}
		slices = append(slices, dicomSlice{
			dataset:  dataset,
			position: slicePosition(dataset),
		})
	}

	if len(slices) == 0 {
		return nil, fmt.Errorf("no DICOM slices found in %s", scanPath)
	}
	if len(slices) < 2 {
		return nil, fmt.Errorf("unable to determine slice thickness for %s: need at least 2 slices", scanPath)
	}

	sort.Slice(slices, func(i, j int) bool {
		return slices[i].position < slices[j].position
	})

	rows, ok := intValue(slices[0].dataset, tag.Rows)
	if !ok {
		return nil, fmt.Errorf("Rows metadata missing for %s", scanPath)
	}
	cols, ok := intValue(slices[0].dataset, tag.Columns)
	if !ok {
		return nil, fmt.Errorf("Columns metadata missing for %s", scanPath)
	}

	thickness := slices[1].position - slices[0].position
	if thickness < 0 {
		thickness = -thickness
	}
	if thickness == 0 {
		return nil, fmt.Errorf("unable to determine slice thickness for %s", scanPath)
	}

	rowSpacing, ok := floatValue(slices[0].dataset, tag.PixelSpacing, 0)
	colSpacing, ok2 := floatValue(slices[0].dataset, tag.PixelSpacing, 1)
	if !ok || !ok2 {
		return nil, fmt.Errorf("PixelSpacing metadata missing for %s", scanPath)
	}

	vol := &models.Volume{
		Data:    make([]float64, cols*rows*len(slices)),
		Width:   cols,
		Height:  rows,
		Depth:   len(slices),
		Spacing: [3]float64{thickness, rowSpacing, colSpacing},
	}

	for z, s := range slices {
		if err := fillSlice(vol, z, s.dataset); err != nil {
			return nil, fmt.Errorf("failed to decode slice %d: %v", z, err)
		}
	}

	return vol, nil
}

// fillSlice decodes the pixel data of one dataset into depth index z of
// the volume, applying the DICOM rescale transform to get Hounsfield units
func fillSlice(vol *models.Volume, z int, dataset dicom.Dataset) error {
	element, err := dataset.FindElementByTag(tag.PixelData)
	if err != nil {
		return fmt.Errorf("missing PixelData: %v", err)
	}

	info := dicom.MustGetPixelDataInfo(element.Value)
	if len(info.Frames) == 0 {
		return fmt.Errorf("PixelData contains no frames")
	}

	native, err := info.Frames[0].GetNativeFrame()
	if err != nil {
		return fmt.Errorf("unsupported pixel encoding: %v", err)
	}
	if native.Rows != vol.Height || native.Cols != vol.Width {
		return fmt.Errorf("slice is %dx%d but series is %dx%d",
			native.Cols, native.Rows, vol.Width, vol.Height)
	}

	slope, ok := floatValue(dataset, tag.RescaleSlope, 0)
	if !ok {
		slope = 1.0
	}
	intercept, ok := floatValue(dataset, tag.RescaleIntercept, 0)
	if !ok {
		intercept = 0.0
	}

	offset := z * vol.Width * vol.Height
	for i, sample := range native.Data {
		vol.Data[offset+i] = slope*float64(sample[0]) + intercept
	}

	return nil
}

// slicePosition returns the scan-axis coordinate of a slice: the z
// component of ImagePositionPatient when present, then SliceLocation,
// then 0 so that an unordered series still loads deterministically
func slicePosition(dataset dicom.Dataset) float64 {
	if pos, ok := floatValue(dataset, tag.ImagePositionPatient, 2); ok {
		return pos
	}
	if loc, ok := floatValue(dataset, tag.SliceLocation, 0); ok {
		return loc
	}
	return 0.0
}

// intValue extracts an integer element such as Rows or Columns
func intValue(dataset dicom.Dataset, t tag.Tag) (int, bool) {
	element, err := dataset.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	values, ok := element.Value.GetValue().([]int)
	if !ok || len(values) == 0 {
		return 0, false
	}
	return values[0], true
}

// floatValue extracts index idx of a decimal-string element such as
// PixelSpacing or ImagePositionPatient
func floatValue(dataset dicom.Dataset, t tag.Tag, idx int) (float64, bool) {
	element, err := dataset.FindElementByTag(t)
	if err != nil {
		return 0, false
	}
	values, ok := element.Value.GetValue().([]string)
	if !ok || idx >= len(values) {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(values[idx], 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
