package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lungseg/internal/models"
)

// mhdHeader holds the MetaImage header fields this loader understands
type mhdHeader struct {
	nDims       int
	dimSize     []int
	spacing     []float64
	elementType string
	bigEndian   bool
	dataFile    string
}

// LoadMHD reads a MetaImage (.mhd) volume: a short textual header
// describing dimensions, spacing and element type, followed by a raw
// little-endian voxel payload either in a companion file or inline
// ("ElementDataFile = LOCAL").
//
// MetaImage stores dimensions and spacing in (x, y, z) order; the
// returned volume carries spacing reversed into (z, y, x) to match the
// volume's axis order.
func LoadMHD(scanPath string) (*models.Volume, error) {
	file, err := os.Open(scanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open MHD file: %v", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	header, err := parseMHDHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MHD header: %v", err)
	}

	if header.nDims != 3 || len(header.dimSize) != 3 {
		return nil, fmt.Errorf("expected a 3-dimensional volume, got NDims = %d", header.nDims)
	}
	for _, d := range header.dimSize {
		if d < 1 {
			return nil, fmt.Errorf("invalid DimSize %v", header.dimSize)
		}
	}
	if len(header.spacing) != 3 {
		return nil, fmt.Errorf("ElementSpacing metadata missing in %s", scanPath)
	}

	// Raw payload: inline after the header, or in a companion file
	var raw io.Reader
	if strings.EqualFold(header.dataFile, "LOCAL") {
		raw = reader
	} else {
		dataPath := header.dataFile
		if !filepath.IsAbs(dataPath) {
			dataPath = filepath.Join(filepath.Dir(scanPath), dataPath)
		}
		dataFile, err := os.Open(dataPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open element data file: %v", err)
		}
		defer dataFile.Close()
		raw = bufio.NewReader(dataFile)
	}

	width, height, depth := header.dimSize[0], header.dimSize[1], header.dimSize[2]
	data, err := readElements(raw, header.elementType, header.bigEndian, width*height*depth)
	if err != nil {
		return nil, fmt.Errorf("failed to read voxel data: %v", err)
	}

	return &models.Volume{
		Data:    data,
		Width:   width,
		Height:  height,
		Depth:   depth,
		Spacing: [3]float64{header.spacing[2], header.spacing[1], header.spacing[0]},
	}, nil
}

// parseMHDHeader reads "Key = Value" lines up to and including
// ElementDataFile, which by convention terminates the header
func parseMHDHeader(reader *bufio.Reader) (*mhdHeader, error) {
	header := &mhdHeader{dataFile: "LOCAL"}

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}

		key, value, found := strings.Cut(line, "=")
		if found {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)

			switch key {
			case "NDims":
				header.nDims, _ = strconv.Atoi(value)
			case "DimSize":
				dims, perr := parseIntFields(value)
				if perr != nil {
					return nil, fmt.Errorf("bad DimSize %q: %v", value, perr)
				}
				header.dimSize = dims
			case "ElementSpacing", "ElementSize":
				spacing, perr := parseFloatFields(value)
				if perr != nil {
					return nil, fmt.Errorf("bad %s %q: %v", key, value, perr)
				}
				header.spacing = spacing
			case "ElementType":
				header.elementType = value
			case "ElementByteOrderMSB", "BinaryDataByteOrderMSB":
				header.bigEndian = strings.EqualFold(value, "true")
			case "ElementDataFile":
				header.dataFile = value
				return header, nil
			}
		}

		if err == io.EOF {
			return nil, fmt.Errorf("header ended without ElementDataFile")
		}
	}
}

// readElements decodes count voxels of the given MetaImage element type
// into float64 intensities
func readElements(r io.Reader, elementType string, bigEndian bool, count int) ([]float64, error) {
	var order binary.ByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}

	data := make([]float64, count)

	switch elementType {
	case "MET_CHAR":
		buf := make([]int8, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case "MET_UCHAR":
		buf := make([]uint8, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case "MET_SHORT":
		buf := make([]int16, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case "MET_USHORT":
		buf := make([]uint16, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case "MET_INT":
		buf := make([]int32, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			data[i] = float64(v)
		}
	case "MET_FLOAT":
		buf := make([]uint32, count)
		if err := binary.Read(r, order, buf); err != nil {
			return nil, err
		}
		for i, v := range buf {
			data[i] = float64(math.Float32frombits(v))
		}
	case "MET_DOUBLE":
		if err := binary.Read(r, order, data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported ElementType %q", elementType)
	}

	return data, nil
}

// parseIntFields splits a whitespace-separated list of integers
func parseIntFields(s string) ([]int, error) {
	fields := strings.Fields(s)
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// parseFloatFields splits a whitespace-separated list of floats
func parseFloatFields(s string) ([]float64, error) {
	fields := strings.Fields(s)
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
