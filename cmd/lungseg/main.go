package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"lungseg/internal/models"
	"lungseg/pkg/config"
	"lungseg/pkg/loader"
	"lungseg/pkg/mesh"
	"lungseg/pkg/segmentation"
	"lungseg/pkg/stl"
	"lungseg/pkg/visualization"
	"lungseg/pkg/volume"
)

func main() {
	// Parse command line arguments
	dicomDir := flag.String("input", "", "Directory containing a DICOM slice series")
	mhdFile := flag.String("mhd", "", "MetaImage (.mhd) volume file (alternative to -input)")
	outputName := flag.String("output", "lungs.stl", "Output STL filename")
	voxelStep := flag.Int("step", 0, "Marching cubes voxel step (0 = use config value)")
	fill := flag.Bool("fill", true, "Fill vessels and bronchial walls inside the lungs")
	configPath := flag.String("config", "lungseg.yaml", "Configuration file path")
	extractSlices := flag.Bool("extract-slices", false, "Extract and save scan slices with the mask overlaid")
	slicesDir := flag.String("slices-dir", "", "Directory to save extracted slices (default from config)")
	flag.Parse()

	// Validate inputs
	if *dicomDir == "" && *mhdFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *voxelStep > 0 {
		cfg.Mesh.VoxelStep = *voxelStep
	}
	if *slicesDir != "" {
		cfg.Output.SlicesDir = *slicesDir
	}

	fmt.Println("================================")
	fmt.Println("LUNG SEGMENTATION TOOL")
	fmt.Println("CT lung-field segmentation and 3D surface extraction")
	fmt.Println("================================")

	// Step 1: Load the scan volume
	fmt.Println("Step 1: Loading scan volume...")
	var vol *models.Volume
	if *mhdFile != "" {
		vol, err = loader.LoadMHD(*mhdFile)
	} else {
		vol, err = loader.LoadDICOMDir(*dicomDir)
	}
	if err != nil {
		log.Fatalf("Failed to load scan: %v", err)
	}
	fmt.Printf("Loaded volume %dx%dx%d, spacing %.2f x %.2f x %.2f mm\n",
		vol.Width, vol.Height, vol.Depth, vol.Spacing[0], vol.Spacing[1], vol.Spacing[2])

	// Step 2: Segment the lung fields
	fmt.Println("Step 2: Segmenting lung fields...")
	startTime := time.Now()
	segmenter := segmentation.NewSegmenter(cfg.Segmentation.Threshold)
	mask, err := segmenter.Segment(vol, *fill && cfg.Segmentation.FillLungStructures)
	if err != nil {
		log.Fatalf("Segmentation failed: %v", err)
	}

	// Step 3: Extract the lung surface
	fmt.Println("Step 3: Extracting lung surface with marching cubes...")
	surface, err := mesh.ExtractSurface(mask, cfg.Mesh.VoxelStep)
	if err != nil {
		log.Fatalf("Surface extraction failed: %v", err)
	}
	processingTime := time.Since(startTime)

	// Step 4: Save the STL model
	fmt.Println("Step 4: Saving STL model...")
	triangles := stl.FromMesh(surface, [3]float32{1, 1, 1})
	if err := stl.SaveToSTL(*outputName, triangles); err != nil {
		log.Fatalf("Failed to save STL file: %v", err)
	}

	stats, err := volume.ComputeMaskStats(vol, mask)
	if err != nil {
		log.Fatalf("Failed to compute mask statistics: %v", err)
	}

	fmt.Printf("\nSegmentation completed in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Output 3D model saved to: %s\n\n", *outputName)

	fmt.Printf("Segmentation summary:\n")
	fmt.Printf("=====================\n")
	fmt.Printf("Lung voxels: %d\n", stats.VoxelCount)
	fmt.Printf("Lung volume: %.1f mL\n", stats.PhysicalVolumeML)
	fmt.Printf("Mean density: %.1f HU\n", stats.MeanIntensity)
	fmt.Printf("Density std dev: %.1f HU\n", stats.StdIntensity)
	fmt.Printf("Surface mesh: %d vertices, %d triangles\n", surface.VertexCount(), surface.TriangleCount())

	// Extract and save overlay slices if requested
	if *extractSlices || cfg.Output.ExportSlices {
		fmt.Println("\nExtracting scan slices with mask overlay...")

		normalizer := volume.NewNormalizer(cfg.Normalization.MinBound, cfg.Normalization.MaxBound)
		normalized, err := normalizer.Apply(vol)
		if err != nil {
			log.Fatalf("Normalization failed: %v", err)
		}

		viewer := visualization.NewViewer(normalized, mask)
		for _, plane := range []string{visualization.Transverse, visualization.Coronal, visualization.Sagittal} {
			planeDir := filepath.Join(cfg.Output.SlicesDir, plane)
			fmt.Printf("Saving %s slices to: %s\n", plane, planeDir)

			if err := viewer.SaveSliceSequence(plane, planeDir); err != nil {
				log.Printf("Warning: Failed to save %s slices: %v", plane, err)
			}
		}

		fmt.Println("Slice extraction completed!")
	}
}
