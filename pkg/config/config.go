// Package config provides configuration loading and management for lungseg.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"lungseg/pkg/segmentation"
	"lungseg/pkg/volume"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Segmentation parameters
	Segmentation struct {
		// Threshold is the radiodensity cutoff in Hounsfield units separating
		// air and lung tissue from denser structures
		Threshold float64 `yaml:"threshold"`

		// FillLungStructures folds vessels and bronchial walls inside the
		// lung silhouette into the mask
		FillLungStructures bool `yaml:"fillLungStructures"`
	} `yaml:"segmentation"`

	// Normalization parameters for display-range mapping
	Normalization struct {
		// MinBound is the intensity rendered as full black
		MinBound float64 `yaml:"minBound"`

		// MaxBound is the intensity rendered as full white
		MaxBound float64 `yaml:"maxBound"`
	} `yaml:"normalization"`

	// Mesh extraction parameters
	Mesh struct {
		// VoxelStep sub-samples the mask during surface extraction;
		// 1 extracts at full resolution
		VoxelStep int `yaml:"voxelStep"`
	} `yaml:"mesh"`

	// Output parameters
	Output struct {
		// ExportSlices determines whether slice images are written alongside the mesh
		ExportSlices bool `yaml:"exportSlices"`

		// SlicesDir is the directory slice images are written to
		SlicesDir string `yaml:"slicesDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Segmentation.Threshold = segmentation.DefaultThreshold
	cfg.Segmentation.FillLungStructures = true

	cfg.Normalization.MinBound = volume.DefaultMinBound
	cfg.Normalization.MaxBound = volume.DefaultMaxBound

	cfg.Mesh.VoxelStep = 1

	cfg.Output.ExportSlices = false
	cfg.Output.SlicesDir = "slices"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
