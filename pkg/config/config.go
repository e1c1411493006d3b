// Package config provides configuration loading and management for watercoherer.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"watercoherer/internal/models"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores is the upper bound on worker goroutines per computation
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Spectral index parameters
	Index struct {
		// Method selects the band pair: green-nir or nir-swir
		Method models.Method `yaml:"method"`

		// Threshold is the index value at or above which a pixel is water
		Threshold float64 `yaml:"threshold"`

		// ReflectanceFloor is the sample value at or below which a pixel is no-data
		ReflectanceFloor float64 `yaml:"reflectanceFloor"`
	} `yaml:"index"`

	// Cloud detection parameters
	Clouds struct {
		// Threshold is the brightness above which a pixel is cloud
		Threshold float64 `yaml:"threshold"`

		// Band is the band scanned for clouds
		Band models.Band `yaml:"band"`
	} `yaml:"clouds"`

	// Water clarity classification parameters
	Differencer struct {
		// ClarityThreshold separates clear water (at or above) from turbid water
		ClarityThreshold float64 `yaml:"clarityThreshold"`

		// ReferenceBand is the band the clarity threshold is applied to
		ReferenceBand models.Band `yaml:"referenceBand"`
	} `yaml:"differencer"`

	// Output parameters
	Output struct {
		// Directory receives the generated rasters
		Directory string `yaml:"directory"`

		// SaveCloudLayers writes the per-scene and merged cloud masks
		SaveCloudLayers bool `yaml:"saveCloudLayers"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Index.Method = models.GreenNir
	cfg.Index.Threshold = 0.33
	cfg.Index.ReflectanceFloor = 1

	cfg.Clouds.Threshold = 120
	cfg.Clouds.Band = models.Blue

	cfg.Differencer.ClarityThreshold = 17
	cfg.Differencer.ReferenceBand = models.NearInfrared

	cfg.Output.Directory = "watercoherer_output"
	cfg.Output.SaveCloudLayers = true
	cfg.Output.Verbose = true

	return cfg
}

// Validate checks the configuration for values the analytics cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Processing.NumCores < 1 {
		errs = append(errs, fmt.Errorf("processing.numCores must be at least 1, got %d", c.Processing.NumCores))
	}
	if !c.Index.Method.Valid() {
		errs = append(errs, fmt.Errorf("index.method: %w: %d", models.ErrInvalidMethod, int(c.Index.Method)))
	}
	if c.Index.ReflectanceFloor < 0 {
		errs = append(errs, fmt.Errorf("index.reflectanceFloor must be non-negative, got %v", c.Index.ReflectanceFloor))
	}
	if !c.Clouds.Band.Valid() {
		errs = append(errs, fmt.Errorf("clouds.band: %w: %d", models.ErrInvalidBand, int(c.Clouds.Band)))
	}
	if !c.Differencer.ReferenceBand.Valid() {
		errs = append(errs, fmt.Errorf("differencer.referenceBand: %w: %d", models.ErrInvalidBand, int(c.Differencer.ReferenceBand)))
	}
	return errors.Join(errs...)
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
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

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
