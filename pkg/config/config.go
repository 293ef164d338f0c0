// Package config provides configuration loading and management for rtsplit.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"rtsplit/pkg/rtstruct"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Split parameters
	Split struct {
		// ZTolerance is the z quantization grid in mm used when bucketing
		// contours onto levels
		ZTolerance float64 `yaml:"zTolerance"`

		// ROIs restricts processing to the named regions; empty means all
		ROIs []string `yaml:"rois"`
	} `yaml:"split"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use when rasterizing
		// multiple regions in parallel
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Report is the path for the grouping report; empty writes to stdout
		Report string `yaml:"report"`

		// MasksDir is the directory for exported mask images, when mask
		// export is requested
		MasksDir string `yaml:"masksDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Split.ZTolerance = rtstruct.DefaultZTolerance

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Output.MasksDir = "masks"
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

// NameFilter converts the configured ROI list into the set form the parser
// expects, or nil when no restriction is configured.
func (c *Config) NameFilter() map[string]struct{} {
	if len(c.Split.ROIs) == 0 {
		return nil
	}
	filter := make(map[string]struct{}, len(c.Split.ROIs))
	for _, name := range c.Split.ROIs {
		filter[name] = struct{}{}
	}
	return filter
}
