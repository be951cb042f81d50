package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the selection-tool configuration
type Config struct {
	Subject SubjectConfig `json:"subject"`
	Refine  RefineConfig  `json:"refine"`
	Output  OutputConfig  `json:"output"`
}

// SubjectConfig holds saliency tuning for subject selection
type SubjectConfig struct {
	SeedThreshold    float64 `json:"seed_threshold"`
	MinRegionSize    int     `json:"min_region_size"`
	CloseRadius      float64 `json:"close_radius"`
	EdgeWeight       float64 `json:"edge_weight"`
	CenterWeight     float64 `json:"center_weight"`
	SaturationWeight float64 `json:"saturation_weight"`
}

// RefineConfig holds default refine-edge options for the CLI
type RefineConfig struct {
	Radius   float64 `json:"radius"`
	Smooth   float64 `json:"smooth"`
	Feather  float64 `json:"feather"`
	Contrast float64 `json:"contrast"`
	Shift    float64 `json:"shift"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format   string `json:"format"`
	Quality  int    `json:"quality"`
	Lossless bool   `json:"lossless"`
	Prefix   string `json:"prefix"`
	Suffix   string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Subject: SubjectConfig{
			SeedThreshold:    0.35,
			MinRegionSize:    100,
			CloseRadius:      3,
			EdgeWeight:       0.3,
			CenterWeight:     0.4,
			SaturationWeight: 0.3,
		},
		Refine: RefineConfig{
			Radius:  2,
			Smooth:  10,
			Feather: 1,
		},
		Output: OutputConfig{
			Format:  "png",
			Quality: 90,
			Suffix:  "_mask",
		},
	}
}

// LoadFromFile loads configuration from a JSON file, filling missing
// fields from the defaults
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}
	if c.Subject.SeedThreshold < 0 || c.Subject.SeedThreshold > 1 {
		return fmt.Errorf("subject.seed_threshold must be between 0 and 1")
	}
	if c.Subject.MinRegionSize < 0 {
		return fmt.Errorf("subject.min_region_size must not be negative")
	}
	return nil
}
