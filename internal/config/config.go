package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	Detection DetectionConfig `json:"detection"`
	Crop      CropConfig      `json:"crop"`
	Output    OutputConfig    `json:"output"`
}

// DetectionConfig selects and tunes the detection backend. The backend
// is resolved once at startup; there is no per-call fallback.
type DetectionConfig struct {
	Backend       string  `json:"backend"` // ollama, llamacpp or cascade
	ServerURL     string  `json:"server_url"`
	Model         string  `json:"model"`
	CascadePath   string  `json:"cascade_path"`
	MinConfidence float64 `json:"min_confidence"`
	SendFormat    string  `json:"send_format"`
	SendMaxDim    int     `json:"send_max_dim"`
	SendQuality   int     `json:"send_quality"`
}

// CropConfig holds the per-request cropping defaults
type CropConfig struct {
	MarginPercent int    `json:"margin_percent"`
	Mode          string `json:"mode"` // largest or all
	MaxFaces      int    `json:"max_faces"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Dir     string `json:"dir"`
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Backend:       "cascade",
			ServerURL:     "",
			Model:         "openbmb/minicpm-v4.5",
			CascadePath:   "facefinder",
			MinConfidence: 0.6,
			SendFormat:    "jpg",
			SendMaxDim:    1536,
			SendQuality:   85,
		},
		Crop: CropConfig{
			MarginPercent: 10,
			Mode:          "largest",
			MaxFaces:      5,
		},
		Output: OutputConfig{
			Dir:     "./out",
			Format:  "jpg",
			Quality: 90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
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
	switch c.Detection.Backend {
	case "ollama", "llamacpp", "cascade":
	default:
		return fmt.Errorf("detection.backend must be ollama, llamacpp or cascade")
	}

	if c.Detection.MinConfidence < 0.1 || c.Detection.MinConfidence > 0.99 {
		return fmt.Errorf("detection.min_confidence must be between 0.1 and 0.99")
	}

	if c.Detection.Backend == "cascade" && c.Detection.CascadePath == "" {
		return fmt.Errorf("detection.cascade_path is required for the cascade backend")
	}

	if c.Crop.MarginPercent < 0 || c.Crop.MarginPercent > 40 {
		return fmt.Errorf("crop.margin_percent must be between 0 and 40")
	}

	if c.Crop.Mode != "largest" && c.Crop.Mode != "all" {
		return fmt.Errorf("crop.mode must be largest or all")
	}

	if c.Crop.MaxFaces < 1 || c.Crop.MaxFaces > 10 {
		return fmt.Errorf("crop.max_faces must be between 1 and 10")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "faceport", "config.json")
}
