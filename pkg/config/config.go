/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oceanscan/xtfkit/pkg/proj"
)

// Config represents the xtfkit configuration
type Config struct {
	Export Export `yaml:"export"`
}

// Export contains default settings for SEG-Y export; command-line
// flags override these.
type Export struct {
	// Projection selects the coordinate treatment: "utm" or "arcseconds"
	Projection string `yaml:"projection"`
	// Zone forces a UTM zone (1..60); 0 auto-detects from the first trace
	Zone int `yaml:"zone"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Export: Export{
			Projection: "arcseconds",
			Zone:       0,
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if _, err := config.ProjectionOptions(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ProjectionOptions converts the export settings into projection options
func (c *Config) ProjectionOptions() (proj.Options, error) {
	switch c.Export.Projection {
	case "utm":
		return proj.Options{Enabled: true, Zone: c.Export.Zone}, nil
	case "arcseconds", "":
		return proj.Options{}, nil
	default:
		return proj.Options{}, fmt.Errorf("unknown projection %q (want utm or arcseconds)", c.Export.Projection)
	}
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./xtfkit.yaml"
	}

	// For Linux/macOS, use ~/.config/xtfkit/config.yaml
	configDir := filepath.Join(homeDir, ".config", "xtfkit")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
