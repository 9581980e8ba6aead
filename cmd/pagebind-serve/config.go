package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the serve command's settings.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Database is the path of the sqlite content catalog.
	Database string `yaml:"database"`

	// Page is the HTML page file to bind and serve.
	Page string `yaml:"page"`

	// Content is the source identifier of the content document to load
	// from the catalog.
	Content string `yaml:"content"`

	// Minify controls whether served HTML is minified.
	Minify bool `yaml:"minify"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Listen:   ":8080",
		Database: "pagebind.db",
		Minify:   true,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; flags can carry the whole configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
