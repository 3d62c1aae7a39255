package imagearchiver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Port       int         `yaml:"port"`
	OutputDir  string      `yaml:"output_dir"`
	Tool       string      `yaml:"tool"`
	Compressor string      `yaml:"compressor"`
	Auth       *AuthConfig `yaml:"auth,omitempty"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults sets default values for unspecified configuration options
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 6060
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Tool == "" {
		c.Tool = "docker"
	}
	if c.Compressor == "" {
		c.Compressor = "xz"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	return nil
}

// Archiver builds an Archiver from the configured toolchain
func (c *Config) Archiver() *Archiver {
	a := NewArchiver(c.OutputDir)
	a.Tool = c.Tool
	a.Compressor = c.Compressor
	return a
}
