package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/logandonley/courier/pkg/account"
	"github.com/logandonley/courier/pkg/logging"
	"github.com/logandonley/courier/pkg/settings"
)

// Config represents the main configuration structure
type Config struct {
	Log LogConfig `yaml:"log" mapstructure:"log"`

	// Backends maps a name chosen by the user to a backend definition
	Backends map[string]Backend `yaml:"backends" mapstructure:"backends"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output,omitempty" mapstructure:"output,omitempty"`
}

// LoggerConfig merges the file settings with command line values. A
// non-empty level or format given on the command line wins.
func (l LogConfig) LoggerConfig(level, format string) logging.Config {
	cfg := logging.Config{Level: "info", Format: "console", OutputPath: l.Output}
	if l.Level != "" {
		cfg.Level = l.Level
	}
	if l.Format != "" {
		cfg.Format = l.Format
	}
	if level != "" {
		cfg.Level = level
	}
	if format != "" {
		cfg.Format = format
	}
	return cfg
}

// Backend represents one configured storage backend
type Backend struct {
	Type     string         `yaml:"type" mapstructure:"type"`
	Account  map[string]any `yaml:"account" mapstructure:"account"`
	Settings map[string]any `yaml:"settings,omitempty" mapstructure:"settings,omitempty"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Backend returns the backend with the given name
func (c *Config) Backend(name string) (Backend, error) {
	b, ok := c.Backends[name]
	if !ok {
		return Backend{}, fmt.Errorf("backend %q is not configured", name)
	}
	return b, nil
}

// Names returns the configured backend names in sorted order
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Backends))
	for name := range c.Backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BackendType parses the backend's type
func (b Backend) BackendType() (account.Type, error) {
	return account.ParseType(b.Type)
}

// OperationSettings returns the backend's settings as a Settings value
func (b Backend) OperationSettings() *settings.Settings {
	return settings.New(b.Settings)
}
