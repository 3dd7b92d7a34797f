// Package config provides configuration file support for issuekit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/issuekit/issuekit/pkg/logging"
)

// DirName is the workspace metadata directory.
const DirName = ".issuekit"

// Config represents the issuekit configuration.
type Config struct {
	DefaultLogin string        `yaml:"default_login,omitempty"`
	OutputFormat string        `yaml:"output_format,omitempty"` // text, json
	Logging      LoggingConfig `yaml:"logging"`
	Audit        AuditConfig   `yaml:"audit"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AuditConfig configures the change audit log.
type AuditConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"` // nil means enabled
}

// AuditEnabled reports whether committed changes are written to the audit log.
func (c *Config) AuditEnabled() bool {
	return c.Audit.Enabled == nil || *c.Audit.Enabled
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
	}
}

// Path returns the config file location for a workspace root.
func Path(root string) string {
	return filepath.Join(root, DirName, "config.yaml")
}

// Load loads configuration from .issuekit/config.yaml.
// Returns default config if file doesn't exist.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(root))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to .issuekit/config.yaml.
func Save(root string, cfg *Config) error {
	cfgPath := Path(root)

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Keys lists the keys accepted by Get and Set.
var Keys = []string{"default_login", "output_format", "logging.level", "audit.enabled"}

// Get returns the string form of a configuration value.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "default_login":
		return c.DefaultLogin, nil
	case "output_format":
		return c.OutputFormat, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "audit.enabled":
		if c.Audit.Enabled == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.Audit.Enabled), nil
	default:
		return "", fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
}

// Set parses and assigns a configuration value.
func (c *Config) Set(key, value string) error {
	switch key {
	case "default_login":
		c.DefaultLogin = strings.TrimSpace(value)
	case "output_format":
		if value != "text" && value != "json" {
			return fmt.Errorf("output_format must be text or json, got %q", value)
		}
		c.OutputFormat = value
	case "logging.level":
		level, err := logging.ParseLevel(value)
		if err != nil {
			return err
		}
		c.Logging.Level = string(level)
	case "audit.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("audit.enabled must be true or false: %w", err)
		}
		c.Audit.Enabled = &b
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
