package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for rtlcheck. Configuration
// never changes what the analyzer core detects; it controls how the
// caller filters and renders the results.
type Config struct {
	// Rules maps rule kinds to severity overrides:
	// "off", "error", "warning", "info"
	Rules map[string]string `json:"rules,omitempty" yaml:"rules,omitempty"`

	// IgnorePatterns is a list of file patterns to skip entirely
	IgnorePatterns []string `json:"ignorePatterns,omitempty" yaml:"ignorePatterns,omitempty"`

	// PolicyDir is a directory of .rego files with project-specific
	// rules evaluated on top of the built-in rule set
	PolicyDir string `json:"policyDir,omitempty" yaml:"policyDir,omitempty"`

	// Output controls report rendering
	Output OutputConfig `json:"output,omitempty" yaml:"output,omitempty"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// MinSeverity hides issues below this severity: "error",
	// "warning", "info"
	MinSeverity string `json:"minSeverity,omitempty" yaml:"minSeverity,omitempty"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Rules:          map[string]string{},
		IgnorePatterns: []string{},
		Output: OutputConfig{
			Format:      "text",
			MinSeverity: "info",
		},
	}
}

// Load finds and loads the configuration file.
// Search order:
//  1. ./rtlcheck.json, ./.rtlcheck.json
//  2. ./rtlcheck.yaml, ./.rtlcheck.yaml
//  3. <rootPath>/rtlcheck.json, <rootPath>/rtlcheck.yaml (if a directory)
//  4. ~/.config/rtlcheck/config.json
//
// Returns DefaultConfig if no config file is found.
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "rtlcheck.json"),
		filepath.Join(cwd, ".rtlcheck.json"),
		filepath.Join(cwd, "rtlcheck.yaml"),
		filepath.Join(cwd, ".rtlcheck.yaml"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "rtlcheck.json"),
				filepath.Join(rootPath, "rtlcheck.yaml"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "rtlcheck", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file. The format is
// chosen by extension: .yaml/.yml parse as YAML, anything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Rules == nil {
		c.Rules = make(map[string]string)
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.MinSeverity == "" {
		c.Output.MinSeverity = "info"
	}
}

// Save writes the configuration to a file as JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// RuleSeverity returns the configured severity for a rule kind, or the
// default if not configured.
func (c *Config) RuleSeverity(kind string, defaultSeverity string) string {
	if severity, ok := c.Rules[kind]; ok && severity != "off" {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true unless the rule kind is set to "off".
func (c *Config) IsRuleEnabled(kind string) bool {
	if severity, ok := c.Rules[kind]; ok {
		return severity != "off"
	}
	return true
}

// ShouldIgnoreFile checks if a file should be skipped entirely.
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
			return true
		}
	}
	return false
}
