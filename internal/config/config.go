package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppName is the application name used for the config directory
const AppName = "draftpm"

// Config holds CLI configuration
type Config struct {
	OutputFormat string `json:"output_format,omitempty" yaml:"output_format,omitempty"` // text, json, ndjson, yaml, table
	LogLevel     string `json:"log_level,omitempty" yaml:"log_level,omitempty"`         // debug, info, warn, error

	// Registry overrides applied on top of the built-in mappings.
	Styles       map[string]string `json:"styles,omitempty" yaml:"styles,omitempty"`               // inline style -> mark type
	BlockAliases map[string]string `json:"block_aliases,omitempty" yaml:"block_aliases,omitempty"` // block type -> built-in block type
	EntityMarks  map[string]string `json:"entity_marks,omitempty" yaml:"entity_marks,omitempty"`   // entity type -> mark type
	EntityNodes  map[string]string `json:"entity_nodes,omitempty" yaml:"entity_nodes,omitempty"`   // entity type -> node type
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file is an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate rejects empty keys or targets in the mapping sections.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		m    map[string]string
	}{
		{"styles", c.Styles},
		{"block_aliases", c.BlockAliases},
		{"entity_marks", c.EntityMarks},
		{"entity_nodes", c.EntityNodes},
	}
	for _, sec := range sections {
		for _, key := range SortedKeys(sec.m) {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("%s: empty key", sec.name)
			}
			if strings.TrimSpace(sec.m[key]) == "" {
				return fmt.Errorf("%s.%s: empty value", sec.name, key)
			}
		}
	}
	return nil
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
