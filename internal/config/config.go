// Package config loads the optional zipvfs configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"zipvfs/internal/logging"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

var (
	logger = logging.GetLogger().WithPrefix("config")
)

// Config holds settings shared by all commands. Command line flags take
// precedence over values loaded here.
type Config struct {
	// LogLevel is one of error, warn, info, debug or trace.
	LogLevel string `yaml:"log_level" default:"warn"`

	// Prompt is the interactive prompt; the first %s is replaced by the
	// current directory.
	Prompt string `yaml:"prompt" default:"%s$ "`

	// Script is a file of commands replayed before the interactive loop.
	Script string `yaml:"script"`

	Mount Mount `yaml:"mount"`
}

// Mount holds settings for the FUSE mount command.
type Mount struct {
	FSName     string `yaml:"fs_name" default:"zipvfs"`
	AllowOther bool   `yaml:"allow_other"`
}

// Default returns a Config with every default applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML configuration at path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		logger.Debug("No config file given, using defaults")
		return Default()
	}

	logger.Debug("Loading config from: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration. Unknown keys are rejected and missing
// keys take their defaults.
func Parse(data []byte) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Trace("Loaded config: %+v", *cfg)
	return cfg, nil
}
