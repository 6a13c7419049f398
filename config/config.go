// Package config loads the brace tool settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable consulted when no --config flag is
// given.
const EnvVar = "BRACE_CONFIG"

// DefaultFile is looked up in the working directory as a last resort.
const DefaultFile = "brace.toml"

// Config holds the complete tool configuration
type Config struct {
	Log         LogConfig         `toml:"log"`
	Render      RenderConfig      `toml:"render"`
	Conformance ConformanceConfig `toml:"conformance"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// RenderConfig controls how `brace parse` prints a tree
type RenderConfig struct {
	Indent string `toml:"indent"`
	Output string `toml:"output"`
}

// ConformanceConfig holds fixture runner settings
type ConformanceConfig struct {
	Dir             string   `toml:"dir"`
	Parallelism     int      `toml:"parallelism"`
	Timeout         Duration `toml:"timeout"`
	LanguageVersion string   `toml:"language_version"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve picks the configuration file: the explicit path if set, then
// $BRACE_CONFIG, then ./brace.toml. With none present the defaults are used.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Render.Indent == "" {
		c.Render.Indent = "\t"
	}
	if c.Render.Output == "" {
		c.Render.Output = "source"
	}

	if c.Conformance.Dir == "" {
		c.Conformance.Dir = "testdata/conformance"
	}
	if c.Conformance.Parallelism == 0 {
		c.Conformance.Parallelism = 4
	}
	if c.Conformance.Timeout.Duration == 0 {
		c.Conformance.Timeout.Duration = 5 * time.Second
	}
	if c.Conformance.LanguageVersion == "" {
		c.Conformance.LanguageVersion = "0.3.0"
	}
}

// Validate rejects values the tools cannot act on.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	switch c.Render.Output {
	case "source", "json", "yaml":
	default:
		return fmt.Errorf("invalid render output %q", c.Render.Output)
	}
	if c.Conformance.Parallelism < 0 {
		return fmt.Errorf("conformance parallelism must not be negative, got %d", c.Conformance.Parallelism)
	}
	if c.Conformance.Timeout.Duration < 0 {
		return fmt.Errorf("conformance timeout must not be negative, got %s", c.Conformance.Timeout.Duration)
	}
	return nil
}
