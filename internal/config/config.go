// Package config loads settings for the csvjson command.
//
// Values are layered: defaults, then an optional YAML file, then
// CSVJSON_* environment variables. A .env file only fills variables that
// are not already set in the process environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shapestone/shape-csvjson/pkg/csvjson"
)

// Environment variables read by Load.
const (
	EnvIndent        = "CSVJSON_INDENT"
	EnvLogLevel      = "CSVJSON_LOG_LEVEL"
	EnvLogFormat     = "CSVJSON_LOG_FORMAT"
	EnvMaxInputBytes = "CSVJSON_MAX_INPUT_BYTES"
)

// DefaultEnvPath is the .env file tried when no path is given.
const DefaultEnvPath = ".env"

// Config holds the settings of one csvjson run.
type Config struct {
	// Indent is either a run of spaces and tabs or a number of spaces.
	// Empty means compact output.
	Indent        string `yaml:"indent"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	MaxInputBytes int    `yaml:"max_input_bytes"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds a Config from configPath (YAML, optional) and the
// environment. envPath names a .env file; when empty, DefaultEnvPath is
// tried and silently skipped if it does not exist.
func Load(configPath, envPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := cfg.DecodeYAML(f); err != nil {
			return nil, fmt.Errorf("config %s: %w", configPath, err)
		}
	}

	if err := loadDotEnv(envPath); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(DefaultEnvPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Skipping .env ...", "path", DefaultEnvPath)
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// DecodeYAML overlays the YAML document read from r onto c. An empty
// document leaves c unchanged.
func (c *Config) DecodeYAML(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields with the CSVJSON_* variables that are set
// and not empty.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvIndent); v != "" {
		c.Indent = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvMaxInputBytes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxInputBytes, err)
		}
		c.MaxInputBytes = n
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want text or json", c.LogFormat)
	}
	if c.MaxInputBytes < 0 {
		return fmt.Errorf("invalid max_input_bytes %d: must not be negative", c.MaxInputBytes)
	}
	if _, err := c.indent(); err != nil {
		return err
	}
	return nil
}

// Options returns the conversion options described by c.
func (c *Config) Options() (csvjson.Options, error) {
	indent, err := c.indent()
	if err != nil {
		return csvjson.Options{}, err
	}
	opts := csvjson.DefaultOptions()
	opts.Indent = indent
	opts.MaxInputSize = c.MaxInputBytes
	return opts, opts.Validate()
}

func (c *Config) indent() (string, error) {
	if c.Indent == "" {
		return "", nil
	}
	if n, err := strconv.Atoi(c.Indent); err == nil {
		if n < 0 || n > 16 {
			return "", fmt.Errorf("invalid indent %d: want 0 to 16 spaces", n)
		}
		return strings.Repeat(" ", n), nil
	}
	if strings.Trim(c.Indent, " \t") != "" {
		return "", fmt.Errorf("invalid indent %q: want a number or spaces and tabs", c.Indent)
	}
	return c.Indent, nil
}

// NewLogger returns a slog.Logger writing to w in the configured format
// and level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
