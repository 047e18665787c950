// Package config loads the optional myterminal YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/deixis/myterminal/internal/shell"
)

// FileName is the per-directory configuration file.
const FileName = ".myterminal.yaml"

// Default values.
const (
	DefaultHistorySize = 50
	DefaultHTTPAddr    = "127.0.0.1:9090"
)

// Config holds the parsed configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version int           `yaml:"version"`
	Shell   ShellConfig   `yaml:"shell"`
	Log     LogConfig     `yaml:"log"`
	Trace   TraceConfig   `yaml:"trace"`
	History HistoryConfig `yaml:"history"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// ShellConfig overrides the interpreter chosen for the host OS.
type ShellConfig struct {
	Path string `yaml:"path"` // e.g. /bin/bash
	Flag string `yaml:"flag"` // e.g. -c; defaults to the host flag when Path is set
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stderr, stdout or a file path
}

// TraceConfig controls OpenTelemetry tracing.
type TraceConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // noop or stdout
}

// HistoryConfig controls the execution history kept by servers.
type HistoryConfig struct {
	Size int    `yaml:"size"` // in-memory entries
	Dir  string `yaml:"dir"`  // if set, entries are also written here as JSON
}

// HTTPConfig controls the streamable HTTP transport.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Interpreter returns the configured interpreter, or the host default.
func (c *Config) Interpreter() shell.Interpreter {
	def := shell.Default()
	if c.Shell.Path == "" {
		return def
	}
	flag := c.Shell.Flag
	if flag == "" {
		flag = def.Flag
	}
	return shell.Interpreter{Path: c.Shell.Path, Flag: flag}
}

// HistorySize returns the configured history capacity or the default.
func (c *Config) HistorySize() int {
	if c.History.Size > 0 {
		return c.History.Size
	}
	return DefaultHistorySize
}

// HTTPAddr returns the configured HTTP address or the default.
func (c *Config) HTTPAddr() string {
	if c.HTTP.Addr != "" {
		return c.HTTP.Addr
	}
	return DefaultHTTPAddr
}

// LoadResult holds the parsed config and where it came from.
type LoadResult struct {
	Config *Config
	Path   string // file that was read; empty when defaults are used
}

// Load reads FileName from dir. If it does not exist, the user config
// file (<UserConfigDir>/myterminal/config.yaml) is tried. If neither
// exists, a default Config is returned.
func Load(dir string) (*LoadResult, error) {
	candidates := []string{filepath.Join(dir, FileName)}
	if userDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "myterminal", "config.yaml"))
	}

	for _, path := range candidates {
		cfg, err := loadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		return &LoadResult{Config: cfg, Path: path}, nil
	}
	return &LoadResult{Config: &Config{}}, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
