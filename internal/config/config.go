// Package config loads finder.yaml and applies FINDER_* environment
// overrides on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/roach88/finder/internal/finder"
	"github.com/roach88/finder/internal/logger"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "finder.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FINDER"

// Config is the complete finder configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Compiler CompilerConfig `yaml:"compiler"`
	Store    StoreConfig    `yaml:"store"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is console or json.
	Format string `yaml:"format"`
}

type CompilerConfig struct {
	// StrictPaths rejects unresolvable property references instead of
	// falling back to a direct reference by name.
	StrictPaths bool `yaml:"strict_paths"`
	// Strategies names the enabled finder strategies; they are always tried
	// in built-in priority order.
	// Empty enables all of them.
	Strategies []string `yaml:"strategies,omitempty"`
}

type StoreConfig struct {
	// Path is the SQLite archive. Empty disables archiving.
	Path string `yaml:"path"`
}

// Env holds the environment overrides. Unset variables leave the
// file values alone.
type Env struct {
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogFormat   string `envconfig:"LOG_FORMAT"`
	StrictPaths *bool  `envconfig:"STRICT_PATHS"`
	DB          string `envconfig:"DB"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  logger.LevelInfo,
			Format: logger.FormatConsole,
		},
		Compiler: CompilerConfig{
			StrictPaths: false,
			Strategies:  nil,
		},
	}
}

// Validate checks log settings and strategy names.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if !logger.ValidFormat(c.Log.Format) {
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if _, err := finder.StrategiesByName(c.Compiler.Strategies...); err != nil {
		return fmt.Errorf("compiler.strategies: %w", err)
	}
	return nil
}

// LoadFromFile reads path over the defaults. Unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Load resolves the configuration: the explicit path if given, else
// finder.yaml in dir when it exists, else the defaults; then the
// environment overrides. The result is validated.
func Load(path, dir string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}

	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv reads the FINDER_* variables.
func LoadEnv() (*Env, error) {
	env := &Env{}
	if err := envconfig.Process(EnvPrefix, env); err != nil {
		return nil, fmt.Errorf("unable to parse environment configuration: %w", err)
	}
	return env, nil
}

// ApplyEnv overlays the set environment values.
func (c *Config) ApplyEnv(env *Env) {
	if env == nil {
		return
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Log.Format = env.LogFormat
	}
	if env.StrictPaths != nil {
		c.Compiler.StrictPaths = *env.StrictPaths
	}
	if env.DB != "" {
		c.Store.Path = env.DB
	}
}

// Merge merges other into c; non-zero values in other win.
// StrictPaths can only be switched on by a merge.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	if other.Compiler.StrictPaths {
		c.Compiler.StrictPaths = true
	}
	if len(other.Compiler.Strategies) > 0 {
		c.Compiler.Strategies = other.Compiler.Strategies
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
}

// CompilerOptions translates the compiler section into finder options.
func (c *Config) CompilerOptions() ([]finder.Option, error) {
	opts := []finder.Option{finder.WithStrictPaths(c.Compiler.StrictPaths)}
	if len(c.Compiler.Strategies) > 0 {
		strategies, err := finder.StrategiesByName(c.Compiler.Strategies...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, finder.WithStrategies(strategies...))
	}
	return opts, nil
}

// SaveToFile writes c as YAML, creating the parent directory.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
