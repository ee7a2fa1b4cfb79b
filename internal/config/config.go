// Package config loads the runtime configuration: file and database
// locations, usage registration mode, log level and metrics output.
//
// Values are resolved in order: built-in defaults, the YAML file, then
// environment variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Usage registration modes.
const (
	// UsageModePrompt asks for the used quantity of every supply.
	UsageModePrompt = "prompt"
	// UsageModeFullStock records the whole current stock of every supply as used.
	UsageModeFullStock = "full-stock"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "insumos.yaml"

// Config holds every configuration knob of the program.
type Config struct {
	File     FileConfig     `yaml:"file"`
	Database DatabaseConfig `yaml:"database"`
	Usage    UsageConfig    `yaml:"usage"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// FileConfig locates the JSON mirror of the inventory.
type FileConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// UsageConfig controls how "register usage" collects quantities.
type UsageConfig struct {
	Mode string `yaml:"mode" validate:"oneof=prompt full-stock"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// MetricsConfig controls the Prometheus textfile written at exit.
// An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		File:     FileConfig{Path: "insumos.json"},
		Database: DatabaseConfig{Path: "insumos.db"},
		Usage:    UsageConfig{Mode: UsageModePrompt},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. A missing file is not an error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.File.Path = getEnv("INSUMOS_FILE", c.File.Path)
	c.Database.Path = getEnv("INSUMOS_DB_PATH", c.Database.Path)
	c.Usage.Mode = getEnv("INSUMOS_USAGE_MODE", c.Usage.Mode)
	c.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", c.Log.Level))
	c.Metrics.Textfile = getEnv("INSUMOS_METRICS_TEXTFILE", c.Metrics.Textfile)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
