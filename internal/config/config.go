// Package config loads dynakit configuration from an optional YAML file
// and environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Solver invocation defaults
	Solver string
	NCPU   int
	Memory string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig is the YAML config file shape. All fields are optional.
type fileConfig struct {
	Solver string `yaml:"solver"`
	NCPU   int    `yaml:"ncpu"`
	Memory string `yaml:"memory"`
}

// Load builds the configuration: built-in defaults, overridden by the
// config file (DYNAKIT_CONFIG or ~/.config/dynakit.yaml), overridden by
// environment variables. A missing config file is fine; a malformed one is
// an error.
func Load() (Config, error) {
	cfg := Config{
		NCPU:     1,
		Memory:   "4000m",
		LogFile:  filepath.Join(os.TempDir(), "dynakit.log"),
		LogLevel: slog.LevelInfo,
	}

	if err := loadFile(&cfg); err != nil {
		return cfg, err
	}

	cfg.Solver = getEnv("DYNAKIT_SOLVER", cfg.Solver)
	cfg.Memory = getEnv("DYNAKIT_MEMORY", cfg.Memory)
	cfg.LogFile = getEnv("DYNAKIT_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("DYNAKIT_LOG_LEVEL", ""), cfg.LogLevel)

	if v := os.Getenv("DYNAKIT_NCPU"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse DYNAKIT_NCPU: %w", err)
		}
		cfg.NCPU = n
	}

	return cfg, nil
}

func loadFile(cfg *Config) error {
	path := os.Getenv("DYNAKIT_CONFIG")
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".config", "dynakit.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return fmt.Errorf("read config file: %w", err)
		}
		// Default location, file absent: nothing to merge.
		return nil
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.Solver != "" {
		cfg.Solver = fc.Solver
	}
	if fc.NCPU > 0 {
		cfg.NCPU = fc.NCPU
	}
	if fc.Memory != "" {
		cfg.Memory = fc.Memory
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return fallback
	}
}
