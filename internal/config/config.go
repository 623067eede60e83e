// Package config holds startup configuration for the conversion service:
// compiled defaults, an optional TOML file overlay, and environment
// overrides, in that order. Command-line flags are applied by the caller
// on top of the loaded result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Server contains HTTP listener configuration.
type Server struct {
	Bind        string `toml:"bind"`
	CORSEnabled bool   `toml:"cors_enabled"`
	// MaxUploadMB caps request bodies when non-zero; zero means no limit,
	// matching the original endpoint behavior of never rejecting an upload.
	MaxUploadMB int `toml:"max_upload_mb"`
}

// Predictor contains configuration for the external transcription model.
type Predictor struct {
	PythonPath     string `toml:"python_path"`
	ScriptsDir     string `toml:"scripts_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains log output configuration.
type Logging struct {
	Level string `toml:"level"`
}

// Config is the root configuration document.
type Config struct {
	Server    Server    `toml:"server"`
	Predictor Predictor `toml:"predictor"`
	Logging   Logging   `toml:"logging"`
}

// Load reads configuration from path. A missing file is not an error: the
// defaults are returned and exists is false. Environment overrides are
// applied last.
func Load(path string) (cfg Config, exists bool, err error) {
	cfg = Default()

	data, readErr := os.ReadFile(path)
	switch {
	case readErr == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, true, fmt.Errorf("parse config %s: %w", path, err)
		}
		exists = true
	case errors.Is(readErr, fs.ErrNotExist) || path == "":
		// defaults
	default:
		return cfg, false, fmt.Errorf("read config %s: %w", path, readErr)
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, exists, err
	}
	return cfg, exists, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PITCHPORT_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("PITCHPORT_SCRIPTS_DIR"); v != "" {
		cfg.Predictor.ScriptsDir = v
	}
	if v := os.Getenv("PITCHPORT_PYTHON"); v != "" {
		cfg.Predictor.PythonPath = v
	}
}

func (c Config) validate() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	if c.Server.MaxUploadMB < 0 {
		return errors.New("server.max_upload_mb must not be negative")
	}
	if c.Predictor.TimeoutSeconds <= 0 {
		return errors.New("predictor.timeout_seconds must be positive")
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured slog level. Only validated
// configurations reach this, so unknown values cannot occur here.
func (c Config) LogLevel() slog.Level {
	lvl, _ := parseLogLevel(c.Logging.Level)
	return lvl
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", s)
}

// MaxUploadBytes returns the configured body cap in bytes, 0 for unlimited.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) * 1024 * 1024
}
