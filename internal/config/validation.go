// Package config provides validation utilities for configuration values.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// normalize lower-cases enumerations and fills the paths derived from the
// XDG directories.
func normalize(config *Config) error {
	config.Engine.Backend = Backend(strings.ToLower(strings.TrimSpace(string(config.Engine.Backend))))
	if config.Engine.Backend == "" {
		config.Engine.Backend = BackendNative
	}
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))

	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}
	if config.Engine.HomeDir == "" {
		home, err := GetEngineHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get engine home directory: %w", err)
		}
		config.Engine.HomeDir = home
	}

	protocols := make(map[string]string, len(config.Protocols))
	for scheme, dir := range config.Protocols {
		protocols[strings.TrimSuffix(strings.ToLower(scheme), ":")] = dir
	}
	config.Protocols = protocols
	return nil
}

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	switch config.Engine.Backend {
	case BackendNative, BackendHeadless:
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("engine.backend must be one of: native, headless (got: %s)", config.Engine.Backend))
	}
	if config.Engine.UpdateInterval <= 0 {
		validationErrors = append(validationErrors, "engine.update_interval must be positive")
	}
	if config.Engine.HomeDir != "" && !filepath.IsAbs(config.Engine.HomeDir) {
		validationErrors = append(validationErrors, "engine.home_dir must be an absolute path")
	}

	if config.Window.Width < 1 || config.Window.Height < 1 {
		validationErrors = append(validationErrors, "window.width and window.height must be at least 1")
	}

	if config.Render.Timeout <= 0 {
		validationErrors = append(validationErrors, "render.timeout must be positive")
	}
	if config.Render.Scale <= 0 || config.Render.Scale > 8 {
		validationErrors = append(validationErrors, "render.scale must be in (0, 8]")
	}

	for scheme, dir := range config.Protocols {
		if !schemePattern.MatchString(scheme) {
			validationErrors = append(validationErrors, fmt.Sprintf("protocols: invalid scheme %q", scheme))
		}
		if dir == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("protocols.%s: directory cannot be empty", scheme))
		}
	}

	switch config.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error (got: %s)", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}
	if config.Logging.MaxSize < 0 || config.Logging.MaxBackups < 0 || config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_size, logging.max_backups and logging.max_age must be non-negative")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, "; "))
	}
	return nil
}
