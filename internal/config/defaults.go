// Package config provides default configuration values for the berkelium host.
package config

import (
	"time"
)

// Default configuration constants
const (
	// Engine defaults
	defaultUpdateIntervalMs = 10 // milliseconds between Update calls

	// Window defaults
	defaultWindowWidth  = 1024 // pixels
	defaultWindowHeight = 768  // pixels

	// Render defaults
	defaultRenderTimeoutSec = 30 // seconds

	// Logging defaults
	defaultMaxLogSizeMB  = 100 // MB
	defaultMaxBackups    = 3   // backup files
	defaultMaxLogAgeDays = 7   // days
)

// getDefaultLogDir returns the default log directory, falls back to empty string on error
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Backend:        BackendNative,
			UpdateInterval: time.Millisecond * defaultUpdateIntervalMs,
		},
		Window: WindowConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
		},
		Render: RenderConfig{
			Timeout: time.Second * defaultRenderTimeoutSec,
			Scale:   1,
		},
		Protocols: map[string]string{},
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			LogDir:        getDefaultLogDir(),
			EnableFileLog: false,
			MaxSize:       defaultMaxLogSizeMB,
			MaxBackups:    defaultMaxBackups,
			MaxAge:        defaultMaxLogAgeDays,
			Compress:      true,
		},
	}
}
