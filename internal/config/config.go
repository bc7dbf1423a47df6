// Package config provides configuration management for the berkelium host with Viper integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

const envPrefix = "BERKELIUM"

// Config represents the complete configuration of the host.
type Config struct {
	Engine EngineConfig `mapstructure:"engine" toml:"engine" json:"engine"`
	Window WindowConfig `mapstructure:"window" toml:"window" json:"window"`
	Render RenderConfig `mapstructure:"render" toml:"render" json:"render"`
	// Protocols maps a URL scheme to the directory served under it.
	Protocols map[string]string `mapstructure:"protocols" toml:"protocols" json:"protocols"`
	Logging   LoggingConfig     `mapstructure:"logging" toml:"logging" json:"logging"`
	Database  DatabaseConfig    `mapstructure:"database" toml:"database" json:"database"`
}

// Backend selects the engine implementation.
type Backend string

const (
	BackendNative   Backend = "native"
	BackendHeadless Backend = "headless"
)

// EngineConfig holds engine selection and pump settings.
type EngineConfig struct {
	Backend Backend `mapstructure:"backend" toml:"backend" json:"backend" jsonschema:"enum=native,enum=headless"`
	// Library is the directory holding the engine shim. Empty means the
	// deployed resource directory.
	Library        string        `mapstructure:"library" toml:"library" json:"library"`
	HomeDir        string        `mapstructure:"home_dir" toml:"home_dir" json:"home_dir"`
	UpdateInterval time.Duration `mapstructure:"update_interval" toml:"update_interval" json:"update_interval"`
}

// WindowConfig holds the initial window geometry.
type WindowConfig struct {
	Width       int  `mapstructure:"width" toml:"width" json:"width"`
	Height      int  `mapstructure:"height" toml:"height" json:"height"`
	Transparent bool `mapstructure:"transparent" toml:"transparent" json:"transparent"`
}

// RenderConfig holds defaults of the render command.
type RenderConfig struct {
	Timeout time.Duration `mapstructure:"timeout" toml:"timeout" json:"timeout"`
	Scale   float64       `mapstructure:"scale" toml:"scale" json:"scale"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
	MaxSize       int    `mapstructure:"max_size" toml:"max_size" json:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups" toml:"max_backups" json:"max_backups"`
	MaxAge        int    `mapstructure:"max_age" toml:"max_age" json:"max_age"`
	Compress      bool   `mapstructure:"compress" toml:"compress" json:"compress"`
}

// DatabaseConfig holds the history database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only consults keys viper knows about, so env-only values
	// need explicit bindings.
	for _, key := range []string{
		"engine.backend",
		"engine.library",
		"engine.home_dir",
		"engine.update_interval",
		"window.width",
		"window.height",
		"window.transparent",
		"render.timeout",
		"render.scale",
		"logging.level",
		"logging.format",
		"database.path",
	} {
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
// A missing config file is created with the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := m.createDefaultConfig(); err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
	}

	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// decode unmarshals, fills derived paths and validates.
func (m *Manager) decode() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := normalize(config); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w\nhint: fix the value or delete the file to regenerate defaults", m.viper.ConfigFileUsed(), err)
	}
	return config, nil
}

// Get returns a copy of the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return DefaultConfig()
	}
	configCopy := *m.config
	configCopy.Protocols = make(map[string]string, len(m.config.Protocols))
	for k, v := range m.config.Protocols {
		configCopy.Protocols[k] = v
	}
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})
	m.viper.WatchConfig()

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	config, err := m.decode()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

// setDefaults sets default configuration values in Viper.
// Durations are stored as strings so the written TOML stays readable.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("engine.backend", string(defaults.Engine.Backend))
	m.viper.SetDefault("engine.library", defaults.Engine.Library)
	m.viper.SetDefault("engine.home_dir", defaults.Engine.HomeDir)
	m.viper.SetDefault("engine.update_interval", defaults.Engine.UpdateInterval.String())

	m.viper.SetDefault("window.width", defaults.Window.Width)
	m.viper.SetDefault("window.height", defaults.Window.Height)
	m.viper.SetDefault("window.transparent", defaults.Window.Transparent)

	m.viper.SetDefault("render.timeout", defaults.Render.Timeout.String())
	m.viper.SetDefault("render.scale", defaults.Render.Scale)

	m.viper.SetDefault("protocols", defaults.Protocols)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)
	m.viper.SetDefault("logging.max_size", defaults.Logging.MaxSize)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
	m.viper.SetDefault("logging.compress", defaults.Logging.Compress)

	m.viper.SetDefault("database.path", defaults.Database.Path)
}

// createDefaultConfig writes the defaults as TOML together with the JSON
// schema.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if err := m.viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(configFile, filePerm); err != nil {
		return err
	}
	// Later reloads must find the file just written.
	m.viper.SetConfigFile(configFile)

	if _, err := GenerateSchemaFile(); err != nil {
		return err
	}
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}
