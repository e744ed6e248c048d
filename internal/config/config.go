// ABOUTME: Healthlog configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, logger setup, and the store factory.

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/healthlog/internal/storage"
)

// Supported backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// DefaultListenAddr is where `healthlog serve` listens unless configured otherwise.
const DefaultListenAddr = "127.0.0.1:8787"

// Environment variables that override the config file.
const (
	EnvBackend = "HEALTHLOG_BACKEND"
	EnvDataDir = "HEALTHLOG_DATA_DIR"
)

// Keys lists the settings accepted by Set, in display order.
var Keys = []string{"backend", "data_dir", "listen_addr", "log_level", "log_format"}

// Config stores healthlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts healthlog.db here, Badger puts a badger/ directory here.
	// Supports ~ expansion. Defaults to ~/.local/share/healthlog.
	DataDir string `json:"data_dir,omitempty"`

	ListenAddr string `json:"listen_addr,omitempty"`
	LogLevel   string `json:"log_level,omitempty"`
	LogFormat  string `json:"log_format,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetListenAddr returns the HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// StoragePath returns where the configured backend keeps its data: the
// SQLite database file or the Badger directory.
func (c *Config) StoragePath() (string, error) {
	dataDir := c.GetDataDir()

	switch backend := c.GetBackend(); backend {
	case BackendSQLite:
		return filepath.Join(dataDir, "healthlog.db"), nil
	case BackendBadger:
		return filepath.Join(dataDir, "badger"), nil
	default:
		return "", fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenBlobStore opens the raw key-value backend selected by the config.
func (c *Config) OpenBlobStore() (storage.BlobStore, error) {
	path, err := c.StoragePath()
	if err != nil {
		return nil, err
	}
	if c.GetBackend() == BackendBadger {
		return storage.OpenBadger(path)
	}
	return storage.OpenSQLite(path)
}

// OpenStore opens the configured backend and loads the health log from it.
func (c *Config) OpenStore() (*storage.Store, error) {
	blobs, err := c.OpenBlobStore()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(blobs)
	if err != nil {
		_ = blobs.Close()
		return nil, fmt.Errorf("load health log: %w", err)
	}
	return store, nil
}

// Set updates one setting by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		if value != BackendSQLite && value != BackendBadger {
			return fmt.Errorf("backend must be %q or %q", BackendSQLite, BackendBadger)
		}
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "listen_addr":
		c.ListenAddr = value
	case "log_level":
		if _, err := parseLogLevel(value); err != nil {
			return err
		}
		c.LogLevel = value
	case "log_format":
		if value != "text" && value != "json" {
			return fmt.Errorf("log_format must be text or json")
		}
		c.LogFormat = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns one setting by its JSON key, with defaults applied.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend":
		return c.GetBackend(), nil
	case "data_dir":
		return c.GetDataDir(), nil
	case "listen_addr":
		return c.GetListenAddr(), nil
	case "log_level":
		if c.LogLevel == "" {
			return "info", nil
		}
		return c.LogLevel, nil
	case "log_format":
		if c.LogFormat == "" {
			return "text", nil
		}
		return c.LogFormat, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// NewLogger builds the slog logger used by long-running commands.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLogLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "healthlog", "config.json")
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads config from disk without environment overrides, for editing.
func LoadFile() (*Config, error) {
	return loadFile()
}

func loadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
