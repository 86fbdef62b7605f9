package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Catalog sources understood by the catalog package.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// DefaultCatalogURL is the public demo catalog.
const DefaultCatalogURL = "https://fakestoreapi.com/products"

// Config holds application configuration.
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Search  SearchConfig  `toml:"search"`
	Log     LogConfig     `toml:"log"`
}

// CatalogConfig selects and configures the catalog provider.
type CatalogConfig struct {
	Source         string `toml:"source"`          // http, file, sqlite or postgres
	URL            string `toml:"url"`             // http source
	Path           string `toml:"path"`            // file glob or sqlite database
	DSN            string `toml:"dsn"`             // postgres connection string
	Table          string `toml:"table"`           // postgres table
	TimeoutSeconds int    `toml:"timeout_seconds"` // fetch timeout
}

// SearchConfig tunes the interactive search.
type SearchConfig struct {
	DebounceMS  int `toml:"debounce_ms"`
	Suggestions int `toml:"suggestions"` // negative disables suggestions
	ListHeight  int `toml:"list_height"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Source:         SourceHTTP,
			URL:            DefaultCatalogURL,
			Table:          "products",
			TimeoutSeconds: 10,
		},
		Search: SearchConfig{
			DebounceMS:  500,
			Suggestions: 3,
			ListHeight:  10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Timeout returns the catalog fetch timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Debounce returns the delay between the last keystroke and filtering.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// LoadConfig reads config from the TOML file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if save fails
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills fields left empty in the file.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Catalog.Source == "" {
		c.Catalog.Source = defaults.Catalog.Source
	}
	if c.Catalog.URL == "" {
		c.Catalog.URL = defaults.Catalog.URL
	}
	if c.Catalog.Table == "" {
		c.Catalog.Table = defaults.Catalog.Table
	}
	if c.Catalog.TimeoutSeconds <= 0 {
		c.Catalog.TimeoutSeconds = defaults.Catalog.TimeoutSeconds
	}
	if c.Search.DebounceMS <= 0 {
		c.Search.DebounceMS = defaults.Search.DebounceMS
	}
	if c.Search.Suggestions == 0 {
		c.Search.Suggestions = defaults.Search.Suggestions
	}
	if c.Search.ListHeight <= 0 {
		c.Search.ListHeight = defaults.Search.ListHeight
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// SaveConfig writes config to the TOML file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the config path: $PRODPICK_CONFIG or
// ~/.config/prodpick/config.toml
func DefaultConfigFilePath() (string, error) {
	if path := os.Getenv("PRODPICK_CONFIG"); path != "" {
		return path, nil
	}
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DefaultConfigDir returns ~/.config/prodpick
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "prodpick"), nil
}

// DefaultSQLitePath returns the default SQLite catalog path: ~/.config/prodpick/catalog.db
func DefaultSQLitePath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "catalog.db"), nil
}

// DefaultLogPath returns the default log file path: ~/.config/prodpick/prodpick.log
func DefaultLogPath() (string, error) {
	dir, err := DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prodpick.log"), nil
}
