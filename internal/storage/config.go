package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	DatabasePath  string `json:"databasePath"`
	LogLevel      string `json:"logLevel"`
	LogFile       string `json:"logFile"`
	ConfirmDelete bool   `json:"confirmDelete"`
}

// DefaultConfig returns the default configuration.
// Paths are left empty and resolved by ResolvePaths.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		ConfirmDelete: true,
	}
}

// LoadConfig reads config from the JSON file.
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

	// Start from defaults so that absent keys keep their default values.
	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.LogLevel == "" {
		config.LogLevel = DefaultConfig().LogLevel
	}

	return &config, nil
}

// SaveConfig writes config to the JSON file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolvePaths fills in empty DatabasePath and LogFile with defaults.
// The log file lives next to the database.
func (c *Config) ResolvePaths() error {
	if c.DatabasePath == "" {
		p, err := DefaultDatabasePath()
		if err != nil {
			return err
		}
		c.DatabasePath = p
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(filepath.Dir(c.DatabasePath), "td.log")
	}
	return nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/td/config.json
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "td", "config.json"), nil
}
