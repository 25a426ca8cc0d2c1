package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/mtgfixture/internal/card"
)

// Config represents the application configuration
type Config struct {
	DefaultDataset string `toml:"default_dataset"`
	DatePolicy     string `toml:"date_policy"` // reject or tolerate
	Workers        int    `toml:"workers"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		DefaultDataset: "AllSets.json",
		DatePolicy:     card.RejectInvalidDates.String(),
		Workers:        4,
	}
}

// Policy returns the configured date policy
func (c *Config) Policy() (card.DatePolicy, error) {
	return card.ParseDatePolicy(c.DatePolicy)
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetDatasetLibraryPath returns the path to the dataset library
func GetDatasetLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), "mtgfixture", "datasets")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "mtgfixture", "config.toml")
}

// LoadConfig loads the config file, creating it with defaults if missing
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	if _, err := config.Policy(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	if config.Workers < 1 {
		config.Workers = 1
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := writeConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func writeConfig(config *Config) error {
	configPath := GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// GetDatasetPath returns the path to a dataset, either in the dataset library or a relative path
func GetDatasetPath(name string) (string, error) {
	datasetPath := filepath.Join(GetDatasetLibraryPath(), name)
	if _, err := os.Stat(datasetPath); err == nil {
		return datasetPath, nil
	}

	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	return "", fmt.Errorf("dataset not found: %s", name)
}

// GetDefaultDataset returns the default dataset name from config
func GetDefaultDataset() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	return config.DefaultDataset, nil
}

// SetDefaultDataset sets the default dataset in the config
func SetDefaultDataset(name string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	config.DefaultDataset = name
	return writeConfig(config)
}

// ResolveDataset picks the dataset named in args, or the default one, and
// returns its path
func ResolveDataset(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return GetDatasetPath(args[0])
	}

	name, err := GetDefaultDataset()
	if err != nil {
		return "", fmt.Errorf("error getting default dataset: %w", err)
	}

	path, err := GetDatasetPath(name)
	if err != nil {
		return "", fmt.Errorf("error loading default dataset: %w", err)
	}
	return path, nil
}
