package userconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "bugtrackr"
	configFileName = "config.yaml"

	// DefaultServerURL is used when no config file exists yet
	DefaultServerURL = "http://localhost:8080"

	// DefaultLanding is the authenticated landing view
	DefaultLanding = "dashboard"
)

// UserConfig represents the user's local configuration stored in
// ~/.config/bugtrackr/config.yaml
type UserConfig struct {
	ServerURL string `yaml:"server_url"`
	Landing   string `yaml:"landing,omitempty"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file. Missing file yields defaults; the
// BUGTRACKR_SERVER_URL environment variable overrides the configured URL.
func Load() (*UserConfig, error) {
	cfg := &UserConfig{
		ServerURL: DefaultServerURL,
		Landing:   DefaultLanding,
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse user config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.Landing == "" {
		cfg.Landing = DefaultLanding
	}

	if url := os.Getenv("BUGTRACKR_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}

	return cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetServerURL updates the server URL and saves the config
func SetServerURL(url string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.ServerURL = url
	return Save(cfg)
}
