package client

import (
	"encoding/json"
	"os"
	"path/filepath"

	"battlecode-client/internal/app"
)

var configProfile string

// SetProfile sets the config profile for multiple instances.
func SetProfile(profile string) {
	configProfile = profile
}

// Config holds client configuration.
type Config struct {
	// Replay server used for streams and run results
	ServerURL string `json:"server_url"`

	// Local scaffold for running matches
	ScaffoldPath string `json:"scaffold_path"`

	// Turns per second while autoplaying
	PlaybackSpeed float64 `json:"playback_speed"`

	// Directory replays are opened from and profiles exported to
	LastDir string `json:"last_dir,omitempty"`

	// Window geometry (remembered between sessions)
	WindowWidth  int `json:"window_width,omitempty"`
	WindowHeight int `json:"window_height,omitempty"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:     "localhost:30000",
		PlaybackSpeed: app.DefaultSpeed,
	}
}

// LoadConfig loads config from the user's config directory.
func LoadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.PlaybackSpeed <= 0 {
		cfg.PlaybackSpeed = app.DefaultSpeed
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func configPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	filename := "config.json"
	if configProfile != "" {
		filename = "config-" + configProfile + ".json"
	}
	return filepath.Join(configDir, "battlecode-client", filename), nil
}
