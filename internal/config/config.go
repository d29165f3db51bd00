package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all quicksilver configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Latency LatencyConfig `toml:"latency"`
	Mock    MockConfig    `toml:"mock"`
}

// StorageConfig selects where the session record is persisted.
type StorageConfig struct {
	// Backend is "file" or "keyring".
	Backend string `toml:"backend"`
	// Path overrides the session file location (file backend only).
	Path string `toml:"path"`
}

// LatencyConfig holds the simulated round-trip durations as
// time.ParseDuration strings. Empty or malformed values fall back to
// the defaults.
type LatencyConfig struct {
	Session   string `toml:"session"`
	Load      string `toml:"load"`
	Send      string `toml:"send"`
	SendEmail string `toml:"send_email"`
	SaveDraft string `toml:"save_draft"`
	Delete    string `toml:"delete"`
	MarkRead  string `toml:"mark_read"`
}

// MockConfig parameterizes the demo data generator.
type MockConfig struct {
	Seed int64 `toml:"seed"`
}

func defaults() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "file",
		},
		Latency: LatencyConfig{
			Session:   "500ms",
			Load:      "500ms",
			Send:      "200ms",
			SendEmail: "500ms",
			SaveDraft: "300ms",
			Delete:    "300ms",
			MarkRead:  "200ms",
		},
		Mock: MockConfig{
			Seed: 1,
		},
	}
}

// Load reads config from path. If path is empty or the file is
// missing, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Duration parses a configured latency value, falling back to def
// when the value is empty or malformed.
func Duration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return d
}

// ConfigDir returns the quicksilver config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "quicksilver")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quicksilver")
}

// DataDir returns the quicksilver data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "quicksilver")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "quicksilver")
}
