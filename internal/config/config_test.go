package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("default backend = %q, want %q", cfg.Storage.Backend, "file")
	}
	if cfg.Latency.Session != "500ms" {
		t.Errorf("default session latency = %q, want %q", cfg.Latency.Session, "500ms")
	}
	if cfg.Latency.Send != "200ms" {
		t.Errorf("default send latency = %q, want %q", cfg.Latency.Send, "200ms")
	}
	if cfg.Mock.Seed != 1 {
		t.Errorf("default seed = %d, want 1", cfg.Mock.Seed)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[storage]
backend = "keyring"

[latency]
session = "10ms"

[mock]
seed = 42
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Storage.Backend != "keyring" {
		t.Errorf("backend = %q, want %q", cfg.Storage.Backend, "keyring")
	}
	if cfg.Latency.Session != "10ms" {
		t.Errorf("session latency = %q, want %q", cfg.Latency.Session, "10ms")
	}
	if cfg.Mock.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Mock.Seed)
	}
	// Unset values keep their defaults.
	if cfg.Latency.Send != "200ms" {
		t.Errorf("send latency = %q, want default %q", cfg.Latency.Send, "200ms")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("Load() should return defaults for missing file, got error: %v", err)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("backend = %q, want default %q", cfg.Storage.Backend, "file")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("not valid [[ toml"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(cfgPath)
	if err == nil {
		t.Fatal("Load() should return error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("error = %q, want it to contain %q", err.Error(), "failed to parse config")
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"valid", "250ms", 250 * time.Millisecond},
		{"empty falls back", "", 500 * time.Millisecond},
		{"malformed falls back", "fast", 500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.value, 500*time.Millisecond); got != tt.want {
				t.Errorf("Duration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		dir := ConfigDir()
		want := "/custom/config/quicksilver"
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		dir := ConfigDir()
		if !strings.HasSuffix(dir, filepath.Join(".config", "quicksilver")) {
			t.Errorf("ConfigDir() = %q, want suffix %q", dir, filepath.Join(".config", "quicksilver"))
		}
	})
}

func TestDataDir(t *testing.T) {
	t.Run("with XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/custom/data")
		dir := DataDir()
		want := "/custom/data/quicksilver"
		if dir != want {
			t.Errorf("DataDir() = %q, want %q", dir, want)
		}
	})
	t.Run("without XDG_DATA_HOME", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		dir := DataDir()
		if !strings.HasSuffix(dir, filepath.Join(".local", "share", "quicksilver")) {
			t.Errorf("DataDir() = %q, want suffix %q", dir, filepath.Join(".local", "share", "quicksilver"))
		}
	})
}
