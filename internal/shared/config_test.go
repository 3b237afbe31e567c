package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Storage.Path != "./uploads" {
			t.Errorf("expected storage path ./uploads, got %s", config.Storage.Path)
		}

		if config.Storage.MaxUploadBytes != 50*1024*1024 {
			t.Errorf("expected 50MB upload limit, got %d", config.Storage.MaxUploadBytes)
		}

		if len(config.Storage.AllowedExtensions) != 5 {
			t.Errorf("expected 5 allowed extensions, got %v", config.Storage.AllowedExtensions)
		}

		if config.Stream.ChunkSize != 8192 {
			t.Errorf("expected chunk size 8192, got %d", config.Stream.ChunkSize)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("Server helpers", func(t *testing.T) {
		s := ServerConfig{Host: "0.0.0.0", Port: 8080, ReadHeaderTimeoutSeconds: 3, ShutdownTimeoutSeconds: 7}
		if s.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected 0.0.0.0:8080, got %s", s.Addr())
		}
		if s.ReadHeaderTimeout() != 3*time.Second {
			t.Errorf("expected 3s, got %v", s.ReadHeaderTimeout())
		}
		if s.ShutdownTimeout() != 7*time.Second {
			t.Errorf("expected 7s, got %v", s.ShutdownTimeout())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Storage.Path != defaultConfig.Storage.Path {
			t.Errorf("created config storage path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[server]
host = "0.0.0.0"
port = 8080

[storage]
path = "/srv/podcasts"
allowed_extensions = ["mp3"]

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Storage.Path != "/srv/podcasts" {
			t.Errorf("expected storage path /srv/podcasts, got %s", config.Storage.Path)
		}

		if len(config.Storage.AllowedExtensions) != 1 {
			t.Errorf("expected allowed extensions to be replaced, got %v", config.Storage.AllowedExtensions)
		}

		if config.Stream.ChunkSize != 8192 {
			t.Errorf("expected missing keys to keep defaults, got chunk size %d", config.Stream.ChunkSize)
		}

		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
	})

	t.Run("LoadConfig errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}

		configPath := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
			{"empty storage path", func(c *Config) { c.Storage.Path = "" }},
			{"no extensions", func(c *Config) { c.Storage.AllowedExtensions = nil }},
			{"negative upload limit", func(c *Config) { c.Storage.MaxUploadBytes = -1 }},
			{"zero chunk size", func(c *Config) { c.Stream.ChunkSize = 0 }},
			{"negative rate", func(c *Config) { c.Upload.RatePerSecond = -1 }},
			{"rate without burst", func(c *Config) { c.Upload.Burst = 0 }},
			{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
