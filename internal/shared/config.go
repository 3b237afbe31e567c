package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Stream  StreamConfig  `toml:"stream"`
	Upload  UploadConfig  `toml:"upload"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host                     string `toml:"host"`
	Port                     int    `toml:"port"`
	ReadHeaderTimeoutSeconds int    `toml:"read_header_timeout_seconds"`
	ShutdownTimeoutSeconds   int    `toml:"shutdown_timeout_seconds"`
}

// StorageConfig describes the upload directory.
type StorageConfig struct {
	Path              string   `toml:"path"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	MaxUploadBytes    int64    `toml:"max_upload_bytes"`
}

// StreamConfig tunes range streaming.
type StreamConfig struct {
	ChunkSize int `toml:"chunk_size"`
}

// UploadConfig throttles upload requests. A zero rate disables throttling.
type UploadConfig struct {
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadHeaderTimeout returns the header read timeout as a [time.Duration].
func (c ServerConfig) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.ReadHeaderTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown window as a [time.Duration].
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Validate checks that the configuration can be used to run the server.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage path is required", ErrInvalidConfig)
	}
	if len(c.Storage.AllowedExtensions) == 0 {
		return fmt.Errorf("%w: at least one allowed extension is required", ErrInvalidConfig)
	}
	if c.Storage.MaxUploadBytes < 0 {
		return fmt.Errorf("%w: max_upload_bytes must not be negative", ErrInvalidConfig)
	}
	if c.Stream.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", ErrInvalidConfig)
	}
	if c.Upload.RatePerSecond < 0 || c.Upload.Burst < 0 {
		return fmt.Errorf("%w: upload rate and burst must not be negative", ErrInvalidConfig)
	}
	if c.Upload.RatePerSecond > 0 && c.Upload.Burst == 0 {
		return fmt.Errorf("%w: upload burst must be positive when a rate is set", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
