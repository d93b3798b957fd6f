package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Public base URL used to build links to the profile page
	} `mapstructure:"server"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name, ":memory:" for an ephemeral database
	} `mapstructure:"database"`

	// Analytics configuration for asynchronous click recording
	Analytics struct {
		BufferSize  int `mapstructure:"buffer_size"`  // Size of the click event channel buffer
		WorkerCount int `mapstructure:"worker_count"` // Number of worker goroutines persisting clicks
	} `mapstructure:"analytics"`

	// Monitor configuration for link target health checking
	Monitor struct {
		Enabled         bool `mapstructure:"enabled"`
		IntervalMinutes int  `mapstructure:"interval_minutes"`
	} `mapstructure:"monitor"`

	Auth struct {
		JWTSecret     string `mapstructure:"jwt_secret"`
		JWTIssuer     string `mapstructure:"jwt_issuer"`
		TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	} `mapstructure:"auth"`

	// Storage holds where uploaded avatars live and how they are served
	Storage struct {
		AvatarDir      string `mapstructure:"avatar_dir"`
		AvatarBaseURL  string `mapstructure:"avatar_base_url"`
		MaxAvatarBytes int64  `mapstructure:"max_avatar_bytes"`
	} `mapstructure:"storage"`

	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

// LoadConfig loads the application configuration from ./configs/config.yaml,
// a .env file in the working directory and environment variables.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return Load(viper.New(), "./configs")
}

// Load reads configuration with the given viper instance, looking for config.yaml
// in each of paths. Environment variables override file values,
// e.g. "server.port" becomes "SERVER_PORT".
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("database.name", "linkbio.db")
	v.SetDefault("analytics.buffer_size", 1000)
	v.SetDefault("analytics.worker_count", 5)
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval_minutes", 5)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_issuer", "linkbio")
	v.SetDefault("auth.token_ttl_hours", 72)
	v.SetDefault("storage.avatar_dir", "./data/avatars")
	v.SetDefault("storage.avatar_base_url", "http://localhost:8080/avatars")
	v.SetDefault("storage.max_avatar_bytes", 2<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d is out of range", c.Server.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return errors.New("auth.token_ttl_hours must be positive")
	}
	if c.Analytics.BufferSize <= 0 || c.Analytics.WorkerCount <= 0 {
		return errors.New("analytics.buffer_size and analytics.worker_count must be positive")
	}
	if c.Monitor.Enabled && c.Monitor.IntervalMinutes <= 0 {
		return errors.New("monitor.interval_minutes must be positive")
	}
	if c.Storage.MaxAvatarBytes <= 0 {
		return errors.New("storage.max_avatar_bytes must be positive")
	}
	return nil
}
