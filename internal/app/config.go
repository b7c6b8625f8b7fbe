package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string          `yaml:"port"`
	StaticDir      string          `yaml:"static_dir"`
	UploadDir      string          `yaml:"upload_dir"`
	FollowUpPage   string          `yaml:"follow_up_page"`
	MaxUploadBytes int64           `yaml:"max_upload_bytes"`
	LogLevel       string          `yaml:"log_level"`
	LogFormat      string          `yaml:"log_format"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Session        SessionConfig   `yaml:"session"`
	Storage        StorageConfig   `yaml:"storage"`
}

// RateLimitConfig limits uploads per client address. PerSecond <= 0 disables it.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

type SessionConfig struct {
	Backend    string `yaml:"backend"` // memory, sqlite
	Path       string `yaml:"path"`
	CookieName string `yaml:"cookie_name"`
}

type StorageConfig struct {
	Backend               string `yaml:"backend"` // disk, azblob
	AzureConnectionString string `yaml:"azure_connection_string"`
	AzureContainer        string `yaml:"azure_container"`
}

func DefaultConfig() Config {
	return Config{
		Port:           "8000",
		StaticDir:      "static",
		UploadDir:      "uploads",
		FollowUpPage:   "pony_gp.php",
		MaxUploadBytes: 32 << 20,
		LogLevel:       "info",
		LogFormat:      "text",
		RateLimit:      RateLimitConfig{PerSecond: 1, Burst: 5},
		Session:        SessionConfig{Backend: "memory", Path: "data/sessions.db", CookieName: "PONYSESSID"},
		Storage:        StorageConfig{Backend: "disk", AzureContainer: "ponygp"},
	}
}

// LoadConfig starts from DefaultConfig, applies the YAML file at path if one is
// given and finally the environment.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("read config: %w", err)
		}

		if err = yaml.Unmarshal(content, &config); err != nil {
			return config, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&config, os.Getenv); err != nil {
		return config, err
	}

	return config, config.Validate()
}

func applyEnv(config *Config, getenv func(string) string) error {
	if port := getenv("GOPORT"); port != "" {
		config.Port = port
	}
	if dir := getenv("PONYGP_UPLOAD_DIR"); dir != "" {
		config.UploadDir = dir
	}
	if dir := getenv("PONYGP_STATIC_DIR"); dir != "" {
		config.StaticDir = dir
	}
	if level := getenv("PONYGP_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if size := getenv("PONYGP_MAX_UPLOAD_BYTES"); size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return fmt.Errorf("PONYGP_MAX_UPLOAD_BYTES: %w", err)
		}
		config.MaxUploadBytes = n
	}
	if backend := getenv("PONYGP_SESSION_BACKEND"); backend != "" {
		config.Session.Backend = backend
	}
	if path := getenv("PONYGP_SESSION_DB"); path != "" {
		config.Session.Path = path
	}
	if backend := getenv("PONYGP_STORAGE"); backend != "" {
		config.Storage.Backend = backend
	}
	if conn := getenv("AZURE_STORAGE_CONNECTION_STRING"); conn != "" {
		config.Storage.AzureConnectionString = conn
	}
	if container := getenv("PONYGP_AZURE_CONTAINER"); container != "" {
		config.Storage.AzureContainer = container
	}

	return nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port not set error")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive error")
	}

	switch c.Session.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	switch c.Storage.Backend {
	case "disk":
	case "azblob":
		if c.Storage.AzureConnectionString == "" {
			return errors.New("AZURE_STORAGE_CONNECTION_STRING environment variable not set")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	return nil
}
