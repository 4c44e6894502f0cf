package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/klabast/wb-services/holiday-planner/internal/storage"
)

// Constants
const (
	DefaultConfigFile = "holiday-planner.yaml"
	DefaultJSONFile   = "data.json"
	DefaultSQLiteFile = "data.db"
	DefaultAuthFile   = "auth.secret"

	// Environment overrides
	EnvAuthFile = "AUTH_FILE"
	EnvDataPath = "HOLIDAY_PLANNER_DATA"
	EnvBackend  = "HOLIDAY_PLANNER_BACKEND"

	// Error messages
	ErrInvalidDateFormat    = "Invalid date format"
	ErrInvalidYear          = "Invalid year"
	ErrInvalidMonth         = "Invalid month"
	ErrInvalidFormat        = "Invalid format"
	ErrInvalidBody          = "Invalid request body"
	ErrScheduleNotFound     = "Schedule not found"
	ErrFailedToSave         = "Failed to save calendar"
	ErrFailedToGenerateJSON = "Failed to generate JSON"

	// ICS constants
	ICSProductID = "-//klabast//Holiday Planner//RU"
)

// Config is the application configuration
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the snapshot backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // "json" or "sqlite"
	Path    string `yaml:"path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// AuthConfig locates the Basic Auth credentials file
type AuthConfig struct {
	File string `yaml:"file"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level        string `yaml:"level"`
	ConsoleLevel string `yaml:"console_level"` // used while the text menu runs
	Encoding     string `yaml:"encoding"`      // "json" or "console"
	Development  bool   `yaml:"development"`
}

// ForConsole returns the settings for the interactive menu: human-readable
// lines at ConsoleLevel so that log output does not bury the prompts
func (c LogConfig) ForConsole() LogConfig {
	return LogConfig{Level: c.ConsoleLevel, Encoding: "console", Development: c.Development}
}

// LoadConfig loads configuration from a YAML file. A missing file yields
// the defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvDataPath); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvAuthFile); v != "" {
		c.Auth.File = v
	}
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = storage.BackendJSON
	}
	if c.Storage.Path == "" {
		if c.Storage.Backend == storage.BackendSQLite {
			c.Storage.Path = DefaultSQLiteFile
		} else {
			c.Storage.Path = DefaultJSONFile
		}
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.File == "" {
		c.Auth.File = DefaultAuthFile
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.ConsoleLevel == "" {
		c.Log.ConsoleLevel = "warn"
	}
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
