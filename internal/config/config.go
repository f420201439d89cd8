// Package config resolves the configuration directory and runtime settings.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// EnvFile is the optional dotenv file read from the config directory.
	EnvFile = ".env"

	// DefaultBaseURL is the address of the local mock REST server.
	DefaultBaseURL = "http://localhost:3001"

	// DefaultPageSize is the tasks page size when none is configured.
	DefaultPageSize = 10
)

// Environment variable names.
const (
	EnvBaseURL     = "TASKBOARD_BASE_URL"
	EnvPageSize    = "TASKBOARD_PAGE_SIZE"
	EnvToken       = "TASKBOARD_TOKEN"
	EnvTimeout     = "TASKBOARD_TIMEOUT"
	EnvLogLevel    = "TASKBOARD_LOG_LEVEL"
	EnvLogEncoding = "TASKBOARD_LOG_ENCODING"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the REST endpoint root, without trailing slash.
	BaseURL string

	// PageSize is the default number of tasks per page.
	PageSize int

	// Token is an optional bearer token sent with every request.
	Token string

	// Timeout bounds each HTTP exchange. Zero leaves it to the transport.
	Timeout time.Duration

	// Logger settings.
	LogLevel    string
	LogEncoding string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or $HOME/.config/taskboard.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:         dir,
		BaseURL:     DefaultBaseURL,
		PageSize:    DefaultPageSize,
		LogLevel:    "warn",
		LogEncoding: "console",
	}
}

// Load builds a Config from the dotenv files and the environment.
// Variables already set in the environment win over dotenv values.
// Missing dotenv files are not an error.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	for _, path := range []string{cfg.EnvPath(), EnvFile} {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.BaseURL = strings.TrimRight(getString(EnvBaseURL, cfg.BaseURL), "/")
	cfg.PageSize = getInt(EnvPageSize, cfg.PageSize)
	cfg.Token = getString(EnvToken, "")
	cfg.Timeout = getDuration(EnvTimeout, 0)
	cfg.LogLevel = getString(EnvLogLevel, cfg.LogLevel)
	cfg.LogEncoding = getString(EnvLogEncoding, cfg.LogEncoding)
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// EnvPath returns the path to the dotenv file in the config directory.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
