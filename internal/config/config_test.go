package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBaseURL, EnvPageSize, EnvToken, EnvTimeout, EnvLogLevel, EnvLogEncoding} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdirForTest(t, t.TempDir())

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected base URL %q, got %q", DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("expected page size %d, got %d", DefaultPageSize, cfg.PageSize)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout, got %v", cfg.Timeout)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	chdirForTest(t, t.TempDir())
	t.Setenv(EnvBaseURL, "http://example.test:9000/")
	t.Setenv(EnvPageSize, "25")
	t.Setenv(EnvTimeout, "3")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://example.test:9000" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.BaseURL)
	}
	if cfg.PageSize != 25 {
		t.Errorf("expected page size 25, got %d", cfg.PageSize)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", cfg.Timeout)
	}
}

func TestLoad_DotenvInConfigDir(t *testing.T) {
	clearEnv(t)
	chdirForTest(t, t.TempDir())
	dir := t.TempDir()
	content := EnvToken + "=secret\n" + EnvLogLevel + "=debug\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Token != "secret" {
		t.Errorf("expected token from .env, got %q", cfg.Token)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level from .env, got %q", cfg.LogLevel)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}
