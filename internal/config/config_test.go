package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// clearEnv unsets every PAPERLESS_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PAPERLESS_URL", "PAPERLESS_TOKEN", "PAPERLESS_DRY_RUN", "PAPERLESS_MAX_PAGES", "PAPERLESS_NEXT_SCHEME", "PAPERLESS_LOG_LEVEL"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := []byte("url: https://paperless.example.com\ntoken: test-token-123\ndry_run: true\nmax_pages: 50\nnext_scheme: https\nlog_level: debug\n")
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.URL != "https://paperless.example.com" {
		t.Errorf("expected URL 'https://paperless.example.com', got '%s'", cfg.URL)
	}
	if cfg.Token != "test-token-123" {
		t.Errorf("expected Token 'test-token-123', got '%s'", cfg.Token)
	}
	if !cfg.DryRun {
		t.Error("expected DryRun to be true")
	}
	if cfg.MaxPages != 50 {
		t.Errorf("expected MaxPages 50, got %d", cfg.MaxPages)
	}
	if cfg.NextScheme != "https" {
		t.Errorf("expected NextScheme 'https', got '%s'", cfg.NextScheme)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel 'debug', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("url: https://p.example.com\ntoken: t\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DryRun {
		t.Error("expected DryRun to default to false")
	}
	if cfg.MaxPages != 0 {
		t.Errorf("expected MaxPages to default to 0, got %d", cfg.MaxPages)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected LogLevel to default to 'warn', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := []byte("url: https://file.example.com\ntoken: file-token\n")
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("PAPERLESS_URL", "https://env.example.com")
	t.Setenv("PAPERLESS_TOKEN", "env-token")
	t.Setenv("PAPERLESS_DRY_RUN", "true")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.URL != "https://env.example.com" {
		t.Errorf("expected URL from env 'https://env.example.com', got '%s'", cfg.URL)
	}
	if cfg.Token != "env-token" {
		t.Errorf("expected Token from env 'env-token', got '%s'", cfg.Token)
	}
	if !cfg.DryRun {
		t.Error("expected DryRun from env to be true")
	}
}

func TestLoad_MissingConfig(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "nonexistent.yaml")

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for missing config, got nil")
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got '%v'", err)
	}
	if err.Error() != "no configuration found. Run 'paperlessctl config init' to set up" {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing token",
			content: "url: https://test.example.com\n",
		},
		{
			name:    "missing url",
			content: "token: test-token\n",
		},
		{
			name:    "empty file",
			content: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg, err := Load(configPath)
			if !errors.Is(err, ErrNotConfigured) {
				t.Fatalf("expected ErrNotConfigured, got %v", err)
			}
			if cfg == nil {
				t.Fatal("expected partial config to be returned")
			}
		})
	}
}

func TestLoad_EnvVarsOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("PAPERLESS_URL", "https://env-only.example.com")
	t.Setenv("PAPERLESS_TOKEN", "env-only-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.URL != "https://env-only.example.com" {
		t.Errorf("expected URL from env, got '%s'", cfg.URL)
	}
}

func TestLoad_NonYAMLFile(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("url: [unterminated\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for malformed YAML, got nil")
	}
	if errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected a parse error, got '%v'", err)
	}
}

func TestSave(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{
		URL:        "https://save.example.com",
		Token:      "save-token-456",
		DryRun:     true,
		MaxPages:   -1,
		NextScheme: "https",
	}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.URL != cfg.URL {
		t.Errorf("expected URL '%s', got '%s'", cfg.URL, loaded.URL)
	}
	if loaded.Token != cfg.Token {
		t.Errorf("expected Token '%s', got '%s'", cfg.Token, loaded.Token)
	}
	if !loaded.DryRun {
		t.Error("expected DryRun to round-trip")
	}
	if loaded.MaxPages != -1 {
		t.Errorf("expected MaxPages -1, got %d", loaded.MaxPages)
	}
	if loaded.NextScheme != "https" {
		t.Errorf("expected NextScheme 'https', got '%s'", loaded.NextScheme)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := &Config{
		URL:   "https://test.example.com",
		Token: "test-token",
	}

	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("config file was not created in nested directory")
	}
}

func TestSave_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permissions only")
	}

	configPath := filepath.Join(t.TempDir(), "subdir", "config.yaml")

	cfg := &Config{
		URL:   "https://test.example.com",
		Token: "test-token",
	}
	if err := Save(cfg, configPath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected file permissions 0600, got %o", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(configPath))
	if err != nil {
		t.Fatalf("failed to stat config dir: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0700 {
		t.Errorf("expected directory permissions 0700, got %o", perm)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() failed: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Error("expected absolute path")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("expected path to end with 'config.yaml', got '%s'", path)
	}
	if filepath.Base(filepath.Dir(path)) != "paperlessctl" {
		t.Errorf("expected config directory 'paperlessctl', got '%s'", filepath.Dir(path))
	}
}
