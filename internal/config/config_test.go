package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FILEBROWSER_CONFIG", "SERVER_URL", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
		"PREVIEW_DELAY", "READ_ATTEMPTS", "REQUEST_TIMEOUT", "STRICT_STATUS",
		"DOWNLOAD_DIR", "METRICS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "http://localhost:5000" {
		t.Errorf("unexpected server URL %q", cfg.ServerURL)
	}
	if cfg.PreviewDelay != time.Second {
		t.Errorf("expected 1s preview delay, got %v", cfg.PreviewDelay)
	}
	if cfg.ReadAttempts != 1 || cfg.RequestTimeout != 0 || cfg.StrictStatus {
		t.Errorf("unexpected request defaults: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "filebrowser.toml")
	data := `
[server]
url = "http://files.local:8080"
timeout = "30s"
read_attempts = 3
strict_status = true

[log]
level = "debug"

[browser]
preview_delay = "250ms"
download_dir = "/tmp/dl"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FILEBROWSER_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerURL != "http://files.local:8080" || cfg.RequestTimeout != 30*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ReadAttempts != 3 || !cfg.StrictStatus {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.PreviewDelay != 250*time.Millisecond || cfg.DownloadDir != "/tmp/dl" {
		t.Errorf("browser values not applied: %+v", cfg)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected env to override file, got %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SERVER_URL", "ftp://example.com"},
		{"READ_ATTEMPTS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[browser]\npreview_delay = \"soon\"\n"), 0o644)
	t.Setenv("FILEBROWSER_CONFIG", path)
	if _, err := Load(); err == nil {
		t.Error("expected error for unparsable duration")
	}
}
