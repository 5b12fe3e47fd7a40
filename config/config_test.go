package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != DefaultPort || cfg.YTDLPPath != DefaultYTDLPPath {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxConcurrentDownloads != DefaultMaxConcurrentDownloads || cfg.CleanupMaxAge != 0 || cfg.CleanupInterval != time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.YTDLPVerbose {
		t.Fatal("yt-dlp verbose output is on by default")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.DownloadDir != DefaultDownloadDir() {
		t.Fatalf("download dir = %q", cfg.DownloadDir)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                     "9000",
		"DOWNLOAD_DIR":             "/srv/videos",
		"MAX_CONCURRENT_DOWNLOADS": "3",
		"CLEANUP_MAX_AGE":          "0",
		"RATE_LIMIT_RPS":           "0.5",
		"RATE_LIMIT_BURST":         "1",
		"ALLOWED_ORIGINS":          "https://a.example, https://b.example",
		"YTDLP_VERBOSE":            "false",
		"LOG_LEVEL":                "DEBUG",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" || cfg.DownloadDir != "/srv/videos" || cfg.MaxConcurrentDownloads != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.CleanupMaxAge != 0 || cfg.RateLimitRPS != 0.5 || cfg.RateLimitBurst != 1 || cfg.YTDLPVerbose {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestFromEnv_CleanupOptIn(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"CLEANUP_MAX_AGE":  "72h",
		"CLEANUP_INTERVAL": "30m",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.CleanupMaxAge != 72*time.Hour || cfg.CleanupInterval != 30*time.Minute {
		t.Fatalf("cleanup = %v every %v", cfg.CleanupMaxAge, cfg.CleanupInterval)
	}

	_, err = FromEnv(lookupFrom(map[string]string{
		"CLEANUP_MAX_AGE":  "72h",
		"CLEANUP_INTERVAL": "0",
	}))
	var cfgErr *Error
	if !errors.As(err, &cfgErr) || cfgErr.Key != "CLEANUP_INTERVAL" {
		t.Fatalf("err = %v, want CLEANUP_INTERVAL error", err)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"MAX_CONCURRENT_DOWNLOADS": "zero",
		"CLEANUP_MAX_AGE":          "a day",
		"RATE_LIMIT_RPS":           "-1",
		"RATE_LIMIT_BURST":         "0",
		"YTDLP_VERBOSE":            "sometimes",
	}
	for key, value := range cases {
		_, err := FromEnv(lookupFrom(map[string]string{key: value}))
		var cfgErr *Error
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s=%q: err = %v, want *Error", key, value, err)
			continue
		}
		if cfgErr.Key != key {
			t.Errorf("%s=%q: error names %q", key, value, cfgErr.Key)
		}
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("INTECHDL_TEST_PORT_UNUSED=1\nYTDLP_PATH=/opt/yt-dlp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YTDLP_PATH", "")
	os.Unsetenv("YTDLP_PATH")
	t.Cleanup(func() { os.Unsetenv("INTECHDL_TEST_PORT_UNUSED") })

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.YTDLPPath != "/opt/yt-dlp" {
		t.Fatalf("yt-dlp path = %q, want value from .env", cfg.YTDLPPath)
	}
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
