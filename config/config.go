// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                   = "8080"
	DefaultYTDLPPath              = "yt-dlp"
	DefaultMaxConcurrentDownloads = 25
	DefaultCleanupMaxAge          = time.Duration(0) // cleanup is opt-in
	DefaultCleanupInterval        = time.Hour
	DefaultRateLimitRPS           = 2
	DefaultRateLimitBurst         = 5
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "console"
	DefaultGinMode                = "release"
)

type Config struct {
	Port                   string
	DownloadDir            string
	YTDLPPath              string
	YTDLPVerbose           bool
	MaxConcurrentDownloads int
	CleanupMaxAge          time.Duration // 0 disables cleanup
	CleanupInterval        time.Duration
	RateLimitRPS           float64
	RateLimitBurst         int
	AllowedOrigins         []string
	LogLevel               string
	LogFormat              string
	GinMode                string
}

// Error reports an environment variable that could not be parsed.
type Error struct {
	Key   string
	Value string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: invalid %s=%q: %v", e.Key, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// DefaultDownloadDir is ~/Videos/IntechDownloader, or ./downloads when the
// home directory is unknown.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "downloads"
	}
	return filepath.Join(home, "Videos", "IntechDownloader")
}

// Load reads envFile (if it exists) into the environment without overriding
// variables already set, then builds the Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the Config from lookup, applying defaults for unset keys.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := &Config{
		Port:        get("PORT", DefaultPort),
		DownloadDir: get("DOWNLOAD_DIR", DefaultDownloadDir()),
		YTDLPPath:   get("YTDLP_PATH", DefaultYTDLPPath),
		LogLevel:    strings.ToLower(get("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(get("LOG_FORMAT", DefaultLogFormat)),
		GinMode:     get("GIN_MODE", DefaultGinMode),
	}

	var err error
	if cfg.YTDLPVerbose, err = parseBool("YTDLP_VERBOSE", get("YTDLP_VERBOSE", "true")); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentDownloads, err = parsePositiveInt("MAX_CONCURRENT_DOWNLOADS", get("MAX_CONCURRENT_DOWNLOADS", strconv.Itoa(DefaultMaxConcurrentDownloads))); err != nil {
		return nil, err
	}
	if cfg.CleanupMaxAge, err = parseDuration("CLEANUP_MAX_AGE", get("CLEANUP_MAX_AGE", DefaultCleanupMaxAge.String())); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = parseDuration("CLEANUP_INTERVAL", get("CLEANUP_INTERVAL", DefaultCleanupInterval.String())); err != nil {
		return nil, err
	}
	if cfg.CleanupMaxAge > 0 && cfg.CleanupInterval <= 0 {
		return nil, &Error{Key: "CLEANUP_INTERVAL", Value: cfg.CleanupInterval.String(), Err: errors.New("must be positive when cleanup is enabled")}
	}

	rps := get("RATE_LIMIT_RPS", strconv.Itoa(DefaultRateLimitRPS))
	if cfg.RateLimitRPS, err = strconv.ParseFloat(rps, 64); err != nil || cfg.RateLimitRPS < 0 {
		if err == nil {
			err = errors.New("must not be negative")
		}
		return nil, &Error{Key: "RATE_LIMIT_RPS", Value: rps, Err: err}
	}
	if cfg.RateLimitBurst, err = parsePositiveInt("RATE_LIMIT_BURST", get("RATE_LIMIT_BURST", strconv.Itoa(DefaultRateLimitBurst))); err != nil {
		return nil, err
	}

	for _, origin := range strings.Split(get("ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, &Error{Key: key, Value: value, Err: err}
	}
	return b, nil
}

func parsePositiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &Error{Key: key, Value: value, Err: err}
	}
	if n < 1 {
		return 0, &Error{Key: key, Value: value, Err: errors.New("must be at least 1")}
	}
	return n, nil
}

// parseDuration accepts Go durations ("90m") and a bare "0".
func parseDuration(key, value string) (time.Duration, error) {
	if value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &Error{Key: key, Value: value, Err: err}
	}
	if d < 0 {
		return 0, &Error{Key: key, Value: value, Err: errors.New("must not be negative")}
	}
	return d, nil
}
