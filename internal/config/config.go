package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds shelf's runtime settings.
type Config struct {
	APIURL          string
	DataDir         string
	PageSize        int
	PersistDebounce time.Duration
	RefreshInterval time.Duration // zero disables background refresh
	CacheTTL        time.Duration // zero disables the response cache
	LogLevel        string
}

const (
	defaultConfigPath      = "~/.config/shelf/config.toml"
	defaultDataDir         = "~/.local/share/shelf"
	defaultAPIURL          = "https://fakestoreapi.com"
	defaultPageSize        = 10
	defaultPersistDebounce = 300 * time.Millisecond
	defaultCacheTTL        = 5 * time.Minute
	defaultLogLevel        = "info"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		DataDir:         mustExpand(defaultDataDir),
		PageSize:        defaultPageSize,
		PersistDebounce: defaultPersistDebounce,
		CacheTTL:        defaultCacheTTL,
		LogLevel:        defaultLogLevel,
	}
}

// Load locates and parses the shelf config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL            string `toml:"api_url"`
		DataDir           string `toml:"data_dir"`
		PageSize          int    `toml:"page_size"`
		PersistDebounceMS *int   `toml:"persist_debounce_ms"`
		RefreshSeconds    int    `toml:"refresh_interval_seconds"`
		CacheTTLSeconds   *int   `toml:"cache_ttl_seconds"`
		LogLevel          string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.PersistDebounceMS != nil && *raw.PersistDebounceMS >= 0 {
		cfg.PersistDebounce = time.Duration(*raw.PersistDebounceMS) * time.Millisecond
	}
	if raw.RefreshSeconds > 0 {
		cfg.RefreshInterval = time.Duration(raw.RefreshSeconds) * time.Second
	}
	if raw.CacheTTLSeconds != nil && *raw.CacheTTLSeconds >= 0 {
		cfg.CacheTTL = time.Duration(*raw.CacheTTLSeconds) * time.Second
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		if !logLevels[v] {
			return Config{}, fmt.Errorf("parse config: invalid log_level %q", raw.LogLevel)
		}
		cfg.LogLevel = v
	}

	return cfg, nil
}

// LogPath returns the path of shelf's own log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "shelf.log")
}

// StorageDir returns the directory holding persisted local data.
func (c Config) StorageDir() string {
	return filepath.Join(c.dataDir(), "store")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
