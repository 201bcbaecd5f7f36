// Package config resolves noor settings from the config file, the
// environment and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/noor/internal/constants"
	"github.com/julianstephens/noor/internal/keyring"
	"github.com/julianstephens/noor/internal/logger"
)

// Environment variables read by Load
const (
	EnvCachePath       = "NOOR_CACHE_PATH"
	EnvRemoteURL       = "NOOR_REMOTE_URL"
	EnvAdminSecret     = "NOOR_ADMIN_SECRET"
	EnvContentEndpoint = "NOOR_CONTENT_ENDPOINT"
	EnvServerAddr      = "NOOR_SERVER_ADDR"
	EnvCORSOrigins     = "NOOR_CORS_ORIGINS"
	EnvDebug           = "NOOR_DEBUG"
	EnvLogDir          = "NOOR_LOG_DIR"
)

type ContentConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig sets the log file location and rotation. Zero values keep the
// logger's defaults.
type LogConfig struct {
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type Config struct {
	CachePath   string        `yaml:"cache_path"`
	RemoteURL   string        `yaml:"remote_url"`
	AdminSecret string        `yaml:"admin_secret"`
	SyncTimeout time.Duration `yaml:"sync_timeout"`
	Content     ContentConfig `yaml:"content"`
	Server      ServerConfig  `yaml:"server"`
	Log         LogConfig     `yaml:"log"`
	Debug       bool          `yaml:"debug"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		CachePath:   ExpandPath(constants.DefaultCachePath),
		SyncTimeout: constants.DefaultSyncTimeout,
		Content: ContentConfig{
			Timeout: constants.DefaultContentTimeout,
		},
		Server: ServerConfig{
			Addr: constants.DefaultServerAddr,
		},
	}
}

// LoadEnvFiles loads .env files into the environment. Missing files are ignored.
func LoadEnvFiles(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load .env file", "error", err)
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(ExpandPath(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.CachePath = ExpandPath(cfg.CachePath)
	cfg.Log.Dir = ExpandPath(cfg.Log.Dir)
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = constants.DefaultSyncTimeout
	}
	if cfg.Content.Timeout <= 0 {
		cfg.Content.Timeout = constants.DefaultContentTimeout
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvCachePath); v != "" {
		c.CachePath = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		c.RemoteURL = v
	}
	if v := os.Getenv(EnvContentEndpoint); v != "" {
		c.Content.Endpoint = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvCORSOrigins); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv(EnvLogDir); v != "" {
		c.Log.Dir = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// LoggerConfig maps the log section onto logger settings
func (c Config) LoggerConfig() logger.Config {
	return logger.Config{
		Debug:      c.Debug,
		Dir:        c.Log.Dir,
		ConfigDir:  ExpandPath(constants.DefaultConfigDir),
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// ResolveAdminSecret picks the admin secret: the --admin-secret flag value,
// then environment, then keyring, then config file, then the built-in default.
func (c Config) ResolveAdminSecret(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(EnvAdminSecret); v != "" {
		return v
	}
	if v, err := keyring.GetAdminSecret(); err == nil {
		return v
	} else if !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Keyring lookup failed", "key", keyring.AdminSecret, "error", err)
	}
	if c.AdminSecret != "" {
		return c.AdminSecret
	}
	return constants.DefaultAdminSecret
}

// ResolveRemoteURL returns the configured remote, falling back to the
// connection string stored in the keyring. Empty means local-only.
func (c Config) ResolveRemoteURL() string {
	if c.RemoteURL != "" {
		return c.RemoteURL
	}
	if v, err := keyring.GetConnectionString(); err == nil {
		return v
	}
	return ""
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
