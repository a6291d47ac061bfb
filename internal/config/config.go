package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// DefaultConfigFile is read from the working directory when TASKBOARD_CONFIG
// is unset.
const DefaultConfigFile = "taskboard.toml"

type Config struct {
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
	// Store backend: "memory" or "sqlite".
	Store    string `toml:"store"`
	DBPath   string `toml:"db_path"`
	SeedFile string `toml:"seed_file"`
}

// Load builds the server config. Precedence, lowest first: defaults, the
// TOML config file, environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     8080,
		LogLevel: "info",
		Store:    "memory",
		DBPath:   ":memory:",
	}

	path := envStr("TASKBOARD_CONFIG", "")
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := loadFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.Store = envStr("TASKBOARD_STORE", cfg.Store)
	cfg.DBPath = envStr("TASKBOARD_DB_PATH", cfg.DBPath)
	cfg.SeedFile = envStr("TASKBOARD_SEED_FILE", cfg.SeedFile)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadFile decodes path over cfg. A missing file is only an error when the
// path was given explicitly.
func loadFile(cfg *Config, path string, explicit bool) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Store != "memory" && c.Store != "sqlite" {
		return fmt.Errorf("TASKBOARD_STORE must be memory or sqlite, got %q", c.Store)
	}
	if c.Store == "sqlite" && c.DBPath == "" {
		return fmt.Errorf("TASKBOARD_DB_PATH must not be empty")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
