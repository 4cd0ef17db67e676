package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDBPath   = "T2048_DB"
	EnvSSHAddr  = "T2048_SSH_ADDR"
	EnvWebAddr  = "T2048_WEB_ADDR"
	EnvLogLevel = "T2048_LOG_LEVEL"
)

const fileName = "t2048.yaml"

// Load reads the configuration, applies environment overrides and
// validates the result.
// Search order: customPath -> ~/.t2048/config.yaml -> ./configs/t2048.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	// An explicit path must exist and parse.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	if userCfgPath := userConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	if cfg, err := parse(defaultYAML); err == nil {
		return cfg, nil
	}
	return Default(), nil
}

// parse decodes YAML on top of Default so omitted keys keep their defaults.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// userConfigPath returns ~/.t2048/config.yaml, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", "config.yaml")
}

// loadDotEnv loads variables from path into the environment. A missing file
// is not an error; variables already set are left alone.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any T2048_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv(EnvSSHAddr); v != "" {
		cfg.SSH.Address = v
	}
	if v := os.Getenv(EnvWebAddr); v != "" {
		cfg.Web.Address = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Storage.DBPath == "":
		return errors.New("config: storage.db_path is empty")
	case c.SSH.Address == "":
		return errors.New("config: ssh.address is empty")
	case c.Web.Address == "":
		return errors.New("config: web.address is empty")
	case c.SSH.IdleTimeout <= 0:
		return fmt.Errorf("config: ssh.idle_timeout must be positive, got %s", c.SSH.IdleTimeout)
	case c.Web.SessionTTL <= 0:
		return fmt.Errorf("config: web.session_ttl must be positive, got %s", c.Web.SessionTTL)
	case c.Input.SwipeThreshold <= 0:
		return fmt.Errorf("config: input.swipe_threshold must be positive, got %d", c.Input.SwipeThreshold)
	case c.Input.WebSwipeThreshold <= 0:
		return fmt.Errorf("config: input.web_swipe_threshold must be positive, got %d", c.Input.WebSwipeThreshold)
	}
	return nil
}
