// Package config provides YAML-based configuration loading for t2048,
// with embedded defaults and environment overrides.
package config

import "time"

// Config is the top-level configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	UI       UIConfig      `yaml:"ui"`
	Storage  StorageConfig `yaml:"storage"`
	SSH      SSHConfig     `yaml:"ssh"`
	Web      WebConfig     `yaml:"web"`
	Input    InputConfig   `yaml:"input"`
}

// UIConfig controls how the board is drawn in terminals.
type UIConfig struct {
	// Theme maps tile values ("2", "4", ...) and the keys "high", "grid",
	// "text", "accent" to color names.
	Theme map[string]string `yaml:"theme"`
	Mouse bool              `yaml:"mouse"`
}

// StorageConfig locates the results database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// SSHConfig configures the wish server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig configures the HTTP/WebSocket API.
type WebConfig struct {
	Address       string        `yaml:"address"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	AllowedOrigin string        `yaml:"allowed_origin"`
}

// InputConfig holds swipe recognition thresholds.
type InputConfig struct {
	SwipeThreshold    int `yaml:"swipe_threshold"`     // terminal cells
	WebSwipeThreshold int `yaml:"web_swipe_threshold"` // pixels
}
