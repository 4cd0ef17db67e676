package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration used when no file and no
// embedded default can be read.
func Default() Config {
	return Config{
		LogLevel: "info",
		UI: UIConfig{
			Mouse: true,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/scores.db",
		},
		SSH: SSHConfig{
			Address:     ":2048",
			HostKeyPath: ".ssh/t2048_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address:       ":8048",
			SessionTTL:    time.Hour,
			AllowedOrigin: "*",
		},
		Input: InputConfig{
			SwipeThreshold:    2,
			WebSwipeThreshold: 30,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
