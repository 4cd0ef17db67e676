// t2048 is the 2048 sliding-tile puzzle for the terminal, SSH and HTTP.
//
// Usage:
//
//	t2048 play               - Play in this terminal
//	t2048 scores             - Show the leaderboard
//	t2048 serve              - Start SSH server for remote play
//	t2048 web                - Start the HTTP/WebSocket API
//	t2048 config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.t2048/config.yaml, ./configs/t2048.yaml)
//	--seed <value>      - Set RNG seed for reproducible tile spawns
//	--db <path>         - Set database path (default: ~/.t2048/scores.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	// Set by loadConfig before any subcommand runs.
	appConfig config.Config
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - slide and merge tiles in your terminal",
	Long: `t2048 is the 2048 puzzle: slide the board in one of four directions,
equal tiles merge, and a new tile appears after every move that changes
the board. The game ends when the board is full and nothing can merge.

Available commands:
  play     - Play in this terminal
  scores   - View and manage the leaderboard
  serve    - Start SSH server for remote play
  web      - Start the HTTP/WebSocket API
  config   - Print the effective configuration

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 serve --ssh :2222
  t2048 web --addr :8080
  t2048 scores --limit 20`,
	PersistentPreRun: loadConfig,
	SilenceUsage:     true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the configuration and builds the logger. Flags win
// over the environment, which wins over the file.
func loadConfig(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	appConfig = cfg

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
}

// openStore opens the results database named by the configuration.
func openStore() (*storage.Store, error) {
	return storage.Open(appConfig.Storage.DBPath)
}

// theme builds the tile palette from the configuration.
func theme() game.Theme {
	t, err := game.ParseTheme(appConfig.UI.Theme)
	if err != nil {
		logger.Warn("invalid theme, using defaults", "error", err)
		return game.DefaultTheme()
	}
	return t
}

// swipeThreshold returns the TUI drag threshold, or 0 when mouse input is off.
func swipeThreshold() int {
	if !appConfig.UI.Mouse {
		return 0
	}
	return appConfig.Input.SwipeThreshold
}
