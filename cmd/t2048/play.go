package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048 in this terminal",
	Long: `Start a game in the current terminal.

Controls:
  Arrows/WASD/hjkl - Slide tiles
  Mouse drag       - Swipe (when ui.mouse is enabled)
  R                - Restart
  Tab              - Leaderboard
  ?                - Full help
  Q/Ctrl+C         - Quit

Finished games are saved to the leaderboard. Restarting or quitting a
game with points saves it too.

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 play --config ./my-t2048.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open scores database, results will not be saved", "error", err)
		// Continue without storage - game still works
		store = nil
	}

	opts := tui.Options{
		Store:          store,
		Logger:         logger,
		Theme:          theme(),
		Source:         storage.SourceLocal,
		Session:        os.Getenv("USER"),
		SwipeThreshold: swipeThreshold(),
	}
	runErr := tui.Run(opts, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
