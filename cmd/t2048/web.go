package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP/WebSocket API",
	Long: `Serve 2048 sessions over JSON and WebSocket.

Endpoints:
  GET    /health
  POST   /games                 - Start a session
  GET    /games/{id}            - Session state
  POST   /games/{id}/moves      - {"direction":"left"} or {"swipe":{"dx":-80,"dy":4}}
  POST   /games/{id}/reset      - Restart the session
  DELETE /games/{id}            - End the session
  GET    /games/{id}/ws         - Live play over WebSocket
  GET    /scores?limit=N        - Leaderboard

Idle sessions are dropped after web.session_ttl.

Examples:
  t2048 web
  t2048 web --addr 127.0.0.1:8080`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (overrides config)")
}

func runWeb(_ *cobra.Command, _ []string) {
	addr := appConfig.Web.Address
	if flagWebAddr != "" {
		addr = flagWebAddr
	}

	store, err := openStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	webLogger := logger.WithPrefix("web")
	opts := []web.ManagerOption{web.WithStore(store), web.WithLogger(webLogger)}
	if flagSeed != 0 {
		opts = append(opts, web.WithSeed(flagSeed))
	}
	sessions := web.NewSessionManager(appConfig.Web.SessionTTL, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, time.Minute)

	server := web.NewServer(web.Config{
		Address:        addr,
		AllowedOrigin:  appConfig.Web.AllowedOrigin,
		SwipeThreshold: appConfig.Input.WebSwipeThreshold,
	}, sessions, store, webLogger)

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
