// Package web exposes 2048 sessions over a JSON HTTP API and a WebSocket
// channel for live play.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const (
	defaultScoresLimit = 10
	maxScoresLimit     = 100
	requestTimeout     = 10 * time.Second
)

// ScoreLister reads the leaderboard.
type ScoreLister interface {
	TopResults(limit int) ([]storage.Result, error)
}

// Config configures the HTTP server.
type Config struct {
	Address        string
	AllowedOrigin  string // "*" allows any origin
	SwipeThreshold int    // pixels
}

// Server bundles the router, the session manager and the score reader.
type Server struct {
	r        *chi.Mux
	cfg      Config
	sessions *SessionManager
	scores   ScoreLister
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewServer constructs a Server, installs middleware, and registers routes.
// scores may be nil.
func NewServer(cfg Config, sessions *SessionManager, scores ScoreLister, logger *log.Logger) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		sessions: sessions,
		scores:   scores,
		logger:   logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(s.cors)

	s.r.Route("/games", func(r chi.Router) {
		// The WebSocket route stays outside the timeout group.
		r.Get("/{id}/ws", s.handleWS)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))
			r.Use(jsonContentType)
			r.Post("/", s.handleCreate)
			r.Get("/{id}", s.handleGet)
			r.Delete("/{id}", s.handleDelete)
			r.Post("/{id}/moves", s.handleMove)
			r.Post("/{id}/reset", s.handleReset)
		})
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Use(jsonContentType)
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Len()})
		})
		r.Get("/scores", s.handleScores)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web: http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ----------------------------- payloads ------------------------------------

// gameResponse is a session's state.
type gameResponse struct {
	ID string `json:"id"`
	game.Snapshot
}

type spawnResponse struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

type moveResponse struct {
	gameResponse
	Changed bool           `json:"changed"`
	Gained  int            `json:"gained"`
	Spawned *spawnResponse `json:"spawned,omitempty"`
}

type swipeRequest struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// moveRequest carries either a direction name or a raw swipe vector.
type moveRequest struct {
	Direction string        `json:"direction,omitempty"`
	Swipe     *swipeRequest `json:"swipe,omitempty"`
}

type scoreResponse struct {
	Rank      int       `json:"rank"`
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func newMoveResponse(id string, out MoveOutcome) moveResponse {
	resp := moveResponse{
		gameResponse: gameResponse{ID: id, Snapshot: out.Snapshot},
		Changed:      out.Changed,
		Gained:       out.Gained,
	}
	if out.Spawned != nil {
		row, col := board.Coord(out.Spawned.Index)
		resp.Spawned = &spawnResponse{Row: row, Col: col, Value: out.Spawned.Value}
	}
	return resp
}

// ------------------------------ handlers -----------------------------------

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, snap := s.sessions.Create()
	writeJSON(w, http.StatusCreated, gameResponse{ID: sess.ID, Snapshot: snap})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.sessions.Snapshot(id)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.sessions.Reset(id)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse{ID: id, Snapshot: snap})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	dir, ok, err := s.direction(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_direction")
		return
	}
	if !ok {
		// A swipe shorter than the threshold is not a move.
		snap, err := s.sessions.Snapshot(id)
		if err != nil {
			s.writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, moveResponse{gameResponse: gameResponse{ID: id, Snapshot: snap}})
		return
	}

	out, err := s.sessions.Move(id, dir)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMoveResponse(id, out))
}

// direction resolves a move request. ok is false when a swipe is too short
// to count.
func (s *Server) direction(req moveRequest) (board.Direction, bool, error) {
	if req.Swipe != nil {
		action := core.SwipeAction(req.Swipe.DX, req.Swipe.DY, s.cfg.SwipeThreshold)
		dir, ok := game.DirectionForAction(action)
		return dir, ok, nil
	}
	dir, err := board.ParseDirection(req.Direction)
	if err != nil {
		return 0, false, err
	}
	return dir, true, nil
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	limit := defaultScoresLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxScoresLimit {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}

	var results []storage.Result
	if s.scores != nil {
		var err error
		results, err = s.scores.TopResults(limit)
		if err != nil {
			s.logger.Error("could not load scores", "error", err)
			writeError(w, http.StatusInternalServerError, "scores_unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, lo.Map(results, func(res storage.Result, i int) scoreResponse {
		return scoreResponse{
			Rank:      i + 1,
			ID:        res.ID,
			Score:     res.Score,
			MaxTile:   res.MaxTile,
			Moves:     res.Moves,
			Source:    res.Source,
			CreatedAt: res.CreatedAt,
		}
	}))
}

// writeSessionError maps manager errors to status codes.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	default:
		s.logger.Error("session error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors allows the configured origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkOrigin applies the CORS origin to WebSocket upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.cfg.AllowedOrigin == "" || s.cfg.AllowedOrigin == "*" || origin == s.cfg.AllowedOrigin
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
