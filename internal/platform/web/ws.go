package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// wsCommand is a client message: a direction, a swipe, or {"action":"reset"}.
type wsCommand struct {
	moveRequest
	Action string `json:"action,omitempty"`
}

// wsMessage is sent after the connection opens and after every command.
type wsMessage struct {
	Type  string        `json:"type"` // "state" or "error"
	Game  *moveResponse `json:"game,omitempty"`
	Error string        `json:"error,omitempty"`
}

// handleWS upgrades the connection and plays the session over it until
// the client disconnects or the session is deleted.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.sessions.Snapshot(id)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		s.writeSessionError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "session", id, "error", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	s.logger.Debug("websocket connected", "session", id)
	initial := moveResponse{gameResponse: gameResponse{ID: id, Snapshot: snap}}
	if err := writeWS(conn, wsMessage{Type: "state", Game: &initial}); err != nil {
		return
	}

	for {
		var cmd wsCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket error", "session", id, "error", err)
			}
			return
		}

		reply := s.applyCommand(id, cmd)
		if err := writeWS(conn, reply); err != nil {
			return
		}
		if reply.Error == "session_not_found" {
			return
		}
	}
}

// applyCommand runs one client command against the session.
func (s *Server) applyCommand(id string, cmd wsCommand) wsMessage {
	var (
		out MoveOutcome
		err error
	)

	switch cmd.Action {
	case "reset":
		out.Snapshot, err = s.sessions.Reset(id)
	case "", "move":
		dir, ok, perr := s.direction(cmd.moveRequest)
		switch {
		case perr != nil:
			return wsMessage{Type: "error", Error: "unknown_direction"}
		case ok:
			out, err = s.sessions.Move(id, dir)
		default:
			out.Snapshot, err = s.sessions.Snapshot(id)
		}
	default:
		return wsMessage{Type: "error", Error: "unknown_action"}
	}

	switch {
	case errors.Is(err, ErrSessionNotFound):
		return wsMessage{Type: "error", Error: "session_not_found"}
	case errors.Is(err, ErrGameOver):
		return wsMessage{Type: "error", Error: "game_over"}
	case err != nil:
		s.logger.Error("websocket command failed", "session", id, "error", err)
		return wsMessage{Type: "error", Error: "internal"}
	}

	resp := newMoveResponse(id, out)
	return wsMessage{Type: "state", Game: &resp}
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

// pingLoop keeps the connection alive. WriteControl may run concurrently
// with the handler's writes.
func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
