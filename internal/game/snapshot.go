package game

import "github.com/vovakirdan/tui-2048/internal/board"

// Status is the session state exposed to front ends.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "game_over"
)

// Snapshot captures everything a renderer needs after a reset or move.
type Snapshot struct {
	Board   [board.Size][board.Size]int `json:"board"`
	Score   int                         `json:"score"`
	Best    int                         `json:"best"`
	MaxTile int                         `json:"max_tile"`
	Moves   int                         `json:"moves"`
	Status  Status                      `json:"status"`
}

// Snapshot returns the current state.
func (g *Game) Snapshot() Snapshot {
	status := StatusPlaying
	if g.engine.Terminal() {
		status = StatusGameOver
	}

	return Snapshot{
		Board:   g.engine.Cells().Rows(),
		Score:   g.engine.Score(),
		Best:    g.Best(),
		MaxTile: g.engine.MaxTile(),
		Moves:   g.engine.Moves(),
		Status:  status,
	}
}
