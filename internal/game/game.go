// Package game is the playable 2048: it owns a board engine, turns abstract
// input actions into moves and draws the session onto a core.Screen.
package game

import (
	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// Minimum screen size: board plus HUD and the controls line.
const (
	minWidth  = boardWidth + 2
	minHeight = hudHeight + boardHeight + 2
)

// Game implements the 2048 puzzle on top of board.Engine.
type Game struct {
	engine *board.Engine
	theme  Theme
	best   int

	screenW  int
	screenH  int
	tooSmall bool
}

// Option configures a Game.
type Option func(*Game)

// WithTheme sets the tile colors.
func WithTheme(t Theme) Option {
	return func(g *Game) {
		g.theme = t
	}
}

// WithBest seeds the best score shown in the HUD.
func WithBest(best int) Option {
	return func(g *Game) {
		g.best = best
	}
}

// New creates a game. Call Reset before the first Step.
func New(opts ...Option) *Game {
	g := &Game{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Reset starts a new session. A non-zero cfg.Seed makes tile spawns
// reproducible; otherwise the engine's unseeded source is used.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	src := board.DefaultSource()
	if cfg.Seed != 0 {
		src = board.NewSeededSource(cfg.Seed)
	}
	g.engine = board.New(board.WithRandom(src))
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Restart runs the engine's reset on the current session. Startup and every
// restart control end up here.
func (g *Game) Restart() {
	g.best = max(g.best, g.engine.Score())
	g.engine.Reset()
}

// Resize records the screen size used by Render.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minWidth || h < minHeight
}

// Engine exposes the underlying engine for read-only views.
func (g *Game) Engine() *board.Engine {
	return g.engine
}

// Move applies dir unless the session is already over. The second result
// is false when the move was ignored because the game has ended.
func (g *Game) Move(dir board.Direction) (board.MoveResult, bool) {
	if g.engine.Terminal() {
		return board.MoveResult{Terminal: true}, false
	}
	res := g.engine.Move(dir)
	g.best = max(g.best, g.engine.Score())
	return res, true
}

// Step handles one input event. Restart wins over moves; at most one move is
// applied per frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) {
		g.Restart()
		return core.StepResult{State: g.State(), Changed: true, Reset: true}
	}

	dir, ok := directionFor(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	res, _ := g.Move(dir)
	return core.StepResult{State: g.State(), Changed: res.Changed}
}

// directionFor picks the first direction present in the frame.
func directionFor(in core.InputFrame) (board.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return board.Up, true
	case in.Has(core.ActionDown):
		return board.Down, true
	case in.Has(core.ActionLeft):
		return board.Left, true
	case in.Has(core.ActionRight):
		return board.Right, true
	}
	return 0, false
}

// DirectionForAction maps a move action to a board direction.
func DirectionForAction(a core.Action) (board.Direction, bool) {
	if !a.IsMove() {
		return 0, false
	}
	return directionFor(core.FrameOf(a))
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.engine.Score(),
		MaxTile:  g.engine.MaxTile(),
		Moves:    g.engine.Moves(),
		GameOver: g.engine.Terminal(),
	}
}

// Best returns the best score seen, including the current session.
func (g *Game) Best() int {
	return max(g.best, g.engine.Score())
}
