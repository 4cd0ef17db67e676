// Package tui provides the Bubble Tea front end for t2048: the board view,
// the scoreboard and the SSH server that hosts both.
package tui

import (
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/game"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Options configures a Model.
type Options struct {
	Store    *storage.Store
	Logger   *log.Logger
	Theme    game.Theme
	Renderer *lipgloss.Renderer
	Session  string // Recorded with each result
	Source   string // storage.SourceLocal or storage.SourceSSH

	// SwipeThreshold is the minimum drag distance, in cells, that counts
	// as a swipe. Zero disables mouse input.
	SwipeThreshold int
}

// dragStart is where a left-button press began.
type dragStart struct {
	x, y   int
	active bool
}

// Model is the Bubble Tea model for one 2048 session. It is event driven:
// the board only changes in response to input.
type Model struct {
	game       *game.Game
	screen     *core.Screen
	palette    Palette
	store      *storage.Store
	logger     *log.Logger
	keys       KeyMap
	help       help.Model
	scoreboard Scoreboard
	config     core.RuntimeConfig
	opts       Options
	drag       dragStart
	gameState  core.GameState
	saved      bool // Whether the current session's result has been stored
	showScores bool
	quitting   bool
}

// NewModel creates a model and starts the first session.
func NewModel(opts Options, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Source == "" {
		opts.Source = storage.SourceLocal
	}
	if opts.Theme.Tiles == nil {
		opts.Theme = game.DefaultTheme()
	}

	best := 0
	if opts.Store != nil {
		high, err := opts.Store.HighScore()
		if err != nil {
			opts.Logger.Warn("could not read high score", "error", err)
		}
		best = high
	}

	g := game.New(game.WithTheme(opts.Theme), game.WithBest(best))
	g.Reset(cfg)

	m := Model{
		game:       g,
		palette:    NewPalette(opts.Renderer),
		store:      opts.Store,
		logger:     opts.Logger,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		scoreboard: NewScoreboard(opts.Store, cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		opts:       opts,
		gameState:  g.State(),
	}
	m.screen = core.NewScreen(cfg.ScreenW, m.boardHeight())
	m.game.Resize(cfg.ScreenW, m.boardHeight())
	return m
}

// Init has nothing to schedule; the board waits for input.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	if m.showScores {
		return m.updateScoreboard(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// handleKey processes keyboard input on the board view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	frame := core.NewInputFrame()
	if m.keys.MapKeyToFrame(msg, &frame) {
		return m.quit()
	}

	switch {
	case frame.Has(core.ActionHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeBoard()
		return m, nil
	case frame.Has(core.ActionScores):
		m.scoreboard.Load()
		m.showScores = true
		return m, nil
	}

	m.step(frame)
	return m, nil
}

// handleMouse turns a left-button drag into a swipe.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.opts.SwipeThreshold <= 0 {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.drag = dragStart{x: msg.X, y: msg.Y, active: true}
		}
	case tea.MouseActionRelease:
		if !m.drag.active {
			return m, nil
		}
		// Cells are about twice as tall as they are wide.
		dx := msg.X - m.drag.x
		dy := (msg.Y - m.drag.y) * 2
		m.drag = dragStart{}
		if action := core.SwipeAction(dx, dy, m.opts.SwipeThreshold); action != core.ActionNone {
			m.step(core.FrameOf(action))
		}
	}
	return m, nil
}

// step runs one input frame through the game and records finished games.
func (m *Model) step(frame core.InputFrame) {
	if frame.Empty() {
		return
	}
	if frame.Has(core.ActionRestart) {
		m.saveResult("restart")
	}

	res := m.game.Step(frame)
	m.gameState = res.State
	if res.Reset {
		m.saved = false
	}

	if m.gameState.GameOver {
		m.saveResult("game over")
	}
}

// saveResult stores the current session once. Sessions without points
// are not recorded.
func (m *Model) saveResult(reason string) {
	state := m.game.State()
	if m.saved || state.Score == 0 {
		return
	}
	m.saved = true
	if m.store == nil {
		return
	}

	id, err := m.store.SaveResult(storage.Result{
		Session: m.opts.Session,
		Source:  m.opts.Source,
		Score:   state.Score,
		MaxTile: state.MaxTile,
		Moves:   state.Moves,
	})
	if err != nil {
		m.logger.Error("could not save result", "session", m.opts.Session, "error", err)
		return
	}
	m.logger.Debug("result saved", "id", id, "reason", reason, "score", state.Score)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.saveResult("quit")
	m.quitting = true
	return m, tea.Quit
}

// updateScoreboard routes messages to the scoreboard while it is shown.
func (m Model) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	sb, cmd, back, quit := m.scoreboard.Update(msg)
	m.scoreboard = sb
	switch {
	case quit:
		return m.quit()
	case back:
		m.showScores = false
	}
	return m, cmd
}

// handleResize processes window resize events. The session is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.resizeBoard()
	m.scoreboard.Resize(msg.Width, msg.Height)
	return m, nil
}

// resizeBoard fits the board screen above the help footer.
func (m *Model) resizeBoard() {
	h := m.boardHeight()
	m.screen.Resize(m.config.ScreenW, h)
	m.game.Resize(m.config.ScreenW, h)
}

// boardHeight is the terminal height minus the lines used by the help footer.
func (m Model) boardHeight() int {
	lines := 1
	if m.help.ShowAll {
		for _, group := range m.keys.FullHelp() {
			lines = max(lines, len(group))
		}
	}
	return max(m.config.ScreenH-lines, 0)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showScores {
		return m.scoreboard.View()
	}

	m.game.Render(m.screen)
	return m.palette.RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// State returns the state after the last handled input.
func (m Model) State() core.GameState {
	return m.gameState
}

// Game exposes the running game.
func (m Model) Game() *game.Game {
	return m.game
}

// Run starts the Bubble Tea program with the given model.
func Run(opts Options, cfg core.RuntimeConfig) error {
	model := NewModel(opts, cfg)

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.SwipeThreshold > 0 {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	_, err := tea.NewProgram(model, programOpts...).Run()
	return err
}
