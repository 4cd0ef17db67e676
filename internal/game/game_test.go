package game

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/core"
)

var testConfig = core.RuntimeConfig{
	ScreenW: 80,
	ScreenH: 24,
	Seed:    42,
}

var terminalBoard = board.FromRows([board.Size][board.Size]int{
	{2, 4, 8, 16},
	{32, 64, 128, 256},
	{512, 1024, 2048, 4096},
	{8192, 16384, 32768, 65536},
})

func newTestGame(grid board.Grid, score int) *Game {
	g := New()
	g.Reset(testConfig)
	g.Engine().Load(grid, score)
	return g
}

func TestDeterministicReset(t *testing.T) {
	g1 := New()
	g1.Reset(testConfig)

	g2 := New()
	g2.Reset(testConfig)

	if g1.Engine().Cells() != g2.Engine().Cells() {
		t.Errorf("same seed should produce the same initial board:\n%v\nvs\n%v",
			g1.Engine().Cells().Rows(), g2.Engine().Cells().Rows())
	}

	tiles := board.CellCount - len(g1.Engine().Cells().EmptyIndices())
	if tiles != 2 {
		t.Errorf("initial tiles = %d, want 2", tiles)
	}
}

func TestStepMove(t *testing.T) {
	g := newTestGame(board.Grid{2, 2}, 0)

	res := g.Step(core.FrameOf(core.ActionLeft))

	if !res.Changed {
		t.Fatal("Step(Left) should change the board")
	}
	if res.State.Score != 4 {
		t.Errorf("score = %d, want 4", res.State.Score)
	}
	if res.State.MaxTile != 4 {
		t.Errorf("max tile = %d, want 4", res.State.MaxTile)
	}
	if res.State.Moves != 1 {
		t.Errorf("moves = %d, want 1", res.State.Moves)
	}
}

func TestStepWithoutInput(t *testing.T) {
	start := board.Grid{2, 2}
	g := newTestGame(start, 0)

	res := g.Step(core.NewInputFrame())

	if res.Changed || g.Engine().Cells() != start {
		t.Error("an empty frame should not change the board")
	}
}

func TestStepIgnoresMovesWhenGameOver(t *testing.T) {
	g := newTestGame(terminalBoard, 300)

	if !g.State().GameOver {
		t.Fatal("board should be terminal")
	}

	res := g.Step(core.FrameOf(core.ActionDown))
	if res.Changed {
		t.Error("moves should be ignored after game over")
	}
	if _, applied := g.Move(board.Up); applied {
		t.Error("Move should report it was not applied after game over")
	}
	if g.Engine().Cells() != terminalBoard || g.State().Score != 300 {
		t.Error("board or score changed after game over")
	}
}

func TestRestart(t *testing.T) {
	g := newTestGame(terminalBoard, 500)

	res := g.Step(core.FrameOf(core.ActionRestart, core.ActionLeft))

	if !res.Reset {
		t.Fatal("Step(Restart) should reset the session")
	}
	if res.State.GameOver {
		t.Error("restart should leave the game-over state")
	}
	if res.State.Score != 0 {
		t.Errorf("score after restart = %d, want 0", res.State.Score)
	}
	if g.Best() != 500 {
		t.Errorf("Best() = %d, want 500", g.Best())
	}
	if tiles := board.CellCount - len(g.Engine().Cells().EmptyIndices()); tiles != 2 {
		t.Errorf("tiles after restart = %d, want 2", tiles)
	}
}

func TestSnapshot(t *testing.T) {
	g := newTestGame(board.Grid{2, 2, 0, 8}, 16)
	g.Step(core.FrameOf(core.ActionLeft))

	snap := g.Snapshot()

	if snap.Status != StatusPlaying {
		t.Errorf("Status = %s, want playing", snap.Status)
	}
	if snap.Score != 20 || snap.Best != 20 {
		t.Errorf("Score/Best = %d/%d, want 20/20", snap.Score, snap.Best)
	}
	if snap.Board[0][0] != 4 || snap.Board[0][1] != 8 {
		t.Errorf("Board row 0 = %v, want 4 8 ...", snap.Board[0])
	}
	if snap.MaxTile != 8 {
		t.Errorf("MaxTile = %d, want 8", snap.MaxTile)
	}

	over := newTestGame(terminalBoard, 0).Snapshot()
	if over.Status != StatusGameOver {
		t.Errorf("Status = %s, want game_over", over.Status)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(board.Grid{2048, 0, 0, 4}, 10)
	screen := core.NewScreen(testConfig.ScreenW, testConfig.ScreenH)

	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Score: 10", "Best: 10", "2048", "Max tile: 2048", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "GAME OVER") {
		t.Error("game over overlay shown during play")
	}
}

func TestRenderGameOver(t *testing.T) {
	g := newTestGame(terminalBoard, 1234)
	screen := core.NewScreen(testConfig.ScreenW, testConfig.ScreenH)

	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "GAME OVER") || !strings.Contains(out, "Press R to restart") {
		t.Errorf("missing game over overlay:\n%s", out)
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 8, Seed: 1})
	screen := core.NewScreen(20, 8)

	g.Render(screen)

	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("expected size warning:\n%s", screen.String())
	}
}

func TestParseTheme(t *testing.T) {
	theme, err := ParseTheme(map[string]string{
		"2":    "red",
		"4096": "blue",
		"grid": "white",
	})
	if err != nil {
		t.Fatalf("ParseTheme() error: %v", err)
	}
	if theme.TileColor(2) != core.ColorRed || theme.TileColor(4096) != core.ColorBlue {
		t.Error("tile colors not applied")
	}
	if theme.Grid != core.ColorWhite {
		t.Error("grid color not applied")
	}
	if theme.TileColor(1 << 20) != theme.High {
		t.Error("unknown values should use the high color")
	}

	bad := []map[string]string{
		{"2": "plaid"},
		{"3": "red"},
		{"tiles": "red"},
	}
	for _, names := range bad {
		if _, err := ParseTheme(names); err == nil {
			t.Errorf("ParseTheme(%v) should fail", names)
		}
	}
}
