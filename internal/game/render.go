package game

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/board"
	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth   = 7 // Including the left border
	cellHeight  = 2 // Including the top border
	boardWidth  = board.Size*cellWidth + 1
	boardHeight = board.Size*cellHeight + 1
	hudHeight   = 3
)

// Render draws the current session onto dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardX := (g.screenW - boardWidth) / 2
	boardY := hudHeight

	g.renderHUD(dst, boardX)
	g.renderBoard(dst, boardX, boardY)
	dst.DrawTextCentered(boardY+boardHeight+1, g.Controls(), g.theme.Grid)

	if g.engine.Terminal() {
		g.renderGameOver(dst, core.NewRect(boardX, boardY, boardWidth, boardHeight))
	}
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", g.theme.Text)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minWidth, minHeight), g.theme.Grid)
}

// renderHUD draws the title, score, best score and max tile.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	title := "2048"
	dst.DrawTextColor(boardX+(boardWidth-len(title))/2, 0, title, g.theme.Accent)

	dst.DrawTextColor(boardX, 1, fmt.Sprintf("Score: %d", g.engine.Score()), g.theme.Text)

	best := fmt.Sprintf("Best: %d", g.Best())
	dst.DrawTextColor(boardX+boardWidth-len(best), 1, best, g.theme.Text)

	maxStr := fmt.Sprintf("Max tile: %d", g.engine.MaxTile())
	dst.DrawTextColor(boardX+(boardWidth-len(maxStr))/2, 2, maxStr, g.theme.Grid)
}

// renderBoard draws the grid lines and the tiles.
func (g *Game) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range board.Size + 1 {
		for x := range board.Size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			dst.SetColor(px, py, gridJoint(x, y), g.theme.Grid)

			if x < board.Size {
				for i := 1; i < cellWidth; i++ {
					dst.SetColor(px+i, py, '─', g.theme.Grid)
				}
			}
			if y < board.Size {
				for i := 1; i < cellHeight; i++ {
					dst.SetColor(px, py+i, '│', g.theme.Grid)
				}
			}
		}
	}

	cells := g.engine.Cells()
	for i, val := range cells {
		if val == board.Empty {
			continue
		}
		row, col := board.Coord(i)

		label := strconv.Itoa(val)
		pad := max((cellWidth-1-len(label))/2, 0)
		x := boardX + col*cellWidth + 1 + pad
		y := boardY + row*cellHeight + 1

		dst.DrawTextColor(x, y, label, g.theme.TileColor(val))
	}
}

// gridJoint picks the box-drawing rune for a grid intersection.
func gridJoint(x, y int) rune {
	last := board.Size
	switch {
	case y == 0 && x == 0:
		return '┌'
	case y == 0 && x == last:
		return '┐'
	case y == last && x == 0:
		return '└'
	case y == last && x == last:
		return '┘'
	case y == 0:
		return '┬'
	case y == last:
		return '┴'
	case x == 0:
		return '├'
	case x == last:
		return '┤'
	default:
		return '┼'
	}
}

// renderGameOver draws the end-of-game overlay centered on the board.
func (g *Game) renderGameOver(dst *core.Screen, area core.Rect) {
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("Score: %d", g.engine.Score()),
		"Press R to restart",
	}

	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}

	cx, cy := area.Center()
	box := core.NewRect(cx-(width+4)/2, cy-(len(lines)+2)/2, width+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, g.theme.Accent)

	for i, l := range lines {
		dst.DrawTextColor(cx-len(l)/2, box.Y+1+i, l, g.theme.Text)
	}
}

// Controls returns the control hints.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | R: Restart | Q: Quit"
}
