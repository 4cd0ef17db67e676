package board

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four moves a player can make.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every valid direction.
var Directions = [...]Direction{Up, Down, Left, Right}

// ErrUnknownDirection is returned by ParseDirection for unrecognised input.
var ErrUnknownDirection = errors.New("board: unknown direction")

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

// ParseDirection maps a case-insensitive name ("up", "down", "left",
// "right") to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// traversalOrders is indexed by Direction. Within each line the first index
// is the cell closest to the edge the move pushes toward.
var traversalOrders = buildTraversalOrders()

func buildTraversalOrders() [4][CellCount]int {
	var orders [4][CellCount]int
	for _, dir := range Directions {
		n := 0
		for line := range Size {
			for step := range Size {
				pos := step
				if dir == Down || dir == Right {
					pos = Size - 1 - step
				}
				if dir == Up || dir == Down {
					orders[dir][n] = Index(pos, line)
				} else {
					orders[dir][n] = Index(line, pos)
				}
				n++
			}
		}
	}
	return orders
}

// TraversalOrder returns the order in which cells are visited for a move.
// Columns are walked for up/down and rows for left/right; each line starts
// at the destination edge so no tile can jump over one that hasn't settled.
func TraversalOrder(dir Direction) [CellCount]int {
	return traversalOrders[dir]
}

// NextIndex returns the neighbour of index in direction dir, or false when
// index already sits on that boundary edge.
func NextIndex(index int, dir Direction) (int, bool) {
	row, col := Coord(index)
	switch dir {
	case Up:
		if row > 0 {
			return index - Size, true
		}
	case Down:
		if row < Size-1 {
			return index + Size, true
		}
	case Left:
		if col > 0 {
			return index - 1, true
		}
	case Right:
		if col < Size-1 {
			return index + 1, true
		}
	}
	return 0, false
}
