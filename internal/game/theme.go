package game

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Theme maps tile values to colors.
type Theme struct {
	Tiles  map[int]core.Color
	High   core.Color // Tiles above the highest configured value
	Grid   core.Color
	Text   core.Color
	Accent core.Color
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Tiles: map[int]core.Color{
			2:    core.ColorWhite,
			4:    core.ColorBrightWhite,
			8:    core.ColorYellow,
			16:   core.ColorOrange,
			32:   core.ColorBrightRed,
			64:   core.ColorRed,
			128:  core.ColorBrightYellow,
			256:  core.ColorBrightGreen,
			512:  core.ColorGreen,
			1024: core.ColorBrightCyan,
			2048: core.ColorBrightMagenta,
		},
		High:   core.ColorMagenta,
		Grid:   core.ColorGray,
		Text:   core.ColorDefault,
		Accent: core.ColorBrightYellow,
	}
}

// TileColor returns the color for a tile value.
func (t Theme) TileColor(value int) core.Color {
	if c, ok := t.Tiles[value]; ok {
		return c
	}
	return t.High
}

// ParseTheme builds a theme from color names keyed by tile value, on top of
// the default palette. Keys "high", "grid", "text" and "accent" set the
// non-tile colors.
func ParseTheme(names map[string]string) (Theme, error) {
	t := DefaultTheme()
	for key, name := range names {
		c, ok := core.ParseColor(name)
		if !ok {
			return t, fmt.Errorf("game: unknown color %q for %q", name, key)
		}

		switch key {
		case "high":
			t.High = c
		case "grid":
			t.Grid = c
		case "text":
			t.Text = c
		case "accent":
			t.Accent = c
		default:
			value, err := strconv.Atoi(key)
			if err != nil || value < 2 || value&(value-1) != 0 {
				return t, fmt.Errorf("game: theme key %q is not a tile value", key)
			}
			t.Tiles[value] = c
		}
	}
	return t, nil
}
