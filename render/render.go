// Package render turns the board and the active piece into drawable form.
// Board rows grow upward while screens grow downward, so every helper here
// flips the vertical axis.
package render

import (
	"strings"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
)

// Compose flattens the board and the active piece into screen rows, top row
// first. Piece cells outside the grid are dropped. active may be nil.
func Compose(b *board.Board, active *piece.Active) [][]piece.Color {
	h := b.Height()
	grid := make([][]piece.Color, h)
	for y := range h {
		grid[h-1-y] = b.Row(y)
	}

	if active != nil {
		for cell := range active.Cells() {
			if b.InBounds(cell.X, cell.Y) {
				grid[h-1-cell.Y][cell.X] = active.Color
			}
		}
	}
	return grid
}

// CellSize returns the size of one board cell on a surface of the given
// dimensions.
func CellSize(surfaceW, surfaceH, cols, rows int) (w, h float64) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	return float64(surfaceW) / float64(cols), float64(surfaceH) / float64(rows)
}

// Rect is a screen rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H float64
	Color      piece.Color
}

// Rects returns one rectangle per non-empty cell of the composed grid,
// scaled to a surfaceW x surfaceH surface.
func Rects(b *board.Board, active *piece.Active, surfaceW, surfaceH int) []Rect {
	cw, ch := CellSize(surfaceW, surfaceH, b.Width(), b.Height())
	var rects []Rect
	for sy, row := range Compose(b, active) {
		for x, c := range row {
			if c == piece.ColorNone {
				continue
			}
			rects = append(rects, Rect{
				X:     float64(x) * cw,
				Y:     float64(sy) * ch,
				W:     cw,
				H:     ch,
				Color: c,
			})
		}
	}
	return rects
}

// Text renders the composed grid as ASCII, top row first. Empty cells are
// '.', locked cells the first letter of their color and active piece cells
// '@'.
func Text(b *board.Board, active *piece.Active) string {
	grid := Compose(b, nil)
	if active != nil {
		h := b.Height()
		for cell := range active.Cells() {
			if b.InBounds(cell.X, cell.Y) {
				grid[h-1-cell.Y][cell.X] = activeMarker
			}
		}
	}

	var sb strings.Builder
	sb.Grow((b.Width() + 1) * b.Height())
	for i, row := range grid {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			sb.WriteByte(Glyph(c))
		}
	}
	return sb.String()
}

// activeMarker is a sentinel outside the palette used only inside Text.
const activeMarker = piece.Color(255)

// Glyph returns the ASCII character for a cell.
func Glyph(c piece.Color) byte {
	switch c {
	case piece.ColorNone:
		return '.'
	case activeMarker:
		return '@'
	}
	return c.String()[0]
}
