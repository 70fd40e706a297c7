// Package board holds the grid of locked cells and the collision test used
// to validate piece placements against it.
package board

import (
	"slices"

	"github.com/plus3/blockfall/piece"
)

const (
	Width  = 10
	Height = 20
)

// Board is a grid of locked cells. Row 0 is the bottom row and every row
// always holds exactly Width cells.
type Board struct {
	width  int
	height int
	rows   [][]piece.Color
}

// New creates an empty board with the given dimensions.
func New(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic("board: dimensions must be positive")
	}
	b := &Board{
		width:  width,
		height: height,
		rows:   make([][]piece.Color, height),
	}
	for y := range b.rows {
		b.rows[y] = b.emptyRow()
	}
	return b
}

// NewDefault creates an empty Width x Height board.
func NewDefault() *Board {
	return New(Width, Height)
}

func (b *Board) emptyRow() []piece.Color {
	return make([]piece.Color, b.width)
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// InBounds reports whether (x, y) is a cell of the grid.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Cell returns the color at (x, y), or ColorNone outside the grid.
func (b *Board) Cell(x, y int) piece.Color {
	if !b.InBounds(x, y) {
		return piece.ColorNone
	}
	return b.rows[y][x]
}

// Set writes a color directly into a cell. Out of range writes are ignored.
func (b *Board) Set(x, y int, c piece.Color) {
	if b.InBounds(x, y) {
		b.rows[y][x] = c
	}
}

// Row returns a copy of row y.
func (b *Board) Row(y int) []piece.Color {
	if y < 0 || y >= b.height {
		return nil
	}
	return slices.Clone(b.rows[y])
}

// Clear empties every cell.
func (b *Board) Clear() {
	for y := range b.rows {
		clear(b.rows[y])
	}
}

// IsRowFull reports whether row y has no empty cell.
func (b *Board) IsRowFull(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	return !slices.Contains(b.rows[y], piece.ColorNone)
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	count := 0
	for _, row := range b.rows {
		for _, c := range row {
			if c != piece.ColorNone {
				count++
			}
		}
	}
	return count
}

// Merge locks the piece into the board. Cells that are already occupied
// keep their color.
func (b *Board) Merge(p *piece.Active) {
	for cell := range p.Cells() {
		if b.InBounds(cell.X, cell.Y) && b.rows[cell.Y][cell.X] == piece.ColorNone {
			b.rows[cell.Y][cell.X] = p.Color
		}
	}
}

// FullRows returns the full rows within the piece's vertical span in
// ascending order.
func (b *Board) FullRows(p *piece.Active) []int {
	var rows []int
	for y := p.Y; y < p.Top(); y++ {
		if b.IsRowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// RemoveRows deletes the given rows and appends one empty row at the top
// for each. Indices are processed from highest to lowest so pending lower
// indices stay valid. Duplicates and out of range indices are skipped.
func (b *Board) RemoveRows(indices []int) int {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	removed := 0
	for i := len(sorted) - 1; i >= 0; i-- {
		y := sorted[i]
		if y < 0 || y >= b.height {
			continue
		}
		b.rows = slices.Delete(b.rows, y, y+1)
		b.rows = append(b.rows, b.emptyRow())
		removed++
	}
	return removed
}

// String renders the board top row first, '.' for empty cells and the
// first letter of the color otherwise.
func (b *Board) String() string {
	buf := make([]byte, 0, (b.width+1)*b.height)
	for y := b.height - 1; y >= 0; y-- {
		for _, c := range b.rows[y] {
			buf = append(buf, cellRune(c))
		}
		if y > 0 {
			buf = append(buf, '\n')
		}
	}
	return string(buf)
}

func cellRune(c piece.Color) byte {
	if c == piece.ColorNone {
		return '.'
	}
	return c.String()[0]
}
