package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/render"
)

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

// view draws the board two columns per cell with a border and a stats panel.
type view struct {
	screen tcell.Screen
	stats  *game.Stats
}

func newView(screen tcell.Screen, stats *game.Stats) *view {
	return &view{screen: screen, stats: stats}
}

func (v *view) Render(b *board.Board, active *piece.Active) {
	v.screen.Clear()

	grid := render.Compose(b, active)
	w := b.Width()*2 + 2
	h := b.Height() + 2

	for x := range w {
		v.screen.SetContent(x, 0, '─', nil, borderStyle)
		v.screen.SetContent(x, h-1, '─', nil, borderStyle)
	}
	for y := range h {
		v.screen.SetContent(0, y, '│', nil, borderStyle)
		v.screen.SetContent(w-1, y, '│', nil, borderStyle)
	}

	for sy, row := range grid {
		for x, c := range row {
			ch, style := ' ', tcell.StyleDefault
			if c != piece.ColorNone {
				rgba := c.RGBA()
				ch = '█'
				style = style.Foreground(tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B)))
			}
			v.screen.SetContent(1+x*2, 1+sy, ch, nil, style)
			v.screen.SetContent(2+x*2, 1+sy, ch, nil, style)
		}
	}

	lines := []string{
		fmt.Sprintf("piece  %s", active.Kind),
		fmt.Sprintf("locks  %d", v.stats.Locks),
		fmt.Sprintf("rows   %d", v.stats.Rows),
		fmt.Sprintf("resets %d", v.stats.Resets),
		"",
		"←→ move  ↑ rotate",
		"↓ drop   q quit",
	}
	for i, line := range lines {
		v.drawText(w+2, 1+i, line)
	}

	v.screen.Show()
}

func (v *view) drawText(x, y int, s string) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, textStyle)
		x++
	}
}
