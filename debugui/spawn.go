package debugui

import (
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/loop"
)

// NewDefaultOverlay builds an overlay with the board, game stats and
// performance windows.
func NewDefaultOverlay(scheduler *loop.Scheduler, stats *game.Stats) *Overlay {
	o := &Overlay{}
	o.Add(NewBoardViewer(scheduler).Render)
	o.Add(NewGameStats(stats).Render)
	o.Add(NewPerformanceStats(scheduler, 120).Render)
	return o
}
