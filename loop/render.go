package loop

import (
	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
)

// Renderer draws the board and the active piece. It must not mutate either.
type Renderer interface {
	Render(b *board.Board, active *piece.Active)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(b *board.Board, active *piece.Active)

func (f RendererFunc) Render(b *board.Board, active *piece.Active) {
	f(b, active)
}

// RenderSystem hands the current state to a renderer every frame.
type RenderSystem struct {
	Renderer Renderer
}

func (s *RenderSystem) Execute(frame *Frame) {
	if s.Renderer == nil {
		return
	}
	s.Renderer.Render(frame.Game.Board(), frame.Game.Active())
}
