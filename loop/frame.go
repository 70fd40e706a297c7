package loop

import "github.com/plus3/blockfall/game"

type Frame struct {
	DeltaTime float64
	Game      *game.Controller
	Commands  *Commands
}

func newFrame(dt float64, g *game.Controller, commands *Commands) *Frame {
	return &Frame{
		DeltaTime: dt,
		Game:      g,
		Commands:  commands,
	}
}
