package loop

import "github.com/plus3/blockfall/game"

// DefaultGravityRate is the number of gravity ticks per second.
const DefaultGravityRate = 2.0

// gravityEpsilon absorbs float drift when frame times sum to the period.
const gravityEpsilon = 1e-9

// GravitySystem ticks the game down once per 1/Rate seconds of accumulated
// frame time. At most one tick happens per frame and the remainder is
// dropped, so a stalled frame does not cause a burst of descents. A
// non-positive Rate disables gravity.
type GravitySystem struct {
	Rate  float64
	Ticks int
	Last  game.Outcome

	elapsed float64
}

func (s *GravitySystem) Execute(frame *Frame) {
	if s.Rate <= 0 {
		return
	}

	s.elapsed += frame.DeltaTime
	if s.elapsed+gravityEpsilon < 1/s.Rate {
		return
	}
	s.elapsed = 0
	s.Ticks++
	s.Last = frame.Game.Tick()
}
