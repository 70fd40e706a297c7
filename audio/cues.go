// Package audio plays short tones for game events.
package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/plus3/blockfall/game"
)

// SampleRate is the rate every cue is rendered at.
const SampleRate = beep.SampleRate(44100)

// Cue names a sound.
type Cue uint8

const (
	CueLock Cue = iota
	CueClear
	CueReset
)

func (c Cue) String() string {
	switch c {
	case CueLock:
		return "lock"
	case CueClear:
		return "clear"
	case CueReset:
		return "reset"
	}
	return fmt.Sprintf("Cue(%d)", uint8(c))
}

type note struct {
	freq     float64
	duration time.Duration
}

const (
	lockNote  = 40 * time.Millisecond
	clearNote = 60 * time.Millisecond
	resetNote = 120 * time.Millisecond
)

// notes returns the melody for a cue. Clears climb one note per row.
func notes(c Cue, rows int) []note {
	switch c {
	case CueLock:
		return []note{{220, lockNote}}
	case CueClear:
		out := make([]note, 0, rows)
		for i := range max(rows, 1) {
			out = append(out, note{660 * math.Pow(2, float64(i)/4), clearNote})
		}
		return out
	case CueReset:
		return []note{{440, resetNote}, {330, resetNote}, {220, resetNote}}
	}
	return nil
}

// Streamer renders a cue at the given volume (1 = unity gain). rows only
// matters for CueClear.
func Streamer(c Cue, rows int, volume float64) (beep.Streamer, error) {
	melody := notes(c, rows)
	if len(melody) == 0 {
		return nil, fmt.Errorf("render %s: no notes", c)
	}

	parts := make([]beep.Streamer, 0, len(melody))
	for _, n := range melody {
		tone, err := generators.SineTone(SampleRate, n.freq)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", c, err)
		}
		parts = append(parts, beep.Take(SampleRate.N(n.duration), tone))
	}
	return withVolume(beep.Seq(parts...), volume), nil
}

// Length returns the number of samples a cue lasts.
func Length(c Cue, rows int) int {
	total := 0
	for _, n := range notes(c, rows) {
		total += SampleRate.N(n.duration)
	}
	return total
}

func withVolume(s beep.Streamer, volume float64) beep.Streamer {
	if volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(volume)}
}

// Player plays streamers. The speaker package satisfies it through
// SpeakerPlayer.
type Player interface {
	Play(s ...beep.Streamer)
}

// Cues is a game.Listener that plays a tone for locks, clears and resets.
type Cues struct {
	player Player
	volume float64
	// OnError receives render failures. Nil drops them.
	OnError func(error)
}

// NewCues plays event cues through p.
func NewCues(p Player, volume float64) *Cues {
	return &Cues{player: p, volume: volume}
}

func (c *Cues) OnEvent(ev game.Event) {
	var (
		cue  Cue
		rows int
	)
	switch ev.Type {
	case game.EventLocked:
		cue = CueLock
	case game.EventCleared:
		cue, rows = CueClear, len(ev.Rows)
	case game.EventReset:
		cue = CueReset
	default:
		return
	}

	s, err := Streamer(cue, rows, c.volume)
	if err != nil {
		if c.OnError != nil {
			c.OnError(err)
		}
		return
	}
	c.player.Play(s)
}
