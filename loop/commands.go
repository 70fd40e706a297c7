package loop

import (
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
)

// Commands buffers player actions and callbacks raised while systems run.
// They are applied in order once every system of the frame has executed.
type Commands struct {
	actions []input.Action
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// Queue defers an action until the end of the frame.
func (c *Commands) Queue(a input.Action) {
	c.actions = append(c.actions, a)
}

// Defer queues a function to run after the frame's actions.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of pending entries.
func (c *Commands) Len() int {
	return len(c.actions) + len(c.defers)
}

// Flush applies every queued action to g, then runs the deferred functions.
// The buffers are detached first, so anything queued or deferred during the
// flush is kept for the next one.
func (c *Commands) Flush(g *game.Controller) []game.Outcome {
	actions, defers := c.actions, c.defers
	c.actions, c.defers = nil, nil

	var outcomes []game.Outcome
	for _, a := range actions {
		outcomes = append(outcomes, input.Apply(g, a))
	}
	for _, fn := range defers {
		fn()
	}
	return outcomes
}
