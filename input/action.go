// Package input maps player actions onto game controller commands.
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plus3/blockfall/game"
)

// Action is one of the four player commands.
type Action uint8

const (
	Rotate Action = iota
	MoveLeft
	MoveRight
	SoftDrop
)

// ErrUnknownAction is returned by ParseAction for unrecognized names.
var ErrUnknownAction = errors.New("unknown action")

var actionNames = [...]string{"rotate", "left", "right", "drop"}

var aliases = map[string]Action{
	"rotate":     Rotate,
	"up":         Rotate,
	"left":       MoveLeft,
	"move-left":  MoveLeft,
	"right":      MoveRight,
	"move-right": MoveRight,
	"drop":       SoftDrop,
	"down":       SoftDrop,
	"soft-drop":  SoftDrop,
}

// Actions lists every action in declaration order.
func Actions() []Action {
	return []Action{Rotate, MoveLeft, MoveRight, SoftDrop}
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction resolves an action name. Matching ignores case and
// surrounding whitespace.
func ParseAction(name string) (Action, error) {
	a, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("parse action %q: %w", name, ErrUnknownAction)
	}
	return a, nil
}

// Target is the set of commands an action can drive. *game.Controller
// implements it.
type Target interface {
	Rotate() game.Outcome
	Move(sign int) game.Outcome
	Tick() game.Outcome
}

// Apply runs the command bound to a. Unknown actions are rejected.
func Apply(t Target, a Action) game.Outcome {
	switch a {
	case Rotate:
		return t.Rotate()
	case MoveLeft:
		return t.Move(-1)
	case MoveRight:
		return t.Move(+1)
	case SoftDrop:
		return t.Tick()
	}
	return game.Rejected
}
