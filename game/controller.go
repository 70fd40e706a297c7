// Package game drives a single falling-block session: it owns the board and
// the active piece and applies player and gravity commands to them.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/piece"
	"github.com/sirupsen/logrus"
)

// Controller owns the board and the active piece. It is not safe for
// concurrent use; callers serialize commands on one goroutine.
type Controller struct {
	board     *board.Board
	active    *piece.Active
	rng       *rand.Rand
	log       logrus.FieldLogger
	listeners []Listener
}

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source used to draw spawned pieces.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = rng
	}
}

// WithLogger sets the logger. The standard logrus logger is used otherwise.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// WithListener registers a listener before the first piece is spawned, so
// it also observes the initial spawn.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, l)
	}
}

// WithBoard replaces the default empty board. It panics when CheckBoard
// rejects b.
func WithBoard(b *board.Board) Option {
	if err := CheckBoard(b); err != nil {
		panic("game: " + err.Error())
	}
	return func(c *Controller) {
		c.board = b
	}
}

// ErrBoardTooSmall reports a board on which some spawn placement cannot fit.
var ErrBoardTooSmall = errors.New("board too small")

// CheckBoard reports whether every kind in every spawn rotation fits on an
// empty board with the dimensions of b.
func CheckBoard(b *board.Board) error {
	empty := board.New(b.Width(), b.Height())
	for _, kind := range piece.Kinds() {
		for turns := range 4 {
			if !empty.Fits(spawnPiece(empty, kind, turns)) {
				return fmt.Errorf("%w: %dx%d cannot place %s with %d turns",
					ErrBoardTooSmall, b.Width(), b.Height(), kind, turns)
			}
		}
	}
	return nil
}

// NewRand returns a PCG source seeded with seed, or with a random seed when
// seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// New creates a controller with an empty board and spawns the first piece.
func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	if c.board == nil {
		c.board = board.NewDefault()
	}
	if c.rng == nil {
		c.rng = NewRand(0)
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}

	c.Spawn()
	return c
}

// Board returns the live board. Callers must not mutate it.
func (c *Controller) Board() *board.Board {
	return c.board
}

// Active returns a copy of the active piece.
func (c *Controller) Active() *piece.Active {
	return c.active.Clone()
}

// Subscribe registers a listener for subsequent events.
func (c *Controller) Subscribe(l Listener) {
	c.listeners = append(c.listeners, l)
}

// SpawnRow is the origin row used for newly spawned pieces.
func (c *Controller) SpawnRow() int {
	return spawnRow(c.board)
}

func spawnRow(b *board.Board) int {
	return b.Height() - 3
}

// spawnPiece builds kind at the spawn position of b, turned by turns
// quarter-turns.
func spawnPiece(b *board.Board, kind piece.Kind, turns int) *piece.Active {
	p := piece.New(kind)
	p.X = b.Width()/2 - p.Width/2
	p.Y = spawnRow(b)
	p.Rotate(turns)
	return p
}

// Spawn places a random kind with a random number of quarter-turns. When the
// placement does not fit, the board is wiped and a fresh piece is drawn.
// Spawn reports whether the board was reset.
func (c *Controller) Spawn() bool {
	reset := false
	for !c.place(piece.Kind(c.rng.IntN(piece.KindCount)), c.rng.IntN(4)) {
		c.reset(reset)
		reset = true
	}
	return reset
}

// SpawnKind places the given kind turned by turns quarter-turns. On failure
// it wipes the board and retries the same placement.
func (c *Controller) SpawnKind(kind piece.Kind, turns int) bool {
	if c.place(kind, turns) {
		return false
	}
	c.reset(false)
	if !c.place(kind, turns) {
		panic("game: spawn does not fit on an empty board")
	}
	return true
}

func (c *Controller) place(kind piece.Kind, turns int) bool {
	p := spawnPiece(c.board, kind, turns)
	if !c.board.Fits(p) {
		return false
	}
	c.active = p
	c.emit(Event{Type: EventSpawned, Kind: kind})
	return true
}

// reset wipes the board after a failed spawn. A second consecutive failure
// means nothing fits on an empty board.
func (c *Controller) reset(again bool) {
	if again {
		panic("game: spawn does not fit on an empty board")
	}
	c.log.WithField("occupied", c.board.Occupied()).Info("spawn blocked, resetting board")
	c.emit(Event{Type: EventReset})
	c.board.Clear()
}

// Rotate turns the active piece one quarter-turn.
func (c *Controller) Rotate() Outcome {
	return c.try(func(p *piece.Active) {
		p.Rotate(3)
	})
}

// Move shifts the active piece one column in the direction of sign. A zero
// sign is a no-op that still validates.
func (c *Controller) Move(sign int) Outcome {
	dx := 0
	switch {
	case sign > 0:
		dx = 1
	case sign < 0:
		dx = -1
	}
	return c.try(func(p *piece.Active) {
		p.Translate(dx, 0)
	})
}

// Tick moves the active piece down one row. If it cannot descend it is
// locked into the board, full rows are cleared and the next piece spawns.
func (c *Controller) Tick() Outcome {
	if c.try(func(p *piece.Active) { p.Translate(0, -1) }) == Applied {
		return Applied
	}
	c.lock()
	return Locked
}

// try runs change against a copy of the active piece and commits the copy
// only if it fits.
func (c *Controller) try(change func(*piece.Active)) Outcome {
	candidate := c.active.Clone()
	change(candidate)
	if !c.board.Fits(candidate) {
		return Rejected
	}
	c.active = candidate
	return Applied
}

func (c *Controller) lock() {
	p := c.active
	c.board.Merge(p)

	log := c.log.WithFields(logrus.Fields{
		"kind": p.Kind,
		"x":    p.X,
		"y":    p.Y,
	})
	log.Debug("piece locked")
	c.emit(Event{Type: EventLocked, Kind: p.Kind})

	if rows := c.board.FullRows(p); len(rows) > 0 {
		c.board.RemoveRows(rows)
		log.WithField("rows", rows).Debug("rows cleared")
		c.emit(Event{Type: EventCleared, Kind: p.Kind, Rows: rows})
	}

	c.Spawn()
}

func (c *Controller) emit(ev Event) {
	for _, l := range c.listeners {
		l.OnEvent(ev)
	}
}

// Check verifies the state invariants: the active piece fits the board and
// no full row survived a lock.
func (c *Controller) Check() error {
	if !c.board.Fits(c.active) {
		return fmt.Errorf("active %s at (%d,%d) rotation %d does not fit", c.active.Kind, c.active.X, c.active.Y, c.active.Rotation)
	}
	for y := range c.board.Height() {
		if c.board.IsRowFull(y) {
			return fmt.Errorf("row %d is full", y)
		}
		if len(c.board.Row(y)) != c.board.Width() {
			return fmt.Errorf("row %d has %d cells, want %d", y, len(c.board.Row(y)), c.board.Width())
		}
	}
	return nil
}
