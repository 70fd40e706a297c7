package game_test

import (
	"math/rand/v2"
	"testing"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []game.Event
}

func (r *recorder) OnEvent(ev game.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) types() []game.EventType {
	types := make([]game.EventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}

func newController(t *testing.T, opts ...game.Option) (*game.Controller, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts = append([]game.Option{
		game.WithRand(rand.New(rand.NewPCG(1, 2))),
		game.WithLogger(logger),
	}, opts...)
	return game.New(opts...), hook
}

// drop ticks until the active piece locks and returns the number of rows it
// descended.
func drop(t *testing.T, c *game.Controller) int {
	t.Helper()
	for rows := 0; rows <= c.Board().Height(); rows++ {
		if c.Tick() == game.Locked {
			return rows
		}
	}
	t.Fatal("piece never locked")
	return 0
}

func TestNewSpawnsOnEmptyBoard(t *testing.T) {
	rec := &recorder{}
	c, _ := newController(t, game.WithListener(rec))

	require.Len(t, rec.events, 1)
	assert.Equal(t, game.EventSpawned, rec.events[0].Type)
	assert.Equal(t, 0, c.Board().Occupied())
	assert.True(t, c.Board().Fits(c.Active()))
}

func TestSpawnOnEmptyBoardNeverResets(t *testing.T) {
	c, _ := newController(t)
	for _, kind := range piece.Kinds() {
		for turns := range 4 {
			assert.False(t, c.SpawnKind(kind, turns), "kind %s turns %d", kind, turns)
			p := c.Active()
			assert.Equal(t, kind, p.Kind)
			assert.Equal(t, turns%4, p.Rotation)
		}
	}

	for range 200 {
		require.False(t, c.Spawn())
	}
}

func TestSpawnPlacement(t *testing.T) {
	c, _ := newController(t)

	c.SpawnKind(piece.I, 0)
	p := c.Active()
	assert.Equal(t, 3, p.X)
	assert.Equal(t, 17, p.Y)
	assert.Equal(t, 17, c.SpawnRow())

	c.SpawnKind(piece.O, 0)
	p = c.Active()
	assert.Equal(t, 4, p.X)
	assert.Equal(t, 17, p.Y)
	assert.Equal(t, 0, p.Rotation)
}

func TestSeededSpawnsAreReproducible(t *testing.T) {
	kinds := func() []piece.Kind {
		rec := &recorder{}
		c := game.New(
			game.WithRand(rand.New(rand.NewPCG(7, 7))),
			game.WithLogger(logrus.New()),
			game.WithListener(rec),
		)
		for range 20 {
			c.Spawn()
		}
		out := make([]piece.Kind, len(rec.events))
		for i, ev := range rec.events {
			out[i] = ev.Kind
		}
		return out
	}
	assert.Equal(t, kinds(), kinds())
}

func TestMoveAtRightWall(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.O, 0)

	for c.Move(+1) == game.Applied {
	}
	p := c.Active()
	assert.Equal(t, board.Width-2, p.X)

	assert.Equal(t, game.Rejected, c.Move(+1))
	assert.Equal(t, p, c.Active())
}

func TestMoveUsesSignOnly(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.O, 0)

	assert.Equal(t, game.Applied, c.Move(5))
	assert.Equal(t, 5, c.Active().X)
	assert.Equal(t, game.Applied, c.Move(-7))
	assert.Equal(t, 4, c.Active().X)
}

func TestMoveAtLeftWall(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.I, 0)

	for range 3 {
		require.Equal(t, game.Applied, c.Move(-1))
	}
	before := c.Active()
	assert.Equal(t, 0, before.X)
	assert.Equal(t, game.Rejected, c.Move(-1))
	assert.Equal(t, before, c.Active())
}

func TestRotateRejectedLeavesPiece(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.I, 0)

	// the vertical I would cover column 4 from row 16
	c.Board().Set(4, 16, piece.ColorRed)
	before := c.Active()
	assert.Equal(t, game.Rejected, c.Rotate())
	assert.Equal(t, before, c.Active())
}

func TestRotateFourTimesRestores(t *testing.T) {
	for _, kind := range []piece.Kind{piece.I, piece.T, piece.S} {
		t.Run(kind.String(), func(t *testing.T) {
			c, _ := newController(t)
			c.SpawnKind(kind, 0)
			start := c.Active()

			for range 4 {
				require.Equal(t, game.Applied, c.Rotate())
			}
			assert.Equal(t, start, c.Active())
		})
	}
}

func TestRotateIsThreeSteps(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.I, 0)
	require.Equal(t, game.Applied, c.Rotate())

	p := c.Active()
	assert.Equal(t, 3, p.Rotation)
	assert.Equal(t, 4, p.X)
	assert.Equal(t, 16, p.Y)
	assert.Equal(t, 1, p.Width)
	assert.Equal(t, 4, p.Height)
}

func TestTickDescendsThenLocks(t *testing.T) {
	rec := &recorder{}
	c, hook := newController(t, game.WithListener(rec))
	c.SpawnKind(piece.O, 0)
	rec.events = nil

	assert.Equal(t, game.Applied, c.Tick())
	assert.Equal(t, 16, c.Active().Y)

	assert.Equal(t, 16, drop(t, c))
	assert.Equal(t, 4, c.Board().Occupied())
	assert.Equal(t, piece.ColorYellow, c.Board().Cell(4, 0))
	assert.Equal(t, piece.ColorYellow, c.Board().Cell(5, 1))

	assert.Equal(t, []game.EventType{game.EventLocked, game.EventSpawned}, rec.types())
	assert.Equal(t, piece.O, rec.events[0].Kind)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "piece locked", hook.Entries[0].Message)
	assert.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
}

func TestTwoLocksClearRowZero(t *testing.T) {
	b := board.NewDefault()
	b.Set(8, 0, piece.ColorRed)
	b.Set(9, 0, piece.ColorRed)
	b.Set(9, 1, piece.ColorBlue)

	rec := &recorder{}
	stats := game.NewStats()
	c, _ := newController(t, game.WithBoard(b), game.WithListener(rec), game.WithListener(stats))

	c.SpawnKind(piece.I, 0)
	for range 3 {
		require.Equal(t, game.Applied, c.Move(-1))
	}
	drop(t, c)
	require.False(t, b.IsRowFull(0))
	require.Equal(t, 7, b.Occupied())

	rec.events = nil
	c.SpawnKind(piece.I, 0)
	require.Equal(t, game.Applied, c.Move(+1))
	drop(t, c)

	var cleared []game.Event
	for _, ev := range rec.events {
		if ev.Type == game.EventCleared {
			cleared = append(cleared, ev)
		}
	}
	require.Len(t, cleared, 1)
	assert.Equal(t, []int{0}, cleared[0].Rows)

	assert.Equal(t, 1, b.Occupied())
	assert.Equal(t, piece.ColorBlue, b.Cell(9, 0))
	assert.Equal(t, 1, stats.Rows)
	assert.Equal(t, 1, stats.Clears(1))
	assert.Equal(t, 2, stats.Locks)
}

func TestBlockedSpawnResetsBoard(t *testing.T) {
	b := board.NewDefault()
	fillTop := func() {
		for y := 14; y < b.Height(); y++ {
			for x := range b.Width() {
				b.Set(x, y, piece.ColorGreen)
			}
		}
	}
	fillTop()

	rec := &recorder{}
	stats := game.NewStats()
	c, hook := newController(t, game.WithBoard(b), game.WithListener(rec), game.WithListener(stats))

	assert.Equal(t, []game.EventType{game.EventReset, game.EventSpawned}, rec.types())
	assert.Equal(t, 0, b.Occupied())
	assert.Equal(t, 1, stats.Resets)
	assert.Equal(t, "spawn blocked, resetting board", hook.Entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, hook.Entries[0].Level)

	fillTop()
	rec.events = nil
	assert.True(t, c.SpawnKind(piece.T, 0))
	assert.Equal(t, []game.EventType{game.EventReset, game.EventSpawned}, rec.types())
	assert.Equal(t, piece.T, c.Active().Kind)
	assert.Equal(t, 0, b.Occupied())
	assert.Equal(t, 2, stats.Resets)

	fillTop()
	assert.True(t, c.Spawn())
	assert.Equal(t, 0, b.Occupied())
}

func TestLockTriggersResetWhenStackReachesSpawn(t *testing.T) {
	rec := &recorder{}
	c, _ := newController(t, game.WithListener(rec))
	c.SpawnKind(piece.O, 0)

	// stack every column but the last, leaving room only for the O
	b := c.Board()
	for y := range b.Height() {
		for x := range b.Width() - 1 {
			if (y == 17 || y == 18) && (x == 4 || x == 5) {
				continue
			}
			b.Set(x, y, piece.ColorRed)
		}
	}
	rec.events = nil

	assert.Equal(t, game.Locked, c.Tick())
	assert.Equal(t, []game.EventType{game.EventLocked, game.EventReset, game.EventSpawned}, rec.types())
	assert.Equal(t, 0, b.Occupied())
}

func TestActiveReturnsCopy(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.L, 0)

	p := c.Active()
	p.X = 0
	p.Shape[0][0] = !p.Shape[0][0]
	assert.NotEqual(t, p, c.Active())
}

func TestNewRand(t *testing.T) {
	a, b := game.NewRand(42), game.NewRand(42)
	for range 10 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	assert.NotNil(t, game.NewRand(0))
}

func TestCheck(t *testing.T) {
	c, _ := newController(t)
	c.SpawnKind(piece.O, 0)
	require.NoError(t, c.Check())

	for x := range c.Board().Width() {
		c.Board().Set(x, 3, piece.ColorRed)
	}
	assert.ErrorContains(t, c.Check(), "row 3 is full")

	c.Board().Clear()
	c.Board().Set(4, 17, piece.ColorRed)
	assert.ErrorContains(t, c.Check(), "does not fit")
}

func TestCheckBoard(t *testing.T) {
	require.NoError(t, game.CheckBoard(board.NewDefault()))

	err := game.CheckBoard(board.New(3, 20))
	assert.ErrorIs(t, err, game.ErrBoardTooSmall)
	assert.ErrorContains(t, err, "3x20 cannot place I with 0 turns")

	assert.ErrorIs(t, game.CheckBoard(board.New(10, 2)), game.ErrBoardTooSmall)

	assert.Panics(t, func() { game.WithBoard(board.New(3, 20)) })
	assert.NotPanics(t, func() { game.WithBoard(board.New(10, 20)) })
}
