package loop_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/plus3/blockfall/board"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/piece"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGame returns a controller whose active piece is an unrotated O at the
// spawn position (4, 17).
func newGame(t *testing.T) *game.Controller {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	g := game.New(
		game.WithRand(rand.New(rand.NewPCG(3, 4))),
		game.WithLogger(logger),
	)
	g.SpawnKind(piece.O, 0)
	return g
}

type countingSystem struct {
	ExecuteCount int
	TotalTime    float64
	sleepDur     time.Duration
}

func (s *countingSystem) Execute(frame *loop.Frame) {
	s.ExecuteCount++
	s.TotalTime += frame.DeltaTime
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
}

type orderSystem struct {
	name string
	log  *[]string
}

func (s *orderSystem) Execute(frame *loop.Frame) {
	*s.log = append(*s.log, s.name)
}

func TestScheduler(t *testing.T) {
	t.Run("system execution order", func(t *testing.T) {
		scheduler := loop.NewScheduler(newGame(t))

		var order []string
		scheduler.Register(&orderSystem{name: "first", log: &order})
		scheduler.Register(&orderSystem{name: "second", log: &order})

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, []string{"first", "second", "first", "second"}, order)
	})

	t.Run("custom state persistence", func(t *testing.T) {
		scheduler := loop.NewScheduler(newGame(t))
		counter := &countingSystem{}
		scheduler.Register(counter)

		scheduler.Once(0.25)
		scheduler.Once(0.5)

		if counter.ExecuteCount != 2 {
			t.Errorf("expected 2 executions, got %d", counter.ExecuteCount)
		}
		if counter.TotalTime != 0.75 {
			t.Errorf("expected TotalTime=0.75, got %f", counter.TotalTime)
		}
	})

	t.Run("context cancellation in run", func(t *testing.T) {
		scheduler := loop.NewScheduler(newGame(t))
		counter := &countingSystem{}
		scheduler.Register(counter)

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool)
		go func() {
			scheduler.Run(ctx, 1*time.Millisecond, nil)
			done <- true
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("scheduler did not stop after context cancellation")
		}

		if counter.ExecuteCount == 0 {
			t.Error("expected system to execute at least once")
		}
	})

	t.Run("stop flag ends run", func(t *testing.T) {
		scheduler := loop.NewScheduler(newGame(t))
		counter := &countingSystem{}
		scheduler.Register(counter)

		done := make(chan bool)
		go func() {
			scheduler.Run(context.Background(), 1*time.Millisecond, nil)
			done <- true
		}()

		time.Sleep(5 * time.Millisecond)
		scheduler.Stop()

		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("scheduler did not stop after Stop")
		}

		count := counter.ExecuteCount
		scheduler.Once(1.0)
		assert.True(t, scheduler.Stopped())
		assert.Equal(t, count, counter.ExecuteCount, "Once is a no-op after Stop")
		assert.Equal(t, game.Rejected, scheduler.Apply(input.MoveLeft))
	})

	t.Run("actions applied between frames", func(t *testing.T) {
		g := newGame(t)
		scheduler := loop.NewScheduler(g)

		var seen []int
		scheduler.Register(&loop.RenderSystem{Renderer: loop.RendererFunc(func(b *board.Board, p *piece.Active) {
			seen = append(seen, p.X)
		})})

		actions := make(chan input.Action)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan bool)
		go func() {
			scheduler.Run(ctx, time.Hour, actions)
			done <- true
		}()

		actions <- input.MoveRight
		actions <- input.MoveRight
		close(actions)
		cancel()
		<-done

		assert.Equal(t, 6, g.Active().X)
		assert.Equal(t, []int{5, 6}, seen)
		assert.EqualValues(t, 2, scheduler.GetStats().Actions)
	})

	t.Run("queued commands flush after systems", func(t *testing.T) {
		g := newGame(t)
		scheduler := loop.NewScheduler(g)

		var seen []int
		scheduler.Register(&loop.RenderSystem{Renderer: loop.RendererFunc(func(b *board.Board, p *piece.Active) {
			seen = append(seen, p.X)
		})})

		scheduler.Queue(input.MoveLeft)
		deferred := false
		scheduler.Register(systemFunc(func(frame *loop.Frame) {
			frame.Commands.Defer(func() { deferred = true })
		}))

		scheduler.Once(0)
		assert.Equal(t, []int{4}, seen, "renderer sees the state before the flush")
		assert.Equal(t, 3, g.Active().X)
		assert.True(t, deferred)

		scheduler.Once(0)
		assert.Equal(t, []int{4, 3}, seen)
	})

	t.Run("commands raised during a flush carry over", func(t *testing.T) {
		g := newGame(t)
		scheduler := loop.NewScheduler(g)

		frames := 0
		nested := false
		scheduler.Register(systemFunc(func(frame *loop.Frame) {
			frames++
			if frames == 1 {
				frame.Commands.Defer(func() {
					scheduler.Queue(input.MoveLeft)
					frame.Commands.Defer(func() { nested = true })
				})
			}
		}))

		scheduler.Once(0)
		assert.Equal(t, 4, g.Active().X)
		assert.False(t, nested)

		scheduler.Once(0)
		assert.Equal(t, 3, g.Active().X)
		assert.True(t, nested)
		assert.EqualValues(t, 1, scheduler.GetStats().Actions)
	})
}

type systemFunc func(frame *loop.Frame)

func (f systemFunc) Execute(frame *loop.Frame) {
	f(frame)
}

func TestGravitySystem(t *testing.T) {
	g := newGame(t)
	scheduler := loop.NewScheduler(g)
	gravity := &loop.GravitySystem{Rate: loop.DefaultGravityRate}
	scheduler.Register(gravity)

	scheduler.Once(0.3)
	assert.Equal(t, 17, g.Active().Y)
	assert.Equal(t, 0, gravity.Ticks)

	scheduler.Once(0.3)
	assert.Equal(t, 16, g.Active().Y)
	assert.Equal(t, 1, gravity.Ticks)
	assert.Equal(t, game.Applied, gravity.Last)

	// a long stall still yields a single tick
	scheduler.Once(5)
	assert.Equal(t, 15, g.Active().Y)
	assert.Equal(t, 2, gravity.Ticks)

	for range 16 {
		scheduler.Once(0.5)
	}
	assert.Equal(t, game.Locked, gravity.Last)
	assert.Equal(t, 4, g.Board().Occupied(), "the O locked on the floor")
}

func TestGravityExactPeriod(t *testing.T) {
	g := newGame(t)
	scheduler := loop.NewScheduler(g)
	gravity := &loop.GravitySystem{Rate: 1}
	scheduler.Register(gravity)

	for range 9 {
		scheduler.Once(0.1)
	}
	assert.Equal(t, 0, gravity.Ticks)

	scheduler.Once(0.1)
	assert.Equal(t, 1, gravity.Ticks, "ten frames of 0.1s make one period")
	assert.Equal(t, 16, g.Active().Y)

	for range 10 {
		scheduler.Once(0.1)
	}
	assert.Equal(t, 2, gravity.Ticks)
}

func TestSchedulerOutcomes(t *testing.T) {
	g := newGame(t)
	scheduler := loop.NewScheduler(g)

	for range 5 {
		scheduler.Queue(input.MoveLeft)
	}
	scheduler.Once(0)
	require.Equal(t, 0, g.Active().X)
	assert.Equal(t, game.Applied, scheduler.Apply(input.SoftDrop))

	stats := scheduler.GetStats()
	assert.EqualValues(t, 6, stats.Actions)
	assert.EqualValues(t, 5, stats.Outcomes[game.Applied])
	assert.EqualValues(t, 1, stats.Outcomes[game.Rejected])
	assert.EqualValues(t, 0, stats.Outcomes[game.Locked])

	for scheduler.Apply(input.SoftDrop) != game.Locked {
	}
	assert.EqualValues(t, 1, scheduler.GetStats().Outcomes[game.Locked])
}

func TestGravityDisabled(t *testing.T) {
	g := newGame(t)
	scheduler := loop.NewScheduler(g)
	scheduler.Register(&loop.GravitySystem{})

	scheduler.Once(10)
	assert.Equal(t, 17, g.Active().Y)
}

func TestSchedulerStats(t *testing.T) {
	scheduler := loop.NewScheduler(newGame(t))

	stats := scheduler.GetStats()
	require.Equal(t, 0, stats.SystemCount)
	require.EqualValues(t, 0, stats.TotalExecutions)

	sys1 := &countingSystem{sleepDur: 1 * time.Millisecond}
	sys2 := &countingSystem{sleepDur: 2 * time.Millisecond}
	scheduler.Register(sys1)
	scheduler.Register(sys2)

	stats = scheduler.GetStats()
	if stats.SystemCount != 2 {
		t.Errorf("expected 2 systems, got %d", stats.SystemCount)
	}

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	stats = scheduler.GetStats()
	if stats.TotalExecutions != 6 {
		t.Errorf("expected 6 total executions (2 systems * 3 runs), got %d", stats.TotalExecutions)
	}
	assert.EqualValues(t, 3, stats.Frames)

	for _, sysStats := range stats.Systems {
		if sysStats.Name != "countingSystem" {
			t.Errorf("expected system name 'countingSystem', got '%s'", sysStats.Name)
		}
		if sysStats.ExecutionCount != 3 {
			t.Errorf("expected 3 executions, got %d", sysStats.ExecutionCount)
		}
		if sysStats.MinDuration == 0 || sysStats.LastDuration == 0 || sysStats.TotalDuration == 0 {
			t.Errorf("expected non-zero durations: %+v", sysStats)
		}
		if sysStats.MinDuration > sysStats.AvgDuration {
			t.Errorf("min duration (%v) should be <= avg duration (%v)", sysStats.MinDuration, sysStats.AvgDuration)
		}
		if sysStats.AvgDuration > sysStats.MaxDuration {
			t.Errorf("avg duration (%v) should be <= max duration (%v)", sysStats.AvgDuration, sysStats.MaxDuration)
		}
	}
}
