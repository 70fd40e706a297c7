// Package loop runs frame systems against a game controller: gravity on a
// fixed cadence, rendering every frame, and player actions in between.
package loop

import (
	"context"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/sirupsen/logrus"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          int64
	Actions         int64
	// Outcomes counts applied actions by result, indexed by game.Outcome.
	Outcomes        [game.Locked + 1]int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Scheduler executes systems in registration order against one controller.
// Once and Run must be called from a single goroutine; Stop may be called
// from any goroutine.
type Scheduler struct {
	game        *game.Controller
	commands    *Commands
	systems     []System
	systemStats []*systemStatsInternal
	frames      int64
	actions     int64
	outcomes    [game.Locked + 1]int64
	stopped     atomic.Bool
	log         logrus.FieldLogger
}

// NewScheduler creates a scheduler driving g.
func NewScheduler(g *game.Controller) *Scheduler {
	return &Scheduler{
		game:     g,
		commands: newCommands(),
		systems:  make([]System, 0),
		log:      logrus.StandardLogger(),
	}
}

// SetLogger replaces the scheduler's logger.
func (s *Scheduler) SetLogger(log logrus.FieldLogger) {
	s.log = log
}

// Game returns the driven controller.
func (s *Scheduler) Game() *game.Controller {
	return s.game
}

// Register appends a system. Systems run in registration order.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Queue buffers an action to be applied at the end of the next frame.
func (s *Scheduler) Queue(a input.Action) {
	s.commands.Queue(a)
}

// Once executes all registered systems once with the given delta time, then
// flushes queued commands. It does nothing after Stop.
func (s *Scheduler) Once(dt float64) {
	if s.Stopped() {
		return
	}

	frame := newFrame(dt, s.game, s.commands)
	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}
	s.frames++

	for _, outcome := range s.commands.Flush(s.game) {
		s.record(outcome)
	}
}

func (s *Scheduler) record(outcome game.Outcome) {
	s.actions++
	if int(outcome) < len(s.outcomes) {
		s.outcomes[outcome]++
	}
}

// Apply runs an action immediately, outside of a frame.
func (s *Scheduler) Apply(a input.Action) game.Outcome {
	if s.Stopped() {
		return game.Rejected
	}
	outcome := input.Apply(s.game, a)
	s.record(outcome)
	return outcome
}

// Run executes all systems at the given interval until the context is
// cancelled or Stop is called. Actions received on the channel are applied
// between frames and followed by a zero-length frame so renderers observe
// the change immediately. A nil channel disables input.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration, actions <-chan input.Action) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithField("interval", interval).Debug("scheduler started")
	defer s.log.Debug("scheduler stopped")

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			if s.Stopped() {
				return
			}
			s.Apply(a)
			s.Once(0)
		case now := <-ticker.C:
			if s.Stopped() {
				return
			}
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Stop sets the shared stop flag. Further frames and actions are ignored
// and Run returns at its next wakeup.
func (s *Scheduler) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.stopped.Load()
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Actions:     s.actions,
		Outcomes:    s.outcomes,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
