// Command blockfall-stress drives a headless game with random actions for a
// fixed duration, checks the state invariants after every step and prints a
// report.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/logging"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("blockfall-stress", pflag.ExitOnError)
	duration := flags.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	seed := flags.Uint64("seed", 0, "Piece and action seed (0 = random).")
	gravityEvery := flags.Int("gravity-every", 4, "Advance one gravity tick every N actions (0 disables).")
	gcPauseMetrics := flags.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flags.String("log-level", "info", "Log level.")
	_ = flags.Parse(os.Args[1:])

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, closer, err := logging.Setup(logging.Options{Level: level})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	logger.Info("starting stress test")

	rng := game.NewRand(*seed)
	stats := game.NewStats()
	state := game.New(
		game.WithRand(rng),
		game.WithLogger(logger),
		game.WithListener(stats),
	)

	scheduler := loop.NewScheduler(state)
	scheduler.SetLogger(logger)
	// each action advances the clock by 1/N seconds against a 1 Hz gravity
	gravity := &loop.GravitySystem{}
	step := 0.0
	if *gravityEvery > 0 {
		gravity.Rate = 1
		step = 1 / float64(*gravityEvery)
	}
	scheduler.Register(gravity)

	report := &Report{
		Duration:       *duration,
		Seed:           *seed,
		GravityEvery:   *gravityEvery,
		GCPauseMetrics: *gcPauseMetrics,
		Stats:          stats,
		Outcomes:       make(map[string]map[string]int64),
		UpdateTime: Samples{
			Samples: make([]time.Duration, 0),
		},
	}
	for _, a := range input.Actions() {
		report.Outcomes[a.String()] = make(map[string]int64)
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.WithField("duration", *duration).Info("running simulation")
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	actions := input.Actions()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			action := actions[rng.IntN(len(actions))]

			updateStart := time.Now()
			outcome := scheduler.Apply(action)
			scheduler.Once(step)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

			report.Outcomes[action.String()][outcome.String()]++
			report.TotalUpdates++

			if err := state.Check(); err != nil {
				report.Violations++
				logger.WithError(err).WithField("step", report.TotalUpdates).Error("invariant violated")
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.GravityTicks = gravity.Ticks
	report.FinalBoard = render.Text(state.Board(), state.Active())
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.WithError(err).Fatal("failed to generate report")
	}
	fmt.Println("--- End of Report ---")

	if report.Violations > 0 {
		closer.Close()
		os.Exit(1)
	}
}
