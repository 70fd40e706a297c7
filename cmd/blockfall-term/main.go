// Command blockfall-term plays the game in a terminal. Arrow keys rotate,
// move and drop; Escape, q or Ctrl-C quits. Logs go to a rotating file
// because the screen owns stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/logging"
	"github.com/plus3/blockfall/loop"
	"github.com/sirupsen/logrus"
)

var keyActions = map[tcell.Key]input.Action{
	tcell.KeyUp:    input.Rotate,
	tcell.KeyLeft:  input.MoveLeft,
	tcell.KeyRight: input.MoveRight,
	tcell.KeyDown:  input.SoftDrop,
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("blockfall-term", args)
	if err != nil {
		return err
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), "blockfall-term.log")
	}
	logger, closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel(), File: logFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	stats := game.NewStats()
	opts := []game.Option{
		game.WithRand(game.NewRand(cfg.Seed)),
		game.WithLogger(logger),
		game.WithListener(stats),
	}

	if cfg.Audio.Enabled {
		player, err := audio.OpenSpeaker()
		if err != nil {
			// non-fatal, the game runs without sound
			logger.WithError(err).Warn("audio disabled")
		} else {
			defer player.Close()
			cues := audio.NewCues(player, 0.5)
			cues.OnError = func(err error) { logger.WithError(err).Warn("cue") }
			opts = append(opts, game.WithListener(cues))
		}
	}

	state := game.New(opts...)

	scheduler := loop.NewScheduler(state)
	scheduler.SetLogger(logger)
	scheduler.Register(&loop.GravitySystem{Rate: cfg.Gravity.Rate})
	scheduler.Register(&loop.RenderSystem{Renderer: newView(screen, stats)})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	actions := make(chan input.Action, 16)
	go pollEvents(screen, actions, scheduler)

	logger.WithFields(logrus.Fields{
		"gravity": cfg.Gravity.Rate,
		"fps":     cfg.Render.FPS,
	}).Info("starting")

	scheduler.Run(ctx, time.Second/time.Duration(cfg.Render.FPS), actions)

	logger.WithFields(logrus.Fields{
		"locks":  stats.Locks,
		"rows":   stats.Rows,
		"resets": stats.Resets,
	}).Info("finished")
	return nil
}

// pollEvents forwards key presses as actions until the screen is finalized
// or the player quits.
func pollEvents(screen tcell.Screen, actions chan<- input.Action, scheduler *loop.Scheduler) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				scheduler.Stop()
				close(actions)
				return
			}
			if action, ok := keyActions[ev.Key()]; ok {
				select {
				case actions <- action:
				default:
				}
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}
