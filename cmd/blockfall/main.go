// Command blockfall plays the game in an Ebiten window. Arrow keys rotate,
// move and drop; Q or Escape quits.
package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/audio"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/debugui"
	debugui_ebiten "github.com/plus3/blockfall/debugui/ebiten"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/logging"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/render"
	"github.com/sirupsen/logrus"
)

var background = color.RGBA{128, 128, 128, 255}

var keyActions = map[ebiten.Key]input.Action{
	ebiten.KeyArrowUp:    input.Rotate,
	ebiten.KeyArrowLeft:  input.MoveLeft,
	ebiten.KeyArrowRight: input.MoveRight,
	ebiten.KeyArrowDown:  input.SoftDrop,
}

type Game struct {
	Scheduler    *loop.Scheduler
	Overlay      *debugui.Overlay
	ImguiBackend *debugui_ebiten.ImguiBackend
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.Scheduler.Stop()
		return ebiten.Termination
	}

	if g.ImguiBackend != nil {
		g.ImguiBackend.BeginFrame()
	}

	if g.Overlay == nil || !g.Overlay.Input.WantCaptureKeyboard {
		for key, action := range keyActions {
			if inpututil.IsKeyJustPressed(key) {
				g.Scheduler.Queue(action)
			}
		}
	}

	g.Scheduler.Once(1.0 / float64(ebiten.TPS()))

	if g.ImguiBackend != nil {
		g.ImguiBackend.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	state := g.Scheduler.Game()
	bounds := screen.Bounds()
	for _, r := range render.Rects(state.Board(), state.Active(), bounds.Dx(), bounds.Dy()) {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), r.Color.RGBA(), false)
	}

	if g.ImguiBackend != nil {
		g.ImguiBackend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.ImguiBackend != nil {
		g.ImguiBackend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("blockfall", args)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel(), File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close()

	stats := game.NewStats()
	opts := []game.Option{
		game.WithRand(game.NewRand(cfg.Seed)),
		game.WithLogger(logger),
		game.WithListener(stats),
	}

	if cfg.Audio.Enabled {
		player, err := audio.OpenSpeaker()
		if err != nil {
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

	g := &Game{Scheduler: scheduler}

	ebiten.SetTPS(cfg.Render.FPS)
	ebiten.SetWindowTitle("blockfall")
	if cfg.Debug.UI {
		g.ImguiBackend = debugui_ebiten.New("blockfall", cfg.Window.Width, cfg.Window.Height)
		g.Overlay = debugui.NewDefaultOverlay(scheduler, stats)
		scheduler.Register(g.Overlay)
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	}

	logger.WithFields(logrus.Fields{
		"gravity": cfg.Gravity.Rate,
		"fps":     cfg.Render.FPS,
		"debugui": cfg.Debug.UI,
	}).Info("starting")

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
