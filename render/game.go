package render

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/plus3/ecstour/app"
	"github.com/plus3/ecstour/ecs"
	"github.com/plus3/ecstour/ecs/debugui"
	debugui_ebiten "github.com/plus3/ecstour/ecs/debugui/ebiten"
)

// Options configures the window a Game runs in.
type Options struct {
	Title     string
	Width     int
	Height    int
	AssetsDir string
	DebugUI   bool
	MaxFrames uint64
}

// Game implements ebiten.Game for an app.App. Update advances the app by the
// wall time since the previous update; Draw runs the render systems against
// the screen.
type Game struct {
	app     *app.App
	draw    *ecs.Scheduler
	overlay *debugui_ebiten.ImguiBackend
	logger  zerolog.Logger
	opts    Options

	ctx  context.Context
	last time.Time
}

// NewGame prepares the render systems for a. With DebugUI set it also creates
// the Dear ImGui window and installs the debug windows; otherwise the window
// is configured through ebiten directly.
func NewGame(a *app.App, opts Options) (*Game, error) {
	src, err := NewFaceSource()
	if err != nil {
		return nil, err
	}

	logger := a.Logger().With().Str("component", "render").Logger()

	g := &Game{
		app:    a,
		draw:   ecs.NewScheduler(a.Storage(), ecs.WithLogger(logger)),
		logger: logger,
		opts:   opts,
		ctx:    context.Background(),
	}

	ecs.NewSingleton[Screen](a.Storage())
	g.draw.Register(&ClearSystem{})
	g.draw.Register(&SpriteSystem{AssetsDir: opts.AssetsDir, Logger: &g.logger})
	g.draw.Register(&TextSystem{Source: src})

	if opts.DebugUI {
		g.overlay = debugui_ebiten.NewImguiBackend(opts.Title, opts.Width, opts.Height)
		debugui.Install(a.Registry(), a.Scheduler())
	} else {
		ebiten.SetWindowSize(opts.Width, opts.Height)
		ebiten.SetWindowTitle(opts.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return g, nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if g.opts.MaxFrames > 0 && g.app.Scheduler().Frames() >= g.opts.MaxFrames {
		return ebiten.Termination
	}

	now := time.Now()
	dt := 1.0 / float64(ebiten.TPS())
	if !g.last.IsZero() {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now

	if g.overlay != nil {
		g.overlay.BeginFrame()
		defer g.overlay.EndFrame()
	}
	g.app.Update(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	var target *Screen
	if g.app.Storage().ReadSingleton(&target) {
		target.Image = screen
	}
	g.draw.Once(0)

	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and drives a until the window closes, ctx is cancelled
// or a background task fails.
func Run(ctx context.Context, a *app.App, opts Options) error {
	g, err := NewGame(a, opts)
	if err != nil {
		return err
	}

	return a.RunWith(ctx, func(ctx context.Context) error {
		g.ctx = ctx
		if err := ebiten.RunGame(g); err != nil {
			return eris.Wrap(err, "game loop failed")
		}
		g.logger.Debug().Uint64("frames", a.Scheduler().Frames()).Msg("window closed")
		return nil
	})
}
