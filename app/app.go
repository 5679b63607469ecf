// Package app assembles an ECS storage, its scheduler and any background
// producers into a runnable application.
package app

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/ecstour/ecs"
)

// DefaultFrameInterval paces the headless loop at 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Plugin bundles a group of resources and systems.
type Plugin interface {
	Build(app *App)
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc func(app *App)

func (f PluginFunc) Build(app *App) {
	f(app)
}

// Task is a background goroutine that lives as long as the application runs.
// It must return when ctx is cancelled.
type Task func(ctx context.Context) error

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger handed to the scheduler and returned by Logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithFrameInterval sets the wall-time interval between headless frames.
func WithFrameInterval(interval time.Duration) Option {
	return func(a *App) {
		a.interval = interval
	}
}

// WithMaxFrames stops Run after n frames. Zero runs until the context is cancelled.
func WithMaxFrames(n uint64) Option {
	return func(a *App) {
		a.maxFrames = n
	}
}

// App owns the storage, scheduler and background tasks of one example.
type App struct {
	registry  *ecs.ComponentRegistry
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	logger    zerolog.Logger

	tasks     []namedTask
	plugins   map[reflect.Type]struct{}
	interval  time.Duration
	maxFrames uint64
}

type namedTask struct {
	name string
	run  Task
}

// New creates an empty application.
func New(opts ...Option) *App {
	a := &App{
		registry: ecs.NewComponentRegistry(),
		logger:   zerolog.Nop(),
		plugins:  make(map[reflect.Type]struct{}),
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.storage = ecs.NewStorage(a.registry)
	a.scheduler = ecs.NewScheduler(a.storage, ecs.WithLogger(a.logger))
	return a
}

// Registry returns the component registry backing the storage.
func (a *App) Registry() *ecs.ComponentRegistry {
	return a.registry
}

// Storage returns the application's ECS storage.
func (a *App) Storage() *ecs.Storage {
	return a.storage
}

// Scheduler returns the scheduler running the application's systems.
func (a *App) Scheduler() *ecs.Scheduler {
	return a.scheduler
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Register registers component type T with the application's registry.
func Register[T any](a *App) *App {
	ecs.RegisterComponent[T](a.registry)
	return a
}

// InsertResource stores value as the singleton of type T, replacing any previous value.
func InsertResource[T any](a *App, value T) *App {
	ecs.InsertSingleton(a.storage, value)
	return a
}

// AddStartup registers systems that run once, before the first update.
func (a *App) AddStartup(systems ...ecs.System) *App {
	for _, system := range systems {
		a.scheduler.RegisterStartup(system)
	}
	return a
}

// AddSystems registers systems that run every frame, in the given order.
func (a *App) AddSystems(systems ...ecs.System) *App {
	for _, system := range systems {
		a.scheduler.Register(system)
	}
	return a
}

// AddPlugin builds each plugin into the application. A plugin type is only
// built once; later additions of the same type are ignored.
func (a *App) AddPlugin(plugins ...Plugin) *App {
	for _, plugin := range plugins {
		typ := reflect.TypeOf(plugin)
		if _, ok := a.plugins[typ]; ok && typ.Kind() != reflect.Func {
			a.logger.Warn().Str("plugin", typ.String()).Msg("plugin already added")
			continue
		}
		a.plugins[typ] = struct{}{}
		plugin.Build(a)
		a.logger.Debug().Str("plugin", typ.String()).Msg("plugin built")
	}
	return a
}

// AddTask registers a background task started by Run.
func (a *App) AddTask(name string, task Task) *App {
	a.tasks = append(a.tasks, namedTask{name: name, run: task})
	return a
}

// Update runs a single frame with the given delta in seconds.
func (a *App) Update(dt float64) {
	a.scheduler.Once(dt)
}

// Run starts the background tasks and drives frames at the configured
// interval. It returns once the frame limit is hit or any task fails,
// and on ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.RunWith(ctx, a.loop)
}

// RunWith starts the background tasks and runs loop on the calling goroutine,
// which some window backends require. When loop returns the tasks are
// cancelled and awaited; a task failure cancels the context passed to loop.
func (a *App) RunWith(ctx context.Context, loop func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range a.tasks {
		g.Go(func() error {
			a.logger.Debug().Str("task", task.name).Msg("task started")
			if err := task.run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return eris.Wrapf(err, "task %s failed", task.name)
			}
			return nil
		})
	}

	loopErr := loop(gctx)
	cancel()

	if err := g.Wait(); err != nil {
		return err
	}
	return loopErr
}

func (a *App) loop(ctx context.Context) error {
	if a.maxFrames == 0 {
		a.scheduler.Run(ctx, a.interval)
		return nil
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	last := time.Now()
	for a.scheduler.Frames() < a.maxFrames {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			a.Update(now.Sub(last).Seconds())
			last = now
		}
	}
	a.logger.Debug().Uint64("frames", a.maxFrames).Msg("frame limit reached")
	return nil
}
