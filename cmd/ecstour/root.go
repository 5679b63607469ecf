package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/plus3/ecstour/app"
	"github.com/plus3/ecstour/examples"
	"github.com/plus3/ecstour/internal/config"
	"github.com/plus3/ecstour/internal/logging"
	"github.com/plus3/ecstour/render"
)

type runFlags struct {
	headless bool
	debugUI  bool
	report   bool
	frames   uint64
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	root := &cobra.Command{
		Use:          "ecstour",
		Short:        "A guided tour of an entity component system",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&flags.headless, "headless", false, "run without opening a window (overrides ECSTOUR_HEADLESS)")
	root.PersistentFlags().BoolVar(&flags.debugUI, "debug-ui", false, "show the Dear ImGui inspector windows")
	root.PersistentFlags().BoolVar(&flags.report, "report", false, "print a frame timing report when the example stops")
	root.PersistentFlags().Uint64Var(&flags.frames, "frames", 0, "stop after this many frames (0 runs until interrupted)")

	for _, ex := range examples.All() {
		root.AddCommand(&cobra.Command{
			Use:   ex.Name,
			Short: ex.Short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runExample(cmd, ex, flags)
			},
		})
	}

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the examples",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, ex := range examples.All() {
				kind := "log"
				if ex.Visual {
					kind = "window"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-7s %s\n", ex.Name, kind, ex.Short)
			}
		},
	})

	return root
}

func runExample(cmd *cobra.Command, ex examples.Example, flags *runFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flags.headless
	}

	logger := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Out:    cmd.ErrOrStderr(),
	}).With().Str("example", ex.Name).Logger()

	settings := examples.DefaultSettings()
	settings.TickPeriod = cfg.TickPeriod
	settings.DrainPulses = cfg.DrainPulses

	frames := flags.frames
	if !cmd.Flags().Changed("frames") {
		frames = ex.Frames
	}

	a := ex.New(settings, app.WithLogger(logger), app.WithMaxFrames(frames))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := newReport(ex.Name)
	runtime.ReadMemStats(&report.MemStatsStart)
	start := time.Now()

	if cfg.Headless || !ex.Visual {
		logger.Info().Bool("headless", true).Msg("starting")
		err = a.Run(ctx)
	} else {
		logger.Info().Int("width", cfg.WindowWidth).Int("height", cfg.WindowHeight).Msg("starting")
		err = render.Run(ctx, a, render.Options{
			Title:     "ecstour: " + ex.Name,
			Width:     cfg.WindowWidth,
			Height:    cfg.WindowHeight,
			AssetsDir: cfg.AssetsDir,
			DebugUI:   flags.debugUI,
			MaxFrames: frames,
		})
	}
	if err != nil && !eris.Is(err, context.Canceled) {
		return eris.Wrapf(err, "example %s failed", ex.Name)
	}

	report.TotalTime = time.Since(start)
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.collect(a.Scheduler())
	logger.Info().Uint64("frames", report.Frames).Dur("elapsed", report.TotalTime).Msg("stopped")

	if flags.report {
		return report.Generate(cmd.OutOrStdout())
	}
	return nil
}
