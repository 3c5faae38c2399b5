package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"ripplewatch/config"
	"ripplewatch/ripple"
)

func main() {
	flag.Parse()

	logger, closeLog, err := newLogger(*logPathFlag, *debugFlag)
	if err != nil {
		log.Fatalf("opening log: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("ripple clock stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
}

func newLogger(path string, debug bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), closeFn, nil
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(*configPathFlag)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cfg); err != nil {
		return err
	}

	if *cpuProfileFlag != "" {
		stop, err := startCPUProfile(*cpuProfileFlag, cpuProfileLength)
		if err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer stop()
		logger.Info("recording CPU profile", "path", *cpuProfileFlag, "duration", cpuProfileLength)
	}

	grid := cfg.NewGrid()
	stepper, release := newStepper(*openCLFlag, grid, logger)
	defer release()

	labels := newClockLabeler(grid.Width, grid.Height, cfg.Display.LabelFormat, cfg.Display.AmbientLabelFormat)
	sched, err := ripple.New(cfg.Derived.Ripple, grid, labels,
		ripple.WithLogger(logger.With("component", "ripple")),
		ripple.WithStepper(stepper))
	if err != nil {
		return err
	}
	logger.Info("ripple clock ready",
		"grid", fmt.Sprintf("%dx%d", grid.Width, grid.Height),
		"frames", sched.SequenceLen(),
		"cycle", cfg.Derived.Ripple.CycleDuration,
		"frontend", cfg.Display.Frontend)

	driver := newRippleDriver(sched, systemClock{}, cfg.Derived.AmbientAfter, logger)
	if cfg.Trace.Path != "" {
		tw, err := newTraceWriter(cfg.Trace.Path)
		if err != nil {
			return err
		}
		defer tw.Close()
		driver.trace = tw
	}

	if cfg.Display.Frontend == config.FrontendTerminal {
		return runTerminal(driver, cfg.Derived.Tick, grid.SeedScale, logger)
	}
	game := newGame(driver, grid, cfg.Display.WindowWidth, cfg.Display.WindowHeight, *debugFlag, logger)
	return runWindow(game, cfg.Derived.TPS)
}
