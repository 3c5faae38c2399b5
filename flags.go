package main

import (
	"flag"
	"time"

	"ripplewatch/config"
)

// Command-line flags. Those that mirror a config key override it when set.
var (
	// configPathFlag names a YAML file layered over the embedded defaults.
	configPathFlag = flag.String("config", "", "YAML config file layered over the built-in defaults")

	// frontendFlag picks the window or terminal face.
	frontendFlag = flag.String("frontend", "", "face to show: window or terminal (overrides display.frontend)")

	// debugFlag enables the frame overlay and debug logging.
	debugFlag = flag.Bool("debug", false, "show the frame overlay and log scheduler transitions")

	traceFlag = flag.String("trace", "", "write a CSV row per rendered frame to this file (overrides trace.path)")

	// openCLFlag steps the wave on an OpenCL device when one is available.
	openCLFlag = flag.Bool("opencl", false, "step the wave on an OpenCL device when available (requires -tags opencl)")

	workersFlag = flag.Int("workers", 0, "row bands stepped concurrently (overrides grid.workers)")

	ambientAfterFlag = flag.Duration("ambient-after", -1, "idle time before the ambient face, 0 = never (overrides display.ambient_after_s)")

	// cpuProfileFlag captures a CPU profile of the first seconds of a run.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile covering the first 15s to this file")

	logPathFlag = flag.String("log", "", "write logs to this file instead of stderr")
)

// applyFlagOverrides copies explicitly set flags into cfg and recomputes the
// derived values.
func applyFlagOverrides(cfg *config.Config) error {
	if *frontendFlag != "" {
		cfg.Display.Frontend = *frontendFlag
	}
	if *traceFlag != "" {
		cfg.Trace.Path = *traceFlag
	}
	if *workersFlag > 0 {
		cfg.Grid.Workers = *workersFlag
	}
	if *ambientAfterFlag >= 0 {
		cfg.Display.AmbientAfterS = int(*ambientAfterFlag / time.Second)
	}
	cfg.ComputeDerived()
	return cfg.Validate()
}
