package main

import "time"

// Application constants shared by the frontends.
const (
	windowTitle       = "Ripple Clock"
	cpuProfileLength  = 15 * time.Second
	latticeLineWidth  = 1.5
	ambientLineWidth  = 1
	shadeRamp         = " .:-=+*#%@"
	terminalMinWidth  = 8
	terminalMinHeight = 4
)
