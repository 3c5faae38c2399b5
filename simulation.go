package main

import (
	"log/slog"
	"time"

	"ripplewatch/ripple"
	"ripplewatch/wave"
)

// rippleDriver is the frontend-independent loop body: it decides whether the
// face is ambient, queries the scheduler and records the trace.
type rippleDriver struct {
	sched       *ripple.Scheduler
	clock       Clock
	trace       *traceWriter
	log         *slog.Logger
	idleAmbient time.Duration

	forcedAmbient bool
	lastInput     time.Time
	frame         ripple.Frame
	haveFrame     bool
	labelShown    bool // frame is the label-seeded ambient face
	lastAmbient   time.Time
	lastTick      time.Duration
}

func newRippleDriver(sched *ripple.Scheduler, clock Clock, idleAmbient time.Duration, log *slog.Logger) *rippleDriver {
	return &rippleDriver{
		sched:       sched,
		clock:       clock,
		log:         log,
		idleAmbient: idleAmbient,
		lastInput:   clock.Now(),
	}
}

// ambient reports whether the face should show the low-power view at now.
func (d *rippleDriver) ambient(now time.Time) bool {
	if d.forcedAmbient {
		return true
	}
	return d.idleAmbient > 0 && now.Sub(d.lastInput) >= d.idleAmbient
}

// Tap handles a click or key press on the face: it wakes an ambient face and
// restarts the ripple on an interactive one.
func (d *rippleDriver) Tap() {
	now := d.clock.Now()
	wasAmbient := d.ambient(now)
	d.lastInput = now
	d.forcedAmbient = false
	if wasAmbient {
		return
	}
	d.log.Debug("tap reset")
	d.sched.Reset()
}

// ToggleAmbient switches between the ambient and interactive faces.
func (d *rippleDriver) ToggleAmbient() {
	now := d.clock.Now()
	if d.ambient(now) {
		d.forcedAmbient = false
		d.lastInput = now
		return
	}
	d.forcedAmbient = true
}

// Tick renders the frame for the current time. Once the ambient label is on
// screen it is only re-rendered when the minute changes; the freeze frame
// shown on entering ambient is replaced on the next tick.
func (d *rippleDriver) Tick() (ripple.Frame, error) {
	start := time.Now()
	now := d.clock.Now()
	ambient := d.ambient(now)
	if ambient && d.labelShown &&
		now.Truncate(time.Minute).Equal(d.lastAmbient.Truncate(time.Minute)) {
		return d.frame, nil
	}
	wasAmbient := d.haveFrame && d.frame.State == ripple.StateAmbient

	frame, err := d.sched.Render(now, ambient)
	if err != nil {
		return ripple.Frame{}, err
	}
	d.frame, d.haveFrame = frame, true
	d.labelShown = ambient && wasAmbient
	if ambient {
		d.lastAmbient = now
	}
	d.lastTick = time.Since(start)

	if d.trace != nil {
		if err := d.trace.Record(now, frame, d.sched.Snapshot()); err != nil {
			d.log.Warn("trace disabled", "err", err)
			d.trace = nil
		}
	}
	return frame, nil
}

// newStepper returns the stepper to hand the scheduler: the OpenCL device
// when requested and available, otherwise the CPU grid. release frees any
// device resources.
func newStepper(useOpenCL bool, grid *wave.Grid, log *slog.Logger) (stepper wave.Stepper, release func()) {
	if !useOpenCL {
		return grid, func() {}
	}
	s, err := newOpenCLStepper(grid.Width, grid.Height)
	if err != nil {
		log.Warn("OpenCL unavailable, stepping on the CPU", "err", err)
		return grid, func() {}
	}
	log.Info("stepping on OpenCL device", "device", s.DeviceName())
	return s, s.Close
}
