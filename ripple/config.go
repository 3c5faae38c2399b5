package ripple

import (
	"errors"
	"fmt"
	"time"

	"ripplewatch/wave"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("ripple: invalid config")

// Config holds the timing and integration constants of the scheduler.
type Config struct {
	// CycleDuration is one full display period: the ripple expands and
	// contracts once per cycle and the label is replaced at its end.
	CycleDuration time.Duration
	// FPS is the nominal simulation step rate.
	FPS int
	// FadeWindow is the ease-in/ease-out span at both ends of a cycle.
	FadeWindow time.Duration
	Damping    float32
	StepDT     float32
	// CatchUpDT replaces StepDT while re-synchronising after ambient mode,
	// a late rollover or a reset.
	CatchUpDT float32
	// CatchUpLead is how much of the cycle remains after a catch-up
	// rollover, i.e. how long the accelerated re-synchronisation plays.
	CatchUpLead time.Duration
}

// DefaultConfig returns the reference constants.
func DefaultConfig() Config {
	return Config{
		CycleDuration: 4 * time.Second,
		FPS:           30,
		FadeWindow:    400 * time.Millisecond,
		Damping:       wave.DefaultDamping,
		StepDT:        wave.DefaultStepDT,
		CatchUpDT:     wave.CatchUpStepDT,
		CatchUpLead:   time.Second,
	}
}

// Validate checks that the constants describe a usable schedule.
func (c Config) Validate() error {
	switch {
	case c.CycleDuration <= 0:
		return fmt.Errorf("%w: cycle duration %v must be positive", ErrInvalidConfig, c.CycleDuration)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d must be positive", ErrInvalidConfig, c.FPS)
	case c.FadeWindow < 0 || c.FadeWindow > c.CycleDuration/2:
		return fmt.Errorf("%w: fade window %v outside [0, %v]", ErrInvalidConfig, c.FadeWindow, c.CycleDuration/2)
	case c.CatchUpLead <= 0 || c.CatchUpLead >= c.CycleDuration:
		return fmt.Errorf("%w: catch-up lead %v outside (0, %v)", ErrInvalidConfig, c.CatchUpLead, c.CycleDuration)
	case c.StepDT <= 0 || c.CatchUpDT <= 0:
		return fmt.Errorf("%w: step sizes must be positive", ErrInvalidConfig)
	case c.Damping <= 0:
		return fmt.Errorf("%w: damping %v must be positive", ErrInvalidConfig, c.Damping)
	case c.SequenceLen() < 3:
		return fmt.Errorf("%w: cycle %v at %d fps leaves no room for a step after the seed frames",
			ErrInvalidConfig, c.CycleDuration, c.FPS)
	}
	return nil
}

// SequenceLen is ceil(cycle / frame interval) + 1: enough frames for
// stepping to keep pace with a whole cycle.
func (c Config) SequenceLen() int {
	n := c.CycleDuration * time.Duration(c.FPS)
	return int((n+time.Second-1)/time.Second) + 1
}

// framesIn converts a duration into a whole number of simulation steps.
func (c Config) framesIn(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d * time.Duration(c.FPS) / time.Second)
}
