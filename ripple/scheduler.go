// Package ripple schedules the wave simulation against wall-clock time. It
// keeps two frame sequences: the active one is stepped lazily while the
// previous, fully settled one is displayed, and their roles swap at every
// cycle rollover.
package ripple

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"ripplewatch/wave"
)

// ErrIndexOutOfRange marks a computed frame index that had to be clamped.
// It is never returned from Render; it is logged and counted in Snapshot.
var ErrIndexOutOfRange = errors.New("ripple: frame index out of range")

// ErrInvalidTransition is returned when Render observes an event that the
// current state has no transition for.
var ErrInvalidTransition = errors.New("ripple: invalid state transition")

// LabelSource renders the label bitmap that seeds a new ripple. at is the
// instant the label should show; it is in the future of the query time.
type LabelSource interface {
	Label(at time.Time, ambient bool) (*image.Gray, error)
}

// LabelFunc adapts a function to LabelSource.
type LabelFunc func(at time.Time, ambient bool) (*image.Gray, error)

// Label calls f.
func (f LabelFunc) Label(at time.Time, ambient bool) (*image.Gray, error) {
	return f(at, ambient)
}

// Frame is the result of a Render call. Field points into the scheduler's
// buffers and is only valid until the next Render.
type Frame struct {
	Field *wave.Field
	// Scale multiplies every displacement before painting.
	Scale float32
	// Index is the frame's position in the sequence it was read from.
	Index int
	State State
}

// sequence is one cycle's worth of fields.
type sequence struct {
	frames []*wave.Field
}

func newSequence(g *wave.Grid, n int) *sequence {
	frames := make([]*wave.Field, n)
	for i := range frames {
		frames[i] = g.NewField()
	}
	return &sequence{frames: frames}
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for transitions and clamped indices.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithStepper replaces the grid's own CPU kernel, e.g. with a GPU solver.
func WithStepper(st wave.Stepper) Option {
	return func(s *Scheduler) {
		if st != nil {
			s.stepper = st
		}
	}
}

// Scheduler maps wall-clock time onto precomputed ripple frames. It is not
// safe for concurrent use: Render must be called from a single goroutine.
type Scheduler struct {
	cfg     Config
	grid    *wave.Grid
	stepper wave.Stepper
	labels  LabelSource
	log     *slog.Logger

	seqs   [2]*sequence
	active int

	state        State
	started      bool
	resetPending bool
	cycleStart   time.Time
	next         int
	freezeIndex  int
	catchIndex   int
	catchShown   int

	rollovers    int
	steps        int
	catchUpSteps int
	clamped      int
}

// New allocates both frame sequences for grid.
func New(cfg Config, grid *wave.Grid, labels LabelSource, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if grid == nil || grid.Width <= 0 || grid.Height <= 0 {
		return nil, fmt.Errorf("%w: grid must have positive dimensions", ErrInvalidConfig)
	}
	if labels == nil {
		return nil, fmt.Errorf("%w: nil label source", ErrInvalidConfig)
	}
	n := cfg.SequenceLen()
	s := &Scheduler{
		cfg:     cfg,
		grid:    grid,
		stepper: grid,
		labels:  labels,
		log:     slog.New(slog.DiscardHandler),
		seqs:    [2]*sequence{newSequence(grid, n), newSequence(grid, n)},
		next:    2,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SequenceLen is the number of frames in each sequence.
func (s *Scheduler) SequenceLen() int {
	return len(s.seqs[0].frames)
}

// Reset requests a fresh ripple; it takes effect on the next non-ambient Render.
func (s *Scheduler) Reset() {
	s.resetPending = true
}

func (s *Scheduler) activeSeq() *sequence   { return s.seqs[s.active] }
func (s *Scheduler) previousSeq() *sequence { return s.seqs[1-s.active] }

// elapsed is the time since the cycle started. A clock reading before the
// cycle start counts as zero.
func (s *Scheduler) elapsed(now time.Time) time.Duration {
	d := now.Sub(s.cycleStart)
	if d < 0 {
		return 0
	}
	return d
}

// classify decides which event a query at now represents.
func (s *Scheduler) classify(now time.Time, ambient bool) event {
	if ambient {
		return evAmbientOn
	}
	if s.state == StateAmbient {
		return evAmbientOff
	}
	if !s.started {
		return evLate
	}
	if s.resetPending {
		return evReset
	}
	e := s.elapsed(now)
	switch {
	case e >= 2*s.cfg.CycleDuration:
		return evLate
	case e >= s.cfg.CycleDuration:
		return evRollover
	}
	return evTick
}

// Render advances the schedule to now and returns the frame to paint.
func (s *Scheduler) Render(now time.Time, ambient bool) (Frame, error) {
	ev := s.classify(now, ambient)
	to, ok := nextState(s.state, ev)
	if !ok {
		return Frame{}, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, s.state)
	}

	if ev == evAmbientOn {
		entering := s.state != StateAmbient
		frame, err := s.renderAmbient(now, entering)
		if err != nil {
			return Frame{}, err
		}
		s.enter(to, ev)
		return frame, nil
	}

	switch {
	case catchUpEvent(ev):
		if err := s.rollover(now, true); err != nil {
			return Frame{}, err
		}
	case ev == evRollover || ev == evReset:
		if err := s.rollover(now, false); err != nil {
			return Frame{}, err
		}
	}
	s.enter(to, ev)

	if err := s.advance(now); err != nil {
		return Frame{}, err
	}
	if s.state == StateCatchUp {
		return s.catchUpFrame(now)
	}
	return s.runningFrame(now), nil
}

func (s *Scheduler) enter(to State, ev event) {
	if to == s.state {
		return
	}
	s.log.Debug("ripple state change", "from", s.state, "to", to, "event", ev)
	s.state = to
}

// rollover swaps the sequence roles and seeds the new active sequence. A
// catch-up rollover shortens the remaining cycle to CatchUpLead so that the
// active sequence is stepped eagerly and the previous one is replayed fast.
func (s *Scheduler) rollover(now time.Time, catchUp bool) error {
	start := now
	labelAt := now.Add(s.cfg.CycleDuration * 3 / 2)
	if catchUp {
		start = now.Add(-(s.cfg.CycleDuration - s.cfg.CatchUpLead))
		labelAt = now.Add(s.cfg.CatchUpLead + s.cfg.CycleDuration/2)
	}
	bmp, err := s.labels.Label(labelAt, false)
	if err != nil {
		return fmt.Errorf("rendering label: %w", err)
	}
	incoming := s.previousSeq()
	if err := s.grid.Seed(incoming.frames[0], incoming.frames[1], bmp); err != nil {
		return fmt.Errorf("seeding sequence: %w", err)
	}
	if !catchUp {
		// The outgoing sequence is replayed for the whole next cycle.
		if err := s.stepActive(len(s.activeSeq().frames) - 1); err != nil {
			return err
		}
	}
	s.active = 1 - s.active
	s.cycleStart = start
	s.next = 2
	s.started = true
	s.resetPending = false
	s.rollovers++
	if catchUp {
		s.catchIndex = 2
		s.catchShown = 1
	}
	s.log.Debug("ripple rollover", "catch_up", catchUp, "label_at", labelAt, "active", s.active)
	return nil
}

// advance lazily steps the active sequence up to the frame due at now.
func (s *Scheduler) advance(now time.Time) error {
	return s.stepActive(s.cfg.framesIn(s.elapsed(now)))
}

// stepActive steps the active sequence through frame target, stopping at the
// last frame.
func (s *Scheduler) stepActive(target int) error {
	frames := s.activeSeq().frames
	for s.next <= target && s.next < len(frames) {
		i := s.next
		if err := s.stepper.Step(frames[i-2], frames[i-1], frames[i], s.cfg.StepDT, s.cfg.Damping); err != nil {
			return fmt.Errorf("stepping frame %d: %w", i, err)
		}
		s.next++
		s.steps++
	}
	return nil
}

// renderAmbient handles a query in ambient mode. The entering query freezes
// on the frame that was on screen; later queries show the ambient label.
func (s *Scheduler) renderAmbient(now time.Time, entering bool) (Frame, error) {
	if entering && s.started {
		e := s.elapsed(now)
		scale := s.envelope(e)
		s.freezeIndex = s.foldIndex(e)
		if s.state == StateCatchUp {
			// Frames past the last catch-up frame are left over from an
			// older cycle.
			scale = s.catchUpScale(now)
			s.freezeIndex = s.catchShown
		}
		return Frame{
			Field: s.previousSeq().frames[s.freezeIndex],
			Scale: scale,
			Index: s.freezeIndex,
			State: StateAmbient,
		}, nil
	}
	bmp, err := s.labels.Label(now, true)
	if err != nil {
		return Frame{}, fmt.Errorf("rendering ambient label: %w", err)
	}
	seq := s.activeSeq()
	if err := s.grid.Seed(seq.frames[0], seq.frames[1], bmp); err != nil {
		return Frame{}, fmt.Errorf("seeding ambient frame: %w", err)
	}
	return Frame{Field: seq.frames[0], Scale: 1, Index: 0, State: StateAmbient}, nil
}

// catchUpFrame steps the previous sequence one frame at the accelerated
// rate and fades it out over the remaining lead time.
func (s *Scheduler) catchUpFrame(now time.Time) (Frame, error) {
	frames := s.previousSeq().frames
	i := s.clampIndex(s.catchIndex, 2)
	if err := s.stepper.Step(frames[i-2], frames[i-1], frames[i], s.cfg.CatchUpDT, s.cfg.Damping); err != nil {
		return Frame{}, fmt.Errorf("catch-up frame %d: %w", i, err)
	}
	s.catchUpSteps++
	s.catchShown = i
	frame := Frame{
		Field: frames[i],
		Scale: s.catchUpScale(now),
		Index: i,
		State: StateCatchUp,
	}
	if i < len(frames)-1 {
		i++
	}
	s.catchIndex = i
	return frame, nil
}

// catchUpScale fades out over the time left before the shortened cycle ends.
func (s *Scheduler) catchUpScale(now time.Time) float32 {
	remaining := s.cycleStart.Add(s.cfg.CycleDuration).Sub(now)
	return ease(float64(remaining) / float64(s.cfg.CatchUpLead))
}

// runningFrame selects the previous sequence's frame for now.
func (s *Scheduler) runningFrame(now time.Time) Frame {
	e := s.elapsed(now)
	i := s.foldIndex(e)
	return Frame{
		Field: s.previousSeq().frames[i],
		Scale: s.envelope(e),
		Index: i,
		State: StateRunning,
	}
}

// foldIndex maps elapsed cycle time onto a frame index that counts down to
// zero at mid-cycle and back up again, so the ripple contracts onto the
// label and then expands away from it.
func (s *Scheduler) foldIndex(elapsed time.Duration) int {
	half := s.cfg.CycleDuration / 2
	d := half - elapsed
	if elapsed > half {
		d = elapsed - half
	}
	return s.clampIndex(s.cfg.framesIn(d), 0)
}

// envelope eases the scale in and out over FadeWindow at both cycle ends.
func (s *Scheduler) envelope(elapsed time.Duration) float32 {
	fade := s.cfg.FadeWindow
	if fade <= 0 {
		return 1
	}
	if elapsed < fade {
		return ease(float64(elapsed) / float64(fade))
	}
	if rem := s.cfg.CycleDuration - elapsed; rem < fade {
		return ease(float64(rem) / float64(fade))
	}
	return 1
}

// ease is t*(2-t) with t clamped to [0, 1].
func ease(t float64) float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return float32(t * (2 - t))
}

// clampIndex pins i into [lo, SequenceLen-1]. Clamping indicates a timing
// defect, so it is logged and counted.
func (s *Scheduler) clampIndex(i, lo int) int {
	hi := s.SequenceLen() - 1
	if i >= lo && i <= hi {
		return i
	}
	s.clamped++
	s.log.Error("clamped frame index", "err", ErrIndexOutOfRange, "index", i, "min", lo, "max", hi)
	if i < lo {
		return lo
	}
	return hi
}
