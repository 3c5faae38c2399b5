package ripple

import (
	"log/slog"
	"time"
)

// Snapshot is a read-only view of the scheduler's bookkeeping.
type Snapshot struct {
	State      State
	Started    bool
	CycleStart time.Time
	// NextIndex is the next unwritten frame of the active sequence.
	NextIndex int
	// FreezeIndex is the previous-sequence frame shown when ambient mode
	// was entered.
	FreezeIndex  int
	CatchUpIndex int
	// Active tags which of the two sequences is being written.
	Active       int
	ResetPending bool

	Rollovers    int
	Steps        int
	CatchUpSteps int
	// Clamped counts frame indices that fell outside the sequence.
	Clamped int
}

// Snapshot returns the current bookkeeping.
func (s *Scheduler) Snapshot() Snapshot {
	return Snapshot{
		State:        s.state,
		Started:      s.started,
		CycleStart:   s.cycleStart,
		NextIndex:    s.next,
		FreezeIndex:  s.freezeIndex,
		CatchUpIndex: s.catchIndex,
		Active:       s.active,
		ResetPending: s.resetPending,
		Rollovers:    s.rollovers,
		Steps:        s.steps,
		CatchUpSteps: s.catchUpSteps,
		Clamped:      s.clamped,
	}
}

// LogValue implements slog.LogValuer.
func (s Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("state", s.State.String()),
		slog.Int("next", s.NextIndex),
		slog.Int("freeze", s.FreezeIndex),
		slog.Int("catch_up", s.CatchUpIndex),
		slog.Int("active", s.Active),
		slog.Int("rollovers", s.Rollovers),
		slog.Int("steps", s.Steps),
		slog.Int("clamped", s.Clamped),
	)
}
