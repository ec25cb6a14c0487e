// Package reveal schedules the staggered entrance of list items.
//
// Every index starts Pending and becomes Revealed once its deadline passes.
// Deadlines are computed up front when the schedule is triggered:
//
//	deadline(i) = start + BaseDelay + i*Stagger
//
// Triggering again replaces the whole schedule at once. Ticks that carry an
// older generation are ignored, so nothing from a superseded schedule can
// reveal an item.
//
// Scheduler is not goroutine-safe; it is owned by the UI event loop.
package reveal

import "time"

const (
	// BaseDelay is the pause before the first item appears.
	BaseDelay = 300 * time.Millisecond
	// Stagger separates consecutive items.
	Stagger = 80 * time.Millisecond
	// Transition is how long a revealed item takes to settle into place.
	Transition = 450 * time.Millisecond
)

// Gen identifies one schedule.
type Gen uint64

// State of a single index.
type State int

const (
	Pending State = iota
	Revealed
)

func (s State) String() string {
	if s == Revealed {
		return "revealed"
	}
	return "pending"
}

// Scheduler tracks one schedule of n items.
type Scheduler struct {
	gen       Gen
	start     time.Time
	base      time.Duration
	stagger   time.Duration
	states    []State
	revealed  int
	revealAt  []time.Time // when each index actually flipped
	nextIndex int         // lowest index still pending
}

// New creates an empty scheduler with the default timing.
func New() *Scheduler {
	return NewWithTiming(BaseDelay, Stagger)
}

// NewWithTiming creates an empty scheduler with custom timing.
func NewWithTiming(base, stagger time.Duration) *Scheduler {
	return &Scheduler{base: base, stagger: stagger}
}

// Trigger resets every index to Pending and starts a new schedule for n
// items. Any previous schedule is cancelled. Returns the new generation.
func (s *Scheduler) Trigger(n int, now time.Time) Gen {
	if n < 0 {
		n = 0
	}
	s.gen++
	s.start = now
	s.states = make([]State, n)
	s.revealAt = make([]time.Time, n)
	s.revealed = 0
	s.nextIndex = 0
	return s.gen
}

// Gen returns the current generation.
func (s *Scheduler) Gen() Gen {
	return s.gen
}

// Len returns the number of scheduled indices.
func (s *Scheduler) Len() int {
	return len(s.states)
}

// Deadline returns when index i is due.
func (s *Scheduler) Deadline(i int) time.Time {
	return s.start.Add(s.base + time.Duration(i)*s.stagger)
}

// Advance reveals every index whose deadline is at or before now, provided
// gen is current. It reports whether any index changed.
func (s *Scheduler) Advance(gen Gen, now time.Time) bool {
	if gen != s.gen {
		return false
	}
	changed := false
	for s.nextIndex < len(s.states) && !now.Before(s.Deadline(s.nextIndex)) {
		s.states[s.nextIndex] = Revealed
		s.revealAt[s.nextIndex] = now
		s.revealed++
		s.nextIndex++
		changed = true
	}
	return changed
}

// Next returns the wait until the next pending deadline. ok is false when
// every index is revealed.
func (s *Scheduler) Next(now time.Time) (wait time.Duration, ok bool) {
	if s.nextIndex >= len(s.states) {
		return 0, false
	}
	wait = s.Deadline(s.nextIndex).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// StateOf returns the state of index i. Out-of-range indices are Pending.
func (s *Scheduler) StateOf(i int) State {
	if i < 0 || i >= len(s.states) {
		return Pending
	}
	return s.states[i]
}

// Revealed reports whether index i has been revealed.
func (s *Scheduler) Revealed(i int) bool {
	return s.StateOf(i) == Revealed
}

// RevealedCount returns how many indices are revealed.
func (s *Scheduler) RevealedCount() int {
	return s.revealed
}

// Done reports whether every index is revealed.
func (s *Scheduler) Done() bool {
	return s.nextIndex >= len(s.states)
}

// Progress returns how far index i is through its entrance transition,
// from 0 (pending) to 1 (settled).
func (s *Scheduler) Progress(i int, now time.Time) float64 {
	if !s.Revealed(i) {
		return 0
	}
	elapsed := now.Sub(s.revealAt[i])
	if elapsed >= Transition {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(Transition)
}
