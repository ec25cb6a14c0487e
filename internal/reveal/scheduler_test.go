package reveal

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func TestTriggerStartsPending(t *testing.T) {
	s := New()
	gen := s.Trigger(4, t0)

	if gen != s.Gen() {
		t.Errorf("Trigger returned %d, Gen() = %d", gen, s.Gen())
	}
	for i := 0; i < 4; i++ {
		if s.StateOf(i) != Pending {
			t.Errorf("index %d should start pending", i)
		}
	}
	if s.Done() {
		t.Error("a fresh schedule with items is not done")
	}
}

func TestAdvanceStaggers(t *testing.T) {
	s := New()
	gen := s.Trigger(3, t0)

	tests := []struct {
		at   time.Duration
		want int
	}{
		{0, 0},
		{BaseDelay - time.Millisecond, 0},
		{BaseDelay, 1},
		{BaseDelay + Stagger - time.Millisecond, 1},
		{BaseDelay + Stagger, 2},
		{BaseDelay + 2*Stagger, 3},
		{time.Hour, 3},
	}

	for _, tt := range tests {
		s.Advance(gen, t0.Add(tt.at))
		if got := s.RevealedCount(); got != tt.want {
			t.Errorf("at +%v revealed %d, want %d", tt.at, got, tt.want)
		}
	}
	if !s.Done() {
		t.Error("all indices revealed; schedule should be done")
	}
}

func TestAdvanceRevealsInOrder(t *testing.T) {
	s := New()
	gen := s.Trigger(5, t0)
	s.Advance(gen, t0.Add(BaseDelay+Stagger))

	for i := 0; i < 5; i++ {
		want := i < 2
		if s.Revealed(i) != want {
			t.Errorf("index %d revealed=%v, want %v", i, s.Revealed(i), want)
		}
	}
}

func TestNext(t *testing.T) {
	s := New()
	gen := s.Trigger(2, t0)

	wait, ok := s.Next(t0)
	if !ok || wait != BaseDelay {
		t.Errorf("Next = %v,%v want %v,true", wait, ok, BaseDelay)
	}

	s.Advance(gen, t0.Add(BaseDelay))
	wait, ok = s.Next(t0.Add(BaseDelay))
	if !ok || wait != Stagger {
		t.Errorf("Next = %v,%v want %v,true", wait, ok, Stagger)
	}

	// Late ticks never yield a negative wait.
	wait, _ = s.Next(t0.Add(time.Hour))
	if wait != 0 {
		t.Errorf("overdue wait should clamp to 0, got %v", wait)
	}

	s.Advance(gen, t0.Add(time.Hour))
	if _, ok := s.Next(t0.Add(time.Hour)); ok {
		t.Error("Next should report nothing pending once done")
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	s := New()
	old := s.Trigger(10, t0)
	current := s.Trigger(3, t0.Add(10*time.Millisecond))

	if s.Advance(old, t0.Add(time.Hour)) {
		t.Error("an old generation must not advance the schedule")
	}
	if s.RevealedCount() != 0 {
		t.Errorf("nothing should be revealed, got %d", s.RevealedCount())
	}

	s.Advance(current, t0.Add(time.Hour))
	if s.RevealedCount() != 3 {
		t.Errorf("expected 3 revealed, got %d", s.RevealedCount())
	}
}

// Two category changes in quick succession: only the second schedule's
// items may ever become revealed.
func TestRapidRetriggerScenario(t *testing.T) {
	s := New()

	first := s.Trigger(8, t0)
	s.Advance(first, t0.Add(BaseDelay+2*Stagger)) // 3 of the first set revealed

	second := s.Trigger(2, t0.Add(BaseDelay+2*Stagger+time.Millisecond))
	if s.RevealedCount() != 0 {
		t.Fatalf("retrigger must reset to pending, got %d revealed", s.RevealedCount())
	}

	// Pending ticks from the first schedule arrive late.
	for i := 0; i < 8; i++ {
		s.Advance(first, t0.Add(time.Second+time.Duration(i)*Stagger))
	}
	s.Advance(second, t0.Add(time.Hour))

	if s.Len() != 2 || s.RevealedCount() != 2 {
		t.Errorf("expected exactly the second set (2) revealed, got len=%d revealed=%d", s.Len(), s.RevealedCount())
	}
	if s.Revealed(2) {
		t.Error("index beyond the second set must not be revealed")
	}
}

func TestTriggerEmpty(t *testing.T) {
	s := New()
	s.Trigger(0, t0)
	if !s.Done() {
		t.Error("an empty schedule is done immediately")
	}
	s.Trigger(-3, t0)
	if s.Len() != 0 {
		t.Errorf("negative sizes clamp to zero, got %d", s.Len())
	}
}

func TestProgress(t *testing.T) {
	s := NewWithTiming(0, 0)
	gen := s.Trigger(1, t0)

	if p := s.Progress(0, t0); p != 0 {
		t.Errorf("pending progress = %v, want 0", p)
	}
	s.Advance(gen, t0)
	if p := s.Progress(0, t0.Add(Transition/2)); p < 0.49 || p > 0.51 {
		t.Errorf("half-way progress = %v, want ~0.5", p)
	}
	if p := s.Progress(0, t0.Add(Transition*2)); p != 1 {
		t.Errorf("settled progress = %v, want 1", p)
	}
}
