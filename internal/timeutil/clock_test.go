package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	clock := RealClock{}

	before := time.Now()
	now := clock.Now()
	if now.Before(before) {
		t.Errorf("Now() = %v, before the test started (%v)", now, before)
	}

	if d := clock.Since(before.Add(-time.Second)); d < time.Second {
		t.Errorf("Since() = %v, want at least 1s", d)
	}
}

func TestMockClock_NowSetAdvance(t *testing.T) {
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	clock.Advance(90 * time.Second)
	if got, want := clock.Now(), start.Add(90*time.Second); !got.Equal(want) {
		t.Errorf("after Advance: Now() = %v, want %v", got, want)
	}

	later := start.Add(time.Hour)
	clock.Set(later)
	if got := clock.Now(); !got.Equal(later) {
		t.Errorf("after Set: Now() = %v, want %v", got, later)
	}
}

func TestMockClock_Since(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(now)

	if d := clock.Since(now.Add(-5 * time.Minute)); d != 5*time.Minute {
		t.Errorf("Since() = %v, want 5m", d)
	}
}

func TestMockClock_SleepAdvancesClock(t *testing.T) {
	start := time.Unix(0, 0)
	clock := NewMockClock(start)

	// Pacing a 3-frame capture: each sleep must be recorded and move the
	// clock so the measured elapsed time matches the requested delays.
	for i := 0; i < 3; i++ {
		clock.Sleep(200 * time.Millisecond)
	}

	sleeps := clock.Sleeps()
	if len(sleeps) != 3 {
		t.Fatalf("got %d recorded sleeps, want 3", len(sleeps))
	}
	for i, d := range sleeps {
		if d != 200*time.Millisecond {
			t.Errorf("sleep %d = %v, want 200ms", i, d)
		}
	}

	if got := clock.Since(start); got != 600*time.Millisecond {
		t.Errorf("elapsed = %v, want 600ms", got)
	}
}

func TestMockClock_SleepsReturnsCopy(t *testing.T) {
	clock := NewMockClock(time.Unix(0, 0))
	clock.Sleep(time.Second)

	clock.Sleeps()[0] = time.Hour

	if got := clock.Sleeps()[0]; got != time.Second {
		t.Errorf("recorded sleep mutated through the returned slice: %v", got)
	}
}
