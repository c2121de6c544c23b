package pace

import (
	"context"
	"testing"
	"time"

	"applypilot/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNextAllowedTime_SearchGap(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = fixedClock(base)

	first := l.NextAllowedTime(domain.PlatformLinkedIn, ActionSearch)
	second := l.NextAllowedTime(domain.PlatformLinkedIn, ActionSearch)

	gap := second.Sub(first)
	if gap < 3*time.Second {
		t.Errorf("search gap = %v, want >= 3s", gap)
	}
	if gap > 7*time.Second {
		t.Errorf("search gap = %v, want <= 7s", gap)
	}
}

func TestNextAllowedTime_ApplyGap(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = fixedClock(base)

	first := l.NextAllowedTime(domain.PlatformIndeed, ActionApply)
	second := l.NextAllowedTime(domain.PlatformIndeed, ActionApply)

	gap := second.Sub(first)
	if gap < 20*time.Second {
		t.Errorf("apply gap = %v, want >= 20s", gap)
	}
	if gap > 45*time.Second {
		t.Errorf("apply gap = %v, want <= 45s", gap)
	}
}

func TestNextAllowedTime_PlatformsIndependent(t *testing.T) {
	l := NewLimiter()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = fixedClock(base)

	_ = l.NextAllowedTime(domain.PlatformLinkedIn, ActionApply)
	other := l.NextAllowedTime(domain.PlatformGlassdoor, ActionApply)

	if other.After(base) {
		t.Errorf("first action on a fresh platform should be allowed immediately, got %v after base", other.Sub(base))
	}
}

func TestWait_FirstActionReturnsImmediately(t *testing.T) {
	l := NewLimiter()

	start := time.Now()
	if err := l.Wait(context.Background(), domain.PlatformLinkedIn, ActionSearch); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first wait took %v, want near-instant", elapsed)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	l := NewLimiter()

	// Seed the last-action time so the second wait actually blocks.
	_ = l.NextAllowedTime(domain.PlatformLinkedIn, ActionApply)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx, domain.PlatformLinkedIn, ActionApply); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestTypeDelay_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := TypeDelay()
		if d < 30*time.Millisecond || d > 100*time.Millisecond {
			t.Fatalf("TypeDelay = %v, want within [30ms, 100ms]", d)
		}
	}
}
