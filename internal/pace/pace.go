package pace

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"applypilot/internal/domain"
)

// ActionKind selects the pacing window for an action.
type ActionKind int

const (
	ActionSearch ActionKind = iota
	ActionApply
)

// Jitter windows. Bursty, evenly-spaced traffic is a common automation
// signal, so the gap between consecutive actions on a platform is drawn
// uniformly from a range rather than fixed.
const (
	searchGapMin = 3 * time.Second
	searchGapMax = 7 * time.Second
	applyGapMin  = 20 * time.Second
	applyGapMax  = 45 * time.Second

	keyDelayMin = 30 * time.Millisecond
	keyDelayMax = 100 * time.Millisecond
)

// Limiter spaces out search and apply actions per platform. Process-lifetime
// state, reset each run.
type Limiter struct {
	mu   sync.Mutex
	last map[domain.Platform]time.Time

	now func() time.Time // test hook
}

func NewLimiter() *Limiter {
	return &Limiter{
		last: make(map[domain.Platform]time.Time),
		now:  time.Now,
	}
}

func gap(kind ActionKind) time.Duration {
	lo, hi := searchGapMin, searchGapMax
	if kind == ActionApply {
		lo, hi = applyGapMin, applyGapMax
	}
	return lo + time.Duration(rand.Float64()*float64(hi-lo))
}

// NextAllowedTime reserves and returns the earliest instant the next action of
// the given kind may be issued on the platform. The caller must not act before
// the returned time.
func (l *Limiter) NextAllowedTime(p domain.Platform, kind ActionKind) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	allowed := now
	if last, ok := l.last[p]; ok {
		if t := last.Add(gap(kind)); t.After(allowed) {
			allowed = t
		}
	}
	l.last[p] = allowed
	return allowed
}

// Wait blocks until the next action of the given kind is allowed on the
// platform, or until ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context, p domain.Platform, kind ActionKind) error {
	allowed := l.NextAllowedTime(p, kind)
	d := time.Until(allowed)
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("pacing wait for %s: %w", p, ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// TypeDelay returns the pause before the next keystroke (30–100 ms), so typed
// input does not land as a single instant burst.
func TypeDelay() time.Duration {
	return keyDelayMin + time.Duration(rand.Float64()*float64(keyDelayMax-keyDelayMin))
}
