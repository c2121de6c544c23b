// Package captcha detects anti-automation challenges on the live page and
// suspends the run until a human resolves them.
package captcha

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"applypilot/internal/browser"
)

// Structural challenge markers checked against the page.
var markerSelectors = []string{
	"iframe[src*='recaptcha']",
	"div.g-recaptcha",
	"iframe[src*='hcaptcha']",
}

// Default phrase indicators, matched case-insensitively against body text.
var defaultPhrases = []string{
	"captcha",
	"verify you are human",
	"are you a robot",
	"unusual activity",
	"security check",
}

const (
	// DefaultMaxWait bounds the human-in-the-loop suspension.
	DefaultMaxWait = 5 * time.Minute

	settleDelay = 2 * time.Second
)

// Gate wraps every adapter interaction: check for a challenge, and if one is
// up, block until the operator clears it in the visible browser window.
type Gate struct {
	session browser.Session
	logger  *slog.Logger
	phrases []string

	pollEvery time.Duration
	settle    time.Duration
}

func NewGate(session browser.Session, logger *slog.Logger) *Gate {
	return &Gate{
		session:   session,
		logger:    logger,
		phrases:   append([]string(nil), defaultPhrases...),
		pollEvery: 3 * time.Second,
		settle:    settleDelay,
	}
}

// AddPhrases extends the text indicator set.
func (g *Gate) AddPhrases(phrases ...string) {
	g.phrases = append(g.phrases, phrases...)
}

// Present reports whether a challenge indicator is on the current page.
func (g *Gate) Present(ctx context.Context) bool {
	for _, sel := range markerSelectors {
		if ok, err := g.session.Exists(ctx, sel); err == nil && ok {
			return true
		}
	}

	text, err := g.session.PageText(ctx)
	if err != nil || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range g.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// AwaitResolution blocks while a challenge is present, polling until it
// disappears or maxWait elapses. Returns true once the page is clear, false
// on timeout or cancellation. The boundary is exclusive: a challenge still
// present at exactly maxWait counts as a timeout.
func (g *Gate) AwaitResolution(ctx context.Context, maxWait time.Duration) bool {
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	if !g.Present(ctx) {
		return true
	}

	g.logger.Warn("challenge detected, waiting for operator to resolve it in the browser window",
		"max_wait", maxWait)

	deadline := time.Now().Add(maxWait)
	for {
		if !g.Present(ctx) {
			g.logger.Info("challenge resolved")
			// Let the page finish whatever the resolution triggered.
			select {
			case <-ctx.Done():
			case <-time.After(g.settle):
			}
			return true
		}
		if !time.Now().Before(deadline) {
			g.logger.Error("challenge not resolved within wait bound", "max_wait", maxWait)
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(g.pollEvery):
		}
	}
}
