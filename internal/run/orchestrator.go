// Package run drives one complete pass: authenticate, collect, filter, and
// apply, with every outcome recorded and summarized.
package run

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"applypilot/internal/adapter"
	"applypilot/internal/browser"
	"applypilot/internal/domain"
	"applypilot/internal/pace"
	"applypilot/internal/report"
	"applypilot/internal/search"
)

// ErrNoPlatforms means no platform could authenticate, so the run has
// nothing to do.
var ErrNoPlatforms = errors.New("no platform authenticated")

// Store is the durable application record set. Satisfied by dedup.Store.
type Store interface {
	HasApplied(ctx context.Context, url string) (bool, error)
	RecordSuccess(ctx context.Context, p domain.JobPosting) error
	RecordOutcome(ctx context.Context, p domain.JobPosting, status domain.ApplicationStatus) error
	AppliedSince(ctx context.Context, cutoff time.Time) ([]domain.ApplicationRecord, error)
}

type Orchestrator struct {
	Adapters []adapter.Adapter
	Sources  []search.LeadSource
	Store    Store
	// Session is the shared browser session, used here only for evidence
	// screenshots. Nil when no browser platform is enabled.
	Session browser.Session
	Pace    search.Pacer
	Logger  *slog.Logger

	DataDir         string
	Keywords        []string
	Locations       []string
	ExcludeKeywords []string
	MaxApplications int

	now func() time.Time
}

func (o *Orchestrator) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

// Run executes one pass and returns its stats. The context is honored at
// every suspension point: cancelling loses at most the in-flight attempt,
// and everything recorded so far stays recorded.
func (o *Orchestrator) Run(ctx context.Context) (report.Stats, error) {
	var stats report.Stats

	live := o.authenticate(ctx)
	if len(live) == 0 {
		return stats, ErrNoPlatforms
	}

	collector := &search.Collector{
		Adapters: live,
		Sources:  o.Sources,
		Pace:     o.Pace,
		Logger:   o.Logger,
	}
	found, err := collector.Collect(ctx, o.Keywords, o.Locations)
	if err != nil {
		return stats, err
	}
	stats.JobsFound = len(found)

	filtered, err := search.Filter(ctx, found, o.Store, o.ExcludeKeywords)
	if err != nil {
		return stats, err
	}
	stats.JobsFiltered = len(filtered)
	o.Logger.Info("search finished", "found", stats.JobsFound, "filtered", stats.JobsFiltered)

	queue := filtered
	if o.MaxApplications > 0 && len(queue) > o.MaxApplications {
		queue = queue[:o.MaxApplications]
	}
	stats.ApplicationsAttempted = len(queue)

	var appliedDescriptions []string
	for _, scored := range queue {
		if ctx.Err() != nil {
			break
		}
		a := o.adapterFor(live, scored.JobPosting)
		if a == nil {
			o.Logger.Warn("no adapter for posting, skipped",
				"url", scored.URL, "source", scored.Source)
			o.recordOutcome(ctx, scored.JobPosting, domain.StatusSkipped)
			stats.ApplicationsFailed++
			continue
		}

		if err := o.Pace.Wait(ctx, a.Platform(), pace.ActionApply); err != nil {
			break
		}

		outcome := a.Apply(ctx, scored.JobPosting)
		o.Logger.Info("attempt done",
			"platform", a.Platform(), "title", scored.Title, "company", scored.Company,
			"outcome", outcome)

		switch {
		case outcome.Success():
			// Committed before the next attempt starts, so a crash never
			// causes a double application.
			if err := o.Store.RecordSuccess(ctx, scored.JobPosting); err != nil {
				return stats, fmt.Errorf("record success: %w", err)
			}
			stats.ApplicationsCompleted++
			appliedDescriptions = append(appliedDescriptions, scored.Description)
		case outcome == domain.OutcomeComplexBailout:
			// A failure for the run's tally, but the record stays skipped so
			// the posting remains retryable once a human handles it.
			o.recordOutcome(ctx, scored.JobPosting, domain.StatusSkipped)
			stats.ApplicationsFailed++
		default:
			if outcome == domain.OutcomeAdapterError {
				o.screenshot(ctx, scored.JobPosting)
			}
			o.recordOutcome(ctx, scored.JobPosting, domain.StatusFailed)
			stats.ApplicationsFailed++
		}
	}

	// The report still gets written when the operator interrupts the run.
	o.writeReport(context.WithoutCancel(ctx), stats, appliedDescriptions)
	return stats, ctx.Err()
}

// authenticate tries every adapter and returns the ones with a session. A
// platform that fails to authenticate is skipped for the whole run.
func (o *Orchestrator) authenticate(ctx context.Context) []adapter.Adapter {
	var live []adapter.Adapter
	for _, a := range o.Adapters {
		if ctx.Err() != nil {
			return live
		}
		status, err := a.Authenticate(ctx)
		if err != nil {
			o.Logger.Warn("authentication error", "platform", a.Platform(), "error", err)
			continue
		}
		if status != domain.AuthAuthenticated {
			o.Logger.Warn("authentication failed, platform skipped", "platform", a.Platform())
			continue
		}
		live = append(live, a)
	}
	return live
}

// adapterFor routes a posting to the adapter that can apply to it. Email
// leads carry the platform in the URL, not in Source.
func (o *Orchestrator) adapterFor(live []adapter.Adapter, p domain.JobPosting) adapter.Adapter {
	want := p.Source
	if want == domain.PlatformEmail {
		if strings.Contains(strings.ToLower(p.URL), "linkedin.com") {
			want = domain.PlatformLinkedIn
		}
	}
	for _, a := range live {
		if a.Platform() == want {
			return a
		}
	}
	return nil
}

func (o *Orchestrator) recordOutcome(ctx context.Context, p domain.JobPosting, status domain.ApplicationStatus) {
	if err := o.Store.RecordOutcome(ctx, p, status); err != nil {
		o.Logger.Warn("record outcome failed", "url", p.URL, "status", status, "error", err)
	}
}

// screenshot captures the page after an unexpected failure so the operator
// can see what the flow saw.
func (o *Orchestrator) screenshot(ctx context.Context, p domain.JobPosting) {
	if o.Session == nil {
		return
	}
	png, err := o.Session.Screenshot(ctx)
	if err != nil {
		o.Logger.Debug("screenshot failed", "error", err)
		return
	}
	name := fmt.Sprintf("error_%s.png", o.clock().Format("20060102_150405"))
	path := filepath.Join(o.DataDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		o.Logger.Debug("screenshot write failed", "error", err)
		return
	}
	o.Logger.Info("error screenshot saved", "path", path, "url", p.URL)
}

func (o *Orchestrator) writeReport(ctx context.Context, stats report.Stats, descriptions []string) {
	recent, err := o.Store.AppliedSince(ctx, o.clock().AddDate(0, 0, -7))
	if err != nil {
		o.Logger.Warn("report: recent applications unavailable", "error", err)
	}
	r := report.Build(o.clock(), stats, recent, descriptions)
	path, err := r.Write(o.DataDir, o.clock())
	if err != nil {
		o.Logger.Warn("report write failed", "error", err)
		return
	}
	o.Logger.Info("report written", "path", path)
}
