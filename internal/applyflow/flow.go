// Package applyflow drives one job posting through a platform's multi-step
// application form to a terminal outcome.
package applyflow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"applypilot/internal/browser"
	"applypilot/internal/domain"
)

// State of one in-flight application attempt.
type State int

const (
	StateNotStarted State = iota
	StatePageLoaded
	StateAlreadyApplied
	StateStepInProgress
	StateAwaitingSubmit
	StateConfirmed
	StateComplexBailout
	StateTimedOut
	StateAdapterError
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StatePageLoaded:
		return "page_loaded"
	case StateAlreadyApplied:
		return "already_applied"
	case StateStepInProgress:
		return "step_in_progress"
	case StateAwaitingSubmit:
		return "awaiting_submit"
	case StateConfirmed:
		return "confirmed"
	case StateComplexBailout:
		return "complex_bailout"
	case StateTimedOut:
		return "timed_out"
	default:
		return "adapter_error"
	}
}

// Terminal reports whether no further transition can occur from s.
func (s State) Terminal() bool {
	switch s {
	case StateAlreadyApplied, StateConfirmed, StateComplexBailout, StateTimedOut, StateAdapterError:
		return true
	}
	return false
}

// Outcome maps a terminal state to the adapter-level attempt outcome.
func (s State) Outcome() domain.AttemptOutcome {
	switch s {
	case StateAlreadyApplied:
		return domain.OutcomeAlreadyApplied
	case StateConfirmed:
		return domain.OutcomeConfirmed
	case StateComplexBailout:
		return domain.OutcomeComplexBailout
	case StateTimedOut:
		return domain.OutcomeTimeout
	default:
		return domain.OutcomeAdapterError
	}
}

// Attempt is the ephemeral record of one run through the flow.
type Attempt struct {
	Posting   domain.JobPosting
	StepCount int
	State     State
	LastErr   error
}

// Selectors describes where a platform's application flow lives on the page.
// Concrete values are supplied per platform; the flow logic never changes.
type Selectors struct {
	// JobHeader marks the posting detail page as loaded.
	JobHeader string
	// AppliedMarker, when present, means the platform already has an
	// application from us for this posting.
	AppliedMarker string
	// ApplyButton starts the application.
	ApplyButton string
	// EasyApplyButton, when set, must appear after ApplyButton and be clicked
	// before the form opens. Platforms that offer a choice between an on-site
	// and an external application gate the form behind it; when it never
	// appears, only the external path is offered and the attempt is skipped.
	EasyApplyButton string
	// FormRoot marks the application form as open.
	FormRoot string
	// ContinueButton advances to the next step.
	ContinueButton string
	// SubmitButton finishes the application.
	SubmitButton string
	// ConfirmationMarker appears once the submission is accepted.
	ConfirmationMarker string
	// ConfirmationURLHints are URL fragments that also signal acceptance.
	ConfirmationURLHints []string
	// ComplexMarkers indicate open-ended questions we refuse to answer
	// (free-text essays and the like).
	ComplexMarkers []string
	// ExternalPhrases in the page text indicate an off-platform application.
	ExternalPhrases []string
}

// Gate suspends the flow while an anti-automation challenge is up.
type Gate interface {
	AwaitResolution(ctx context.Context, maxWait time.Duration) bool
}

// Filler fills every recognized input on the current form step, best-effort.
type Filler interface {
	FillStep(ctx context.Context, session browser.Session) error
}

// Runner executes the application state machine against a page session.
type Runner struct {
	Session browser.Session
	Gate    Gate
	Filler  Filler
	Sel     Selectors
	Logger  *slog.Logger

	// GateMaxWait bounds each human-in-the-loop challenge wait.
	GateMaxWait time.Duration
	// PageWait bounds waiting for the detail page and the form to appear.
	PageWait time.Duration
	// ConfirmWait bounds waiting for the submission confirmation.
	ConfirmWait time.Duration
	// StepPause settles the page after a continue click.
	StepPause time.Duration
	// MaxSteps caps the continue loop. Forms vary in length, so the loop has
	// no fixed count, but it must never run unbounded against a live site.
	MaxSteps int
}

func (r *Runner) defaults() {
	if r.PageWait <= 0 {
		r.PageWait = 10 * time.Second
	}
	if r.ConfirmWait <= 0 {
		r.ConfirmWait = 10 * time.Second
	}
	if r.StepPause <= 0 {
		r.StepPause = 2 * time.Second
	}
	if r.MaxSteps <= 0 {
		r.MaxSteps = 20
	}
}

// clear runs the captcha gate before a remote interaction. False means the
// challenge outlived its wait bound and the attempt must be abandoned.
func (r *Runner) clear(ctx context.Context) bool {
	return r.Gate.AwaitResolution(ctx, r.GateMaxWait)
}

func (r *Runner) pause(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Run drives posting through the flow and returns the finished attempt. The
// attempt's state is always terminal on return.
func (r *Runner) Run(ctx context.Context, posting domain.JobPosting) Attempt {
	r.defaults()
	a := Attempt{Posting: posting, State: StateNotStarted}

	fail := func(s State, err error) Attempt {
		a.State = s
		a.LastErr = err
		return a
	}

	// NotStarted -> PageLoaded
	if !r.clear(ctx) {
		return fail(StateAdapterError, errChallengeTimeout)
	}
	if err := r.Session.Navigate(ctx, posting.URL); err != nil {
		return fail(StateAdapterError, err)
	}
	if err := r.Session.WaitVisible(ctx, r.Sel.JobHeader, r.PageWait); err != nil {
		return fail(StateAdapterError, err)
	}
	a.State = StatePageLoaded

	// PageLoaded -> AlreadyApplied. The platform's own marker wins over our
	// records: the operator may have applied by hand, or a prior run's record
	// may be gone. Either way, never resubmit.
	if r.Sel.AppliedMarker != "" {
		if ok, _ := r.Session.Exists(ctx, r.Sel.AppliedMarker); ok {
			a.State = StateAlreadyApplied
			return a
		}
	}

	// PageLoaded -> StepInProgress
	if !r.clear(ctx) {
		return fail(StateAdapterError, errChallengeTimeout)
	}
	if err := r.Session.WaitVisible(ctx, r.Sel.ApplyButton, r.PageWait); err != nil {
		return fail(StateAdapterError, err)
	}
	if err := r.Session.Click(ctx, r.Sel.ApplyButton); err != nil {
		return fail(StateAdapterError, err)
	}
	if r.Sel.EasyApplyButton != "" {
		if err := r.Session.WaitVisible(ctx, r.Sel.EasyApplyButton, r.PageWait); err != nil {
			// Only the external path is offered.
			a.State = StateComplexBailout
			return a
		}
		if err := r.Session.Click(ctx, r.Sel.EasyApplyButton); err != nil {
			return fail(StateAdapterError, err)
		}
		r.pause(ctx, r.StepPause)
	}
	if r.Sel.FormRoot != "" {
		if err := r.Session.WaitVisible(ctx, r.Sel.FormRoot, r.PageWait); err != nil {
			return fail(StateAdapterError, err)
		}
	}
	a.State = StateStepInProgress

	for a.StepCount < r.MaxSteps {
		if ctx.Err() != nil {
			return fail(StateAdapterError, ctx.Err())
		}
		if !r.clear(ctx) {
			return fail(StateAdapterError, errChallengeTimeout)
		}

		// Best-effort: a step without recognizable fields is fine.
		if err := r.Filler.FillStep(ctx, r.Session); err != nil {
			r.Logger.Debug("form fill", "step", a.StepCount, "error", err)
		}

		if ok, _ := r.Session.Exists(ctx, r.Sel.ContinueButton); ok {
			if err := r.Session.Click(ctx, r.Sel.ContinueButton); err != nil {
				return fail(StateAdapterError, err)
			}
			a.StepCount++
			r.pause(ctx, r.StepPause)
			continue
		}

		if ok, _ := r.Session.Exists(ctx, r.Sel.SubmitButton); ok {
			a.State = StateAwaitingSubmit
			if err := r.Session.Click(ctx, r.Sel.SubmitButton); err != nil {
				return fail(StateAdapterError, err)
			}
			if r.confirmed(ctx) {
				a.State = StateConfirmed
				return a
			}
			return fail(StateTimedOut, errConfirmationTimeout)
		}

		// Neither continue nor submit: either a flow we deliberately skip,
		// or a page shape we don't understand.
		if r.complex(ctx) {
			a.State = StateComplexBailout
			return a
		}
		return fail(StateAdapterError, errUnexpectedForm)
	}

	return fail(StateAdapterError, errStepLimit)
}

// confirmed polls for the confirmation signal within ConfirmWait.
func (r *Runner) confirmed(ctx context.Context) bool {
	deadline := time.Now().Add(r.ConfirmWait)
	for {
		if r.Sel.ConfirmationMarker != "" {
			if ok, _ := r.Session.Exists(ctx, r.Sel.ConfirmationMarker); ok {
				return true
			}
		}
		if len(r.Sel.ConfirmationURLHints) > 0 {
			if loc, err := r.Session.Location(ctx); err == nil {
				lower := strings.ToLower(loc)
				for _, hint := range r.Sel.ConfirmationURLHints {
					if strings.Contains(lower, hint) {
						return true
					}
				}
			}
		}
		if !time.Now().Before(deadline) || ctx.Err() != nil {
			return false
		}
		r.pause(ctx, 500*time.Millisecond)
	}
}

// complex looks for the signs of an application we intentionally skip:
// essay-style questions or a hand-off to an external site.
func (r *Runner) complex(ctx context.Context) bool {
	for _, sel := range r.Sel.ComplexMarkers {
		if ok, _ := r.Session.Exists(ctx, sel); ok {
			return true
		}
	}
	if len(r.Sel.ExternalPhrases) == 0 {
		return false
	}
	text, err := r.Session.PageText(ctx)
	if err != nil {
		return false
	}
	lower := strings.ToLower(text)
	for _, p := range r.Sel.ExternalPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
