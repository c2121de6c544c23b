package domain

import "time"

// ApplicationStatus is the persisted outcome of an application.
type ApplicationStatus string

const (
	StatusApplied ApplicationStatus = "applied"
	StatusFailed  ApplicationStatus = "failed"
	StatusSkipped ApplicationStatus = "skipped"
)

// ApplicationRecord is the durable record of one posting's outcome.
// At most one record with StatusApplied may ever exist per URL.
type ApplicationRecord struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	Source      Platform          `json:"source"`
	DateApplied time.Time         `json:"date_applied"`
	Status      ApplicationStatus `json:"status"`
}

// AuthStatus reports whether a platform session could be established.
// Re-derived at the start of every run, never persisted.
type AuthStatus int

const (
	AuthUnauthenticated AuthStatus = iota
	AuthAuthenticated
	AuthFailed
)

func (s AuthStatus) String() string {
	switch s {
	case AuthAuthenticated:
		return "authenticated"
	case AuthFailed:
		return "failed"
	default:
		return "unauthenticated"
	}
}

// AttemptOutcome is the terminal result of driving one application.
type AttemptOutcome int

const (
	OutcomeConfirmed AttemptOutcome = iota
	OutcomeAlreadyApplied
	OutcomeComplexBailout
	OutcomeTimeout
	OutcomeAdapterError
)

func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeAlreadyApplied:
		return "already_applied"
	case OutcomeComplexBailout:
		return "complex_bailout"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "adapter_error"
	}
}

// Success reports whether the outcome counts as a completed application.
func (o AttemptOutcome) Success() bool {
	return o == OutcomeConfirmed || o == OutcomeAlreadyApplied
}
