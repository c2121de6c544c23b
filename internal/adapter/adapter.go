// Package adapter defines the capability contract a job platform must
// satisfy, plus the shared browser-backed implementation the concrete
// platforms parameterize with their selector profiles.
package adapter

import (
	"context"

	"applypilot/internal/domain"
	"applypilot/internal/secrets"
)

// Adapter is the full capability set for one platform. The orchestrator
// depends on nothing below this interface.
type Adapter interface {
	Platform() domain.Platform

	// Authenticate establishes (or reuses) a session. "Not authenticated" is
	// a status, not an error; the error return is for infrastructure
	// failures only.
	Authenticate(ctx context.Context) (domain.AuthStatus, error)

	// Search returns postings for one keyword/location pair. Zero results is
	// an empty slice. Postings that cannot be parsed are skipped, not
	// reported as errors.
	Search(ctx context.Context, keyword, location string) ([]domain.JobPosting, error)

	// Apply drives one application to a terminal outcome. It never hangs
	// indefinitely: a remote UI that doesn't match expectations yields
	// OutcomeComplexBailout or OutcomeAdapterError.
	Apply(ctx context.Context, posting domain.JobPosting) domain.AttemptOutcome
}

// CredentialSource supplies platform logins. Implemented by secrets.Keychain.
type CredentialSource interface {
	GetCredentials(p domain.Platform) (secrets.Credentials, error)
}
