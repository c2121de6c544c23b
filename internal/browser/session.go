package browser

import (
	"context"
	"time"
)

// Session is the one live browser page the orchestrator owns for the run.
// Adapters, the captcha gate, and the apply flow all talk to the page through
// this interface; nothing outside this package knows which driver backs it.
type Session interface {
	// Navigate loads url in the page.
	Navigate(ctx context.Context, url string) error
	// Location returns the page's current URL.
	Location(ctx context.Context) (string, error)
	// PageHTML returns the full document HTML.
	PageHTML(ctx context.Context) (string, error)
	// PageText returns the visible body text.
	PageText(ctx context.Context) (string, error)

	// Exists reports whether selector matches at least one element.
	Exists(ctx context.Context, selector string) (bool, error)
	// Value returns the current value of the first matching input.
	Value(ctx context.Context, selector string) (string, error)

	// Click clicks the first match.
	Click(ctx context.Context, selector string) error
	// ClickAll clicks every match and returns how many were clicked.
	ClickAll(ctx context.Context, selector string) (int, error)
	// Type sends text into the first match one keystroke at a time, pausing
	// between keys like a person would.
	Type(ctx context.Context, selector, text string) error
	// SelectOption picks the first option of a select element whose text
	// contains any of the given substrings (case-insensitive). Returns false
	// if nothing matched.
	SelectOption(ctx context.Context, selector string, optionContains []string) (bool, error)
	// Upload attaches a local file to the first matching file input.
	Upload(ctx context.Context, selector, path string) error

	// WaitVisible blocks until selector is visible or the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Screenshot captures the current viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	Close() error
}
