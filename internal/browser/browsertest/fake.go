// Package browsertest provides a scripted in-memory browser.Session for
// exercising adapters, the captcha gate, and the apply flow without a real
// browser.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Fake is a browser.Session whose page state is plain data. Tests mutate the
// fields directly or via the OnNavigate/OnClick hooks to script a flow.
type Fake struct {
	mu sync.Mutex

	URL      string
	HTML     string
	BodyText string

	// Present lists the selectors that currently exist on the page.
	Present map[string]bool
	// Values maps selector to current input value.
	Values map[string]string
	// SelectMatches maps selector to true if SelectOption should report a hit.
	SelectMatches map[string]bool

	// OnNavigate runs after each Navigate with the target URL.
	OnNavigate func(url string)
	// OnClick runs after each successful Click with the selector.
	OnClick func(selector string)

	Typed       map[string]string
	Uploaded    map[string]string
	Clicked     []string
	Screenshots int
	Closed      bool
}

func New() *Fake {
	return &Fake{
		Present:       make(map[string]bool),
		Values:        make(map[string]string),
		SelectMatches: make(map[string]bool),
		Typed:         make(map[string]string),
		Uploaded:      make(map[string]string),
	}
}

func (f *Fake) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	f.URL = url
	hook := f.OnNavigate
	f.mu.Unlock()
	if hook != nil {
		hook(url)
	}
	return nil
}

func (f *Fake) Location(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.URL, nil
}

func (f *Fake) PageHTML(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.HTML, nil
}

func (f *Fake) PageText(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.BodyText, nil
}

func (f *Fake) Exists(_ context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Present[selector], nil
}

func (f *Fake) Value(_ context.Context, selector string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Values[selector], nil
}

func (f *Fake) Click(_ context.Context, selector string) error {
	f.mu.Lock()
	if !f.Present[selector] {
		f.mu.Unlock()
		return fmt.Errorf("click %s: no such element", selector)
	}
	f.Clicked = append(f.Clicked, selector)
	hook := f.OnClick
	f.mu.Unlock()
	if hook != nil {
		hook(selector)
	}
	return nil
}

func (f *Fake) ClickAll(_ context.Context, selector string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Present[selector] {
		return 0, nil
	}
	f.Clicked = append(f.Clicked, selector)
	return 1, nil
}

func (f *Fake) Type(_ context.Context, selector, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Present[selector] {
		return fmt.Errorf("type into %s: no such element", selector)
	}
	f.Typed[selector] += text
	f.Values[selector] += text
	return nil
}

func (f *Fake) SelectOption(_ context.Context, selector string, _ []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.SelectMatches[selector], nil
}

func (f *Fake) Upload(_ context.Context, selector, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.Present[selector] {
		return fmt.Errorf("upload to %s: no such element", selector)
	}
	f.Uploaded[selector] = path
	return nil
}

func (f *Fake) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	f.mu.Lock()
	ok := f.Present[selector]
	f.mu.Unlock()
	if ok {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(timeout):
		return fmt.Errorf("wait for %s: timed out", selector)
	}
}

func (f *Fake) Screenshot(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Screenshots++
	return []byte("png"), nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// SetPresent marks selectors as existing on the page.
func (f *Fake) SetPresent(selectors ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range selectors {
		f.Present[s] = true
	}
}

// SetAbsent removes selectors from the page.
func (f *Fake) SetAbsent(selectors ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range selectors {
		delete(f.Present, s)
	}
}

// HasClicked reports whether selector was clicked at least once.
func (f *Fake) HasClicked(selector string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Clicked {
		if strings.EqualFold(c, selector) {
			return true
		}
	}
	return false
}
