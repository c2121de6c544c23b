package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"applypilot/internal/applyflow"
	"applypilot/internal/browser"
	"applypilot/internal/domain"
	"applypilot/internal/secrets"
)

// AuthSpec describes a platform's login flow.
type AuthSpec struct {
	// HomeURL is loaded first to probe whether a previous session is alive.
	HomeURL string
	// LoggedInMarker is present when a session exists.
	LoggedInMarker string
	// LandingURLHint is a URL fragment indicating an authenticated landing.
	LandingURLHint string

	LoginURL     string
	UserField    string
	PassField    string
	SubmitButton string
	// TwoStep logins submit the username alone first, then wait for the
	// password field to render on the next screen.
	TwoStep bool
}

// SearchSpec describes a platform's search page and result cards.
type SearchSpec struct {
	BuildURL func(keyword, location string) string
	// BaseURL prefixes relative result links.
	BaseURL string
	// ResultsMarker is present once results have rendered.
	ResultsMarker string

	Card       string
	TitleSel   string
	CompanySel string
	LinkSel    string
}

// Profile is everything platform-specific about a browser-driven job board:
// where to log in, how to search, and where the application flow lives. The
// selector values churn with the remote UI and are supplied as data; the
// logic around them never changes per platform.
type Profile struct {
	Platform domain.Platform
	Auth     AuthSpec
	Search   SearchSpec
	Flow     applyflow.Selectors
	Fields   FieldSelectors
}

// Browser is the shared adapter implementation for platforms driven through
// the live browser session. One instance per platform, all sharing the one
// session the orchestrator owns.
type Browser struct {
	prof    Profile
	session browser.Session
	gate    applyflow.Gate
	creds   CredentialSource
	filler  *FormFiller
	logger  *slog.Logger

	gateMaxWait time.Duration

	// PageWait bounds waiting for forms and result lists to render.
	PageWait time.Duration
	// LoginWait bounds waiting for the post-submit authenticated landing.
	LoginWait time.Duration
	// loginPoll paces the landing probe loop.
	loginPoll time.Duration
}

func NewBrowser(prof Profile, session browser.Session, gate applyflow.Gate, creds CredentialSource, op Operator, gateMaxWait time.Duration, logger *slog.Logger) *Browser {
	return &Browser{
		prof:    prof,
		session: session,
		gate:    gate,
		creds:   creds,
		filler:  &FormFiller{Operator: op, Fields: prof.Fields, Logger: logger},
		logger:  logger.With("platform", prof.Platform),

		gateMaxWait: gateMaxWait,

		PageWait:  10 * time.Second,
		LoginWait: 15 * time.Second,
		loginPoll: time.Second,
	}
}

func (b *Browser) Platform() domain.Platform { return b.prof.Platform }

var errChallengeTimeout = errors.New("challenge not resolved within wait bound")

// clear runs the captcha gate before a remote interaction.
func (b *Browser) clear(ctx context.Context) bool {
	return b.gate.AwaitResolution(ctx, b.gateMaxWait)
}

// loggedIn probes the current page for an authenticated session.
func (b *Browser) loggedIn(ctx context.Context) bool {
	if b.prof.Auth.LoggedInMarker != "" {
		if ok, _ := b.session.Exists(ctx, b.prof.Auth.LoggedInMarker); ok {
			return true
		}
	}
	if b.prof.Auth.LandingURLHint != "" {
		if loc, err := b.session.Location(ctx); err == nil &&
			strings.Contains(strings.ToLower(loc), b.prof.Auth.LandingURLHint) {
			return true
		}
	}
	return false
}

func (b *Browser) Authenticate(ctx context.Context) (domain.AuthStatus, error) {
	creds, err := b.creds.GetCredentials(b.prof.Platform)
	if err != nil {
		if errors.Is(err, secrets.ErrNoCredentials) {
			b.logger.Warn("no credentials stored, platform skipped")
			return domain.AuthFailed, nil
		}
		return domain.AuthFailed, err
	}

	if !b.clear(ctx) {
		return domain.AuthFailed, nil
	}

	// A previous run's session may still be alive in the browser profile.
	if err := b.session.Navigate(ctx, b.prof.Auth.HomeURL); err != nil {
		return domain.AuthFailed, nil
	}
	if b.loggedIn(ctx) {
		b.logger.Info("session reused")
		return domain.AuthAuthenticated, nil
	}

	if err := b.session.Navigate(ctx, b.prof.Auth.LoginURL); err != nil {
		return domain.AuthFailed, nil
	}
	if err := b.session.WaitVisible(ctx, b.prof.Auth.UserField, b.PageWait); err != nil {
		b.logger.Warn("login form not found", "error", err)
		return domain.AuthFailed, nil
	}
	if err := b.session.Type(ctx, b.prof.Auth.UserField, creds.Username); err != nil {
		return domain.AuthFailed, nil
	}
	if b.prof.Auth.TwoStep {
		if err := b.session.Click(ctx, b.prof.Auth.SubmitButton); err != nil {
			return domain.AuthFailed, nil
		}
		if err := b.session.WaitVisible(ctx, b.prof.Auth.PassField, b.PageWait); err != nil {
			b.logger.Warn("password screen not reached", "error", err)
			return domain.AuthFailed, nil
		}
	}
	if err := b.session.Type(ctx, b.prof.Auth.PassField, creds.Password); err != nil {
		return domain.AuthFailed, nil
	}
	if err := b.session.Click(ctx, b.prof.Auth.SubmitButton); err != nil {
		return domain.AuthFailed, nil
	}

	// A challenge right after submit is common; give the operator a chance.
	if !b.clear(ctx) {
		return domain.AuthFailed, nil
	}

	deadline := time.Now().Add(b.LoginWait)
	for {
		if b.loggedIn(ctx) {
			b.logger.Info("authenticated")
			return domain.AuthAuthenticated, nil
		}
		if !time.Now().Before(deadline) || ctx.Err() != nil {
			b.logger.Warn("login did not reach an authenticated landing state")
			return domain.AuthFailed, nil
		}
		select {
		case <-ctx.Done():
		case <-time.After(b.loginPoll):
		}
	}
}

func (b *Browser) Search(ctx context.Context, keyword, location string) ([]domain.JobPosting, error) {
	if !b.clear(ctx) {
		return nil, fmt.Errorf("search %q/%q: %w", keyword, location, errChallengeTimeout)
	}

	u := b.prof.Search.BuildURL(keyword, location)
	if err := b.session.Navigate(ctx, u); err != nil {
		return nil, fmt.Errorf("search navigate: %w", err)
	}
	if err := b.session.WaitVisible(ctx, b.prof.Search.ResultsMarker, b.PageWait); err != nil {
		// No results container at all: treat as zero results.
		b.logger.Debug("no results rendered", "keyword", keyword, "location", location)
		return nil, nil
	}

	html, err := b.session.PageHTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("search page html: %w", err)
	}
	return b.parseResults(html, keyword, location), nil
}

// parseResults extracts postings from the rendered results page. A card
// missing its required fields is dropped, not an error.
func (b *Browser) parseResults(html, keyword, location string) []domain.JobPosting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		b.logger.Warn("results parse failed", "error", err)
		return nil
	}

	spec := b.prof.Search
	var out []domain.JobPosting
	seen := map[string]bool{}

	doc.Find(spec.Card).Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find(spec.TitleSel).First().Text())
		company := cleanText(card.Find(spec.CompanySel).First().Text())
		href, _ := card.Find(spec.LinkSel).First().Attr("href")
		href = strings.TrimSpace(href)

		if title == "" || href == "" {
			b.logger.Debug("skipping unparseable result card", "title", title, "href", href)
			return
		}
		if strings.HasPrefix(href, "/") {
			href = spec.BaseURL + href
		}
		if seen[href] {
			return
		}
		seen[href] = true

		out = append(out, domain.JobPosting{
			URL:             href,
			Title:           title,
			Company:         company,
			Source:          b.prof.Platform,
			Location:        location,
			DiscoveredAt:    time.Now(),
			MatchedKeywords: []string{keyword},
		})
	})
	return out
}

func (b *Browser) Apply(ctx context.Context, posting domain.JobPosting) domain.AttemptOutcome {
	r := &applyflow.Runner{
		Session:     b.session,
		Gate:        b.gate,
		Filler:      b.filler,
		Sel:         b.prof.Flow,
		Logger:      b.logger,
		GateMaxWait: b.gateMaxWait,
		PageWait:    b.PageWait,
	}
	attempt := r.Run(ctx, posting)

	log := b.logger.With("title", posting.Title, "company", posting.Company, "url", posting.URL)
	if attempt.LastErr != nil {
		log.Warn("application attempt finished",
			"state", attempt.State, "steps", attempt.StepCount, "error", attempt.LastErr)
	} else {
		log.Info("application attempt finished",
			"state", attempt.State, "steps", attempt.StepCount)
	}
	return attempt.State.Outcome()
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
