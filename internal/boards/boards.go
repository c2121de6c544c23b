// Package boards discovers postings on public company career boards over
// plain HTTP. Boards need no login and no browser, so they run concurrently,
// and applying to them always means an off-site form we leave to the operator.
package boards

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"applypilot/internal/domain"
)

// Company is one board: boards.greenhouse.io/<slug>.
type Company struct {
	Slug string
	Name string
}

type Adapter struct {
	companies []Company
	hc        *http.Client
	limiter   *hostLimiter
	logger    *slog.Logger

	// baseURL is overridable for tests.
	baseURL string
}

const userAgent = "applypilot/1.0 (+local)"

func New(companies []Company, logger *slog.Logger) *Adapter {
	return &Adapter{
		companies: companies,
		hc:        &http.Client{Timeout: 20 * time.Second},
		limiter:   newHostLimiter(2, 2),
		logger:    logger.With("platform", domain.PlatformGreenhouse),
		baseURL:   "https://boards.greenhouse.io",
	}
}

func (a *Adapter) Platform() domain.Platform { return domain.PlatformGreenhouse }

// Authenticate is trivially successful: public boards have no login.
func (a *Adapter) Authenticate(context.Context) (domain.AuthStatus, error) {
	return domain.AuthAuthenticated, nil
}

// Apply never submits: board postings hand off to an employer-owned form we
// refuse to drive blind. The posting still reaches the operator through the
// run report.
func (a *Adapter) Apply(context.Context, domain.JobPosting) domain.AttemptOutcome {
	return domain.OutcomeComplexBailout
}

// Search fetches every configured board concurrently and keeps the postings
// whose title mentions keyword. Location is advisory only: boards list all
// offices on the posting itself. One board being down never fails the rest.
func (a *Adapter) Search(ctx context.Context, keyword, location string) ([]domain.JobPosting, error) {
	var (
		mu  sync.Mutex
		out []domain.JobPosting
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, co := range a.companies {
		g.Go(func() error {
			jobs, err := a.fetchCompany(gctx, co, keyword)
			if err != nil {
				a.logger.Warn("board fetch failed", "board", co.Slug, "error", err)
				return nil
			}
			mu.Lock()
			out = append(out, jobs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	for i := range out {
		out[i].Location = firstNonEmpty(out[i].Location, location)
	}
	return out, nil
}

func (a *Adapter) fetchCompany(ctx context.Context, co Company, keyword string) ([]domain.JobPosting, error) {
	boardURL := fmt.Sprintf("%s/%s", a.baseURL, co.Slug)
	doc, err := a.get(ctx, boardURL)
	if err != nil {
		return nil, err
	}

	name := co.Name
	if name == "" {
		name = co.Slug
	}
	kw := strings.ToLower(keyword)
	seen := map[string]bool{}

	var jobs []domain.JobPosting
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href := strings.TrimSpace(anchor.AttrOr("href", ""))
		if href == "" {
			return
		}
		if strings.HasPrefix(href, "/") {
			href = a.baseURL + href
		}
		if !strings.Contains(strings.ToLower(href), "/jobs/") {
			return
		}
		if seen[href] {
			return
		}
		seen[href] = true

		title := cleanText(anchor.Text())
		if title == "" || !strings.Contains(strings.ToLower(title), kw) {
			return
		}

		jobs = append(jobs, domain.JobPosting{
			URL:             href,
			Title:           title,
			Company:         name,
			Source:          domain.PlatformGreenhouse,
			DiscoveredAt:    time.Now(),
			MatchedKeywords: []string{keyword},
		})
	})

	// Posting pages carry the location and the full description, which the
	// filter pipeline scores on. Hydrate errors leave the minimal entry.
	for i := range jobs {
		if err := a.hydrate(ctx, &jobs[i]); err != nil {
			a.logger.Debug("posting hydrate failed", "url", jobs[i].URL, "error", err)
		}
	}
	return jobs, nil
}

func (a *Adapter) hydrate(ctx context.Context, p *domain.JobPosting) error {
	doc, err := a.get(ctx, p.URL)
	if err != nil {
		return err
	}
	if t := cleanText(doc.Find("h1").First().Text()); t != "" {
		p.Title = t
	}
	if loc := cleanText(doc.Find(".location").First().Text()); loc != "" {
		p.Location = loc
	}
	if desc := cleanText(doc.Find("#content").First().Text()); desc != "" {
		p.Description = desc
	} else if body := cleanText(doc.Find("body").First().Text()); body != "" {
		p.Description = body
	}
	return nil
}

func (a *Adapter) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := a.limiter.waitURL(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("board get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("board status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("board parse html: %w", err)
	}
	return doc, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
