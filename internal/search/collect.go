// Package search gathers postings from every reachable source and narrows
// them down to the ones worth an application.
package search

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"applypilot/internal/adapter"
	"applypilot/internal/domain"
	"applypilot/internal/pace"
)

// LeadSource is a sessionless posting source, like the email alert inbox.
type LeadSource interface {
	Fetch(ctx context.Context) ([]domain.JobPosting, error)
}

// Pacer spaces actions per platform. Satisfied by pace.Limiter.
type Pacer interface {
	Wait(ctx context.Context, p domain.Platform, kind pace.ActionKind) error
}

// Collector fans searches out across platforms. Browser adapters all drive
// the one live session, so they run strictly in sequence under the pace
// limiter; lead sources have no session and run alongside.
type Collector struct {
	Adapters []adapter.Adapter
	Sources  []LeadSource
	Pace     Pacer
	Logger   *slog.Logger
}

// Collect runs every keyword and location pair against every adapter and
// pulls every lead source. Failures are logged and cost only their own
// results. The returned postings are unique by URL, first discovery wins.
func (c *Collector) Collect(ctx context.Context, keywords, locations []string) ([]domain.JobPosting, error) {
	var (
		mu  sync.Mutex
		all []domain.JobPosting
	)
	add := func(postings []domain.JobPosting) {
		mu.Lock()
		all = append(all, postings...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for _, a := range c.Adapters {
			for _, keyword := range keywords {
				for _, location := range locations {
					if err := c.Pace.Wait(gctx, a.Platform(), pace.ActionSearch); err != nil {
						return err
					}
					postings, err := a.Search(gctx, keyword, location)
					if err != nil {
						c.Logger.Warn("search failed",
							"platform", a.Platform(), "keyword", keyword, "location", location,
							"error", err)
						continue
					}
					c.Logger.Info("search done",
						"platform", a.Platform(), "keyword", keyword, "location", location,
						"postings", len(postings))
					add(postings)
				}
			}
		}
		return nil
	})

	for _, src := range c.Sources {
		g.Go(func() error {
			postings, err := src.Fetch(gctx)
			if err != nil {
				c.Logger.Warn("lead source failed", "error", err)
				return nil
			}
			add(postings)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uniqueByURL(all), nil
}

func uniqueByURL(postings []domain.JobPosting) []domain.JobPosting {
	seen := make(map[string]bool, len(postings))
	out := postings[:0]
	for _, p := range postings {
		if p.URL == "" || seen[p.URL] {
			continue
		}
		seen[p.URL] = true
		out = append(out, p)
	}
	return out
}
