package boards

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"applypilot/internal/domain"
)

const boardPage = `<html><body>
  <a href="/acme/jobs/101">Junior Software Engineer</a>
  <a href="/acme/jobs/102">Staff Accountant</a>
  <a href="/acme/jobs/101">Junior Software Engineer</a>
  <a href="/about">About us</a>
</body></html>`

const postingPage = `<html><body>
  <h1>Junior Software Engineer</h1>
  <div class="location">Boston, MA</div>
  <div id="content">Entry level role. Python, SQL and Linux experience welcome.</div>
</body></html>`

func testAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := New([]Company{{Slug: "acme", Name: "Acme Corp"}},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.baseURL = srv.URL
	a.limiter = newHostLimiter(1000, 1000)
	return a
}

func TestSearch_FindsMatchingPostings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/acme", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, boardPage)
	})
	mux.HandleFunc("/acme/jobs/101", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, postingPage)
	})
	a := testAdapter(t, mux)

	postings, err := a.Search(context.Background(), "engineer", "Remote")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("got %d postings, want 1 (dedupe + keyword filter): %+v", len(postings), postings)
	}

	p := postings[0]
	if p.Title != "Junior Software Engineer" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Errorf("company = %q", p.Company)
	}
	if p.Source != domain.PlatformGreenhouse {
		t.Errorf("source = %v", p.Source)
	}
	if p.Location != "Boston, MA" {
		t.Errorf("location = %q, want the posting page to win", p.Location)
	}
	if p.Description == "" {
		t.Error("description not hydrated")
	}
}

func TestSearch_BoardDownReturnsPartial(t *testing.T) {
	a := testAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	postings, err := a.Search(context.Background(), "engineer", "")
	if err != nil {
		t.Fatalf("a dead board must not fail the search: %v", err)
	}
	if len(postings) != 0 {
		t.Fatalf("got %d postings from a dead board", len(postings))
	}
}

func TestApply_AlwaysHandsOff(t *testing.T) {
	a := testAdapter(t, http.NewServeMux())

	if got := a.Apply(context.Background(), domain.JobPosting{}); got != domain.OutcomeComplexBailout {
		t.Fatalf("outcome = %v, want %v", got, domain.OutcomeComplexBailout)
	}
	status, err := a.Authenticate(context.Background())
	if err != nil || status != domain.AuthAuthenticated {
		t.Fatalf("authenticate = %v, %v", status, err)
	}
}
