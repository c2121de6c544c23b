package dedup

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"applypilot/internal/domain"
)

var ctx = context.Background()

func testPosting(url string) domain.JobPosting {
	return domain.JobPosting{
		URL:     url,
		Title:   "Junior Software Engineer",
		Company: "Acme",
		Source:  domain.PlatformLinkedIn,
	}
}

func TestRecordSuccess_ThenHasApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ok, err := s.HasApplied(ctx, "https://example.com/jobs/1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("HasApplied true before any record")
	}

	if err := s.RecordSuccess(context.Background(), testPosting("https://example.com/jobs/1")); err != nil {
		t.Fatalf("record: %v", err)
	}

	ok, err = s.HasApplied(ctx, "https://example.com/jobs/1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("HasApplied false after RecordSuccess")
	}
}

func TestAppliedOnce_DoubleRecordKeepsOneRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p := testPosting("https://example.com/jobs/2")
	for i := 0; i < 3; i++ {
		if err := s.RecordSuccess(context.Background(), p); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	recs, err := s.AppliedSince(ctx, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d applied records for one URL, want 1", len(recs))
	}
}

func TestHasApplied_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RecordSuccess(context.Background(), testPosting("https://example.com/jobs/3")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Simulated process restart.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	ok, err := s2.HasApplied(ctx, "https://example.com/jobs/3")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("applied record lost across reopen")
	}
}

func TestRecordOutcome_FailedDoesNotDedup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p := testPosting("https://example.com/jobs/4")
	if err := s.RecordOutcome(context.Background(), p, domain.StatusFailed); err != nil {
		t.Fatal(err)
	}

	ok, err := s.HasApplied(ctx, p.URL)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("failed record must not mark URL as applied")
	}

	// A later success on the same URL is still allowed.
	if err := s.RecordSuccess(context.Background(), p); err != nil {
		t.Fatalf("success after failure: %v", err)
	}
	ok, _ = s.HasApplied(ctx, p.URL)
	if !ok {
		t.Fatal("success after failure not recorded")
	}
}

func TestAppliedSince_CutoffAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applied.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, u := range []string{"https://a.example/1", "https://a.example/2"} {
		if err := s.RecordSuccess(context.Background(), testPosting(u)); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.AppliedSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	recs, err = s.AppliedSince(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("future cutoff returned %d records, want 0", len(recs))
	}
}
