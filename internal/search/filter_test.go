package search

import (
	"context"
	"testing"

	"applypilot/internal/domain"
)

type appliedSet map[string]bool

func (s appliedSet) HasApplied(_ context.Context, url string) (bool, error) {
	return s[url], nil
}

func TestFilter_KeepsEntryLevelWithSkills(t *testing.T) {
	postings := []domain.JobPosting{{
		URL:         "https://example.test/jobs/1",
		Title:       "Junior Software Engineer",
		Description: "We want python, sql and linux experience.",
	}}

	got, err := Filter(context.Background(), postings, appliedSet{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d postings, want 1", len(got))
	}
	if got[0].SkillScore != 3 {
		t.Errorf("skill score = %d, want 3 (python, sql, linux)", got[0].SkillScore)
	}
	if !got[0].EntryLevel {
		t.Error("entry level flag not set")
	}
}

func TestFilter_DropsSeniorRoles(t *testing.T) {
	postings := []domain.JobPosting{{
		URL:         "https://example.test/jobs/2",
		Title:       "Senior Python Engineer",
		Description: "python sql linux, 10+ years",
	}}

	got, err := Filter(context.Background(), postings, appliedSet{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("senior role kept: %+v", got)
	}
}

func TestFilter_EntryLevelFromDescriptionRange(t *testing.T) {
	postings := []domain.JobPosting{{
		URL:         "https://example.test/jobs/3",
		Title:       "Software Engineer",
		Description: "0-2 years of experience with python and sql.",
	}}

	got, err := Filter(context.Background(), postings, appliedSet{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("experience-range posting dropped")
	}
}

func TestFilter_DropsAppliedAndExcluded(t *testing.T) {
	postings := []domain.JobPosting{
		{
			URL:         "https://example.test/jobs/4",
			Title:       "Junior Software Engineer",
			Description: "python sql",
		},
		{
			URL:         "https://example.test/jobs/5",
			Title:       "Junior Software Engineer (Clearance Required)",
			Description: "python sql",
		},
	}
	applied := appliedSet{"https://example.test/jobs/4": true}

	got, err := Filter(context.Background(), postings, applied, []string{"clearance"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("applied or excluded posting kept: %+v", got)
	}
}

func TestFilter_RequiresTwoSkills(t *testing.T) {
	postings := []domain.JobPosting{{
		URL:         "https://example.test/jobs/6",
		Title:       "Junior Barista",
		Description: "latte art, python optional",
	}}

	got, err := Filter(context.Background(), postings, appliedSet{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("single-skill posting kept: %+v", got)
	}
}

func TestFilter_SortsByScoreStable(t *testing.T) {
	postings := []domain.JobPosting{
		{URL: "u1", Title: "Junior Engineer", Description: "python sql"},
		{URL: "u2", Title: "Junior Engineer", Description: "python sql linux github"},
		{URL: "u3", Title: "Junior Engineer", Description: "embedded linux"},
	}

	got, err := Filter(context.Background(), postings, appliedSet{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d postings, want 3", len(got))
	}
	if got[0].URL != "u2" {
		t.Errorf("highest score not first: %v", got[0].URL)
	}
	// u1 and u3 both score 2; discovery order decides.
	if got[1].URL != "u1" || got[2].URL != "u3" {
		t.Errorf("equal scores reordered: %v, %v", got[1].URL, got[2].URL)
	}
}
