package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"applypilot/internal/domain"
)

func TestTopSkills_CountsAndOrders(t *testing.T) {
	descriptions := []string{
		"We use Python, SQL and Docker in production on Linux.",
		"Python and Docker experience required. Kubernetes a plus.",
		"Docker all day.",
	}

	got := topSkills(descriptions)
	if len(got) == 0 {
		t.Fatal("no skills counted")
	}
	if got[0].Skill != "docker" || got[0].Mentions != 3 {
		t.Fatalf("top skill = %+v, want docker x3", got[0])
	}
	if got[1].Skill != "python" || got[1].Mentions != 2 {
		t.Fatalf("second skill = %+v, want python x2", got[1])
	}
	for _, sc := range got {
		if sc.Mentions == 0 {
			t.Fatalf("zero-mention skill reported: %+v", sc)
		}
	}
}

func TestTopSkills_CapsAtTen(t *testing.T) {
	desc := "python java c++ javascript html css react angular vue node express django"
	got := topSkills([]string{desc})
	if len(got) != 10 {
		t.Fatalf("got %d skills, want 10", len(got))
	}
}

func TestBuildAndWrite_RoundTrips(t *testing.T) {
	now := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	r := Build(now, Stats{
		JobsFound:             12,
		JobsFiltered:          4,
		ApplicationsAttempted: 3,
		ApplicationsCompleted: 2,
		ApplicationsFailed:    1,
	}, []domain.ApplicationRecord{{
		URL:         "https://example.test/jobs/1",
		Title:       "Junior Software Engineer",
		Company:     "Acme Corp",
		Source:      domain.PlatformLinkedIn,
		DateApplied: now.AddDate(0, 0, -1),
		Status:      domain.StatusApplied,
	}}, []string{"python and sql"})

	dir := t.TempDir()
	path, err := r.Write(dir, now)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "report_20260830.json" {
		t.Errorf("report filename = %q", filepath.Base(path))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Report
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Stats.JobsFound != 12 || len(got.RecentlyApplied) != 1 {
		t.Fatalf("report round trip lost data: %+v", got)
	}
	if got.Timestamp != "2026-08-30 09:30:00" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
}
