package main

import (
	"testing"
	"time"

	"applypilot/internal/domain"
)

func TestFormatRecord_PlainASCII(t *testing.T) {
	r := domain.ApplicationRecord{
		URL:         "https://li.test/jobs/1",
		Title:       "Junior Software Engineer",
		Company:     "Acme Corp",
		Source:      domain.PlatformLinkedIn,
		DateApplied: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Status:      domain.StatusApplied,
	}

	got := formatRecord(r)
	want := "2026-08-30  linkedin    Junior Software Engineer at Acme Corp"
	if got != want {
		t.Errorf("formatRecord = %q, want %q", got, want)
	}
	for _, c := range got {
		if c > 127 {
			t.Errorf("non-ASCII %q in output line %q", c, got)
		}
	}
}
