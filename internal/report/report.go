// Package report summarizes a run: counts, recent applications, and which
// skills the applied-to postings asked for most.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"applypilot/internal/domain"
)

// Stats are the run counters.
type Stats struct {
	JobsFound             int `json:"jobs_found"`
	JobsFiltered          int `json:"jobs_filtered"`
	ApplicationsAttempted int `json:"applications_attempted"`
	ApplicationsCompleted int `json:"applications_completed"`
	ApplicationsFailed    int `json:"applications_failed"`
}

type SkillCount struct {
	Skill    string `json:"skill"`
	Mentions int    `json:"mentions"`
}

type Report struct {
	Timestamp        string                     `json:"timestamp"`
	Stats            Stats                      `json:"stats"`
	RecentlyApplied  []domain.ApplicationRecord `json:"recently_applied"`
	MostCommonSkills []SkillCount               `json:"most_common_skills"`
}

// demandSkills is the vocabulary scanned for in posting descriptions. Wider
// than the resume skill list on purpose: the report shows market demand, not
// personal fit.
var demandSkills = []string{
	"python", "java", "c++", "javascript", "html", "css", "react",
	"angular", "vue", "node", "express", "django", "flask", "spring",
	"sql", "mysql", "postgresql", "mongodb", "nosql", "aws", "azure",
	"gcp", "cloud", "docker", "kubernetes", "ci/cd", "jenkins", "git",
	"github", "agile", "scrum", "jira", "linux", "windows", "macos",
	"rest", "api", "microservices", "embedded", "raspberry pi", "arduino",
}

const topSkillCount = 10

// Build assembles a report. recent should cover the last seven days of
// applications; descriptions are the posting texts applied to this run.
func Build(now time.Time, stats Stats, recent []domain.ApplicationRecord, descriptions []string) Report {
	return Report{
		Timestamp:        now.Format("2006-01-02 15:04:05"),
		Stats:            stats,
		RecentlyApplied:  recent,
		MostCommonSkills: topSkills(descriptions),
	}
}

// topSkills counts vocabulary hits across descriptions and keeps the ten most
// mentioned. Ties keep vocabulary order.
func topSkills(descriptions []string) []SkillCount {
	counts := make([]SkillCount, 0, len(demandSkills))
	for _, skill := range demandSkills {
		n := 0
		for _, desc := range descriptions {
			if strings.Contains(strings.ToLower(desc), skill) {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, SkillCount{Skill: skill, Mentions: n})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Mentions > counts[j].Mentions
	})
	if len(counts) > topSkillCount {
		counts = counts[:topSkillCount]
	}
	return counts
}

// Write saves the report as report_YYYYMMDD.json under dir and returns the
// full path.
func (r Report) Write(dir string, now time.Time) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report marshal: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("report_%s.json", now.Format("20060102")))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("report write: %w", err)
	}
	return path, nil
}
