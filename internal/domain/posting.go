package domain

import "time"

// Platform identifies a job board we know how to talk to.
type Platform string

const (
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformGlassdoor  Platform = "glassdoor"
	PlatformGreenhouse Platform = "greenhouse"
	PlatformEmail      Platform = "email"
)

// JobPosting is one discovered posting. The URL is its identity: unique per
// platform and, in practice, globally. Immutable once discovered within a run.
type JobPosting struct {
	URL             string
	Title           string
	Company         string
	Source          Platform
	Location        string
	Description     string // possibly empty
	DiscoveredAt    time.Time
	MatchedKeywords []string
}

// ScoredPosting is a posting that survived filtering, annotated with its
// skill match count and entry-level classification.
type ScoredPosting struct {
	JobPosting
	SkillScore int
	EntryLevel bool
}
