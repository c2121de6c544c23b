package search

import (
	"context"
	"sort"
	"strings"

	"applypilot/internal/domain"
)

// entryTitlePhrases mark a posting as entry level from the title alone.
var entryTitlePhrases = []string{
	"entry level", "entry-level", "new grad", "junior",
	"associate", "university grad", "recent graduate",
}

// entryDescPhrases extend the title set with experience ranges that only
// show up in descriptions.
var entryDescPhrases = append(entryTitlePhrases,
	"0-2 years", "0-1 years", "1-2 years",
)

// skills is the resume skill vocabulary scored against title and description.
var skills = []string{
	"python", "java", "c++", "javascript", "sql", "mysql",
	"embedded", "linux", "algorithms", "data structures",
	"machine learning", "software development", "github",
	"circuit", "vlsi", "microcontroller", "digital systems",
}

// minSkillScore is the lowest score worth an application.
const minSkillScore = 2

// AppliedChecker reports whether a posting already has a successful
// application on record. Satisfied by dedup.Store.
type AppliedChecker interface {
	HasApplied(ctx context.Context, url string) (bool, error)
}

// Filter narrows postings down to the ones worth applying to: not already
// applied, entry level, free of excluded keywords, and matching at least
// minSkillScore resume skills. The result is sorted by skill score, highest
// first; postings with equal scores keep their discovery order.
func Filter(ctx context.Context, postings []domain.JobPosting, applied AppliedChecker, excludeKeywords []string) ([]domain.ScoredPosting, error) {
	var out []domain.ScoredPosting

	for _, p := range postings {
		if applied != nil {
			done, err := applied.HasApplied(ctx, p.URL)
			if err != nil {
				return nil, err
			}
			if done {
				continue
			}
		}

		title := strings.ToLower(p.Title)
		desc := strings.ToLower(p.Description)

		entry := containsAny(title, entryTitlePhrases)
		if !entry && desc != "" {
			entry = containsAny(desc, entryDescPhrases)
		}
		if !entry {
			continue
		}

		if containsAny(title, excludeKeywords) || (desc != "" && containsAny(desc, excludeKeywords)) {
			continue
		}

		score := 0
		for _, skill := range skills {
			if strings.Contains(title, skill) || (desc != "" && strings.Contains(desc, skill)) {
				score++
			}
		}
		if score < minSkillScore {
			continue
		}

		out = append(out, domain.ScoredPosting{
			JobPosting: p,
			SkillScore: score,
			EntryLevel: true,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SkillScore > out[j].SkillScore
	})
	return out, nil
}

func containsAny(haystack string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(phrase)) {
			return true
		}
	}
	return false
}
