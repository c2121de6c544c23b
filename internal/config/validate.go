package config

import (
	"fmt"
	"strings"
)

// Validate checks the loaded config for the mistakes that would otherwise
// surface mid-run, after the browser is already up.
func Validate(cfg Config) error {
	var errs []string

	if len(cfg.Search.Keywords) == 0 {
		errs = append(errs, "search.keywords must have at least 1 entry")
	}
	if len(cfg.Search.Locations) == 0 {
		errs = append(errs, "search.locations must have at least 1 entry")
	}

	anyPlatform := cfg.Platforms.LinkedIn || cfg.Platforms.Indeed || cfg.Platforms.Glassdoor ||
		cfg.Boards.Enabled || cfg.Email.Enabled
	if !anyPlatform {
		errs = append(errs, "no platforms enabled: enable at least one of platforms.*, boards, or email")
	}

	if cfg.Platforms.LinkedIn || cfg.Platforms.Indeed || cfg.Platforms.Glassdoor {
		if cfg.Operator.Email == "" {
			errs = append(errs, "operator.email is required when a browser platform is enabled")
		}
		if cfg.Operator.ResumePath == "" {
			errs = append(errs, "operator.resume_path is required when a browser platform is enabled")
		}
	}

	if cfg.Boards.Enabled {
		for i, b := range cfg.Boards.Companies {
			if strings.TrimSpace(b.Slug) == "" {
				errs = append(errs, fmt.Sprintf("boards.companies[%d].slug is required", i))
			}
		}
	}

	if cfg.Email.Enabled {
		if cfg.Email.IMAPHost == "" {
			errs = append(errs, "email.imap_host is required when email is enabled")
		}
		if cfg.Email.Username == "" {
			errs = append(errs, "email.username is required when email is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
