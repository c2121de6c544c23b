package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"applypilot/internal/adapter"
	"applypilot/internal/boards"
	"applypilot/internal/browser"
	"applypilot/internal/captcha"
	"applypilot/internal/config"
	"applypilot/internal/dedup"
	"applypilot/internal/emailleads"
	"applypilot/internal/pace"
	"applypilot/internal/report"
	"applypilot/internal/run"
	"applypilot/internal/runlock"
	"applypilot/internal/search"
	"applypilot/internal/secrets"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search-and-apply pass",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	release, err := runlock.Acquire(cfg.App.DataDir)
	if err != nil {
		if errors.Is(err, runlock.ErrHeld) {
			return errors.New("another applypilot run is already in progress")
		}
		return err
	}
	defer release()

	store, err := dedup.Open(filepath.Join(cfg.App.DataDir, "applications.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keychain := secrets.Keychain{}
	operator := adapter.Operator{
		FirstName:  cfg.Operator.FirstName,
		LastName:   cfg.Operator.LastName,
		Email:      cfg.Operator.Email,
		Phone:      cfg.Operator.Phone,
		ResumePath: cfg.Operator.ResumePath,
	}

	var (
		adapters []adapter.Adapter
		sources  []search.LeadSource
		session  browser.Session
	)

	browserWanted := cfg.Platforms.LinkedIn || cfg.Platforms.Indeed || cfg.Platforms.Glassdoor
	if browserWanted {
		profile, err := browser.ProfileDir(cfg.App.DataDir)
		if err != nil {
			return err
		}
		chrome, err := browser.StartChrome(ctx, cfg.App.Headless, profile)
		if err != nil {
			return fmt.Errorf("start browser: %w", err)
		}
		defer chrome.Close()
		session = chrome

		gate := captcha.NewGate(chrome, logger)
		profiles := make([]adapter.Profile, 0, 3)
		if cfg.Platforms.LinkedIn {
			profiles = append(profiles, adapter.LinkedInProfile())
		}
		if cfg.Platforms.Indeed {
			profiles = append(profiles, adapter.IndeedProfile())
		}
		if cfg.Platforms.Glassdoor {
			profiles = append(profiles, adapter.GlassdoorProfile())
		}
		for _, prof := range profiles {
			adapters = append(adapters, adapter.NewBrowser(prof, chrome, gate, keychain, operator, cfg.Captcha.MaxWait, logger))
		}
	}

	if cfg.Boards.Enabled {
		companies := make([]boards.Company, 0, len(cfg.Boards.Companies))
		for _, b := range cfg.Boards.Companies {
			companies = append(companies, boards.Company{Slug: b.Slug, Name: b.Name})
		}
		adapters = append(adapters, boards.New(companies, logger))
	}

	if cfg.Email.Enabled {
		sources = append(sources, emailleads.NewSource(emailleads.Config{
			Host:        cfg.Email.IMAPHost,
			Port:        cfg.Email.IMAPPort,
			Username:    cfg.Email.Username,
			MaxMessages: cfg.Email.MaxMessages,
		}, keychain, logger))
	}

	orch := &run.Orchestrator{
		Adapters:        adapters,
		Sources:         sources,
		Store:           store,
		Session:         session,
		Pace:            pace.NewLimiter(),
		Logger:          logger,
		DataDir:         cfg.App.DataDir,
		Keywords:        cfg.Search.Keywords,
		Locations:       cfg.Search.Locations,
		ExcludeKeywords: cfg.Search.ExcludeKeywords,
		MaxApplications: cfg.Apply.MaxApplications,
	}

	stats, err := orch.Run(ctx)
	printStats(cmd, stats)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("run interrupted; progress saved")
			return nil
		}
		return err
	}
	return nil
}

func printStats(cmd *cobra.Command, stats report.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Jobs found:      %d\n", stats.JobsFound)
	fmt.Fprintf(out, "After filtering: %d\n", stats.JobsFiltered)
	fmt.Fprintf(out, "Attempted:       %d\n", stats.ApplicationsAttempted)
	fmt.Fprintf(out, "Completed:       %d\n", stats.ApplicationsCompleted)
	fmt.Fprintf(out, "Failed:          %d\n", stats.ApplicationsFailed)
}
