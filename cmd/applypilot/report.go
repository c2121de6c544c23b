package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"applypilot/internal/dedup"
	"applypilot/internal/domain"
)

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recent application history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		store, err := dedup.Open(filepath.Join(cfg.App.DataDir, "applications.db"))
		if err != nil {
			return err
		}
		defer store.Close()

		cutoff := time.Now().AddDate(0, 0, -reportDays)
		records, err := store.AppliedSince(context.Background(), cutoff)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintf(out, "No applications in the last %d days.\n", reportDays)
			return nil
		}
		fmt.Fprintf(out, "Applications in the last %d days:\n", reportDays)
		for _, r := range records {
			fmt.Fprintf(out, "  %s\n", formatRecord(r))
		}
		return nil
	},
}

func formatRecord(r domain.ApplicationRecord) string {
	return fmt.Sprintf("%s  %-10s  %s at %s",
		r.DateApplied.Format("2006-01-02"), r.Source, r.Title, r.Company)
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", 7, "history window in days")
	rootCmd.AddCommand(reportCmd)
}
