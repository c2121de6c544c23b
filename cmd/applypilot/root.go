package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"applypilot/internal/config"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "applypilot",
	Short: "Entry-level job application runner",
	Long: "ApplyPilot searches job platforms for entry-level engineering roles,\n" +
		"filters them against your skills, and walks the application forms for\n" +
		"you, pausing whenever a human needs to step in.",
	// Bare `applypilot` runs one pass.
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: APPLYPILOT_CONFIG env var or ./config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it. Priority: explicit flag,
// APPLYPILOT_CONFIG, ./config.yml. A missing default config is written first.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		if env := os.Getenv("APPLYPILOT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yml"
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if _, err := config.EnsureUserConfig("."); err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	level := slog.LevelInfo
	if dbg {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
