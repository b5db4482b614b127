package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/deusflow/sportabase/internal/app"
	"github.com/deusflow/sportabase/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagCron       string
	flagMaxBullets int
)

var rootCmd = &cobra.Command{
	Use:          "sportabase",
	Short:        "Sports news aggregator with TL;DR summaries and merit scores",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Serve(ctx)
		})
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull all configured feeds once, or on a schedule with --cron",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if flagCron != "" {
				return a.IngestOnSchedule(ctx, flagCron)
			}
			report, err := a.Ingest(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Summarize and score a single web page without storing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, err := a.Analyze(ctx, args[0], flagMaxBullets)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			sources, err := a.Sources()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				fmt.Fprintln(out, "no sources configured")
				return nil
			}
			for _, s := range sources {
				url := s.URL
				if url == "" {
					url = "(no url, skipped)"
				}
				fmt.Fprintf(out, "%-24s %-12s %s\n", s.Name, s.Sport, url)
			}
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sportabase %s (commit: %s)\n", version, commit)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&flagCron, "cron", "", `run on a cron schedule instead of once (e.g. "*/30 * * * *")`)
	analyzeCmd.Flags().IntVar(&flagMaxBullets, "bullets", 3, "number of summary bullets (1-6)")

	rootCmd.AddCommand(serveCmd, ingestCmd, analyzeCmd, sourcesCmd, versionCmd)
}

// withApp loads configuration, builds the application and runs fn with a
// context that is cancelled on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
