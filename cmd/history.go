package cmd

import (
	"fmt"

	"stocksync/core/config"
	"stocksync/core/database"
	"stocksync/core/history"
	"stocksync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyLimit int

// historyCmd lists recent sync runs from the history database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs",
	Long: `List recent sync runs recorded in the history database, newest first.
Requires DATABASE_ENABLED=true; the full JSON report for each run stays in
the report directory.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if !cfg.Database.Enabled {
		return fmt.Errorf("run history is disabled, set DATABASE_ENABLED=true")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	store, err := history.NewStore(db)
	if err != nil {
		return err
	}

	runs, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		l.Info("No runs recorded yet")
		return nil
	}

	for _, run := range runs {
		l.Info("Run",
			zap.String("run_id", run.RunID),
			zap.Time("timestamp", run.Timestamp),
			zap.Bool("dry_run", run.DryRun),
			zap.String("suppliers", run.SuppliersProcessed),
			zap.Int("total", run.TotalProducts),
			zap.Int("updated", run.Updated),
			zap.Int("flagged", run.Flagged),
			zap.Int("errors", run.Errors),
			zap.String("report", run.ReportPath),
		)
	}
	return nil
}
