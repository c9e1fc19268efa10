package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stocksync/core/catalog"
	"stocksync/core/config"
	"stocksync/core/logger"
	"stocksync/core/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	yesRestore    bool
	dryRunRestore bool
)

// restoreCmd rolls back the updates of a previous run.
var restoreCmd = &cobra.Command{
	Use:   "restore <report-file>",
	Short: "Roll back the quantity updates of a previous run",
	Long: `Read a persisted run report and write every updated item's previous
quantity back to the catalog. Only the applied updates are rolled back;
flagged and not-found entries never changed anything.

The report argument is a filename from the report directory or a full path.

Examples:
  # Preview a rollback
  stocksync restore sync_2026-08-27_06-00-00.json --dry-run

  # Roll back without the interactive prompt
  stocksync restore sync_2026-08-27_06-00-00.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().BoolVar(&yesRestore, "yes", false, "Auto-confirm the rollback (non-interactive)")
	restoreCmd.Flags().BoolVar(&dryRunRestore, "dry-run", false, "Show what would be restored without writing")

	RootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	path := args[0]
	if !strings.ContainsAny(path, `/\`) {
		path = filepath.Join(cfg.Sync.ReportDir, path)
	}

	r, err := report.Load(path)
	if err != nil {
		return err
	}
	if r.DryRun {
		return fmt.Errorf("report %s is from a dry run, nothing to restore", r.RunID)
	}
	if len(r.Updates) == 0 {
		l.Info("Report contains no applied updates", zap.String("run_id", r.RunID))
		return nil
	}

	l.Info("Rollback plan",
		zap.String("run_id", r.RunID),
		zap.Time("run_timestamp", r.Timestamp),
		zap.Int("updates_to_revert", len(r.Updates)),
	)
	for _, u := range r.Updates {
		l.Info("Will restore",
			zap.String("ean", u.EAN),
			zap.String("sku", u.SKU),
			zap.Int("current", u.NewQty),
			zap.Int("restore_to", u.OldQty),
		)
	}

	if dryRunRestore {
		l.Info("Dry run, nothing written")
		return nil
	}
	if !confirmRestore() {
		l.Info("Rollback cancelled")
		return nil
	}

	client := catalog.NewClient(cfg.Catalog, l)
	failures := 0
	for _, u := range r.Updates {
		if err := client.UpdateQuantity(ctx, u.LocationID, u.ItemID, u.OldQty); err != nil {
			l.Error("Failed to restore item",
				zap.String("item_id", u.ItemID),
				zap.Error(err),
			)
			failures++
			continue
		}
		l.Info("Restored",
			zap.String("item_id", u.ItemID),
			zap.Int("quantity", u.OldQty),
		)
	}

	if failures > 0 {
		return fmt.Errorf("restore completed with %d failure(s)", failures)
	}
	l.Info("Rollback complete", zap.Int("restored", len(r.Updates)))
	return nil
}

// confirmRestore prompts the user for confirmation or uses the --yes flag.
func confirmRestore() bool {
	if yesRestore {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to write the old quantities back to the catalog: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
