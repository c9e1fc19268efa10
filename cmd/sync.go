package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"stocksync/core/archive"
	"stocksync/core/catalog"
	"stocksync/core/config"
	"stocksync/core/database"
	"stocksync/core/history"
	"stocksync/core/logger"
	"stocksync/core/notify"
	"stocksync/feature/supplier"
	"stocksync/feature/supplier/registry"
	syncfeature "stocksync/feature/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	dryRunSync     bool
	forceSync      bool
	supplierFilter string
)

// syncCmd runs one full inventory sync.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync supplier inventory into the catalog",
	Long: `Fetch inventory from every enabled supplier, reconcile it against the
catalog, and apply safe quantity updates.

Examples:
  # Preview a full run without writing anything
  stocksync sync --dry-run

  # Sync one supplier only
  stocksync sync --supplier oase_outdoors

  # Apply updates the safety checks would normally flag
  stocksync sync --force`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Compute and report all decisions without writing to the catalog")
	syncCmd.Flags().BoolVar(&forceSync, "force", false, "Disable safety checks for this run")
	syncCmd.Flags().StringVar(&supplierFilter, "supplier", "", "Sync only the named supplier")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	// Load supplier definitions and build connectors
	suppliers, err := supplier.LoadFile(cfg.Sync.SuppliersFile)
	if err != nil {
		return err
	}
	defs, err := suppliers.Enabled(supplierFilter)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return fmt.Errorf("no enabled suppliers in %s", cfg.Sync.SuppliersFile)
	}
	connectors, err := registry.Build(defs)
	if err != nil {
		return err
	}

	deps := syncfeature.Deps{
		Catalog:       catalog.NewClient(cfg.Catalog, l),
		Connectors:    connectors,
		StatusMapping: suppliers.StatusMapping,
		Safety:        cfg.Safety,
		ReportDir:     cfg.Sync.ReportDir,
		Logger:        l,
	}

	// Optional post-run integrations; a failure here only loses the
	// integration, never the sync.
	if cfg.Archive.Enabled {
		client, err := archive.NewClient(cfg.Archive)
		if err != nil {
			l.Warn("Report archiving unavailable", zap.Error(err))
		} else {
			deps.Archiver = archive.NewArchiver(client, cfg.Archive)
		}
	}
	if cfg.Database.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			l.Warn("Run history unavailable", zap.Error(err))
		} else if store, err := history.NewStore(db); err != nil {
			l.Warn("Run history unavailable", zap.Error(err))
		} else {
			deps.History = store
		}
	}
	if cfg.Notify.Enabled() {
		deps.Notifier = notify.New(cfg.Notify)
	}

	r, err := syncfeature.New(deps).Run(ctx, syncfeature.Options{
		DryRun: dryRunSync,
		Force:  forceSync,
	})
	if err != nil {
		return err
	}

	if r.HasErrors() {
		return fmt.Errorf("sync completed with %d errors, see the run report", r.Summary.Errors)
	}
	return nil
}
