package cmd

import (
	"fmt"

	"stocksync/core/catalog"
	"stocksync/core/config"
	"stocksync/core/logger"
	"stocksync/feature/supplier"
	"stocksync/feature/supplier/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkSuppliers bool

// checkCmd validates the configuration and connectivity without syncing.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and connectivity",
	Long: `Verify that the configuration is usable: catalog credentials work and the
suppliers file parses. With --suppliers, also log in to every enabled
supplier to confirm the stored credentials.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkSuppliers, "suppliers", false, "Also test authentication against every enabled supplier")

	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	failures := 0

	if cfg.Catalog.ShopURL == "" || cfg.Catalog.AccessToken == "" {
		l.Error("Catalog credentials missing, set CATALOG_SHOP_URL and CATALOG_ACCESS_TOKEN")
		failures++
	} else if err := catalog.NewClient(cfg.Catalog, l).Ping(ctx); err != nil {
		l.Error("Catalog connection failed", zap.Error(err))
		failures++
	} else {
		l.Info("Catalog connection OK", zap.String("shop", cfg.Catalog.ShopURL))
	}

	suppliers, err := supplier.LoadFile(cfg.Sync.SuppliersFile)
	if err != nil {
		l.Error("Suppliers file unusable", zap.Error(err))
		return fmt.Errorf("%d check(s) failed", failures+1)
	}

	defs, err := suppliers.Enabled("")
	if err != nil {
		return err
	}
	l.Info("Suppliers file OK",
		zap.String("path", cfg.Sync.SuppliersFile),
		zap.Int("enabled", len(defs)),
		zap.Int("status_mappings", len(suppliers.StatusMapping)),
	)

	for _, def := range defs {
		log := logger.WithSupplier(l, def.Name)

		conn, err := registry.New(def)
		if err != nil {
			log.Error("Supplier misconfigured", zap.Error(err))
			failures++
			continue
		}

		if !checkSuppliers {
			log.Info("Supplier configured", zap.String("type", def.Type))
			continue
		}

		if err := conn.Authenticate(ctx); err != nil {
			log.Error("Supplier authentication failed", zap.Error(err))
			failures++
			continue
		}
		log.Info("Supplier authentication OK")
		if err := conn.Close(); err != nil {
			log.Warn("Failed to close supplier session", zap.Error(err))
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	l.Info("All checks passed")
	return nil
}
