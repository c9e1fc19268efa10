package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stocksync/core/archive"
	"stocksync/core/catalog"
	"stocksync/core/history"
	"stocksync/core/notify"
	"stocksync/core/reconcile"
	"stocksync/core/report"
	"stocksync/core/safety"
	"stocksync/feature/supplier"
)

// Deps holds everything an orchestrator needs. Archiver, History, and
// Notifier are optional; nil disables the corresponding post-run step.
type Deps struct {
	Catalog       catalog.Client
	Connectors    []supplier.Connector
	StatusMapping map[string]int
	Safety        safety.Config
	ReportDir     string
	Archiver      *archive.Archiver
	History       *history.Store
	Notifier      notify.Notifier
	Logger        *zap.Logger
}

// Options are the per-run switches.
type Options struct {
	// DryRun computes and reports every decision without writing to the catalog.
	DryRun bool
	// Force disables the safety checks for this run.
	Force bool
}

// Orchestrator drives one sync run end to end: snapshot the catalog, pull
// each supplier feed, reconcile, apply safe updates, and persist the report.
type Orchestrator struct {
	deps Deps
	log  *zap.Logger
}

// New creates an orchestrator.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps, log: deps.Logger}
}

// Run executes one sync run.
//
// The catalog snapshot is fatal when it fails; without it nothing can be
// matched. Everything after that degrades per supplier or per item: a
// supplier that cannot authenticate or fetch is recorded and skipped, a
// failed catalog write is recorded and the run moves on. The returned report
// is always complete for whatever work was attempted.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*report.RunReport, error) {
	r := report.New(opts.DryRun)

	o.log.Info("Starting sync run",
		zap.String("run_id", r.RunID),
		zap.Bool("dry_run", opts.DryRun),
		zap.Bool("force", opts.Force),
	)

	safetyCfg := o.deps.Safety
	if opts.Force {
		o.log.Warn("Safety checks disabled for this run")
		safetyCfg.EnableSafetyChecks = false
	}

	items, err := o.deps.Catalog.ListItems(ctx)
	if err != nil {
		return r, fmt.Errorf("failed to snapshot catalog: %w", err)
	}

	ix, unindexed := reconcile.BuildIndex(items)
	stats := ix.Stats()
	o.log.Info("Catalog snapshot indexed",
		zap.Int("items", len(items)),
		zap.Int("items_with_ean", stats.ItemsWithEAN),
		zap.Int("items_with_sku", stats.ItemsWithSKU),
		zap.Int("duplicate_eans", stats.DuplicateEANs),
		zap.Int("duplicate_skus", stats.DuplicateSKUs),
		zap.Int("unmatchable", len(unindexed)),
	)
	for _, item := range unindexed {
		o.log.Warn("Catalog item has no identifiers, unreachable by sync",
			zap.String("item_id", item.ID),
			zap.String("title", item.Title),
		)
	}

	for _, conn := range o.deps.Connectors {
		if err := ctx.Err(); err != nil {
			r.AddError("run_cancelled", err.Error(), nil)
			break
		}
		o.processSupplier(ctx, conn, ix, safetyCfg, opts, r)
	}

	r.LogSummary(o.log)
	o.finish(ctx, r)

	return r, nil
}

// processSupplier runs the full pipeline for one supplier feed.
func (o *Orchestrator) processSupplier(ctx context.Context, conn supplier.Connector, ix *reconcile.Index, safetyCfg safety.Config, opts Options, r *report.RunReport) {
	name := conn.Name()
	log := o.log.With(zap.String("supplier", name))
	r.AddSupplier(name)

	log.Info("Processing supplier")

	if err := conn.Authenticate(ctx); err != nil {
		log.Error("Supplier authentication failed", zap.Error(err))
		r.AddError("supplier_authentication", err.Error(), map[string]string{"supplier": name})
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Warn("Failed to close supplier session", zap.Error(err))
		}
	}()

	raw, err := conn.FetchInventory(ctx)
	if err != nil {
		log.Error("Supplier fetch failed", zap.Error(err))
		r.AddError("supplier_fetch", err.Error(), map[string]string{"supplier": name})
		return
	}

	r.AddSupplierProducts(len(raw))
	log.Info("Fetched supplier inventory", zap.Int("records", len(raw)))

	records, failed := supplier.Resolve(name, raw, o.deps.StatusMapping)
	for _, f := range failed {
		r.AddError("invalid_record", f.Err.Error(), map[string]string{
			"supplier": name,
			"ean":      f.Record.EAN,
			"sku":      f.Record.SKU,
			"status":   f.Record.Status,
		})
	}

	for _, match := range reconcile.Reconcile(records, ix) {
		o.applyMatch(ctx, match, safetyCfg, opts, r, log)
	}
}

// applyMatch routes one match outcome into the report, writing to the
// catalog when the safety policy allows it.
func (o *Orchestrator) applyMatch(ctx context.Context, match reconcile.MatchResult, safetyCfg safety.Config, opts Options, r *report.RunReport, log *zap.Logger) {
	rec := match.Record

	switch match.Type {
	case reconcile.MatchNotFound:
		r.AddNotFound(report.NotFoundEntry{
			EAN: rec.EAN, SKU: rec.SKU, Supplier: rec.Supplier, Detail: match.Detail,
		})
		return

	case reconcile.MatchDuplicate:
		// The identifier did resolve to catalog items, so the record counts
		// as matched; the conflict only blocks the update.
		r.AddMatched(1)
		ids := make([]string, 0, len(match.Candidates))
		for _, c := range match.Candidates {
			ids = append(ids, c.ID)
		}
		r.AddDuplicate(report.DuplicateEntry{
			EAN: rec.EAN, SKU: rec.SKU, Supplier: rec.Supplier,
			Detail: match.Detail, CandidateIDs: ids,
		})
		return
	}

	r.AddMatched(1)
	decision := safety.Evaluate(match, safetyCfg)

	switch decision.Kind {
	case safety.DecisionNoChange:
		r.AddNoChange(report.UpdateEntry{
			EAN: rec.EAN, SKU: rec.SKU, Supplier: rec.Supplier,
			OldQty: decision.OldQuantity, NewQty: decision.NewQuantity,
			ItemID: decision.ItemID, LocationID: decision.LocationID,
		})

	case safety.DecisionFlagged:
		log.Warn("Update flagged for review",
			zap.String("ean", rec.EAN),
			zap.String("sku", rec.SKU),
			zap.Int("old_qty", decision.OldQuantity),
			zap.Int("new_qty", decision.NewQuantity),
			zap.String("reason", decision.Reason),
		)
		r.AddFlagged(report.FlaggedEntry{
			EAN: rec.EAN, SKU: rec.SKU, Supplier: rec.Supplier,
			Reason: decision.Reason,
			OldQty: decision.OldQuantity, NewQty: decision.NewQuantity,
			ItemID: decision.ItemID,
		})

	case safety.DecisionApply:
		if !opts.DryRun {
			err := o.deps.Catalog.UpdateQuantity(ctx, decision.LocationID, decision.ItemID, decision.NewQuantity)
			if err != nil {
				log.Error("Catalog update failed",
					zap.String("item_id", decision.ItemID),
					zap.Error(err),
				)
				r.AddError("catalog_update", err.Error(), map[string]string{
					"supplier": rec.Supplier,
					"item_id":  decision.ItemID,
					"ean":      rec.EAN,
					"sku":      rec.SKU,
				})
				return
			}
		}
		r.AddUpdate(report.UpdateEntry{
			EAN: rec.EAN, SKU: rec.SKU, Supplier: rec.Supplier,
			OldQty: decision.OldQuantity, NewQty: decision.NewQuantity,
			ItemID: decision.ItemID, LocationID: decision.LocationID,
		})
	}
}

// finish persists the report and runs the best-effort post-run steps.
// Failures here are logged but never fail the run; the sync itself already
// happened.
func (o *Orchestrator) finish(ctx context.Context, r *report.RunReport) {
	path, err := r.Save(o.deps.ReportDir)
	if err != nil {
		o.log.Error("Failed to persist run report", zap.Error(err))
		r.AddError("report_save", err.Error(), nil)
	} else {
		o.log.Info("Run report saved", zap.String("path", path))
	}

	if o.deps.Archiver != nil && path != "" {
		if object, err := o.deps.Archiver.Upload(ctx, path); err != nil {
			o.log.Warn("Failed to archive run report", zap.Error(err))
		} else {
			o.log.Info("Run report archived", zap.String("object", object))
		}
	}

	if o.deps.History != nil {
		if err := o.deps.History.Record(r, path); err != nil {
			o.log.Warn("Failed to record run in history", zap.Error(err))
		}
	}

	if o.deps.Notifier != nil {
		if err := o.deps.Notifier.Send(r); err != nil {
			o.log.Warn("Failed to send run notification", zap.Error(err))
		}
	}
}
