package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const fileTimeLayout = "2006-01-02_15-04-05"

// Save persists the report as one JSON document named with the run
// timestamp, creating dir if needed. Returns the written path.
func (r *RunReport) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("sync_%s.json", r.Timestamp.Format(fileTimeLayout)))

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// Load reads a previously persisted run report.
func Load(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	var r RunReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &r, nil
}

// List returns the persisted report filenames in dir, newest first.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read report directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "sync_") && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}

	// Timestamped names sort chronologically; reverse for newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// LogSummary emits the human-readable end-of-run summary through the logger.
// Printed regardless of run outcome.
func (r *RunReport) LogSummary(l *zap.Logger) {
	s := r.Summary

	l.Info("Sync summary",
		zap.String("run_id", r.RunID),
		zap.Bool("dry_run", r.DryRun),
		zap.Strings("suppliers", r.SuppliersProcessed),
		zap.Int("total_supplier_products", s.TotalSupplierProducts),
		zap.Int("matched", s.MatchedProducts),
		zap.Int("updated", s.UpdatedInCatalog),
		zap.Int("no_change", s.NoChange),
		zap.Int("not_found", s.NotFoundInCatalog),
		zap.Int("duplicates", s.DuplicateIdentifiers),
		zap.Int("flagged", s.FlaggedForReview),
		zap.Int("errors", s.Errors),
	)

	for _, f := range r.Flagged {
		l.Warn("Flagged for review",
			zap.String("ean", f.EAN),
			zap.String("sku", f.SKU),
			zap.String("supplier", f.Supplier),
			zap.Int("old_qty", f.OldQty),
			zap.Int("new_qty", f.NewQty),
			zap.String("reason", f.Reason),
		)
	}
}
