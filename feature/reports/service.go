package reports

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"stocksync/core/report"
)

// Service reads persisted run reports for the viewer.
type Service struct {
	reportDir string
	logger    *zap.Logger
}

// NewService creates a new report viewer service.
func NewService(reportDir string, logger *zap.Logger) *Service {
	return &Service{reportDir: reportDir, logger: logger}
}

// RunSummary is one row in the run listing.
type RunSummary struct {
	File      string         `json:"file"`
	RunID     string         `json:"run_id"`
	Timestamp time.Time      `json:"timestamp"`
	DryRun    bool           `json:"dry_run"`
	Suppliers []string       `json:"suppliers"`
	Summary   report.Summary `json:"summary"`
}

// ListRuns returns summaries for every persisted run, newest first.
// Unreadable files are logged and skipped so one corrupt report does not
// take the whole listing down.
func (s *Service) ListRuns() ([]RunSummary, error) {
	names, err := report.List(s.reportDir)
	if err != nil {
		return nil, err
	}

	summaries := make([]RunSummary, 0, len(names))
	for _, name := range names {
		r, err := report.Load(filepath.Join(s.reportDir, name))
		if err != nil {
			s.logger.Warn("Skipping unreadable report", zap.String("file", name), zap.Error(err))
			continue
		}
		summaries = append(summaries, RunSummary{
			File:      name,
			RunID:     r.RunID,
			Timestamp: r.Timestamp,
			DryRun:    r.DryRun,
			Suppliers: r.SuppliersProcessed,
			Summary:   r.Summary,
		})
	}
	return summaries, nil
}

// GetRun loads one full report by filename. Only names produced by the
// report writer are accepted; anything with path separators is rejected.
func (s *Service) GetRun(name string) (*report.RunReport, error) {
	if strings.ContainsAny(name, `/\`) ||
		!strings.HasPrefix(name, "sync_") || !strings.HasSuffix(name, ".json") {
		return nil, fmt.Errorf("invalid report name %q", name)
	}
	return report.Load(filepath.Join(s.reportDir, name))
}
