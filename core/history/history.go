package history

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"stocksync/core/report"
)

// Run is one row of sync history: the run's identity, counters, and where
// its full JSON report lives.
type Run struct {
	ID                 uint      `gorm:"primaryKey"`
	RunID              string    `gorm:"size:36;uniqueIndex"`
	Timestamp          time.Time `gorm:"index"`
	DryRun             bool
	SuppliersProcessed string `gorm:"size:512"`
	TotalProducts      int
	Matched            int
	Updated            int
	NoChange           int
	NotFound           int
	Duplicates         int
	Flagged            int
	Errors             int
	ReportPath         string `gorm:"size:512"`
}

// TableName keeps the table name stable regardless of gorm pluralization rules.
func (Run) TableName() string {
	return "sync_runs"
}

// Store persists run summaries for the history command.
type Store struct {
	db *gorm.DB
}

// NewStore migrates the history schema and returns a store.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores one completed run's summary.
func (s *Store) Record(r *report.RunReport, reportPath string) error {
	suppliers := ""
	for i, name := range r.SuppliersProcessed {
		if i > 0 {
			suppliers += ","
		}
		suppliers += name
	}

	row := Run{
		RunID:              r.RunID,
		Timestamp:          r.Timestamp,
		DryRun:             r.DryRun,
		SuppliersProcessed: suppliers,
		TotalProducts:      r.Summary.TotalSupplierProducts,
		Matched:            r.Summary.MatchedProducts,
		Updated:            r.Summary.UpdatedInCatalog,
		NoChange:           r.Summary.NoChange,
		NotFound:           r.Summary.NotFoundInCatalog,
		Duplicates:         r.Summary.DuplicateIdentifiers,
		Flagged:            r.Summary.FlaggedForReview,
		Errors:             r.Summary.Errors,
		ReportPath:         reportPath,
	}

	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []Run
	if err := s.db.Order("timestamp DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	return runs, nil
}
