package report

import (
	"time"

	"github.com/google/uuid"
)

// Summary holds the aggregate counters for one sync run.
//
// Field names are part of the persisted report contract; log viewers and
// email bodies parse them, so they must stay stable across versions.
type Summary struct {
	TotalSupplierProducts int `json:"total_supplier_products"`
	MatchedProducts       int `json:"matched_products"`
	UpdatedInCatalog      int `json:"updated_in_catalog"`
	NoChange              int `json:"no_change"`
	NotFoundInCatalog     int `json:"not_found_in_catalog"`
	DuplicateIdentifiers  int `json:"duplicate_identifiers"`
	FlaggedForReview      int `json:"flagged_for_review"`
	Errors                int `json:"errors"`
}

// UpdateEntry records one applied (or unchanged) quantity update.
type UpdateEntry struct {
	EAN        string `json:"ean,omitempty"`
	SKU        string `json:"sku,omitempty"`
	Supplier   string `json:"supplier"`
	OldQty     int    `json:"old_qty"`
	NewQty     int    `json:"new_qty"`
	Change     int    `json:"change"`
	ItemID     string `json:"item_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
}

// NotFoundEntry records a supplier product with no catalog match.
type NotFoundEntry struct {
	EAN      string `json:"ean,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Supplier string `json:"supplier"`
	Detail   string `json:"detail,omitempty"`
}

// DuplicateEntry records a supplier product whose identifier resolves to
// more than one catalog item.
type DuplicateEntry struct {
	EAN          string   `json:"ean,omitempty"`
	SKU          string   `json:"sku,omitempty"`
	Supplier     string   `json:"supplier"`
	Detail       string   `json:"detail"`
	CandidateIDs []string `json:"candidate_ids"`
}

// FlaggedEntry records an update withheld for human review.
type FlaggedEntry struct {
	EAN      string `json:"ean,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Supplier string `json:"supplier"`
	Reason   string `json:"reason"`
	OldQty   int    `json:"old_qty"`
	NewQty   int    `json:"new_qty"`
	ItemID   string `json:"item_id,omitempty"`
}

// ErrorEntry records one caught error, with enough context to trace it.
type ErrorEntry struct {
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Context   map[string]string `json:"context,omitempty"`
}

// RunReport is the durable audit artifact of one sync invocation.
//
// It is owned exclusively by the sync orchestrator, appended to in run
// order, and immutable once the run completes. Every decision carries
// enough fields to be reconstructed without re-running the sync.
type RunReport struct {
	RunID              string           `json:"run_id"`
	Timestamp          time.Time        `json:"timestamp"`
	DryRun             bool             `json:"dry_run"`
	SuppliersProcessed []string         `json:"suppliers_processed"`
	Summary            Summary          `json:"summary"`
	Updates            []UpdateEntry    `json:"updates"`
	NoChanges          []UpdateEntry    `json:"no_changes"`
	NotFound           []NotFoundEntry  `json:"not_found"`
	Duplicates         []DuplicateEntry `json:"duplicates"`
	Flagged            []FlaggedEntry   `json:"flagged"`
	Errors             []ErrorEntry     `json:"errors"`
}

// New creates an empty run report stamped with a fresh run ID.
func New(dryRun bool) *RunReport {
	return &RunReport{
		RunID:              uuid.NewString(),
		Timestamp:          time.Now(),
		DryRun:             dryRun,
		SuppliersProcessed: []string{},
		Updates:            []UpdateEntry{},
		NoChanges:          []UpdateEntry{},
		NotFound:           []NotFoundEntry{},
		Duplicates:         []DuplicateEntry{},
		Flagged:            []FlaggedEntry{},
		Errors:             []ErrorEntry{},
	}
}

// AddSupplier records that a supplier's processing started.
func (r *RunReport) AddSupplier(name string) {
	r.SuppliersProcessed = append(r.SuppliersProcessed, name)
}

// AddSupplierProducts adds to the total count of records received.
func (r *RunReport) AddSupplierProducts(count int) {
	r.Summary.TotalSupplierProducts += count
}

// AddMatched adds to the matched-record count.
func (r *RunReport) AddMatched(count int) {
	r.Summary.MatchedProducts += count
}

// AddUpdate records an applied quantity update.
func (r *RunReport) AddUpdate(e UpdateEntry) {
	e.Change = e.NewQty - e.OldQty
	r.Updates = append(r.Updates, e)
	r.Summary.UpdatedInCatalog++
}

// AddNoChange records a matched item whose catalog quantity already agrees
// with the supplier. The no-change/update split is the safety policy's call,
// not the report's.
func (r *RunReport) AddNoChange(e UpdateEntry) {
	e.Change = 0
	r.NoChanges = append(r.NoChanges, e)
	r.Summary.NoChange++
}

// AddNotFound records a supplier product without a catalog match.
func (r *RunReport) AddNotFound(e NotFoundEntry) {
	r.NotFound = append(r.NotFound, e)
	r.Summary.NotFoundInCatalog++
}

// AddDuplicate records a duplicate-identifier conflict.
func (r *RunReport) AddDuplicate(e DuplicateEntry) {
	r.Duplicates = append(r.Duplicates, e)
	r.Summary.DuplicateIdentifiers++
}

// AddFlagged records an update withheld for review.
func (r *RunReport) AddFlagged(e FlaggedEntry) {
	r.Flagged = append(r.Flagged, e)
	r.Summary.FlaggedForReview++
}

// AddError records a caught error.
func (r *RunReport) AddError(errType, message string, context map[string]string) {
	r.Errors = append(r.Errors, ErrorEntry{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Context:   context,
	})
	r.Summary.Errors++
}

// HasErrors reports whether any error entries were recorded.
func (r *RunReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings reports whether any advisory entries (not found, flagged,
// duplicates) were recorded. Warnings never fail a run.
func (r *RunReport) HasWarnings() bool {
	return r.Summary.NotFoundInCatalog > 0 ||
		r.Summary.FlaggedForReview > 0 ||
		r.Summary.DuplicateIdentifiers > 0
}
