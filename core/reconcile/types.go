package reconcile

import "stocksync/core/catalog"

// SupplierRecord is one inventory fact reported by a supplier for this run.
// Quantity is already resolved (status strings mapped to integers) before the
// record enters the engine.
type SupplierRecord struct {
	// EAN is the supplier-reported barcode, possibly in supplier formatting.
	EAN string `json:"ean"`

	// SKU is the supplier-reported stock code, possibly in supplier formatting.
	SKU string `json:"sku"`

	// Quantity is the resolved, non-negative inventory quantity.
	Quantity int `json:"quantity"`

	// RawStatus is the original supplier-reported text or number, retained
	// for audit.
	RawStatus string `json:"raw_status,omitempty"`

	// Supplier tags the record with its originating supplier.
	Supplier string `json:"supplier"`
}

// HasIdentifier reports whether the record carries at least one identifier
// after normalization. Records without any are invalid and are counted as
// errors before matching.
func (r SupplierRecord) HasIdentifier() bool {
	return r.EAN != "" || r.SKU != ""
}

// MatchType tags the outcome of resolving one supplier record against the index.
type MatchType string

const (
	// MatchEAN means the record matched exactly one catalog item by barcode.
	MatchEAN MatchType = "ean"
	// MatchSKU means the record matched exactly one catalog item by stock code.
	MatchSKU MatchType = "sku"
	// MatchDuplicate means more than one catalog item shares the identifier.
	MatchDuplicate MatchType = "duplicate"
	// MatchNotFound means no catalog item carries either identifier.
	MatchNotFound MatchType = "not_found"
)

// MatchResult is the outcome of resolving one SupplierRecord against the
// catalog index.
type MatchResult struct {
	// Type classifies the outcome.
	Type MatchType `json:"type"`

	// Record is the originating supplier record.
	Record SupplierRecord `json:"record"`

	// Item is the matched catalog item. Only meaningful for MatchEAN/MatchSKU.
	Item catalog.Item `json:"item,omitempty"`

	// Candidates lists every catalog item sharing the identifier.
	// Only populated for MatchDuplicate.
	Candidates []catalog.Item `json:"candidates,omitempty"`

	// Detail is a human-readable description for duplicate and not-found
	// outcomes, carried into the run report.
	Detail string `json:"detail,omitempty"`
}

// Matched reports whether the result resolved to exactly one catalog item.
func (m MatchResult) Matched() bool {
	return m.Type == MatchEAN || m.Type == MatchSKU
}
