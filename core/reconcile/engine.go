package reconcile

import "stocksync/core/identifier"

// Reconcile matches every supplier record against the catalog index.
//
// Records are processed independently and deterministically: output order
// matches input order, and no state is shared between records except the
// read-only index. The same snapshot and record set always produce the same
// results, which makes a run replayable from its report.
//
// Records lacking both identifiers must be filtered out by the caller before
// this stage; they are reported as errors, not match outcomes.
func Reconcile(records []SupplierRecord, ix *Index) []MatchResult {
	results := make([]MatchResult, 0, len(records))

	for _, record := range records {
		result := ix.Lookup(
			identifier.Normalize(record.EAN),
			identifier.Normalize(record.SKU),
		)
		result.Record = record
		results = append(results, result)
	}

	return results
}
