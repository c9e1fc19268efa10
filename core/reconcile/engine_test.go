package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksync/core/catalog"
)

func TestReconcile_NormalizesBeforeLookup(t *testing.T) {
	ix, _ := BuildIndex([]catalog.Item{
		{ID: "A", EAN: "111", Quantity: 10},
	})

	// Supplier-formatted EAN with an internal dash still matches.
	results := Reconcile([]SupplierRecord{
		{EAN: "1-11", Quantity: 5, Supplier: "test"},
	}, ix)

	require.Len(t, results, 1)
	assert.Equal(t, MatchEAN, results[0].Type)
	assert.Equal(t, "A", results[0].Item.ID)
	assert.Equal(t, "1-11", results[0].Record.EAN)
}

func TestReconcile_OrderPreserved(t *testing.T) {
	ix, _ := BuildIndex([]catalog.Item{
		{ID: "1", EAN: "1234567890123", Quantity: 10},
		{ID: "2", SKU: "SKU-002", Quantity: 5},
	})

	records := []SupplierRecord{
		{EAN: "1234567890123", Quantity: 8, Supplier: "s"},
		{EAN: "0000000000000", Quantity: 3, Supplier: "s"},
		{SKU: "sku-002", Quantity: 5, Supplier: "s"},
	}

	results := Reconcile(records, ix)
	require.Len(t, results, 3)
	assert.Equal(t, MatchEAN, results[0].Type)
	assert.Equal(t, MatchNotFound, results[1].Type)
	assert.Equal(t, MatchSKU, results[2].Type)

	// Every result carries its originating record.
	for i := range records {
		assert.Equal(t, records[i], results[i].Record)
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	ix, _ := BuildIndex(sampleCatalog())
	records := []SupplierRecord{
		{EAN: "1234567890123", Quantity: 8, Supplier: "s"},
		{SKU: "SKU-003", Quantity: 15, Supplier: "s"},
	}

	first := Reconcile(records, ix)
	second := Reconcile(records, ix)
	assert.Equal(t, first, second)
}

func TestReconcile_DuplicateConflictListsCandidates(t *testing.T) {
	ix, _ := BuildIndex([]catalog.Item{
		{ID: "1", EAN: "222", Quantity: 10},
		{ID: "2", EAN: "222", Quantity: 4},
	})

	results := Reconcile([]SupplierRecord{{EAN: "222", Quantity: 1, Supplier: "s"}}, ix)
	require.Len(t, results, 1)
	assert.Equal(t, MatchDuplicate, results[0].Type)
	assert.Len(t, results[0].Candidates, 2)
}
