package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUpdateAndAddNoChange(t *testing.T) {
	r := New(false)

	r.AddUpdate(UpdateEntry{EAN: "111", Supplier: "s", OldQty: 10, NewQty: 8})
	r.AddNoChange(UpdateEntry{EAN: "222", Supplier: "s", OldQty: 5, NewQty: 5})

	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	assert.Equal(t, 1, r.Summary.NoChange)
	require.Len(t, r.Updates, 1)
	assert.Equal(t, -2, r.Updates[0].Change)
	require.Len(t, r.NoChanges, 1)
	assert.Equal(t, 0, r.NoChanges[0].Change)
}

func TestWarningsAndErrors(t *testing.T) {
	r := New(false)
	assert.False(t, r.HasWarnings())
	assert.False(t, r.HasErrors())

	r.AddNotFound(NotFoundEntry{EAN: "111", Supplier: "s"})
	assert.True(t, r.HasWarnings())
	assert.False(t, r.HasErrors())

	r.AddError("supplier_processing", "boom", map[string]string{"supplier": "s"})
	assert.True(t, r.HasErrors())
	assert.Equal(t, 1, r.Summary.Errors)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	r := New(true)
	r.AddSupplier("oase_outdoors")
	r.AddSupplierProducts(3)
	r.AddMatched(2)
	r.AddUpdate(UpdateEntry{EAN: "111", Supplier: "oase_outdoors", OldQty: 10, NewQty: 4, ItemID: "i1", LocationID: "l1"})
	r.AddFlagged(FlaggedEntry{EAN: "222", Supplier: "oase_outdoors", Reason: "high_quantity_to_zero", OldQty: 75, NewQty: 0})
	r.AddDuplicate(DuplicateEntry{EAN: "333", Supplier: "oase_outdoors", Detail: "multiple catalog items share EAN 333", CandidateIDs: []string{"a", "b"}})

	path, err := r.Save(dir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, loaded.RunID)
	assert.True(t, loaded.DryRun)
	assert.Equal(t, r.Summary, loaded.Summary)
	require.Len(t, loaded.Updates, 1)
	assert.Equal(t, -6, loaded.Updates[0].Change)
	require.Len(t, loaded.Duplicates, 1)
	assert.Equal(t, []string{"a", "b"}, loaded.Duplicates[0].CandidateIDs)
}

// The persisted field names are a contract for downstream tooling.
func TestSave_StableFieldNames(t *testing.T) {
	dir := t.TempDir()
	r := New(false)
	r.AddSupplier("s")

	path, err := r.Save(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"run_id", "timestamp", "dry_run", "suppliers_processed", "summary",
		"updates", "no_changes", "not_found", "duplicates", "flagged", "errors",
	} {
		assert.Contains(t, raw, key)
	}

	var summary map[string]int
	require.NoError(t, json.Unmarshal(raw["summary"], &summary))
	for _, key := range []string{
		"total_supplier_products", "matched_products", "updated_in_catalog",
		"no_change", "not_found_in_catalog", "duplicate_identifiers",
		"flagged_for_review", "errors",
	} {
		assert.Contains(t, summary, key)
	}
}

func TestList_NewestFirst(t *testing.T) {
	dir := t.TempDir()

	older := New(false)
	older.Timestamp = time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	_, err := older.Save(dir)
	require.NoError(t, err)

	newer := New(false)
	newer.Timestamp = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	_, err = newer.Save(dir)
	require.NoError(t, err)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	names, err := List(dir)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "sync_2026-03-04_10-00-00.json", names[0])
	assert.Equal(t, "sync_2026-01-02_10-00-00.json", names[1])
}

func TestList_MissingDirectory(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "nope"))
	assert.NoError(t, err)
	assert.Empty(t, names)
}
