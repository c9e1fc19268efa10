package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stocksync/core/catalog"
	"stocksync/core/catalog/mocks"
	"stocksync/core/report"
	"stocksync/core/safety"
	"stocksync/feature/supplier"
)

// fakeConnector feeds canned rows into a run.
type fakeConnector struct {
	name     string
	rows     []supplier.RawRecord
	authErr  error
	fetchErr error
	closed   bool
}

func (f *fakeConnector) Name() string                           { return f.name }
func (f *fakeConnector) Authenticate(ctx context.Context) error { return f.authErr }
func (f *fakeConnector) FetchInventory(ctx context.Context) ([]supplier.RawRecord, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows, nil
}
func (f *fakeConnector) Close() error {
	f.closed = true
	return nil
}

func testSafety() safety.Config {
	return safety.Config{
		MaxQuantityDropPercent:  80,
		MinQuantityForZeroCheck: 50,
		EnableSafetyChecks:      true,
	}
}

func testMapping() map[string]int {
	return map[string]int{"på lager": 25, "ikke på lager": 0}
}

func orchestrator(t *testing.T, client catalog.Client, connectors ...supplier.Connector) *Orchestrator {
	t.Helper()
	return New(Deps{
		Catalog:       client,
		Connectors:    connectors,
		StatusMapping: testMapping(),
		Safety:        testSafety(),
		ReportDir:     t.TempDir(),
		Logger:        zap.NewNop(),
	})
}

func TestRun_FullReconciliation(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", SKU: "A-1", Quantity: 10, LocationID: "loc"},
		{ID: "2", EAN: "222", SKU: "B-2", Quantity: 5, LocationID: "loc"},
		{ID: "3", EAN: "222", SKU: "C-3", Quantity: 7, LocationID: "loc"},
	}, nil)
	client.On("UpdateQuantity", mock.Anything, "loc", "1", 25).Return(nil)

	conn := &fakeConnector{name: "oase_outdoors", rows: []supplier.RawRecord{
		{EAN: "1-11", Status: "på lager"},
		{EAN: "222", Status: "3"},
		{EAN: "999", Status: "1"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"oase_outdoors"}, r.SuppliersProcessed)
	assert.Equal(t, 3, r.Summary.TotalSupplierProducts)
	assert.Equal(t, 2, r.Summary.MatchedProducts)
	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	assert.Equal(t, 1, r.Summary.DuplicateIdentifiers)
	assert.Equal(t, 1, r.Summary.NotFoundInCatalog)
	assert.Equal(t, 0, r.Summary.Errors)

	require.Len(t, r.Updates, 1)
	assert.Equal(t, 10, r.Updates[0].OldQty)
	assert.Equal(t, 25, r.Updates[0].NewQty)
	assert.Equal(t, 15, r.Updates[0].Change)

	require.Len(t, r.Duplicates, 1)
	assert.ElementsMatch(t, []string{"2", "3"}, r.Duplicates[0].CandidateIDs)

	assert.True(t, conn.closed)
	client.AssertExpectations(t)
}

// A record whose identifier resolves to catalog items is matched even when
// the resolution is ambiguous; only the update is blocked.
func TestRun_DuplicateConflictCountsAsMatched(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 10, LocationID: "loc"},
		{ID: "2", EAN: "222", Quantity: 5, LocationID: "loc"},
		{ID: "3", EAN: "222", Quantity: 7, LocationID: "loc"},
	}, nil)
	client.On("UpdateQuantity", mock.Anything, "loc", "1", 12).Return(nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{EAN: "222", Status: "4"},
		{EAN: "111", Status: "12"},
		{EAN: "999", Status: "1"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Summary.MatchedProducts)
	assert.Equal(t, 1, r.Summary.DuplicateIdentifiers)
	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	assert.Equal(t, 1, r.Summary.NotFoundInCatalog)
	client.AssertExpectations(t)
}

func TestRun_SnapshotFailureIsFatal(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return(nil, assert.AnError)

	conn := &fakeConnector{name: "s"}
	_, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot")
	assert.False(t, conn.closed)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 10, LocationID: "loc"},
	}, nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{EAN: "111", Status: "på lager"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, r.DryRun)
	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	client.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SafetyFlagsRiskyDrop(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 100, LocationID: "loc"},
		{ID: "2", EAN: "222", Quantity: 75, LocationID: "loc"},
	}, nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{EAN: "111", Status: "10"},
		{EAN: "222", Status: "ikke på lager"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, r.Flagged, 2)
	assert.Equal(t, "quantity_drop_90%", r.Flagged[0].Reason)
	assert.Equal(t, safety.ReasonHighQuantityToZero, r.Flagged[1].Reason)
	assert.Equal(t, 0, r.Summary.UpdatedInCatalog)
	client.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ForceAppliesRiskyDrop(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 100, LocationID: "loc"},
	}, nil)
	client.On("UpdateQuantity", mock.Anything, "loc", "1", 10).Return(nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{EAN: "111", Status: "10"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{Force: true})
	require.NoError(t, err)

	assert.Empty(t, r.Flagged)
	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	client.AssertExpectations(t)
}

func TestRun_SupplierFailuresAreIsolated(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 10, LocationID: "loc"},
	}, nil)
	client.On("UpdateQuantity", mock.Anything, "loc", "1", 25).Return(nil)

	badAuth := &fakeConnector{name: "broken_portal", authErr: assert.AnError}
	badFetch := &fakeConnector{name: "broken_api", fetchErr: assert.AnError}
	good := &fakeConnector{name: "good", rows: []supplier.RawRecord{
		{EAN: "111", Status: "på lager"},
	}}

	r, err := orchestrator(t, client, badAuth, badFetch, good).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"broken_portal", "broken_api", "good"}, r.SuppliersProcessed)
	assert.Equal(t, 2, r.Summary.Errors)
	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	assert.Equal(t, "supplier_authentication", r.Errors[0].Type)
	assert.Equal(t, "supplier_fetch", r.Errors[1].Type)
	assert.True(t, r.HasErrors())
}

func TestRun_WriteFailureIsItemLevel(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 10, LocationID: "loc"},
		{ID: "2", EAN: "222", Quantity: 3, LocationID: "loc"},
	}, nil)
	client.On("UpdateQuantity", mock.Anything, "loc", "1", 20).Return(assert.AnError)
	client.On("UpdateQuantity", mock.Anything, "loc", "2", 7).Return(nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{EAN: "111", Status: "20"},
		{EAN: "222", Status: "7"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Summary.Errors)
	assert.Equal(t, "catalog_update", r.Errors[0].Type)
	assert.Equal(t, "1", r.Errors[0].Context["item_id"])
	assert.Equal(t, 1, r.Summary.UpdatedInCatalog)
	client.AssertExpectations(t)
}

func TestRun_InvalidRecordsBecomeErrors(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{}, nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{Status: "på lager"},
		{EAN: "111", Status: "mystery status"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Summary.TotalSupplierProducts)
	assert.Equal(t, 2, r.Summary.Errors)
	assert.Equal(t, "invalid_record", r.Errors[0].Type)
	assert.Equal(t, "s", r.Errors[0].Context["supplier"])
}

func TestRun_NoChangeIsNotAnUpdate(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{
		{ID: "1", EAN: "111", Quantity: 25, LocationID: "loc"},
	}, nil)

	conn := &fakeConnector{name: "s", rows: []supplier.RawRecord{
		{EAN: "111", Status: "på lager"},
	}}

	r, err := orchestrator(t, client, conn).Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Summary.NoChange)
	assert.Equal(t, 0, r.Summary.UpdatedInCatalog)
	client.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_PersistsReport(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{}, nil)

	dir := t.TempDir()
	o := New(Deps{
		Catalog:       client,
		Connectors:    []supplier.Connector{&fakeConnector{name: "s"}},
		StatusMapping: testMapping(),
		Safety:        testSafety(),
		ReportDir:     dir,
		Logger:        zap.NewNop(),
	})

	r, err := o.Run(context.Background(), Options{})
	require.NoError(t, err)

	names, err := report.List(dir)
	require.NoError(t, err)
	require.Len(t, names, 1)

	saved, err := report.Load(dir + "/" + names[0])
	require.NoError(t, err)
	assert.Equal(t, r.RunID, saved.RunID)
}

func TestRun_CancelledContextStopsSuppliers(t *testing.T) {
	client := &mocks.Client{}
	client.On("ListItems", mock.Anything).Return([]catalog.Item{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conn := &fakeConnector{name: "s"}
	r, err := orchestrator(t, client, conn).Run(ctx, Options{})
	require.NoError(t, err)

	assert.Empty(t, r.SuppliersProcessed)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "run_cancelled", r.Errors[0].Type)
}
