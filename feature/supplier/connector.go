package supplier

import (
	"context"
	"errors"
	"fmt"

	"stocksync/core/identifier"
	"stocksync/core/reconcile"
)

// ErrNoIdentifier marks a supplier row carrying neither EAN nor SKU.
var ErrNoIdentifier = errors.New("record has no identifier")

// ErrNegativeQuantity marks a supplier row resolving to a negative quantity.
var ErrNegativeQuantity = errors.New("record has negative quantity")

// RawRecord is one inventory row as reported by a supplier, before status
// resolution. Status may be a plain number ("25") or locale-specific text
// ("på lager").
type RawRecord struct {
	EAN    string `json:"ean"`
	SKU    string `json:"sku"`
	Status string `json:"status"`
}

// Connector is the capability contract every supplier integration implements.
// The sync orchestrator treats connectors as black boxes: authenticate, fetch,
// close. How a connector gets the data (REST API, dealer portal session) is
// its own business.
type Connector interface {
	// Name returns the supplier name used in reports and logs.
	Name() string
	// Authenticate establishes a session with the supplier system.
	Authenticate(ctx context.Context) error
	// FetchInventory retrieves the supplier's current inventory rows.
	FetchInventory(ctx context.Context) ([]RawRecord, error)
	// Close releases any session resources.
	Close() error
}

// ResolveError pairs an unusable supplier row with the reason it was dropped.
type ResolveError struct {
	Record RawRecord
	Err    error
}

// Resolve converts raw supplier rows into engine-ready records, applying the
// configured status-to-quantity mapping. Rows lacking both identifiers or
// carrying an unresolvable status are returned as errors, not silently
// dropped or zeroed.
//
// The mapping is external configuration data; swapping a supplier's status
// vocabulary never touches the reconciliation engine.
func Resolve(name string, raw []RawRecord, mapping map[string]int) ([]reconcile.SupplierRecord, []ResolveError) {
	records := make([]reconcile.SupplierRecord, 0, len(raw))
	var failed []ResolveError

	for _, row := range raw {
		if identifier.Normalize(row.EAN) == "" && identifier.Normalize(row.SKU) == "" {
			failed = append(failed, ResolveError{Record: row, Err: ErrNoIdentifier})
			continue
		}

		qty, err := identifier.ResolveStatus(row.Status, mapping)
		if err != nil {
			failed = append(failed, ResolveError{Record: row, Err: err})
			continue
		}
		if qty < 0 {
			failed = append(failed, ResolveError{
				Record: row,
				Err:    fmt.Errorf("%w: %d", ErrNegativeQuantity, qty),
			})
			continue
		}

		records = append(records, reconcile.SupplierRecord{
			EAN:       row.EAN,
			SKU:       row.SKU,
			Quantity:  qty,
			RawStatus: row.Status,
			Supplier:  name,
		})
	}

	return records, failed
}
