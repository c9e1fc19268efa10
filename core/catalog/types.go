package catalog

// Item is one saleable unit in the retail catalog.
//
// Items are read fresh at the start of each sync run and never mutated in
// place; quantity changes go back through the client, not into this struct.
type Item struct {
	// ID is the opaque item handle owned by the catalog system.
	ID string `json:"id"`

	// EAN is the barcode, empty if the item has none.
	EAN string `json:"ean"`

	// SKU is the stock-keeping code, empty if the item has none.
	SKU string `json:"sku"`

	// Title is the display title, used in reports and review output.
	Title string `json:"title"`

	// Quantity is the catalog-recorded inventory quantity.
	Quantity int `json:"quantity"`

	// LocationID identifies the inventory location to update.
	LocationID string `json:"location_id"`
}

// HasIdentifier reports whether the item carries at least one identifier.
// Items without any are unreachable by matching and are only logged.
func (i Item) HasIdentifier() bool {
	return i.EAN != "" || i.SKU != ""
}
