package reconcile

import (
	"fmt"
	"sort"

	"stocksync/core/catalog"
	"stocksync/core/identifier"
)

// Index holds lookup structures built from one catalog snapshot.
//
// Both mappings key normalized identifiers to every catalog item carrying
// that identifier. Multiple items legitimately share a key only in error
// (duplicate catalog data); the index preserves all of them instead of
// silently picking one, so duplicates surface at lookup time.
//
// An Index is built once per run and is read-only afterwards.
type Index struct {
	eanLookup map[string][]catalog.Item
	skuLookup map[string][]catalog.Item
}

// BuildIndex builds an Index from a catalog snapshot. Items carrying neither
// identifier cannot be matched; they are returned separately so the caller
// can log them.
func BuildIndex(items []catalog.Item) (*Index, []catalog.Item) {
	ix := &Index{
		eanLookup: make(map[string][]catalog.Item),
		skuLookup: make(map[string][]catalog.Item),
	}
	var unindexed []catalog.Item

	for _, item := range items {
		ean := identifier.Normalize(item.EAN)
		sku := identifier.Normalize(item.SKU)

		if ean == "" && sku == "" {
			unindexed = append(unindexed, item)
			continue
		}
		if ean != "" {
			ix.eanLookup[ean] = append(ix.eanLookup[ean], item)
		}
		if sku != "" {
			ix.skuLookup[sku] = append(ix.skuLookup[sku], item)
		}
	}

	return ix, unindexed
}

// Lookup resolves a pair of normalized identifiers to a match outcome.
//
// EAN takes priority: the barcode is globally unique while SKUs are
// store-local and prone to reuse across variants, so a wrong SKU coincidence
// must never override a correct barcode match. The SKU fallback only applies
// when the EAN is absent or resolves to nothing.
func (ix *Index) Lookup(ean, sku string) MatchResult {
	if ean != "" {
		switch candidates := ix.eanLookup[ean]; len(candidates) {
		case 0:
			// fall through to SKU
		case 1:
			return MatchResult{Type: MatchEAN, Item: candidates[0]}
		default:
			return MatchResult{
				Type:       MatchDuplicate,
				Candidates: candidates,
				Detail:     fmt.Sprintf("multiple catalog items share EAN %s", ean),
			}
		}
	}

	if sku != "" {
		switch candidates := ix.skuLookup[sku]; len(candidates) {
		case 0:
		case 1:
			return MatchResult{Type: MatchSKU, Item: candidates[0]}
		default:
			return MatchResult{
				Type:       MatchDuplicate,
				Candidates: candidates,
				Detail:     fmt.Sprintf("multiple catalog items share SKU %s", sku),
			}
		}
	}

	return MatchResult{
		Type:   MatchNotFound,
		Detail: fmt.Sprintf("no catalog match for %s", identifier.Format(ean, sku)),
	}
}

// DuplicateGroup describes one identifier shared by several catalog items.
type DuplicateGroup struct {
	// Identifier is the shared normalized identifier.
	Identifier string `json:"identifier"`

	// Kind is "EAN" or "SKU".
	Kind string `json:"type"`

	// Items are the catalog items carrying the identifier.
	Items []catalog.Item `json:"products"`
}

// Duplicates lists every identifier shared by more than one catalog item,
// sorted by kind then identifier for deterministic output.
func (ix *Index) Duplicates() []DuplicateGroup {
	var groups []DuplicateGroup

	for ean, items := range ix.eanLookup {
		if len(items) > 1 {
			groups = append(groups, DuplicateGroup{Identifier: ean, Kind: "EAN", Items: items})
		}
	}
	for sku, items := range ix.skuLookup {
		if len(items) > 1 {
			groups = append(groups, DuplicateGroup{Identifier: sku, Kind: "SKU", Items: items})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Kind != groups[j].Kind {
			return groups[i].Kind < groups[j].Kind
		}
		return groups[i].Identifier < groups[j].Identifier
	})

	return groups
}

// Stats summarizes the indexed catalog snapshot.
type Stats struct {
	ItemsWithEAN  int `json:"items_with_ean"`
	ItemsWithSKU  int `json:"items_with_sku"`
	DuplicateEANs int `json:"duplicate_eans"`
	DuplicateSKUs int `json:"duplicate_skus"`
}

// Stats returns counts for logging the catalog snapshot at run start.
func (ix *Index) Stats() Stats {
	s := Stats{
		ItemsWithEAN: len(ix.eanLookup),
		ItemsWithSKU: len(ix.skuLookup),
	}
	for _, items := range ix.eanLookup {
		if len(items) > 1 {
			s.DuplicateEANs++
		}
	}
	for _, items := range ix.skuLookup {
		if len(items) > 1 {
			s.DuplicateSKUs++
		}
	}
	return s
}
