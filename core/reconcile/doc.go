// Package reconcile implements the inventory reconciliation core: resolving
// identity between independently sourced product lists under ambiguous keys.
//
// The engine takes a frozen catalog snapshot (indexed once per run) and a
// list of supplier records, and classifies every record as matched,
// not-found, or duplicate-conflict. Matching is EAN-first with SKU fallback;
// identifiers are canonicalized by the identifier package before any lookup.
//
// Everything in this package is a pure function over value types: no I/O,
// no shared mutable state, no ordering dependence beyond input order. That
// determinism is a design goal - the decision trail in a run report can be
// reproduced exactly from the same inputs.
package reconcile
