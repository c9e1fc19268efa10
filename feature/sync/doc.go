// Package sync orchestrates one inventory sync run: snapshot the catalog,
// pull each supplier feed, reconcile, push safe updates, and persist the
// audit report. Suppliers are processed sequentially against a single
// catalog snapshot so every decision in a run is traceable to one consistent
// view of the catalog.
package sync
