// Package safety decides whether a computed inventory delta is safe to apply.
//
// Supplier feeds occasionally glitch: a scraped portal returns zeros for a
// page that failed to render, or an export truncates quantities. The policy
// withholds suspicious drops (steep percentage drops, well-stocked items
// going to zero) for human review instead of writing them to the catalog.
// Force mode disables all checks and applies every delta.
package safety
