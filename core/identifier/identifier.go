package identifier

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnmappedStatus is returned by ResolveStatus when a supplier-reported
// status string cannot be resolved to a quantity. Records carrying such a
// status are reported as errors rather than silently treated as sold out.
var ErrUnmappedStatus = errors.New("unmapped supplier status")

var (
	separatorPattern = regexp.MustCompile(`[\s\-_]`)
	numberPattern    = regexp.MustCompile(`\d+`)
)

// Normalize canonicalizes a raw identifier (EAN or SKU) for comparison.
// It trims surrounding whitespace, strips internal dashes, underscores and
// spaces, and upper-cases the result. Empty or whitespace-only input yields "".
//
// Every identifier passes through Normalize before any lookup or equality
// check; it is the single source of truth for identifier comparison.
// Normalize is idempotent.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(separatorPattern.ReplaceAllString(trimmed, ""))
}

// ResolveStatus resolves a supplier-reported status value to a quantity.
//
// Resolution order:
//  1. Numeric strings ("25", "5.0") parse directly.
//  2. Case-insensitive exact match against the configured mapping
//     (e.g. "på lager" -> 15).
//  3. A number embedded in the status text ("5 items in stock" -> 5).
//
// Anything else returns ErrUnmappedStatus wrapped with the offending value.
func ResolveStatus(raw string, mapping map[string]int) (int, error) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return 0, fmt.Errorf("%w: empty status", ErrUnmappedStatus)
	}

	if f, err := strconv.ParseFloat(status, 64); err == nil {
		return int(f), nil
	}

	if qty, ok := mapping[status]; ok {
		return qty, nil
	}
	for key, qty := range mapping {
		if strings.EqualFold(key, status) {
			return qty, nil
		}
	}

	if match := numberPattern.FindString(status); match != "" {
		qty, err := strconv.Atoi(match)
		if err == nil {
			return qty, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnmappedStatus, raw)
}

// Format renders identifiers for display in log lines and reports.
// Either argument may be empty.
func Format(ean, sku string) string {
	var parts []string
	if ean != "" {
		parts = append(parts, "EAN: "+ean)
	}
	if sku != "" {
		parts = append(parts, "SKU: "+sku)
	}
	if len(parts) == 0 {
		return "No identifier"
	}
	return strings.Join(parts, " / ")
}

var sanitizePattern = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName converts a display name into a filename- and ID-safe slug
// ("Oase Outdoors" -> "oase_outdoors").
func SanitizeName(name string) string {
	s := sanitizePattern.ReplaceAllString(strings.ToLower(name), "_")
	return strings.Trim(s, "_")
}
