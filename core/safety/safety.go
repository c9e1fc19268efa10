package safety

import (
	"fmt"

	"stocksync/core/reconcile"
)

// Config holds the safety thresholds for quantity updates.
type Config struct {
	// MaxQuantityDropPercent flags any drop steeper than this percentage.
	MaxQuantityDropPercent int `mapstructure:"max_quantity_drop_percent" default:"80"`
	// MinQuantityForZeroCheck flags items at or above this quantity going to zero.
	MinQuantityForZeroCheck int `mapstructure:"min_quantity_for_zero_check" default:"50"`
	// EnableSafetyChecks disables all flagging when false (force mode).
	EnableSafetyChecks bool `mapstructure:"enable_safety_checks" default:"true"`
}

// ReasonHighQuantityToZero marks a well-stocked item dropping straight to zero.
const ReasonHighQuantityToZero = "high_quantity_to_zero"

// DecisionKind classifies the outcome of evaluating one matched delta.
type DecisionKind string

const (
	// DecisionApply means the delta is safe to push to the catalog.
	DecisionApply DecisionKind = "apply"
	// DecisionNoChange means catalog and supplier already agree.
	DecisionNoChange DecisionKind = "no_change"
	// DecisionFlagged means the delta is withheld pending human review.
	DecisionFlagged DecisionKind = "flagged"
)

// Decision is the outcome of applying the safety policy to one matched record.
type Decision struct {
	// Kind classifies the decision.
	Kind DecisionKind `json:"kind"`

	// ItemID is the catalog item handle the decision applies to.
	ItemID string `json:"item_id"`

	// LocationID is the inventory location to update.
	LocationID string `json:"location_id"`

	// OldQuantity is the catalog-recorded quantity at snapshot time.
	OldQuantity int `json:"old_quantity"`

	// NewQuantity is the supplier-reported quantity.
	NewQuantity int `json:"new_quantity"`

	// Reason is the flag reason code. Empty unless Kind is DecisionFlagged.
	Reason string `json:"reason,omitempty"`
}

// Evaluate applies the safety policy to a matched result.
//
// Rule order matters: the zero-out check runs before the drop-percent check
// so that a 100% drop to zero surfaces the more specific reason instead of a
// generic percentage. A quantity increase is never flagged (restocking is
// never unsafe), and old == 0 can never trip the drop rule.
func Evaluate(match reconcile.MatchResult, cfg Config) Decision {
	oldQty := match.Item.Quantity
	newQty := match.Record.Quantity

	decision := Decision{
		ItemID:      match.Item.ID,
		LocationID:  match.Item.LocationID,
		OldQuantity: oldQty,
		NewQuantity: newQty,
	}

	if oldQty == newQty {
		decision.Kind = DecisionNoChange
		return decision
	}

	if !cfg.EnableSafetyChecks {
		decision.Kind = DecisionApply
		return decision
	}

	if newQty == 0 && oldQty >= cfg.MinQuantityForZeroCheck {
		decision.Kind = DecisionFlagged
		decision.Reason = ReasonHighQuantityToZero
		return decision
	}

	if oldQty > 0 {
		if drop := dropPercent(oldQty, newQty); drop > cfg.MaxQuantityDropPercent {
			decision.Kind = DecisionFlagged
			decision.Reason = fmt.Sprintf("quantity_drop_%d%%", drop)
			return decision
		}
	}

	decision.Kind = DecisionApply
	return decision
}

// dropPercent returns the integer percentage drop from old to new.
// Returns 0 for increases. Callers guarantee old > 0.
func dropPercent(oldQty, newQty int) int {
	if newQty >= oldQty {
		return 0
	}
	return (oldQty - newQty) * 100 / oldQty
}
