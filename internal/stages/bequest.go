package stages

import (
	"fmt"

	"github.com/shopspring/decimal"

	"faraid-engine/internal/model"
)

var three = decimal.NewFromInt(3)

// BequestStage clamps the wasiyyah to one third of what is left after debts
// and funeral costs, then derives the net distributable value.
type BequestStage struct{}

func (h *BequestStage) Validate(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	remaining := afterLiabilities(state)
	if !remaining.IsPositive() {
		msgs = append(msgs, model.Critical(model.CodeNonPositiveNetEstate,
			fmt.Sprintf("Estate value %s does not exceed debts and funeral costs", state.Gross.StringFixed(2))))
	}
	return msgs
}

func (h *BequestStage) Apply(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	remaining := afterLiabilities(state)

	// compare against the exact third; only a clamped bequest uses the
	// cent-truncated ceiling
	applied := state.Estate.BequestRequested
	if applied.Mul(three).GreaterThan(remaining) {
		ceiling := BequestCeiling(remaining)
		msgs = append(msgs, model.Warning(model.WarnBequestCeilingExceeded,
			fmt.Sprintf("Bequest of %s reduced to the one-third ceiling of %s",
				applied.StringFixed(2), ceiling.StringFixed(2))))
		applied = ceiling
	}
	state.BequestApplied = applied

	net := remaining.Sub(applied)
	if net.IsNegative() {
		net = decimal.Zero
	}
	state.Net = net

	if net.IsZero() {
		msgs = append(msgs, model.Warning(model.WarnNothingToDistribute, "Nothing remains to distribute"))
	}
	return msgs
}

// BequestCeiling is one third of value, truncated to whole cents so the
// applied bequest never exceeds the legal limit.
func BequestCeiling(value decimal.Decimal) decimal.Decimal {
	if !value.IsPositive() {
		return decimal.Zero
	}
	return value.Div(three).Truncate(2)
}

func afterLiabilities(state *State) decimal.Decimal {
	return state.Gross.Sub(state.Estate.Debts).Sub(state.Estate.FuneralCost)
}
