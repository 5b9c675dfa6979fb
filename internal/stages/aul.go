package stages

import (
	"fmt"

	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
)

// AulStage puts the fixed shares on their least common denominator. When the
// numerators overflow it, the total numerator becomes every share's
// denominator (Aul); otherwise the remainder is the residue.
type AulStage struct{}

func (h *AulStage) Validate(state *State) []model.CalculationMessage {
	return nil
}

func (h *AulStage) Apply(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	lcd, nums := commonBase(state.Fixed)
	var totalNum int64
	for _, n := range nums {
		totalNum += n
	}

	if totalNum > lcd {
		for i := range state.Fixed {
			state.Fixed[i].Frac = fraction.New(nums[i], totalNum)
		}
		state.AulApplied = true
		state.Residue = fraction.Zero
		msgs = append(msgs, model.Warning(model.WarnAulApplied,
			fmt.Sprintf("Fixed shares total %d/%d; every share is reduced to a base of %d (Aul)", totalNum, lcd, totalNum)))
		return msgs
	}

	state.Residue = fraction.New(lcd-totalNum, lcd)
	return msgs
}

// commonBase returns the LCD of the shares and each numerator over it.
func commonBase(shares []Share) (int64, []int64) {
	dens := make([]int64, len(shares))
	for i, sh := range shares {
		dens[i] = sh.Frac.Den
	}
	lcd := fraction.LCMOf(dens...)

	nums := make([]int64, len(shares))
	for i, sh := range shares {
		nums[i], _ = sh.Frac.Over(lcd)
	}
	return lcd, nums
}
