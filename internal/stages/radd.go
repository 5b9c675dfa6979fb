package stages

import (
	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
)

// RaddStage returns an unclaimed residue to the fixed sharers in proportion
// to their shares. Spouses never take part: their fixed share is their cap.
type RaddStage struct{}

func (h *RaddStage) Validate(state *State) []model.CalculationMessage {
	return nil
}

func (h *RaddStage) Apply(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	if state.residueClaimed || !state.Residue.IsPositive() {
		return msgs
	}

	base := fraction.Zero
	for _, sh := range state.Fixed {
		if !sh.Category.IsSpouse() {
			base = base.Add(sh.Frac)
		}
	}

	if !base.IsPositive() {
		state.Unclaimed = state.Residue
		state.Residue = fraction.Zero
		msgs = append(msgs, model.Warning(model.WarnResidueUnclaimed,
			"No residuary or non-spouse sharer can take the remaining "+state.Unclaimed.String()+" of the estate"))
		if state.Heirs.Any(distantKin...) {
			msgs = append(msgs, model.Warning(model.WarnScholarReview,
				"Only distant kin remain to inherit; review by a scholar is recommended"))
		}
		return msgs
	}

	residue := state.Residue
	for i, sh := range state.Fixed {
		if sh.Category.IsSpouse() {
			continue
		}
		state.Fixed[i].Frac = sh.Frac.Add(sh.Frac.Div(base).Mul(residue))
	}
	state.Residue = fraction.Zero
	state.RaddApplied = true
	msgs = append(msgs, model.Warning(model.WarnRaddApplied,
		"The remaining "+residue.String()+" of the estate is returned to the sharers (Radd)"))
	return msgs
}
