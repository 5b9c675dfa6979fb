package stages

import (
	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
)

// claimant is one residuary taking part in a split, weighted per head.
type claimant struct {
	category model.RelativeCategory
	heads    int
	weight   int
}

// residuaryTier is one step of the precedence chain. claimants returns the
// members that take the residue, or nil when the tier does not apply.
type residuaryTier struct {
	name      string
	claimants func(s *State) []claimant
}

// withSisters builds a 2:1 male/female tier.
func withSisters(male, female model.RelativeCategory) func(s *State) []claimant {
	return func(s *State) []claimant {
		if !s.Active(male) {
			return nil
		}
		out := []claimant{{male, s.ActiveCount(male), 2}}
		if n := s.ActiveCount(female); n > 0 {
			out = append(out, claimant{female, n, 1})
		}
		return out
	}
}

func alone(c model.RelativeCategory, when func(s *State) bool) func(s *State) []claimant {
	return func(s *State) []claimant {
		if !s.Active(c) || (when != nil && !when(s)) {
			return nil
		}
		return []claimant{{c, s.ActiveCount(c), 1}}
	}
}

func noMaleDescendant(s *State) bool { return !s.hasMaleDescendant() }

var residuaryTiers = buildResiduaryTiers()

func buildResiduaryTiers() []residuaryTier {
	tiers := []residuaryTier{
		{"sons", withSisters(model.Son, model.Daughter)},
		{"sons_sons", withSisters(model.SonsSon, model.SonsDaughter)},
		{"father", alone(model.Father, noMaleDescendant)},
		{"grandfather", grandfatherClaimants},
		{"full_brothers", withSisters(model.FullBrother, model.FullSister)},
		{"full_sisters_with_daughters", alone(model.FullSister, func(s *State) bool { return s.hasFemaleDescendant() })},
		{"paternal_brothers", withSisters(model.PaternalBrother, model.PaternalSister)},
		{"paternal_sisters_with_daughters", alone(model.PaternalSister, func(s *State) bool { return s.hasFemaleDescendant() })},
	}
	for _, c := range model.MaleCollaterals {
		tiers = append(tiers, residuaryTier{c.String(), alone(c, nil)})
	}
	return tiers
}

// grandfatherClaimants stands in for the father. Next to full or paternal
// siblings it shares with them as one brother (Muqasamah).
func grandfatherClaimants(s *State) []claimant {
	if !s.Active(model.PaternalGrandfather) || s.hasMaleDescendant() {
		return nil
	}
	out := []claimant{{model.PaternalGrandfather, 1, 2}}

	brother, sister := model.FullBrother, model.FullSister
	if !s.anyActive(brother, sister) {
		brother, sister = model.PaternalBrother, model.PaternalSister
	}
	if n := s.ActiveCount(brother); n > 0 {
		out = append(out, claimant{brother, n, 2})
	}
	if n := s.ActiveCount(sister); n > 0 {
		out = append(out, claimant{sister, n, 1})
	}
	return out
}

// ResidueStage hands the residue to the first tier of the chain that has a
// claimant. Tiers never split the residue between each other.
type ResidueStage struct{}

func (h *ResidueStage) Validate(state *State) []model.CalculationMessage {
	return nil
}

func (h *ResidueStage) Apply(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	if state.Active(model.PaternalGrandfather) &&
		state.anyActive(model.FullBrother, model.FullSister, model.PaternalBrother, model.PaternalSister) {
		msgs = append(msgs, model.Warning(model.WarnScholarReview,
			"Grandfather with siblings (Muqasamah) is disputed; the residue is shared with him as a brother and review by a scholar is recommended"))
	}

	for _, tier := range residuaryTiers {
		members := tier.claimants(state)
		if len(members) == 0 {
			continue
		}
		distributeResidue(state, members)
		return msgs
	}
	return msgs
}

// distributeResidue splits the residue by weighted head count. A claimant
// already holding a fixed share gets no empty residuary entry.
func distributeResidue(s *State, members []claimant) {
	units := 0
	for _, m := range members {
		units += m.heads * m.weight
	}
	for _, m := range members {
		f := fraction.Zero
		if s.Residue.IsPositive() {
			f = s.Residue.MulInt(int64(m.heads * m.weight)).DivInt(int64(units))
		}
		if f.IsZero() && s.HasFixed(m.category) {
			continue
		}
		s.addResiduary(m.category, f)
	}
	s.Residue = fraction.Zero
	s.residueClaimed = true
}
