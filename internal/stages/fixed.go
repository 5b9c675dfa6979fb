package stages

import (
	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
)

var (
	half        = fraction.New(1, 2)
	third       = fraction.New(1, 3)
	twoThirds   = fraction.New(2, 3)
	quarter     = fraction.New(1, 4)
	sixth       = fraction.New(1, 6)
	eighth      = fraction.New(1, 8)
	grandmas    = one(model.PaternalGrandmother, model.MaternalGrandmother)
	fullSibling = one(model.FullBrother, model.FullSister)
)

// shareRule assigns the fixed fraction of a category. ok is false when the
// category takes nothing as a sharer in this household.
type shareRule struct {
	category model.RelativeCategory
	share    func(s *State) (f fraction.Frac, ok bool)
}

var shareRules = []shareRule{
	{model.Husband, spouseShare},
	{model.Wife, spouseShare},
	{model.Mother, motherShare},
	{model.Father, ascendantShare},
	{model.PaternalGrandfather, ascendantShare},
	{model.Daughter, func(s *State) (fraction.Frac, bool) {
		if s.Heirs.Has(model.Son) {
			return fraction.Zero, false
		}
		return halfOrTwoThirds(s.Heirs.Count(model.Daughter)), true
	}},
	{model.SonsDaughter, func(s *State) (fraction.Frac, bool) {
		if s.Heirs.Has(model.SonsSon) {
			return fraction.Zero, false
		}
		switch s.Heirs.Count(model.Daughter) {
		case 0:
			return halfOrTwoThirds(s.Heirs.Count(model.SonsDaughter)), true
		case 1:
			return sixth, true
		}
		return fraction.Zero, false
	}},
	{model.FullSister, func(s *State) (fraction.Frac, bool) {
		if s.Heirs.Has(model.FullBrother) || s.hasFemaleDescendant() || s.Active(model.PaternalGrandfather) {
			return fraction.Zero, false
		}
		return halfOrTwoThirds(s.Heirs.Count(model.FullSister)), true
	}},
	{model.PaternalSister, func(s *State) (fraction.Frac, bool) {
		if s.Heirs.Has(model.PaternalBrother) || s.hasFemaleDescendant() || s.Active(model.PaternalGrandfather) {
			return fraction.Zero, false
		}
		switch s.ActiveCount(model.FullSister) {
		case 0:
			return halfOrTwoThirds(s.Heirs.Count(model.PaternalSister)), true
		case 1:
			return sixth, true
		}
		return fraction.Zero, false
	}},
	{model.PaternalGrandmother, grandmotherShare},
	{model.MaternalGrandmother, grandmotherShare},
	{model.MaternalBrother, uterineShare},
	{model.MaternalSister, uterineShare},
}

// spouseShare is the husband's half or the wives' quarter, halved next to
// descendants. It reads the household only, so the mother's rule can use it.
func spouseShare(s *State) (fraction.Frac, bool) {
	sp, ok := s.spouse()
	if !ok {
		return fraction.Zero, false
	}
	f := quarter
	if sp == model.Husband {
		f = half
	}
	if s.hasDescendant() {
		f = f.DivInt(2)
	}
	return f, true
}

func halfOrTwoThirds(n int) fraction.Frac {
	if n == 1 {
		return half
	}
	return twoThirds
}

func motherShare(s *State) (fraction.Frac, bool) {
	if s.hasDescendant() || s.siblingCount() >= 2 {
		return sixth, true
	}
	if umariyyatan(s) {
		sp, _ := spouseShare(s)
		return fraction.One.Sub(sp).Mul(third), true
	}
	return third, true
}

// umariyyatan holds when a spouse, the father and the mother are the only
// sharers with no descendants and fewer than two siblings: the mother then
// takes a third of what the spouse leaves.
func umariyyatan(s *State) bool {
	_, hasSpouse := s.spouse()
	return hasSpouse && s.Active(model.Father) && s.Active(model.Mother) &&
		!s.hasDescendant() && s.siblingCount() < 2
}

// ascendantShare is the father's (or grandfather's) sixth next to
// descendants. Without descendants he is a residuary only.
func ascendantShare(s *State) (fraction.Frac, bool) {
	if s.hasDescendant() {
		return sixth, true
	}
	return fraction.Zero, false
}

func grandmotherShare(s *State) (fraction.Frac, bool) {
	n := 0
	for _, g := range grandmas {
		if s.Active(g) {
			n++
		}
	}
	return sixth.DivInt(int64(n)), true
}

func uterineShare(s *State) (fraction.Frac, bool) {
	total := s.ActiveCount(model.MaternalBrother) + s.ActiveCount(model.MaternalSister)
	if total == 1 {
		return sixth, true
	}
	return third, true
}

// uterineSplit divides the uterine pool by head count, without the 2:1 rule.
func uterineSplit(s *State, c model.RelativeCategory, pool fraction.Frac) fraction.Frac {
	total := s.ActiveCount(model.MaternalBrother) + s.ActiveCount(model.MaternalSister)
	return pool.MulInt(int64(s.ActiveCount(c))).DivInt(int64(total))
}

// FixedShareStage assigns every active sharer its fixed fraction.
type FixedShareStage struct{}

func (h *FixedShareStage) Validate(state *State) []model.CalculationMessage {
	return nil
}

func (h *FixedShareStage) Apply(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	for _, r := range shareRules {
		if !state.Active(r.category) {
			continue
		}
		f, ok := r.share(state)
		if !ok {
			continue
		}
		if r.category == model.MaternalBrother || r.category == model.MaternalSister {
			f = uterineSplit(state, r.category, f)
		}
		state.addFixed(r.category, f)
	}

	if umariyyatan(state) {
		state.UmariyyatanApplied = true
		msgs = append(msgs, model.Warning(model.WarnUmariyyatanApplied,
			"Mother takes one third of the remainder after the spouse's share (Umariyyatan)"))
	}

	if mushtarakah(state) {
		applyMushtarakah(state)
		state.MushtarakahApplied = true
		msgs = append(msgs,
			model.Warning(model.WarnMushtarakahApplied,
				"Full siblings share the uterine third by head count (Mushtarakah)"),
			model.Warning(model.WarnScholarReview,
				"Mushtarakah is a disputed case; review by a scholar is recommended"))
	}

	return msgs
}

// mushtarakah holds when the husband, the mother or a grandmother, two or
// more uterine siblings and full brothers survive and the fixed shares leave
// nothing for the full brothers.
func mushtarakah(s *State) bool {
	if !s.Active(model.Husband) || !s.Active(model.FullBrother) {
		return false
	}
	if !s.anyActive(model.Mother, model.PaternalGrandmother, model.MaternalGrandmother) {
		return false
	}
	if s.ActiveCount(model.MaternalBrother)+s.ActiveCount(model.MaternalSister) < 2 {
		return false
	}
	return s.FixedTotal().Cmp(fraction.One) >= 0
}

func applyMushtarakah(s *State) {
	pool := fraction.Zero
	kept := s.Fixed[:0]
	for _, sh := range s.Fixed {
		if sh.Category == model.MaternalBrother || sh.Category == model.MaternalSister {
			pool = pool.Add(sh.Frac)
			continue
		}
		kept = append(kept, sh)
	}
	s.Fixed = kept

	members := join(uterine, fullSibling)
	heads := 0
	for _, c := range members {
		heads += s.ActiveCount(c)
	}
	for _, c := range members {
		if n := s.ActiveCount(c); n > 0 {
			s.addFixed(c, pool.MulInt(int64(n)).DivInt(int64(heads)))
		}
	}
}
