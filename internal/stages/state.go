package stages

import (
	"github.com/shopspring/decimal"

	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
)

// Share is one category's portion of the whole estate before rendering.
type Share struct {
	Category model.RelativeCategory
	Basis    model.LegalBasis
	Frac     fraction.Frac
	Count    int
}

// State is the working data of a single computation. It is created per call
// and never shared.
type State struct {
	Heirs  model.HeirSet
	Gender model.Gender
	Estate model.EstateFinancials

	Gross          decimal.Decimal
	BequestApplied decimal.Decimal
	Net            decimal.Decimal

	// Blocked maps an excluded category to the present categories that exclude it.
	Blocked map[model.RelativeCategory][]model.RelativeCategory

	Fixed     []Share
	Residuary []Share

	// Residue is the fraction of the estate left after fixed shares.
	Residue   fraction.Frac
	Unclaimed fraction.Frac

	residueClaimed bool

	AulApplied         bool
	RaddApplied        bool
	UmariyyatanApplied bool
	MushtarakahApplied bool
}

func NewState(heirs model.HeirSet, gender model.Gender, estate model.EstateFinancials) *State {
	return &State{
		Heirs:     heirs,
		Gender:    gender,
		Estate:    estate,
		Blocked:   map[model.RelativeCategory][]model.RelativeCategory{},
		Residue:   fraction.Zero,
		Unclaimed: fraction.Zero,
	}
}

// Active reports whether c is present and not excluded.
func (s *State) Active(c model.RelativeCategory) bool {
	if !s.Heirs.Has(c) {
		return false
	}
	_, blocked := s.Blocked[c]
	return !blocked
}

// ActiveCount is the head count of c, or 0 when c is excluded.
func (s *State) ActiveCount(c model.RelativeCategory) int {
	if !s.Active(c) {
		return 0
	}
	return s.Heirs.Count(c)
}

func (s *State) anyActive(cs ...model.RelativeCategory) bool {
	for _, c := range cs {
		if s.Active(c) {
			return true
		}
	}
	return false
}

func (s *State) hasDescendant() bool {
	return s.Heirs.Any(model.Son, model.Daughter, model.SonsSon, model.SonsDaughter)
}

func (s *State) hasMaleDescendant() bool {
	return s.Heirs.Any(model.Son, model.SonsSon)
}

func (s *State) hasFemaleDescendant() bool {
	return s.anyActive(model.Daughter, model.SonsDaughter)
}

// siblingCount counts every sibling, excluded or not: blocked siblings still
// reduce the mother to one sixth.
func (s *State) siblingCount() int {
	return s.Heirs.Sum(model.Siblings...)
}

func (s *State) spouse() (model.RelativeCategory, bool) {
	switch {
	case s.Active(model.Husband):
		return model.Husband, true
	case s.Active(model.Wife):
		return model.Wife, true
	}
	return 0, false
}

// HasFixed reports whether c already holds a fixed share.
func (s *State) HasFixed(c model.RelativeCategory) bool {
	for _, sh := range s.Fixed {
		if sh.Category == c {
			return true
		}
	}
	return false
}

// FixedTotal sums the current fixed shares.
func (s *State) FixedTotal() fraction.Frac {
	total := fraction.Zero
	for _, sh := range s.Fixed {
		total = total.Add(sh.Frac)
	}
	return total
}

func (s *State) ResiduaryTotal() fraction.Frac {
	total := fraction.Zero
	for _, sh := range s.Residuary {
		total = total.Add(sh.Frac)
	}
	return total
}

func (s *State) addFixed(c model.RelativeCategory, f fraction.Frac) {
	s.Fixed = append(s.Fixed, Share{
		Category: c,
		Basis:    model.BasisFixed,
		Frac:     f,
		Count:    s.Heirs.Count(c),
	})
}

func (s *State) addResiduary(c model.RelativeCategory, f fraction.Frac) {
	s.Residuary = append(s.Residuary, Share{
		Category: c,
		Basis:    model.BasisResiduary,
		Frac:     f,
		Count:    s.Heirs.Count(c),
	})
}
