package stages

import (
	"sort"

	"faraid-engine/internal/model"
)

// blockingRule excludes every category in blocks when any category in by is
// present and when (if set) holds. Rules read only the raw heir set, so the
// result is a plain union and rule order is irrelevant.
type blockingRule struct {
	by     []model.RelativeCategory
	when   func(h model.HeirSet) bool
	blocks []model.RelativeCategory
}

func join(groups ...[]model.RelativeCategory) []model.RelativeCategory {
	var out []model.RelativeCategory
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func one(cs ...model.RelativeCategory) []model.RelativeCategory { return cs }

var (
	descendants = one(model.Son, model.Daughter, model.SonsSon, model.SonsDaughter)
	uterine     = one(model.MaternalBrother, model.MaternalSister)
	distantKin  = one(model.DaughtersChild, model.SistersChild, model.MaternalUncle, model.PaternalAunt)
	consanguine = one(model.PaternalBrother, model.PaternalSister)
)

var blockingRules = buildBlockingRules()

func buildBlockingRules() []blockingRule {
	rules := []blockingRule{
		{by: one(model.Son), blocks: join(one(model.SonsSon, model.SonsDaughter), model.Siblings, model.MaleCollaterals)},
		{by: one(model.SonsSon), blocks: join(model.Siblings, model.MaleCollaterals)},
		{by: one(model.Father), blocks: join(one(model.PaternalGrandfather, model.PaternalGrandmother), model.Siblings, model.MaleCollaterals)},
		{by: one(model.Mother), blocks: one(model.PaternalGrandmother, model.MaternalGrandmother)},
		{by: descendants, blocks: uterine},
		{by: one(model.PaternalGrandfather), blocks: join(uterine, model.MaleCollaterals)},
		{
			by:     one(model.Daughter),
			when:   func(h model.HeirSet) bool { return h.Count(model.Daughter) >= 2 && !h.Has(model.SonsSon) },
			blocks: one(model.SonsDaughter),
		},
		{by: one(model.FullBrother), blocks: join(consanguine, model.MaleCollaterals)},
		{
			by:     one(model.FullSister),
			when:   fullSisterWithAnother,
			blocks: join(consanguine, model.MaleCollaterals),
		},
		{
			by:     one(model.FullSister),
			when:   func(h model.HeirSet) bool { return h.Count(model.FullSister) >= 2 && !h.Has(model.PaternalBrother) },
			blocks: one(model.PaternalSister),
		},
		{by: one(model.PaternalBrother), blocks: model.MaleCollaterals},
		{
			by:     one(model.PaternalSister),
			when:   paternalSisterWithAnother,
			blocks: model.MaleCollaterals,
		},
	}

	for i, c := range model.MaleCollaterals {
		if i+1 < len(model.MaleCollaterals) {
			rules = append(rules, blockingRule{by: one(c), blocks: model.MaleCollaterals[i+1:]})
		}
	}

	// spouses do not exclude distant kin
	var entitled []model.RelativeCategory
	for _, c := range model.Categories() {
		if c.Info().Class != model.ClassDistantKin && !c.IsSpouse() {
			entitled = append(entitled, c)
		}
	}
	rules = append(rules, blockingRule{by: entitled, blocks: distantKin})

	return rules
}

// fullSisterWithAnother: full sisters become residuary alongside a daughter
// or son's daughter when no full brother is there to make them residuary.
func fullSisterWithAnother(h model.HeirSet) bool {
	return !h.Has(model.FullBrother) && h.Any(model.Daughter, model.SonsDaughter)
}

func paternalSisterWithAnother(h model.HeirSet) bool {
	return !h.Has(model.FullSister) && !h.Has(model.FullBrother) && !h.Has(model.PaternalBrother) &&
		h.Any(model.Daughter, model.SonsDaughter)
}

// BlockingStage computes the Hijb exclusion set.
type BlockingStage struct{}

func (h *BlockingStage) Validate(state *State) []model.CalculationMessage {
	return nil
}

func (h *BlockingStage) Apply(state *State) []model.CalculationMessage {
	state.Blocked = Blocked(state.Heirs)
	return nil
}

// Blocked returns each excluded present category with the present
// categories responsible. Where an excluder is itself excluded and another
// excluder is not, only the effective excluders are reported.
func Blocked(heirs model.HeirSet) map[model.RelativeCategory][]model.RelativeCategory {
	blockers := map[model.RelativeCategory]map[model.RelativeCategory]bool{}

	for _, r := range blockingRules {
		var present []model.RelativeCategory
		for _, c := range r.by {
			if heirs.Has(c) {
				present = append(present, c)
			}
		}
		if len(present) == 0 || (r.when != nil && !r.when(heirs)) {
			continue
		}
		for _, target := range r.blocks {
			if !heirs.Has(target) {
				continue
			}
			if blockers[target] == nil {
				blockers[target] = map[model.RelativeCategory]bool{}
			}
			for _, b := range present {
				if b != target {
					blockers[target][b] = true
				}
			}
		}
	}

	out := make(map[model.RelativeCategory][]model.RelativeCategory, len(blockers))
	for target, set := range blockers {
		var effective, all []model.RelativeCategory
		for b := range set {
			all = append(all, b)
			if _, excluded := blockers[b]; !excluded {
				effective = append(effective, b)
			}
		}
		if len(effective) == 0 {
			effective = all
		}
		sort.Slice(effective, func(i, j int) bool { return effective[i] < effective[j] })
		out[target] = effective
	}
	return out
}
