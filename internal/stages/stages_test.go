package stages

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
)

// run applies the named stages in order and returns every message.
func run(t *testing.T, state *State, names ...string) []model.CalculationMessage {
	t.Helper()
	var msgs []model.CalculationMessage
	for _, name := range names {
		stage, ok := Get(name)
		require.Truef(t, ok, "stage %s", name)
		for _, m := range stage.Validate(state) {
			require.NotEqualf(t, model.LevelCritical, m.Level, "%s: %s", name, m.Message)
		}
		msgs = append(msgs, stage.Apply(state)...)
	}
	return msgs
}

func codes(msgs []model.CalculationMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Code
	}
	return out
}

func estate(gross string) model.EstateFinancials {
	return model.EstateFinancials{GrossValue: decimal.RequireFromString(gross)}
}

func fixedShare(s *State, c model.RelativeCategory) (fraction.Frac, bool) {
	for _, sh := range s.Fixed {
		if sh.Category == c {
			return sh.Frac, true
		}
	}
	return fraction.Zero, false
}

func TestRegistryCoversOrder(t *testing.T) {
	for _, name := range Order {
		_, ok := Get(name)
		assert.Truef(t, ok, "stage %s not registered", name)
	}
	_, ok := Get("unknown")
	assert.False(t, ok)
}

func TestBequestCeiling(t *testing.T) {
	assert.Equal(t, "333.33", BequestCeiling(decimal.NewFromInt(1000)).String())
	assert.True(t, BequestCeiling(decimal.Zero).IsZero())
	assert.True(t, BequestCeiling(decimal.NewFromInt(-5)).IsZero())
}

func TestBequestStage(t *testing.T) {
	e := estate("1200")
	e.Debts = decimal.NewFromInt(100)
	e.FuneralCost = decimal.NewFromInt(200)
	e.BequestRequested = decimal.NewFromInt(400)

	state := NewState(model.HeirSet{model.Son: 1}, model.GenderMale, e)
	msgs := run(t, state, Intake, Bequest)

	assert.Equal(t, []string{model.WarnBequestCeilingExceeded}, codes(msgs))
	assert.Equal(t, "300", state.BequestApplied.String())
	assert.Equal(t, "600", state.Net.String())
}

func TestBequestJustUnderAThirdIsKept(t *testing.T) {
	e := estate("100")
	e.BequestRequested = decimal.RequireFromString("33.333")

	state := NewState(model.HeirSet{model.Son: 1}, model.GenderMale, e)
	msgs := run(t, state, Intake, Bequest)

	assert.Empty(t, codes(msgs))
	assert.Equal(t, "33.333", state.BequestApplied.String())
	assert.Equal(t, "66.667", state.Net.String())
}

func TestBequestJustOverAThirdIsClamped(t *testing.T) {
	e := estate("100")
	e.BequestRequested = decimal.RequireFromString("33.334")

	state := NewState(model.HeirSet{model.Son: 1}, model.GenderMale, e)
	msgs := run(t, state, Intake, Bequest)

	assert.Equal(t, []string{model.WarnBequestCeilingExceeded}, codes(msgs))
	assert.Equal(t, "33.33", state.BequestApplied.String())
}

func TestBequestStageRejectsInsolventEstate(t *testing.T) {
	e := estate("100")
	e.Debts = decimal.NewFromInt(100)

	state := NewState(model.HeirSet{model.Son: 1}, model.GenderMale, e)
	run(t, state, Intake)

	stage, _ := Get(Bequest)
	msgs := stage.Validate(state)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.LevelCritical, msgs[0].Level)
	assert.Equal(t, model.CodeNonPositiveNetEstate, msgs[0].Code)
}

func TestIntakeValidation(t *testing.T) {
	tests := []struct {
		name   string
		heirs  model.HeirSet
		gender model.Gender
		code   string
	}{
		{"no heirs", model.HeirSet{}, model.GenderMale, model.CodeNoHeirs},
		{"bad gender", model.HeirSet{model.Son: 1}, model.Gender("other"), model.CodeInvalidGender},
		{"two husbands", model.HeirSet{model.Husband: 2}, model.GenderFemale, model.CodeCountExceedsMax},
		{"five wives", model.HeirSet{model.Wife: 5}, model.GenderMale, model.CodeCountExceedsMax},
		{"husband of a man", model.HeirSet{model.Husband: 1}, model.GenderMale, model.CodeSpouseGenderMismatch},
		{"wife of a woman", model.HeirSet{model.Wife: 1}, model.GenderFemale, model.CodeSpouseGenderMismatch},
		{"unknown category", model.HeirSet{model.RelativeCategory(99): 1}, model.GenderMale, model.CodeUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState(tt.heirs, tt.gender, estate("100"))
			stage, _ := Get(Intake)
			msgs := stage.Validate(state)
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.code, msgs[0].Code)
		})
	}
}

func TestFixedSharesWithoutDescendants(t *testing.T) {
	heirs := model.HeirSet{model.Wife: 2, model.Mother: 1, model.MaternalBrother: 1, model.MaternalSister: 1}
	state := NewState(heirs, model.GenderMale, estate("1000"))
	run(t, state, Intake, Bequest, Blocking, Fixed)

	wife, _ := fixedShare(state, model.Wife)
	mother, _ := fixedShare(state, model.Mother)
	brother, _ := fixedShare(state, model.MaternalBrother)
	sister, _ := fixedShare(state, model.MaternalSister)

	assert.Equal(t, "1/4", wife.String())
	assert.Equal(t, "1/6", mother.String(), "two siblings reduce the mother")
	assert.Equal(t, "1/6", brother.String())
	assert.Equal(t, "1/6", sister.String())
}

func TestMotherTakesThirdOfWhatTheSpouseLeaves(t *testing.T) {
	tests := []struct {
		name        string
		spouse      model.RelativeCategory
		gender      model.Gender
		spouseShare string
		mother      string
	}{
		{"husband", model.Husband, model.GenderFemale, "1/2", "1/6"},
		{"wife", model.Wife, model.GenderMale, "1/4", "1/4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heirs := model.HeirSet{tt.spouse: 1, model.Father: 1, model.Mother: 1}
			state := NewState(heirs, tt.gender, estate("1200"))
			msgs := run(t, state, Intake, Bequest, Blocking, Fixed)

			sp, ok := fixedShare(state, tt.spouse)
			require.True(t, ok)
			mother, ok := fixedShare(state, model.Mother)
			require.True(t, ok)
			assert.Equal(t, tt.spouseShare, sp.String())
			assert.Equal(t, tt.mother, mother.String())
			assert.True(t, state.UmariyyatanApplied)
			assert.Contains(t, codes(msgs), model.WarnUmariyyatanApplied)
		})
	}
}

func TestSpouseShareHalvesNextToDescendants(t *testing.T) {
	state := NewState(model.HeirSet{model.Husband: 1, model.Daughter: 1}, model.GenderFemale, estate("100"))
	f, ok := spouseShare(state)
	require.True(t, ok)
	assert.Equal(t, "1/4", f.String())

	state = NewState(model.HeirSet{model.Wife: 3}, model.GenderMale, estate("100"))
	f, ok = spouseShare(state)
	require.True(t, ok)
	assert.Equal(t, "1/4", f.String())

	_, ok = spouseShare(NewState(model.HeirSet{model.Son: 1}, model.GenderMale, estate("100")))
	assert.False(t, ok)
}

func TestAulStageLeavesResidueWhenUnderOne(t *testing.T) {
	state := NewState(model.HeirSet{model.Wife: 1, model.Mother: 1}, model.GenderMale, estate("1000"))
	msgs := run(t, state, Intake, Bequest, Blocking, Fixed, Aul)

	assert.Empty(t, msgs)
	assert.False(t, state.AulApplied)
	assert.Equal(t, fraction.New(5, 12), state.Residue)
}

func TestAulStageRebasesOnTotalNumerator(t *testing.T) {
	// husband 1/2 and two full sisters 2/3: 3 + 4 over 6
	state := NewState(model.HeirSet{model.Husband: 1, model.FullSister: 2}, model.GenderFemale, estate("700"))
	msgs := run(t, state, Intake, Bequest, Blocking, Fixed, Aul)

	assert.Equal(t, []string{model.WarnAulApplied}, codes(msgs))
	husband, _ := fixedShare(state, model.Husband)
	sisters, _ := fixedShare(state, model.FullSister)
	assert.Equal(t, fraction.New(3, 7), husband)
	assert.Equal(t, fraction.New(4, 7), sisters)
	assert.True(t, state.Residue.IsZero())
}

func TestResidueGoesToNearestTierOnly(t *testing.T) {
	heirs := model.HeirSet{model.Mother: 1, model.FullBrother: 1, model.FullSister: 2, model.PaternalBrother: 1}
	state := NewState(heirs, model.GenderMale, estate("1000"))
	run(t, state, Intake, Bequest, Blocking, Fixed, Aul, Residue)

	require.Len(t, state.Residuary, 2)
	assert.Equal(t, model.FullBrother, state.Residuary[0].Category)
	assert.Equal(t, fraction.New(5, 12), state.Residuary[0].Frac, "5/6 residue, brother takes 2 of 4 units")
	assert.Equal(t, model.FullSister, state.Residuary[1].Category)
	assert.Equal(t, fraction.New(5, 12), state.Residuary[1].Frac)
	assert.True(t, state.Residue.IsZero())
}

func TestRaddSkipsSpouse(t *testing.T) {
	heirs := model.HeirSet{model.Wife: 1, model.Mother: 1, model.MaternalSister: 1}
	state := NewState(heirs, model.GenderMale, estate("1200"))
	msgs := run(t, state, Order...)

	assert.Contains(t, codes(msgs), model.WarnRaddApplied)
	wife, _ := fixedShare(state, model.Wife)
	mother, _ := fixedShare(state, model.Mother)
	sister, _ := fixedShare(state, model.MaternalSister)

	// wife 1/4 fixed; the other 3/4 split 2:1 between mother 1/3 and sister 1/6
	assert.Equal(t, quarter, wife)
	assert.Equal(t, fraction.New(1, 2), mother)
	assert.Equal(t, fraction.New(1, 4), sister)
	assert.True(t, state.RaddApplied)
}
