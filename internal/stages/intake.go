package stages

import (
	"errors"
	"fmt"

	"faraid-engine/internal/model"
)

// IntakeStage re-validates the raw input. Callers are expected to screen
// input too, but the engine never fabricates a distribution from bad data.
type IntakeStage struct{}

func (h *IntakeStage) Validate(state *State) []model.CalculationMessage {
	var msgs []model.CalculationMessage

	if !state.Gender.Valid() {
		msgs = append(msgs, model.Critical(model.CodeInvalidGender,
			fmt.Sprintf("Deceased gender %q must be male or female", state.Gender)))
		return msgs
	}

	present := state.Heirs.Present()
	if len(present) == 0 {
		msgs = append(msgs, model.Critical(model.CodeNoHeirs, "At least one surviving relative is required"))
		return msgs
	}

	for _, c := range present {
		if !c.Valid() {
			msgs = append(msgs, model.Critical(model.CodeUnknownCategory,
				fmt.Sprintf("Unknown relative category %d", int(c))))
			return msgs
		}
		if limit := c.Info().Max; limit > 0 && state.Heirs.Count(c) > limit {
			msgs = append(msgs, model.Critical(model.CodeCountExceedsMax,
				fmt.Sprintf("%s count %d exceeds the maximum of %d", c, state.Heirs.Count(c), limit)))
			return msgs
		}
	}

	if state.Gender == model.GenderMale && state.Heirs.Has(model.Husband) {
		msgs = append(msgs, model.Critical(model.CodeSpouseGenderMismatch, "A male deceased cannot leave a husband"))
		return msgs
	}
	if state.Gender == model.GenderFemale && state.Heirs.Has(model.Wife) {
		msgs = append(msgs, model.Critical(model.CodeSpouseGenderMismatch, "A female deceased cannot leave a wife"))
		return msgs
	}

	if _, err := state.Estate.Gross(); err != nil {
		msgs = append(msgs, criticalFromError(err))
		return msgs
	}

	liabilities := []struct {
		field string
		neg   bool
	}{
		{"estate.debts", state.Estate.Debts.IsNegative()},
		{"estate.funeral_cost", state.Estate.FuneralCost.IsNegative()},
		{"estate.bequest_requested", state.Estate.BequestRequested.IsNegative()},
	}
	for _, l := range liabilities {
		if l.neg {
			msgs = append(msgs, model.Critical(model.CodeNegativeAmount, l.field+" must not be negative"))
			return msgs
		}
	}

	return msgs
}

func (h *IntakeStage) Apply(state *State) []model.CalculationMessage {
	gross, _ := state.Estate.Gross()
	state.Gross = gross
	return nil
}

func criticalFromError(err error) model.CalculationMessage {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return model.Critical(ve.Code, ve.Error())
	}
	return model.Critical(model.CodeInvalidRequest, err.Error())
}
