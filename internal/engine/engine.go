package engine

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"faraid-engine/internal/model"
	"faraid-engine/internal/stages"
)

// Compute distributes the net estate among heirs. It is pure: identical
// inputs give identical results and nothing outside the call is touched.
// Invalid input yields a *model.ValidationError.
func Compute(heirs model.HeirSet, gender model.Gender, estate model.EstateFinancials) (*model.DistributionResult, error) {
	res, _, err := compute(heirs, gender, estate, nil)
	return res, err
}

func compute(heirs model.HeirSet, gender model.Gender, estate model.EstateFinancials, tr *tracer) (*model.DistributionResult, []model.CalculationMessage, error) {
	state := stages.NewState(heirs, gender, estate)
	if err := tr.start(state); err != nil {
		return nil, nil, err
	}

	var allMessages []model.CalculationMessage
	for _, name := range stages.Order {
		stage, ok := stages.Get(name)
		if !ok {
			return nil, nil, errors.New("engine: unknown stage " + name)
		}

		for _, vm := range stage.Validate(state) {
			if vm.Level == model.LevelCritical {
				return nil, []model.CalculationMessage{vm}, &model.ValidationError{Code: vm.Code, Message: vm.Message}
			}
			allMessages = append(allMessages, vm)
		}

		allMessages = append(allMessages, stage.Apply(state)...)
		if err := tr.record(name, state); err != nil {
			return nil, nil, err
		}
	}

	res, err := assemble(state, allMessages)
	if err != nil {
		return nil, nil, err
	}
	return res, allMessages, nil
}

// Process runs a wire request and wraps the outcome in the response
// envelope. It never fails: problems become CRITICAL messages.
func Process(req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()

	var allMessages []model.CalculationMessage
	var distribution *model.DistributionResult
	outcome := model.OutcomeSuccess

	var tr *tracer
	if req.Trace {
		tr = &tracer{}
	}

	heirs, err := model.HeirSetFrom(req.Heirs)
	if err == nil {
		var msgs []model.CalculationMessage
		distribution, msgs, err = compute(heirs, req.DeceasedGender, req.Estate, tr)
		allMessages = append(allMessages, msgs...)
	}
	if err != nil {
		outcome = model.OutcomeFailure
		distribution = nil
		allMessages = failureMessages(allMessages, err)
	}

	for i := range allMessages {
		allMessages[i].ID = i
	}
	if allMessages == nil {
		allMessages = []model.CalculationMessage{}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
			Language:               req.Language,
		},
		CalculationResult: model.CalculationResult{
			Messages:     allMessages,
			Distribution: distribution,
			Trace:        tr.stages(),
		},
	}
}

// failureMessages keeps the critical message a stage reported, or derives
// one from err when the failure happened outside the stages.
func failureMessages(msgs []model.CalculationMessage, err error) []model.CalculationMessage {
	for _, m := range msgs {
		if m.Level == model.LevelCritical {
			return msgs
		}
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return append(msgs, model.Critical(ve.Code, ve.Error()))
	}
	return append(msgs, model.Critical(model.CodeInternal, err.Error()))
}
