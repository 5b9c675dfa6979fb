package stages

import "faraid-engine/internal/model"

// Stage defines the contract for one pass of the share computation.
// Validate reports CRITICAL messages that stop the run; Apply mutates the
// state and may report warnings.
type Stage interface {
	Validate(state *State) []model.CalculationMessage
	Apply(state *State) []model.CalculationMessage
}

const (
	Intake   = "intake"
	Bequest  = "bequest"
	Blocking = "blocking"
	Fixed    = "fixed_shares"
	Aul      = "aul"
	Residue  = "residue"
	Radd     = "radd"
)

var registry = map[string]Stage{
	Intake:   &IntakeStage{},
	Bequest:  &BequestStage{},
	Blocking: &BlockingStage{},
	Fixed:    &FixedShareStage{},
	Aul:      &AulStage{},
	Residue:  &ResidueStage{},
	Radd:     &RaddStage{},
}

// Order is the sequence the engine runs stages in. Blocking is a pure set
// union over the raw heir set and always precedes assignment.
var Order = []string{Intake, Bequest, Blocking, Fixed, Aul, Residue, Radd}

func Get(name string) (Stage, bool) {
	s, ok := registry[name]
	return s, ok
}
