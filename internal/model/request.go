package model

type CalculationRequest struct {
	DeceasedGender Gender           `json:"deceased_gender"`
	Heirs          []HeirEntry      `json:"heirs"`
	Estate         EstateFinancials `json:"estate"`
	Language       string           `json:"language,omitempty"`
	// Trace asks for the per-stage patches of the working state.
	Trace bool `json:"trace,omitempty"`
}
