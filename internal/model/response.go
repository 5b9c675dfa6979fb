package model

import (
	"github.com/shopspring/decimal"

	"faraid-engine/internal/jsonpatch"
)

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
	Language               string `json:"language,omitempty"`
}

type CalculationResult struct {
	Messages     []CalculationMessage `json:"messages"`
	Distribution *DistributionResult  `json:"distribution"`
	Trace        []StageTrace         `json:"trace,omitempty"`
}

// StageTrace is the change one stage made to the working state.
type StageTrace struct {
	Stage string         `json:"stage"`
	Patch []jsonpatch.Op `json:"patch"`
}

type LegalBasis string

const (
	BasisFixed     LegalBasis = "fixed"
	BasisResiduary LegalBasis = "residuary"
	BasisExcluded  LegalBasis = "excluded"
)

// ShareAllocation is one category's portion of the whole estate.
// Numerator/Denominator are reduced; BlockedBy is set for excluded entries.
// Amounts are whole cents and the group amounts of a result add up to the
// distributed value. AmountEach is Amount split by head and rounded, so it
// can be off by a cent per head.
type ShareAllocation struct {
	Category      RelativeCategory   `json:"category"`
	Label         string             `json:"label,omitempty"`
	Basis         LegalBasis         `json:"legal_basis"`
	Numerator     int64              `json:"numerator"`
	Denominator   int64              `json:"denominator"`
	Fraction      string             `json:"fraction"`
	FractionValue float64            `json:"fraction_value"`
	Percentage    string             `json:"percentage"`
	Amount        decimal.Decimal    `json:"total_amount"`
	Count         int                `json:"head_count"`
	AmountEach    decimal.Decimal    `json:"amount_per_head"`
	BlockedBy     []RelativeCategory `json:"blocked_by,omitempty"`
}

type Summary struct {
	BaseDenominator      int64   `json:"base_denominator"`
	FixedFractionTotal   string  `json:"fixed_fraction_total"`
	FixedFractionValue   float64 `json:"fixed_fraction_value"`
	ResidueFractionTotal string  `json:"residue_fraction_total"`
	ResidueFractionValue float64 `json:"residue_fraction_value"`
	UnclaimedFraction    string  `json:"unclaimed_fraction"`
	AulApplied           bool    `json:"aul_applied"`
	RaddApplied          bool    `json:"radd_applied"`
	UmariyyatanApplied   bool    `json:"umariyyatan_applied"`
	MushtarakahApplied   bool    `json:"mushtarakah_applied"`
}

type DistributionResult struct {
	GrossValue            decimal.Decimal   `json:"gross_value"`
	Debts                 decimal.Decimal   `json:"debts"`
	FuneralCost           decimal.Decimal   `json:"funeral_cost"`
	BequestRequested      decimal.Decimal   `json:"bequest_requested"`
	BequestApplied        decimal.Decimal   `json:"bequest_applied"`
	NetDistributableValue decimal.Decimal   `json:"net_distributable_value"`
	Shares                []ShareAllocation `json:"shares"`
	Summary               Summary           `json:"summary"`
	Warnings              []string          `json:"warnings"`
}

func (r *DistributionResult) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

// Share returns the first allocation for category with the given basis.
func (r *DistributionResult) Share(c RelativeCategory, basis LegalBasis) (ShareAllocation, bool) {
	for _, s := range r.Shares {
		if s.Category == c && s.Basis == basis {
			return s, true
		}
	}
	return ShareAllocation{}, false
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
