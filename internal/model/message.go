package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

// Warning codes attached to a successful distribution.
const (
	WarnBequestCeilingExceeded = "bequest-ceiling-exceeded"
	WarnAulApplied             = "aul-applied"
	WarnRaddApplied            = "radd-applied"
	WarnUmariyyatanApplied     = "umariyyatan-applied"
	WarnMushtarakahApplied     = "mushtarakah-applied"
	WarnScholarReview          = "complex-case-scholar-review-recommended"
	WarnResidueUnclaimed       = "residue-unclaimed"
	WarnNothingToDistribute    = "nothing-to-distribute"
)

// Critical codes; each one aborts the calculation.
const (
	CodeNoHeirs              = "no-heirs"
	CodeUnknownCategory      = "unknown-category"
	CodeDuplicateCategory    = "duplicate-category"
	CodeNegativeCount        = "negative-count"
	CodeCountExceedsMax      = "count-exceeds-max"
	CodeSpouseGenderMismatch = "spouse-gender-mismatch"
	CodeInvalidGender        = "invalid-gender"
	CodeNegativeAmount       = "negative-amount"
	CodeAmbiguousGrossValue  = "ambiguous-gross-value"
	CodeMissingMetalRate     = "missing-metal-rate"
	CodeNonPositiveNetEstate = "non-positive-net-estate"
	CodeInvalidRequest       = "invalid-request"
	CodeInternal             = "internal-error"
)

func Critical(code, msg string) CalculationMessage {
	return CalculationMessage{Level: LevelCritical, Code: code, Message: msg}
}

func Warning(code, msg string) CalculationMessage {
	return CalculationMessage{Level: LevelWarning, Code: code, Message: msg}
}
