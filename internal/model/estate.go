package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type LandParcel struct {
	Area      decimal.Decimal `json:"area"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// MetalHolding is a weight of gold or silver. A nil RatePerGram asks the
// caller's rate source to fill it in before the engine runs.
type MetalHolding struct {
	Grams       decimal.Decimal  `json:"grams"`
	RatePerGram *decimal.Decimal `json:"rate_per_gram,omitempty"`
}

type Assets struct {
	Cash   decimal.Decimal `json:"cash"`
	Land   []LandParcel    `json:"land,omitempty"`
	Gold   *MetalHolding   `json:"gold,omitempty"`
	Silver *MetalHolding   `json:"silver,omitempty"`
	Other  decimal.Decimal `json:"other"`
}

type EstateFinancials struct {
	GrossValue       decimal.Decimal `json:"gross_value"`
	Assets           *Assets         `json:"assets,omitempty"`
	Debts            decimal.Decimal `json:"debts"`
	FuneralCost      decimal.Decimal `json:"funeral_cost"`
	BequestRequested decimal.Decimal `json:"bequest_requested"`
}

func (a *Assets) empty() bool {
	if a == nil {
		return true
	}
	return a.Cash.IsZero() && a.Other.IsZero() && len(a.Land) == 0 && a.Gold == nil && a.Silver == nil
}

// Gross returns the gross value of the estate, either as given or as the sum
// of its decomposed components. Supplying both is ambiguous.
func (e EstateFinancials) Gross() (decimal.Decimal, error) {
	if e.GrossValue.IsNegative() {
		return decimal.Zero, negativeAmount("estate.gross_value")
	}
	if e.Assets.empty() {
		return e.GrossValue, nil
	}
	if !e.GrossValue.IsZero() {
		return decimal.Zero, &ValidationError{
			Code:    CodeAmbiguousGrossValue,
			Field:   "estate.gross_value",
			Message: "gross_value and decomposed assets are mutually exclusive",
		}
	}

	a := e.Assets
	if a.Cash.IsNegative() {
		return decimal.Zero, negativeAmount("estate.assets.cash")
	}
	if a.Other.IsNegative() {
		return decimal.Zero, negativeAmount("estate.assets.other")
	}
	total := a.Cash.Add(a.Other)

	for i, p := range a.Land {
		if p.Area.IsNegative() || p.UnitPrice.IsNegative() {
			return decimal.Zero, negativeAmount(fmt.Sprintf("estate.assets.land[%d]", i))
		}
		total = total.Add(p.Area.Mul(p.UnitPrice))
	}

	metals := []struct {
		field string
		m     *MetalHolding
	}{
		{"estate.assets.gold", a.Gold},
		{"estate.assets.silver", a.Silver},
	}
	for _, mh := range metals {
		v, err := mh.m.value(mh.field)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

func (m *MetalHolding) value(field string) (decimal.Decimal, error) {
	if m == nil || m.Grams.IsZero() {
		return decimal.Zero, nil
	}
	if m.Grams.IsNegative() {
		return decimal.Zero, negativeAmount(field + ".grams")
	}
	if m.RatePerGram == nil {
		return decimal.Zero, &ValidationError{
			Code:    CodeMissingMetalRate,
			Field:   field + ".rate_per_gram",
			Message: "rate per gram is required when grams are given",
		}
	}
	if m.RatePerGram.IsNegative() {
		return decimal.Zero, negativeAmount(field + ".rate_per_gram")
	}
	return m.Grams.Mul(*m.RatePerGram), nil
}

func negativeAmount(field string) error {
	return &ValidationError{
		Code:    CodeNegativeAmount,
		Field:   field,
		Message: field + " must not be negative",
	}
}
