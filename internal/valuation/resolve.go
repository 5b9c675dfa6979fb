package valuation

import (
	"context"

	"github.com/shopspring/decimal"

	"faraid-engine/internal/model"
)

// Resolve returns a copy of estate with the per-gram rate filled in for every
// gold or silver holding that has weight but no rate. Holdings whose rate
// cannot be found are left without one; the engine then rejects the
// request with a missing-metal-rate error.
func (s *RateSource) Resolve(ctx context.Context, estate model.EstateFinancials) model.EstateFinancials {
	if estate.Assets == nil {
		return estate
	}

	assets := *estate.Assets
	holdings := map[Metal]**model.MetalHolding{
		Gold:   &assets.Gold,
		Silver: &assets.Silver,
	}

	var missing []Metal
	for _, m := range []Metal{Gold, Silver} {
		h := *holdings[m]
		if h != nil && h.RatePerGram == nil && !h.Grams.IsZero() {
			missing = append(missing, m)
		}
	}
	if len(missing) == 0 {
		return estate
	}

	rates := s.Rates(ctx, missing)
	for _, m := range missing {
		r, ok := rates[m]
		if !ok {
			continue
		}
		filled := **holdings[m]
		filled.RatePerGram = ratePtr(r)
		*holdings[m] = &filled
	}

	estate.Assets = &assets
	return estate
}

func ratePtr(r decimal.Decimal) *decimal.Decimal { return &r }
