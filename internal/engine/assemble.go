package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"faraid-engine/internal/fraction"
	"faraid-engine/internal/model"
	"faraid-engine/internal/stages"
)

// assemble renders the final state into a DistributionResult: entitled
// shares first in category order, then one Excluded entry per present
// category that receives nothing.
func assemble(s *stages.State, msgs []model.CalculationMessage) (*model.DistributionResult, error) {
	res := &model.DistributionResult{
		GrossValue:            s.Gross,
		Debts:                 s.Estate.Debts,
		FuneralCost:           s.Estate.FuneralCost,
		BequestRequested:      s.Estate.BequestRequested,
		BequestApplied:        s.BequestApplied,
		NetDistributableValue: s.Net,
		Shares:                []model.ShareAllocation{},
		Warnings:              warningCodes(msgs),
	}

	entitled := make([]stages.Share, 0, len(s.Fixed)+len(s.Residuary))
	entitled = append(entitled, s.Fixed...)
	entitled = append(entitled, s.Residuary...)
	sort.SliceStable(entitled, func(i, j int) bool {
		if entitled[i].Category != entitled[j].Category {
			return entitled[i].Category < entitled[j].Category
		}
		return entitled[i].Basis == model.BasisFixed && entitled[j].Basis != model.BasisFixed
	})

	allocated := map[model.RelativeCategory]bool{}
	dens := []int64{}
	amounts := centAmounts(s.Net, entitled)
	for i, sh := range entitled {
		if sh.Count <= 0 {
			return nil, fmt.Errorf("engine: %s share has no heads", sh.Category)
		}
		res.Shares = append(res.Shares, allocation(amounts[i], sh))
		allocated[sh.Category] = true
		if !sh.Frac.IsZero() {
			dens = append(dens, sh.Frac.Den)
		}
	}

	for _, c := range s.Heirs.Present() {
		if allocated[c] {
			continue
		}
		res.Shares = append(res.Shares, excluded(c, s.Heirs.Count(c), s.Blocked[c]))
	}

	fixed, residuary := s.FixedTotal(), s.ResiduaryTotal()
	res.Summary = model.Summary{
		BaseDenominator:      fraction.LCMOf(dens...),
		FixedFractionTotal:   fixed.String(),
		FixedFractionValue:   fixed.Float64(),
		ResidueFractionTotal: residuary.String(),
		ResidueFractionValue: residuary.Float64(),
		UnclaimedFraction:    s.Unclaimed.String(),
		AulApplied:           s.AulApplied,
		RaddApplied:          s.RaddApplied,
		UmariyyatanApplied:   s.UmariyyatanApplied,
		MushtarakahApplied:   s.MushtarakahApplied,
	}
	return res, nil
}

var cent = decimal.New(1, -2)

// centAmounts turns each share of net into whole cents by largest remainder:
// every share gets its truncated amount, then the cents still missing from
// the rounded total go one each to the largest remainders, earlier shares
// first on ties. The group amounts therefore add up to the distributed value.
func centAmounts(net decimal.Decimal, shares []stages.Share) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(shares))
	remainders := make([]decimal.Decimal, len(shares))
	exactTotal, floorTotal := decimal.Zero, decimal.Zero
	for i, sh := range shares {
		exact := net.Mul(decimal.NewFromInt(sh.Frac.Num)).Div(decimal.NewFromInt(sh.Frac.Den))
		amounts[i] = exact.Truncate(2)
		remainders[i] = exact.Sub(amounts[i])
		exactTotal = exactTotal.Add(exact)
		floorTotal = floorTotal.Add(amounts[i])
	}

	missing := exactTotal.Round(2).Sub(floorTotal).Div(cent).IntPart()
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})
	for k := int64(0); k < missing && k < int64(len(order)); k++ {
		i := order[k]
		amounts[i] = amounts[i].Add(cent)
	}
	return amounts
}

// allocation builds one entitled entry. AmountEach is the group amount split
// by head and rounded to cents, so AmountEach × Count may differ from Amount
// by a few cents; Amount is authoritative.
func allocation(amount decimal.Decimal, sh stages.Share) model.ShareAllocation {
	return model.ShareAllocation{
		Category:      sh.Category,
		Basis:         sh.Basis,
		Numerator:     sh.Frac.Num,
		Denominator:   sh.Frac.Den,
		Fraction:      sh.Frac.String(),
		FractionValue: sh.Frac.Float64(),
		Percentage:    sh.Frac.Percent(),
		Amount:        amount,
		Count:         sh.Count,
		AmountEach:    amount.Div(decimal.NewFromInt(int64(sh.Count))).Round(2),
	}
}

func excluded(c model.RelativeCategory, count int, by []model.RelativeCategory) model.ShareAllocation {
	return model.ShareAllocation{
		Category:    c,
		Basis:       model.BasisExcluded,
		Numerator:   0,
		Denominator: 1,
		Fraction:    fraction.Zero.String(),
		Percentage:  fraction.Zero.Percent(),
		Amount:      decimal.Zero,
		Count:       count,
		AmountEach:  decimal.Zero,
		BlockedBy:   by,
	}
}

func warningCodes(msgs []model.CalculationMessage) []string {
	codes := []string{}
	seen := map[string]bool{}
	for _, m := range msgs {
		if m.Level != model.LevelWarning || seen[m.Code] {
			continue
		}
		seen[m.Code] = true
		codes = append(codes, m.Code)
	}
	return codes
}
