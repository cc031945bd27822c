package valuation

import (
	"errors"
	"fmt"
	"math"

	"github.com/finsight/equity-advisor/internal/domain"
)

// ErrInvalidModelInputs marks a mathematically invalid parameter
// combination (e.g. discount rate at or below the growth rate).
var ErrInvalidModelInputs = errors.New("invalid model inputs")

// defaultGrowthRate is assumed when the snapshot has no earnings growth.
const defaultGrowthRate = 0.05

// benchmarkROE is the reference return on equity for the ROE-adjusted
// P/B multiple.
const benchmarkROE = 0.15

// growthRate returns the snapshot's earnings growth or the default.
func growthRate(snap *domain.FinancialSnapshot) float64 {
	if snap.EarningsGrowth != nil {
		return *snap.EarningsGrowth
	}
	return defaultGrowthRate
}

// PEValuation values the company off its earnings against an industry
// multiple. The canonical fair value is the industry-multiple figure;
// the growth-adjusted variant and PEG ratio ride along as outputs.
// Returns nil when EPS is missing or non-positive.
func PEValuation(snap *domain.FinancialSnapshot, cfg domain.ScoringConfig) *Estimate {
	if snap.EarningsPerShare == nil || *snap.EarningsPerShare <= 0 {
		return nil
	}

	eps := *snap.EarningsPerShare
	growth := growthRate(snap)

	currentPE := snap.CurrentPrice / eps
	fairValueIndustry := eps * cfg.IndustryPE
	fairValueGrowth := eps * cfg.IndustryPE * (1 + growth)

	pegRatio := 0.0
	if growth > 0 {
		pegRatio = currentPE / (growth * 100)
	}

	return &Estimate{
		Method:    MethodPE,
		FairValue: fairValueIndustry,
		InputsUsed: map[string]float64{
			"eps":         eps,
			"industry_pe": cfg.IndustryPE,
			"growth_rate": growth,
		},
		Outputs: map[string]float64{
			"current_pe":        currentPE,
			"peg_ratio":         pegRatio,
			"fair_value_growth": fairValueGrowth,
		},
	}
}

// PBValuation values the company off its book value against an industry
// multiple, with an ROE-adjusted variant as a secondary output.
// Returns nil when book value is missing or non-positive.
func PBValuation(snap *domain.FinancialSnapshot, cfg domain.ScoringConfig) *Estimate {
	if snap.BookValuePerShare == nil || *snap.BookValuePerShare <= 0 {
		return nil
	}

	bv := *snap.BookValuePerShare
	roe := benchmarkROE
	if snap.ReturnOnEquity != nil {
		roe = *snap.ReturnOnEquity
	}

	currentPB := snap.CurrentPrice / bv
	fairValueIndustry := bv * cfg.IndustryPB
	roeAdjustedPB := cfg.IndustryPB * (roe / benchmarkROE)
	fairValueROE := bv * roeAdjustedPB

	return &Estimate{
		Method:    MethodPB,
		FairValue: fairValueIndustry,
		InputsUsed: map[string]float64{
			"book_value":  bv,
			"industry_pb": cfg.IndustryPB,
			"roe":         roe,
		},
		Outputs: map[string]float64{
			"current_pb":      currentPB,
			"roe_adjusted_pb": roeAdjustedPB,
			"fair_value_roe":  fairValueROE,
		},
	}
}

// DDMValuation applies the Gordon growth dividend discount model.
//
//	fair value = D * (1 + g) / (r - g)
//
// Returns (nil, nil) when the snapshot pays no dividend, and
// ErrInvalidModelInputs when the required return does not exceed the
// dividend growth rate.
func DDMValuation(snap *domain.FinancialSnapshot, cfg domain.ScoringConfig) (*Estimate, error) {
	if snap.DividendPerShare == nil || *snap.DividendPerShare <= 0 {
		return nil, nil
	}

	dividend := *snap.DividendPerShare
	g := growthRate(snap)
	r := cfg.DiscountRate

	if r <= g {
		return nil, fmt.Errorf("%w: required return %.2f must exceed dividend growth %.2f",
			ErrInvalidModelInputs, r, g)
	}

	fairValue := dividend * (1 + g) / (r - g)

	dividendYield := 0.0
	totalReturn := 0.0
	if fairValue > 0 {
		dividendYield = dividend / fairValue
		totalReturn = g + dividendYield
	}

	return &Estimate{
		Method:    MethodDDM,
		FairValue: fairValue,
		InputsUsed: map[string]float64{
			"dividend":        dividend,
			"growth_rate":     g,
			"required_return": r,
		},
		Outputs: map[string]float64{
			"dividend_yield": dividendYield,
			"total_return":   totalReturn,
		},
	}, nil
}

// GrahamValuation applies Benjamin Graham's intrinsic value formula in its
// simplified form:
//
//	V = EPS * (8.5 + 2g)    with g as a whole-number growth percentage
//
// The margin-of-safety price (30% haircut) rides along as an output.
// Returns nil when EPS is missing or non-positive.
func GrahamValuation(snap *domain.FinancialSnapshot, cfg domain.ScoringConfig) *Estimate {
	if snap.EarningsPerShare == nil || *snap.EarningsPerShare <= 0 {
		return nil
	}

	eps := *snap.EarningsPerShare
	growth := growthRate(snap)

	fairValue := eps * (8.5 + 2*growth*100)

	return &Estimate{
		Method:    MethodGraham,
		FairValue: fairValue,
		InputsUsed: map[string]float64{
			"eps":         eps,
			"growth_rate": growth,
		},
		Outputs: map[string]float64{
			"margin_of_safety_price": fairValue * 0.7,
		},
	}
}

// DCFValuation discounts a projected free-cash-flow sequence plus a Gordon
// terminal value and divides by shares outstanding.
//
// Returns (nil, nil) without projections or share count, and
// ErrInvalidModelInputs when the discount rate does not exceed the
// terminal growth rate.
func DCFValuation(snap *domain.FinancialSnapshot, cfg domain.ScoringConfig) (*Estimate, error) {
	if len(snap.ProjectedFCF) == 0 || snap.SharesOutstanding == nil || *snap.SharesOutstanding <= 0 {
		return nil, nil
	}

	r := cfg.DiscountRate
	g := cfg.TerminalGrowth

	if r <= g {
		return nil, fmt.Errorf("%w: discount rate %.2f must exceed terminal growth %.2f",
			ErrInvalidModelInputs, r, g)
	}

	var pvSum float64
	for i, fcf := range snap.ProjectedFCF {
		pvSum += fcf / math.Pow(1+r, float64(i+1))
	}

	n := len(snap.ProjectedFCF)
	terminalFCF := snap.ProjectedFCF[n-1] * (1 + g)
	terminalValue := terminalFCF / (r - g)
	pvTerminal := terminalValue / math.Pow(1+r, float64(n))

	enterpriseValue := pvSum + pvTerminal
	perShare := enterpriseValue / float64(*snap.SharesOutstanding)

	return &Estimate{
		Method:    MethodDCF,
		FairValue: perShare,
		InputsUsed: map[string]float64{
			"discount_rate":      r,
			"terminal_growth":    g,
			"projection_years":   float64(n),
			"shares_outstanding": float64(*snap.SharesOutstanding),
		},
		Outputs: map[string]float64{
			"enterprise_value": enterpriseValue,
			"terminal_value":   terminalValue,
			"pv_terminal":      pvTerminal,
		},
	}, nil
}

// CalculateWACC computes the weighted average cost of capital.
func CalculateWACC(equityValue, debtValue, costOfEquity, costOfDebt, taxRate float64) float64 {
	total := equityValue + debtValue
	if total <= 0 {
		return costOfEquity
	}

	equityWeight := equityValue / total
	debtWeight := debtValue / total

	return equityWeight*costOfEquity + debtWeight*costOfDebt*(1-taxRate)
}

// CostOfEquity computes the CAPM cost of equity for a given beta.
func CostOfEquity(cfg domain.ScoringConfig, beta float64) float64 {
	return cfg.RiskFreeRate + beta*cfg.MarketRiskPremium
}
