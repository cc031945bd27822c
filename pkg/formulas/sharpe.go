package formulas

import (
	"math"
)

// CalculateSharpeRatio calculates the annualized Sharpe Ratio
//
// Sharpe Ratio Formula:
//
//	Sharpe = (Mean Return - Periodic Risk-free Rate) / Standard Deviation of Returns
//	Annualized: Sharpe x sqrt(periodsPerYear)
//
// Args:
//
//	returns: Array of periodic returns (daily, monthly, etc.)
//	riskFreeRate: Risk-free rate (annual, as decimal, e.g., 0.04 for 4%)
//	periodsPerYear: Number of periods per year (252 for daily, 12 for monthly)
//
// Returns:
//
//	Sharpe ratio or nil if insufficient data
func CalculateSharpeRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	meanReturn := Mean(returns)

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)

	sharpe := (meanReturn - periodicRiskFree) / stdDev
	annualizedSharpe := sharpe * math.Sqrt(float64(periodsPerYear))

	return &annualizedSharpe
}

// CalculateSortinoRatio calculates the annualized Sortino Ratio, the
// downside-deviation variant of Sharpe. Only returns below zero contribute
// to the risk denominator.
//
//	Sortino = (Mean Return - Periodic Risk-free Rate) / Downside Deviation
//	Downside Deviation = stddev of negative returns
//
// Returns nil when there are no negative returns to measure.
func CalculateSortinoRatio(returns []float64, riskFreeRate float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	var downside []float64
	for _, ret := range returns {
		if ret < 0 {
			downside = append(downside, ret)
		}
	}
	if len(downside) < 2 {
		return nil
	}

	downsideDeviation := StdDev(downside)
	if downsideDeviation == 0 {
		return nil
	}

	periodicRiskFree := riskFreeRate / float64(periodsPerYear)

	sortino := (Mean(returns) - periodicRiskFree) / downsideDeviation
	annualizedSortino := sortino * math.Sqrt(float64(periodsPerYear))

	return &annualizedSortino
}

// CalculateCalmarRatio calculates the Calmar Ratio: annualized return over
// the absolute maximum drawdown of the cumulative-return index.
//
// Undefined (nil) when the series never draws down.
func CalculateCalmarRatio(returns []float64, periodsPerYear int) *float64 {
	if len(returns) < 2 {
		return nil
	}

	// Cumulative growth index from returns
	index := make([]float64, len(returns)+1)
	index[0] = 1.0
	for i, ret := range returns {
		index[i+1] = index[i] * (1 + ret)
	}

	maxDD := CalculateMaxDrawdown(index)
	if maxDD == nil || *maxDD == 0 {
		return nil
	}

	periods := float64(len(returns))
	final := index[len(index)-1]
	if final <= 0 {
		return nil
	}
	annualReturn := math.Pow(final, float64(periodsPerYear)/periods) - 1

	calmar := annualReturn / *maxDD
	return &calmar
}
