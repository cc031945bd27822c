package formulas

// Z-scores for the one-tailed normal quantiles used in parametric VaR.
const (
	zScore95 = 1.645
	zScore99 = 2.326
)

// VaRMetrics holds Value-at-Risk figures for a daily return series.
// All values are daily returns; losses are negative.
type VaRMetrics struct {
	Historical95        float64 `json:"var_95_historical"`
	Historical99        float64 `json:"var_99_historical"`
	Parametric95        float64 `json:"var_95_parametric"`
	Parametric99        float64 `json:"var_99_parametric"`
	ExpectedShortfall95 float64 `json:"expected_shortfall_95"`
	ExpectedShortfall99 float64 `json:"expected_shortfall_99"`
}

// CalculateVaR computes historical and parametric Value at Risk plus
// expected shortfall (conditional VaR) from a daily return series.
//
// Historical VaR is the empirical 5th/1st percentile of returns.
// Parametric VaR assumes normality: mean - z * stddev.
// Expected shortfall is the mean of the returns at or below historical VaR.
func CalculateVaR(returns []float64) *VaRMetrics {
	if len(returns) < 2 {
		return nil
	}

	hist95 := Quantile(returns, 0.05)
	hist99 := Quantile(returns, 0.01)

	mean := Mean(returns)
	std := StdDev(returns)

	return &VaRMetrics{
		Historical95:        hist95,
		Historical99:        hist99,
		Parametric95:        mean - zScore95*std,
		Parametric99:        mean - zScore99*std,
		ExpectedShortfall95: tailMean(returns, hist95),
		ExpectedShortfall99: tailMean(returns, hist99),
	}
}

// tailMean averages the returns at or below the cutoff. Falls back to the
// cutoff itself when no observation qualifies.
func tailMean(returns []float64, cutoff float64) float64 {
	var sum float64
	count := 0
	for _, ret := range returns {
		if ret <= cutoff {
			sum += ret
			count++
		}
	}
	if count == 0 {
		return cutoff
	}
	return sum / float64(count)
}
