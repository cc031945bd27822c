package formulas

// minBetaObservations is the minimum number of overlapping return
// observations required for a meaningful beta estimate.
const minBetaObservations = 10

// BetaResult holds beta and the supporting market statistics.
type BetaResult struct {
	Beta              float64 `json:"beta"`
	MarketCorrelation float64 `json:"market_correlation"`
	Observations      int     `json:"observations"`
}

// CalculateBeta computes the covariance-based beta of an asset versus a
// market benchmark over aligned return series.
//
//	Beta = Cov(stock, market) / Var(market)
//
// The two series must already be aligned on dates; when their lengths
// differ, the trailing overlap is used. Returns nil with fewer than ten
// overlapping observations or a flat benchmark.
func CalculateBeta(stockReturns, marketReturns []float64) *BetaResult {
	n := len(stockReturns)
	if len(marketReturns) < n {
		n = len(marketReturns)
	}
	if n < minBetaObservations {
		return nil
	}

	stock := stockReturns[len(stockReturns)-n:]
	market := marketReturns[len(marketReturns)-n:]

	marketVar := Variance(market)
	if marketVar == 0 {
		return nil
	}

	return &BetaResult{
		Beta:              Covariance(stock, market) / marketVar,
		MarketCorrelation: Correlation(stock, market),
		Observations:      n,
	}
}
