package formulas

// DrawdownMetrics represents drawdown analysis results
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"max_drawdown"`     // Maximum drawdown (positive fraction, 0.25 = 25% loss from peak)
	CurrentDrawdown float64 `json:"current_drawdown"` // Current drawdown from peak
	AverageDrawdown float64 `json:"average_drawdown"` // Mean of all below-peak observations
	DaysInDrawdown  int     `json:"days_in_drawdown"` // Observations since peak
	PeakValue       float64 `json:"peak_value"`       // Value at peak
	CurrentValue    float64 `json:"current_value"`    // Current value
}

// CalculateMaxDrawdown calculates the maximum drawdown from a value series
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns
//
// Returns the maximum drawdown as a positive fraction or nil when the
// series is too short.
func CalculateMaxDrawdown(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}

// CalculateDrawdownMetrics calculates comprehensive drawdown metrics
// including current drawdown, average drawdown and days since peak.
func CalculateDrawdownMetrics(values []float64) *DrawdownMetrics {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]
	peakIndex := 0
	currentValue := values[len(values)-1]

	var ddSum float64
	ddCount := 0

	for i, v := range values {
		if v > peak {
			peak = v
			peakIndex = i
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
			if drawdown > 0 {
				ddSum += drawdown
				ddCount++
			}
		}
	}

	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - currentValue) / peak
	}

	avgDrawdown := 0.0
	if ddCount > 0 {
		avgDrawdown = ddSum / float64(ddCount)
	}

	return &DrawdownMetrics{
		MaxDrawdown:     maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		AverageDrawdown: avgDrawdown,
		DaysInDrawdown:  len(values) - 1 - peakIndex,
		PeakValue:       peak,
		CurrentValue:    currentValue,
	}
}

// CumulativeIndex builds a growth index from a return series, starting at 1.0.
func CumulativeIndex(returns []float64) []float64 {
	index := make([]float64, len(returns)+1)
	index[0] = 1.0
	for i, ret := range returns {
		index[i+1] = index[i] * (1 + ret)
	}
	return index
}

// CalculateMomentum calculates price momentum over a period
// Returns percentage change over the period
func CalculateMomentum(prices []float64, days int) *float64 {
	if len(prices) < days+1 {
		return nil
	}

	startPrice := prices[len(prices)-days-1]
	endPrice := prices[len(prices)-1]

	if startPrice == 0 {
		return nil
	}

	momentum := (endPrice - startPrice) / startPrice
	return &momentum
}

// CalculateVolatility calculates annualized volatility from daily prices
func CalculateVolatility(prices []float64) *float64 {
	if len(prices) < 2 {
		return nil
	}

	returns := CalculateReturns(prices)
	volatility := AnnualizedVolatility(returns)

	return &volatility
}
