package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateRSI calculates the Relative Strength Index
//
// RSI Formula:
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods (Wilder smoothing)
//
// When the average loss over the window is zero the indicator saturates at
// 100 (fully bullish) rather than dividing by zero.
//
// Returns the current RSI value (0-100) or nil if insufficient data.
func CalculateRSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	// talib yields NaN when every move in the window is a gain; the
	// oscillator definition saturates at 100 in that case.
	if allGains(closes, length) {
		result := 100.0
		return &result
	}

	return nil
}

// allGains reports whether every period-over-period change in the trailing
// window is non-negative with at least one strict gain.
func allGains(closes []float64, length int) bool {
	start := len(closes) - length - 1
	if start < 0 {
		start = 0
	}
	gained := false
	for i := start + 1; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		if diff < 0 {
			return false
		}
		if diff > 0 {
			gained = true
		}
	}
	return gained
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
