package formulas

import (
	"github.com/markcheno/go-talib"
)

// MACDResult holds the three MACD series endpoints.
type MACDResult struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// BollingerResult holds the Bollinger Band values for the latest period.
type BollingerResult struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// CalculateSMA returns the simple moving average of the trailing window,
// or nil when the window is longer than the available history.
func CalculateSMA(closes []float64, window int) *float64 {
	if window <= 0 || len(closes) < window {
		return nil
	}

	sma := talib.Sma(closes, window)
	if len(sma) == 0 || isNaN(sma[len(sma)-1]) {
		return nil
	}

	result := sma[len(sma)-1]
	return &result
}

// CalculateEMA returns the exponential moving average of the trailing window,
// or nil when the window is longer than the available history.
func CalculateEMA(closes []float64, window int) *float64 {
	if window <= 0 || len(closes) < window {
		return nil
	}

	ema := talib.Ema(closes, window)
	if len(ema) == 0 || isNaN(ema[len(ema)-1]) {
		return nil
	}

	result := ema[len(ema)-1]
	return &result
}

// CalculateMACD computes MACD(12, 26) with a 9-period signal line.
// Histogram = MACD - Signal. Returns nil if the history is too short.
func CalculateMACD(closes []float64) *MACDResult {
	// talib needs the slow period plus the signal period to stabilize
	if len(closes) < 26+9 {
		return nil
	}

	macd, signal, hist := talib.Macd(closes, 12, 26, 9)
	n := len(macd)
	if n == 0 || isNaN(macd[n-1]) || isNaN(signal[n-1]) || isNaN(hist[n-1]) {
		return nil
	}

	return &MACDResult{
		MACD:      macd[n-1],
		Signal:    signal[n-1],
		Histogram: hist[n-1],
	}
}

// CalculateBollingerBands computes Bollinger Bands over the given window
// with the given standard-deviation multiplier (typically 20 and 2).
func CalculateBollingerBands(closes []float64, window int, numStdDev float64) *BollingerResult {
	if window <= 0 || len(closes) < window {
		return nil
	}

	upper, middle, lower := talib.BBands(closes, window, numStdDev, numStdDev, talib.SMA)
	n := len(middle)
	if n == 0 || isNaN(upper[n-1]) || isNaN(middle[n-1]) || isNaN(lower[n-1]) {
		return nil
	}

	return &BollingerResult{
		Upper:  upper[n-1],
		Middle: middle[n-1],
		Lower:  lower[n-1],
	}
}
