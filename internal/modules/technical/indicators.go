package technical

import (
	"github.com/finsight/equity-advisor/pkg/formulas"
	"github.com/rs/zerolog"
)

// Indicators is the full set of technical signals derived from a price
// history. Every field is optional: a nil pointer means the history was
// too short for that indicator's lookback window.
type Indicators struct {
	CurrentPrice float64 `json:"current_price"`

	MA20  *float64 `json:"ma_20,omitempty"`
	MA50  *float64 `json:"ma_50,omitempty"`
	MA200 *float64 `json:"ma_200,omitempty"`

	// Percentage distance of the current price from each moving average.
	PriceVsMA20  *float64 `json:"price_vs_ma_20,omitempty"`
	PriceVsMA50  *float64 `json:"price_vs_ma_50,omitempty"`
	PriceVsMA200 *float64 `json:"price_vs_ma_200,omitempty"`

	RSI       *float64                  `json:"rsi,omitempty"`
	MACD      *formulas.MACDResult      `json:"macd,omitempty"`
	Bollinger *formulas.BollingerResult `json:"bollinger_bands,omitempty"`

	// Annualized volatility of daily returns.
	Volatility *float64 `json:"volatility,omitempty"`
}

// Calculator derives technical indicators from close-price series.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new technical signal calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("module", "technical").Logger(),
	}
}

// Calculate computes the indicator set for the given close series
// (oldest first). A short or empty series yields a sparse result, never
// an error: each indicator that cannot be computed is left nil.
func (c *Calculator) Calculate(closes []float64) *Indicators {
	ind := &Indicators{}
	if len(closes) == 0 {
		return ind
	}

	ind.CurrentPrice = closes[len(closes)-1]

	ind.MA20 = formulas.CalculateSMA(closes, 20)
	ind.MA50 = formulas.CalculateSMA(closes, 50)
	ind.MA200 = formulas.CalculateSMA(closes, 200)

	ind.PriceVsMA20 = priceVsMA(ind.CurrentPrice, ind.MA20)
	ind.PriceVsMA50 = priceVsMA(ind.CurrentPrice, ind.MA50)
	ind.PriceVsMA200 = priceVsMA(ind.CurrentPrice, ind.MA200)

	ind.RSI = formulas.CalculateRSI(closes, 14)
	ind.MACD = formulas.CalculateMACD(closes)
	ind.Bollinger = formulas.CalculateBollingerBands(closes, 20, 2.0)
	ind.Volatility = formulas.CalculateVolatility(closes)

	return ind
}

// priceVsMA returns the percentage distance of price from the moving
// average, or nil when the average is unavailable or zero.
func priceVsMA(price float64, ma *float64) *float64 {
	if ma == nil || *ma == 0 {
		return nil
	}
	pct := (price - *ma) / *ma * 100
	return &pct
}
