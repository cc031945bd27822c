package domain

import "time"

// PricePoint is a single observation in a price history series.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume int64     `json:"volume"`
}

// FinancialSnapshot is the normalized input to the analysis engine.
// All numeric fields are optional: a nil pointer means the data source
// did not provide the value, and any computation that needs it is skipped.
// Snapshots are never mutated after construction.
type FinancialSnapshot struct {
	Symbol            string       `json:"symbol"`
	CurrentPrice      float64      `json:"current_price"`
	EarningsPerShare  *float64     `json:"earnings_per_share,omitempty"`
	BookValuePerShare *float64     `json:"book_value_per_share,omitempty"`
	DividendPerShare  *float64     `json:"dividend_per_share,omitempty"`
	TrailingPE        *float64     `json:"trailing_pe,omitempty"`
	PriceToBook       *float64     `json:"price_to_book,omitempty"`
	DebtToEquity      *float64     `json:"debt_to_equity,omitempty"`
	ReturnOnEquity    *float64     `json:"return_on_equity,omitempty"`
	ReturnOnAssets    *float64     `json:"return_on_assets,omitempty"`
	ProfitMargin      *float64     `json:"profit_margin,omitempty"`
	RevenueGrowth     *float64     `json:"revenue_growth,omitempty"`
	EarningsGrowth    *float64     `json:"earnings_growth,omitempty"`
	Beta              *float64     `json:"beta,omitempty"`
	SharesOutstanding *int64       `json:"shares_outstanding,omitempty"`
	Sector            string       `json:"sector,omitempty"`
	PriceHistory      []PricePoint `json:"price_history,omitempty"`

	// Optional projected free cash flows for DCF valuation.
	ProjectedFCF []float64 `json:"projected_fcf,omitempty"`

	// Optional benchmark series for beta calculation.
	MarketHistory []PricePoint `json:"market_history,omitempty"`
}

// Closes returns the close prices of the snapshot's history, oldest first.
func (s *FinancialSnapshot) Closes() []float64 {
	closes := make([]float64, len(s.PriceHistory))
	for i, p := range s.PriceHistory {
		closes[i] = p.Close
	}
	return closes
}

// MarketCloses returns the close prices of the benchmark series, oldest first.
func (s *FinancialSnapshot) MarketCloses() []float64 {
	closes := make([]float64, len(s.MarketHistory))
	for i, p := range s.MarketHistory {
		closes[i] = p.Close
	}
	return closes
}

// ScoringConfig carries the tunable model parameters. It is an immutable
// value passed per analysis call; callers start from DefaultScoringConfig
// and override fields as needed.
type ScoringConfig struct {
	RiskFreeRate      float64 `json:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium"`
	TerminalGrowth    float64 `json:"terminal_growth"`
	DiscountRate      float64 `json:"discount_rate"`
	IndustryPE        float64 `json:"industry_pe"`
	IndustryPB        float64 `json:"industry_pb"`
}

// DefaultScoringConfig returns the standard model parameters.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		RiskFreeRate:      0.04,
		MarketRiskPremium: 0.06,
		TerminalGrowth:    0.03,
		DiscountRate:      0.10,
		IndustryPE:        20.0,
		IndustryPB:        2.0,
	}
}
