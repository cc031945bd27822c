package risk

import (
	"github.com/finsight/equity-advisor/pkg/formulas"
	"github.com/rs/zerolog"
)

// Risk level labels derived from the metric thresholds below.
const (
	RiskLevelLow      = "Low Risk"
	RiskLevelModerate = "Moderate Risk"
	RiskLevelHigh     = "High Risk"
)

// Risk-adjusted performance ratings.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingAverage   = "Average"
	RatingPoor      = "Poor"
)

// Metrics is the complete risk profile of a return series. Nil fields
// mean the history was too short for that computation.
type Metrics struct {
	AnnualVolatility *float64                  `json:"annual_volatility,omitempty"`
	VaR              *formulas.VaRMetrics      `json:"var,omitempty"`
	Drawdown         *formulas.DrawdownMetrics `json:"drawdown,omitempty"`
	Beta             *formulas.BetaResult      `json:"beta,omitempty"`
	SharpeRatio      *float64                  `json:"sharpe_ratio,omitempty"`
	SortinoRatio     *float64                  `json:"sortino_ratio,omitempty"`
	CalmarRatio      *float64                  `json:"calmar_ratio,omitempty"`

	// OverallRiskLevel summarizes VaR, drawdown and volatility into one
	// label; empty when none of the inputs were computable.
	OverallRiskLevel string `json:"overall_risk_level,omitempty"`

	// RiskAdjustedRating grades the Sharpe/Sortino/Calmar combination;
	// empty when none of the ratios were computable.
	RiskAdjustedRating string `json:"risk_adjusted_rating,omitempty"`
}

// Engine derives risk metrics from price series.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates a new risk metrics engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("module", "risk").Logger(),
	}
}

// Calculate derives the full risk profile from a close-price series and an
// optional market benchmark series (for beta). riskFreeRate is annual.
// Short series produce sparse results, never errors.
func (e *Engine) Calculate(closes, marketCloses []float64, riskFreeRate float64) *Metrics {
	m := &Metrics{}

	returns := formulas.CalculateReturns(closes)
	if len(returns) == 0 {
		return m
	}

	vol := formulas.AnnualizedVolatility(returns)
	m.AnnualVolatility = &vol

	m.VaR = formulas.CalculateVaR(returns)

	index := formulas.CumulativeIndex(returns)
	m.Drawdown = formulas.CalculateDrawdownMetrics(index)

	if len(marketCloses) > 0 {
		marketReturns := formulas.CalculateReturns(marketCloses)
		m.Beta = formulas.CalculateBeta(returns, marketReturns)
	}

	m.SharpeRatio = formulas.CalculateSharpeRatio(returns, riskFreeRate, 252)
	m.SortinoRatio = formulas.CalculateSortinoRatio(returns, riskFreeRate, 252)
	m.CalmarRatio = formulas.CalculateCalmarRatio(returns, 252)

	m.OverallRiskLevel = overallRiskLevel(m)
	m.RiskAdjustedRating = riskAdjustedRating(m.SharpeRatio, m.SortinoRatio, m.CalmarRatio)

	return m
}

// overallRiskLevel combines daily VaR, maximum drawdown and annual
// volatility into a coarse risk label.
func overallRiskLevel(m *Metrics) string {
	if m.VaR == nil && m.Drawdown == nil && m.AnnualVolatility == nil {
		return ""
	}

	score := 0

	if m.VaR != nil {
		switch {
		case m.VaR.Historical95 < -0.05:
			score += 2
		case m.VaR.Historical95 < -0.03:
			score++
		}
	}

	if m.Drawdown != nil {
		switch {
		case m.Drawdown.MaxDrawdown > 0.3:
			score += 2
		case m.Drawdown.MaxDrawdown > 0.2:
			score++
		}
	}

	if m.AnnualVolatility != nil && *m.AnnualVolatility > 0.4 {
		score++
	}

	switch {
	case score >= 4:
		return RiskLevelHigh
	case score >= 2:
		return RiskLevelModerate
	default:
		return RiskLevelLow
	}
}

// riskAdjustedRating grades the three risk-adjusted return ratios.
func riskAdjustedRating(sharpe, sortino, calmar *float64) string {
	if sharpe == nil && sortino == nil && calmar == nil {
		return ""
	}

	score := 0

	if sharpe != nil {
		switch {
		case *sharpe > 1.5:
			score += 3
		case *sharpe > 1.0:
			score += 2
		case *sharpe > 0.5:
			score++
		}
	}

	if sortino != nil {
		switch {
		case *sortino > 2.0:
			score += 2
		case *sortino > 1.0:
			score++
		}
	}

	if calmar != nil {
		switch {
		case *calmar > 1.0:
			score += 2
		case *calmar > 0.5:
			score++
		}
	}

	switch {
	case score >= 6:
		return RatingExcellent
	case score >= 4:
		return RatingGood
	case score >= 2:
		return RatingAverage
	default:
		return RatingPoor
	}
}
