package recommendation

import (
	"fmt"

	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/finsight/equity-advisor/internal/modules/risk"
	"github.com/finsight/equity-advisor/internal/modules/technical"
	"github.com/finsight/equity-advisor/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// Input gathers everything the scorer consumes. Any field may be nil or
// sparse; rules whose inputs are unavailable simply do not fire.
type Input struct {
	Snapshot  *domain.FinancialSnapshot
	Valuation *valuation.Aggregated
	Technical *technical.Indicators
	Risk      *risk.Metrics
	External  ExternalFactors
}

// Scorer is the tiered rule-accumulation engine. One scoring pass walks
// the active tier's rule set in fixed order, adding each fired rule's
// weight to the score and appending an audit-trail factor.
type Scorer struct {
	log zerolog.Logger
}

// NewScorer creates a new recommendation scorer.
func NewScorer(log zerolog.Logger) *Scorer {
	return &Scorer{
		log: log.With().Str("module", "recommendation").Logger(),
	}
}

// accumulator collects score and factors during one scoring pass.
type accumulator struct {
	score   float64
	factors []FactorContribution
}

func (a *accumulator) add(name string, delta float64, rationale string) {
	a.score += delta
	a.factors = append(a.factors, FactorContribution{
		Name:       name,
		ScoreDelta: delta,
		Rationale:  rationale,
	})
}

// note appends an informational factor without moving the score.
func (a *accumulator) note(name, rationale string) {
	a.factors = append(a.factors, FactorContribution{Name: name, Rationale: rationale})
}

// Score runs the rule pipeline for the given tier. The result always
// carries at least one factor: if literally nothing fired, a sentinel
// "Analysis error" entry is emitted with a HOLD label and zero confidence.
func (s *Scorer) Score(in Input, tier Tier) Result {
	acc := &accumulator{}

	s.applyBasicRules(acc, in)
	if tier == TierEnhanced || tier == TierUltimate {
		s.applyEnhancedRules(acc, in)
	}
	if tier == TierUltimate {
		s.applyUltimateRules(acc, in)
	}

	if len(acc.factors) == 0 {
		s.log.Warn().Msg("No scoring rules fired, returning sentinel result")
		return Result{
			Label:      Hold,
			Score:      0,
			Confidence: 0,
			Factors: []FactorContribution{
				{Name: "analysis_error", Rationale: "Analysis error"},
			},
			Tier: tier,
		}
	}

	confidence := absFloat(acc.score) / tier.confidenceDivisor()
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		Label:      labelFor(acc.score, tier),
		Score:      acc.score,
		Confidence: confidence,
		Factors:    acc.factors,
		Tier:       tier,
	}
}

// applyBasicRules evaluates the canonical base rule set, in fixed order:
// valuation upside, P/E, ROE, debt/equity, RSI, 200-day moving average.
func (s *Scorer) applyBasicRules(acc *accumulator, in Input) {
	if in.Valuation != nil {
		if upside, ok := in.Valuation.Upside(); ok {
			switch {
			case upside > 20:
				acc.add("valuation_upside", 2, fmt.Sprintf("Strong upside potential: %.1f%%", upside))
			case upside > 10:
				acc.add("valuation_upside", 1, fmt.Sprintf("Moderate upside potential: %.1f%%", upside))
			case upside < -20:
				acc.add("valuation_upside", -2, fmt.Sprintf("Significant downside risk: %.1f%%", upside))
			case upside < -10:
				acc.add("valuation_upside", -1, fmt.Sprintf("Moderate downside risk: %.1f%%", upside))
			}
		}
	}

	if pe := trailingPE(in.Snapshot); pe != nil {
		switch {
		case *pe >= 10 && *pe <= 25:
			acc.add("pe_ratio", 1, fmt.Sprintf("Reasonable P/E ratio: %.1f", *pe))
		case *pe > 30:
			acc.add("pe_ratio", -1, fmt.Sprintf("High P/E ratio: %.1f", *pe))
		}
	}

	if in.Snapshot != nil && in.Snapshot.ReturnOnEquity != nil {
		roe := *in.Snapshot.ReturnOnEquity
		switch {
		case roe > 0.15:
			acc.add("roe", 1, fmt.Sprintf("Strong ROE: %.1f%%", roe*100))
		case roe < 0.05:
			acc.add("roe", -1, fmt.Sprintf("Low ROE: %.1f%%", roe*100))
		}
	}

	if in.Snapshot != nil && in.Snapshot.DebtToEquity != nil {
		de := *in.Snapshot.DebtToEquity
		switch {
		case de < 0.5:
			acc.add("debt_to_equity", 1, fmt.Sprintf("Low debt levels: %.1f", de))
		case de > 1.0:
			acc.add("debt_to_equity", -1, fmt.Sprintf("High debt levels: %.1f", de))
		}
	}

	if in.Technical != nil && in.Technical.RSI != nil {
		rsi := *in.Technical.RSI
		switch {
		case rsi < 30:
			acc.add("rsi", 1, "Oversold conditions (RSI < 30)")
		case rsi > 70:
			acc.add("rsi", -1, "Overbought conditions (RSI > 70)")
		}
	}

	if in.Technical != nil && in.Technical.PriceVsMA200 != nil {
		if *in.Technical.PriceVsMA200 > 0 {
			acc.add("ma_200", 1, "Price above 200-day MA")
		} else {
			acc.add("ma_200", -1, "Price below 200-day MA")
		}
	}
}

// applyEnhancedRules evaluates the factor rules fed by external data
// feeds (analysts, options flow, ownership, sentiment, momentum). Absent
// factors are skipped; the scorer never substitutes placeholder values.
func (s *Scorer) applyEnhancedRules(acc *accumulator, in Input) {
	if a := in.External.Analyst; a != nil {
		switch {
		case a.ConsensusScore > 4:
			acc.add("analyst_consensus", 1, fmt.Sprintf("Strong analyst consensus: %s", a.ConsensusRating))
		case a.ConsensusScore < 2:
			acc.add("analyst_consensus", -1, fmt.Sprintf("Weak analyst consensus: %s", a.ConsensusRating))
		}

		if a.PriceTargetUpside != nil {
			switch {
			case *a.PriceTargetUpside > 20:
				acc.add("price_target", 1, fmt.Sprintf("Significant upside potential: %.1f%%", *a.PriceTargetUpside))
			case *a.PriceTargetUpside < -20:
				acc.add("price_target", -1, fmt.Sprintf("Downside risk: %.1f%%", *a.PriceTargetUpside))
			}
		}
	}

	if o := in.External.OptionsFlow; o != nil {
		switch {
		case o.PutCallRatio < 0.7:
			acc.add("options_flow", 0.5, "Bullish options flow (low put/call ratio)")
		case o.PutCallRatio > 1.3:
			acc.add("options_flow", -0.5, "Bearish options flow (high put/call ratio)")
		}

		if o.UnusualActivity > 5 {
			acc.note("options_activity", fmt.Sprintf("High unusual options activity: %d contracts", o.UnusualActivity))
		}
	}

	if o := in.External.Ownership; o != nil {
		switch {
		case o.InstitutionalPct > 70:
			acc.add("institutional_ownership", 0.5, fmt.Sprintf("High institutional ownership: %.1f%%", o.InstitutionalPct))
		case o.InstitutionalPct < 30:
			acc.add("institutional_ownership", -0.5, fmt.Sprintf("Low institutional ownership: %.1f%%", o.InstitutionalPct))
		}
	}

	if n := in.External.Sentiment; n != nil {
		switch {
		case n.NewsScore > 0.3:
			acc.add("news_sentiment", 0.5, "Positive news sentiment")
		case n.NewsScore < -0.3:
			acc.add("news_sentiment", -0.5, "Negative news sentiment")
		}
	}

	if m := in.External.Momentum; m != nil {
		switch {
		case m.Score > 0.7:
			acc.add("technical_momentum", 0.5, "Strong technical momentum")
		case m.Score < -0.7:
			acc.add("technical_momentum", -0.5, "Weak technical momentum")
		}
	}
}

// applyUltimateRules evaluates the sector, peer, industry, earnings and
// risk-profile rules. The risk-profile inputs come from the engine's own
// risk metrics; the rest are external factor feeds.
func (s *Scorer) applyUltimateRules(acc *accumulator, in Input) {
	if sec := in.External.Sector; sec != nil {
		switch {
		case sec.VsSectorPercent > 10:
			acc.add("sector_performance", 1, fmt.Sprintf("Outperforming sector by %.1f%%", sec.VsSectorPercent))
		case sec.VsSectorPercent < -10:
			acc.add("sector_performance", -1, fmt.Sprintf("Underperforming sector by %.1f%%", -sec.VsSectorPercent))
		}

		switch sec.Ranking {
		case RankTopQuartile:
			acc.add("sector_ranking", 0.5, "Top quartile sector performance")
		case RankBottomQuartile:
			acc.add("sector_ranking", -0.5, "Bottom quartile sector performance")
		}
	}

	if p := in.External.Peer; p != nil {
		switch p.PerformanceRank {
		case RankTopPerformer:
			acc.add("peer_rank", 1, "Top performer among peers")
		case RankUnderperformer:
			acc.add("peer_rank", -1, "Underperforming peers")
		}

		switch p.CompetitivePosition {
		case PositionStrong:
			acc.add("competitive_position", 0.5, "Strong competitive position")
		case PositionWeak:
			acc.add("competitive_position", -0.5, "Weak competitive position")
		}
	}

	if ind := in.External.Industry; ind != nil {
		switch ind.Trend {
		case TrendStrongUptrend, TrendUptrend:
			acc.add("industry_trend", 0.5, fmt.Sprintf("Favorable industry trend: %s", ind.Trend))
		case TrendStrongDowntrend, TrendDowntrend:
			acc.add("industry_trend", -0.5, fmt.Sprintf("Unfavorable industry trend: %s", ind.Trend))
		}

		switch ind.Strength {
		case StrengthVeryStrong, StrengthStrong:
			acc.add("industry_strength", 0.5, fmt.Sprintf("Strong industry fundamentals: %s", ind.Strength))
		case StrengthVeryWeak, StrengthWeak:
			acc.add("industry_strength", -0.5, fmt.Sprintf("Weak industry fundamentals: %s", ind.Strength))
		}
	}

	if e := in.External.Earnings; e != nil {
		switch e.Quality {
		case EarningsHighQuality:
			acc.add("earnings_quality", 1, "High quality, stable earnings")
		case EarningsVariableQuality:
			acc.add("earnings_quality", -0.5, "Variable earnings quality")
		}

		if e.SurpriseConsistency != nil {
			switch {
			case *e.SurpriseConsistency > 0.7:
				acc.add("surprise_consistency", 0.5, "Consistent positive earnings surprises")
			case *e.SurpriseConsistency < 0.3:
				acc.add("surprise_consistency", -0.5, "Inconsistent earnings surprises")
			}
		}
	}

	if in.Risk != nil {
		switch in.Risk.OverallRiskLevel {
		case risk.RiskLevelLow:
			acc.add("risk_level", 0.5, "Low overall risk profile")
		case risk.RiskLevelHigh:
			acc.add("risk_level", -0.5, "High risk profile")
		}

		switch in.Risk.RiskAdjustedRating {
		case risk.RatingExcellent, risk.RatingGood:
			acc.add("risk_adjusted", 0.5, fmt.Sprintf("Strong risk-adjusted performance: %s", in.Risk.RiskAdjustedRating))
		case risk.RatingPoor:
			acc.add("risk_adjusted", -0.5, "Poor risk-adjusted performance")
		}
	}

	if esg := in.External.ESG; esg != nil {
		switch esg.Rating {
		case "AAA", "AA", "A":
			acc.add("esg", 0.5, fmt.Sprintf("Strong ESG rating: %s", esg.Rating))
		case "CCC", "CC", "C":
			acc.add("esg", -0.5, fmt.Sprintf("Weak ESG rating: %s", esg.Rating))
		}
	}

	if l := in.External.Liquidity; l != nil {
		switch l.Rating {
		case LiquidityHigh:
			acc.add("liquidity", 0.5, fmt.Sprintf("Strong liquidity: %s", l.Rating))
		case LiquidityLow:
			acc.add("liquidity", -0.5, fmt.Sprintf("Weak liquidity: %s", l.Rating))
		}
	}
}

// labelFor maps a score to its label via the tier's cutoff table.
//
// The tables are the ones the upstream feeds were calibrated against; the
// ENHANCED and ULTIMATE tables shift upward with the larger achievable
// score range, which biases high tiers toward bearish labels at low
// absolute scores. Documented behavior, kept deliberately.
func labelFor(score float64, tier Tier) Label {
	type cutoffs struct {
		strongBuy, buy, hold, sell float64
	}

	var c cutoffs
	switch tier {
	case TierEnhanced:
		c = cutoffs{strongBuy: 4, buy: 2, hold: -1, sell: -3}
	case TierUltimate:
		c = cutoffs{strongBuy: 5, buy: 3, hold: 1, sell: -1}
	default:
		c = cutoffs{strongBuy: 3, buy: 1, hold: -1, sell: -3}
	}

	switch {
	case score >= c.strongBuy:
		return StrongBuy
	case score >= c.buy:
		return Buy
	case score >= c.hold:
		return Hold
	case score >= c.sell:
		return Sell
	default:
		return StrongSell
	}
}

// trailingPE resolves the P/E the base rules score against: the reported
// trailing P/E when present, otherwise derived from price and EPS.
func trailingPE(snap *domain.FinancialSnapshot) *float64 {
	if snap == nil {
		return nil
	}
	if snap.TrailingPE != nil {
		return snap.TrailingPE
	}
	if snap.EarningsPerShare != nil && *snap.EarningsPerShare > 0 && snap.CurrentPrice > 0 {
		pe := snap.CurrentPrice / *snap.EarningsPerShare
		return &pe
	}
	return nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
