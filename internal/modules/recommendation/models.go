package recommendation

// Label is the graded investment recommendation.
type Label string

const (
	StrongSell Label = "STRONG_SELL"
	Sell       Label = "SELL"
	Hold       Label = "HOLD"
	Buy        Label = "BUY"
	StrongBuy  Label = "STRONG_BUY"
)

// Rank orders labels from most bearish (0) to most bullish (4).
func (l Label) Rank() int {
	switch l {
	case StrongSell:
		return 0
	case Sell:
		return 1
	case Hold:
		return 2
	case Buy:
		return 3
	case StrongBuy:
		return 4
	default:
		return 2
	}
}

// Tier selects how many factor groups feed the scorer. Higher tiers add
// rules on top of the lower ones without changing the combination contract.
type Tier string

const (
	TierBasic    Tier = "basic"
	TierEnhanced Tier = "enhanced"
	TierUltimate Tier = "ultimate"
)

// ParseTier maps a string to a tier, defaulting to basic.
func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierEnhanced:
		return TierEnhanced
	case TierUltimate:
		return TierUltimate
	default:
		return TierBasic
	}
}

// confidenceDivisor returns the denominator of the confidence formula for
// the tier; it grows with the tier's maximum achievable score.
func (t Tier) confidenceDivisor() float64 {
	switch t {
	case TierEnhanced:
		return 6
	case TierUltimate:
		return 8
	default:
		return 5
	}
}

// FactorContribution is one audit-trail entry: a rule that fired, the
// score it added and a human-readable rationale carrying the metric value.
type FactorContribution struct {
	Name       string  `json:"name"`
	ScoreDelta float64 `json:"score_delta"`
	Rationale  string  `json:"rationale"`
}

// Result is the final graded recommendation. It is constructed fresh per
// analysis call, never mutated afterwards, and safe to cache keyed by
// (snapshot hash, tier). Factors is never empty: when no rule fired, a
// single sentinel entry is present instead.
type Result struct {
	Label      Label                `json:"label"`
	Score      float64              `json:"score"`
	Confidence float64              `json:"confidence"`
	Factors    []FactorContribution `json:"factors"`
	Tier       Tier                 `json:"tier"`
}

// Qualitative grades used by the ULTIMATE-tier external factors. The
// string values mirror what the upstream feeds emit.
const (
	RankTopQuartile    = "Top Quartile"
	RankBottomQuartile = "Bottom Quartile"
	RankTopPerformer   = "Top Performer"
	RankUnderperformer = "Underperformer"

	PositionStrong = "Strong"
	PositionWeak   = "Weak"

	TrendStrongUptrend   = "Strong Uptrend"
	TrendUptrend         = "Uptrend"
	TrendDowntrend       = "Downtrend"
	TrendStrongDowntrend = "Strong Downtrend"

	StrengthVeryStrong = "Very Strong"
	StrengthStrong     = "Strong"
	StrengthWeak       = "Weak"
	StrengthVeryWeak   = "Very Weak"

	EarningsHighQuality     = "High Quality (Stable)"
	EarningsVariableQuality = "Variable Quality (High Volatility)"

	LiquidityHigh = "High Liquidity"
	LiquidityLow  = "Low Liquidity"
)

// AnalystFactor carries analyst-consensus inputs from an external feed.
type AnalystFactor struct {
	ConsensusRating   string   `json:"consensus_rating"`
	ConsensusScore    float64  `json:"consensus_score"` // 1 (strong sell) .. 5 (strong buy)
	PriceTargetUpside *float64 `json:"price_target_upside,omitempty"`
}

// OptionsFlowFactor carries options-market inputs from an external feed.
type OptionsFlowFactor struct {
	PutCallRatio    float64 `json:"put_call_ratio"`
	UnusualActivity int     `json:"unusual_activity"`
}

// OwnershipFactor carries institutional-ownership inputs.
type OwnershipFactor struct {
	InstitutionalPct float64 `json:"institutional_pct"`
}

// SentimentFactor carries aggregated news sentiment in [-1, 1].
type SentimentFactor struct {
	NewsScore float64 `json:"news_score"`
}

// MomentumFactor carries an advanced technical momentum score in [-1, 1].
type MomentumFactor struct {
	Score float64 `json:"score"`
}

// SectorFactor carries sector-relative performance inputs.
type SectorFactor struct {
	VsSectorPercent float64 `json:"vs_sector_percent"`
	Ranking         string  `json:"ranking"`
}

// PeerFactor carries peer-comparison inputs.
type PeerFactor struct {
	PerformanceRank     string `json:"performance_rank"`
	CompetitivePosition string `json:"competitive_position"`
}

// IndustryFactor carries industry-trend inputs.
type IndustryFactor struct {
	Trend    string `json:"trend"`
	Strength string `json:"strength"`
}

// EarningsFactor carries earnings-quality inputs.
type EarningsFactor struct {
	Quality             string   `json:"quality"`
	SurpriseConsistency *float64 `json:"surprise_consistency,omitempty"` // fraction of positive surprises
}

// ESGFactor carries an ESG letter rating (AAA..CCC).
type ESGFactor struct {
	Rating string `json:"rating"`
}

// LiquidityFactor carries a trading-liquidity rating.
type LiquidityFactor struct {
	Rating string `json:"rating"`
}

// ExternalFactors bundles the typed factor inputs supplied by external
// collaborators. Every field is optional; an absent factor simply means
// its rules do not fire. The scorer never fabricates stand-in values.
type ExternalFactors struct {
	Analyst     *AnalystFactor     `json:"analyst,omitempty"`
	OptionsFlow *OptionsFlowFactor `json:"options_flow,omitempty"`
	Ownership   *OwnershipFactor   `json:"ownership,omitempty"`
	Sentiment   *SentimentFactor   `json:"sentiment,omitempty"`
	Momentum    *MomentumFactor    `json:"momentum,omitempty"`
	Sector      *SectorFactor      `json:"sector,omitempty"`
	Peer        *PeerFactor        `json:"peer,omitempty"`
	Industry    *IndustryFactor    `json:"industry,omitempty"`
	Earnings    *EarningsFactor    `json:"earnings,omitempty"`
	ESG         *ESGFactor         `json:"esg,omitempty"`
	Liquidity   *LiquidityFactor   `json:"liquidity,omitempty"`
}
