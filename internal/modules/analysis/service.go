package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/finsight/equity-advisor/internal/modules/recommendation"
	"github.com/finsight/equity-advisor/internal/modules/risk"
	"github.com/finsight/equity-advisor/internal/modules/technical"
	"github.com/finsight/equity-advisor/internal/modules/valuation"
	"github.com/rs/zerolog"
)

// Report is the complete output of one analysis pass. Presentation layers
// consume it as-is and must not re-derive or alter any field.
type Report struct {
	Symbol         string                `json:"symbol"`
	Valuation      valuation.Aggregated  `json:"valuation"`
	Technical      *technical.Indicators `json:"technical"`
	Risk           *risk.Metrics         `json:"risk"`
	Recommendation recommendation.Result `json:"recommendation"`
}

// Service orchestrates one analysis pass: the valuation battery, technical
// calculator and risk engine run concurrently (they are independent pure
// functions of the snapshot), then the scorer combines their outputs.
// The service itself is stateless and safe for concurrent use.
type Service struct {
	battery   *valuation.Battery
	technical *technical.Calculator
	risk      *risk.Engine
	scorer    *recommendation.Scorer
	log       zerolog.Logger
}

// NewService creates a new analysis service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		battery:   valuation.NewBattery(log),
		technical: technical.NewCalculator(log),
		risk:      risk.NewEngine(log),
		scorer:    recommendation.NewScorer(log),
		log:       log.With().Str("module", "analysis").Logger(),
	}
}

// Analyze runs the full pipeline over one snapshot. The call is
// deterministic: identical snapshot, config, tier and factors always
// produce an identical report.
func (s *Service) Analyze(
	snap *domain.FinancialSnapshot,
	cfg domain.ScoringConfig,
	tier recommendation.Tier,
	ext recommendation.ExternalFactors,
) *Report {
	closes := snap.Closes()
	marketCloses := snap.MarketCloses()

	var (
		wg  sync.WaitGroup
		agg valuation.Aggregated
		ind *technical.Indicators
		rm  *risk.Metrics
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		agg = s.battery.Run(snap, cfg)
	}()
	go func() {
		defer wg.Done()
		ind = s.technical.Calculate(closes)
	}()
	go func() {
		defer wg.Done()
		rm = s.risk.Calculate(closes, marketCloses, cfg.RiskFreeRate)
	}()
	wg.Wait()

	rec := s.scorer.Score(recommendation.Input{
		Snapshot:  snap,
		Valuation: &agg,
		Technical: ind,
		Risk:      rm,
		External:  ext,
	}, tier)

	s.log.Debug().
		Str("symbol", snap.Symbol).
		Str("tier", string(tier)).
		Float64("score", rec.Score).
		Str("label", string(rec.Label)).
		Msg("Analysis complete")

	return &Report{
		Symbol:         snap.Symbol,
		Valuation:      agg,
		Technical:      ind,
		Risk:           rm,
		Recommendation: rec,
	}
}

// Fingerprint derives the cache key for one analysis call: the snapshot
// hash plus the tier, extended with the config and external factors since
// they feed the result too. Reports are immutable once produced, so equal
// fingerprints may share a cached result.
func Fingerprint(
	snap *domain.FinancialSnapshot,
	cfg domain.ScoringConfig,
	tier recommendation.Tier,
	ext recommendation.ExternalFactors,
) string {
	h := sha256.New()
	enc := json.NewEncoder(h)

	// Encoding errors are impossible for these plain value types.
	_ = enc.Encode(snap)
	_ = enc.Encode(cfg)
	_ = enc.Encode(tier)
	_ = enc.Encode(ext)

	return hex.EncodeToString(h.Sum(nil))
}
