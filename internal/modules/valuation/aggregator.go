package valuation

import (
	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/rs/zerolog"
)

// Battery runs every valuation model against a snapshot and aggregates
// the usable estimates. It holds no state beyond its logger.
type Battery struct {
	log zerolog.Logger
}

// NewBattery creates a new valuation battery.
func NewBattery(log zerolog.Logger) *Battery {
	return &Battery{
		log: log.With().Str("module", "valuation").Logger(),
	}
}

// Run evaluates every model against the snapshot. Models with missing
// inputs are skipped silently; models with invalid parameter combinations
// are recorded as failures. Nothing here aborts the analysis.
func (b *Battery) Run(snap *domain.FinancialSnapshot, cfg domain.ScoringConfig) Aggregated {
	var estimates []Estimate
	var failures []ModelFailure

	if est := PEValuation(snap, cfg); est != nil {
		estimates = append(estimates, *est)
	}
	if est := PBValuation(snap, cfg); est != nil {
		estimates = append(estimates, *est)
	}
	if est, err := DDMValuation(snap, cfg); err != nil {
		b.log.Debug().Err(err).Str("symbol", snap.Symbol).Msg("DDM valuation failed")
		failures = append(failures, ModelFailure{Method: MethodDDM, Reason: err.Error()})
	} else if est != nil {
		estimates = append(estimates, *est)
	}
	if est := GrahamValuation(snap, cfg); est != nil {
		estimates = append(estimates, *est)
	}
	if est, err := DCFValuation(snap, cfg); err != nil {
		b.log.Debug().Err(err).Str("symbol", snap.Symbol).Msg("DCF valuation failed")
		failures = append(failures, ModelFailure{Method: MethodDCF, Reason: err.Error()})
	} else if est != nil {
		estimates = append(estimates, *est)
	}

	agg := Aggregate(estimates, snap.CurrentPrice)
	agg.Failures = failures
	return agg
}

// Aggregate averages the fair values of the given estimates. With zero
// estimates the result is marked unavailable; the upside percentage is
// only computed against a positive current price.
func Aggregate(estimates []Estimate, currentPrice float64) Aggregated {
	agg := Aggregated{
		CurrentPrice: currentPrice,
		Components:   estimates,
	}

	if len(estimates) == 0 {
		return agg
	}

	var sum float64
	for _, est := range estimates {
		sum += est.FairValue
	}
	agg.AverageFairValue = sum / float64(len(estimates))

	if currentPrice > 0 {
		agg.UpsidePercent = (agg.AverageFairValue - currentPrice) / currentPrice * 100
		agg.Available = true
	}

	return agg
}
