package risk

import (
	"testing"

	"github.com/finsight/equity-advisor/pkg/formulas"
	"github.com/finsight/equity-advisor/pkg/logger"
)

func floatPtr(f float64) *float64 { return &f }

func TestCalculate(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	engine := NewEngine(log)

	t.Run("Empty history yields an empty profile", func(t *testing.T) {
		m := engine.Calculate(nil, nil, 0.04)
		if m == nil {
			t.Fatal("Expected a metrics struct, got nil")
		}
		if m.AnnualVolatility != nil || m.VaR != nil || m.Drawdown != nil {
			t.Error("Expected every metric nil for an empty history")
		}
		if m.OverallRiskLevel != "" || m.RiskAdjustedRating != "" {
			t.Error("Expected empty labels for an empty history")
		}
	})

	t.Run("Full history fills the profile", func(t *testing.T) {
		closes := make([]float64, 100)
		market := make([]float64, 100)
		for i := range closes {
			closes[i] = 100 + float64(i)*0.3
			market[i] = 1000 + float64(i)*2
			if i%3 == 0 {
				closes[i] -= 2
				market[i] -= 10
			}
		}

		m := engine.Calculate(closes, market, 0.04)
		if m.AnnualVolatility == nil {
			t.Error("Expected annual volatility")
		}
		if m.VaR == nil {
			t.Error("Expected VaR metrics")
		}
		if m.Drawdown == nil {
			t.Error("Expected drawdown metrics")
		}
		if m.Beta == nil {
			t.Error("Expected beta against the benchmark")
		}
		if m.SharpeRatio == nil {
			t.Error("Expected Sharpe ratio")
		}
		if m.OverallRiskLevel == "" {
			t.Error("Expected an overall risk label")
		}
		if m.RiskAdjustedRating == "" {
			t.Error("Expected a risk-adjusted rating")
		}
	})

	t.Run("No benchmark means no beta", func(t *testing.T) {
		closes := []float64{100, 101, 99, 102, 103, 101, 104}
		m := engine.Calculate(closes, nil, 0.04)
		if m.Beta != nil {
			t.Error("Expected nil beta without a benchmark series")
		}
	})
}

func TestOverallRiskLevel(t *testing.T) {
	tests := []struct {
		name string
		m    *Metrics
		want string
	}{
		{
			name: "No inputs",
			m:    &Metrics{},
			want: "",
		},
		{
			name: "Benign profile",
			m: &Metrics{
				VaR:              &formulas.VaRMetrics{Historical95: -0.01},
				Drawdown:         &formulas.DrawdownMetrics{MaxDrawdown: 0.10},
				AnnualVolatility: floatPtr(0.15),
			},
			want: RiskLevelLow,
		},
		{
			name: "Elevated VaR and drawdown",
			m: &Metrics{
				VaR:              &formulas.VaRMetrics{Historical95: -0.04},
				Drawdown:         &formulas.DrawdownMetrics{MaxDrawdown: 0.25},
				AnnualVolatility: floatPtr(0.20),
			},
			want: RiskLevelModerate,
		},
		{
			name: "Deep tail and drawdown",
			m: &Metrics{
				VaR:              &formulas.VaRMetrics{Historical95: -0.06},
				Drawdown:         &formulas.DrawdownMetrics{MaxDrawdown: 0.35},
				AnnualVolatility: floatPtr(0.50),
			},
			want: RiskLevelHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overallRiskLevel(tt.m); got != tt.want {
				t.Errorf("overallRiskLevel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRiskAdjustedRating(t *testing.T) {
	tests := []struct {
		name    string
		sharpe  *float64
		sortino *float64
		calmar  *float64
		want    string
	}{
		{"No ratios", nil, nil, nil, ""},
		{"All weak", floatPtr(0.2), floatPtr(0.3), floatPtr(0.1), RatingPoor},
		{"Middling", floatPtr(1.2), floatPtr(0.8), floatPtr(0.2), RatingAverage},
		{"Strong pair", floatPtr(1.2), floatPtr(1.5), floatPtr(0.8), RatingGood},
		{"Elite across the board", floatPtr(2.0), floatPtr(2.5), floatPtr(1.5), RatingExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := riskAdjustedRating(tt.sharpe, tt.sortino, tt.calmar); got != tt.want {
				t.Errorf("riskAdjustedRating = %q, want %q", got, tt.want)
			}
		})
	}
}
