package formulas

import (
	"testing"
)

func TestCalculateMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   *float64
	}{
		{"Too short", []float64{100}, nil},
		{"Monotonic rise", []float64{100, 110, 120}, floatPtr(0)},
		{"Single dip", []float64{100, 120, 90, 110}, floatPtr(0.25)},
		{"Full round trip", []float64{100, 150, 75, 150}, floatPtr(0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMaxDrawdown(tt.values)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("CalculateMaxDrawdown(%v) = %v, want %v", tt.values, got, tt.want)
			}
			if got != nil && !almostEqual(*got, *tt.want, 1e-9) {
				t.Errorf("MaxDrawdown = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestCalculateDrawdownMetrics(t *testing.T) {
	values := []float64{100, 120, 90, 110}

	m := CalculateDrawdownMetrics(values)
	if m == nil {
		t.Fatal("Expected metrics, got nil")
	}

	if !almostEqual(m.MaxDrawdown, 0.25, 1e-9) {
		t.Errorf("MaxDrawdown = %v, want 0.25", m.MaxDrawdown)
	}
	// Peak 120, current 110
	if !almostEqual(m.CurrentDrawdown, 10.0/120.0, 1e-9) {
		t.Errorf("CurrentDrawdown = %v, want %v", m.CurrentDrawdown, 10.0/120.0)
	}
	if m.PeakValue != 120 || m.CurrentValue != 110 {
		t.Errorf("Peak/Current = %v/%v, want 120/110", m.PeakValue, m.CurrentValue)
	}
	if m.DaysInDrawdown != 2 {
		t.Errorf("DaysInDrawdown = %d, want 2", m.DaysInDrawdown)
	}
}

func TestCumulativeIndex(t *testing.T) {
	index := CumulativeIndex([]float64{0.10, -0.50})
	if len(index) != 3 {
		t.Fatalf("len = %d, want 3", len(index))
	}
	if index[0] != 1.0 {
		t.Errorf("Index must start at 1.0, got %v", index[0])
	}
	if !almostEqual(index[1], 1.1, 1e-9) || !almostEqual(index[2], 0.55, 1e-9) {
		t.Errorf("Index = %v, want [1.0, 1.1, 0.55]", index)
	}
}

func TestCalculateMomentum(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110}

	m := CalculateMomentum(prices, 10)
	if m == nil {
		t.Fatal("Expected momentum, got nil")
	}
	if !almostEqual(*m, 0.10, 1e-9) {
		t.Errorf("Momentum = %v, want 0.10", *m)
	}

	if m := CalculateMomentum(prices, 20); m != nil {
		t.Error("Expected nil when the lookback exceeds the history")
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
