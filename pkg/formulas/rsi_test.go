package formulas

import (
	"testing"
)

func TestCalculateRSI(t *testing.T) {
	t.Run("Insufficient data returns nil", func(t *testing.T) {
		closes := []float64{100, 101, 102}
		if rsi := CalculateRSI(closes, 14); rsi != nil {
			t.Errorf("Expected nil for short history, got %v", *rsi)
		}
	})

	t.Run("Monotonic gains saturate at 100", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}

		rsi := CalculateRSI(closes, 14)
		if rsi == nil {
			t.Fatal("Expected RSI for monotonic gains, got nil")
		}
		if *rsi != 100 {
			t.Errorf("RSI = %v, want 100 for all-gain window", *rsi)
		}
	})

	t.Run("Monotonic losses read deeply oversold", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 130 - float64(i)
		}

		rsi := CalculateRSI(closes, 14)
		if rsi == nil {
			t.Fatal("Expected RSI for declining series, got nil")
		}
		if *rsi > 5 {
			t.Errorf("RSI = %v, want near 0 for all-loss window", *rsi)
		}
	})

	t.Run("Mixed series stays in bounds", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100
			if i%2 == 0 {
				closes[i] += 2
			}
		}

		rsi := CalculateRSI(closes, 14)
		if rsi == nil {
			t.Fatal("Expected RSI, got nil")
		}
		if *rsi < 0 || *rsi > 100 {
			t.Errorf("RSI = %v, want value in [0, 100]", *rsi)
		}
	})
}

func TestAllGains(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		length int
		want   bool
	}{
		{"Strictly rising", []float64{1, 2, 3, 4, 5}, 4, true},
		{"Flat series", []float64{3, 3, 3, 3, 3}, 4, false},
		{"One loss", []float64{1, 2, 3, 2, 5}, 4, false},
		{"Rising with plateau", []float64{1, 1, 2, 2, 3}, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := allGains(tt.closes, tt.length); got != tt.want {
				t.Errorf("allGains(%v, %d) = %v, want %v", tt.closes, tt.length, got, tt.want)
			}
		})
	}
}
