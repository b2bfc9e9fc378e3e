package stats_test

import (
	"math"
	"testing"

	"github.com/abstat/abstat/internal/stats"
)

func TestNormalCDF(t *testing.T) {
	tests := []struct {
		x        float64
		expected float64
	}{
		{0, 0.5},
		{1.959963984540054, 0.975},
		{-1.959963984540054, 0.025},
		{1.6448536269514722, 0.95},
	}

	for _, tt := range tests {
		got := stats.NormalCDF(tt.x)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NormalCDF(%f) = %f, want %f", tt.x, got, tt.expected)
		}
	}
}

func TestNormalQuantile(t *testing.T) {
	tests := []struct {
		p        float64
		expected float64
	}{
		{0.975, 1.959963984540054},
		{0.95, 1.6448536269514722},
		{0.8, 0.8416212335729143},
		{0.995, 2.5758293035489004},
	}

	for _, tt := range tests {
		got := stats.NormalQuantile(tt.p)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NormalQuantile(%f) = %f, want %f", tt.p, got, tt.expected)
		}
	}
}

func TestChiSquareSurvival(t *testing.T) {
	// For df=1, survival(x) equals erfc(sqrt(x/2)).
	tests := []struct {
		x        float64
		expected float64
	}{
		{3.841458820694124, 0.05},
		{6.634896601021215, 0.01},
		{0, 1},
	}

	for _, tt := range tests {
		got := stats.ChiSquareSurvival(tt.x, 1)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("ChiSquareSurvival(%f, 1) = %f, want %f", tt.x, got, tt.expected)
		}
	}
}
