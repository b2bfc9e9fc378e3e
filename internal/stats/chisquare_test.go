package stats_test

import (
	"errors"
	"math"
	"testing"

	"github.com/abstat/abstat/internal/stats"
)

func TestChiSquareTest_CampaignScenario(t *testing.T) {
	control := stats.GroupCounts{Label: "Original", Visitors: 1250, Conversions: 38}
	treatment := stats.GroupCounts{Label: "Variant B", Visitors: 1180, Conversions: 52}

	result, err := stats.ChiSquareTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.YatesCorrected {
		t.Error("all expected cells exceed 5, no correction expected")
	}
	if math.Abs(result.Statistic-3.179340) > 1e-5 {
		t.Errorf("statistic = %f, want 3.179340", result.Statistic)
	}
	if math.Abs(result.PValue-0.074575) > 1e-5 {
		t.Errorf("p = %f, want 0.074575", result.PValue)
	}
	if result.DegreesOfFreedom != 1 {
		t.Errorf("df = %d, want 1", result.DegreesOfFreedom)
	}
	if result.Significant {
		t.Error("p > alpha, should not be significant")
	}
}

func TestChiSquareTest_AgreesWithZTest(t *testing.T) {
	// Without the continuity correction, the 2x2 chi-square statistic
	// is exactly the square of the pooled z statistic, so the
	// p-values must match whenever all expected cells are >= 5.
	tables := []struct {
		c1, n1, c2, n2 int
	}{
		{38, 1250, 52, 1180},
		{100, 1000, 150, 1000},
		{50, 1000, 50, 1000},
		{7, 120, 19, 115},
		{300, 5000, 340, 4900},
	}

	for _, tb := range tables {
		control := stats.GroupCounts{Label: "A", Visitors: tb.n1, Conversions: tb.c1}
		treatment := stats.GroupCounts{Label: "B", Visitors: tb.n2, Conversions: tb.c2}

		chi, err := stats.ChiSquareTest(control, treatment, 0.05)
		if err != nil {
			t.Fatalf("chi-square(%+v): %v", tb, err)
		}
		if chi.YatesCorrected {
			t.Fatalf("table %+v unexpectedly triggered Yates correction", tb)
		}
		z, err := stats.TwoProportionZTest(control, treatment, 0.05)
		if err != nil {
			t.Fatalf("z-test(%+v): %v", tb, err)
		}

		if math.Abs(chi.Statistic-z.ZStatistic*z.ZStatistic) > 1e-8 {
			t.Errorf("table %+v: chi2 %f != z^2 %f", tb, chi.Statistic, z.ZStatistic*z.ZStatistic)
		}
		if math.Abs(chi.PValue-z.PValue) > 1e-8 {
			t.Errorf("table %+v: chi-square p %f != z-test p %f", tb, chi.PValue, z.PValue)
		}
		if chi.Significant != z.Significant {
			t.Errorf("table %+v: tests disagree on significance", tb)
		}
	}
}

func TestChiSquareTest_YatesCorrection(t *testing.T) {
	// Expected conversion cells are ~5.17 and ~4.83, so the
	// correction kicks in.
	control := stats.GroupCounts{Label: "A", Visitors: 30, Conversions: 2}
	treatment := stats.GroupCounts{Label: "B", Visitors: 28, Conversions: 8}

	result, err := stats.ChiSquareTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.YatesCorrected {
		t.Fatal("expected Yates correction for small expected cells")
	}
	if math.Abs(result.Statistic-3.455977) > 1e-5 {
		t.Errorf("statistic = %f, want 3.455977", result.Statistic)
	}
	if math.Abs(result.PValue-0.063023) > 1e-5 {
		t.Errorf("p = %f, want 0.063023", result.PValue)
	}
}

func TestChiSquareTest_IdenticalRates(t *testing.T) {
	control := stats.GroupCounts{Label: "A", Visitors: 1000, Conversions: 50}
	treatment := stats.GroupCounts{Label: "B", Visitors: 1000, Conversions: 50}

	result, err := stats.ChiSquareTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Statistic != 0 {
		t.Errorf("statistic = %f, want 0", result.Statistic)
	}
	if result.PValue < 0.999 {
		t.Errorf("p = %f, want ~1", result.PValue)
	}
	if result.Significant {
		t.Error("identical rates should not be significant")
	}
}

func TestChiSquareTest_DegenerateTable(t *testing.T) {
	tests := []struct {
		name      string
		control   stats.GroupCounts
		treatment stats.GroupCounts
	}{
		{
			name:      "no conversions anywhere",
			control:   stats.GroupCounts{Label: "A", Visitors: 10, Conversions: 0},
			treatment: stats.GroupCounts{Label: "B", Visitors: 10, Conversions: 0},
		},
		{
			name:      "everyone converted",
			control:   stats.GroupCounts{Label: "A", Visitors: 10, Conversions: 10},
			treatment: stats.GroupCounts{Label: "B", Visitors: 10, Conversions: 10},
		},
		{
			name:      "zero visitors",
			control:   stats.GroupCounts{Label: "A", Visitors: 0, Conversions: 0},
			treatment: stats.GroupCounts{Label: "B", Visitors: 10, Conversions: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stats.ChiSquareTest(tt.control, tt.treatment, 0.05)
			if !errors.Is(err, stats.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
