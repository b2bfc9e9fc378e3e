package stats_test

import (
	"errors"
	"math"
	"testing"

	"github.com/abstat/abstat/internal/stats"
)

func TestTwoProportionZTest_CampaignScenario(t *testing.T) {
	// control 38/1250 (3.04%) vs treatment 52/1180 (4.41%): a sizable
	// relative lift that still falls short of significance at this
	// sample size.
	control := stats.GroupCounts{Label: "Original", Visitors: 1250, Conversions: 38}
	treatment := stats.GroupCounts{Label: "Variant B", Visitors: 1180, Conversions: 52}

	result, err := stats.TwoProportionZTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.ZStatistic-1.783070) > 1e-5 {
		t.Errorf("z = %f, want 1.783070", result.ZStatistic)
	}
	if math.Abs(result.PValue-0.074575) > 1e-5 {
		t.Errorf("p = %f, want 0.074575", result.PValue)
	}
	if !result.LiftDefined {
		t.Fatal("lift should be defined")
	}
	if math.Abs(result.Lift-0.449599) > 1e-5 {
		t.Errorf("lift = %f, want 0.449599", result.Lift)
	}
	if result.Significant {
		t.Error("p > alpha, should not be significant")
	}
	if result.Winner != stats.NoSignificantDifference {
		t.Errorf("winner = %q, want %q", result.Winner, stats.NoSignificantDifference)
	}

	// Wilson intervals travel with the result.
	if math.Abs(result.Control.CILower-0.022227) > 1e-5 || math.Abs(result.Control.CIUpper-0.041450) > 1e-5 {
		t.Errorf("control CI = [%f, %f], want [0.022227, 0.041450]", result.Control.CILower, result.Control.CIUpper)
	}
	if math.Abs(result.Treatment.CILower-0.033762) > 1e-5 || math.Abs(result.Treatment.CIUpper-0.057332) > 1e-5 {
		t.Errorf("treatment CI = [%f, %f], want [0.033762, 0.057332]", result.Treatment.CILower, result.Treatment.CIUpper)
	}
}

func TestTwoProportionZTest_ClearWinner(t *testing.T) {
	control := stats.GroupCounts{Label: "A", Visitors: 1000, Conversions: 100}
	treatment := stats.GroupCounts{Label: "B", Visitors: 1000, Conversions: 150}

	result, err := stats.TwoProportionZTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.ZStatistic-3.380617) > 1e-5 {
		t.Errorf("z = %f, want 3.380617", result.ZStatistic)
	}
	if math.Abs(result.PValue-0.000723) > 1e-5 {
		t.Errorf("p = %f, want 0.000723", result.PValue)
	}
	if !result.Significant {
		t.Error("expected significance")
	}
	if result.Winner != "B" {
		t.Errorf("winner = %q, want B", result.Winner)
	}
}

func TestTwoProportionZTest_ControlWins(t *testing.T) {
	control := stats.GroupCounts{Label: "A", Visitors: 1000, Conversions: 150}
	treatment := stats.GroupCounts{Label: "B", Visitors: 1000, Conversions: 100}

	result, err := stats.TwoProportionZTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Significant {
		t.Error("expected significance")
	}
	if result.Winner != "A" {
		t.Errorf("winner = %q, want A", result.Winner)
	}
	if result.Lift >= 0 {
		t.Errorf("lift = %f, want negative", result.Lift)
	}
}

func TestTwoProportionZTest_IdenticalRates(t *testing.T) {
	control := stats.GroupCounts{Label: "A", Visitors: 1000, Conversions: 50}
	treatment := stats.GroupCounts{Label: "B", Visitors: 1000, Conversions: 50}

	result, err := stats.TwoProportionZTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PValue <= 0.5 {
		t.Errorf("p = %f, want > 0.5 for identical rates", result.PValue)
	}
	if result.Significant {
		t.Error("identical rates should not be significant")
	}
	if result.Winner != stats.NoSignificantDifference {
		t.Errorf("winner = %q, want %q", result.Winner, stats.NoSignificantDifference)
	}
}

func TestTwoProportionZTest_UndefinedLift(t *testing.T) {
	control := stats.GroupCounts{Label: "A", Visitors: 100, Conversions: 0}
	treatment := stats.GroupCounts{Label: "B", Visitors: 100, Conversions: 10}

	result, err := stats.TwoProportionZTest(control, treatment, 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.LiftDefined {
		t.Error("lift should be undefined when the control rate is 0")
	}
}

func TestTwoProportionZTest_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		control   stats.GroupCounts
		treatment stats.GroupCounts
	}{
		{
			name:      "zero visitors",
			control:   stats.GroupCounts{Label: "A", Visitors: 0, Conversions: 0},
			treatment: stats.GroupCounts{Label: "B", Visitors: 100, Conversions: 10},
		},
		{
			name:      "no conversions anywhere",
			control:   stats.GroupCounts{Label: "A", Visitors: 100, Conversions: 0},
			treatment: stats.GroupCounts{Label: "B", Visitors: 100, Conversions: 0},
		},
		{
			name:      "everyone converted",
			control:   stats.GroupCounts{Label: "A", Visitors: 100, Conversions: 100},
			treatment: stats.GroupCounts{Label: "B", Visitors: 100, Conversions: 100},
		},
		{
			name:      "conversions exceed visitors",
			control:   stats.GroupCounts{Label: "A", Visitors: 10, Conversions: 11},
			treatment: stats.GroupCounts{Label: "B", Visitors: 100, Conversions: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stats.TwoProportionZTest(tt.control, tt.treatment, 0.05)
			if !errors.Is(err, stats.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
