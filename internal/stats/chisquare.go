package stats

import (
	"fmt"
	"math"
)

// ChiSquareResult is the outcome of a 2x2 independence test.
type ChiSquareResult struct {
	Statistic        float64 `json:"statistic"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	PValue           float64 `json:"p_value"`
	YatesCorrected   bool    `json:"yates_corrected"`
	Alpha            float64 `json:"alpha"`
	Significant      bool    `json:"significant"`
}

// ChiSquareTest tests whether conversion is independent of variation
// in the 2x2 table (converted vs not, control vs treatment). Yates'
// continuity correction is applied when any expected cell count falls
// below 5, matching scipy's chi2_contingency behavior for small cells.
func ChiSquareTest(control, treatment GroupCounts, alpha float64) (*ChiSquareResult, error) {
	if err := control.validate(); err != nil {
		return nil, fmt.Errorf("chi-square: %w", err)
	}
	if err := treatment.validate(); err != nil {
		return nil, fmt.Errorf("chi-square: %w", err)
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("chi-square: alpha %v outside (0, 1): %w", alpha, ErrInvalidInput)
	}

	observed := [2][2]float64{
		{float64(control.Conversions), float64(control.Visitors - control.Conversions)},
		{float64(treatment.Conversions), float64(treatment.Visitors - treatment.Conversions)},
	}

	converted := observed[0][0] + observed[1][0]
	notConverted := observed[0][1] + observed[1][1]
	total := converted + notConverted

	var expected [2][2]float64
	expected[0][0] = float64(control.Visitors) * converted / total
	expected[0][1] = float64(control.Visitors) * notConverted / total
	expected[1][0] = float64(treatment.Visitors) * converted / total
	expected[1][1] = float64(treatment.Visitors) * notConverted / total

	yates := false
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if expected[i][j] == 0 {
				return nil, fmt.Errorf("chi-square: degenerate table, expected cell [%d][%d] is zero: %w",
					i, j, ErrInvalidInput)
			}
			if expected[i][j] < 5 {
				yates = true
			}
		}
	}

	var statistic float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			diff := math.Abs(observed[i][j] - expected[i][j])
			if yates {
				// Continuity correction never pushes a cell past
				// its expectation.
				diff = math.Max(0, diff-0.5)
			}
			statistic += diff * diff / expected[i][j]
		}
	}

	p := ChiSquareSurvival(statistic, 1)

	return &ChiSquareResult{
		Statistic:        statistic,
		DegreesOfFreedom: 1,
		PValue:           p,
		YatesCorrected:   yates,
		Alpha:            alpha,
		Significant:      p < alpha,
	}, nil
}
