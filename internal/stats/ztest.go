package stats

import (
	"fmt"
	"math"
)

// NoSignificantDifference is the winner label reported when a test
// does not reach significance.
const NoSignificantDifference = "no significant difference"

// GroupCounts is one side of a two-proportion comparison.
type GroupCounts struct {
	Label       string
	Visitors    int
	Conversions int
}

func (g GroupCounts) validate() error {
	if g.Visitors == 0 {
		return fmt.Errorf("group %q: zero visitors: %w", g.Label, ErrInvalidInput)
	}
	if g.Conversions < 0 || g.Conversions > g.Visitors {
		return fmt.Errorf("group %q: %d conversions out of %d visitors: %w",
			g.Label, g.Conversions, g.Visitors, ErrInvalidInput)
	}
	return nil
}

func (g GroupCounts) rate() float64 {
	return float64(g.Conversions) / float64(g.Visitors)
}

// ProportionEstimate is one group's conversion rate with its Wilson
// confidence interval.
type ProportionEstimate struct {
	Label       string  `json:"label"`
	Visitors    int     `json:"visitors"`
	Conversions int     `json:"conversions"`
	Rate        float64 `json:"rate"`
	CILower     float64 `json:"ci_lower"`
	CIUpper     float64 `json:"ci_upper"`
}

// ZTestResult is the outcome of a two-proportion z-test.
//
// Lift is the relative lift of treatment over control. When the
// control rate is zero the lift is undefined; LiftDefined is false and
// Lift holds zero so the result stays JSON-serializable.
type ZTestResult struct {
	Control     ProportionEstimate `json:"control"`
	Treatment   ProportionEstimate `json:"treatment"`
	ZStatistic  float64            `json:"z_statistic"`
	PValue      float64            `json:"p_value"`
	Lift        float64            `json:"lift"`
	LiftDefined bool               `json:"lift_defined"`
	Alpha       float64            `json:"alpha"`
	Significant bool               `json:"significant"`
	Winner      string             `json:"winner"`
}

// TwoProportionZTest compares two conversion rates with a pooled
// two-sided z-test and reports a Wilson interval per group.
func TwoProportionZTest(control, treatment GroupCounts, alpha float64) (*ZTestResult, error) {
	if err := control.validate(); err != nil {
		return nil, fmt.Errorf("z-test: %w", err)
	}
	if err := treatment.validate(); err != nil {
		return nil, fmt.Errorf("z-test: %w", err)
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("z-test: alpha %v outside (0, 1): %w", alpha, ErrInvalidInput)
	}

	n1, n2 := float64(control.Visitors), float64(treatment.Visitors)
	p1, p2 := control.rate(), treatment.rate()

	pooled := float64(control.Conversions+treatment.Conversions) / (n1 + n2)
	if pooled == 0 || pooled == 1 {
		return nil, fmt.Errorf("z-test: pooled proportion %v has zero variance: %w", pooled, ErrInvalidInput)
	}

	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	z := (p2 - p1) / se
	p := 2 * (1 - NormalCDF(math.Abs(z)))

	ctrlEst, err := proportionEstimate(control, alpha)
	if err != nil {
		return nil, err
	}
	treatEst, err := proportionEstimate(treatment, alpha)
	if err != nil {
		return nil, err
	}

	result := &ZTestResult{
		Control:     ctrlEst,
		Treatment:   treatEst,
		ZStatistic:  z,
		PValue:      p,
		Alpha:       alpha,
		Significant: p < alpha,
		Winner:      NoSignificantDifference,
	}

	if p1 > 0 {
		result.Lift = (p2 - p1) / p1
		result.LiftDefined = true
	}

	if result.Significant {
		if p2 > p1 {
			result.Winner = treatment.Label
		} else {
			result.Winner = control.Label
		}
	}

	return result, nil
}

func proportionEstimate(g GroupCounts, alpha float64) (ProportionEstimate, error) {
	lower, upper, err := WilsonInterval(g.Conversions, g.Visitors, alpha)
	if err != nil {
		return ProportionEstimate{}, err
	}
	return ProportionEstimate{
		Label:       g.Label,
		Visitors:    g.Visitors,
		Conversions: g.Conversions,
		Rate:        g.rate(),
		CILower:     lower,
		CIUpper:     upper,
	}, nil
}
