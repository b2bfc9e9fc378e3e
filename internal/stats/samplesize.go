package stats

import (
	"fmt"
	"math"
)

// SampleSizePlan is the planner's answer: how many visitors each
// variation needs before a relative lift of MDE over the baseline rate
// becomes detectable at the requested power.
type SampleSizePlan struct {
	BaselineRate float64 `json:"baseline_rate"`
	TargetRate   float64 `json:"target_rate"`
	MDE          float64 `json:"mde"`
	Power        float64 `json:"power"`
	Alpha        float64 `json:"alpha"`
	PerVariation int     `json:"per_variation"`
	Total        int     `json:"total"`
}

// SampleSize computes the per-variation sample size for a two-sided
// two-proportion test using the standard pooled/unpooled closed form.
// mde is relative: 0.10 means detecting a 10% lift over baseline.
func SampleSize(baseline, mde, power, alpha float64) (*SampleSizePlan, error) {
	if baseline <= 0 || baseline >= 1 {
		return nil, fmt.Errorf("sample size: baseline rate %v outside (0, 1): %w", baseline, ErrInvalidInput)
	}
	if mde <= 0 {
		return nil, fmt.Errorf("sample size: non-positive mde %v: %w", mde, ErrInvalidInput)
	}
	if power <= 0 || power >= 1 {
		return nil, fmt.Errorf("sample size: power %v outside (0, 1): %w", power, ErrInvalidInput)
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("sample size: alpha %v outside (0, 1): %w", alpha, ErrInvalidInput)
	}

	target := baseline * (1 + mde)
	if target >= 1 {
		return nil, fmt.Errorf("sample size: target rate %v reaches 1: %w", target, ErrInvalidInput)
	}

	zAlpha := NormalQuantile(1 - alpha/2)
	zPower := NormalQuantile(power)
	pBar := (baseline + target) / 2

	numerator := zAlpha*math.Sqrt(2*pBar*(1-pBar)) +
		zPower*math.Sqrt(baseline*(1-baseline)+target*(1-target))
	n := numerator * numerator / ((target - baseline) * (target - baseline))

	perVariation := int(math.Ceil(n))

	return &SampleSizePlan{
		BaselineRate: baseline,
		TargetRate:   target,
		MDE:          mde,
		Power:        power,
		Alpha:        alpha,
		PerVariation: perVariation,
		Total:        2 * perVariation,
	}, nil
}
