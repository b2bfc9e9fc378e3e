package stats

import (
	"fmt"
	"math"
)

// WilsonInterval calculates the Wilson score confidence interval for a
// binomial proportion at significance level alpha (0.05 gives a 95%
// interval). It's more accurate for small samples than the normal
// approximation.
func WilsonInterval(successes, trials int, alpha float64) (lower, upper float64, err error) {
	if trials == 0 {
		return 0, 0, fmt.Errorf("wilson interval: zero trials: %w", ErrInvalidInput)
	}
	if successes < 0 || successes > trials {
		return 0, 0, fmt.Errorf("wilson interval: %d successes out of %d trials: %w", successes, trials, ErrInvalidInput)
	}
	if alpha <= 0 || alpha >= 1 {
		return 0, 0, fmt.Errorf("wilson interval: alpha %v outside (0, 1): %w", alpha, ErrInvalidInput)
	}

	z := criticalZ(alpha)
	p := float64(successes) / float64(trials)
	n := float64(trials)

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	lower = center - spread
	upper = center + spread

	// Clamp to [0, 1]
	if lower < 0 {
		lower = 0
	}
	if upper > 1 {
		upper = 1
	}

	return lower, upper, nil
}
