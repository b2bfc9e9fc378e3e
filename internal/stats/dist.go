package stats

import "gonum.org/v1/gonum/stat/distuv"

// Distribution primitives shared by every test in this package. All
// p-values and critical values flow through these so the z-test, the
// Mann-Whitney approximation and the sample size planner can never
// disagree on what the normal distribution looks like.

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// NormalCDF returns P(Z <= x) for a standard normal Z.
func NormalCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// NormalQuantile returns the inverse of the standard normal CDF.
// Panics if p is outside [0, 1], so callers validate first.
func NormalQuantile(p float64) float64 {
	return stdNormal.Quantile(p)
}

// ChiSquareSurvival returns P(X > x) for a chi-square distribution
// with df degrees of freedom.
func ChiSquareSurvival(x, df float64) float64 {
	return distuv.ChiSquared{K: df}.Survival(x)
}

// criticalZ returns the two-sided critical value for significance
// level alpha (alpha 0.05 gives ~1.95996).
func criticalZ(alpha float64) float64 {
	return stdNormal.Quantile(1 - alpha/2)
}
