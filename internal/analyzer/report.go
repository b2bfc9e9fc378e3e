package analyzer

import "github.com/abstat/abstat/internal/stats"

// Recommendation actions, roughly ordered from strongest to weakest
// evidence.
const (
	// ActionImplement: conversion and revenue agree and both are
	// significant.
	ActionImplement = "implement"
	// ActionConflict: both tests are significant but name different
	// winners. No tie-break is applied; the caller decides on
	// business grounds.
	ActionConflict = "conflict"
	// ActionMonitorRevenue: conversion is significant, revenue is not.
	ActionMonitorRevenue = "monitor-revenue"
	// ActionRevenueOnly: revenue is significant, conversion is not.
	ActionRevenueOnly = "revenue-only"
	// ActionContinue: nothing significant and the sample is smaller
	// than the planner's estimate.
	ActionContinue = "continue"
	// ActionEffectTooSmall: nothing significant despite enough sample
	// for a 10% lift.
	ActionEffectTooSmall = "effect-too-small"
)

// GroupStats summarizes one variation of the analyzed pair. AOV
// (average order value) is nil when the group has no conversions.
type GroupStats struct {
	Variation   string   `json:"variation"`
	Visitors    int      `json:"visitors"`
	Conversions int      `json:"conversions"`
	Rate        float64  `json:"conv_rate"`
	Revenue     float64  `json:"revenue"`
	RPV         float64  `json:"rpv"`
	AOV         *float64 `json:"aov,omitempty"`
}

// ConversionResult bundles the two conversion tests. Undefined is set
// when the table is degenerate (for example no conversions at all) and
// both tests refuse to run; Reason carries the cause.
type ConversionResult struct {
	Undefined bool                   `json:"undefined,omitempty"`
	Reason    string                 `json:"reason,omitempty"`
	ChiSquare *stats.ChiSquareResult `json:"chi_square,omitempty"`
	ZTest     *stats.ZTestResult     `json:"z_test,omitempty"`
}

// Recommendation is the combined read of both tests. When neither test
// is significant, SampleSize carries the runway estimate for a 10%
// lift over the observed control rate.
type Recommendation struct {
	Action     string                `json:"action"`
	Summary    string                `json:"summary"`
	SampleSize *stats.SampleSizePlan `json:"sample_size,omitempty"`
}

// AnalysisReport is the full result for one experiment and one
// control/treatment pair. Winner follows the conversion test; the
// revenue test only contributes to the recommendation.
type AnalysisReport struct {
	Experiment     string                   `json:"experiment"`
	Alpha          float64                  `json:"alpha"`
	Control        GroupStats               `json:"control"`
	Treatment      GroupStats               `json:"treatment"`
	Conversion     ConversionResult         `json:"conversion"`
	Revenue        *stats.MannWhitneyResult `json:"revenue"`
	Significant    bool                     `json:"significant"`
	Winner         string                   `json:"winner"`
	Recommendation Recommendation           `json:"recommendation"`
}

func groupStats(g GroupSummary) GroupStats {
	gs := GroupStats{
		Variation:   g.Variation,
		Visitors:    g.Visitors,
		Conversions: g.Conversions,
		Revenue:     g.Revenue,
	}
	if g.Visitors > 0 {
		gs.Rate = float64(g.Conversions) / float64(g.Visitors)
		gs.RPV = g.Revenue / float64(g.Visitors)
	}
	if g.Conversions > 0 {
		aov := g.Revenue / float64(g.Conversions)
		gs.AOV = &aov
	}
	return gs
}
