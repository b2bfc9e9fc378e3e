package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/abstat/abstat/internal/stats"
)

var (
	// ErrNotFound reports a requested experiment or variation label
	// that is absent from the loaded dataset.
	ErrNotFound = errors.New("not found")
	// ErrNoData reports an operation on an analyzer with no loaded
	// dataset.
	ErrNoData = errors.New("no dataset loaded")
)

// Config holds per-analyzer defaults. Alpha and Power are explicit so
// analyzers with different significance levels can coexist.
type Config struct {
	Alpha float64
	Power float64
}

func (c Config) withDefaults() Config {
	if c.Alpha == 0 {
		c.Alpha = 0.05
	}
	if c.Power == 0 {
		c.Power = 0.8
	}
	return c
}

// Analyzer runs statistical analysis over one loaded dataset. The
// dataset is immutable after Load; Analyze reads it without mutation,
// so independent Analyze calls are safe to run concurrently. The
// retained last report is a convenience for sequential CLI use and is
// not synchronized.
type Analyzer struct {
	cfg        Config
	logger     *zap.Logger
	records    []VisitRecord
	loaded     bool
	lastReport *AnalysisReport
}

// New builds an Analyzer. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg.withDefaults(), logger: logger}
}

// Load pulls all visit records from src and validates them. A failed
// load leaves the analyzer unloaded.
func (a *Analyzer) Load(ctx context.Context, src Source) error {
	records, err := src.Visits(ctx)
	if err != nil {
		return fmt.Errorf("load visits: %w", err)
	}
	for i, r := range records {
		if err := validateRecord(i, r); err != nil {
			return err
		}
	}

	a.records = records
	a.loaded = true
	a.logger.Info("dataset loaded",
		zap.Int("records", len(records)),
		zap.Strings("experiments", experimentNames(records)))
	return nil
}

// Experiments returns the distinct experiment names in the dataset,
// sorted.
func (a *Analyzer) Experiments() ([]string, error) {
	if !a.loaded {
		return nil, ErrNoData
	}
	return experimentNames(a.records), nil
}

// Variations returns the distinct variation labels recorded for one
// experiment, sorted.
func (a *Analyzer) Variations(experiment string) ([]string, error) {
	if !a.loaded {
		return nil, ErrNoData
	}
	seen := make(map[string]bool)
	var names []string
	for _, r := range a.records {
		if r.Experiment == experiment && !seen[r.Variation] {
			seen[r.Variation] = true
			names = append(names, r.Variation)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("experiment %q: %w", experiment, ErrNotFound)
	}
	sort.Strings(names)
	return names, nil
}

// Analyze filters the dataset to one experiment and a control/
// treatment pair, runs the conversion tests (chi-square primary,
// z-test for intervals and lift) and the revenue-per-visitor
// Mann-Whitney test, and assembles the combined report. The report is
// also retained for LastReport.
func (a *Analyzer) Analyze(experiment, control, treatment string) (*AnalysisReport, error) {
	if !a.loaded {
		return nil, ErrNoData
	}

	ctrl := summarize(a.records, experiment, control)
	treat := summarize(a.records, experiment, treatment)
	if ctrl.Visitors == 0 {
		return nil, fmt.Errorf("experiment %q variation %q: %w", experiment, control, ErrNotFound)
	}
	if treat.Visitors == 0 {
		return nil, fmt.Errorf("experiment %q variation %q: %w", experiment, treatment, ErrNotFound)
	}

	report := &AnalysisReport{
		Experiment: experiment,
		Alpha:      a.cfg.Alpha,
		Control:    groupStats(ctrl),
		Treatment:  groupStats(treat),
		Winner:     stats.NoSignificantDifference,
	}

	ctrlCounts := stats.GroupCounts{Label: control, Visitors: ctrl.Visitors, Conversions: ctrl.Conversions}
	treatCounts := stats.GroupCounts{Label: treatment, Visitors: treat.Visitors, Conversions: treat.Conversions}

	chi, chiErr := stats.ChiSquareTest(ctrlCounts, treatCounts, a.cfg.Alpha)
	if chiErr == nil {
		report.Conversion.ChiSquare = chi
	}
	z, zErr := stats.TwoProportionZTest(ctrlCounts, treatCounts, a.cfg.Alpha)
	if zErr == nil {
		report.Conversion.ZTest = z
	}

	switch {
	case chiErr != nil && !errors.Is(chiErr, stats.ErrInvalidInput):
		return nil, chiErr
	case zErr != nil && !errors.Is(zErr, stats.ErrInvalidInput):
		return nil, zErr
	case chiErr != nil && zErr != nil:
		// Degenerate table (for example zero conversions on both
		// sides): a defined "test undefined" outcome, not a failure.
		report.Conversion.Undefined = true
		report.Conversion.Reason = chiErr.Error()
	}

	rev, err := stats.MannWhitneyU(
		stats.RevenueGroup{Label: control, Values: ctrl.PerVisitor},
		stats.RevenueGroup{Label: treatment, Values: treat.PerVisitor},
		a.cfg.Alpha,
	)
	if err != nil {
		return nil, err
	}
	report.Revenue = rev

	// The conversion test is authoritative for the report winner; the
	// chi-square decides significance, the observed rates decide the
	// direction.
	if chi != nil && chi.Significant {
		report.Significant = true
		if report.Treatment.Rate > report.Control.Rate {
			report.Winner = treatment
		} else {
			report.Winner = control
		}
	}

	report.Recommendation = a.recommend(report)

	a.logger.Info("analysis complete",
		zap.String("experiment", experiment),
		zap.String("control", control),
		zap.String("treatment", treatment),
		zap.Bool("significant", report.Significant),
		zap.String("winner", report.Winner),
		zap.String("action", report.Recommendation.Action))

	a.lastReport = report
	return report, nil
}

// LastReport returns the report from the most recent successful
// Analyze call, or nil.
func (a *Analyzer) LastReport() *AnalysisReport {
	return a.lastReport
}

// SampleSize delegates to the planner with the analyzer's configured
// power and alpha.
func (a *Analyzer) SampleSize(baseline, mde float64) (*stats.SampleSizePlan, error) {
	return stats.SampleSize(baseline, mde, a.cfg.Power, a.cfg.Alpha)
}

func (a *Analyzer) recommend(r *AnalysisReport) Recommendation {
	convSig := r.Significant
	revSig := r.Revenue != nil && r.Revenue.Significant

	switch {
	case convSig && revSig && r.Winner == r.Revenue.Winner:
		return Recommendation{
			Action:  ActionImplement,
			Summary: fmt.Sprintf("both conversion and revenue significantly favor %q", r.Winner),
		}
	case convSig && revSig:
		return Recommendation{
			Action: ActionConflict,
			Summary: fmt.Sprintf("conversion favors %q but revenue favors %q; prioritize based on business goals",
				r.Winner, r.Revenue.Winner),
		}
	case convSig:
		return Recommendation{
			Action: ActionMonitorRevenue,
			Summary: fmt.Sprintf("conversion significantly favors %q; revenue is inconclusive (p=%.3f), monitor it after rollout",
				r.Winner, r.Revenue.PValue),
		}
	case revSig:
		return Recommendation{
			Action: ActionRevenueOnly,
			Summary: fmt.Sprintf("revenue per visitor significantly favors %q; conversion is inconclusive",
				r.Revenue.Winner),
		}
	}

	rec := Recommendation{
		Action:  ActionContinue,
		Summary: "no significant difference detected; continue running the test",
	}

	// Size the remaining runway against a 10% lift over the observed
	// control rate, when that rate supports the planner.
	plan, err := stats.SampleSize(r.Control.Rate, 0.10, a.cfg.Power, a.cfg.Alpha)
	if err != nil {
		return rec
	}
	rec.SampleSize = plan
	if r.Control.Visitors+r.Treatment.Visitors >= plan.Total {
		rec.Action = ActionEffectTooSmall
		rec.Summary = "no significant difference despite sufficient sample for a 10% lift; the effect may be too small to matter"
	}
	return rec
}
