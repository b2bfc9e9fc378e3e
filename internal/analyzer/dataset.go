package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/abstat/abstat/internal/stats"
)

// VisitRecord is one visitor's exposure to an experiment variation, as
// delivered by the extraction/storage layer. Revenue is zero for
// visitors who did not convert.
type VisitRecord struct {
	Experiment string
	Variation  string
	VisitorID  string
	Converted  bool
	Revenue    float64
}

// Source supplies visit records. Implementations live in the storage
// layer (sqlite warehouse, CSV backups).
type Source interface {
	Visits(ctx context.Context) ([]VisitRecord, error)
}

// GroupSummary aggregates one (experiment, variation) cell of the
// loaded dataset. PerVisitor keeps the per-visitor revenue sequence,
// zeros included, in load order; the rank-based revenue test needs the
// individual values, not just the totals.
type GroupSummary struct {
	Experiment  string
	Variation   string
	Visitors    int
	Conversions int
	Revenue     float64
	PerVisitor  []float64
}

func validateRecord(i int, r VisitRecord) error {
	if r.Experiment == "" {
		return fmt.Errorf("record %d: empty experiment name: %w", i, stats.ErrInvalidInput)
	}
	if r.Variation == "" {
		return fmt.Errorf("record %d: empty variation name: %w", i, stats.ErrInvalidInput)
	}
	if r.Revenue < 0 {
		return fmt.Errorf("record %d: negative revenue %v: %w", i, r.Revenue, stats.ErrInvalidInput)
	}
	if !r.Converted && r.Revenue != 0 {
		return fmt.Errorf("record %d: revenue %v on a non-converted visit: %w", i, r.Revenue, stats.ErrInvalidInput)
	}
	return nil
}

// summarize filters the dataset to one experiment/variation cell.
func summarize(records []VisitRecord, experiment, variation string) GroupSummary {
	g := GroupSummary{Experiment: experiment, Variation: variation}
	for _, r := range records {
		if r.Experiment != experiment || r.Variation != variation {
			continue
		}
		g.Visitors++
		if r.Converted {
			g.Conversions++
		}
		g.Revenue += r.Revenue
		g.PerVisitor = append(g.PerVisitor, r.Revenue)
	}
	return g
}

func experimentNames(records []VisitRecord) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if !seen[r.Experiment] {
			seen[r.Experiment] = true
			names = append(names, r.Experiment)
		}
	}
	sort.Strings(names)
	return names
}
