package store

import "time"

// Visit is one stored visitor-experiment exposure row, as written by
// the extraction pipeline into the warehouse table.
type Visit struct {
	ID         int64
	Experiment string
	Variation  string
	VisitorID  string
	Converted  bool
	Revenue    float64
	RecordedAt time.Time
}

// ExperimentStats aggregates stored rows per experiment for listing.
type ExperimentStats struct {
	Experiment  string
	Variations  int
	Visitors    int
	Conversions int
	Revenue     float64
}
