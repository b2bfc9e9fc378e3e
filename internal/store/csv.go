package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abstat/abstat/internal/analyzer"
)

// CSVSource reads visit records from an extraction backup CSV. The
// file must carry a header row with at least experiment_name,
// variation_name, converted and order_revenue columns; visitor_id and
// any other columns (timestamps, region) are optional and extras are
// ignored. It implements analyzer.Source.
type CSVSource struct {
	Path string
}

// Visits parses the whole file.
func (s CSVSource) Visits(ctx context.Context) ([]analyzer.VisitRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", s.Path, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"experiment_name", "variation_name", "converted", "order_revenue"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", s.Path, required)
		}
	}

	var records []analyzer.VisitRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.Path, line, err)
		}

		rec := analyzer.VisitRecord{
			Experiment: field(row, col, "experiment_name"),
			Variation:  field(row, col, "variation_name"),
			VisitorID:  field(row, col, "visitor_id"),
		}

		rec.Converted, err = parseConverted(field(row, col, "converted"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.Path, line, err)
		}

		if raw := field(row, col, "order_revenue"); raw != "" {
			rec.Revenue, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad order_revenue %q: %w", s.Path, line, raw, err)
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseConverted(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	}
	return false, fmt.Errorf("bad converted value %q", raw)
}
