package analyzer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteReport serializes a report as indented JSON. Go's float64
// encoding uses the shortest representation that parses back to the
// same bits, so every numeric field survives a round trip.
func WriteReport(r *AnalysisReport, w io.Writer) error {
	if r == nil {
		return fmt.Errorf("write report: nil report")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// ExportReport writes a report to path. It does not change analyzer
// state.
func ExportReport(r *AnalysisReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteReport(r, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadReport parses a report previously written by ExportReport.
func ReadReport(path string) (*AnalysisReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var r AnalysisReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &r, nil
}
