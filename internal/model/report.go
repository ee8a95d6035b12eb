package model

import (
	"encoding/json"
	"fmt"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
)

// Duration is an elapsed time in milliseconds with its display form.
type Duration struct {
	Value float64 `json:"value"`
	Time  string  `json:"time"`
}

// RunResult is the outcome of auditing every route for one device.
type RunResult struct {
	Device   string
	Results  []handler.MetricRecord
	Audits   []handler.AuditIssue
	Errors   []string
	Duration Duration
	// Raw holds the response body of every successful route, keyed by route name.
	Raw map[string][]byte
}

// Report merges the runs of all devices.
type Report struct {
	Results []handler.MetricRecord
	Audits  []handler.AuditIssue
	Errors  map[string][]string
	// TotalTime is the sum of the device run durations in milliseconds.
	TotalTime float64
}

// NewReport concatenates runs in order and de-duplicates audit issues by title.
func NewReport(runs ...RunResult) Report {
	report := Report{Errors: make(map[string][]string)}

	var audits []handler.AuditIssue
	for _, run := range runs {
		report.Results = append(report.Results, run.Results...)
		audits = append(audits, run.Audits...)
		if len(run.Errors) > 0 {
			report.Errors[run.Device] = append(report.Errors[run.Device], run.Errors...)
		}
		report.TotalTime += run.Duration.Value
	}
	report.Audits = RemoveDuplicates(audits, handler.AuditIssue.Key)

	return report
}

// RemoveDuplicates keeps the first item for every key, preserving order.
func RemoveDuplicates[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// ResultsTable is the "Report" table.
func (r Report) ResultsTable() Table {
	rows := make([]handler.Row, 0, len(r.Results))
	for _, rec := range r.Results {
		rows = append(rows, rec.Row())
	}
	return NewTable(rows)
}

// AuditsTable is the "Audits" table.
func (r Report) AuditsTable() Table {
	rows := make([]handler.Row, 0, len(r.Audits))
	for _, issue := range r.Audits {
		rows = append(rows, issue.Row())
	}
	return NewTable(rows)
}

// ReportToJson renders both tables as one JSON document.
func ReportToJson(r Report) ([]byte, error) {
	type document struct {
		Report []handler.Row       `json:"report"`
		Audits []handler.Row       `json:"audits"`
		Errors map[string][]string `json:"errors,omitempty"`
	}

	jsonData, err := json.MarshalIndent(document{
		Report: r.ResultsTable().Rows,
		Audits: r.AuditsTable().Rows,
		Errors: r.Errors,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	return jsonData, nil
}
