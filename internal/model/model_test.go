package model

import (
	"encoding/json"
	"testing"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestNewTableUnionsColumns(t *testing.T) {
	table := NewTable([]handler.Row{
		{{Name: "A", Value: str("a1")}, {Name: "B", Value: str("b1")}},
		{{Name: "C", Value: 3}, {Name: "A", Value: str("a2")}},
		{{Name: "B", Value: (*string)(nil)}, {Name: "D", Value: 0.25}},
	})

	require.Equal(t, []string{"A", "B", "C", "D"}, table.Columns)
	require.Equal(t, [][]string{
		{"a1", "b1", "", ""},
		{"a2", "", "3", ""},
		{"", "", "", "0.25"},
	}, table.Records())
	require.False(t, table.Empty())

	empty := NewTable(nil)
	require.True(t, empty.Empty())
	require.Empty(t, empty.Columns)
	require.Empty(t, empty.Records())
}

func TestNewReport(t *testing.T) {
	desktop := RunResult{
		Device:   "Desktop",
		Results:  []handler.MetricRecord{{Type: "home", Device: "Desktop"}},
		Audits:   []handler.AuditIssue{{Title: str("A"), Score: 0.1}, {Title: str("B"), Score: 0.2}},
		Errors:   []string{"CART TEST FAILED"},
		Duration: Duration{Value: 1500, Time: "1s"},
	}
	mobile := RunResult{
		Device:   "Mobile",
		Results:  []handler.MetricRecord{{Type: "home", Device: "Mobile"}},
		Audits:   []handler.AuditIssue{{Title: str("B"), Score: 0}, {Title: str("C"), Score: 0.3}},
		Duration: Duration{Value: 2500, Time: "2s"},
	}

	report := NewReport(desktop, mobile)

	require.Len(t, report.Results, 2)
	require.Equal(t, "Desktop", report.Results[0].Device)
	require.Equal(t, []handler.AuditIssue{
		{Title: str("A"), Score: 0.1},
		{Title: str("B"), Score: 0.2},
		{Title: str("C"), Score: 0.3},
	}, report.Audits)
	require.Equal(t, map[string][]string{"Desktop": {"CART TEST FAILED"}}, report.Errors)
	require.Equal(t, 4000.0, report.TotalTime)

	require.Equal(t, []string{
		handler.ColPageName, handler.ColType, handler.ColDevice, handler.ColDate, handler.ColURL,
		handler.ColCoreWebVitals, handler.ColCLS, handler.ColFCP, handler.ColFID, handler.ColLCP,
		handler.ColINP, handler.ColTTFB, handler.ColAccessibility, handler.ColBestPractices,
		handler.ColPerformance, handler.ColSEO,
	}, report.ResultsTable().Columns)
	require.Len(t, report.AuditsTable().Rows, 3)

	data, err := ReportToJson(report)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "report")
	require.Contains(t, doc, "audits")
	require.Contains(t, doc, "errors")
}

func TestRemoveDuplicates(t *testing.T) {
	out := RemoveDuplicates([]string{"b", "a", "b", "c", "a"}, func(s string) string { return s })
	require.Equal(t, []string{"b", "a", "c"}, out)
	require.Empty(t, RemoveDuplicates([]string(nil), func(s string) string { return s }))
}
