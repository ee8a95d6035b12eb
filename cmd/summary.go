package cmd

import (
	"io"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
	"github.com/cx-miguel-neiva/cwv-audit/utils"
	"github.com/jedib0t/go-pretty/v6/table"
)

var summaryColumns = []string{
	handler.ColType,
	handler.ColDevice,
	handler.ColCoreWebVitals,
	handler.ColLCP,
	handler.ColCLS,
	handler.ColINP,
	handler.ColPerformance,
	handler.ColAccessibility,
	handler.ColBestPractices,
	handler.ColSEO,
}

// printSummary renders the metric records as a console table.
func printSummary(out io.Writer, report model.Report) {
	if len(report.Results) == 0 {
		return
	}

	t := utils.NewTable(out)
	header := make(table.Row, len(summaryColumns))
	for i, col := range summaryColumns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, rec := range report.Results {
		row := rec.Row()
		line := make(table.Row, len(summaryColumns))
		for i, col := range summaryColumns {
			if v, ok := row.Get(col); ok {
				line[i] = handler.ToStr(v)
			}
		}
		t.AppendRow(line)
	}
	t.Render()
}
