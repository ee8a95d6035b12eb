package model

import "github.com/cx-miguel-neiva/cwv-audit/internal/handler"

// Table is a set of rows whose columns are the union of every row's fields,
// in first-seen order.
type Table struct {
	Columns []string
	Rows    []handler.Row
}

func NewTable(rows []handler.Row) Table {
	t := Table{Columns: []string{}, Rows: rows}
	if t.Rows == nil {
		t.Rows = []handler.Row{}
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, f := range row {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			t.Columns = append(t.Columns, f.Name)
		}
	}
	return t
}

// Records renders every row as strings aligned to Columns; missing fields are empty.
func (t Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			if v, ok := row.Get(col); ok {
				record[i] = handler.ToStr(v)
			}
		}
		records = append(records, record)
	}
	return records
}

func (t Table) Empty() bool {
	return len(t.Rows) == 0
}
