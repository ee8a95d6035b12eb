package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/cx-miguel-neiva/cwv-audit/plugins"
)

// CSV writes each table to its own comma-separated file with a header row.
type CSV struct{}

func (CSV) Format() string { return "csv" }

func (CSV) Path(e plugins.Export) string {
	return FilePath(e, "csv")
}

func (CSV) Write(_ context.Context, path string, e plugins.Export) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(e.Table.Columns) > 0 {
		if err := w.Write(e.Table.Columns); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	if err := w.WriteAll(e.Table.Records()); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return f.Close()
}
