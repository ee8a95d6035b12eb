package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cx-miguel-neiva/cwv-audit/plugins"
)

// JSON writes each table as an indented array of objects in column order.
type JSON struct{}

func (JSON) Format() string { return "json" }

func (JSON) Path(e plugins.Export) string {
	return FilePath(e, "json")
}

func (JSON) Write(_ context.Context, path string, e plugins.Export) error {
	data, err := json.MarshalIndent(e.Table.Rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s table: %w", e.Type, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write json file: %w", err)
	}
	return nil
}
