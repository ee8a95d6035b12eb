package plugins

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
)

// ISourceItem is a raw audit payload handed to the normalizer.
type ISourceItem interface {
	GetContent() *string
	GetID() string
	GetSource() string
	GetDevice() string
}

// Item is a raw payload read from disk or received from the API.
type Item struct {
	Content *string
	// ID is the route name the payload belongs to.
	ID     string
	Source string
	Device string
}

func (i *Item) GetContent() *string {
	return i.Content
}

func (i *Item) GetID() string {
	return i.ID
}

func (i *Item) GetSource() string {
	return i.Source
}

func (i *Item) GetDevice() string {
	return i.Device
}

// Export is one table to be written for a run.
type Export struct {
	Dir    string
	Domain string
	// Type names the table, "Report" or "Audits".
	Type  string
	Now   time.Time
	Table model.Table
}

// Exporter writes tables in one file format.
type Exporter interface {
	Format() string
	// Path is the file the export is written to. Exporters may place
	// several tables of a run in the same file.
	Path(e Export) string
	Write(ctx context.Context, path string, e Export) error
}

var (
	mu        sync.RWMutex
	exporters = map[string]Exporter{}
)

// Register makes an exporter available under its format name.
func Register(e Exporter) {
	mu.Lock()
	defer mu.Unlock()
	exporters[strings.ToLower(e.Format())] = e
}

// Get returns the exporter registered for format.
func Get(format string) (Exporter, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	return e, nil
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
