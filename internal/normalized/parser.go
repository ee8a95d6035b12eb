package normalized

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
	"github.com/cx-miguel-neiva/cwv-audit/internal/handler/lighthouse"
	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed"
	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/cx-miguel-neiva/cwv-audit/plugins"
)

const ext = ".json"

// FileName is where a raw payload for device and route is saved.
func FileName(device pagespeed.Device, name route.Name) string {
	return strings.ToLower(string(device)) + "-" + string(name) + ext
}

// ParseFileName recovers device and route from a name written by FileName.
func ParseFileName(path string) (pagespeed.Device, route.Name, error) {
	base := strings.TrimSuffix(filepath.Base(path), ext)
	devicePart, routePart, ok := strings.Cut(base, "-")
	if !ok {
		return "", "", fmt.Errorf("cannot infer device and route from %s", filepath.Base(path))
	}
	device, err := pagespeed.ParseDevice(devicePart)
	if err != nil {
		return "", "", err
	}
	name := route.Name(strings.ToLower(routePart))
	for _, known := range route.All {
		if name == known {
			return device, name, nil
		}
	}
	return "", "", fmt.Errorf("unknown route %q in %s", routePart, filepath.Base(path))
}

// SaveRaw writes every raw payload of a run into dir.
func SaveRaw(dir string, run model.RunResult) ([]string, error) {
	device, err := pagespeed.ParseDevice(run.Device)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create raw payload directory: %w", err)
	}

	names := make([]string, 0, len(run.Raw))
	for name := range run.Raw {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, FileName(device, route.Name(name)))
		if err := os.WriteFile(path, run.Raw[name], 0644); err != nil {
			return paths, fmt.Errorf("failed to write raw payload: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Load reads a payload file, or every payload file in a directory. Device
// and route are taken from each file name unless overridden.
func Load(path string, device pagespeed.Device, name route.Name) ([]*plugins.Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*"+ext))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	}

	items := make([]*plugins.Item, 0, len(files))
	for _, file := range files {
		d, n := device, name
		if d == "" || n == "" {
			fd, fn, err := ParseFileName(file)
			if err != nil {
				return nil, err
			}
			if d == "" {
				d = fd
			}
			if n == "" {
				n = fn
			}
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		contentStr := string(content)

		items = append(items, &plugins.Item{
			Content: &contentStr,
			ID:      string(n),
			Source:  file,
			Device:  string(d),
		})
	}
	return items, nil
}

// Parse normalizes one payload item. The page URL comes from the payload
// id and doubles as the page title.
func Parse(item plugins.ISourceItem, now time.Time) (handler.MetricRecord, []handler.AuditIssue, error) {
	content := item.GetContent()
	if content == nil {
		return handler.MetricRecord{}, nil, fmt.Errorf("empty payload: %s", item.GetSource())
	}

	payload, err := lighthouse.Decode([]byte(*content))
	if err != nil {
		return handler.MetricRecord{}, nil, fmt.Errorf("failed to decode %s: %w", item.GetSource(), err)
	}

	meta := lighthouse.Meta{
		Route:  item.GetID(),
		Device: item.GetDevice(),
		Title:  payload.ID,
		URL:    payload.ID,
		Now:    now,
	}
	return lighthouse.ParseMetrics(payload, meta), lighthouse.ParseAudits(payload), nil
}

// Report normalizes items into a report, devices in run order and routes in
// display order. Items that fail to decode become errors of their device.
func Report(items []*plugins.Item, now time.Time) model.Report {
	sorted := make([]*plugins.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := deviceIndex(sorted[i].Device), deviceIndex(sorted[j].Device)
		if di != dj {
			return di < dj
		}
		return routeIndex(sorted[i].ID) < routeIndex(sorted[j].ID)
	})

	var runs []model.RunResult
	for _, item := range sorted {
		if len(runs) == 0 || runs[len(runs)-1].Device != item.Device {
			runs = append(runs, model.RunResult{Device: item.Device})
		}
		run := &runs[len(runs)-1]

		record, audits, err := Parse(item, now)
		if err != nil {
			run.Errors = append(run.Errors, err.Error())
			continue
		}
		run.Results = append(run.Results, record)
		run.Audits = append(run.Audits, audits...)
	}

	return model.NewReport(runs...)
}

func deviceIndex(device string) int {
	for i, d := range pagespeed.Devices {
		if string(d) == device {
			return i
		}
	}
	return len(pagespeed.Devices)
}

func routeIndex(name string) int {
	for i, n := range route.All {
		if string(n) == name {
			return i
		}
	}
	return len(route.All)
}
