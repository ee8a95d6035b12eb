package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
	"github.com/cx-miguel-neiva/cwv-audit/internal/handler/lighthouse"
	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed"
	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

// Auditor performs one audit request.
type Auditor interface {
	Run(ctx context.Context, url string, device pagespeed.Device, categories []string) pagespeed.Result
}

// Runner audits a set of routes for one device at a time.
type Runner struct {
	auditor    Auditor
	categories []string
	clock      func() time.Time

	// OnFailure, when set, is called for every failed route.
	OnFailure func(device pagespeed.Device, name route.Name, err error)
}

func New(auditor Auditor, categories []string) *Runner {
	return &Runner{
		auditor:    auditor,
		categories: categories,
		clock:      time.Now,
	}
}

type routeOutcome struct {
	record handler.MetricRecord
	audits []handler.AuditIssue
	raw    []byte
	err    string
}

// Run audits every route concurrently and waits for all of them. A failing
// route contributes an error message and never affects its siblings.
func (r *Runner) Run(ctx context.Context, device pagespeed.Device, routes route.Map, titles map[route.Name]string) model.RunResult {
	start := r.clock()
	names := routes.Names()

	outcomes := iter.Map(names, func(name *route.Name) routeOutcome {
		url := routes[*name]

		res := r.auditor.Run(ctx, url, device, r.categories)
		if res.Err != nil {
			log.Warn().Err(res.Err).Str("route", string(*name)).Str("device", string(device)).Msg("Audit failed")
			if r.OnFailure != nil {
				r.OnFailure(device, *name, res.Err)
			}
			return routeOutcome{err: FailureMessage(*name, url, res.Err)}
		}

		title, ok := titles[*name]
		if !ok {
			title = url
		}

		return routeOutcome{
			record: lighthouse.ParseMetrics(res.Payload, lighthouse.Meta{
				Route:  string(*name),
				Device: string(device),
				Title:  title,
				URL:    url,
				Now:    start,
			}),
			audits: lighthouse.ParseAudits(res.Payload),
			raw:    res.Raw,
		}
	})

	elapsed := float64(r.clock().Sub(start).Milliseconds())
	if elapsed < 0 {
		elapsed = 0
	}

	result := model.RunResult{
		Device:   string(device),
		Results:  []handler.MetricRecord{},
		Audits:   []handler.AuditIssue{},
		Errors:   []string{},
		Duration: model.Duration{Value: elapsed, Time: FormatDuration(elapsed)},
		Raw:      make(map[string][]byte),
	}
	for i, o := range outcomes {
		if o.err != "" {
			result.Errors = append(result.Errors, o.err)
			continue
		}
		result.Results = append(result.Results, o.record)
		result.Audits = append(result.Audits, o.audits...)
		if o.raw != nil {
			result.Raw[string(names[i])] = o.raw
		}
	}

	return result
}

// FailureMessage describes a failed route with a link to re-run it by hand.
func FailureMessage(name route.Name, url string, err error) string {
	return handler.FormatStr(fmt.Sprintf(`
		%s TEST FAILED

		Error Message:
		%s

		Manual PageSpeed Test URL:
		%s%s
	`, strings.ToUpper(string(name)), err, pagespeed.ManualTestURL, url))
}
