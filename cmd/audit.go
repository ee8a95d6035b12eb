package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/db"
	"github.com/cx-miguel-neiva/cwv-audit/internal/export"
	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
	"github.com/cx-miguel-neiva/cwv-audit/internal/normalized"
	"github.com/cx-miguel-neiva/cwv-audit/internal/page"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed"
	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/cx-miguel-neiva/cwv-audit/internal/runner"
	"github.com/cx-miguel-neiva/cwv-audit/internal/telemetry"
	"github.com/cx-miguel-neiva/cwv-audit/plugins"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
)

const defaultOutputDir = "~/Desktop"

type auditOptions struct {
	product           string
	routes            []string
	devices           []string
	categories        []string
	outputDir         string
	formats           []string
	saveRaw           string
	timeout           time.Duration
	rateLimit         float64
	concurrentDevices bool
	s3                export.S3Options
	sentryDSN         string
	endpoint          string
}

func init() {
	plugins.Register(export.CSV{})
	plugins.Register(export.JSON{})
	plugins.Register(db.SQLite{})
}

func auditCmd() *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit storefront pages with PageSpeed Insights and export the results",
		Long: `Audit the home, collection, product and cart pages derived from a product URL,
once per device, and export a summary table and a table of failing checks.

Examples:
  # Audit every page on desktop and mobile, CSV files on the Desktop
  cwv-audit audit --product https://shop.example/products/shoe

  # Only the product and cart pages on mobile, as JSON and SQLite
  cwv-audit audit --product https://shop.example/products/shoe --routes product,cart --devices mobile --formats json,sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.product, "product", "", "Product page URL of the store (must contain /products/)")
	flags.StringSliceVar(&opts.routes, "routes", routeNames(route.All), "Pages to audit")
	flags.StringSliceVar(&opts.devices, "devices", deviceNames(pagespeed.Devices), "Devices to audit on")
	flags.StringSliceVar(&opts.categories, "categories", pagespeed.DefaultCategories, "Lighthouse categories to request")
	flags.StringVar(&opts.outputDir, "output-dir", defaultOutputDir, "Directory the exports are written to")
	flags.StringSliceVar(&opts.formats, "formats", []string{"csv"}, fmt.Sprintf("Export formats (%s)", strings.Join(plugins.Formats(), ", ")))
	flags.StringVar(&opts.saveRaw, "save-raw", "", "Directory to save the raw API responses to")
	flags.DurationVar(&opts.timeout, "timeout", pagespeed.DefaultTimeout, "Timeout of a single audit request")
	flags.Float64Var(&opts.rateLimit, "rate-limit", 0, "Maximum audit requests per second (0 = unlimited)")
	flags.BoolVar(&opts.concurrentDevices, "concurrent-devices", false, "Audit all devices at the same time")
	flags.StringVar(&opts.s3.Bucket, "s3-bucket", "", "Bucket to mirror the exports to")
	flags.StringVar(&opts.s3.Prefix, "s3-prefix", "", "Key prefix of mirrored exports")
	flags.StringVar(&opts.s3.Endpoint, "s3-endpoint", "", "Endpoint of an S3 compatible service")
	flags.StringVar(&opts.s3.Region, "s3-region", "", "Region of the bucket")
	flags.StringVar(&opts.sentryDSN, "sentry-dsn", "", "Sentry DSN to report failures to")
	flags.StringVar(&opts.endpoint, "api-endpoint", pagespeed.DefaultEndpoint, "PageSpeed Insights API endpoint")
	cobra.CheckErr(flags.MarkHidden("api-endpoint"))

	return cmd
}

// auditPlan is the validated input of a run.
type auditPlan struct {
	domain    string
	routes    route.Map
	devices   []pagespeed.Device
	exporters []plugins.Exporter
	outputDir string
}

func planAudit(opts *auditOptions) (*auditPlan, error) {
	product, err := route.ParseProduct(opts.product)
	if err != nil {
		return nil, err
	}

	routes := route.Build(route.Origin(product), product.String(), opts.routes)
	if len(routes) == 0 {
		return nil, fmt.Errorf("no valid routes selected: %s", strings.Join(opts.routes, ", "))
	}

	devices, err := parseDevices(opts.devices)
	if err != nil {
		return nil, err
	}

	exporters := make([]plugins.Exporter, 0, len(opts.formats))
	for _, format := range opts.formats {
		exp, err := plugins.Get(format)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, exp)
	}

	return &auditPlan{
		domain:    product.Host,
		routes:    routes,
		devices:   devices,
		exporters: exporters,
		outputDir: expandHome(opts.outputDir),
	}, nil
}

// parseDevices returns the selected devices in run order.
func parseDevices(names []string) ([]pagespeed.Device, error) {
	selected := make(map[pagespeed.Device]bool)
	for _, name := range names {
		d, err := pagespeed.ParseDevice(name)
		if err != nil {
			return nil, err
		}
		selected[d] = true
	}

	var devices []pagespeed.Device
	for _, d := range pagespeed.Devices {
		if selected[d] {
			devices = append(devices, d)
		}
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices selected")
	}
	return devices, nil
}

func runAudit(ctx context.Context, out io.Writer, opts *auditOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	plan, err := planAudit(opts)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log.Logger = log.With().Str("run_id", runID).Logger()

	flush, err := telemetry.Setup(opts.sentryDSN, Version, runID)
	if err != nil {
		log.Warn().Err(err).Msg("Error reporting disabled")
	}
	defer flush()

	client := pagespeed.NewClient(pagespeed.Options{
		APIKey:    apiKey,
		Endpoint:  opts.endpoint,
		Timeout:   opts.timeout,
		RateLimit: opts.rateLimit,
	})
	if !client.Configured() {
		log.Warn().Msg(pagespeed.ErrMissingAPIKey.Error())
	}

	writer := &export.Writer{
		Exporters: plan.exporters,
		OnError: func(err error) {
			telemetry.Capture(err, map[string]string{"stage": "export"})
		},
	}
	if opts.s3.Bucket != "" {
		mirror, err := export.NewS3Mirror(ctx, opts.s3)
		if err != nil {
			return err
		}
		writer.Mirror = mirror
	}

	log.Info().Str("domain", plan.domain).Int("routes", len(plan.routes)).Int("devices", len(plan.devices)).Msg("Starting audit")
	start := time.Now()

	titles := page.NewResolver(0).Titles(ctx, plan.routes)

	r := runner.New(client, opts.categories)
	r.OnFailure = func(device pagespeed.Device, name route.Name, err error) {
		telemetry.CaptureRouteFailure(string(device), string(name), err)
	}

	runs := runDevices(ctx, out, r, plan, titles, opts.concurrentDevices)

	if opts.saveRaw != "" {
		dir := expandHome(opts.saveRaw)
		for _, run := range runs {
			paths, err := normalized.SaveRaw(dir, run)
			if err != nil {
				log.Error().Err(err).Str("device", run.Device).Msg("Failed to save raw payloads")
				continue
			}
			log.Debug().Strs("files", paths).Msg("Raw payloads saved")
		}
	}

	report := model.NewReport(runs...)
	writeReport(ctx, writer, plan.outputDir, plan.domain, start, report)
	printSummary(out, report)

	fmt.Fprintf(out, "All tests completed in %s and files saved to %s.\n", runner.FormatDuration(report.TotalTime), plan.outputDir)
	return nil
}

// runDevices audits every device, one after the other unless concurrent is
// set. Each device section is printed in run order.
func runDevices(ctx context.Context, out io.Writer, r *runner.Runner, plan *auditPlan, titles map[route.Name]string, concurrent bool) []model.RunResult {
	run := func(device *pagespeed.Device) model.RunResult {
		log.Info().Str("device", string(*device)).Msg("Running tests")
		return r.Run(ctx, *device, plan.routes, titles)
	}

	if concurrent {
		runs := iter.Map(plan.devices, run)
		for _, result := range runs {
			printRun(out, result)
		}
		return runs
	}

	runs := make([]model.RunResult, 0, len(plan.devices))
	for i := range plan.devices {
		result := run(&plan.devices[i])
		printRun(out, result)
		runs = append(runs, result)
	}
	return runs
}

func printRun(out io.Writer, run model.RunResult) {
	for _, msg := range run.Errors {
		fmt.Fprintf(out, "%s\n\n", msg)
	}
	fmt.Fprintf(out, "%s tests completed in %s\n", run.Device, run.Duration.Time)
}

func writeReport(ctx context.Context, w *export.Writer, dir, domain string, now time.Time, report model.Report) []export.Written {
	return w.Write(ctx,
		plugins.Export{Dir: dir, Domain: domain, Type: export.TypeReport, Now: now, Table: report.ResultsTable()},
		plugins.Export{Dir: dir, Domain: domain, Type: export.TypeAudits, Now: now, Table: report.AuditsTable()},
	)
}

func routeNames(names []route.Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

func deviceNames(devices []pagespeed.Device) []string {
	out := make([]string, len(devices))
	for i, d := range devices {
		out[i] = string(d)
	}
	return out
}
