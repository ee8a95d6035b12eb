package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/model"
	"github.com/cx-miguel-neiva/cwv-audit/internal/normalized"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed"
	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func normalizeCmd() *cobra.Command {
	var filePath, reportPath, device, name string

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize saved PageSpeed responses without calling the API",
		Long: `Read raw responses saved with "audit --save-raw" and print or save the normalized tables.
Device and route are taken from file names like "mobile-product.json" unless given as flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("payload path is required (use --path)")
			}

			var d pagespeed.Device
			if device != "" {
				var err error
				if d, err = pagespeed.ParseDevice(device); err != nil {
					return err
				}
			}

			items, err := normalized.Load(filePath, d, route.Name(strings.ToLower(name)))
			if err != nil {
				return fmt.Errorf("failed to load payloads: %w", err)
			}

			report := normalized.Report(items, time.Now())
			for dev, errs := range report.Errors {
				for _, msg := range errs {
					log.Error().Str("device", dev).Msg(msg)
				}
			}

			if reportPath == "" {
				printSummary(cmd.OutOrStdout(), report)
				return nil
			}

			jsonData, err := model.ReportToJson(report)
			if err != nil {
				return fmt.Errorf("failed to convert report to JSON: %w", err)
			}
			if err := os.MkdirAll(filepath.Dir(reportPath), 0755); err != nil {
				return fmt.Errorf("failed to create directory for report: %w", err)
			}
			if err := os.WriteFile(reportPath, jsonData, 0644); err != nil {
				return fmt.Errorf("failed to write JSON to file: %w", err)
			}
			log.Info().Str("output", reportPath).Int("records", len(report.Results)).Msg("Normalized report saved successfully.")
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "path", "", "Payload file or directory of payload files")
	cmd.Flags().StringVar(&reportPath, "report-path", "", "Path to save the normalized JSON report (prints a table if empty)")
	cmd.Flags().StringVar(&device, "device", "", "Device of the payloads (inferred from file names if empty)")
	cmd.Flags().StringVar(&name, "route", "", "Route of the payloads (inferred from file names if empty)")

	return cmd
}
