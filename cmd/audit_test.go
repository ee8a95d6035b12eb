package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed/pagespeedtest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const payload = `{
	"analysisUTCTimestamp": "2024-03-05T10:00:00Z",
	"loadingExperience": {"metrics": {
		"CUMULATIVE_LAYOUT_SHIFT_SCORE": {"category": "FAST"},
		"FIRST_INPUT_DELAY_MS": {"category": "FAST"},
		"LARGEST_CONTENTFUL_PAINT_MS": {"category": "SLOW"}
	}},
	"lighthouseResult": {
		"categories": {"performance": {"score": 0.5}, "seo": {"score": 0.91}},
		"audits": {
			"render-blocking-resources": {"id": "render-blocking-resources", "title": "Eliminate render-blocking resources", "score": 0.2, "displayValue": "Potential savings of 1,200 ms"},
			"unused-css-rules": {"id": "unused-css-rules", "title": "Reduce unused CSS", "score": 0.45},
			"doctype": {"id": "doctype", "title": "Page has the HTML doctype", "score": 1}
		}
	}
}`

func newStore(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	page := func(title string) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, "<html><head><title>\n    %s\n</title></head><body></body></html>", title)
		}
	}
	r.Get("/", page("Shoe Store"))
	r.Get("/collections/all", page("All Products"))
	r.Get("/products/shoe", page("Running Shoe"))
	r.Get("/cart", page("Your Cart"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newAPI(t *testing.T, store string) *pagespeedtest.Server {
	t.Helper()
	api := pagespeedtest.NewServer()
	t.Cleanup(api.Close)
	for _, path := range []string{"", "/collections/all", "/products/shoe"} {
		api.JSON(store+path, http.StatusOK, payload)
	}
	return api
}

func useAPIKey(t *testing.T, key string) {
	t.Helper()
	prev := apiKey
	apiKey = key
	t.Cleanup(func() { apiKey = prev })
}

func auditOpts(store, endpoint, dir string) *auditOptions {
	return &auditOptions{
		product:    store + "/products/shoe",
		routes:     []string{"home", "collection", "product", "cart"},
		devices:    []string{"mobile", "desktop"},
		categories: pagespeed.DefaultCategories,
		outputDir:  dir,
		formats:    []string{"csv", "json", "sqlite"},
		timeout:    10 * time.Second,
		endpoint:   endpoint,
	}
}

func TestRunAudit(t *testing.T) {
	useAPIKey(t, "test-key")
	store := newStore(t)
	api := newAPI(t, store.URL)

	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			dir := t.TempDir()
			opts := auditOpts(store.URL, api.Endpoint(), dir)
			opts.concurrentDevices = concurrent
			opts.saveRaw = filepath.Join(dir, "raw")

			var out bytes.Buffer
			require.NoError(t, runAudit(context.Background(), &out, opts))
			output := out.String()

			require.Equal(t, 2, strings.Count(output, "CART TEST FAILED"))
			require.Contains(t, output, "https://pagespeed.web.dev/analysis?url="+store.URL+"/cart")
			desktop := strings.Index(output, "Desktop tests completed in")
			mobile := strings.Index(output, "Mobile tests completed in")
			require.GreaterOrEqual(t, desktop, 0)
			require.Greater(t, mobile, desktop, "devices run Desktop first")
			require.Contains(t, output, "All tests completed in ")
			require.Contains(t, output, "files saved to "+dir+".")

			csvFiles, _ := filepath.Glob(filepath.Join(dir, "*.csv"))
			jsonFiles, _ := filepath.Glob(filepath.Join(dir, "*.json"))
			dbFiles, _ := filepath.Glob(filepath.Join(dir, "*.db"))
			require.Len(t, csvFiles, 2)
			require.Len(t, jsonFiles, 2)
			require.Len(t, dbFiles, 1)

			rawFiles, _ := filepath.Glob(filepath.Join(dir, "raw", "*.json"))
			require.Len(t, rawFiles, 6)

			reports, _ := filepath.Glob(filepath.Join(dir, "Report for *.csv"))
			require.Len(t, reports, 1)
			f, err := os.Open(reports[0])
			require.NoError(t, err)
			defer f.Close()
			records, err := csv.NewReader(f).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 7, "header and three routes per device")
			require.Equal(t, "Page Name", records[0][0])
			require.Equal(t, "Shoe Store", records[1][0])
			require.Equal(t, "Desktop", records[1][2])
			require.Equal(t, "Failed", records[1][5])
			require.Equal(t, "Mobile", records[4][2])

			audits, _ := filepath.Glob(filepath.Join(dir, "Audits for *.csv"))
			require.Len(t, audits, 1)
			data, err := os.ReadFile(audits[0])
			require.NoError(t, err)
			require.Equal(t, 1, strings.Count(string(data), "Reduce unused CSS"), "audits are de-duplicated by title")
			require.NotContains(t, string(data), "Page has the HTML doctype")
		})
	}
}

func TestRunAuditWithoutAPIKey(t *testing.T) {
	useAPIKey(t, "")
	store := newStore(t)
	api := newAPI(t, store.URL)
	dir := t.TempDir()

	opts := auditOpts(store.URL, api.Endpoint(), dir)
	opts.devices = []string{"Mobile"}
	opts.formats = []string{"csv"}

	var out bytes.Buffer
	require.NoError(t, runAudit(context.Background(), &out, opts))

	require.Equal(t, 4, strings.Count(out.String(), "missing `API_KEY` environment variable"))
	require.Empty(t, api.Requests(), "no request is sent without a key")
}

func TestPlanAudit(t *testing.T) {
	valid := func() *auditOptions {
		return &auditOptions{
			product:   "https://www.shop.example/products/shoe?variant=1",
			routes:    []string{"HOME", "cart", "checkout"},
			devices:   []string{"mobile", "Desktop", "mobile"},
			formats:   []string{"CSV", "sqlite"},
			outputDir: "~/Desktop",
		}
	}

	t.Run("valid", func(t *testing.T) {
		plan, err := planAudit(valid())
		require.NoError(t, err)
		require.Equal(t, "www.shop.example", plan.domain)
		require.Len(t, plan.routes, 2)
		require.Equal(t, "https://www.shop.example/cart", plan.routes["cart"])
		require.Equal(t, []pagespeed.Device{pagespeed.Desktop, pagespeed.Mobile}, plan.devices)
		require.Len(t, plan.exporters, 2)
		require.False(t, strings.HasPrefix(plan.outputDir, "~"))
	})

	t.Run("domain keeps the port", func(t *testing.T) {
		opts := valid()
		opts.product = "http://127.0.0.1:8080/products/shoe"
		plan, err := planAudit(opts)
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:8080", plan.domain)
	})

	cases := map[string]func(o *auditOptions){
		"missing product": func(o *auditOptions) { o.product = "" },
		"not a product":   func(o *auditOptions) { o.product = "https://shop.example/pages/about" },
		"no known routes": func(o *auditOptions) { o.routes = []string{"checkout"} },
		"unknown device":  func(o *auditOptions) { o.devices = []string{"tablet"} },
		"no devices":      func(o *auditOptions) { o.devices = nil },
		"unknown format":  func(o *auditOptions) { o.formats = []string{"xlsx"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			opts := valid()
			mutate(opts)
			_, err := planAudit(opts)
			require.Error(t, err)
		})
	}
}

func TestFormatsFlagListsExporters(t *testing.T) {
	usage := auditCmd().Flags().Lookup("formats").Usage
	require.Equal(t, "Export formats (csv, json, sqlite)", usage)
}
