package runner

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler/lighthouse"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed"
	"github.com/cx-miguel-neiva/cwv-audit/internal/pagespeed/pagespeedtest"
	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/stretchr/testify/require"
)

const payload = `{
	"analysisUTCTimestamp": "2024-03-05T10:00:00Z",
	"loadingExperience": {"metrics": {
		"CUMULATIVE_LAYOUT_SHIFT_SCORE": {"category": "FAST"},
		"FIRST_INPUT_DELAY_MS": {"category": "FAST"},
		"LARGEST_CONTENTFUL_PAINT_MS": {"category": "FAST"}
	}},
	"lighthouseResult": {
		"categories": {"performance": {"score": 0.42}},
		"audits": {
			"unused-javascript": {"id": "unused-javascript", "title": "Reduce unused JavaScript", "score": 0.1},
			"doctype": {"id": "doctype", "title": "Page has the HTML doctype", "score": 1}
		}
	}
}`

type fakeAuditor struct {
	mu       sync.Mutex
	failures map[string]error
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeAuditor) Run(_ context.Context, url string, _ pagespeed.Device, _ []string) pagespeed.Result {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.calls = append(f.calls, url)
	err := f.failures[url]
	f.mu.Unlock()

	if err != nil {
		return pagespeed.Result{Err: err}
	}
	p, decodeErr := lighthouse.Decode([]byte(payload))
	if decodeErr != nil {
		return pagespeed.Result{Err: decodeErr}
	}
	return pagespeed.Result{Payload: p, Raw: []byte(payload)}
}

var routes = route.Map{
	route.Home:    "https://shop.example",
	route.Product: "https://shop.example/products/shoe",
	route.Cart:    "https://shop.example/cart",
}

func TestRunIsolatesFailures(t *testing.T) {
	auditor := &fakeAuditor{
		failures: map[string]error{"https://shop.example/cart": errors.New("socket hang up")},
		delay:    20 * time.Millisecond,
	}
	titles := map[route.Name]string{route.Home: "Shoe Store", route.Product: "Shoe"}

	var failed []route.Name
	r := New(auditor, nil)
	r.OnFailure = func(_ pagespeed.Device, name route.Name, _ error) { failed = append(failed, name) }
	result := r.Run(context.Background(), pagespeed.Desktop, routes, titles)

	require.Equal(t, "Desktop", result.Device)
	require.Equal(t, []route.Name{route.Cart}, failed)
	require.Len(t, result.Results, 2)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "CART TEST FAILED")
	require.Contains(t, result.Errors[0], "socket hang up")
	require.Contains(t, result.Errors[0], "https://pagespeed.web.dev/analysis?url=https://shop.example/cart")
	require.Len(t, result.Audits, 2, "one failing check per successful route")
	require.GreaterOrEqual(t, result.Duration.Value, 0.0)
	require.NotEmpty(t, result.Duration.Time)
	require.Len(t, result.Raw, 2)
	require.Len(t, auditor.calls, 3)
	require.Equal(t, int32(3), auditor.peak.Load(), "all routes are requested concurrently")

	for _, rec := range result.Results {
		require.Equal(t, "Desktop", rec.Device)
		require.Equal(t, lighthouse.Passed, *rec.CoreWebVitals)
		require.Equal(t, 42, *rec.Performance)
		require.Equal(t, "3/5/2024", rec.Date)
		switch rec.Type {
		case "home":
			require.Equal(t, "Shoe Store", *rec.PageName)
		case "product":
			require.Equal(t, "Shoe", *rec.PageName)
		default:
			t.Fatalf("unexpected route %s", rec.Type)
		}
	}
}

func TestRunAllFailed(t *testing.T) {
	auditor := &fakeAuditor{failures: map[string]error{
		"https://shop.example":               pagespeed.ErrMissingAPIKey,
		"https://shop.example/products/shoe": pagespeed.ErrMissingAPIKey,
		"https://shop.example/cart":          pagespeed.ErrMissingAPIKey,
	}}

	result := New(auditor, nil).Run(context.Background(), pagespeed.Mobile, routes, nil)

	require.Empty(t, result.Results)
	require.Empty(t, result.Audits)
	require.Len(t, result.Errors, 3)
	require.NotNil(t, result.Results)
}

func TestRunAgainstFakeAPI(t *testing.T) {
	srv := pagespeedtest.NewServer()
	defer srv.Close()
	srv.JSON("https://shop.example", http.StatusOK, payload)
	srv.JSON("https://shop.example/products/shoe", http.StatusOK, `{}`)

	client := pagespeed.NewClient(pagespeed.Options{APIKey: "k", Endpoint: srv.Endpoint(), Timeout: 5 * time.Second})
	result := New(client, []string{"performance"}).Run(context.Background(), pagespeed.Mobile, routes, nil)

	require.Len(t, result.Results, 2)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "CART TEST FAILED")

	for _, req := range srv.Requests() {
		require.Equal(t, "mobile", req.Strategy)
		require.Equal(t, []string{"performance"}, req.Categories)
	}
}

func TestRunDuration(t *testing.T) {
	r := New(&fakeAuditor{}, nil)
	ticks := []time.Time{time.Unix(100, 0), time.Unix(100, 0).Add(125 * time.Second)}
	r.clock = func() time.Time {
		now := ticks[0]
		ticks = ticks[1:]
		return now
	}

	result := r.Run(context.Background(), pagespeed.Mobile, route.Map{route.Home: "https://shop.example"}, nil)
	require.Equal(t, 125000.0, result.Duration.Value)
	require.Equal(t, "2m 5s", result.Duration.Time)
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:       "0.00s",
		500:     "0.50s",
		999:     "1.00s",
		1000:    "1s",
		45000:   "45s",
		60000:   "1m 0s",
		125000:  "2m 5s",
		3700000: "1h 1m 40s",
	}
	for ms, expected := range cases {
		require.Equal(t, expected, FormatDuration(ms), "ms=%v", ms)
	}
}
