package pagespeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler/lighthouse"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint  = "https://pagespeedonline.googleapis.com/pagespeedonline/v5/runPagespeed"
	DefaultTimeout   = 2 * time.Minute
	DefaultUserAgent = "Mozilla/5.0"

	// ManualTestURL is the public PageSpeed Insights page for re-running a check by hand.
	ManualTestURL = "https://pagespeed.web.dev/analysis?url="
)

// DefaultCategories are requested when the caller does not pick any.
var DefaultCategories = []string{"performance", "accessibility", "best-practices", "seo"}

var (
	ErrMissingAPIKey = errors.New("Application not configured correct, missing `API_KEY` environment variable.")
	ErrNotJSON       = errors.New("Google's servers failed to process the request, try again.")
)

// Device is the device class label shown in reports.
type Device string

const (
	Desktop Device = "Desktop"
	Mobile  Device = "Mobile"
)

// Devices lists the supported device classes in run order.
var Devices = []Device{Desktop, Mobile}

// Strategy is the PageSpeed API name of the device class.
func (d Device) Strategy() string {
	return strings.ToLower(string(d))
}

// ParseDevice accepts a device label in any case.
func ParseDevice(s string) (Device, error) {
	for _, d := range Devices {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unsupported device: %s", s)
}

// Result is the outcome of one audit request: a payload or an error, never both.
type Result struct {
	Payload *lighthouse.Payload
	Raw     []byte
	Err     error
}

type Options struct {
	APIKey    string
	Endpoint  string
	Timeout   time.Duration
	UserAgent string
	// RateLimit caps requests per second; zero disables pacing.
	RateLimit float64
}

// Client calls the PageSpeed Insights API.
type Client struct {
	http     *resty.Client
	apiKey   string
	endpoint string
	limiter  *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	c := &Client{
		http: resty.New().
			SetTimeout(opts.Timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("User-Agent", opts.UserAgent),
		apiKey:   strings.TrimSpace(opts.APIKey),
		endpoint: opts.Endpoint,
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type apiError struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Run audits url on device. Failures are returned in Result.Err.
func (c *Client) Run(ctx context.Context, url string, device Device, categories []string) Result {
	if !c.Configured() {
		return Result{Err: ErrMissingAPIKey}
	}
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{Err: err}
		}
	}

	log.Debug().Str("url", url).Str("strategy", device.Strategy()).Msg("Requesting PageSpeed audit")

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("url", url).
		SetQueryParam("strategy", device.Strategy()).
		SetQueryParam("key", c.apiKey).
		SetQueryParamsFromValues(map[string][]string{"category": categories}).
		Get(c.endpoint)
	if err != nil {
		return Result{Err: err}
	}

	if !strings.Contains(res.Header().Get("Content-Type"), "application/json") {
		return Result{Err: ErrNotJSON}
	}

	body := res.Body()
	if res.IsError() {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
			return Result{Err: fmt.Errorf("pagespeed api error (%d): %s", res.StatusCode(), apiErr.Error.Message)}
		}
		return Result{Err: fmt.Errorf("pagespeed api error: http %d", res.StatusCode())}
	}

	payload, err := lighthouse.Decode(body)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Payload: payload, Raw: body}
}
