package lighthouse

import (
	"math"
	"time"

	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
)

// NotEnoughData is shown when the payload has no field-experience section.
const NotEnoughData = "Not enough data"

// Verdicts of the Core Web Vitals assessment.
const (
	Passed  = "Passed"
	Failed  = "Failed"
	Unknown = "Unknown"
)

// Ratings as shown on the PageSpeed Insights site.
const (
	RatingGood     = "Good"
	RatingModerate = "Moderate"
	RatingPoor     = "Poor"
)

// Field-experience metric keys.
const (
	MetricCLS  = "CUMULATIVE_LAYOUT_SHIFT_SCORE"
	MetricFCP  = "FIRST_CONTENTFUL_PAINT_MS"
	MetricFID  = "FIRST_INPUT_DELAY_MS"
	MetricLCP  = "LARGEST_CONTENTFUL_PAINT_MS"
	MetricINP  = "INTERACTION_TO_NEXT_PAINT"
	MetricTTFB = "EXPERIMENTAL_TIME_TO_FIRST_BYTE"
)

// DateLayout is the en-US short date used in the Date column.
const DateLayout = "1/2/2006"

// Meta is the context of an audit that the payload itself does not carry.
type Meta struct {
	Route  string
	Device string
	Title  string
	URL    string
	// Now dates the record when the payload has no analysis timestamp.
	Now time.Time
}

// Rating translates a field-experience category. Unrecognised values yield nil.
func Rating(category *string) *string {
	if category == nil {
		return nil
	}
	var r string
	switch *category {
	case "FAST":
		r = RatingGood
	case "AVERAGE":
		r = RatingModerate
	case "SLOW":
		r = RatingPoor
	default:
		return nil
	}
	return &r
}

// Assessment computes the overall Core Web Vitals verdict from CLS, FID and LCP ratings.
func Assessment(cls, fid, lcp *string) string {
	if cls == nil || fid == nil || lcp == nil {
		return Unknown
	}
	if *cls == RatingGood && *fid == RatingGood && *lcp == RatingGood {
		return Passed
	}
	return Failed
}

// Percent converts a 0..1 category score into a whole percentage.
func Percent(score *float64) *int {
	if score == nil || math.IsNaN(*score) {
		return nil
	}
	p := int(math.Floor(*score*100 + 0.5))
	return &p
}

// ParseMetrics normalizes a payload into one summary record. It never fails;
// missing sections leave placeholders or nil values in place.
func ParseMetrics(p *Payload, meta Meta) handler.MetricRecord {
	placeholder := func() *string {
		s := NotEnoughData
		return &s
	}

	record := handler.MetricRecord{
		PageName:      handler.StrPtr(meta.Title),
		Type:          meta.Route,
		Device:        meta.Device,
		Date:          analysisDate(p, meta.Now),
		URL:           meta.URL,
		CoreWebVitals: placeholder(),
		CLS:           placeholder(),
		FCP:           placeholder(),
		FID:           placeholder(),
		LCP:           placeholder(),
		INP:           placeholder(),
		TTFB:          placeholder(),
	}
	if p == nil {
		return record
	}

	if p.LoadingExperience != nil && p.LoadingExperience.Metrics != nil {
		metrics := p.LoadingExperience.Metrics

		record.CLS = fieldRating(metrics, MetricCLS)
		record.FCP = fieldRating(metrics, MetricFCP)
		record.FID = fieldRating(metrics, MetricFID)
		record.LCP = fieldRating(metrics, MetricLCP)
		record.INP = fieldRating(metrics, MetricINP)
		record.TTFB = fieldRating(metrics, MetricTTFB)

		verdict := Assessment(record.CLS, record.FID, record.LCP)
		record.CoreWebVitals = &verdict
	}

	if p.LighthouseResult != nil && p.LighthouseResult.Categories != nil {
		categories := p.LighthouseResult.Categories

		record.Accessibility = categoryPercent(categories, "accessibility")
		record.BestPractices = categoryPercent(categories, "best-practices")
		record.Performance = categoryPercent(categories, "performance")
		record.SEO = categoryPercent(categories, "seo")
	}

	return record
}

func fieldRating(metrics map[string]*FieldMetric, key string) *string {
	m, ok := metrics[key]
	if !ok || m == nil {
		return nil
	}
	return Rating(m.Category)
}

func categoryPercent(categories map[string]*Category, key string) *int {
	c, ok := categories[key]
	if !ok || c == nil {
		return nil
	}
	return Percent(c.Score)
}

func analysisDate(p *Payload, now time.Time) string {
	if p != nil && p.AnalysisUTCTimestamp != nil {
		if ts, err := time.Parse(time.RFC3339Nano, *p.AnalysisUTCTimestamp); err == nil {
			return ts.Local().Format(DateLayout)
		}
	}
	return now.Format(DateLayout)
}
