package handler

// Column names as they appear in exported tables.
const (
	ColPageName      = "Page Name"
	ColType          = "Type"
	ColDevice        = "Device"
	ColDate          = "Date"
	ColURL           = "URL"
	ColCoreWebVitals = "Core Web Vitals"
	ColCLS           = "CLS"
	ColFCP           = "FCP"
	ColFID           = "FID"
	ColLCP           = "LCP"
	ColINP           = "INP"
	ColTTFB          = "TTFB"
	ColAccessibility = "Accessibility"
	ColBestPractices = "Best Practices"
	ColPerformance   = "Performance"
	ColSEO           = "SEO"

	ColCategory         = "Category"
	ColTitle            = "Title"
	ColPotentialSavings = "Potential Savings"
	ColDescription      = "Description"
	ColScore            = "Score"
)

// MetricRecord is the summary row for one (route, device) audit.
type MetricRecord struct {
	PageName *string
	Type     string
	Device   string
	Date     string
	URL      string

	CoreWebVitals *string

	CLS  *string
	FCP  *string
	FID  *string
	LCP  *string
	INP  *string
	TTFB *string

	Accessibility *int
	BestPractices *int
	Performance   *int
	SEO           *int
}

// Row flattens the record in column order.
func (r MetricRecord) Row() Row {
	return Row{
		{ColPageName, r.PageName},
		{ColType, r.Type},
		{ColDevice, r.Device},
		{ColDate, r.Date},
		{ColURL, r.URL},
		{ColCoreWebVitals, r.CoreWebVitals},
		{ColCLS, r.CLS},
		{ColFCP, r.FCP},
		{ColFID, r.FID},
		{ColLCP, r.LCP},
		{ColINP, r.INP},
		{ColTTFB, r.TTFB},
		{ColAccessibility, r.Accessibility},
		{ColBestPractices, r.BestPractices},
		{ColPerformance, r.Performance},
		{ColSEO, r.SEO},
	}
}

// AuditIssue is one failing or warning-level diagnostic check.
type AuditIssue struct {
	Category         *string
	Title            *string
	PotentialSavings *string
	Description      *string
	Score            float64
}

// Key is the value audit issues are de-duplicated on.
func (a AuditIssue) Key() string {
	return ToStr(a.Title)
}

func (a AuditIssue) Row() Row {
	return Row{
		{ColCategory, a.Category},
		{ColTitle, a.Title},
		{ColPotentialSavings, a.PotentialSavings},
		{ColDescription, a.Description},
		{ColScore, a.Score},
	}
}
