package lighthouse

// Category labels used in the Audits table.
const (
	CategoryPerformance   = "Performance"
	CategoryAccessibility = "Accessibility"
	CategoryBestPractices = "Best Practices"
	CategorySEO           = "SEO"
)

var auditCategories = map[string]string{
	// performance
	"first-contentful-paint":           CategoryPerformance,
	"largest-contentful-paint":         CategoryPerformance,
	"first-meaningful-paint":           CategoryPerformance,
	"speed-index":                      CategoryPerformance,
	"total-blocking-time":              CategoryPerformance,
	"max-potential-fid":                CategoryPerformance,
	"cumulative-layout-shift":          CategoryPerformance,
	"server-response-time":             CategoryPerformance,
	"interactive":                      CategoryPerformance,
	"redirects":                        CategoryPerformance,
	"mainthread-work-breakdown":        CategoryPerformance,
	"bootup-time":                      CategoryPerformance,
	"uses-rel-preconnect":              CategoryPerformance,
	"font-display":                     CategoryPerformance,
	"diagnostics":                      CategoryPerformance,
	"network-requests":                 CategoryPerformance,
	"network-rtt":                      CategoryPerformance,
	"network-server-latency":           CategoryPerformance,
	"main-thread-tasks":                CategoryPerformance,
	"metrics":                          CategoryPerformance,
	"resource-summary":                 CategoryPerformance,
	"third-party-summary":              CategoryPerformance,
	"third-party-facades":              CategoryPerformance,
	"largest-contentful-paint-element": CategoryPerformance,
	"lcp-lazy-loaded":                  CategoryPerformance,
	"layout-shift-elements":            CategoryPerformance,
	"layout-shifts":                    CategoryPerformance,
	"long-tasks":                       CategoryPerformance,
	"non-composited-animations":        CategoryPerformance,
	"unsized-images":                   CategoryPerformance,
	"prioritize-lcp-image":             CategoryPerformance,
	"script-treemap-data":              CategoryPerformance,
	"render-blocking-resources":        CategoryPerformance,
	"unminified-css":                   CategoryPerformance,
	"unminified-javascript":            CategoryPerformance,
	"unused-css-rules":                 CategoryPerformance,
	"unused-javascript":                CategoryPerformance,
	"modern-image-formats":             CategoryPerformance,
	"uses-optimized-images":            CategoryPerformance,
	"uses-text-compression":            CategoryPerformance,
	"uses-responsive-images":           CategoryPerformance,
	"efficient-animated-content":       CategoryPerformance,
	"duplicated-javascript":            CategoryPerformance,
	"legacy-javascript":                CategoryPerformance,
	"offscreen-images":                 CategoryPerformance,
	"total-byte-weight":                CategoryPerformance,
	"uses-long-cache-ttl":              CategoryPerformance,
	"dom-size":                         CategoryPerformance,
	"critical-request-chains":          CategoryPerformance,
	"user-timings":                     CategoryPerformance,
	"uses-passive-event-listeners":     CategoryPerformance,
	"no-document-write":                CategoryPerformance,
	"bf-cache":                         CategoryPerformance,
	"viewport":                         CategoryPerformance,

	// accessibility
	"accesskeys":                   CategoryAccessibility,
	"aria-allowed-attr":            CategoryAccessibility,
	"aria-allowed-role":            CategoryAccessibility,
	"aria-command-name":            CategoryAccessibility,
	"aria-dialog-name":             CategoryAccessibility,
	"aria-hidden-body":             CategoryAccessibility,
	"aria-hidden-focus":            CategoryAccessibility,
	"aria-input-field-name":        CategoryAccessibility,
	"aria-meter-name":              CategoryAccessibility,
	"aria-progressbar-name":        CategoryAccessibility,
	"aria-required-attr":           CategoryAccessibility,
	"aria-required-children":       CategoryAccessibility,
	"aria-required-parent":         CategoryAccessibility,
	"aria-roles":                   CategoryAccessibility,
	"aria-text":                    CategoryAccessibility,
	"aria-toggle-field-name":       CategoryAccessibility,
	"aria-tooltip-name":            CategoryAccessibility,
	"aria-treeitem-name":           CategoryAccessibility,
	"aria-valid-attr-value":        CategoryAccessibility,
	"aria-valid-attr":              CategoryAccessibility,
	"button-name":                  CategoryAccessibility,
	"bypass":                       CategoryAccessibility,
	"color-contrast":               CategoryAccessibility,
	"definition-list":              CategoryAccessibility,
	"dlitem":                       CategoryAccessibility,
	"document-title":               CategoryAccessibility,
	"duplicate-id-aria":            CategoryAccessibility,
	"empty-heading":                CategoryAccessibility,
	"form-field-multiple-labels":   CategoryAccessibility,
	"frame-title":                  CategoryAccessibility,
	"heading-order":                CategoryAccessibility,
	"html-has-lang":                CategoryAccessibility,
	"html-lang-valid":              CategoryAccessibility,
	"html-xml-lang-mismatch":       CategoryAccessibility,
	"identical-links-same-purpose": CategoryAccessibility,
	"image-alt":                    CategoryAccessibility,
	"image-redundant-alt":          CategoryAccessibility,
	"input-button-name":            CategoryAccessibility,
	"input-image-alt":              CategoryAccessibility,
	"label":                        CategoryAccessibility,
	"label-content-name-mismatch":  CategoryAccessibility,
	"landmark-one-main":            CategoryAccessibility,
	"link-in-text-block":           CategoryAccessibility,
	"link-name":                    CategoryAccessibility,
	"list":                         CategoryAccessibility,
	"listitem":                     CategoryAccessibility,
	"meta-refresh":                 CategoryAccessibility,
	"meta-viewport":                CategoryAccessibility,
	"object-alt":                   CategoryAccessibility,
	"select-name":                  CategoryAccessibility,
	"skip-link":                    CategoryAccessibility,
	"tabindex":                     CategoryAccessibility,
	"table-duplicate-name":         CategoryAccessibility,
	"table-fake-caption":           CategoryAccessibility,
	"target-size":                  CategoryAccessibility,
	"td-has-header":                CategoryAccessibility,
	"td-headers-attr":              CategoryAccessibility,
	"th-has-data-cells":            CategoryAccessibility,
	"valid-lang":                   CategoryAccessibility,
	"video-caption":                CategoryAccessibility,

	// best practices
	"is-on-https":                CategoryBestPractices,
	"redirects-http":             CategoryBestPractices,
	"geolocation-on-start":       CategoryBestPractices,
	"notification-on-start":      CategoryBestPractices,
	"csp-xss":                    CategoryBestPractices,
	"paste-preventing-inputs":    CategoryBestPractices,
	"image-aspect-ratio":         CategoryBestPractices,
	"image-size-responsive":      CategoryBestPractices,
	"doctype":                    CategoryBestPractices,
	"charset":                    CategoryBestPractices,
	"no-unload-listeners":        CategoryBestPractices,
	"js-libraries":               CategoryBestPractices,
	"deprecations":               CategoryBestPractices,
	"third-party-cookies":        CategoryBestPractices,
	"errors-in-console":          CategoryBestPractices,
	"valid-source-maps":          CategoryBestPractices,
	"inspector-issues":           CategoryBestPractices,
	"uses-http2":                 CategoryBestPractices,
	"no-vulnerable-libraries":    CategoryBestPractices,

	// seo
	"is-crawlable":      CategorySEO,
	"robots-txt":        CategorySEO,
	"hreflang":          CategorySEO,
	"canonical":         CategorySEO,
	"meta-description":  CategorySEO,
	"http-status-code":  CategorySEO,
	"link-text":         CategorySEO,
	"crawlable-anchors": CategorySEO,
	"structured-data":   CategorySEO,
	"font-size":         CategorySEO,
	"plugins":           CategorySEO,
	"tap-targets":       CategorySEO,
}

// CategoryOf returns the category label of a check id, or nil when unknown.
func CategoryOf(id string) *string {
	c, ok := auditCategories[id]
	if !ok {
		return nil
	}
	return &c
}
