package page

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cx-miguel-neiva/cwv-audit/internal/handler"
	"github.com/cx-miguel-neiva/cwv-audit/internal/route"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

const DefaultTimeout = 30 * time.Second

// Resolver fetches page titles.
type Resolver struct {
	http *resty.Client
}

func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "Mozilla/5.0"),
	}
}

// Title returns the trimmed <title> text of the page at url.
func (r *Resolver) Title(ctx context.Context, url string) (string, error) {
	res, err := r.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}

	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("no title in %s", url)
	}
	return handler.FormatStr(sel.Text()), nil
}

// Titles resolves every route concurrently. Routes whose title cannot be
// fetched keep their URL as the title.
func (r *Resolver) Titles(ctx context.Context, routes route.Map) map[route.Name]string {
	names := routes.Names()

	titles := iter.Map(names, func(name *route.Name) string {
		url := routes[*name]
		title, err := r.Title(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("route", string(*name)).Msg("Error fetching title")
			return url
		}
		return title
	})

	out := make(map[route.Name]string, len(names))
	for i, name := range names {
		out[name] = titles[i]
	}
	return out
}
