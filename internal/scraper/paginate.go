package scraper

import (
	"context"
	"errors"
	"fmt"
)

// ErrPageLimit is returned when a Paginator reaches MaxPages without
// seeing the terminal page.
var ErrPageLimit = errors.New("page limit reached before last page")

// Fetcher fetches the raw body of a page along with its Content-Type.
// *Client implements it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Paginator walks page/1, page/2, ... of a quote listing until the site
// answers with its "No quotes found!" page.
type Paginator struct {
	Fetcher  Fetcher
	BaseURL  string // Site root, with trailing slash.
	MaxPages int    // Safety cap; zero means unbounded.

	// OnPage, when set, is called after each non-terminal page with the
	// page index, its URL and the number of records it held.
	OnPage func(page int, url string, records int)
}

// PageURL returns the listing URL for the given page index.
func PageURL(baseURL string, page int) string {
	return fmt.Sprintf("%spage/%d", baseURL, page)
}

// Run scrapes pages starting at 1 and returns every record in
// page-then-document order. The terminal page contributes nothing. Any
// fetch, parse or extraction error aborts the run and no records are
// returned.
func (p *Paginator) Run(ctx context.Context) ([]Record, error) {
	var all []Record
	for page := 1; ; page++ {
		if p.MaxPages > 0 && page > p.MaxPages {
			return nil, fmt.Errorf("%d pages: %w", p.MaxPages, ErrPageLimit)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url := PageURL(p.BaseURL, page)
		recs, done, err := p.scrapePage(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if done {
			return all, nil
		}

		all = append(all, recs...)
		if p.OnPage != nil {
			p.OnPage(page, url, len(recs))
		}
	}
}

// scrapePage reports done=true when url is the terminal page.
func (p *Paginator) scrapePage(ctx context.Context, url string) ([]Record, bool, error) {
	body, contentType, err := p.Fetcher.Get(ctx, url)
	if err != nil {
		return nil, false, err
	}

	doc, err := ParsePage(body, contentType)
	if err != nil {
		return nil, false, err
	}

	if IsTerminal(doc) {
		return nil, true, nil
	}

	recs, err := ExtractQuotes(doc)
	if err != nil {
		return nil, false, err
	}
	return recs, false, nil
}
