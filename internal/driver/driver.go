// Package driver runs one scrape-or-replay cycle: replay the cache when it
// exists, otherwise scrape every page, persist once and replay that.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/GeorgiosLymperis/quotes-cache/internal/cache"
	"github.com/GeorgiosLymperis/quotes-cache/internal/scraper"
)

// ErrCacheMissing means the cache was still absent right after a save.
var ErrCacheMissing = errors.New("cache missing after save")

// Scraper produces the records of a full scrape. *scraper.Paginator
// implements it.
type Scraper interface {
	Run(ctx context.Context) ([]scraper.Record, error)
}

type Driver struct {
	Store   cache.Store
	Scraper Scraper
	Out     io.Writer
	Format  string
}

// Run replays the cache to Out, scraping and saving first if there is no
// cache yet. A scrape happens at most once per call.
func (d *Driver) Run(ctx context.Context) error {
	scraped := false
	for {
		records, ok, err := d.Store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load cache %s: %w", d.Store.Path(), err)
		}
		if ok {
			slog.Debug("cache hit", "path", d.Store.Path(), "records", len(records))
			return Print(d.Out, records, d.Format)
		}
		if scraped {
			return fmt.Errorf("%s: %w", d.Store.Path(), ErrCacheMissing)
		}

		slog.Info("no cache, scraping", "path", d.Store.Path())
		records, err = d.Scraper.Run(ctx)
		if err != nil {
			return fmt.Errorf("scrape: %w", err)
		}
		if err := d.Store.Save(ctx, records); err != nil {
			return fmt.Errorf("save cache %s: %w", d.Store.Path(), err)
		}
		slog.Info("saved", "path", d.Store.Path(), "records", len(records))
		scraped = true
	}
}
