package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// newSite serves the given fixtures as page/1, page/2, ... and the terminal
// page for every later index.
func newSite(t *testing.T, pages ...[]byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	terminal := parseFixture(t, "terminal_page.html")
	var hits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/page/{n}", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var n int
		if _, err := fmt.Sscanf(r.PathValue("n"), "%d", &n); err != nil || n < 1 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if n <= len(pages) {
			w.Write(pages[n-1])
			return
		}
		w.Write(terminal)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &hits
}

func newTestClient() *Client {
	return NewClient(3*time.Second, "TestAgent/1.0")
}

func TestPageURL(t *testing.T) {
	if got, want := PageURL("https://quotes.toscrape.com/", 3), "https://quotes.toscrape.com/page/3"; got != want {
		t.Errorf("PageURL = %q, want %q", got, want)
	}
}

func TestPaginatorStopsAtTerminalPage(t *testing.T) {
	server, hits := newSite(t, parseFixture(t, "quotes_page.html"))

	var seen []int
	p := &Paginator{
		Fetcher: newTestClient(),
		BaseURL: server.URL + "/",
		OnPage: func(page int, url string, records int) {
			seen = append(seen, page)
			if records != 2 {
				t.Errorf("page %d records = %d, want 2", page, records)
			}
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	records, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Text != "Life is short." || records[1].Author != "Jane Austen" {
		t.Errorf("records out of order: %#v", records)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("fetches = %d, want 2", got)
	}
	if diff := cmp.Diff([]int{1}, seen); diff != "" {
		t.Errorf("OnPage calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginatorConcatenatesPages(t *testing.T) {
	page := parseFixture(t, "quotes_page.html")
	server, hits := newSite(t, page, page, page)

	p := &Paginator{Fetcher: newTestClient(), BaseURL: server.URL + "/"}
	records, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(records) != 6 {
		t.Errorf("len(records) = %d, want 6", len(records))
	}
	if got := hits.Load(); got != 4 {
		t.Errorf("fetches = %d, want 4", got)
	}
}

func TestPaginatorUsesResponseCharset(t *testing.T) {
	terminal := parseFixture(t, "terminal_page.html")
	mux := http.NewServeMux()
	mux.HandleFunc("/page/{n}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("n") != "1" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(terminal)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=windows-1252")
		w.Write([]byte("<div class=\"quote\"><span class=\"text\">\x93Caf\xe9.\x94</span>" +
			"<small class=\"author\">Ren\xe9</small><meta class=\"keywords\" content=\"caf\xe9\"></div>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p := &Paginator{Fetcher: newTestClient(), BaseURL: server.URL + "/", MaxPages: 5}
	records, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want := []Record{{Text: "Café.", Author: "René", Tags: []string{"café"}}}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginatorImmediateTerminal(t *testing.T) {
	server, hits := newSite(t)

	p := &Paginator{Fetcher: newTestClient(), BaseURL: server.URL + "/"}
	records, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %#v, want none", records)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
}

func TestPaginatorMaxPages(t *testing.T) {
	page := parseFixture(t, "quotes_page.html")
	server, hits := newSite(t, page, page, page)

	p := &Paginator{Fetcher: newTestClient(), BaseURL: server.URL + "/", MaxPages: 2}
	records, err := p.Run(context.Background())
	if !errors.Is(err, ErrPageLimit) {
		t.Fatalf("err = %v, want ErrPageLimit", err)
	}
	if records != nil {
		t.Errorf("records = %#v, want nil", records)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("fetches = %d, want 2", got)
	}
}

func TestPaginatorBrokenPage(t *testing.T) {
	server, _ := newSite(t, parseFixture(t, "quotes_page.html"), parseFixture(t, "missing_tags_page.html"))

	p := &Paginator{Fetcher: newTestClient(), BaseURL: server.URL + "/"}
	records, err := p.Run(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if records != nil {
		t.Errorf("records = %#v, want nil", records)
	}
}

func TestPaginatorCanceled(t *testing.T) {
	server, hits := newSite(t, parseFixture(t, "quotes_page.html"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Paginator{Fetcher: newTestClient(), BaseURL: server.URL + "/"}
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := hits.Load(); got != 0 {
		t.Errorf("fetches = %d, want 0", got)
	}
}
