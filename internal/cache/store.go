// Package cache persists the records of one completed scrape so later runs
// can replay them without touching the network. The presence of the cache
// file is the only "already scraped" signal.
package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GeorgiosLymperis/quotes-cache/internal/scraper"
)

type Store interface {
	// Path returns the cache file location.
	Path() string
	// Load returns the cached records and true, or false without error
	// when no cache file exists.
	Load(ctx context.Context) ([]scraper.Record, bool, error)
	// Save writes the full record sequence in one shot.
	Save(ctx context.Context, records []scraper.Record) error
	// Remove deletes the cache file. A missing file is not an error.
	Remove(ctx context.Context) error
}

// Open returns the store for path, picking the backend from its extension:
// .db, .sqlite and .sqlite3 use SQLite, anything else JSON Lines.
func Open(path string) Store {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path)
	default:
		return NewJSONLStore(path)
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func removeFile(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
