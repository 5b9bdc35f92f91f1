package cache

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/GeorgiosLymperis/quotes-cache/internal/scraper"
)

// JSONLStore keeps one JSON object per line, in scrape order. An empty
// file is a valid cache of zero records.
type JSONLStore struct {
	path string
}

func NewJSONLStore(path string) *JSONLStore {
	return &JSONLStore{path: path}
}

func (s *JSONLStore) Path() string { return s.path }

func (s *JSONLStore) Load(_ context.Context) ([]scraper.Record, bool, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	records := []scraper.Record{}
	dec := json.NewDecoder(bufio.NewReader(f))
	for {
		var record scraper.Record
		err := dec.Decode(&record)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, fmt.Errorf("decode %s record %d: %w", s.path, len(records), err)
		}
		records = append(records, record)
	}
	return records, true, nil
}

// Save creates parent directories if needed and truncates any existing
// file. The write is not atomic; an interrupted Save leaves a partial file.
func (s *JSONLStore) Save(_ context.Context, records []scraper.Record) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := bufio.NewWriter(f)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	for _, record := range records {
		if err := enc.Encode(record); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func (s *JSONLStore) Remove(_ context.Context) error {
	return removeFile(s.path)
}
