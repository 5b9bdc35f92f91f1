package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/GeorgiosLymperis/quotes-cache/internal/scraper"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
create table if not exists quote (
	seq integer primary key,
	text text not null,
	author text not null,
	tags text not null
);`

// SQLiteStore keeps the records in a single table ordered by insertion.
type SQLiteStore struct {
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Load(ctx context.Context) ([]scraper.Record, bool, error) {
	// sql.Open would create the file, so check first.
	ok, err := exists(s.path)
	if err != nil || !ok {
		return nil, false, err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "select text, author, tags from quote order by seq")
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", s.path, err)
	}
	defer rows.Close()

	records := []scraper.Record{}
	for rows.Next() {
		var (
			record scraper.Record
			tags   string
		)
		if err := rows.Scan(&record.Text, &record.Author, &tags); err != nil {
			return nil, false, err
		}
		if err := json.Unmarshal([]byte(tags), &record.Tags); err != nil {
			return nil, false, fmt.Errorf("decode tags of record %d: %w", len(records), err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return records, true, nil
}

// Save replaces the table contents with records inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []scraper.Record) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "delete from quote"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "insert into quote (seq, text, author, tags) values (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, record := range records {
		tags, err := json.Marshal(record.Tags)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, i, record.Text, record.Author, string(tags)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Remove(_ context.Context) error {
	return removeFile(s.path)
}
