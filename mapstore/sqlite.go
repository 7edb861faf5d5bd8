package mapstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	bucket TEXT NOT NULL,
	key    TEXT NOT NULL,
	pos    INTEGER NOT NULL DEFAULT 0,
	value  TEXT NOT NULL,
	PRIMARY KEY (bucket, key, pos)
);
`

// SQLiteStore keeps all tables in a single database file.  Handy when a dump
// is large enough that one-YAML-file-per-table becomes unwieldy.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	buckets *Buckets
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("mapstore: couldn't create store directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("mapstore: couldn't open database %s: %w", path, err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("mapstore: couldn't initialise schema: %w", err)
	}

	return &SQLiteStore{
		db:      db,
		path:    path,
		buckets: NewBuckets(),
	}, nil
}

func (s *SQLiteStore) Buckets() *Buckets { return s.buckets }

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load() error {
	rows, err := s.db.Query(
		`SELECT bucket, key, value FROM entries ORDER BY bucket, key, pos`)
	if err != nil {
		return fmt.Errorf("mapstore: couldn't read entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket, key, value string
		if err := rows.Scan(&bucket, &key, &value); err != nil {
			return fmt.Errorf("mapstore: couldn't scan entry: %w", err)
		}

		switch Tables[bucket] {
		case MultiValue:
			s.buckets.AppendMulti(bucket, key, value)
		default:
			if err := s.buckets.AddSingle(bucket, key, value); err != nil {
				return fmt.Errorf("mapstore: loading bucket %s: %w", bucket, err)
			}
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("mapstore: reading entries: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Save() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("mapstore: couldn't begin transaction: %w", err)
	}
	defer tx.Rollback()

	// full rewrite; the in-memory buckets are authoritative after a run
	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("mapstore: couldn't clear entries: %w", err)
	}

	insert, err := tx.Prepare(
		`INSERT INTO entries (bucket, key, pos, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("mapstore: couldn't prepare insert: %w", err)
	}
	defer insert.Close()

	for _, table := range s.buckets.TableNames() {
		switch Tables[table] {
		case MultiValue:
			entries := s.buckets.MultiTable(table)
			for _, key := range sortedKeys(entries) {
				for pos, value := range entries[key] {
					if _, err := insert.Exec(table, key, pos, value); err != nil {
						return fmt.Errorf("mapstore: couldn't insert into %s: %w", table, err)
					}
				}
			}
		default:
			entries := s.buckets.SingleTable(table)
			for _, key := range sortedKeys(entries) {
				if _, err := insert.Exec(table, key, 0, entries[key]); err != nil {
					return fmt.Errorf("mapstore: couldn't insert into %s: %w", table, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mapstore: couldn't commit: %w", err)
	}
	return nil
}
