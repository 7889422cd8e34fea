// Package catalog is a local SQLite index of listing entries, usable as a
// paged backend for the picker. The typical flow is `rpick index` filling
// the catalog from a slow enumeration once, then `rpick pick --catalog`
// paging through it instantly.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/runger/rpick/internal/source"
)

// Store is a SQLite-backed listing catalog.
type Store struct {
	db        *sql.DB
	closeOnce sync.Once
	closeErr  error
}

// Entry is one cataloged listing item.
type Entry struct {
	Name  string
	Path  string
	Size  int64
	MTime int64
}

// Open opens (creating if necessary) the catalog at dbPath.
// The database is opened with WAL mode enabled.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create directory: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	// SQLite handles concurrency better with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: connect: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection. Safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS entries (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT NOT NULL,
			path  TEXT NOT NULL DEFAULT '',
			size  INTEGER NOT NULL DEFAULT 0,
			mtime INTEGER NOT NULL DEFAULT 0,
			UNIQUE(name, path)
		);
	`)
	return err
}

// Put upserts a batch of entries in one transaction.
func (s *Store) Put(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (name, path, size, mtime) VALUES (?, ?, ?, ?)
		ON CONFLICT(name, path) DO UPDATE SET size = excluded.size, mtime = excluded.mtime
	`)
	if err != nil {
		return fmt.Errorf("catalog: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Name, e.Path, e.Size, e.MTime); err != nil {
			return fmt.Errorf("catalog: insert %q: %w", e.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	return nil
}

// Count returns the number of cataloged entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", err)
	}
	return n, nil
}

// FetchPage returns up to pageSize entries after the rowid encoded in
// token (empty token = from the start), using keyset pagination so deep
// pages stay cheap. The returned token is the last row's id.
func (s *Store) FetchPage(ctx context.Context, token string, pageSize int) (source.Page[Entry], error) {
	if pageSize <= 0 {
		return source.Page[Entry]{}, fmt.Errorf("catalog: page size must be positive, got %d", pageSize)
	}
	afterID := int64(0)
	if token != "" {
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id < 0 {
			return source.Page[Entry]{}, fmt.Errorf("catalog: invalid continuation token %q", token)
		}
		afterID = id
	}

	// Fetch one extra row to learn whether another page exists.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, path, size, mtime FROM entries
		WHERE id > ? ORDER BY id LIMIT ?
	`, afterID, pageSize+1)
	if err != nil {
		return source.Page[Entry]{}, fmt.Errorf("catalog: query page: %w", err)
	}
	defer rows.Close()

	var (
		page   source.Page[Entry]
		lastID int64
	)
	for rows.Next() {
		var (
			id int64
			e  Entry
		)
		if err := rows.Scan(&id, &e.Name, &e.Path, &e.Size, &e.MTime); err != nil {
			return source.Page[Entry]{}, fmt.Errorf("catalog: scan row: %w", err)
		}
		if len(page.Items) == pageSize {
			page.HasMore = true
			break
		}
		page.Items = append(page.Items, e)
		lastID = id
	}
	if err := rows.Err(); err != nil {
		return source.Page[Entry]{}, fmt.Errorf("catalog: iterate page: %w", err)
	}
	if page.HasMore {
		page.NextToken = strconv.FormatInt(lastID, 10)
	}
	return page, nil
}

// AsSource adapts the store to the picker's paged source contract,
// flattening catalog rows into display entries.
func (s *Store) AsSource() source.Source[source.Entry] {
	return catalogSource{store: s}
}

type catalogSource struct {
	store *Store
}

func (c catalogSource) Fetch(ctx context.Context, req source.Request) (source.Page[source.Entry], error) {
	page, err := c.store.FetchPage(ctx, req.Token, req.PageSize)
	if err != nil {
		return source.Page[source.Entry]{}, err
	}
	out := source.Page[source.Entry]{
		NextToken: page.NextToken,
		HasMore:   page.HasMore,
		Items:     make([]source.Entry, len(page.Items)),
	}
	for i, e := range page.Items {
		out.Items[i] = source.Entry{Name: e.Name, Detail: e.Path}
	}
	return out, nil
}
