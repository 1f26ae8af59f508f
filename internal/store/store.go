// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the append-only table of paper records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-trends/pkg/types"
)

// dateLayout is how issue dates are stored. ISO dates compare correctly as
// text, which Recent relies on.
const dateLayout = "2006-01-02"

// Store manages the papers SQLite database. It is append-only: records are
// added once and never overwritten or removed.
type Store struct {
	db *sql.DB
}

// Open opens or creates the Store at cfg.Path. A missing file is not an
// error; a new database with an empty papers table is created.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		paper TEXT PRIMARY KEY,
		author TEXT,
		title TEXT,
		issue_date TEXT NOT NULL,
		doi TEXT,
		abstract TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// ExistingIDs returns the set of paper identifiers already in the Store.
func (s *Store) ExistingIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT paper FROM papers`)
	if err != nil {
		return nil, fmt.Errorf("querying existing ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// Append writes papers to the Store in a single transaction: either every
// record is committed or none is. Appending a paper whose identifier is
// already present violates the primary key and fails the whole batch;
// callers are expected to diff against ExistingIDs first.
func (s *Store) Append(ctx context.Context, papers []types.Paper) (int, error) {
	if len(papers) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (paper, author, title, issue_date, doi, abstract)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Author, p.Title, p.IssueDate.Format(dateLayout), p.DOI, p.Abstract,
		); err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing append: %w", err)
	}
	return len(papers), nil
}

// All returns every record in the Store ordered by identifier.
func (s *Store) All(ctx context.Context) ([]types.Paper, error) {
	return s.query(ctx,
		`SELECT paper, author, title, issue_date, doi, abstract FROM papers ORDER BY paper`)
}

// Count returns the number of records in the Store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// Recent returns records whose issue date falls within the trailing window
// ending at now, most recent first. A record dated exactly now-window is
// included.
func (s *Store) Recent(ctx context.Context, now time.Time, window time.Duration) ([]types.Paper, error) {
	cutoff := now.Add(-window).Format(dateLayout)
	return s.query(ctx,
		`SELECT paper, author, title, issue_date, doi, abstract FROM papers
		 WHERE issue_date >= ? ORDER BY issue_date DESC, paper`, cutoff)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var (
			p        types.Paper
			date     string
			doi      sql.NullString
			abstract sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Author, &p.Title, &date, &doi, &abstract); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		p.IssueDate, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("paper %s has invalid stored date %q: %w", p.ID, date, err)
		}
		p.DOI = doi.String
		p.Abstract = abstract.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
