// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot rebuilds the derived search-document dataset from the
// Store. The snapshot is always a full rebuild, never an incremental
// update: regeneration is cheap and avoids drift against the Store.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/pkg/types"
)

// Build reads every record from the Store, derives its search document,
// and writes the snapshot SQLite file at cfg.Path. The snapshot is built
// in a temporary file and renamed over the target, so readers never
// observe a partial snapshot and a failed build leaves the previous one
// intact. An empty Store produces an empty, valid snapshot. Returns the
// number of documents written.
func Build(ctx context.Context, st *store.Store, cfg types.SnapshotConfig, w io.Writer) (int, error) {
	papers, err := st.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading store: %w", err)
	}

	path := cfg.Path
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	os.Remove(tmp)

	n, err := write(ctx, tmp, papers)
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing snapshot: %w", err)
	}

	fmt.Fprintf(w, "snapshot rebuilt with %d search documents\n", n)
	return n, nil
}

func write(ctx context.Context, path string, papers []types.Paper) (int, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, fmt.Errorf("creating snapshot: %w", err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `CREATE TABLE docs (
		paper TEXT PRIMARY KEY,
		year INTEGER NOT NULL,
		author TEXT,
		title TEXT,
		link TEXT,
		text TEXT
	)`)
	if err != nil {
		return 0, fmt.Errorf("creating snapshot schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX idx_docs_year ON docs(year)`); err != nil {
		return 0, fmt.Errorf("creating snapshot index: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO docs (paper, year, author, title, link, text) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, p := range papers {
		// Dates were validated at the ingestion boundary; a zero year
		// still gets excluded rather than poisoning the year range.
		if p.Year() <= 0 {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Year(), p.Author, p.Title, p.Link(), p.SearchText(),
		); err != nil {
			return 0, fmt.Errorf("inserting doc %s: %w", p.ID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing snapshot: %w", err)
	}
	return n, nil
}
