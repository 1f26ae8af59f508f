// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trends

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-trends/pkg/types"
)

// Reader reads search documents from a snapshot file. The snapshot is
// immutable between pipeline runs, so any number of concurrent readers is
// safe; the Reader never writes.
type Reader struct {
	db *sql.DB
}

// Open opens the snapshot at cfg.Path read-only. A missing snapshot is an
// error: the preparation step has to run first.
func Open(cfg types.SnapshotConfig) (*Reader, error) {
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, fmt.Errorf("snapshot %s not found, run the prepare step first: %w", cfg.Path, err)
	}
	db, err := sql.Open("sqlite3", cfg.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	return &Reader{db: db}, nil
}

// Close releases the snapshot connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Docs returns every search document in the snapshot ordered by year then
// identifier.
func (r *Reader) Docs(ctx context.Context) ([]types.SearchDoc, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT paper, year, author, title, link, text FROM docs ORDER BY year, paper`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	defer rows.Close()

	var docs []types.SearchDoc
	for rows.Next() {
		var d types.SearchDoc
		if err := rows.Scan(&d.ID, &d.Year, &d.Author, &d.Title, &d.Link, &d.Text); err != nil {
			return nil, fmt.Errorf("scanning doc: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
