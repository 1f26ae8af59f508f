// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest runs the ingestion step: fetch the latest feed snapshot,
// diff it against the Store by paper identifier, and append only the
// records not already present.
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/paper-trends/internal/feed"
	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/pkg/types"
)

// Result holds counts from one ingestion run.
type Result struct {
	// Fetched is the number of valid records in the remote snapshot.
	Fetched int

	// Dropped counts remote rows excluded for unparseable dates, a
	// malformed field layout, or a repeated paper identifier.
	Dropped int

	// New is the number of records appended to the Store.
	New int

	// Existing is the number of fetched records already present.
	Existing int
}

// Run fetches the feeds and appends unseen records to the Store, reporting
// progress to w. A fetch or parse failure aborts before anything is
// written; rerunning against an unchanged remote snapshot appends nothing.
func Run(ctx context.Context, client *feed.Client, st *store.Store, w io.Writer) (Result, error) {
	papers, dropped, err := client.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	r := Result{Fetched: len(papers), Dropped: dropped}
	fmt.Fprintf(w, "fetched %d records", r.Fetched)
	if dropped > 0 {
		fmt.Fprintf(w, " (dropped %d invalid rows)", dropped)
	}
	fmt.Fprintln(w)

	existing, err := st.ExistingIDs(ctx)
	if err != nil {
		return r, err
	}

	var fresh []types.Paper
	for _, p := range papers {
		if _, ok := existing[p.ID]; ok {
			r.Existing++
			continue
		}
		fresh = append(fresh, p)
	}

	if len(fresh) == 0 {
		fmt.Fprintln(w, "store is up to date, nothing to append")
		return r, nil
	}

	n, err := st.Append(ctx, fresh)
	if err != nil {
		return r, fmt.Errorf("appending new papers: %w", err)
	}
	r.New = n
	fmt.Fprintf(w, "appended %d new papers (%d already present)\n", r.New, r.Existing)
	return r, nil
}
