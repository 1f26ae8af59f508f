// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/internal/trends"
	"github.com/pdiddy/paper-trends/pkg/types"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "papers.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func readDocs(t *testing.T, path string) []types.SearchDoc {
	t.Helper()
	r, err := trends.Open(types.SnapshotConfig{Path: path})
	require.NoError(t, err)
	defer r.Close()
	docs, err := r.Docs(context.Background())
	require.NoError(t, err)
	return docs
}

func TestBuildDerivesSearchDocs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Append(ctx, []types.Paper{
		{
			ID:        "w100",
			Author:    "Ada Lovelace",
			Title:     "Machine Learning in Macroeconomics",
			IssueDate: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC),
			DOI:       "10.3386/w100",
			Abstract:  "We Study ADOPTION.",
		},
		{
			ID:        "w101",
			Author:    "Alan Turing",
			Title:     "The Big Data Decade",
			IssueDate: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
			DOI:       "https://doi.org/10.3386/w101",
		},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "search.db")
	n, err := Build(ctx, st, types.SnapshotConfig{Path: path}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs := readDocs(t, path)
	require.Len(t, docs, 2)

	assert.Equal(t, "w100", docs[0].ID)
	assert.Equal(t, 2020, docs[0].Year)
	assert.Equal(t, "Ada Lovelace", docs[0].Author)
	assert.Equal(t, "machine learning in macroeconomics we study adoption.", docs[0].Text)
	assert.Equal(t, "https://www.nber.org/papers/w100", docs[0].Link)

	// Empty abstract yields just the lowercased title; URL-shaped DOIs are
	// used as the link directly.
	assert.Equal(t, "the big data decade", docs[1].Text)
	assert.Equal(t, "https://doi.org/10.3386/w101", docs[1].Link)
}

func TestBuildEmptyStore(t *testing.T) {
	st := openTestStore(t)
	path := filepath.Join(t.TempDir(), "search.db")

	n, err := Build(context.Background(), st, types.SnapshotConfig{Path: path}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Empty(t, readDocs(t, path))
}

func TestBuildReplacesPreviousSnapshot(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "search.db")

	_, err := st.Append(ctx, []types.Paper{{
		ID: "w100", Title: "First", IssueDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	_, err = Build(ctx, st, types.SnapshotConfig{Path: path}, io.Discard)
	require.NoError(t, err)
	require.Len(t, readDocs(t, path), 1)

	_, err = st.Append(ctx, []types.Paper{{
		ID: "w101", Title: "Second", IssueDate: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)

	// Always a full rebuild from the store.
	n, err := Build(ctx, st, types.SnapshotConfig{Path: path}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, readDocs(t, path), 2)

	// The temp file never outlives the rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
