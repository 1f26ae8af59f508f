// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-trends/internal/feed"
	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/pkg/types"
)

const refTSV = "paper\tauthor\ttitle\tissue_date\tdoi\n" +
	"w100\tAda Lovelace\tMachine Learning in Macroeconomics\t2020-06-01\t10.3386/w100\n" +
	"w101\tAlan Turing\tThe Big Data Decade\t2021-03-15\t\n" +
	"w102\tGrace Hopper\tA Paper With No Date\t0000-00-00\t\n"

const absTSV = "paper\tabstract\n" +
	"w100\tWe study machine learning adoption.\n"

func newFeedServer(t *testing.T, ref, abs string, failAbs bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ref.tsv"):
			fmt.Fprint(w, ref)
		case strings.HasSuffix(r.URL.Path, "/abs.tsv"):
			if failAbs {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, abs)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(ts *httptest.Server) *feed.Client {
	return &feed.Client{HTTP: ts.Client(), BaseURL: ts.URL, UserAgent: "test/0.1"}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "papers.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunAppendsNewPapers(t *testing.T) {
	ts := newFeedServer(t, refTSV, absTSV, false)
	defer ts.Close()

	st := openTestStore(t)
	var out bytes.Buffer

	res, err := Run(context.Background(), newTestClient(ts), st, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 2, res.New)
	assert.Equal(t, 0, res.Existing)
	assert.Contains(t, out.String(), "appended 2 new papers")

	papers, err := st.All(context.Background())
	require.NoError(t, err)
	require.Len(t, papers, 2)

	// Left join: w101 had no abstract row and keeps an empty field.
	assert.Equal(t, "We study machine learning adoption.", papers[0].Abstract)
	assert.Equal(t, "", papers[1].Abstract)
}

func TestRunIsIdempotent(t *testing.T) {
	ts := newFeedServer(t, refTSV, absTSV, false)
	defer ts.Close()

	st := openTestStore(t)
	ctx := context.Background()

	first, err := Run(ctx, newTestClient(ts), st, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, 2, first.New)

	// Same remote snapshot: the set difference is empty.
	var out bytes.Buffer
	second, err := Run(ctx, newTestClient(ts), st, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, second.New)
	assert.Equal(t, 2, second.Existing)
	assert.Contains(t, out.String(), "up to date")

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunAppendsOnlyTheDifference(t *testing.T) {
	ts := newFeedServer(t, refTSV, absTSV, false)
	defer ts.Close()

	st := openTestStore(t)
	ctx := context.Background()

	_, err := Run(ctx, newTestClient(ts), st, &bytes.Buffer{})
	require.NoError(t, err)
	ts.Close()

	grown := refTSV + "w103\tKatherine Johnson\tTrajectories\t2022-09-01\t\n"
	ts2 := newFeedServer(t, grown, absTSV, false)
	defer ts2.Close()

	res, err := Run(ctx, newTestClient(ts2), st, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.New)
	assert.Equal(t, 2, res.Existing)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunSurvivesRepeatedFeedRows(t *testing.T) {
	// A repeated identifier in the feed must not abort the whole append.
	ref := "paper\tauthor\ttitle\tissue_date\tdoi\n" +
		"w100\tAda Lovelace\tMachine Learning in Macroeconomics\t2020-06-01\t\n" +
		"w100\tAda Lovelace\tMachine Learning in Macroeconomics\t2020-06-01\t\n" +
		"w101\tAlan Turing\tThe Big Data Decade\t2021-03-15\t\n"
	ts := newFeedServer(t, ref, absTSV, false)
	defer ts.Close()

	st := openTestStore(t)

	res, err := Run(context.Background(), newTestClient(ts), st, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Fetched)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 2, res.New)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunAbortsOnFetchFailure(t *testing.T) {
	// The second feed fails: the run aborts and the store is untouched.
	ts := newFeedServer(t, refTSV, absTSV, true)
	defer ts.Close()

	st := openTestStore(t)

	_, err := Run(context.Background(), newTestClient(ts), st, &bytes.Buffer{})
	require.Error(t, err)

	n, err := st.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
