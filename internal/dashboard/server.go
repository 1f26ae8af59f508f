// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dashboard serves the interactive trends dashboard. It reads the
// snapshot and the Store and never writes either.
package dashboard

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/internal/trends"
	"github.com/pdiddy/paper-trends/pkg/types"
)

// suggestedTerms are offered as checkboxes on the dashboard.
var suggestedTerms = []string{
	"Difference-in-differences",
	"Regression discontinuity",
	"Randomised controlled trial",
	"Machine learning",
	"Big data",
	"Artificial intelligence",
	"Dynamic stochastic general equilibrium",
}

const (
	defaultWindow = 3
	recentWindow  = 7 * 24 * time.Hour
	maxTableRows  = 200
)

// Server renders the trends dashboard.
type Server struct {
	store    *store.Store
	snapshot types.SnapshotConfig

	// now is swapped in tests to pin the recent-papers cutoff.
	now func() time.Time
}

// New creates a dashboard server over an open Store and a snapshot
// location. The snapshot is reopened per request so a pipeline run that
// replaces the file is picked up without a restart.
func New(st *store.Store, snapshot types.SnapshotConfig) *Server {
	return &Server{store: st, snapshot: snapshot, now: time.Now}
}

// Router returns the HTTP handler for the dashboard.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Get("/recent", s.handleRecent)
	return r
}

type suggestedTerm struct {
	Term    string
	Checked bool
}

type indexData struct {
	Title     string
	Suggested []suggestedTerm
	Custom    string
	Window    int
	Normalize bool
	Chart     *chart
	Papers    []types.SearchDoc
	Truncated bool
	Updated   string
	Error     string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	terms := append([]string(nil), q["term"]...)
	custom := q.Get("custom")
	for _, line := range strings.Split(custom, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			terms = append(terms, t)
		}
	}

	// First visit has no parameters at all; form defaults apply. A bad or
	// out-of-range window degrades to the default rather than failing.
	window := defaultWindow
	if v := q.Get("window"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= trends.MaxWindow {
			window = n
		}
	}
	normalize := true
	if len(q) > 0 {
		normalize = q.Get("normalize") == "on"
	}

	data := indexData{
		Title:     "Trends",
		Custom:    custom,
		Window:    window,
		Normalize: normalize,
		Updated:   s.snapshotUpdated(),
	}
	for _, t := range suggestedTerms {
		data.Suggested = append(data.Suggested, suggestedTerm{
			Term:    t,
			Checked: containsFold(q["term"], t),
		})
	}

	if len(terms) > 0 {
		res, err := s.aggregate(r, terms, window, normalize)
		if err != nil {
			data.Error = err.Error()
		} else {
			data.Chart = buildChart(res, normalize)
			data.Papers = res.Papers
			if len(data.Papers) > maxTableRows {
				data.Papers = data.Papers[:maxTableRows]
				data.Truncated = true
			}
		}
	}

	s.render(w, "index", data)
}

func (s *Server) aggregate(r *http.Request, terms []string, window int, normalize bool) (trends.Result, error) {
	reader, err := trends.Open(s.snapshot)
	if err != nil {
		return trends.Result{}, err
	}
	defer reader.Close()

	docs, err := reader.Docs(r.Context())
	if err != nil {
		return trends.Result{}, err
	}

	return trends.Aggregate(docs, trends.Options{
		Terms:     terms,
		Window:    window,
		Normalize: normalize,
	})
}

type recentData struct {
	Title  string
	Papers []types.Paper
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	papers, err := s.store.Recent(r.Context(), s.now(), recentWindow)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, "recent", recentData{Title: "Recent papers", Papers: papers})
}

// snapshotUpdated returns the snapshot mtime for the freshness line, or
// empty when the snapshot does not exist yet.
func (s *Server) snapshotUpdated() string {
	info, err := os.Stat(s.snapshot.Path)
	if err != nil {
		return ""
	}
	return info.ModTime().Format("2006-01-02 15:04:05")
}

// render executes the template into a buffer first so a template error
// yields a 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("rendering %s: %v", name, err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
