// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trends computes per-year term-frequency series over the search
// snapshot. Matching is a case-insensitive literal substring test; there is
// no tokenization, stemming, or boolean syntax.
package trends

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/paper-trends/pkg/types"
)

// MaxWindow is the largest accepted moving-average window.
const MaxWindow = 10

// Options holds one query against the snapshot.
type Options struct {
	// Terms are the search terms, matched literally and case-insensitively.
	Terms []string

	// Window is the trailing moving-average window in years, 0-10.
	// Zero disables smoothing.
	Window int

	// Normalize reports each year's value as a percentage of all papers
	// published that year instead of a raw match count.
	Normalize bool

	// FromYear and ToYear optionally restrict the dataset range.
	// Zero means unbounded.
	FromYear int
	ToYear   int
}

// Result is the outcome of one aggregation.
type Result struct {
	// Series holds one entry per requested term, in request order, each
	// covering exactly [MinYear, MaxYear]. A term with no matches yields an
	// all-zero series, not an absent one.
	Series []types.TrendSeries `json:"series" yaml:"series"`

	// Papers lists the documents matching any requested term, newest year
	// first, for table display.
	Papers []types.SearchDoc `json:"papers" yaml:"papers"`

	// MinYear and MaxYear bound the display range: the smallest interval
	// containing a nonzero match count across all terms when any exists,
	// the dataset's full range otherwise. Both are zero when the snapshot
	// is empty.
	MinYear int `json:"min_year" yaml:"min_year"`
	MaxYear int `json:"max_year" yaml:"max_year"`
}

// Aggregate scans docs and builds the trend series for opts. Terms are
// trimmed and deduplicated; blank terms are ignored. An empty term set or
// an empty snapshot yields an empty result rather than an error.
func Aggregate(docs []types.SearchDoc, opts Options) (Result, error) {
	if opts.Window < 0 || opts.Window > MaxWindow {
		return Result{}, fmt.Errorf("smoothing window %d out of range 0-%d", opts.Window, MaxWindow)
	}

	terms := cleanTerms(opts.Terms)
	if len(terms) == 0 {
		return Result{}, nil
	}

	if opts.FromYear != 0 || opts.ToYear != 0 {
		docs = filterYears(docs, opts.FromYear, opts.ToYear)
	}
	if len(docs) == 0 {
		r := Result{}
		for _, term := range terms {
			r.Series = append(r.Series, types.TrendSeries{Term: term})
		}
		return r, nil
	}

	minYear, maxYear := yearRange(docs)
	totals := make(map[int]int, maxYear-minYear+1)
	for _, d := range docs {
		totals[d.Year]++
	}

	var (
		series    []types.TrendSeries
		rawCounts []map[int]int
		matched   = make(map[string]bool, len(docs))
		papers    []types.SearchDoc
	)
	for _, term := range terms {
		needle := strings.ToLower(term)
		counts := make(map[int]int)
		for i, d := range docs {
			if !strings.Contains(d.Text, needle) {
				continue
			}
			counts[d.Year]++
			if !matched[d.ID] {
				matched[d.ID] = true
				papers = append(papers, docs[i])
			}
		}

		points := make([]types.TrendPoint, 0, maxYear-minYear+1)
		for year := minYear; year <= maxYear; year++ {
			v := float64(counts[year])
			if opts.Normalize {
				if total := totals[year]; total > 0 {
					v = v / float64(total) * 100
				} else {
					v = 0
				}
			}
			points = append(points, types.TrendPoint{Year: year, Value: v})
		}

		rawCounts = append(rawCounts, counts)
		series = append(series, types.TrendSeries{
			Term:   term,
			Points: movingAverage(points, opts.Window),
		})
	}

	lo, hi := displayRange(rawCounts, minYear, maxYear)
	for i := range series {
		series[i].Points = series[i].Points[lo-minYear : hi-minYear+1]
	}

	sort.Slice(papers, func(i, j int) bool {
		if papers[i].Year != papers[j].Year {
			return papers[i].Year > papers[j].Year
		}
		return papers[i].ID < papers[j].ID
	})

	return Result{Series: series, Papers: papers, MinYear: lo, MaxYear: hi}, nil
}

// cleanTerms trims whitespace, drops blanks, and deduplicates while
// preserving request order.
func cleanTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func filterYears(docs []types.SearchDoc, from, to int) []types.SearchDoc {
	var out []types.SearchDoc
	for _, d := range docs {
		if from != 0 && d.Year < from {
			continue
		}
		if to != 0 && d.Year > to {
			continue
		}
		out = append(out, d)
	}
	return out
}

func yearRange(docs []types.SearchDoc) (minYear, maxYear int) {
	minYear, maxYear = docs[0].Year, docs[0].Year
	for _, d := range docs[1:] {
		if d.Year < minYear {
			minYear = d.Year
		}
		if d.Year > maxYear {
			maxYear = d.Year
		}
	}
	return minYear, maxYear
}

// movingAverage replaces each point with the trailing mean of that year and
// the preceding window-1 years. The window shrinks at the left edge: years
// before the dataset's minimum are unavailable and excluded from the
// denominator, never treated as zero.
func movingAverage(points []types.TrendPoint, window int) []types.TrendPoint {
	if window <= 1 {
		return points
	}
	out := make([]types.TrendPoint, len(points))
	for i := range points {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += points[j].Value
		}
		out[i] = types.TrendPoint{
			Year:  points[i].Year,
			Value: sum / float64(i-start+1),
		}
	}
	return out
}

// displayRange returns the smallest [min, max] year interval containing at
// least one nonzero raw match count across all terms, falling back to the
// dataset's full range when no term matched. The range is taken from the
// counts before smoothing: a trailing average smears a single match into
// the following window-1 years, and those tail years carry no matches.
func displayRange(counts []map[int]int, minYear, maxYear int) (lo, hi int) {
	lo, hi = 0, 0
	for _, c := range counts {
		for year, n := range c {
			if n == 0 {
				continue
			}
			if lo == 0 || year < lo {
				lo = year
			}
			if year > hi {
				hi = year
			}
		}
	}
	if lo == 0 {
		return minYear, maxYear
	}
	return lo, hi
}
