// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed fetches and parses the remote metadata feeds.
//
// The source publishes two fixed-layout, headered, tab-separated resources:
// ref.tsv with the core metadata and abs.tsv with abstracts. Fields are not
// quote-escaped, so parsing splits on tabs only and gives quote characters
// no special meaning.
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/paper-trends/internal/httputil"
	"github.com/pdiddy/paper-trends/pkg/types"
)

const (
	refResource = "ref.tsv"
	absResource = "abs.tsv"
)

// Expected header columns, in order. The header is validated before any row
// is parsed; a changed layout aborts the run instead of silently mis-mapping
// positional fields.
var (
	refColumns = []string{"paper", "author", "title", "issue_date", "doi"}
	absColumns = []string{"paper", "abstract"}
)

// maxLineBytes bounds a single feed line. Abstracts run long but stay well
// under this.
const maxLineBytes = 4 * 1024 * 1024

// Client fetches the two feed resources from a base URL.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	UserAgent  string
	MaxRetries int
}

// Fetch downloads both resources, left-joins abstracts onto the core
// metadata by paper identifier (every metadata row is kept; a missing
// abstract yields an empty field), and validates issue dates. Rows whose
// date fails to parse, malformed rows with the wrong field count, and
// repeats of an identifier already kept (first valid occurrence wins) are
// dropped and counted. Any network or parse failure returns an error with
// nothing partially consumed by the caller.
func (c *Client) Fetch(ctx context.Context) (papers []types.Paper, dropped int, err error) {
	refRows, err := c.fetchRows(ctx, refResource, refColumns)
	if err != nil {
		return nil, 0, err
	}
	absRows, err := c.fetchRows(ctx, absResource, absColumns)
	if err != nil {
		return nil, 0, err
	}

	abstracts := make(map[string]string, len(absRows))
	for _, row := range absRows {
		if len(row) != len(absColumns) {
			continue
		}
		abstracts[strings.TrimSpace(row[0])] = row[1]
	}

	seen := make(map[string]bool, len(refRows))
	for _, row := range refRows {
		if len(row) != len(refColumns) {
			dropped++
			continue
		}
		id := strings.TrimSpace(row[0])
		date, err := ParseIssueDate(row[3])
		if err != nil {
			dropped++
			continue
		}
		// The feed occasionally repeats an identifier. Keeping both copies
		// would poison the whole store append, so later repeats are dropped.
		if seen[id] {
			dropped++
			continue
		}
		seen[id] = true
		papers = append(papers, types.Paper{
			ID:        id,
			Author:    row[1],
			Title:     row[2],
			IssueDate: date,
			DOI:       strings.TrimSpace(row[4]),
			Abstract:  abstracts[id],
		})
	}
	return papers, dropped, nil
}

// fetchRows retrieves one resource and returns its data rows after header
// validation.
func (c *Client) fetchRows(ctx context.Context, resource string, want []string) ([][]string, error) {
	url := strings.TrimSuffix(c.BaseURL, "/") + "/" + resource

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", resource, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", resource, resp.StatusCode)
	}

	return parseTSV(resp.Body, resource, want)
}

// parseTSV reads a headered tab-separated resource. The first line must
// match the expected column names (compared case-insensitively); otherwise
// the feed layout has changed and the parse fails closed.
func parseTSV(r io.Reader, resource string, want []string) ([][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading %s header: %w", resource, err)
		}
		return nil, fmt.Errorf("%s: empty feed", resource)
	}
	header := splitRow(sc.Text())
	if err := checkHeader(resource, header, want); err != nil {
		return nil, err
	}

	var rows [][]string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", resource, err)
	}
	return rows, nil
}

func splitRow(line string) []string {
	return strings.Split(strings.TrimRight(line, "\r"), "\t")
}

func checkHeader(resource string, got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s: feed layout changed: %d columns %v, want %d %v",
			resource, len(got), got, len(want), want)
	}
	for i := range want {
		if !strings.EqualFold(strings.TrimSpace(got[i]), want[i]) {
			return fmt.Errorf("%s: feed layout changed: column %d is %q, want %q",
				resource, i, got[i], want[i])
		}
	}
	return nil
}

// issueDateLayouts lists the date formats the source has been seen to use.
var issueDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseIssueDate parses a feed issue date. Placeholder values such as
// "0000-00-00" fail, which drops the row at the ingestion boundary.
func ParseIssueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range issueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable issue date %q", s)
}
