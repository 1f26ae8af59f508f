// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared record and configuration structs used
// across the pipeline stages.
package types

import (
	"strings"
	"time"
)

// paperURLBase is the landing page prefix for papers without a usable DOI.
const paperURLBase = "https://www.nber.org/papers/"

// Paper is one working-paper record as stored in the Store. A Paper is
// validated once at the ingestion boundary; IssueDate is always a valid
// calendar date for stored records.
type Paper struct {
	// ID is the unique paper identifier (e.g. "w31234"). The Store is
	// append-only and never reuses or overwrites an ID.
	ID string `json:"id" yaml:"id"`

	// Author is the author list as free text, exactly as the feed gives it.
	Author string `json:"author" yaml:"author"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// IssueDate is the publication date.
	IssueDate time.Time `json:"issue_date" yaml:"issue_date"`

	// DOI is an optional DOI or link; may be empty.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Abstract may be empty when the abstracts feed has no row for the paper.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// Year returns the calendar year of the issue date.
func (p Paper) Year() int { return p.IssueDate.Year() }

// Link returns the outbound URL for the paper: the stored DOI when it is
// already a URL, the landing page derived from the ID otherwise.
func (p Paper) Link() string {
	if strings.HasPrefix(p.DOI, "http://") || strings.HasPrefix(p.DOI, "https://") {
		return p.DOI
	}
	return paperURLBase + p.ID
}

// SearchText returns the searchable text for the paper: title and abstract
// whitespace-joined and lowercased. An empty abstract yields just the title.
func (p Paper) SearchText() string {
	if p.Abstract == "" {
		return strings.ToLower(p.Title)
	}
	return strings.ToLower(p.Title + " " + p.Abstract)
}

// SearchDoc is one row of the derived snapshot: the per-paper search
// document. The snapshot is fully regenerated from the Store on every
// pipeline run, never updated in place.
type SearchDoc struct {
	ID     string `json:"id" yaml:"id"`
	Year   int    `json:"year" yaml:"year"`
	Author string `json:"author" yaml:"author"`
	Title  string `json:"title" yaml:"title"`
	Link   string `json:"link" yaml:"link"`

	// Text is the lowercased title+abstract concatenation.
	Text string `json:"text" yaml:"text"`
}

// TrendPoint is one (year, value) point of a trend series. Value is a raw
// match count, or a percentage when the series is normalized.
type TrendPoint struct {
	Year  int     `json:"year" yaml:"year"`
	Value float64 `json:"value" yaml:"value"`
}

// TrendSeries is the per-year trend of one search term over the display
// range. Points are ordered by year with no gaps; years without matches
// carry zero values.
type TrendSeries struct {
	Term   string       `json:"term" yaml:"term"`
	Points []TrendPoint `json:"points" yaml:"points"`
}
