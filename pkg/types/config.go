// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-trends/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// IngestConfig holds settings for the ingestion stage.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// FeedBaseURL is the base location of the metadata feeds. The two
	// fixed-layout resources ref.tsv and abs.tsv are fetched relative to it.
	FeedBaseURL string `json:"feed_base_url" yaml:"feed_base_url"`

	// MaxRetries bounds retries on rate-limited feed requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds the location of the persisted paper Store.
type StoreConfig struct {
	// Path is the SQLite database file holding the papers table.
	Path string `json:"path" yaml:"path"`
}

// SnapshotConfig holds the location of the derived search snapshot.
type SnapshotConfig struct {
	// Path is the SQLite file fully rebuilt by the preparation stage.
	Path string `json:"path" yaml:"path"`
}

// QueryConfig holds defaults for the query/aggregation stage.
type QueryConfig struct {
	// Window is the trailing moving-average window in years, 0-10.
	// Zero disables smoothing.
	Window int `json:"window" yaml:"window"`

	// Normalize reports counts as a percentage of all papers published in
	// the same year instead of raw counts.
	Normalize bool `json:"normalize" yaml:"normalize"`
}

// ServeConfig holds settings for the dashboard server.
type ServeConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Ingest   IngestConfig   `json:"ingest" yaml:"ingest"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Query    QueryConfig    `json:"query" yaml:"query"`
	Serve    ServeConfig    `json:"serve" yaml:"serve"`
}
