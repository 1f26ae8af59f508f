// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-trends/internal/feed"
	"github.com/pdiddy/paper-trends/internal/ingest"
	"github.com/pdiddy/paper-trends/internal/snapshot"
	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: ingest then prepare",
	Long: `Run executes one full pipeline pass: ingest the remote feeds into the
store, then rebuild the search snapshot. This is the entry point for
scheduled runs; the scheduler is responsible for not overlapping two runs,
since the store assumes a single writer.`,
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("store", "", "store database path (default data/papers.db)")
	runCmd.Flags().String("snapshot", "", "snapshot file path (default data/search.db)")
	runCmd.Flags().String("base-url", "", "feed base URL")
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	runCmd.Flags().Int("max-retries", 0, "retries on rate-limited feed requests (default 5)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := types.PipelineConfig{
		Ingest:   ingestConfig(cmd),
		Store:    storeConfig(cmd),
		Snapshot: snapshotConfig(cmd),
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	client := &feed.Client{
		HTTP:       &http.Client{Timeout: cfg.Ingest.Timeout},
		BaseURL:    cfg.Ingest.FeedBaseURL,
		UserAgent:  cfg.Ingest.UserAgent,
		MaxRetries: cfg.Ingest.MaxRetries,
	}

	if _, err := ingest.Run(cmd.Context(), client, st, os.Stdout); err != nil {
		return err
	}

	_, err = snapshot.Build(cmd.Context(), st, cfg.Snapshot, os.Stdout)
	return err
}
