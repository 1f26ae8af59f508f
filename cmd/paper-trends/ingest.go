// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-trends/internal/feed"
	"github.com/pdiddy/paper-trends/internal/ingest"
	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch the remote feeds and append unseen papers to the store",
	Long: `Ingest downloads the core metadata and abstracts feeds, joins them by
paper identifier, drops rows with unparseable dates, and appends only the
papers not already present in the store. Rerunning against an unchanged
feed appends nothing.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("store", "", "store database path (default data/papers.db)")
	ingestCmd.Flags().String("base-url", "", "feed base URL")
	ingestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	ingestCmd.Flags().Int("max-retries", 0, "retries on rate-limited feed requests (default 5)")

	rootCmd.AddCommand(ingestCmd)
}

func ingestConfig(cmd *cobra.Command) types.IngestConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if maxRetries == 0 {
		maxRetries = viper.GetInt("ingest.max_retries")
	}
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	return types.IngestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		FeedBaseURL: stringSetting(cmd, "base-url", "ingest.feed_base_url", defaultFeedBaseURL),
		MaxRetries:  maxRetries,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd)

	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	client := &feed.Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		BaseURL:    cfg.FeedBaseURL,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}

	_, err = ingest.Run(cmd.Context(), client, st, os.Stdout)
	return err
}
