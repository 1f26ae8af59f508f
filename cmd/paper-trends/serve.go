// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-trends/internal/dashboard"
	"github.com/pdiddy/paper-trends/internal/store"
	"github.com/pdiddy/paper-trends/pkg/types"
)

const defaultAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the trends dashboard",
	Long: `Serve starts the dashboard: an interactive chart of term frequencies
over time, a list of papers added in the last 7 days, and a table of the
papers behind the plotted terms. The dashboard only reads the store and
the snapshot; run the pipeline to refresh the data.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("store", "", "store database path (default data/papers.db)")
	serveCmd.Flags().String("snapshot", "", "snapshot file path (default data/search.db)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := types.ServeConfig{
		Addr: stringSetting(cmd, "addr", "serve.addr", defaultAddr),
	}

	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	srv := dashboard.New(st, snapshotConfig(cmd))

	fmt.Fprintf(os.Stderr, "dashboard listening on %s\n", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, srv.Router())
}
