// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-trends/internal/snapshot"
	"github.com/pdiddy/paper-trends/internal/store"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Rebuild the search snapshot from the store",
	Long: `Prepare reads every record in the store, derives its search document
(identifier, year, and lowercased title plus abstract), and rebuilds the
snapshot file from scratch. The previous snapshot stays in place until the
new one is complete.`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().String("store", "", "store database path (default data/papers.db)")
	prepareCmd.Flags().String("snapshot", "", "snapshot file path (default data/search.db)")

	rootCmd.AddCommand(prepareCmd)
}

func runPrepare(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = snapshot.Build(cmd.Context(), st, snapshotConfig(cmd), os.Stdout)
	return err
}
