// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-trends CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-trends/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout      = 60 * time.Second
	defaultUserAgent    = "paper-trends/0.1"
	defaultFeedBaseURL  = "http://data.nber.org/nber_paper_chapter_metadata/tsv/"
	defaultStorePath    = "data/papers.db"
	defaultSnapshotPath = "data/search.db"
	defaultMaxRetries   = 5
)

// rootCmd is the base command for the paper-trends CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-trends",
	Short: "Track term-frequency trends in working-paper metadata",
	Long: `paper-trends maintains a local store of working-paper metadata and lets you
plot how often search terms appear in titles and abstracts over time.

Each pipeline stage is a subcommand: ingest downloads the remote feeds and
appends unseen papers to the store, prepare rebuilds the search snapshot,
run executes both in sequence, query aggregates term frequencies from the
command line, and serve starts the dashboard.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-trends.yaml or ~/.config/paper-trends/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-trends")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-trends"))
		}
	}

	viper.SetEnvPrefix("PAPER_TRENDS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string setting: explicit flag first, then the
// config file / environment via viper, then the built-in default.
func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	return types.StoreConfig{
		Path: stringSetting(cmd, "store", "store.path", defaultStorePath),
	}
}

func snapshotConfig(cmd *cobra.Command) types.SnapshotConfig {
	return types.SnapshotConfig{
		Path: stringSetting(cmd, "snapshot", "snapshot.path", defaultSnapshotPath),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
