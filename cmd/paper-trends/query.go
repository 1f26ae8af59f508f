// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-trends/internal/trends"
	"github.com/pdiddy/paper-trends/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query TERM...",
	Short: "Aggregate per-year term frequencies from the snapshot",
	Long: `Query scans the search snapshot and reports, for each term, how many
papers mention it per publication year. Matching is case-insensitive
literal substring matching over the title and abstract. Terms containing
spaces are matched as phrases; quote them in the shell.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("snapshot", "", "snapshot file path (default data/search.db)")
	queryCmd.Flags().Int("window", 0, "trailing moving-average window in years, 0-10 (0 disables)")
	queryCmd.Flags().Bool("normalize", false, "report values as a percentage of papers per year")
	queryCmd.Flags().Int("from", 0, "restrict to years >= from")
	queryCmd.Flags().Int("to", 0, "restrict to years <= to")
	queryCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	queryCmd.Flags().Bool("papers", false, "also list the matching papers")
	queryCmd.Flags().Int("limit", 20, "maximum papers to list with --papers (0 = all)")

	rootCmd.AddCommand(queryCmd)
}

// queryConfig resolves the query defaults: explicit flags win over the
// config file / environment.
func queryConfig(cmd *cobra.Command) types.QueryConfig {
	cfg := types.QueryConfig{
		Window:    viper.GetInt("query.window"),
		Normalize: viper.GetBool("query.normalize"),
	}
	if cmd.Flags().Changed("window") {
		cfg.Window, _ = cmd.Flags().GetInt("window")
	}
	if cmd.Flags().Changed("normalize") {
		cfg.Normalize, _ = cmd.Flags().GetBool("normalize")
	}
	return cfg
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := queryConfig(cmd)
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	format, _ := cmd.Flags().GetString("format")
	listPapers, _ := cmd.Flags().GetBool("papers")
	limit, _ := cmd.Flags().GetInt("limit")

	reader, err := trends.Open(snapshotConfig(cmd))
	if err != nil {
		return err
	}
	defer reader.Close()

	docs, err := reader.Docs(cmd.Context())
	if err != nil {
		return err
	}

	res, err := trends.Aggregate(docs, trends.Options{
		Terms:     args,
		Window:    cfg.Window,
		Normalize: cfg.Normalize,
		FromYear:  from,
		ToYear:    to,
	})
	if err != nil {
		return err
	}

	if !listPapers {
		res.Papers = nil
	} else if limit > 0 && len(res.Papers) > limit {
		res.Papers = res.Papers[:limit]
	}

	switch format {
	case "text":
		printSeries(os.Stdout, res, cfg.Normalize)
		if listPapers {
			printPapers(os.Stdout, res)
		}
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown format %q: use text, json, or yaml", format)
	}
}

// printSeries writes a year-by-term table. Column widths use display width
// rather than byte length so non-ASCII terms stay aligned.
func printSeries(w io.Writer, res trends.Result, normalize bool) {
	if len(res.Series) == 0 || res.MaxYear == 0 {
		fmt.Fprintln(w, "no data")
		return
	}

	widths := make([]int, len(res.Series))
	for i, s := range res.Series {
		widths[i] = runewidth.StringWidth(s.Term)
		for _, p := range s.Points {
			if l := len(formatValue(p.Value, normalize)); l > widths[i] {
				widths[i] = l
			}
		}
	}

	fmt.Fprint(w, "year")
	for i, s := range res.Series {
		fmt.Fprint(w, "  ", runewidth.FillLeft(s.Term, widths[i]))
	}
	fmt.Fprintln(w)

	for row := range res.Series[0].Points {
		fmt.Fprintf(w, "%d", res.Series[0].Points[row].Year)
		for i, s := range res.Series {
			fmt.Fprint(w, "  ", runewidth.FillLeft(formatValue(s.Points[row].Value, normalize), widths[i]))
		}
		fmt.Fprintln(w)
	}
}

const titleColumn = 60

func printPapers(w io.Writer, res trends.Result) {
	if len(res.Papers) == 0 {
		return
	}
	fmt.Fprintf(w, "\nmatching papers (%d):\n", len(res.Papers))
	for _, p := range res.Papers {
		title := runewidth.FillRight(runewidth.Truncate(p.Title, titleColumn, "..."), titleColumn)
		fmt.Fprintf(w, "%d  %s  %s\n      %s\n", p.Year, title, p.Author, p.Link)
	}
}

func formatValue(v float64, normalize bool) string {
	if normalize {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.0f", v)
}
