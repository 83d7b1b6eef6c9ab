package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/malfinder/internal/analysis"
	"github.com/KaramelBytes/malfinder/internal/catalog"
	"github.com/KaramelBytes/malfinder/internal/utils"
)

var (
	searchN          int
	searchCSVPath    string
	searchReportPath string
	searchJSON       bool
	searchNoStats    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <description...>",
	Short: "Rank the catalog against a description and summarize the matches",
	Example: `  malfinder search "a quiet journey through a haunted countryside"
  malfinder search -n 200 --csv results.csv --report analysis.docx space pirates
  malfinder search --json -n 20 "high school sports rivalry"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		r, err := buildRanker(cmd.Context())
		if err != nil {
			return err
		}
		res, scores, err := r.Rank(cmd.Context(), query, topN(searchN))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if searchJSON {
			b, err := utils.PrettyJSON(jsonResults(query, res, scores))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		} else {
			printSummary(out, res)
			printResults(out, res, scores, cfg.DisplayRows)
			if !searchNoStats {
				printStats(out, analysis.BasicStats(res))
			}
		}

		if searchCSVPath != "" {
			err := utils.SafeWrite(searchCSVPath, func(w io.Writer) error {
				return catalog.WriteCSV(w, res.Project(catalog.DisplayColumns...), true)
			})
			if err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote results to %s\n", searchCSVPath)
		}
		if searchReportPath != "" {
			if err := newComposer().ExportReport(res, query, searchReportPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Report generated: %s\n", searchReportPath)
		}
		return nil
	},
}

func printSummary(w io.Writer, res *catalog.Table) {
	fmt.Fprintln(w, "Analysis Summary")
	for _, s := range analysis.Summarize(res) {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintln(w)
}

func printResults(w io.Writer, res *catalog.Table, scores []float64, rows int) {
	shown := res.Head(rows)
	if shown.Len() == 0 {
		fmt.Fprintln(w, "(no results)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Title", "Type", "Episodes", "Score", "Similarity"})
	cell := func(i int, col string) string {
		v, ok := shown.Cell(i, col)
		if !ok || v.Null {
			return "-"
		}
		return v.Text
	}
	for i := 0; i < shown.Len(); i++ {
		t.AppendRow(table.Row{
			i + 1,
			utils.Ellipsize(cell(i, catalog.ColTitle), 48),
			cell(i, catalog.ColType),
			cell(i, catalog.ColEpisodes),
			cell(i, catalog.ColScore),
			fmt.Sprintf("%.3f", scores[i]),
		})
	}
	if res.Len() > shown.Len() {
		t.AppendFooter(table.Row{"", fmt.Sprintf("... %d more", res.Len()-shown.Len())})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Fprintln(w)
}

func printStats(w io.Writer, st analysis.Stats) {
	if len(st.Numeric) > 0 {
		fmt.Fprintln(w, "Numeric Features")
		t := table.NewWriter()
		t.SetOutputMirror(w)
		header := table.Row{"Statistic"}
		cols := make([][]float64, len(st.Numeric))
		for j, ns := range st.Numeric {
			header = append(header, ns.Column)
			cols[j] = ns.Desc.Rounded().Values()
		}
		t.AppendHeader(header)
		for i, name := range analysis.StatNames {
			row := table.Row{name}
			for _, vals := range cols {
				row = append(row, strconv.FormatFloat(vals[i], 'f', 2, 64))
			}
			t.AppendRow(row)
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		fmt.Fprintln(w)
	}
	for _, cs := range st.Counts {
		fmt.Fprintf(w, "%s Distribution\n", cs.Column)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{cs.Column, "Count"})
		for _, c := range cs.Counts {
			t.AppendRow(table.Row{c.Value, c.Count})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		fmt.Fprintln(w)
	}
}

type jsonResult struct {
	Rank       int     `json:"rank"`
	Title      string  `json:"title"`
	Type       string  `json:"type,omitempty"`
	Score      string  `json:"score,omitempty"`
	URL        string  `json:"url,omitempty"`
	Similarity float64 `json:"similarity"`
}

type jsonOutput struct {
	Query   string       `json:"query"`
	Summary []string     `json:"summary"`
	Results []jsonResult `json:"results"`
}

func jsonResults(query string, res *catalog.Table, scores []float64) jsonOutput {
	out := jsonOutput{Query: query, Summary: analysis.Summarize(res), Results: []jsonResult{}}
	text := func(i int, col string) string {
		v, _ := res.Cell(i, col)
		return v.Text
	}
	for i := 0; i < res.Len(); i++ {
		out.Results = append(out.Results, jsonResult{
			Rank:       i + 1,
			Title:      text(i, catalog.ColTitle),
			Type:       text(i, catalog.ColType),
			Score:      text(i, catalog.ColScore),
			URL:        text(i, catalog.ColURL),
			Similarity: scores[i],
		})
	}
	return out
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&searchN, "top", "n", 0, "number of matches to analyze (default from config top_n)")
	searchCmd.Flags().StringVar(&searchCSVPath, "csv", "", "write the ranked results to this CSV file")
	searchCmd.Flags().StringVar(&searchReportPath, "report", "", "export the DOCX analysis report to this path")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON instead of tables")
	searchCmd.Flags().BoolVar(&searchNoStats, "no-stats", false, "skip the statistics tables")
}
