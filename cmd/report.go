package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/malfinder/internal/docx"
)

var (
	reportN      int
	reportOutput string
	reportPrint  bool
)

var reportCmd = &cobra.Command{
	Use:   "report <description...>",
	Short: "Export a DOCX analysis report for the matches of a description",
	Example: `  malfinder report "cozy slice of life in the countryside"
  malfinder report -n 100 -o mecha.docx giant robots and political intrigue
  malfinder report --print -o out.docx time travel`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		r, err := buildRanker(cmd.Context())
		if err != nil {
			return err
		}
		res, _, err := r.Rank(cmd.Context(), query, topN(reportN))
		if err != nil {
			return err
		}
		path := reportOutput
		if path == "" {
			path = cfg.ReportPath
		}
		if err := newComposer().ExportReport(res, query, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Report generated: %s\n", path)

		if reportPrint {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			text, err := docx.ExtractText(b)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVarP(&reportN, "top", "n", 0, "number of matches to analyze (default from config top_n)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output path (default from config report_path)")
	reportCmd.Flags().BoolVar(&reportPrint, "print", false, "print the report text after writing it")
}
