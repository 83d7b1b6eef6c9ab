package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/malfinder/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Search interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := buildRanker(cmd.Context())
		if err != nil {
			return err
		}
		m := tui.New(r, newComposer().ExportReport, tui.Options{
			TopN:        cfg.TopN,
			DisplayRows: cfg.DisplayRows,
			ReportPath:  cfg.ReportPath,
		})
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
