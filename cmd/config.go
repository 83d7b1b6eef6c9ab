package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/malfinder/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set MALFinder configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "catalog_path: %s\n", cfg.CatalogPath)
		fmt.Fprintf(out, "catalog_limit: %d\n", cfg.CatalogLimit)
		fmt.Fprintf(out, "top_n: %d\n", cfg.TopN)
		fmt.Fprintf(out, "display_rows: %d\n", cfg.DisplayRows)
		fmt.Fprintf(out, "report_path: %s\n", cfg.ReportPath)
		if cfg.ChartTempDir != "" {
			fmt.Fprintf(out, "chart_temp_dir: %s\n", cfg.ChartTempDir)
		}
		fmt.Fprintf(out, "embedding_provider: %s\n", cfg.EmbeddingProvider)
		if cfg.EmbeddingModel != "" {
			fmt.Fprintf(out, "embedding_model: %s\n", cfg.EmbeddingModel)
		}
		fmt.Fprintf(out, "ollama_host: %s\n", cfg.OllamaHost)
		fmt.Fprintf(out, "ollama_timeout_sec: %d\n", cfg.OllamaTimeoutSec)
		fmt.Fprintf(out, "openai_api_key: %s\n", mask(cfg.OpenAIAPIKey))
		if cfg.OpenAIBaseURL != "" {
			fmt.Fprintf(out, "openai_base_url: %s\n", cfg.OpenAIBaseURL)
		}
		fmt.Fprintf(out, "serve_addr: %s\n", cfg.ServeAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "Set a config value and save to disk.\n\nKeys: " + fmt.Sprint(cfgpkg.Keys()),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
