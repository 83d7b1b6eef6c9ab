package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/malfinder/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
	// Catalog flags (override config if set)
	flagCatalogPath  string
	flagCatalogLimit int
	flagProvider     string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "malfinder",
	Short: "MALFinder: find anime by description and analyze the matches",
	Long: `MALFinder ranks an anime catalog against a free-text description and
summarizes the matches: statistics, charts and a DOCX analysis report. It runs
as a CLI, a terminal UI or a small web app.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.malfinder/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagCatalogPath, "catalog", "", "catalog CSV (.csv, .csv.gz, .csv.lz4 or .zip; overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagCatalogLimit, "limit", 0, "load at most this many catalog rows (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "embedder", "", "embedding provider: tfidf, ollama or openai (overrides config)")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("catalog") && flagCatalogPath != "" {
		cfg.CatalogPath = flagCatalogPath
	}
	if f.Changed("limit") && flagCatalogLimit > 0 {
		cfg.CatalogLimit = flagCatalogLimit
	}
	if f.Changed("embedder") && flagProvider != "" {
		if err := cfg.Set("embedding_provider", flagProvider); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
	}
}
