package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/KaramelBytes/malfinder/internal/catalog"
	cfgpkg "github.com/KaramelBytes/malfinder/internal/config"
	"github.com/KaramelBytes/malfinder/internal/report"
	"github.com/KaramelBytes/malfinder/internal/retrieval"
)

// ensureConfig loads the configuration when OnInitialize could not.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// buildRanker loads the configured catalog and embeds it.
func buildRanker(ctx context.Context) (*retrieval.Ranker, error) {
	c, err := ensureConfig()
	if err != nil {
		return nil, err
	}
	t, err := catalog.Load(c.CatalogPath, catalog.LoadOptions{Limit: c.CatalogLimit})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	emb, err := retrieval.NewEmbedder(retrieval.Options{
		Provider:      c.EmbeddingProvider,
		Model:         c.EmbeddingModel,
		OllamaHost:    c.OllamaHost,
		OllamaTimeout: time.Duration(c.OllamaTimeoutSec) * time.Second,
		OpenAIKey:     c.OpenAIAPIKey,
		OpenAIBaseURL: c.OpenAIBaseURL,
	})
	if err != nil {
		return nil, err
	}
	return retrieval.NewRanker(ctx, emb, t)
}

func newComposer() *report.Composer {
	if cfg == nil {
		return &report.Composer{}
	}
	return &report.Composer{TempDir: cfg.ChartTempDir}
}

// topN resolves the -n flag against the configured default.
func topN(flagN int) int {
	if flagN > 0 {
		return flagN
	}
	if cfg != nil {
		return cfg.TopN
	}
	return 0
}
