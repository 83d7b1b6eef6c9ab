package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/malfinder/internal/catalog"
)

// Ranker orders catalog rows by semantic similarity to a query. It is
// read-only after NewRanker and safe for concurrent use when its embedder is.
type Ranker struct {
	emb     Embedder
	catalog *catalog.Table
	index   *Index
}

// Corpus returns the text embedded for every row: the description, or the
// title when the description is missing.
func Corpus(t *catalog.Table) []string {
	out := make([]string, t.Len())
	for i := range out {
		if v, ok := t.Cell(i, catalog.ColDescription); ok && !v.Null && strings.TrimSpace(v.Text) != "" {
			out[i] = v.Text
			continue
		}
		if v, ok := t.Cell(i, catalog.ColTitle); ok && !v.Null {
			out[i] = v.Text
		}
	}
	return out
}

// NewRanker embeds every row of t. Embedders implementing Preparer are
// prepared on the same corpus first.
func NewRanker(ctx context.Context, emb Embedder, t *catalog.Table) (*Ranker, error) {
	corpus := Corpus(t)
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	start := time.Now()
	if p, ok := emb.(Preparer); ok {
		if err := p.Prepare(corpus); err != nil {
			return nil, fmt.Errorf("prepare embedder: %w", err)
		}
	}
	vecs, err := emb.Embed(ctx, corpus)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	if len(vecs) != len(corpus) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d rows", len(vecs), len(corpus))
	}
	idx := &Index{Vectors: vecs}
	if len(vecs[0]) > 0 {
		idx.Dim = len(vecs[0])
	}
	slog.Debug("ranker built", "rows", len(corpus), "dim", idx.Dim, "took", time.Since(start))
	return &Ranker{emb: emb, catalog: t, index: idx}, nil
}

// Catalog returns the full table the ranker was built on.
func (r *Ranker) Catalog() *catalog.Table { return r.catalog }

// Rank returns the top n rows by descending similarity to query, with their
// scores. n <= 0 or n beyond the catalog size returns every row.
func (r *Ranker) Rank(ctx context.Context, query string, n int) (*catalog.Table, []float64, error) {
	vecs, err := r.emb.Embed(ctx, []string{query})
	if err != nil {
		return nil, nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, nil, fmt.Errorf("embedder returned %d vectors for the query", len(vecs))
	}
	hits := r.index.Search(vecs[0], n, math.Inf(-1))
	rows := make([]int, len(hits))
	scores := make([]float64, len(hits))
	for i, h := range hits {
		rows[i] = h.Row
		scores[i] = h.Score
	}
	return r.catalog.Select(rows), scores, nil
}
