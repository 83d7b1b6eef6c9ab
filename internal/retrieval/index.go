package retrieval

import (
	"context"
	"math"
	"sort"
)

// Embedder turns texts into vectors, one per input, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Preparer is implemented by embedders that must see the corpus first.
type Preparer interface {
	Prepare(corpus []string) error
}

// Hit is a scored row of an Index.
type Hit struct {
	Row   int
	Score float64
}

// Index holds one vector per catalog row, in row order.
type Index struct {
	Vectors [][]float32
	Dim     int
}

// Len returns the number of indexed rows.
func (idx *Index) Len() int { return len(idx.Vectors) }

// Cosine similarity between two vectors. Returns 0 if dimensions mismatch.
func CosineSim(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var na, nb float64
	for i := range a {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Search returns the topK rows at or above minScore by descending score.
// Equal scores keep row order. topK <= 0 returns every qualifying row.
func (idx *Index) Search(query []float32, topK int, minScore float64) []Hit {
	hits := make([]Hit, 0, len(idx.Vectors))
	for i, v := range idx.Vectors {
		s := CosineSim(query, v)
		if s >= minScore {
			hits = append(hits, Hit{Row: i, Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
