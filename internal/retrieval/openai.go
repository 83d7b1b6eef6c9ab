package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/KaramelBytes/malfinder/internal/utils"
)

// openAIBatch is the number of inputs sent per embeddings request.
const openAIBatch = 256

// OpenAIEmbedder calls an OpenAI-compatible embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder returns an embedder for model. baseURL may point at any
// OpenAI-compatible server; empty keeps the OpenAI default.
func NewOpenAIEmbedder(apiKey, baseURL, model string) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{client: openai.NewClientWithConfig(cfg), model: model}
}

// Embed generates vectors for texts, batching requests.
func (s *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.New("no texts provided for embedding")
	}
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += openAIBatch {
		end := min(start+openAIBatch, len(texts))
		batch := make([]string, 0, end-start)
		tokens := 0
		for _, t := range texts[start:end] {
			// the API rejects empty strings
			if t == "" {
				t = " "
			}
			t = utils.TruncateToTokenLimit(t, maxInputTokens)
			tokens += utils.EstimateTokens(t)
			batch = append(batch, t)
		}
		slog.Debug("embedding batch", "model", s.model, "inputs", len(batch), "est_tokens", tokens)
		resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(s.model),
		})
		if err != nil {
			return nil, fmt.Errorf("create embeddings failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(batch))
		}
		vecs := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(vecs) {
				return nil, fmt.Errorf("embedding index %d out of range", d.Index)
			}
			vecs[d.Index] = d.Embedding
		}
		out = append(out, vecs...)
	}
	return out, nil
}
