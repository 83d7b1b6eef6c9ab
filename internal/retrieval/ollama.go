package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/KaramelBytes/malfinder/internal/utils"
)

// DefaultOllamaHost is used when no host is configured.
const DefaultOllamaHost = "http://127.0.0.1:11434"

// maxInputTokens clips long descriptions before they are sent to a remote model.
const maxInputTokens = 2000

// OllamaEmbedder calls Ollama's /api/embeddings endpoint.
type OllamaEmbedder struct {
	httpClient *http.Client
	host       string
	model      string
	retry      retryPolicy
}

// NewOllamaEmbedder returns an embedder for model served at host.
func NewOllamaEmbedder(host, model string, timeout time.Duration) *OllamaEmbedder {
	if host == "" {
		host = DefaultOllamaHost
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaEmbedder{httpClient: &http.Client{Timeout: timeout}, host: host, model: model, retry: defaultRetry}
}

// Embed requests embeddings for a batch of inputs.
// Ollama accepts a single prompt per call; inputs are sent one by one.
func (c *OllamaEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, 0, len(inputs))
	for _, s := range inputs {
		var vec []float32
		err := c.retry.do(ctx, func() error {
			var err error
			vec, err = c.embedOne(ctx, s)
			return err
		})
		if err != nil {
			return nil, err
		}
		out = append(out, vec)
	}
	return out, nil
}

func (c *OllamaEmbedder) embedOne(ctx context.Context, s string) ([]float32, error) {
	type reqBody struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
	}
	type respBody struct {
		Embedding []float64 `json:"embedding"`
	}
	b, _ := json.Marshal(reqBody{Model: c.model, Prompt: utils.TruncateToTokenLimit(s, maxInputTokens)})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isUnreachable(err) {
			return nil, &UnreachableError{Host: c.host, Err: err}
		}
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	var rb respBody
	if err := json.NewDecoder(resp.Body).Decode(&rb); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	vec := make([]float32, len(rb.Embedding))
	for i := range rb.Embedding {
		vec[i] = float32(rb.Embedding[i])
	}
	return vec, nil
}

func isUnreachable(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
