package retrieval

import (
	"fmt"
	"strings"
	"time"
)

// Embedding providers.
const (
	ProviderTFIDF  = "tfidf"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Options selects and configures an embedder.
type Options struct {
	Provider      string
	Model         string
	OllamaHost    string
	OllamaTimeout time.Duration
	OpenAIKey     string
	OpenAIBaseURL string
}

// NewEmbedder builds the embedder named by opts.Provider; empty means TF-IDF.
func NewEmbedder(opts Options) (Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderTFIDF:
		return NewTFIDF(), nil
	case ProviderOllama:
		return NewOllamaEmbedder(opts.OllamaHost, opts.Model, opts.OllamaTimeout), nil
	case ProviderOpenAI:
		if opts.OpenAIKey == "" && opts.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai provider needs openai_api_key or openai_base_url")
		}
		return NewOpenAIEmbedder(opts.OpenAIKey, opts.OpenAIBaseURL, opts.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", opts.Provider)
	}
}
