package retrieval

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPrepared is returned when a TF-IDF embedder is used before Prepare.
	ErrNotPrepared = errors.New("tfidf embedder not prepared")
	// ErrEmptyCorpus is returned when there is nothing to index.
	ErrEmptyCorpus = errors.New("empty corpus")
)

// UnreachableError indicates the embedding endpoint is not reachable (e.g., local Ollama down).
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	if e.Host != "" {
		return fmt.Sprintf("endpoint unreachable at %s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("endpoint unreachable: %v", e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer from an embedding endpoint.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embeddings status %s: %s", e.Status, e.Body)
}
