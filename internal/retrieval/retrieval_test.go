package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/malfinder/internal/catalog"
)

type fakeEmbedder struct {
	dim   int
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.dim <= 0 {
		f.dim = 3
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		v := make([]float32, f.dim)
		v[i%f.dim] = 1.0
		out[i] = v
	}
	return out, nil
}

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func animeTable() *catalog.Table {
	t := catalog.NewTable(catalog.ColTitle, catalog.ColDescription, catalog.ColScore)
	t.AppendMap(map[string]string{"Title": "Haikyuu!!", "Description": "A short boy joins the high school volleyball team and trains hard.", "Score": "8.44"})
	t.AppendMap(map[string]string{"Title": "Cowboy Bebop", "Description": "A bounty hunter crew drifts through space chasing criminals.", "Score": "8.75"})
	t.AppendMap(map[string]string{"Title": "Space Brothers", "Score": "8.56"})
	return t
}

func TestCosineSim(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSim([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSim([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, CosineSim([]float32{1}, []float32{1, 2}))
	assert.Zero(t, CosineSim([]float32{0, 0}, []float32{1, 2}))
}

func TestIndexSearchStableOnTies(t *testing.T) {
	idx := &Index{Vectors: [][]float32{{1, 0}, {0, 1}, {1, 0}, {1, 0}}}
	hits := idx.Search([]float32{1, 0}, 0, 0.5)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{hits[0].Row, hits[1].Row, hits[2].Row})
	assert.Len(t, idx.Search([]float32{1, 0}, 2, 0.5), 2)
}

func TestTFIDFRequiresPrepare(t *testing.T) {
	e := NewTFIDF()
	_, err := e.Embed(context.Background(), []string{"space"})
	assert.ErrorIs(t, err, ErrNotPrepared)
	assert.ErrorIs(t, e.Prepare(nil), ErrEmptyCorpus)
	assert.ErrorIs(t, e.Prepare([]string{"the and of"}), ErrEmptyCorpus)
}

func TestTFIDFTransliterates(t *testing.T) {
	e := NewTFIDF()
	require.NoError(t, e.Prepare([]string{"Pokémon journey", "Café romance"}))
	vecs, err := e.Embed(context.Background(), []string{"pokemon", "CAFE", "nothing known"})
	require.NoError(t, err)
	assert.Greater(t, CosineSim(vecs[0], vecs[0]), 0.99)
	assert.Greater(t, CosineSim(vecs[1], vecs[1]), 0.99)
	assert.Zero(t, CosineSim(vecs[2], vecs[0]))
	assert.Equal(t, e.Dimension(), len(vecs[0]))
}

func TestRankerWithTFIDF(t *testing.T) {
	ctx := context.Background()
	r, err := NewRanker(ctx, NewTFIDF(), animeTable())
	require.NoError(t, err)

	res, scores, err := r.Rank(ctx, "space bounty hunter", 2)
	require.NoError(t, err)
	require.Equal(t, 2, res.Len())
	top, _ := res.Cell(0, catalog.ColTitle)
	assert.Equal(t, "Cowboy Bebop", top.Text)
	assert.GreaterOrEqual(t, scores[0], scores[1])

	all, scores, err := r.Rank(ctx, "volleyball", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1], scores[i])
	}
	more, _, err := r.Rank(ctx, "volleyball", 50)
	require.NoError(t, err)
	assert.Equal(t, 3, more.Len())
}

func TestRankerUsesTitleFallbackAndMock(t *testing.T) {
	ctx := context.Background()
	m := &mockEmbedder{}
	corpus := []string{
		"A short boy joins the high school volleyball team and trains hard.",
		"A bounty hunter crew drifts through space chasing criminals.",
		"Space Brothers",
	}
	m.On("Embed", mock.Anything, corpus).Return([][]float32{{0, 1}, {1, 0}, {1, 0}}, nil).Once()
	m.On("Embed", mock.Anything, []string{"stars"}).Return([][]float32{{1, 0}}, nil).Once()

	r, err := NewRanker(ctx, m, animeTable())
	require.NoError(t, err)
	res, scores, err := r.Rank(ctx, "stars", 0)
	require.NoError(t, err)

	var titles []string
	for i := 0; i < res.Len(); i++ {
		v, _ := res.Cell(i, catalog.ColTitle)
		titles = append(titles, v.Text)
	}
	assert.Equal(t, []string{"Cowboy Bebop", "Space Brothers", "Haikyuu!!"}, titles)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
	m.AssertExpectations(t)
}

func TestRankerErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewRanker(ctx, &fakeEmbedder{}, catalog.NewTable(catalog.ColTitle))
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	m := &mockEmbedder{}
	boom := errors.New("boom")
	m.On("Embed", mock.Anything, mock.Anything).Return(nil, boom)
	_, err = NewRanker(ctx, m, animeTable())
	assert.ErrorIs(t, err, boom)
}

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Prompt == "fail" {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{float64(len(body.Prompt)), 1}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text", time.Second)
	e.retry = retryPolicy{attempts: 2, baseDelay: time.Millisecond}
	vecs, err := e.Embed(context.Background(), []string{"ab", "abcd"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{2, 1}, {4, 1}}, vecs)

	_, err = e.Embed(context.Background(), []string{"fail"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Body, "model not loaded")
	assert.Equal(t, http.StatusInternalServerError, se.Code)
}

func TestOllamaRetriesTransientStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch {
		case calls == 1:
			http.Error(w, "busy", http.StatusTooManyRequests)
		case r.Header.Get("Content-Type") != "application/json":
			http.Error(w, "bad content type", http.StatusBadRequest)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{0.5}})
		}
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "", time.Second)
	e.retry = retryPolicy{attempts: 3, baseDelay: time.Millisecond, maxDelay: time.Millisecond}
	vecs, err := e.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5}}, vecs)
	assert.Equal(t, 2, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	p := retryPolicy{attempts: 5, baseDelay: time.Millisecond}
	err := p.do(context.Background(), func() error {
		calls++
		return &StatusError{Code: http.StatusNotFound, Status: "404 Not Found"}
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = p.do(context.Background(), func() error {
		calls++
		return &StatusError{Code: http.StatusBadGateway, Status: "502 Bad Gateway"}
	})
	require.Error(t, err)
	assert.Equal(t, 5, calls)
}

func TestOllamaUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := srv.URL
	srv.Close()

	_, err := NewOllamaEmbedder(host, "", time.Second).Embed(context.Background(), []string{"x"})
	var ue *UnreachableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, host, ue.Host)
}

func TestOpenAIEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-embed", req.Model)
		data := make([]map[string]any, 0, len(req.Input))
		// answer in reverse order; the client must reorder by index
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, map[string]any{"object": "embedding", "index": i, "embedding": []float32{float32(i), 1}})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 3, "total_tokens": 3},
		})
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder("sk-test", srv.URL+"/v1", "test-embed")
	vecs, err := e.Embed(context.Background(), []string{"first", "", "third"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 1}, {2, 1}}, vecs)
}

func TestNewEmbedder(t *testing.T) {
	e, err := NewEmbedder(Options{})
	require.NoError(t, err)
	assert.IsType(t, &TFIDF{}, e)

	e, err = NewEmbedder(Options{Provider: "Ollama"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaEmbedder{}, e)

	_, err = NewEmbedder(Options{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewEmbedder(Options{Provider: "word2vec"})
	assert.Error(t, err)
}
