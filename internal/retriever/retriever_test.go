package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

type fakeEmbedder struct {
	vec []float64
	err error
}

func (e *fakeEmbedder) Embed(context.Context, string) ([]float64, error) { return e.vec, e.err }
func (e *fakeEmbedder) Dimension() int                                   { return len(e.vec) }
func (e *fakeEmbedder) Model() string                                    { return "fake" }

type fakeStore struct {
	gotVec []float64
	gotK   int
	hits   []domain.ScoredChunk
	err    error
}

func (s *fakeStore) Init(int) error                                { return nil }
func (s *fakeStore) Upsert([]domain.Chunk, [][]float64) error      { return nil }
func (s *fakeStore) Clear() error                                  { return nil }
func (s *fakeStore) Search(vec []float64, k int) ([]domain.ScoredChunk, error) {
	s.gotVec = vec
	s.gotK = k
	return s.hits, s.err
}

func TestTopKEmbedsQueryAndSearches(t *testing.T) {
	store := &fakeStore{hits: []domain.ScoredChunk{
		{Chunk: domain.Chunk{Key: "a", URL: "u"}, Score: 0.9},
		{Chunk: domain.Chunk{Key: "b", URL: "u"}, Score: 0.4},
	}}
	r := New(store, &fakeEmbedder{vec: []float64{1, 0, 0}})

	res, err := r.TopK(context.Background(), "question", 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0}, store.gotVec)
	assert.Equal(t, 2, store.gotK)
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].Chunk.Key)
}

func TestTopKWrapsEmbedError(t *testing.T) {
	r := New(&fakeStore{}, &fakeEmbedder{err: assert.AnError})
	_, err := r.TopK(context.Background(), "q", 3)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestTopKWrapsSearchError(t *testing.T) {
	r := New(&fakeStore{err: assert.AnError}, &fakeEmbedder{vec: []float64{1}})
	_, err := r.TopK(context.Background(), "q", 3)
	assert.ErrorIs(t, err, assert.AnError)
}
