package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func chunk(key, url string) domain.Chunk {
	return domain.Chunk{Key: key, URL: url}
}

func TestSearchDescendingOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Chunk{chunk("a", "u1"), chunk("b", "u2"), chunk("c", "u3")},
		[][]float64{{1, 0}, {0, 1}, {0.7, 0.7}},
	))

	res, err := s.Search([]float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "a", res[0].Chunk.Key)
	assert.Equal(t, "c", res[1].Chunk.Key)
	assert.Equal(t, "b", res[2].Chunk.Key)
	assert.Greater(t, res[0].Score, res[1].Score)
	// Content is never stored next to vectors.
	assert.Empty(t, res[0].Chunk.Content)
}

func TestSearchTopKLimit(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Chunk{chunk("a", ""), chunk("b", ""), chunk("c", "")},
		[][]float64{{1, 0}, {0, 1}, {0.5, 0.5}},
	))

	res, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestUpsertDimensionMismatch(t *testing.T) {
	s := New()
	require.NoError(t, s.Init(3))
	err := s.Upsert([]domain.Chunk{chunk("a", "")}, [][]float64{{1, 0}})
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Chunk{chunk("k1", "https://example.com/p1")},
		[][]float64{{0.6, 0.8}},
	))
	require.NoError(t, s.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	res, err := loaded.Search([]float64{0.6, 0.8}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "k1", res[0].Chunk.Key)
	assert.Equal(t, "https://example.com/p1", res[0].Chunk.URL)
}

func TestLoadMissingCorpus(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrMissingCorpus)
}
