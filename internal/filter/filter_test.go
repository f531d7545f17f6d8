package filter

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docqa/internal/domain"
)

// tableClassifier answers from per-chunk verdict tables, keyed by the
// chunk content. It tolerates concurrent calls.
type tableClassifier struct {
	mu       sync.Mutex
	relevant map[string]bool
	codeLike map[string]bool
	calls    int
	err      error
}

func (c *tableClassifier) Classify(_ context.Context, text, criterion string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	if strings.Contains(criterion, "code snippet") {
		return c.codeLike[text], nil
	}
	return c.relevant[text], nil
}

func result(contents ...string) domain.RetrievalResult {
	res := make(domain.RetrievalResult, len(contents))
	for i, c := range contents {
		res[i] = domain.ScoredChunk{
			Chunk: domain.Chunk{Key: c, URL: "https://docs/" + c, Content: c},
			Score: 1.0 - float64(i)*0.1,
		}
	}
	return res
}

func TestPartitionDropsIrrelevant(t *testing.T) {
	cls := &tableClassifier{
		relevant: map[string]bool{"a": true, "b": false, "c": true},
		codeLike: map[string]bool{"a": false, "c": true},
	}
	f := New(cls, zap.NewNop())

	p, err := f.Partition(context.Background(), "how does it work?", result("a", "b", "c"))
	require.NoError(t, err)

	require.Len(t, p.Relevant, 2)
	assert.Equal(t, "a", p.Relevant[0].Content)
	assert.Equal(t, "c", p.Relevant[1].Content)
	require.Len(t, p.Explanatory, 1)
	assert.Equal(t, "a", p.Explanatory[0].Content)
	require.Len(t, p.CodeLike, 1)
	assert.Equal(t, "c", p.CodeLike[0].Content)
}

func TestPartitionKeepsRetrievalOrder(t *testing.T) {
	contents := []string{"e", "d", "c", "b", "a"}
	relevant := make(map[string]bool)
	for _, c := range contents {
		relevant[c] = true
	}
	cls := &tableClassifier{relevant: relevant, codeLike: map[string]bool{}}
	f := New(cls, zap.NewNop())

	p, err := f.Partition(context.Background(), "q", result(contents...))
	require.NoError(t, err)
	got := make([]string, len(p.Relevant))
	for i, c := range p.Relevant {
		got[i] = c.Content
	}
	assert.Equal(t, contents, got)
}

func TestPartitionIssuesTwoVerdictsPerChunk(t *testing.T) {
	cls := &tableClassifier{relevant: map[string]bool{}, codeLike: map[string]bool{}}
	f := New(cls, zap.NewNop())

	_, err := f.Partition(context.Background(), "q", result("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, 6, cls.calls)
}

func TestPartitionAbortsOnProviderError(t *testing.T) {
	cls := &tableClassifier{err: assert.AnError}
	f := New(cls, zap.NewNop())

	_, err := f.Partition(context.Background(), "q", result("a", "b"))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPartitionEmptyInput(t *testing.T) {
	cls := &tableClassifier{}
	f := New(cls, zap.NewNop())

	p, err := f.Partition(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Empty(t, p.Relevant)
	assert.Zero(t, cls.calls)
}
