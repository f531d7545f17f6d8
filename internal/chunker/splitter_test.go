package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(100, 100)
	assert.Error(t, err)

	_, err = New(100, -1)
	assert.Error(t, err)

	s, err := New(100, 10)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Size())
	assert.Equal(t, 10, s.Overlap())
}

func TestSplitEmpty(t *testing.T) {
	s, err := New(100, 10)
	require.NoError(t, err)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\n  "))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s, err := New(100, 10)
	require.NoError(t, err)
	chunks := s.Split("a short paragraph")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph", chunks[0])
}

func TestSplitRespectsSizeLimit(t *testing.T) {
	s, err := New(120, 20)
	require.NoError(t, err)
	text := strings.Repeat("one two three four five. ", 40)
	for i, c := range s.Split(text) {
		assert.LessOrEqual(t, len(c), 120, "chunk %d exceeds size", i)
	}
}

func TestSplitPrefersParagraphBoundary(t *testing.T) {
	s, err := New(60, 5)
	require.NoError(t, err)
	text := strings.Repeat("x", 40) + "\n\n" + strings.Repeat("y", 40)
	chunks := s.Split(text)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"), "first chunk should end at the paragraph break")
}

func TestSplitHardCutWithoutSeparators(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)
	text := strings.Repeat("z", 130)
	chunks := s.Split(text)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50)
	}
	assert.Equal(t, text, reconstruct(chunks, 10))
}

// Dropping the leading overlap of every chunk after the first must
// reproduce the original text.
func TestSplitReconstruction(t *testing.T) {
	s, err := New(200, 30)
	require.NoError(t, err)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 60)
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, reconstruct(chunks, 30))
}

func TestSplit2600CharsYieldsThreeChunks(t *testing.T) {
	s, err := New(1000, 100)
	require.NoError(t, err)
	text := strings.Repeat("All work and no play makes Jack a dull boy. ", 60)[:2600]
	chunks := s.Split(text)
	assert.Len(t, chunks, 3)
	assert.Equal(t, text, reconstruct(chunks, 100))
}

func reconstruct(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		b.WriteString(c[overlap:])
	}
	return b.String()
}
