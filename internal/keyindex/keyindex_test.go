package keyindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestRoundTrip(t *testing.T) {
	x := New()
	require.NoError(t, x.Write("k1", "first chunk"))
	require.NoError(t, x.Write("k2", "second chunk"))

	got, err := x.Read("k1")
	require.NoError(t, err)
	assert.Equal(t, "first chunk", got)
	assert.Equal(t, 2, x.Len())
}

func TestReadMissingKey(t *testing.T) {
	x := New()
	_, err := x.Read("absent")
	assert.ErrorIs(t, err, domain.ErrMissingKey)
}

func TestWriteEmptyKey(t *testing.T) {
	x := New()
	assert.Error(t, x.Write("", "content"))
}

func TestBulkReadPreservesOrder(t *testing.T) {
	x := New()
	require.NoError(t, x.Write("a", "A"))
	require.NoError(t, x.Write("b", "B"))
	require.NoError(t, x.Write("c", "C"))

	got, err := x.BulkRead([]string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, got)
}

func TestBulkReadFailsWholeCall(t *testing.T) {
	x := New()
	require.NoError(t, x.Write("a", "A"))

	got, err := x.BulkRead([]string{"a", "missing"})
	assert.ErrorIs(t, err, domain.ErrMissingKey)
	assert.Nil(t, got)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	x := New()
	require.NoError(t, x.Write("k", "persisted content"))
	require.NoError(t, x.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	got, err := loaded.Read("k")
	require.NoError(t, err)
	assert.Equal(t, "persisted content", got)
}

func TestLoadMissingCorpus(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrMissingCorpus)
}

// Numerically colliding keys in different corpora must stay isolated:
// each corpus directory carries its own index.
func TestCorpusScopedKeys(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()

	a := New()
	require.NoError(t, a.Write("1", "from corpus A"))
	require.NoError(t, a.Save(dirA))

	b := New()
	require.NoError(t, b.Write("1", "from corpus B"))
	require.NoError(t, b.Save(dirB))

	la, err := Load(dirA)
	require.NoError(t, err)
	lb, err := Load(dirB)
	require.NoError(t, err)

	ca, _ := la.Read("1")
	cb, _ := lb.Read("1")
	assert.Equal(t, "from corpus A", ca)
	assert.Equal(t, "from corpus B", cb)
}
