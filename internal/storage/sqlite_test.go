package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestTypedPutGet(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.PutString("name", "Signal_0"))
	require.NoError(t, store.PutInt("count", 42))
	require.NoError(t, store.PutUint64("value", 5393))
	require.NoError(t, store.PutBool("fav", true))

	assert.Equal(t, "Signal_0", store.GetString("name", ""))
	assert.Equal(t, 42, store.GetInt("count", 0))
	assert.Equal(t, uint64(5393), store.GetUint64("value", 0))
	assert.True(t, store.GetBool("fav", false))
}

func TestFallbacks(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Equal(t, "none", store.GetString("missing", "none"))
	assert.Equal(t, 7, store.GetInt("missing", 7))
	assert.Equal(t, uint64(9), store.GetUint64("missing", 9))
	assert.True(t, store.GetBool("missing", true))

	// Unparsable values also fall back.
	require.NoError(t, store.PutString("count", "not a number"))
	assert.Equal(t, 7, store.GetInt("count", 7))
}

func TestOverwrite(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.PutInt("count", 1))
	require.NoError(t, store.PutInt("count", 2))
	assert.Equal(t, 2, store.GetInt("count", 0))
}

func TestApplyBatchWithPrefixDelete(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.PutString("sig0_name", "old"))
	require.NoError(t, store.PutString("sig1_name", "stale"))
	require.NoError(t, store.PutBool("buzzerEnabled", true))

	// A snapshot rewrite: the prefix delete clears stale entries without
	// touching unrelated keys, all in one transaction.
	batch := &Batch{}
	batch.DeletePrefix("sig")
	batch.PutInt("signalCount", 1)
	batch.PutString("sig0_name", "new")
	require.NoError(t, store.Apply(batch))

	assert.Equal(t, "new", store.GetString("sig0_name", ""))
	assert.Equal(t, "", store.GetString("sig1_name", ""))
	assert.Equal(t, 1, store.GetInt("signalCount", 0))
	assert.True(t, store.GetBool("buzzerEnabled", false))
}

func TestDurabilityAcrossReopen(t *testing.T) {
	store, path := newTestStore(t)

	require.NoError(t, store.PutUint64("nextKey", 12))
	require.NoError(t, store.PutBool("sniffingEnabled", false))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, uint64(12), reopened.GetUint64("nextKey", 0))
	assert.False(t, reopened.GetBool("sniffingEnabled", true))
}

func TestMemoryMatchesSQLiteSemantics(t *testing.T) {
	mem := NewMemory()

	require.NoError(t, mem.PutString("sig0_name", "a"))
	require.NoError(t, mem.PutString("sig1_name", "b"))

	batch := &Batch{}
	batch.DeletePrefix("sig")
	batch.PutString("sig0_name", "c")
	require.NoError(t, mem.Apply(batch))

	assert.Equal(t, "c", mem.GetString("sig0_name", ""))
	assert.Equal(t, "", mem.GetString("sig1_name", ""))
	assert.Equal(t, 1, mem.Len())
}
