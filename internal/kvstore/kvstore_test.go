package kvstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest runs the shared behavior suite against one Store
// implementation.
func storeUnderTest(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "greeting", []byte("hello"), 0))
		val, ok, err := store.Get(ctx, "greeting")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("hello"), val)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "counter", []byte("1"), 0))
		require.NoError(t, store.Set(ctx, "counter", []byte("2"), 0))
		val, ok, err := store.Get(ctx, "counter")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("2"), val)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "gone", []byte("x"), 0))
		require.NoError(t, store.Delete(ctx, "gone"))
		_, ok, err := store.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting a missing key is not an error.
		require.NoError(t, store.Delete(ctx, "gone"))
	})

	t.Run("ttl expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "flash", []byte("x"), 10*time.Millisecond))

		val, ok, err := store.Get(ctx, "flash")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("x"), val)

		assert.Eventually(t, func() bool {
			_, ok, err := store.Get(ctx, "flash")
			return err == nil && !ok
		}, time.Second, 10*time.Millisecond)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	t.Cleanup(func() { store.Close() })
	storeUnderTest(t, store)
}

func TestMemoryStore_ValueIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	t.Cleanup(func() { store.Close() })

	original := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", original, 0))
	original[0] = 'z'

	val, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), val)

	// Mutating the returned slice must not affect the stored copy either.
	val[0] = 'q'
	again, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	storeUnderTest(t, store)
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "durable", []byte("still here"), 0))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	val, ok, err := second.Get(ctx, "durable")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("still here"), val)
}
