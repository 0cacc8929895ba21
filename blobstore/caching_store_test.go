package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	opens int
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	s.opens++
	return s.MemoryStore.Open(ctx, name)
}

func TestCachingStore_Hits(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachingStore(inner, 0)

	require.NoError(t, inner.Put(ctx, "a", []byte("hello")))

	for i := 0; i < 3; i++ {
		data, err := ReadAll(ctx, store, "a")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	}
	assert.Equal(t, 1, inner.opens)

	stats := store.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(5), stats.Bytes)
}

func TestCachingStore_Invalidation(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachingStore(inner, 0)

	require.NoError(t, store.Put(ctx, "a", []byte("v1")))
	_, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "a", []byte("v2")))
	data, err := ReadAll(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	w, err := store.Create(ctx, "a")
	require.NoError(t, err)
	_, err = w.Write([]byte("v3"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	data, err = ReadAll(ctx, store, "a")
	require.NoError(t, err)
	assert.Equal(t, "v3", string(data))

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Open(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Stats().Entries)
}

func TestCachingStore_Eviction(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryStore: NewMemoryStore()}
	store := NewCachingStore(inner, 8)

	require.NoError(t, inner.Put(ctx, "a", []byte("aaaa")))
	require.NoError(t, inner.Put(ctx, "b", []byte("bbbb")))
	require.NoError(t, inner.Put(ctx, "c", []byte("cccc")))
	require.NoError(t, inner.Put(ctx, "big", []byte("0123456789")))

	for _, name := range []string{"a", "b", "a", "c"} {
		_, err := ReadAll(ctx, store, name)
		require.NoError(t, err)
	}
	// b was least recently used when c arrived.
	assert.Equal(t, 3, inner.opens)
	assert.Equal(t, 2, store.Stats().Entries)

	_, err := ReadAll(ctx, store, "b")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.opens)

	data, err := ReadAll(ctx, store, "big")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
	assert.LessOrEqual(t, store.Stats().Bytes, int64(8))
}
