package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/meshkit/blobstore"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, true},
		{"not found", minio.ErrorResponse{Code: "NotFound", StatusCode: 404}, true},
		{"wrapped", fmt.Errorf("stat: %w", minio.ErrorResponse{Code: "NoSuchKey"}), true},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, false},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNotFound(tt.err))
		})
	}
}

func TestStorePutOpenRead(t *testing.T) {
	ctx := context.Background()
	fake, client := newFakeS3(t)
	store := NewStore(client, testBucket, "/cache/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "a/mesh.mkm", data))
	stored, ok := fake.object("cache/a/mesh.mkm")
	require.True(t, ok)
	assert.Equal(t, data, stored)

	b, err := store.Open(ctx, "a/mesh.mkm")
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, int64(len(data)), b.Size())

	buf := make([]byte, 5)
	n, err := b.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "minio", string(buf))

	rc, err := b.ReadRange(ctx, 12, 100)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "world", string(part))

	full, err := blobstore.ReadAll(ctx, store, "a/mesh.mkm")
	require.NoError(t, err)
	assert.Equal(t, data, full)
}

func TestStoreReadPastEnd(t *testing.T) {
	ctx := context.Background()
	_, client := newFakeS3(t)
	store := NewStore(client, testBucket, "")
	require.NoError(t, store.Put(ctx, "x", []byte("abc")))

	b, err := store.Open(ctx, "x")
	require.NoError(t, err)

	buf := make([]byte, 8)
	n, err := b.ReadAt(ctx, buf, 1)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, "bc", string(buf[:n]))

	_, err = b.ReadAt(ctx, buf, 3)
	assert.ErrorIs(t, err, io.EOF)
	_, err = b.ReadRange(ctx, 3, 1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	fake, client := newFakeS3(t)
	store := NewStore(client, testBucket, "cache")

	_, err := store.Open(ctx, "missing.mkm")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	_, err = blobstore.ReadAll(ctx, store, "missing.mkm")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, "missing.mkm"))

	fake.fail("cache/locked.mkm", "AccessDenied")
	_, err = store.Open(ctx, "locked.mkm")
	require.Error(t, err)
	assert.NotErrorIs(t, err, blobstore.ErrNotFound)
	assert.Error(t, store.Delete(ctx, "locked.mkm"))
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	fake, client := newFakeS3(t)
	store := NewStore(client, testBucket, "cache")

	require.NoError(t, store.Put(ctx, "gone.mkm", []byte{1}))
	require.NoError(t, store.Delete(ctx, "gone.mkm"))
	_, ok := fake.object("cache/gone.mkm")
	assert.False(t, ok)

	_, err := store.Open(ctx, "gone.mkm")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	fake, client := newFakeS3(t)
	fake.setObject("cache/ns/b.mkm", []byte{1})
	fake.setObject("cache/ns/a.mkm", []byte{2})
	fake.setObject("cache/other.mkm", []byte{3})
	fake.setObject("cache-old/ns/c.mkm", []byte{4})
	fake.setObject("top.mkm", []byte{5})

	store := NewStore(client, testBucket, "cache/")
	names, err := store.List(ctx, "ns/")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns/a.mkm", "ns/b.mkm"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns/a.mkm", "ns/b.mkm", "other.mkm"}, names)

	root := NewStore(client, testBucket, "")
	names, err = root.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, names, 5)
	assert.Equal(t, "cache-old/ns/c.mkm", names[0])

	require.NoError(t, blobstore.DeletePrefix(ctx, store, "ns/"))
	names, err = root.List(ctx, "cache/")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache/other.mkm"}, names)
}

func TestStoreCopyBetweenStores(t *testing.T) {
	ctx := context.Background()
	_, client := newFakeS3(t)
	src := blobstore.NewMemoryStore()
	require.NoError(t, src.Put(ctx, "m.mkm", []byte("payload")))

	dst := NewStore(client, testBucket, "export", WithContentType("application/x-mkm"))
	require.NoError(t, blobstore.Copy(ctx, dst, "m.mkm", src, "m.mkm"))

	got, err := blobstore.ReadAll(ctx, dst, "m.mkm")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestUploadAbort(t *testing.T) {
	ctx := context.Background()
	_, client := newFakeS3(t)
	store := NewStore(client, testBucket, "cache")

	w, err := store.Create(ctx, "partial.mkm")
	require.NoError(t, err)
	aborter, ok := w.(interface{ Abort() error })
	require.True(t, ok)
	require.NoError(t, aborter.Abort())
	require.NoError(t, aborter.Abort())

	_, err = w.Write([]byte("late"))
	assert.Error(t, err)
	assert.Error(t, w.Close())

	_, err = store.Open(ctx, "partial.mkm")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestRelName(t *testing.T) {
	s := NewStore(nil, testBucket, "/cache/")
	assert.Equal(t, "cache/a", s.objectKey("a"))

	name, ok := s.relName("cache/a/b")
	assert.True(t, ok)
	assert.Equal(t, "a/b", name)

	_, ok = s.relName("cache-old/a")
	assert.False(t, ok)
	_, ok = s.relName("cache/")
	assert.False(t, ok)
}
