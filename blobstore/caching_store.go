package blobstore

import (
	"bytes"
	"container/list"
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// DefaultCacheBytes is the capacity used when NewCachingStore gets a
// non-positive limit.
const DefaultCacheBytes = 64 << 20

// CachingStore wraps a Store and keeps the contents of recently read blobs in
// memory, bounded by a byte budget with least-recently-used eviction.
// Writes and deletes invalidate the affected entry.
type CachingStore struct {
	inner Store

	mu       sync.Mutex
	maxBytes int64
	curBytes int64
	lru      *list.List
	entries  map[string]*list.Element

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name string
	data []byte
}

// CacheStats reports CachingStore activity.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
	Bytes   int64
}

// NewCachingStore creates a new CachingStore.
// maxBytes defaults to DefaultCacheBytes if <= 0.
func NewCachingStore(inner Store, maxBytes int64) *CachingStore {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	return &CachingStore{
		inner:    inner,
		maxBytes: maxBytes,
		lru:      list.New(),
		entries:  make(map[string]*list.Element),
	}
}

// Open serves the blob from memory, loading it from the inner store on a miss.
// Blobs larger than the budget bypass the cache.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.get(name); ok {
		s.hits.Add(1)
		return &memoryBlob{data: data}, nil
	}
	s.misses.Add(1)

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if b.Size() > s.maxBytes {
		return b, nil
	}
	defer b.Close()

	r, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.add(name, data)
	return &memoryBlob{data: data}, nil
}

// Create passes through to the inner store and invalidates name once the
// write is closed.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.Invalidate(name)
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &invalidatingBlob{WritableBlob: w, store: s, name: name}, nil
}

// Put writes through and drops any cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.Invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.Invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is never cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Invalidate drops the cached copy of name.
func (s *CachingStore) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[name]; ok {
		s.remove(el)
	}
}

// Stats returns a snapshot of cache activity.
func (s *CachingStore) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Entries: len(s.entries),
		Bytes:   s.curBytes,
	}
}

func (s *CachingStore) get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	s.lru.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

func (s *CachingStore) add(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[name]; ok {
		s.remove(el)
	}
	for s.curBytes+int64(len(data)) > s.maxBytes && s.lru.Len() > 0 {
		s.remove(s.lru.Back())
	}
	s.entries[name] = s.lru.PushFront(&cacheEntry{name: name, data: bytes.Clone(data)})
	s.curBytes += int64(len(data))
}

func (s *CachingStore) remove(el *list.Element) {
	e := s.lru.Remove(el).(*cacheEntry)
	delete(s.entries, e.name)
	s.curBytes -= int64(len(e.data))
}

type invalidatingBlob struct {
	WritableBlob
	store *CachingStore
	name  string
}

func (b *invalidatingBlob) Close() error {
	err := b.WritableBlob.Close()
	b.store.Invalidate(b.name)
	return err
}
