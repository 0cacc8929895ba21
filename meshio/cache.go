package meshio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/meshkit/blobstore"
	"github.com/hupe1980/meshkit/codec"
	"github.com/hupe1980/meshkit/logging"
	"github.com/hupe1980/meshkit/mesh"
	"golang.org/x/sync/errgroup"
)

// ManifestName is the blob that lists the meshes of an exported cache.
const ManifestName = "manifest.json"

const (
	manifestVersion = 1
	meshExt         = ".mkm"
	copyConcurrency = 8
)

// Manifest describes an exported cache.
type Manifest struct {
	Version int               `json:"version"`
	Meshes  map[string]string `json:"meshes"`
}

// Cache keeps named meshes under a private namespace of a blob store.
// The namespace is "<prefix>-<uuid>/" so several caches can share a store.
// A Cache is safe for concurrent use.
type Cache struct {
	store  blobstore.Store
	dir    string
	opts   options
	logger *logging.Logger

	mu     sync.Mutex
	files  map[string]string
	closed bool
}

// NewCache creates an empty cache in store. prefix names the namespace and
// defaults to "meshkit_cache".
func NewCache(store blobstore.Store, prefix string, optFns ...Option) *Cache {
	if prefix == "" {
		prefix = "meshkit_cache"
	}
	o := applyOptions(optFns)
	dir := strings.TrimSuffix(prefix, "/") + "-" + uuid.NewString() + "/"
	return &Cache{
		store:  store,
		dir:    dir,
		opts:   o,
		logger: o.logger.WithCache(dir),
		files:  make(map[string]string),
	}
}

// Path returns the namespace of the cache inside its store.
func (c *Cache) Path() string {
	return c.dir
}

func validMeshName(name string) error {
	if name == "" || strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// FilePath returns the blob name holding the mesh called name.
func (c *Cache) FilePath(name string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	file, ok := c.files[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMeshNotFound, name)
	}
	return c.dir + file, nil
}

// WriteMesh serializes m under name, replacing an earlier mesh of that name.
func (c *Cache) WriteMesh(ctx context.Context, name string, m mesh.Mesh) (err error) {
	if err := validMeshName(name); err != nil {
		return err
	}
	defer func() { c.logger.LogSave(ctx, name, err) }()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	var buf bytes.Buffer
	if err := Write(&buf, m, WithCompression(c.opts.compression)); err != nil {
		return err
	}
	file := name + meshExt
	if err := c.store.Put(ctx, c.dir+file, buf.Bytes()); err != nil {
		return err
	}
	c.files[name] = file
	return nil
}

// ReadMesh loads the mesh written under name.
func (c *Cache) ReadMesh(ctx context.Context, name string) (m mesh.Mesh, err error) {
	defer func() { c.logger.LogLoad(ctx, name, err) }()

	c.mu.Lock()
	file, ok := c.files[name]
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrCacheClosed
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMeshNotFound, name)
	}

	data, err := blobstore.ReadAll(ctx, c.store, c.dir+file)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMeshNotFound, name)
		}
		return nil, err
	}
	return Read(bytes.NewReader(data), WithMeshOptions(c.opts.meshOpts...))
}

// Names returns the cached mesh names in sorted order.
func (c *Cache) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Sorted(maps.Keys(c.files))
}

// Len returns the number of cached meshes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

// Export copies every cached mesh to dst under prefix and writes a manifest
// listing them. The cache itself is unchanged.
func (c *Cache) Export(ctx context.Context, dst blobstore.Store, prefix string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCacheClosed
	}
	files := maps.Clone(c.files)
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)
	for _, file := range files {
		g.Go(func() error {
			return blobstore.Copy(gctx, dst, path.Join(prefix, file), c.store, c.dir+file)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("meshio: export: %w", err)
	}

	data, err := c.opts.codec.Marshal(Manifest{Version: manifestVersion, Meshes: files})
	if err != nil {
		return err
	}
	if err := dst.Put(ctx, path.Join(prefix, ManifestName), data); err != nil {
		return err
	}
	c.logger.WithCount(len(files)).InfoContext(ctx, "cache exported", "prefix", prefix)
	return nil
}

// ReadManifest loads the manifest of an export with the default codec.
func ReadManifest(ctx context.Context, src blobstore.Store, prefix string) (*Manifest, error) {
	return readManifest(ctx, codec.Default, src, prefix)
}

func readManifest(ctx context.Context, cd codec.Codec, src blobstore.Store, prefix string) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, src, path.Join(prefix, ManifestName))
	if err != nil {
		return nil, err
	}
	var mf Manifest
	if err := cd.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	if mf.Version != manifestVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrInvalidVersion, mf.Version)
	}
	for name, file := range mf.Meshes {
		if validMeshName(name) != nil || validMeshName(file) != nil {
			return nil, fmt.Errorf("%w: manifest entry %q -> %q", ErrCorrupt, name, file)
		}
	}
	return &mf, nil
}

// Import copies an export into the cache. It fails with ErrCacheNotEmpty if
// the cache already holds meshes.
func (c *Cache) Import(ctx context.Context, src blobstore.Store, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	if len(c.files) > 0 {
		return ErrCacheNotEmpty
	}

	mf, err := readManifest(ctx, c.opts.codec, src, prefix)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)
	for _, file := range mf.Meshes {
		g.Go(func() error {
			return blobstore.Copy(gctx, c.store, c.dir+file, src, path.Join(prefix, file))
		})
	}
	if err := g.Wait(); err != nil {
		_ = blobstore.DeletePrefix(ctx, c.store, c.dir)
		return fmt.Errorf("meshio: import: %w", err)
	}

	maps.Copy(c.files, mf.Meshes)
	c.logger.WithCount(len(mf.Meshes)).InfoContext(ctx, "cache imported", "prefix", prefix)
	return nil
}

// Close removes the namespace and everything in it. Exports are unaffected.
func (c *Cache) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.files = map[string]string{}
	return blobstore.DeletePrefix(ctx, c.store, c.dir)
}
