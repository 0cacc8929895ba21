// Package blobstore provides the storage abstraction behind mesh caches.
//
// Store is the interface for reading and writing immutable blobs (serialized
// meshes, manifests). Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process maps, for tests and scratch caches
//   - LocalStore: local filesystem with atomic writes
//   - CachingStore: LRU read cache in front of another store
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
