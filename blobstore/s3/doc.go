// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("meshes/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	cache := meshio.NewCache(store, "meshkit_cache")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large meshes
//   - CRC32C integrity checks on upload
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
