// Package minio provides a blobstore.Store implementation using the MinIO client.
//
// Names map to object keys below an optional root prefix. Streaming writes
// created with Create run as an upload of unknown size that completes on Close
// and can be cancelled with Abort.
//
// It works against MinIO and other S3-compatible servers such as Ceph,
// SeaweedFS and Garage without pulling in the AWS SDK.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "meshes/")
//	cache := meshio.NewCache(store, "meshkit_cache")
package minio
