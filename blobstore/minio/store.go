package minio

import (
	"bytes"
	"context"
	"errors"
	"path"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/meshkit/blobstore"
)

const defaultContentType = "application/octet-stream"

type options struct {
	contentType string
	partSize    uint64
}

// Option configures a Store.
type Option func(*options)

// WithContentType sets the content type of uploaded objects.
func WithContentType(ct string) Option {
	return func(o *options) {
		o.contentType = ct
	}
}

// WithPartSize sets the multipart part size used by Create.
// Zero keeps the client's default.
func WithPartSize(n uint64) Option {
	return func(o *options) {
		o.partSize = n
	}
}

// Store implements blobstore.Store for MinIO and S3-compatible storage.
type Store struct {
	client *minio.Client
	bucket string
	root   string
	opts   options
}

var _ blobstore.Store = (*Store)(nil)

// NewStore creates a store for bucket. Every name is placed below rootPrefix
// (e.g. "meshes/"); an empty rootPrefix uses the bucket root.
func NewStore(client *minio.Client, bucket, rootPrefix string, optFns ...Option) *Store {
	opts := options{contentType: defaultContentType}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		client: client,
		bucket: bucket,
		root:   strings.Trim(rootPrefix, "/"),
		opts:   opts,
	}
}

func (s *Store) objectKey(name string) string {
	return path.Join(s.root, name)
}

// relName maps an object key back to a blob name. It reports false for keys
// outside the root.
func (s *Store) relName(key string) (string, bool) {
	if s.root == "" {
		return key, key != ""
	}
	rel, ok := strings.CutPrefix(key, s.root+"/")
	return rel, ok && rel != ""
}

func (s *Store) putOptions() minio.PutObjectOptions {
	return minio.PutObjectOptions{
		ContentType: s.opts.contentType,
		PartSize:    s.opts.partSize,
	}
}

// Open stats the object and returns a range-reading blob.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.objectKey(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate(err)
	}
	return &blob{client: s.client, bucket: s.bucket, key: key, size: info.Size}, nil
}

// Put uploads data in a single request.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectKey(name), bytes.NewReader(data), int64(len(data)), s.putOptions())
	return err
}

// Create streams writes into an upload that completes on Close.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return newUpload(ctx, s.client, s.bucket, s.objectKey(name), s.putOptions()), nil
}

// Delete removes the object. Missing objects are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns the sorted names below the root that start with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	full := prefix
	if s.root != "" {
		full = s.root + "/" + prefix
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: full, Recursive: true}) {
		if obj.Err != nil {
			return nil, translate(obj.Err)
		}
		if name, ok := s.relName(obj.Key); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch resp.Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// translate maps missing-object responses to blobstore.ErrNotFound.
func translate(err error) error {
	if isNotFound(err) {
		return blobstore.ErrNotFound
	}
	return err
}
