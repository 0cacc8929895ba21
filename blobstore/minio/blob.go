package minio

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
)

var (
	errUploadAborted = errors.New("minio: upload aborted")
	errUploadClosed  = errors.New("minio: upload already finished")
)

type blob struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (b *blob) Size() int64 { return b.size }

func (b *blob) Close() error { return nil }

// rangeObject fetches the inclusive byte range [first, last].
func (b *blob) rangeObject(ctx context.Context, first, last int64) (*minio.Object, error) {
	var opts minio.GetObjectOptions
	if err := opts.SetRange(first, last); err != nil {
		return nil, err
	}
	return b.client.GetObject(ctx, b.bucket, b.key, opts)
}

func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= b.size {
		return 0, io.EOF
	}
	want := min(int64(len(p)), b.size-off)

	obj, err := b.rangeObject(ctx, off, off+want-1)
	if err != nil {
		return 0, translate(err)
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:want])
	if err != nil {
		return n, translate(err)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *blob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= b.size || length <= 0 {
		return nil, io.EOF
	}
	obj, err := b.rangeObject(ctx, off, min(off+length, b.size)-1)
	if err != nil {
		return nil, translate(err)
	}
	return obj, nil
}

// upload pipes writes into a PutObject call of unknown size running in the
// background.
type upload struct {
	pw     *io.PipeWriter
	cancel context.CancelFunc
	done   chan error

	mu       sync.Mutex
	finished bool
}

func newUpload(ctx context.Context, client *minio.Client, bucket, key string, opts minio.PutObjectOptions) *upload {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	u := &upload{pw: pw, cancel: cancel, done: make(chan error, 1)}

	go func() {
		_, err := client.PutObject(ctx, bucket, key, pr, -1, opts)
		_ = pr.CloseWithError(err)
		u.done <- err
	}()
	return u
}

func (u *upload) Write(p []byte) (int, error) {
	u.mu.Lock()
	finished := u.finished
	u.mu.Unlock()
	if finished {
		return 0, errUploadClosed
	}
	return u.pw.Write(p)
}

// finish marks the upload finished and reports whether it was still open.
func (u *upload) finish() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.finished {
		return false
	}
	u.finished = true
	return true
}

// Close completes the upload and waits for the object to be stored.
func (u *upload) Close() error {
	if !u.finish() {
		return errUploadClosed
	}
	defer u.cancel()
	_ = u.pw.Close()
	return <-u.done
}

// Abort cancels the upload. Nothing becomes visible.
func (u *upload) Abort() error {
	if !u.finish() {
		return nil
	}
	u.cancel()
	_ = u.pw.CloseWithError(errUploadAborted)
	<-u.done
	return nil
}

func (u *upload) Sync() error { return nil }
