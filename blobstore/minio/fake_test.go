package minio

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
)

const testBucket = "meshes"

var testModTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// fakeS3 serves the path-style subset of the S3 API the store uses:
// HEAD, GET with Range, PUT, DELETE on objects and ListObjectsV2 on the bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	// failures maps an object key to an S3 error code returned for any request.
	failures map[string]string
}

func newFakeS3(t *testing.T) (*fakeS3, *minio.Client) {
	t.Helper()
	f := &fakeS3{objects: map[string][]byte{}, failures: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	client, err := minio.New(strings.TrimPrefix(srv.URL, "http://"), &minio.Options{
		Creds:  credentials.NewStatic("", "", "", credentials.SignatureAnonymous),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return f, client
}

func (f *fakeS3) object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

func (f *fakeS3) setObject(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

func (f *fakeS3) fail(key, code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = code
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != testBucket {
		f.writeError(w, r, http.StatusNotFound, "NoSuchBucket")
		return
	}
	if key == "" {
		if r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2" {
			f.list(w, r)
			return
		}
		f.writeError(w, r, http.StatusNotImplemented, "NotImplemented")
		return
	}

	f.mu.Lock()
	code, failing := f.failures[key]
	data, ok := f.objects[key]
	f.mu.Unlock()
	if failing {
		f.writeError(w, r, http.StatusForbidden, code)
		return
	}

	switch r.Method {
	case http.MethodHead:
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeObjectHeaders(w, len(data))
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		if !ok {
			f.writeError(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		first, last, err := parseRange(r.Header.Get("Range"), len(data))
		if err != nil {
			f.writeError(w, r, http.StatusRequestedRangeNotSatisfiable, "InvalidRange")
			return
		}
		writeObjectHeaders(w, last-first+1)
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", first, last, len(data)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(data[first : last+1])
	case http.MethodPut:
		if r.URL.Query().Has("uploadId") {
			f.writeError(w, r, http.StatusNotImplemented, "NotImplemented")
			return
		}
		body, err := readPayload(r)
		if err != nil {
			f.writeError(w, r, http.StatusBadRequest, "IncompleteBody")
			return
		}
		f.mu.Lock()
		f.objects[key] = body
		f.mu.Unlock()
		w.Header().Set("ETag", `"fake"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		if !ok {
			f.writeError(w, r, http.StatusNotFound, "NoSuchKey")
			return
		}
		f.mu.Lock()
		delete(f.objects, key)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		f.writeError(w, r, http.StatusNotImplemented, "NotImplemented")
	}
}

func (f *fakeS3) list(w http.ResponseWriter, r *http.Request) {
	type object struct {
		Key          string
		LastModified string
		ETag         string
		Size         int
		StorageClass string
	}
	type result struct {
		XMLName     xml.Name `xml:"ListBucketResult"`
		Name        string
		Prefix      string
		KeyCount    int
		MaxKeys     int
		IsTruncated bool
		Contents    []object
	}

	prefix := r.URL.Query().Get("prefix")
	res := result{Name: testBucket, Prefix: prefix, MaxKeys: 1000}
	f.mu.Lock()
	for key, data := range f.objects {
		if strings.HasPrefix(key, prefix) {
			res.Contents = append(res.Contents, object{
				Key:          key,
				LastModified: testModTime.Format("2006-01-02T15:04:05.000Z"),
				ETag:         `"fake"`,
				Size:         len(data),
				StorageClass: "STANDARD",
			})
		}
	}
	f.mu.Unlock()
	slices.SortFunc(res.Contents, func(a, b object) int { return strings.Compare(a.Key, b.Key) })
	res.KeyCount = len(res.Contents)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	_ = xml.NewEncoder(w).Encode(res)
}

func (f *fakeS3) writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	if r.Method == http.MethodHead {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<Error><Code>%s</Code><Message>%s</Message><Resource>%s</Resource></Error>", code, code, r.URL.Path)
}

func writeObjectHeaders(w http.ResponseWriter, size int) {
	w.Header().Set("Content-Length", strconv.Itoa(size))
	w.Header().Set("Content-Type", defaultContentType)
	w.Header().Set("ETag", `"fake"`)
	w.Header().Set("Last-Modified", testModTime.Format(http.TimeFormat))
	w.Header().Set("Accept-Ranges", "bytes")
}

// parseRange handles "bytes=a-b" and "bytes=a-" and defaults to the whole object.
func parseRange(h string, size int) (int, int, error) {
	if h == "" {
		return 0, size - 1, nil
	}
	spec, ok := strings.CutPrefix(h, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("bad range %q", h)
	}
	a, b, _ := strings.Cut(spec, "-")
	first, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, err
	}
	last := size - 1
	if b != "" {
		if last, err = strconv.Atoi(b); err != nil {
			return 0, 0, err
		}
	}
	last = min(last, size-1)
	if first > last {
		return 0, 0, fmt.Errorf("bad range %q", h)
	}
	return first, last, nil
}

// readPayload returns the object bytes of a PUT, decoding aws-chunked bodies.
func readPayload(r *http.Request) ([]byte, error) {
	streaming := strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") ||
		strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked")
	if !streaming {
		return io.ReadAll(r.Body)
	}

	var out bytes.Buffer
	br := bufio.NewReader(r.Body)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex, _, _ := strings.Cut(strings.TrimSpace(line), ";")
		n, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, n); err != nil {
			return nil, err
		}
		if _, err := br.ReadString('\n'); err != nil {
			return nil, err
		}
	}
}
