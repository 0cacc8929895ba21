package meshio

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMagic is returned when the input does not start with the MKM magic.
	ErrInvalidMagic = errors.New("meshio: invalid magic number")
	// ErrInvalidVersion is returned for format versions this package cannot read.
	ErrInvalidVersion = errors.New("meshio: unsupported version")
	// ErrUnknownRecord is returned for record tags or compression types this package does not know.
	ErrUnknownRecord = errors.New("meshio: unknown record")
	// ErrCorrupt is returned for malformed block or record framing.
	ErrCorrupt = errors.New("meshio: corrupt stream")
	// ErrMeshNotFound is returned by Cache.ReadMesh for names that were never written.
	ErrMeshNotFound = errors.New("meshio: mesh not found")
	// ErrCacheNotEmpty is returned by Cache.Import when the cache already holds meshes.
	ErrCacheNotEmpty = errors.New("meshio: cache is not empty")
	// ErrInvalidName is returned for empty mesh names or names containing a slash.
	ErrInvalidName = errors.New("meshio: invalid mesh name")
	// ErrCacheClosed is returned by operations on a closed Cache.
	ErrCacheClosed = errors.New("meshio: cache closed")
)

// ChecksumMismatchError reports a trailer that does not match the data read.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("meshio: checksum mismatch: expected %08x, got %08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is or wraps a *ChecksumMismatchError.
func IsChecksumMismatch(err error) bool {
	var e *ChecksumMismatchError
	return errors.As(err, &e)
}
