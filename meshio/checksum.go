package meshio

import (
	"hash"
	"hash/crc32"
	"io"
)

var crc32Table = crc32.MakeTable(crc32.IEEE)

// checksumWriter forwards writes and keeps a running CRC32.
type checksumWriter struct {
	w    io.Writer
	hash hash.Hash32
	n    int64
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{w: w, hash: crc32.New(crc32Table)}
}

func (cw *checksumWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.hash.Write(p[:n])
	cw.n += int64(n)
	return n, err
}

func (cw *checksumWriter) Sum() uint32 {
	return cw.hash.Sum32()
}

// checksumReader hashes every byte read through it.
type checksumReader struct {
	r    io.Reader
	hash hash.Hash32
}

func newChecksumReader(r io.Reader) *checksumReader {
	return &checksumReader{r: r, hash: crc32.New(crc32Table)}
}

func (cr *checksumReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}

func (cr *checksumReader) Sum() uint32 {
	return cr.hash.Sum32()
}

// verify compares the running sum with expected.
func (cr *checksumReader) verify(expected uint32) error {
	if actual := cr.Sum(); actual != expected {
		return &ChecksumMismatchError{Expected: expected, Actual: actual}
	}
	return nil
}
