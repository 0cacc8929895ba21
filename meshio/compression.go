package meshio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression of the record stream.
type Compression uint8

const (
	// CompressionNone stores blocks raw.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

const (
	blockHeaderSize = 8
	blockSize       = 256 * 1024
	// maxBlockSize bounds the sizes accepted from a block header.
	maxBlockSize = 64 << 20
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBlockSize))
}

// compress returns the compressed form of data, or nil when storing it raw
// is at least as good.
func compress(c Compression, data []byte) ([]byte, error) {
	var out []byte
	switch c {
	case CompressionNone:
		return nil, nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		out = buf[:n]
	case CompressionZSTD:
		enc, err := getZstdEncoder()
		if err != nil {
			return nil, err
		}
		out = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecord, c)
	}
	// Keep raw unless compression saves at least 10%.
	if len(out) == 0 || float64(len(out)) > float64(len(data))*0.9 {
		return nil, nil
	}
	return out, nil
}

func decompress(c Compression, src []byte, size int) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(src, dst)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", ErrCorrupt, err)
		}
		if n != size {
			return nil, fmt.Errorf("%w: lz4 block holds %d of %d bytes", ErrCorrupt, n, size)
		}
		return dst, nil
	case CompressionZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)
		dst, err := dec.DecodeAll(src, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrCorrupt, err)
		}
		if len(dst) != size {
			return nil, fmt.Errorf("%w: zstd block holds %d of %d bytes", ErrCorrupt, len(dst), size)
		}
		return dst, nil
	}
	return nil, fmt.Errorf("%w: compressed block under %s", ErrCorrupt, c)
}

// blockWriter buffers writes into fixed-size blocks and emits each one
// framed and compressed.
type blockWriter struct {
	w    io.Writer
	c    Compression
	buf  []byte
	hdr  [blockHeaderSize]byte
	raw  int64
	done bool
}

func newBlockWriter(w io.Writer, c Compression) *blockWriter {
	return &blockWriter{w: w, c: c, buf: make([]byte, 0, blockSize)}
}

func (bw *blockWriter) Write(p []byte) (int, error) {
	if bw.done {
		return 0, io.ErrClosedPipe
	}
	written := 0
	for len(p) > 0 {
		n := min(len(p), blockSize-len(bw.buf))
		bw.buf = append(bw.buf, p[:n]...)
		p = p[n:]
		written += n
		if len(bw.buf) == blockSize {
			if err := bw.flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (bw *blockWriter) flush() error {
	if len(bw.buf) == 0 {
		return nil
	}
	packed, err := compress(bw.c, bw.buf)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(bw.hdr[0:], uint32(len(bw.buf)))
	binary.LittleEndian.PutUint32(bw.hdr[4:], uint32(len(packed)))
	if _, err := bw.w.Write(bw.hdr[:]); err != nil {
		return err
	}
	body := packed
	if body == nil {
		body = bw.buf
	}
	if _, err := bw.w.Write(body); err != nil {
		return err
	}
	bw.raw += int64(len(bw.buf))
	bw.buf = bw.buf[:0]
	return nil
}

// Close flushes the pending block and writes the end block.
func (bw *blockWriter) Close() error {
	if bw.done {
		return nil
	}
	if err := bw.flush(); err != nil {
		return err
	}
	bw.done = true
	clear(bw.hdr[:])
	_, err := bw.w.Write(bw.hdr[:])
	return err
}

// blockReader decodes the block stream written by blockWriter.
type blockReader struct {
	r   io.Reader
	c   Compression
	cur []byte
	eof bool
	hdr [blockHeaderSize]byte
}

func newBlockReader(r io.Reader, c Compression) *blockReader {
	return &blockReader{r: r, c: c}
}

func (br *blockReader) Read(p []byte) (int, error) {
	for len(br.cur) == 0 {
		if br.eof {
			return 0, io.EOF
		}
		if err := br.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, br.cur)
	br.cur = br.cur[n:]
	return n, nil
}

func (br *blockReader) next() error {
	if _, err := io.ReadFull(br.r, br.hdr[:]); err != nil {
		return fmt.Errorf("%w: block header: %v", ErrCorrupt, err)
	}
	size := binary.LittleEndian.Uint32(br.hdr[0:])
	packed := binary.LittleEndian.Uint32(br.hdr[4:])
	if size == 0 && packed == 0 {
		br.eof = true
		return nil
	}
	if size == 0 || size > maxBlockSize || packed > maxBlockSize {
		return fmt.Errorf("%w: block sizes %d/%d", ErrCorrupt, size, packed)
	}

	n := packed
	if n == 0 {
		n = size
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(br.r, data); err != nil {
		return fmt.Errorf("%w: block body: %v", ErrCorrupt, err)
	}
	if packed == 0 {
		br.cur = data
		return nil
	}
	out, err := decompress(br.c, data, int(size))
	if err != nil {
		return err
	}
	br.cur = out
	return nil
}

// drain consumes blocks up to and including the end block.
func (br *blockReader) drain() error {
	_, err := io.Copy(io.Discard, br)
	return err
}
