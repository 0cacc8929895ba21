package meshio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/rational"
)

const flushThreshold = 64 * 1024

// Encoder implements mesh.Writer by encoding each call as a record.
// Call Close after Serialize to terminate the record stream.
type Encoder struct {
	w   io.Writer
	buf []byte
	top mesh.PrimitiveType
	set bool
}

var _ mesh.Writer = (*Encoder)(nil)

// NewEncoder returns an Encoder that writes raw records to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, buf: make([]byte, 0, flushThreshold)}
}

func (e *Encoder) maybeFlush() error {
	if len(e.buf) < flushThreshold {
		return nil
	}
	return e.flush()
}

func (e *Encoder) flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	_, err := e.w.Write(e.buf)
	e.buf = e.buf[:0]
	return err
}

// Close writes the end record and flushes.
func (e *Encoder) Close() error {
	e.buf = append(e.buf, recEnd)
	return e.flush()
}

// WriteTopSimplexType implements mesh.Writer.
func (e *Encoder) WriteTopSimplexType(pt mesh.PrimitiveType) error {
	e.top, e.set = pt, true
	e.buf = append(e.buf, recTop, byte(pt))
	return e.maybeFlush()
}

// WriteCapacities implements mesh.Writer.
func (e *Encoder) WriteCapacities(caps []int64) error {
	e.buf = append(e.buf, recCaps)
	e.buf = binary.AppendUvarint(e.buf, uint64(len(caps)))
	for _, c := range caps {
		e.buf = binary.AppendVarint(e.buf, c)
	}
	return e.maybeFlush()
}

func (e *Encoder) header(tag byte, name string, pt mesh.PrimitiveType, stride, n int) {
	e.buf = append(e.buf, tag)
	e.buf = binary.AppendUvarint(e.buf, uint64(len(name)))
	e.buf = append(e.buf, name...)
	e.buf = append(e.buf, byte(pt))
	e.buf = binary.AppendUvarint(e.buf, uint64(stride))
	e.buf = binary.AppendUvarint(e.buf, uint64(n))
}

func writeValues[T any](e *Encoder, tag byte, name string, pt mesh.PrimitiveType, stride int, data []T, def T, put func([]byte, T) []byte) error {
	e.header(tag, name, pt, stride, len(data))
	e.buf = put(e.buf, def)
	for _, v := range data {
		e.buf = put(e.buf, v)
		if err := e.maybeFlush(); err != nil {
			return err
		}
	}
	return e.maybeFlush()
}

func putInt8(b []byte, v int8) []byte { return append(b, byte(v)) }

func putInt64(b []byte, v int64) []byte { return binary.AppendVarint(b, v) }

func putFloat64(b []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
}

func putRational(b []byte, v rational.Rational) []byte {
	s := v.String()
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

// WriteInt8 implements mesh.Writer.
func (e *Encoder) WriteInt8(name string, pt mesh.PrimitiveType, stride int, data []int8, def int8) error {
	return writeValues(e, recInt8, name, pt, stride, data, def, putInt8)
}

// WriteInt64 implements mesh.Writer.
func (e *Encoder) WriteInt64(name string, pt mesh.PrimitiveType, stride int, data []int64, def int64) error {
	return writeValues(e, recInt64, name, pt, stride, data, def, putInt64)
}

// WriteFloat64 implements mesh.Writer.
func (e *Encoder) WriteFloat64(name string, pt mesh.PrimitiveType, stride int, data []float64, def float64) error {
	return writeValues(e, recFloat64, name, pt, stride, data, def, putFloat64)
}

// WriteRational implements mesh.Writer.
func (e *Encoder) WriteRational(name string, pt mesh.PrimitiveType, stride int, data []rational.Rational, def rational.Rational) error {
	return writeValues(e, recRational, name, pt, stride, data, def, putRational)
}

// Write serializes m to w in the MKM format.
func Write(w io.Writer, m mesh.Mesh, optFns ...Option) error {
	o := applyOptions(optFns)
	if !o.compression.valid() {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, o.compression)
	}

	cw := newChecksumWriter(w)
	var hdr [headerSize]byte
	copy(hdr[:4], Magic[:])
	binary.LittleEndian.PutUint16(hdr[4:], Version)
	hdr[6] = byte(m.TopSimplexType())
	hdr[7] = byte(o.compression)
	if _, err := cw.Write(hdr[:]); err != nil {
		return err
	}

	bw := newBlockWriter(cw, o.compression)
	enc := NewEncoder(bw)
	if err := m.Serialize(enc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := bw.Close(); err != nil {
		return err
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], cw.Sum())
	_, err := w.Write(trailer[:])
	return err
}
