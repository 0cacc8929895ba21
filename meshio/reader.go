package meshio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/meshkit/mesh"
	"github.com/hupe1980/meshkit/rational"
)

// Header is the fixed-size prefix of an MKM stream.
type Header struct {
	Version     uint16
	Top         mesh.PrimitiveType
	Compression Compression
}

func readHeader(r io.Reader) (Header, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: short header", ErrInvalidMagic)
		}
		return Header{}, err
	}
	if [4]byte(hdr[:4]) != Magic {
		return Header{}, ErrInvalidMagic
	}
	h := Header{
		Version:     binary.LittleEndian.Uint16(hdr[4:]),
		Top:         mesh.PrimitiveType(hdr[6]),
		Compression: Compression(hdr[7]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: %d", ErrInvalidVersion, h.Version)
	}
	if !h.Compression.valid() {
		return Header{}, fmt.Errorf("%w: %s", ErrUnknownRecord, h.Compression)
	}
	return h, nil
}

// Decoder replays a record stream into a mesh.Writer.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a Decoder reading raw records from r.
func NewDecoder(r io.Reader) *Decoder {
	if br, ok := r.(*bufio.Reader); ok {
		return &Decoder{r: br}
	}
	return &Decoder{r: bufio.NewReader(r)}
}

// Decode replays records into w until the end record.
func (d *Decoder) Decode(w mesh.Writer) error {
	for {
		tag, err := d.r.ReadByte()
		if err != nil {
			return d.corrupt("record tag", err)
		}
		switch tag {
		case recEnd:
			return nil
		case recTop:
			b, err := d.r.ReadByte()
			if err != nil {
				return d.corrupt("top simplex type", err)
			}
			if err := w.WriteTopSimplexType(mesh.PrimitiveType(b)); err != nil {
				return err
			}
		case recCaps:
			n, err := d.count()
			if err != nil {
				return err
			}
			caps := make([]int64, n)
			for i := range caps {
				if caps[i], err = binary.ReadVarint(d.r); err != nil {
					return d.corrupt("capacity", err)
				}
			}
			if err := w.WriteCapacities(caps); err != nil {
				return err
			}
		case recInt8:
			err = readValues(d, w.WriteInt8, getInt8)
		case recInt64:
			err = readValues(d, w.WriteInt64, getInt64)
		case recFloat64:
			err = readValues(d, w.WriteFloat64, getFloat64)
		case recRational:
			err = readValues(d, w.WriteRational, getRational)
		default:
			return fmt.Errorf("%w: tag %d", ErrUnknownRecord, tag)
		}
		if err != nil {
			return err
		}
	}
}

func (d *Decoder) corrupt(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrCorrupt, what)
	}
	if errors.Is(err, ErrCorrupt) || IsChecksumMismatch(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrCorrupt, what, err)
}

func (d *Decoder) count() (int, error) {
	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		return 0, d.corrupt("count", err)
	}
	if n >= maxCount {
		return 0, fmt.Errorf("%w: count %d", ErrCorrupt, n)
	}
	return int(n), nil
}

func (d *Decoder) bytes() ([]byte, error) {
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, d.corrupt("string", err)
	}
	return b, nil
}

func readValues[T any](d *Decoder, write func(string, mesh.PrimitiveType, int, []T, T) error, get func(*Decoder) (T, error)) error {
	name, err := d.bytes()
	if err != nil {
		return err
	}
	pt, err := d.r.ReadByte()
	if err != nil {
		return d.corrupt("primitive type", err)
	}
	stride, err := d.count()
	if err != nil {
		return err
	}
	n, err := d.count()
	if err != nil {
		return err
	}
	def, err := get(d)
	if err != nil {
		return err
	}
	// Grow as values arrive so a corrupt count cannot force a huge allocation.
	data := make([]T, 0, min(n, 1<<16))
	for range n {
		v, err := get(d)
		if err != nil {
			return err
		}
		data = append(data, v)
	}
	return write(string(name), mesh.PrimitiveType(int8(pt)), stride, data, def)
}

func getInt8(d *Decoder) (int8, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, d.corrupt("int8 value", err)
	}
	return int8(b), nil
}

func getInt64(d *Decoder) (int64, error) {
	v, err := binary.ReadVarint(d.r)
	if err != nil {
		return 0, d.corrupt("int64 value", err)
	}
	return v, nil
}

func getFloat64(d *Decoder) (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, d.corrupt("float64 value", err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
}

func getRational(d *Decoder) (rational.Rational, error) {
	b, err := d.bytes()
	if err != nil {
		return rational.Rational{}, err
	}
	var r rational.Rational
	if err := r.UnmarshalText(b); err != nil {
		return rational.Rational{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return r, nil
}

// Read decodes an MKM stream and rebuilds the mesh. The checksum trailer is
// verified before the mesh is returned.
func Read(r io.Reader, optFns ...Option) (mesh.Mesh, error) {
	o := applyOptions(optFns)

	cr := newChecksumReader(r)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	blocks := newBlockReader(cr, h.Compression)
	loader := mesh.NewLoader(o.meshOpts...)
	decodeErr := NewDecoder(blocks).Decode(loader)
	if decodeErr == nil {
		decodeErr = blocks.drain()
	}
	if decodeErr != nil {
		// Report a checksum mismatch over the framing error it caused.
		if err := verifyTrailer(r, cr); err != nil && IsChecksumMismatch(err) {
			return nil, err
		}
		return nil, decodeErr
	}
	if err := verifyTrailer(r, cr); err != nil {
		return nil, err
	}

	m, err := loader.Mesh()
	if err != nil {
		return nil, err
	}
	if m.TopSimplexType() != h.Top {
		return nil, fmt.Errorf("%w: header says %s, stream holds %s", ErrCorrupt, h.Top, m.TopSimplexType())
	}
	return m, nil
}

func verifyTrailer(r io.Reader, cr *checksumReader) error {
	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return fmt.Errorf("%w: missing checksum", ErrCorrupt)
	}
	return cr.verify(binary.LittleEndian.Uint32(trailer[:]))
}

// ReadHeader reads only the fixed header of an MKM stream.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(r)
}
