package mesh

import (
	"fmt"
	"strings"

	"github.com/hupe1980/meshkit/rational"
)

// Writer receives the contents of a mesh. Serialize calls WriteTopSimplexType
// and WriteCapacities first, then one Write call per attribute in registration
// order. Data holds Capacity(pt)*stride values.
type Writer interface {
	WriteTopSimplexType(pt PrimitiveType) error
	WriteCapacities(caps []int64) error
	WriteInt8(name string, pt PrimitiveType, stride int, data []int8, def int8) error
	WriteInt64(name string, pt PrimitiveType, stride int, data []int64, def int64) error
	WriteFloat64(name string, pt PrimitiveType, stride int, data []float64, def float64) error
	WriteRational(name string, pt PrimitiveType, stride int, data []rational.Rational, def rational.Rational) error
}

// Serialize implements Mesh.
func (m *meshBase) Serialize(w Writer) error {
	if err := w.WriteTopSimplexType(m.top); err != nil {
		return err
	}
	if err := w.WriteCapacities(append([]int64(nil), m.caps[:m.dim+1]...)); err != nil {
		return err
	}
	for _, a := range m.attrs {
		if err := a.serialize(w, m.caps[a.PrimitiveType()]); err != nil {
			return fmt.Errorf("attribute %s: %w", a.Name(), err)
		}
	}
	return nil
}

// NewMesh returns an empty mesh whose cells are of type top.
func NewMesh(top PrimitiveType, opts ...Option) (Mesh, error) {
	switch top {
	case Vertex:
		return NewPointMesh(0, opts...), nil
	case Edge:
		return NewEdgeMesh(opts...), nil
	case Triangle:
		return NewTriMesh(opts...), nil
	case Tetrahedron:
		return NewTetMesh(opts...), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidPrimitive, top)
}

// Loader is a Writer that rebuilds a mesh from the stream it receives.
// Connectivity tables, flags and hashes are loaded into the tables the new
// mesh owns; other attributes are registered on the fly. Names starting with
// map_to_ are registered as internal attributes.
type Loader struct {
	opts []Option
	m    Mesh
	caps []int64
}

// NewLoader creates a Loader. The options are applied to the rebuilt mesh.
func NewLoader(opts ...Option) *Loader {
	return &Loader{opts: opts}
}

// Mesh returns the rebuilt mesh.
func (l *Loader) Mesh() (Mesh, error) {
	if l.m == nil || l.caps == nil {
		return nil, fmt.Errorf("%w: incomplete stream", ErrInvalidStream)
	}
	return l.m, nil
}

// WriteTopSimplexType implements Writer.
func (l *Loader) WriteTopSimplexType(pt PrimitiveType) error {
	if l.m != nil {
		return fmt.Errorf("%w: duplicate top simplex type", ErrInvalidStream)
	}
	m, err := NewMesh(pt, l.opts...)
	if err != nil {
		return err
	}
	l.m = m
	return nil
}

// WriteCapacities implements Writer.
func (l *Loader) WriteCapacities(caps []int64) error {
	if l.m == nil {
		return fmt.Errorf("%w: capacities before top simplex type", ErrInvalidStream)
	}
	if len(caps) != l.m.TopCellDimension()+1 {
		return fmt.Errorf("%w: %d capacities for a %s mesh", ErrInvalidStream, len(caps), l.m.TopSimplexType())
	}
	l.caps = append([]int64(nil), caps...)
	l.m.SetCapacities(l.caps)
	return nil
}

func (l *Loader) check(name string, pt PrimitiveType, stride, n int) error {
	if l.caps == nil {
		return fmt.Errorf("%w: attribute %s before capacities", ErrInvalidStream, name)
	}
	if pt < Vertex || pt > l.m.TopSimplexType() {
		return fmt.Errorf("%w: attribute %s on %s", ErrInvalidPrimitive, name, pt)
	}
	if stride <= 0 || int64(n) != l.caps[pt]*int64(stride) {
		return fmt.Errorf("%w: attribute %s holds %d values for capacity %d and stride %d", ErrInvalidStream, name, n, l.caps[pt], stride)
	}
	return nil
}

// WriteInt8 implements Writer.
func (l *Loader) WriteInt8(name string, pt PrimitiveType, stride int, data []int8, def int8) error {
	return loadAttribute(l, name, pt, stride, data, def)
}

// WriteInt64 implements Writer.
func (l *Loader) WriteInt64(name string, pt PrimitiveType, stride int, data []int64, def int64) error {
	return loadAttribute(l, name, pt, stride, data, def)
}

// WriteFloat64 implements Writer.
func (l *Loader) WriteFloat64(name string, pt PrimitiveType, stride int, data []float64, def float64) error {
	return loadAttribute(l, name, pt, stride, data, def)
}

// WriteRational implements Writer.
func (l *Loader) WriteRational(name string, pt PrimitiveType, stride int, data []rational.Rational, def rational.Rational) error {
	return loadAttribute(l, name, pt, stride, data, def)
}

func loadAttribute[T Value](l *Loader, name string, pt PrimitiveType, stride int, data []T, def T) error {
	if err := l.check(name, pt, stride, len(data)); err != nil {
		return err
	}
	b := l.m.core()
	if i, ok := b.index[attrKey{name: name, pt: pt}]; ok {
		a, ok := b.attrs[i].(*Attribute[T])
		if !ok || a.stride != stride {
			return fmt.Errorf("%w: %s", ErrTypeMismatch, name)
		}
		a.load(data)
		return nil
	}
	internal := strings.HasPrefix(name, "map_to_")
	if isReservedName(name) && !internal {
		return fmt.Errorf("%w: unknown table %s", ErrInvalidStream, name)
	}
	h, err := registerAttribute(b, name, pt, stride, def, internal)
	if err != nil {
		return err
	}
	b.attrs[h.index].(*Attribute[T]).load(data)
	return nil
}

// Clone returns a deep copy of m with a new identity.
func Clone(m Mesh, opts ...Option) Mesh {
	l := NewLoader(opts...)
	if err := m.Serialize(l); err != nil {
		panic(newStructuralError("clone", err.Error()))
	}
	c, err := l.Mesh()
	if err != nil {
		panic(newStructuralError("clone", err.Error()))
	}
	return c
}

// Equal reports whether a and b have the same top type, the same capacities
// and the same attributes with the same visible values. Identities are ignored.
func Equal(a, b Mesh) bool {
	x, y := a.core(), b.core()
	if x.top != y.top || x.caps != y.caps || len(x.attrs) != len(y.attrs) {
		return false
	}
	for _, attr := range x.attrs {
		i, ok := y.index[attrKey{name: attr.Name(), pt: attr.PrimitiveType()}]
		if !ok {
			return false
		}
		if !attr.equal(y.attrs[i], x.caps[attr.PrimitiveType()]) {
			return false
		}
	}
	return true
}
