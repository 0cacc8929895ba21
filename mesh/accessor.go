package mesh

import (
	"fmt"

	"github.com/google/uuid"
)

// AttributeHandle is a typed reference to an attribute of one mesh. It owns no
// data and stays valid for the lifetime of the mesh.
type AttributeHandle[T Value] struct {
	mesh   uuid.UUID
	index  int
	name   string
	pt     PrimitiveType
	stride int
}

// Name returns the attribute name.
func (h AttributeHandle[T]) Name() string { return h.name }

// PrimitiveType returns the primitive the attribute is attached to.
func (h AttributeHandle[T]) PrimitiveType() PrimitiveType { return h.pt }

// Stride returns the number of values per element.
func (h AttributeHandle[T]) Stride() int { return h.stride }

// Mesh returns the identity of the owning mesh.
func (h AttributeHandle[T]) Mesh() uuid.UUID { return h.mesh }

// IsValid reports whether the handle was obtained from a mesh.
func (h AttributeHandle[T]) IsValid() bool { return h.mesh != uuid.Nil }

// RegisterAttribute creates a user attribute with the given stride and
// default value. Names are unique per primitive type.
func RegisterAttribute[T Value](m Mesh, name string, pt PrimitiveType, stride int, def T) (AttributeHandle[T], error) {
	if isReservedName(name) {
		return AttributeHandle[T]{}, fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return registerAttribute(m.core(), name, pt, stride, def, false)
}

// RegisterInternalAttribute creates a bookkeeping attribute. Internal
// attributes are serialized like user attributes but are skipped by attribute
// propagation. It is meant for packages that extend mesh bookkeeping, such as
// multi-mesh maps.
func RegisterInternalAttribute[T Value](m Mesh, name string, pt PrimitiveType, stride int, def T) (AttributeHandle[T], error) {
	return registerAttribute(m.core(), name, pt, stride, def, true)
}

func registerAttribute[T Value](m *meshBase, name string, pt PrimitiveType, stride int, def T, internal bool) (AttributeHandle[T], error) {
	if pt < Vertex || pt > m.top {
		return AttributeHandle[T]{}, fmt.Errorf("%w: %s in a %s mesh", ErrInvalidPrimitive, pt, m.top)
	}
	if stride < 1 {
		return AttributeHandle[T]{}, fmt.Errorf("%w: stride %d", ErrTypeMismatch, stride)
	}
	if len(m.scopes) > 0 {
		return AttributeHandle[T]{}, ErrScopeActive
	}
	key := attrKey{name: name, pt: pt}
	if _, ok := m.index[key]; ok {
		return AttributeHandle[T]{}, fmt.Errorf("%w: %s on %s", ErrAttributeExists, name, pt)
	}
	a := newAttribute(name, pt, stride, def, m.reserved[pt], internal)
	m.index[key] = len(m.attrs)
	m.attrs = append(m.attrs, a)
	return AttributeHandle[T]{mesh: m.id, index: m.index[key], name: name, pt: pt, stride: stride}, nil
}

// GetAttributeHandle looks up an attribute by name and primitive type.
func GetAttributeHandle[T Value](m Mesh, name string, pt PrimitiveType) (AttributeHandle[T], error) {
	b := m.core()
	i, ok := b.index[attrKey{name: name, pt: pt}]
	if !ok {
		return AttributeHandle[T]{}, fmt.Errorf("%w: %s on %s", ErrAttributeNotFound, name, pt)
	}
	a, ok := b.attrs[i].(*Attribute[T])
	if !ok {
		return AttributeHandle[T]{}, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, name, b.attrs[i].Kind())
	}
	return AttributeHandle[T]{mesh: b.id, index: i, name: name, pt: pt, stride: a.stride}, nil
}

// HasAttribute reports whether an attribute with that name exists on pt.
func HasAttribute(m Mesh, name string, pt PrimitiveType) bool {
	_, ok := m.core().index[attrKey{name: name, pt: pt}]
	return ok
}

// Attributes returns all attributes of the mesh in registration order.
func Attributes(m Mesh) []AttributeRef {
	b := m.core()
	out := make([]AttributeRef, len(b.attrs))
	for i, a := range b.attrs {
		out[i] = a
	}
	return out
}

// AttributeRefOf returns the type-erased view of the attribute behind h.
func AttributeRefOf[T Value](m Mesh, h AttributeHandle[T]) AttributeRef {
	return attributeOf(m.core(), h)
}

func attributeOf[T Value](m *meshBase, h AttributeHandle[T]) *Attribute[T] {
	if h.mesh != m.id {
		panic(newStructuralError("accessor", fmt.Sprintf("attribute %q belongs to another mesh", h.name)))
	}
	return m.attrs[h.index].(*Attribute[T])
}

// ConstAccessor reads an attribute by tuple or by element index.
type ConstAccessor[T Value] struct {
	m    *meshBase
	attr *Attribute[T]
}

// CreateConstAccessor binds a read-only accessor to an attribute.
func CreateConstAccessor[T Value](m Mesh, h AttributeHandle[T]) ConstAccessor[T] {
	b := m.core()
	return ConstAccessor[T]{m: b, attr: attributeOf(b, h)}
}

// Vector returns a copy of the value of the element of t.
func (a ConstAccessor[T]) Vector(t Tuple) []T {
	return a.VectorAt(a.m.ID(t, a.attr.pt))
}

// Scalar returns the first component of the element of t.
func (a ConstAccessor[T]) Scalar(t Tuple) T {
	return a.attr.scalar(a.m.ID(t, a.attr.pt))
}

// VectorAt returns a copy of the value of element i.
func (a ConstAccessor[T]) VectorAt(i int64) []T {
	return append([]T(nil), a.attr.vector(i)...)
}

// ScalarAt returns the first component of element i.
func (a ConstAccessor[T]) ScalarAt(i int64) T {
	return a.attr.scalar(i)
}

// Size returns the number of elements the attribute holds.
func (a ConstAccessor[T]) Size() int64 { return a.attr.Size() }

// Stride returns the number of values per element.
func (a ConstAccessor[T]) Stride() int { return a.attr.stride }

// PrimitiveType returns the primitive the attribute is attached to.
func (a ConstAccessor[T]) PrimitiveType() PrimitiveType { return a.attr.pt }

// StackDepth returns the number of open transaction buffers.
func (a ConstAccessor[T]) StackDepth() int { return a.attr.depth() }

// Accessor reads and writes an attribute. Writes land in the innermost open
// scope of the mesh, or in the storage when no scope is open.
type Accessor[T Value] struct {
	ConstAccessor[T]
}

// CreateAccessor binds a read-write accessor to an attribute.
func CreateAccessor[T Value](m Mesh, h AttributeHandle[T]) Accessor[T] {
	return Accessor[T]{ConstAccessor: CreateConstAccessor(m, h)}
}

// SetVector writes the value of the element of t.
func (a Accessor[T]) SetVector(t Tuple, v []T) {
	a.attr.setVector(a.m.ID(t, a.attr.pt), v)
}

// SetScalar writes the first component of the element of t.
func (a Accessor[T]) SetScalar(t Tuple, v T) {
	a.attr.setScalar(a.m.ID(t, a.attr.pt), v)
}

// SetVectorAt writes the value of element i.
func (a Accessor[T]) SetVectorAt(i int64, v []T) {
	a.attr.setVector(i, v)
}

// SetScalarAt writes the first component of element i.
func (a Accessor[T]) SetScalarAt(i int64, v T) {
	a.attr.setScalar(i, v)
}

// SetComponentAt writes component j of element i.
func (a Accessor[T]) SetComponentAt(i int64, j int, v T) {
	a.attr.setComponent(i, j, v)
}
