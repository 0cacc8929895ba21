package mesh

import (
	"fmt"

	"github.com/hupe1980/meshkit/rational"
)

// Value is the set of element types an attribute can store.
type Value interface {
	int8 | int64 | float64 | rational.Rational
}

// ValueKind names the element type of an attribute at runtime.
type ValueKind int8

const (
	// KindInt8 is a char-sized attribute (flags, tags).
	KindInt8 ValueKind = iota
	// KindInt64 is an integer attribute (ids, counters).
	KindInt64
	// KindFloat64 is a floating point attribute.
	KindFloat64
	// KindRational is an exact rational attribute.
	KindRational
)

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindRational:
		return "rational"
	default:
		return fmt.Sprintf("kind(%d)", int8(k))
	}
}

// Numeric reports whether averaging is the natural interpolation for the kind.
func (k ValueKind) Numeric() bool {
	return k == KindFloat64 || k == KindRational
}

func kindOf[T Value]() ValueKind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return KindInt8
	case int64:
		return KindInt64
	case float64:
		return KindFloat64
	default:
		return KindRational
	}
}

func valueEqual[T Value](a, b T) bool {
	if x, ok := any(a).(rational.Rational); ok {
		return x.Equal(any(b).(rational.Rational))
	}
	return a == b
}

func valueMean[T Value](a, b T) T {
	switch x := any(a).(type) {
	case int8:
		return any(int8((int16(x) + int16(any(b).(int8))) / 2)).(T)
	case int64:
		y := any(b).(int64)
		return any(x/2 + y/2 + (x%2+y%2)/2).(T)
	case float64:
		return any((x + any(b).(float64)) / 2).(T)
	case rational.Rational:
		return any(rational.Mean(x, any(b).(rational.Rational))).(T)
	}
	return a
}

func valueHalf[T Value](a T) T {
	switch x := any(a).(type) {
	case int8:
		return any(x / 2).(T)
	case int64:
		return any(x / 2).(T)
	case float64:
		return any(x / 2).(T)
	case rational.Rational:
		return any(x.Half()).(T)
	}
	return a
}

// Attribute is a dense typed array with a fixed number of values per element.
// It also carries the stack of write buffers used by transaction scopes; the
// innermost buffer receives writes and reads fall through from the innermost
// buffer to the backing array.
type Attribute[T Value] struct {
	name     string
	pt       PrimitiveType
	stride   int
	def      T
	data     []T
	internal bool
	scopes   []map[int64][]T
}

func newAttribute[T Value](name string, pt PrimitiveType, stride int, def T, size int64, internal bool) *Attribute[T] {
	a := &Attribute[T]{
		name:     name,
		pt:       pt,
		stride:   stride,
		def:      def,
		internal: internal,
	}
	a.Reserve(size)
	return a
}

// Name returns the attribute name.
func (a *Attribute[T]) Name() string { return a.name }

// PrimitiveType returns the primitive the attribute is attached to.
func (a *Attribute[T]) PrimitiveType() PrimitiveType { return a.pt }

// Stride returns the number of values per element.
func (a *Attribute[T]) Stride() int { return a.stride }

// Default returns the fill value of new slots.
func (a *Attribute[T]) Default() T { return a.def }

// Kind returns the runtime value kind.
func (a *Attribute[T]) Kind() ValueKind { return kindOf[T]() }

// Internal reports whether the attribute is mesh bookkeeping (connectivity,
// flags, hashes, multi-mesh maps) rather than user data.
func (a *Attribute[T]) Internal() bool { return a.internal }

// Size returns the number of elements the backing array holds.
func (a *Attribute[T]) Size() int64 {
	return int64(len(a.data) / a.stride)
}

// Reserve grows the backing array to hold at least n elements. It never shrinks.
func (a *Attribute[T]) Reserve(n int64) {
	if n <= a.Size() {
		return
	}
	grow := int(n)*a.stride - len(a.data)
	for i := 0; i < grow; i++ {
		a.data = append(a.data, a.def)
	}
}

func (a *Attribute[T]) checkIndex(i int64) {
	if i < 0 || i >= a.Size() {
		panic(newStructuralError("attribute "+a.name, fmt.Sprintf("index %d out of range [0,%d)", i, a.Size())))
	}
}

// vector returns the visible value of element i. The slice must not be modified.
func (a *Attribute[T]) vector(i int64) []T {
	a.checkIndex(i)
	for s := len(a.scopes) - 1; s >= 0; s-- {
		if v, ok := a.scopes[s][i]; ok {
			return v
		}
	}
	off := int(i) * a.stride
	return a.data[off : off+a.stride : off+a.stride]
}

func (a *Attribute[T]) scalar(i int64) T {
	return a.vector(i)[0]
}

// writable returns the slot that receives writes for element i.
func (a *Attribute[T]) writable(i int64) []T {
	a.checkIndex(i)
	if len(a.scopes) == 0 {
		off := int(i) * a.stride
		return a.data[off : off+a.stride : off+a.stride]
	}
	top := a.scopes[len(a.scopes)-1]
	if buf, ok := top[i]; ok {
		return buf
	}
	buf := append([]T(nil), a.vector(i)...)
	top[i] = buf
	return buf
}

func (a *Attribute[T]) setVector(i int64, v []T) {
	if len(v) != a.stride {
		panic(newStructuralError("attribute "+a.name, fmt.Sprintf("value of length %d for stride %d", len(v), a.stride)))
	}
	copy(a.writable(i), v)
}

func (a *Attribute[T]) setScalar(i int64, v T) {
	a.writable(i)[0] = v
}

func (a *Attribute[T]) setComponent(i int64, j int, v T) {
	a.writable(i)[j] = v
}

func (a *Attribute[T]) pushScope() {
	a.scopes = append(a.scopes, make(map[int64][]T))
}

func (a *Attribute[T]) popScope(commit bool) {
	n := len(a.scopes)
	top := a.scopes[n-1]
	a.scopes = a.scopes[:n-1]
	if !commit {
		return
	}
	if n > 1 {
		parent := a.scopes[n-2]
		for i, v := range top {
			parent[i] = v
		}
		return
	}
	for i, v := range top {
		copy(a.data[int(i)*a.stride:], v)
	}
}

func (a *Attribute[T]) depth() int { return len(a.scopes) }

// visible returns the values of the first n elements as seen through all scopes.
func (a *Attribute[T]) visible(n int64) []T {
	out := make([]T, int(n)*a.stride)
	copy(out, a.data)
	for _, scope := range a.scopes {
		for i, v := range scope {
			if i < n {
				copy(out[int(i)*a.stride:], v)
			}
		}
	}
	return out
}

func (a *Attribute[T]) load(data []T) {
	a.Reserve(int64(len(data) / a.stride))
	copy(a.data, data)
}

func (a *Attribute[T]) equal(o attributeBase, n int64) bool {
	b, ok := o.(*Attribute[T])
	if !ok || a.stride != b.stride || !valueEqual(a.def, b.def) {
		return false
	}
	x, y := a.visible(n), b.visible(n)
	for i := range x {
		if !valueEqual(x[i], y[i]) {
			return false
		}
	}
	return true
}

func (a *Attribute[T]) serialize(w Writer, n int64) error {
	data := a.visible(n)
	switch d := any(data).(type) {
	case []int8:
		return w.WriteInt8(a.name, a.pt, a.stride, d, any(a.def).(int8))
	case []int64:
		return w.WriteInt64(a.name, a.pt, a.stride, d, any(a.def).(int64))
	case []float64:
		return w.WriteFloat64(a.name, a.pt, a.stride, d, any(a.def).(float64))
	case []rational.Rational:
		return w.WriteRational(a.name, a.pt, a.stride, d, any(a.def).(rational.Rational))
	}
	return fmt.Errorf("%w: %s", ErrTypeMismatch, a.name)
}

// compact moves every kept element i to remap[i] and resets the tail.
func (a *Attribute[T]) compact(remap []int64, live int64) {
	data := a.visible(int64(len(remap)))
	for i, j := range remap {
		if j < 0 {
			continue
		}
		copy(a.data[int(j)*a.stride:], data[i*a.stride:(i+1)*a.stride])
	}
	for k := int(live) * a.stride; k < len(a.data); k++ {
		a.data[k] = a.def
	}
}

// CopyItem copies element src to element dst.
func (a *Attribute[T]) CopyItem(dst, src int64) {
	v := append([]T(nil), a.vector(src)...)
	a.setVector(dst, v)
}

// MeanItems writes the component-wise mean of elements x and y to dst.
func (a *Attribute[T]) MeanItems(dst, x, y int64) {
	vx, vy := a.vector(x), a.vector(y)
	out := make([]T, a.stride)
	for j := range out {
		out[j] = valueMean(vx[j], vy[j])
	}
	a.setVector(dst, out)
}

// HalveItem writes half of element src to dst.
func (a *Attribute[T]) HalveItem(dst, src int64) {
	v := a.vector(src)
	out := make([]T, a.stride)
	for j := range out {
		out[j] = valueHalf(v[j])
	}
	a.setVector(dst, out)
}

// ResetItem writes the default value to dst.
func (a *Attribute[T]) ResetItem(dst int64) {
	out := make([]T, a.stride)
	for j := range out {
		out[j] = a.def
	}
	a.setVector(dst, out)
}

// AttributeRef is the type-erased view of an attribute used by code that
// transfers values between elements without knowing the value type, such as
// attribute propagation during operations. Writes go through the active
// transaction scope.
type AttributeRef interface {
	Name() string
	PrimitiveType() PrimitiveType
	Stride() int
	Size() int64
	Kind() ValueKind
	Internal() bool
	CopyItem(dst, src int64)
	MeanItems(dst, x, y int64)
	HalveItem(dst, src int64)
	ResetItem(dst int64)
}

type attributeBase interface {
	AttributeRef
	Reserve(n int64)
	pushScope()
	popScope(commit bool)
	depth() int
	equal(o attributeBase, n int64) bool
	serialize(w Writer, n int64) error
	compact(remap []int64, live int64)
}

var (
	_ attributeBase = (*Attribute[int8])(nil)
	_ attributeBase = (*Attribute[int64])(nil)
	_ attributeBase = (*Attribute[float64])(nil)
	_ attributeBase = (*Attribute[rational.Rational])(nil)
)
