// Package mesh implements simplicial meshes (point, edge, triangle and
// tetrahedral complexes) whose connectivity and per-element data live in typed
// attributes with nested transactional write scopes.
//
// Elements are navigated with Tuple handles. A Tuple names one flag of a top
// dimensional cell (vertex ⊂ edge ⊂ face ⊂ cell) and carries the cell's version
// hash, so handles issued before an edit are detected as stale afterwards.
package mesh

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hupe1980/meshkit/logging"
)

// Mesh is the capability set shared by PointMesh, EdgeMesh, TriMesh and TetMesh.
// The set of implementations is closed; use Dispatch to reach the concrete type.
type Mesh interface {
	// Identity returns the unique id of the mesh instance.
	Identity() uuid.UUID
	// TopSimplexType returns the primitive type of the cells.
	TopSimplexType() PrimitiveType
	// TopCellDimension returns the dimension of the cells.
	TopCellDimension() int
	// Capacity returns the number of allocated ids (live or removed) of a primitive type.
	Capacity(pt PrimitiveType) int64
	// SetCapacities sets the capacity of every primitive type up to the top one.
	SetCapacities(caps []int64)
	// ReserveAttributes grows every attribute of pt to hold n elements.
	ReserveAttributes(pt PrimitiveType, n int64)
	// GetAll returns one tuple per live element of pt.
	GetAll(pt PrimitiveType) []Tuple
	// SwitchTuple returns the tuple that differs from t only in its pt-face.
	SwitchTuple(t Tuple, pt PrimitiveType) Tuple
	// SwitchTuples applies SwitchTuple for each primitive type in order.
	SwitchTuples(t Tuple, pts ...PrimitiveType) Tuple
	// IsCCW reports whether t has counter-clockwise local orientation.
	IsCCW(t Tuple) bool
	// IsValid reports whether t is locally consistent and not stale.
	IsValid(t Tuple) bool
	// IsValidSlow additionally re-derives t from its global ids.
	IsValidSlow(t Tuple) bool
	// IsBoundary reports whether the pt-face of t lies on the mesh boundary.
	IsBoundary(pt PrimitiveType, t Tuple) bool
	// IsRemoved reports whether the element (pt, id) has been removed.
	IsRemoved(pt PrimitiveType, id int64) bool
	// ID returns the global id of the pt-face of t.
	ID(t Tuple, pt PrimitiveType) int64
	// TupleFromID returns a tuple whose pt-face is the element id.
	TupleFromID(pt PrimitiveType, id int64) Tuple
	// IsConnectivityValid cross-checks every incidence table against its inverse.
	IsConnectivityValid() bool
	// CreateScope opens a transaction scope on every attribute of the mesh.
	CreateScope() *Scope
	// Serialize streams the mesh attributes to w.
	Serialize(w Writer) error
	// Logger returns the mesh logger.
	Logger() *logging.Logger

	core() *meshBase
}

type options struct {
	logger *logging.Logger
}

// Option configures a mesh.
type Option func(*options)

// WithLogger sets the logger used for diagnostics such as audit failures.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

type attrKey struct {
	name string
	pt   PrimitiveType
}

// tableNames are the attribute names of the connectivity tables of one mesh type.
type tableNames struct {
	cv string
	cs [maxDimension]string
	cc string
	sc [maxDimension]string
}

// meshBase holds the attributes and connectivity tables of a d-dimensional
// simplicial complex. The concrete mesh types embed it.
type meshBase struct {
	id   uuid.UUID
	top  PrimitiveType
	dim  int
	topo *cellTopology

	attrs    []attributeBase
	index    map[attrKey]int
	reserved [maxDimension + 1]int64
	caps     [maxDimension + 1]int64

	flags [maxDimension + 1]*Attribute[int8]
	hash  *Attribute[int64]

	// cv maps a cell to its vertices, cs[k] a cell to its k-faces (0 < k < dim),
	// cc a cell to the neighbor across each facet, sc[k] a k-face (k < dim) to
	// one incident cell. All are nil for a point mesh.
	cv *Attribute[int64]
	cs [maxDimension]*Attribute[int64]
	cc *Attribute[int64]
	sc [maxDimension]*Attribute[int64]

	scopes []*Scope
	logger *logging.Logger
}

const flagAlive int8 = 0x1

func newMeshBase(top PrimitiveType, names tableNames, opts []Option) *meshBase {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	m := &meshBase{
		id:    uuid.New(),
		top:   top,
		dim:   top.Dimension(),
		topo:  topologies[top.Dimension()],
		index: make(map[attrKey]int),
	}
	m.logger = logging.OrNoop(o.logger).WithMesh(m.id.String(), m.dim)

	for pt := Vertex; pt <= top; pt++ {
		m.flags[pt] = mustRegister[int8](m, "flags", pt, 1, 0)
	}
	m.hash = mustRegister[int64](m, "hash", top, 1, 0)
	if m.dim == 0 {
		return m
	}
	n := m.dim + 1
	m.cv = mustRegister[int64](m, names.cv, top, n, -1)
	for k := 1; k < m.dim; k++ {
		m.cs[k] = mustRegister[int64](m, names.cs[k], top, len(m.topo.sub[k]), -1)
	}
	m.cc = mustRegister[int64](m, names.cc, top, n, -1)
	for k := 0; k < m.dim; k++ {
		m.sc[k] = mustRegister[int64](m, names.sc[k], PrimitiveType(k), 1, -1)
	}
	return m
}

func mustRegister[T Value](m *meshBase, name string, pt PrimitiveType, stride int, def T) *Attribute[T] {
	h, err := registerAttribute(m, name, pt, stride, def, true)
	if err != nil {
		panic(newStructuralError("register", err.Error()))
	}
	return m.attrs[h.index].(*Attribute[T])
}

// isReservedName reports whether name belongs to mesh bookkeeping.
func isReservedName(name string) bool {
	return name == "flags" || name == "hash" ||
		strings.HasPrefix(name, "m_") || strings.HasPrefix(name, "map_to_")
}

func (m *meshBase) core() *meshBase { return m }

// Identity implements Mesh.
func (m *meshBase) Identity() uuid.UUID { return m.id }

// TopSimplexType implements Mesh.
func (m *meshBase) TopSimplexType() PrimitiveType { return m.top }

// TopCellDimension implements Mesh.
func (m *meshBase) TopCellDimension() int { return m.dim }

// Logger implements Mesh.
func (m *meshBase) Logger() *logging.Logger { return m.logger }

func (m *meshBase) checkPrimitive(op string, pt PrimitiveType) {
	if pt < Vertex || pt > m.top {
		panic(newStructuralError(op, fmt.Sprintf("%s in a %s mesh", pt, m.top)))
	}
}

// Capacity implements Mesh.
func (m *meshBase) Capacity(pt PrimitiveType) int64 {
	m.checkPrimitive("capacity", pt)
	return m.caps[pt]
}

// SetCapacities implements Mesh.
func (m *meshBase) SetCapacities(caps []int64) {
	if len(caps) != m.dim+1 {
		panic(newStructuralError("set_capacities", fmt.Sprintf("%d capacities for dimension %d", len(caps), m.dim)))
	}
	for pt, c := range caps {
		m.caps[pt] = c
		m.ReserveAttributes(PrimitiveType(pt), c)
	}
}

// ReserveAttributes implements Mesh.
func (m *meshBase) ReserveAttributes(pt PrimitiveType, n int64) {
	m.checkPrimitive("reserve", pt)
	if n <= m.reserved[pt] {
		return
	}
	m.reserved[pt] = n
	for _, a := range m.attrs {
		if a.PrimitiveType() == pt {
			a.Reserve(n)
		}
	}
}

// allocate appends count new live elements of pt and returns their ids.
func (m *meshBase) allocate(pt PrimitiveType, count int) []int64 {
	start := m.caps[pt]
	end := start + int64(count)
	if end > m.reserved[pt] {
		m.ReserveAttributes(pt, max(end, 2*m.reserved[pt]))
	}
	m.caps[pt] = end
	ids := make([]int64, count)
	for i := range ids {
		ids[i] = start + int64(i)
		m.flags[pt].setScalar(ids[i], flagAlive)
	}
	return ids
}

func (m *meshBase) remove(pt PrimitiveType, id int64) {
	m.flags[pt].setScalar(id, m.flags[pt].scalar(id)&^flagAlive)
}

// IsRemoved implements Mesh.
func (m *meshBase) IsRemoved(pt PrimitiveType, id int64) bool {
	m.checkPrimitive("is_removed", pt)
	if id < 0 || id >= m.caps[pt] {
		return true
	}
	return m.flags[pt].scalar(id)&flagAlive == 0
}

// bumpHash increments the version hash of a cell, invalidating its tuples.
func (m *meshBase) bumpHash(cid int64) {
	m.hash.setScalar(cid, m.hash.scalar(cid)+1)
}

// faceIDs returns the global ids of the k-faces of cell cid in local order.
func (m *meshBase) faceIDs(k int, cid int64) []int64 {
	switch {
	case k == m.dim:
		return []int64{cid}
	case k == 0:
		return m.cv.vector(cid)
	default:
		return m.cs[k].vector(cid)
	}
}

// ID implements Mesh.
func (m *meshBase) ID(t Tuple, pt PrimitiveType) int64 {
	m.checkPrimitive("id", pt)
	k := pt.Dimension()
	if k == m.dim {
		return t.cid
	}
	l := m.topo.local(t.flag(), k)
	if l < 0 {
		panic(newStructuralError("id", fmt.Sprintf("%s has no local %s", t, pt)))
	}
	return m.faceIDs(k, t.cid)[l]
}

// GetAll implements Mesh.
func (m *meshBase) GetAll(pt PrimitiveType) []Tuple {
	m.checkPrimitive("get_all", pt)
	var out []Tuple
	for id := int64(0); id < m.caps[pt]; id++ {
		if m.IsRemoved(pt, id) {
			continue
		}
		out = append(out, m.TupleFromID(pt, id))
	}
	return out
}

// Count returns the number of live elements of pt.
func Count(m Mesh, pt PrimitiveType) int {
	b := m.core()
	n := 0
	for id := int64(0); id < b.caps[pt]; id++ {
		if !b.IsRemoved(pt, id) {
			n++
		}
	}
	return n
}

// CellVertices returns the global vertex ids of a cell in local order.
func CellVertices(m Mesh, cid int64) []int64 {
	b := m.core()
	if b.dim == 0 {
		return []int64{cid}
	}
	return append([]int64(nil), b.cv.vector(cid)...)
}
