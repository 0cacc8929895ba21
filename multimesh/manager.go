package multimesh

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hupe1980/meshkit/logging"
	"github.com/hupe1980/meshkit/mesh"
)

const maxChildren = 2

type node struct {
	m        mesh.Mesh
	parent   *node
	index    int
	children []*node

	// toParent lives on the child, toChild on the parent; both are indexed by
	// primitive type up to the child's top type.
	toParent []mesh.AttributeHandle[int64]
	toChild  []mesh.AttributeHandle[int64]
}

func (n *node) top() mesh.PrimitiveType { return n.m.TopSimplexType() }

type options struct {
	logger *logging.Logger
}

// Option configures a Manager.
type Option func(*options)

// WithLogger sets the manager logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Manager owns a tree of meshes and the maps between them.
type Manager struct {
	root   *node
	nodes  map[uuid.UUID]*node
	logger *logging.Logger
}

// NewManager creates a manager whose root is m.
func NewManager(root mesh.Mesh, optFns ...Option) *Manager {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	n := &node{m: root, index: -1}
	return &Manager{
		root:   n,
		nodes:  map[uuid.UUID]*node{root.Identity(): n},
		logger: logging.OrNoop(opts.logger),
	}
}

// Root returns the root mesh.
func (g *Manager) Root() mesh.Mesh { return g.root.m }

// Contains reports whether m belongs to the manager.
func (g *Manager) Contains(m mesh.Mesh) bool {
	_, ok := g.nodes[m.Identity()]
	return ok
}

// Parent returns the parent of m, or false for the root.
func (g *Manager) Parent(m mesh.Mesh) (mesh.Mesh, bool) {
	n, ok := g.nodes[m.Identity()]
	if !ok || n.parent == nil {
		return nil, false
	}
	return n.parent.m, true
}

// Children returns the children of m in registration order.
func (g *Manager) Children(m mesh.Mesh) []mesh.Mesh {
	n, ok := g.nodes[m.Identity()]
	if !ok {
		return nil
	}
	out := make([]mesh.Mesh, len(n.children))
	for i, c := range n.children {
		out[i] = c.m
	}
	return out
}

// Meshes returns every mesh of the tree, parents before children.
func (g *Manager) Meshes() []mesh.Mesh {
	var out []mesh.Mesh
	g.walk(func(n *node) { out = append(out, n.m) })
	return out
}

func (g *Manager) walk(fn func(n *node)) {
	var rec func(n *node)
	rec = func(n *node) {
		fn(n)
		for _, c := range n.children {
			rec(c)
		}
	}
	rec(g.root)
}

func (g *Manager) node(m mesh.Mesh) (*node, error) {
	n, ok := g.nodes[m.Identity()]
	if !ok {
		return nil, ErrNotInManager
	}
	return n, nil
}

func parentMapName(pt mesh.PrimitiveType) string {
	return fmt.Sprintf("map_to_parent_%d", pt)
}

func childMapName(index int, pt mesh.PrimitiveType) string {
	return fmt.Sprintf("map_to_child_%d_%d", index, pt)
}

// RegisterChild adds child below parent. childVertexToParent gives, for every
// child vertex, the parent vertex it sits on; the maps of higher dimensional
// elements are derived from it. Several child vertices may share a parent
// vertex.
func (g *Manager) RegisterChild(parent, child mesh.Mesh, childVertexToParent []int64) error {
	p, err := g.node(parent)
	if err != nil {
		return err
	}
	if g.Contains(child) {
		return ErrAlreadyRegistered
	}
	if child.TopCellDimension() > parent.TopCellDimension() {
		return ErrDimensionMismatch
	}
	if int64(len(childVertexToParent)) != child.Capacity(mesh.Vertex) {
		return fmt.Errorf("%w: %d vertex entries for %d child vertices", ErrInvalidMap, len(childVertexToParent), child.Capacity(mesh.Vertex))
	}

	for v, pv := range childVertexToParent {
		if child.IsRemoved(mesh.Vertex, int64(v)) {
			continue
		}
		if pv < 0 || pv >= parent.Capacity(mesh.Vertex) || parent.IsRemoved(mesh.Vertex, pv) {
			return fmt.Errorf("%w: child vertex %d maps to missing parent vertex %d", ErrInvalidMap, v, pv)
		}
	}

	n := &node{m: child, parent: p, index: len(p.children)}
	pids := make([][]int64, n.top()+1)
	for pt := mesh.Vertex; pt <= n.top(); pt++ {
		pids[pt] = make([]int64, child.Capacity(pt))
		uses := make(map[int64]int)
		for id := range pids[pt] {
			pids[pt][id] = -1
			if child.IsRemoved(pt, int64(id)) {
				continue
			}
			verts := mesh.VertexIDs(child, mesh.NewSimplex(pt, child.TupleFromID(pt, int64(id))))
			pverts := make([]int64, len(verts))
			for i, v := range verts {
				pverts[i] = childVertexToParent[v]
			}
			ps, ok := mesh.FindSimplex(parent, pt, pverts)
			if !ok {
				return fmt.Errorf("%w: child %s %d spans %v which is not a parent %s", ErrInvalidMap, pt, id, pverts, pt)
			}
			pid := mesh.SimplexID(parent, ps)
			if uses[pid]++; uses[pid] > maxChildren {
				return fmt.Errorf("%w: parent %s %d has more than %d child elements", ErrInvalidMap, pt, pid, maxChildren)
			}
			pids[pt][id] = pid
		}
	}

	if err := g.registerMaps(n); err != nil {
		return err
	}
	for pt := mesh.Vertex; pt <= n.top(); pt++ {
		toParent := mesh.CreateAccessor(child, n.toParent[pt])
		for id, pid := range pids[pt] {
			if pid < 0 {
				continue
			}
			toParent.SetScalarAt(int64(id), pid)
			if err := g.addChildSlot(n, pt, pid, int64(id)); err != nil {
				return err
			}
		}
	}
	g.link(n)
	g.logger.Debug("registered child mesh", "parent", parent.Identity().String(), "child", child.Identity().String(), "index", n.index)
	return nil
}

// AttachChild restores the relation between parent and child from map
// attributes that are already present, for example after both meshes were
// loaded from storage.
func (g *Manager) AttachChild(parent, child mesh.Mesh) error {
	p, err := g.node(parent)
	if err != nil {
		return err
	}
	if g.Contains(child) {
		return ErrAlreadyRegistered
	}
	n := &node{m: child, parent: p, index: len(p.children)}
	for pt := mesh.Vertex; pt <= n.top(); pt++ {
		hp, err := mesh.GetAttributeHandle[int64](child, parentMapName(pt), pt)
		if err != nil {
			return err
		}
		hc, err := mesh.GetAttributeHandle[int64](parent, childMapName(n.index, pt), pt)
		if err != nil {
			return err
		}
		n.toParent = append(n.toParent, hp)
		n.toChild = append(n.toChild, hc)
	}
	g.link(n)
	if !g.isEdgeValid(n) {
		g.unlink(n)
		return fmt.Errorf("%w: stored maps are inconsistent", ErrInvalidMap)
	}
	return nil
}

func (g *Manager) link(n *node) {
	n.parent.children = append(n.parent.children, n)
	g.nodes[n.m.Identity()] = n
}

func (g *Manager) unlink(n *node) {
	n.parent.children = n.parent.children[:len(n.parent.children)-1]
	delete(g.nodes, n.m.Identity())
}

func (g *Manager) registerMaps(n *node) error {
	for pt := mesh.Vertex; pt <= n.top(); pt++ {
		hp, err := mesh.RegisterInternalAttribute[int64](n.m, parentMapName(pt), pt, 1, -1)
		if err != nil {
			return err
		}
		hc, err := mesh.RegisterInternalAttribute[int64](n.parent.m, childMapName(n.index, pt), pt, maxChildren, -1)
		if err != nil {
			return err
		}
		n.toParent = append(n.toParent, hp)
		n.toChild = append(n.toChild, hc)
	}
	return nil
}

// parentVertices maps the vertices of a child simplex to parent vertices.
func (g *Manager) parentVertices(n *node, verts []int64) []int64 {
	acc := mesh.CreateConstAccessor(n.m, n.toParent[mesh.Vertex])
	out := make([]int64, len(verts))
	for i, v := range verts {
		out[i] = acc.ScalarAt(v)
	}
	return out
}

func (g *Manager) addChildSlot(n *node, pt mesh.PrimitiveType, pid, cid int64) error {
	acc := mesh.CreateAccessor(n.parent.m, n.toChild[pt])
	slots := acc.VectorAt(pid)
	for j, s := range slots {
		if s == cid {
			return nil
		}
		if s < 0 {
			acc.SetComponentAt(pid, j, cid)
			return nil
		}
	}
	return fmt.Errorf("%w: parent %s %d has more than %d child elements", ErrInvalidMap, pt, pid, maxChildren)
}

// ExtractChild builds a child mesh from the parent elements of type pt whose
// tag equals value and registers it. The child vertices are numbered in the
// order of the parent vertices they sit on.
func (g *Manager) ExtractChild(parent mesh.Mesh, pt mesh.PrimitiveType, tag mesh.AttributeHandle[int64], value int64, opts ...mesh.Option) (mesh.Mesh, error) {
	if _, err := g.node(parent); err != nil {
		return nil, err
	}
	if pt > parent.TopSimplexType() {
		return nil, ErrDimensionMismatch
	}
	acc := mesh.CreateConstAccessor(parent, tag)
	var cells [][]int64
	used := map[int64]bool{}
	for id := int64(0); id < parent.Capacity(pt); id++ {
		if parent.IsRemoved(pt, id) || acc.ScalarAt(id) != value {
			continue
		}
		verts := mesh.VertexIDs(parent, mesh.NewSimplex(pt, parent.TupleFromID(pt, id)))
		for _, v := range verts {
			used[v] = true
		}
		cells = append(cells, verts)
	}

	var toParent []int64
	local := map[int64]int64{}
	for v := int64(0); v < parent.Capacity(mesh.Vertex); v++ {
		if used[v] {
			local[v] = int64(len(toParent))
			toParent = append(toParent, v)
		}
	}
	for _, c := range cells {
		for i, v := range c {
			c[i] = local[v]
		}
	}

	child, err := buildMesh(pt, int64(len(toParent)), cells, opts)
	if err != nil {
		return nil, err
	}
	if err := g.RegisterChild(parent, child, toParent); err != nil {
		return nil, err
	}
	return child, nil
}

func buildMesh(pt mesh.PrimitiveType, nv int64, cells [][]int64, opts []mesh.Option) (mesh.Mesh, error) {
	switch pt {
	case mesh.Vertex:
		return mesh.NewPointMesh(nv, opts...), nil
	case mesh.Edge:
		m := mesh.NewEdgeMesh(opts...)
		ev := make([][2]int64, len(cells))
		for i, c := range cells {
			ev[i] = [2]int64{c[0], c[1]}
		}
		return m, m.Initialize(ev)
	case mesh.Triangle:
		m := mesh.NewTriMesh(opts...)
		fv := make([][3]int64, len(cells))
		for i, c := range cells {
			fv[i] = [3]int64{c[0], c[1], c[2]}
		}
		return m, m.Initialize(fv)
	default:
		m := mesh.NewTetMesh(opts...)
		tv := make([][4]int64, len(cells))
		for i, c := range cells {
			tv[i] = [4]int64{c[0], c[1], c[2], c[3]}
		}
		return m, m.Initialize(tv)
	}
}
