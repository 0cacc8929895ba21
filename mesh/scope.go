package mesh

// Scope is a transaction over every attribute of a mesh. Writes made while the
// scope is the innermost one are buffered; Commit merges them into the
// enclosing scope (or the attribute storage) and Close discards them unless the
// scope was committed. Capacities are restored on discard.
//
//	scope := m.CreateScope()
//	defer scope.Close()
//	// ... edit ...
//	if ok {
//		scope.Commit()
//	}
type Scope struct {
	m        *meshBase
	caps     [maxDimension + 1]int64
	depth    int
	finished bool
}

// CreateScope implements Mesh.
func (m *meshBase) CreateScope() *Scope {
	for _, a := range m.attrs {
		a.pushScope()
	}
	s := &Scope{m: m, caps: m.caps, depth: len(m.scopes) + 1}
	m.scopes = append(m.scopes, s)
	return s
}

// Commit keeps the writes of the scope.
func (s *Scope) Commit() {
	s.finish(true)
}

// Close discards the writes of the scope unless it was committed. It is safe
// to call more than once.
func (s *Scope) Close() {
	s.finish(false)
}

// Depth returns the nesting depth of the scope (1 for the outermost).
func (s *Scope) Depth() int {
	return s.depth
}

func (s *Scope) finish(commit bool) {
	if s.finished {
		return
	}
	m := s.m
	if len(m.scopes) == 0 || m.scopes[len(m.scopes)-1] != s {
		panic(newStructuralError("scope", "scopes must be closed innermost first"))
	}
	for _, a := range m.attrs {
		a.popScope(commit)
	}
	if !commit {
		m.caps = s.caps
	}
	m.scopes = m.scopes[:len(m.scopes)-1]
	s.finished = true
}

// ScopeDepth returns the number of open scopes on m.
func ScopeDepth(m Mesh) int {
	return len(m.core().scopes)
}
