package multimesh

import "github.com/hupe1980/meshkit/mesh"

// Scope is a transaction over every mesh of a Manager.
type Scope struct {
	scopes []*mesh.Scope
}

// CreateScope opens a scope on every mesh of the tree.
func (g *Manager) CreateScope() *Scope {
	s := &Scope{}
	for _, m := range g.Meshes() {
		s.scopes = append(s.scopes, m.CreateScope())
	}
	return s
}

// Commit keeps the writes made to every mesh.
func (s *Scope) Commit() {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		s.scopes[i].Commit()
	}
}

// Close discards the writes unless the scope was committed.
func (s *Scope) Close() {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		s.scopes[i].Close()
	}
}

// Meshes returns the number of meshes the scope covers.
func (s *Scope) Meshes() int {
	return len(s.scopes)
}
