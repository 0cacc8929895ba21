package operations

import "github.com/hupe1980/meshkit/mesh"

// Operation is a local edit that can be run on single simplices.
type Operation interface {
	// Name identifies the operation in logs and metrics.
	Name() string
	// PrimitiveType is the type of the simplices Run accepts.
	PrimitiveType() mesh.PrimitiveType
	// Mesh is the mesh the input simplices belong to.
	Mesh() mesh.Mesh
	// Run edits the mesh at s. It returns nothing when the edit was not
	// applied.
	Run(s mesh.Simplex) []mesh.Simplex
	// UnmodifiedPrimitives returns the simplices of the input that Run
	// consumes. Their ids may be gone after a successful run.
	UnmodifiedPrimitives(s mesh.Simplex) []mesh.Simplex
}

var (
	_ Operation = (*EdgeSplit)(nil)
	_ Operation = (*EdgeCollapse)(nil)
	_ Operation = (*EdgeSwap)(nil)
)
