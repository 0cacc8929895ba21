package mesh

import "fmt"

// PrimitiveType identifies the dimension of a mesh element.
type PrimitiveType int8

const (
	// Vertex is a 0-simplex.
	Vertex PrimitiveType = iota
	// Edge is a 1-simplex.
	Edge
	// Triangle is a 2-simplex.
	Triangle
	// Tetrahedron is a 3-simplex.
	Tetrahedron
)

const maxDimension = 3

// PrimitiveFromDimension returns the primitive type of dimension d.
func PrimitiveFromDimension(d int) PrimitiveType {
	if d < 0 || d > maxDimension {
		panic(newStructuralError("primitive", fmt.Sprintf("dimension %d out of range", d)))
	}
	return PrimitiveType(d)
}

// Dimension returns the simplex dimension (0 for vertices).
func (pt PrimitiveType) Dimension() int {
	return int(pt)
}

// String implements fmt.Stringer.
func (pt PrimitiveType) String() string {
	switch pt {
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	case Triangle:
		return "triangle"
	case Tetrahedron:
		return "tetrahedron"
	default:
		return fmt.Sprintf("primitive(%d)", int8(pt))
	}
}
