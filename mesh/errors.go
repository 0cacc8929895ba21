package mesh

import (
	"errors"
	"fmt"
)

var (
	// ErrAttributeExists is returned when an attribute name is registered twice for one primitive type.
	ErrAttributeExists = errors.New("attribute already exists")
	// ErrAttributeNotFound is returned when an attribute lookup fails.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrTypeMismatch is returned when an attribute is requested with the wrong value type or stride.
	ErrTypeMismatch = errors.New("attribute type mismatch")
	// ErrReservedName is returned when a user attribute uses a name reserved for mesh bookkeeping.
	ErrReservedName = errors.New("reserved attribute name")
	// ErrScopeActive is returned for calls that require no open transaction scope.
	ErrScopeActive = errors.New("transaction scope active")
	// ErrInvalidPrimitive is returned for primitive types the mesh does not have.
	ErrInvalidPrimitive = errors.New("invalid primitive type")
	// ErrDegenerateCell is returned when a cell repeats a vertex or has the wrong arity.
	ErrDegenerateCell = errors.New("degenerate cell")
	// ErrNonManifold is returned when a facet is shared by more than two cells.
	ErrNonManifold = errors.New("non-manifold facet")
	// ErrInvalidVertex is returned for negative or unreferenced vertex ids.
	ErrInvalidVertex = errors.New("invalid vertex")
	// ErrAlreadyInitialized is returned when Initialize is called on a non-empty mesh.
	ErrAlreadyInitialized = errors.New("mesh already initialized")
	// ErrInvalidStream is returned by the Loader when records arrive out of order.
	ErrInvalidStream = errors.New("invalid mesh stream")
)

// TopologyError describes why a cell list could not be turned into a mesh.
type TopologyError struct {
	Cell   int
	Detail string
	cause  error
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("cell %d: %v: %s", e.Cell, e.cause, e.Detail)
}

func (e *TopologyError) Unwrap() error {
	return e.cause
}

// StructuralError is the panic value for internal defects: corrupted tables,
// unresolvable handles, switching across a boundary facet or misuse of scopes.
// These are programming errors and are never returned as ordinary errors.
type StructuralError struct {
	Op     string
	Detail string
}

func newStructuralError(op, detail string) *StructuralError {
	return &StructuralError{Op: op, Detail: detail}
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("mesh: structural defect in %s: %s", e.Op, e.Detail)
}
