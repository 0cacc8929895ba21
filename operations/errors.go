package operations

import "errors"

var (
	// ErrMissingPredicate is returned when CopyFromPredicate is configured
	// without a predicate.
	ErrMissingPredicate = errors.New("operations: strategy needs a predicate")

	// ErrForeignMesh is returned when an attribute key names a mesh the
	// operation does not edit.
	ErrForeignMesh = errors.New("operations: attribute belongs to a mesh outside the operation")
)
