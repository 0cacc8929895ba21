package multimesh

import "errors"

var (
	// ErrNotInManager is returned for a mesh the manager does not own.
	ErrNotInManager = errors.New("multimesh: mesh not in manager")

	// ErrAlreadyRegistered is returned when a mesh is registered twice.
	ErrAlreadyRegistered = errors.New("multimesh: mesh already registered")

	// ErrDimensionMismatch is returned when a child has a higher dimension than its parent.
	ErrDimensionMismatch = errors.New("multimesh: child dimension exceeds parent dimension")

	// ErrInvalidMap is returned when a child element has no image in its parent
	// or a parent element would map to more than two child elements.
	ErrInvalidMap = errors.New("multimesh: invalid map")
)
