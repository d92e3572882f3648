package timewarp

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Concrete errors returned by this package wrap one of
// these, so callers can classify with [errors.Is].
var (
	// ErrOutOfBounds reports an instantaneous projection outside a
	// mapping's or topology's valid input domain.
	ErrOutOfBounds = errors.New("ordinate out of bounds")

	// ErrDivisionByZero reports an operation that would divide by an
	// epsilon-zero denominator, such as inverting a zero-scale transform
	// or normalizing a zero-length control point.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotMonotonic reports a curve whose knots or segments are not
	// strictly increasing in input where monotonicity is required.
	ErrNotMonotonic = errors.New("curve is not monotonic in input")

	// ErrInvalidCurve reports a curve that violates construction
	// invariants: unsorted or overlapping segments, or NaN control points.
	ErrInvalidCurve = errors.New("invalid curve")
)

// OutOfBoundsError carries the offending ordinate and the bounds it fell
// outside of. It wraps [ErrOutOfBounds].
type OutOfBoundsError struct {
	Ordinate Ordinate
	Bounds   ContinuousInterval
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("ordinate %v out of bounds %v", e.Ordinate, e.Bounds)
}

func (e *OutOfBoundsError) Unwrap() error {
	return ErrOutOfBounds
}
