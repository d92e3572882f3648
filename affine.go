package timewarp

import (
	"fmt"
)

// AffineTransform1D maps ordinates by a scale followed by an offset:
//
//	f(x) = Scale*x + Offset
//
// The composition convention follows matrix application order: (A.Mul(B))(x)
// == A(B(x)).
type AffineTransform1D struct {
	Offset Ordinate
	Scale  Ordinate
}

// IdentityTransform maps every ordinate to itself.
var IdentityTransform = AffineTransform1D{Offset: 0, Scale: 1}

// TransformOf returns the transform x -> scale*x + offset.
func TransformOf(offset, scale float64) AffineTransform1D {
	return AffineTransform1D{Offset: Ordinate(offset), Scale: Ordinate(scale)}
}

func (aff AffineTransform1D) String() string {
	return fmt.Sprintf("(x*%v + %v)", aff.Scale, aff.Offset)
}

// Applied evaluates the transform at x.
func (aff AffineTransform1D) Applied(x Ordinate) Ordinate {
	return aff.Scale*x + aff.Offset
}

// AppliedToDual evaluates the transform over a dual, scaling the derivative.
func (aff AffineTransform1D) AppliedToDual(x Dual) Dual {
	return Dual{
		Real: float64(aff.Scale)*x.Real + float64(aff.Offset),
		Inf:  float64(aff.Scale) * x.Inf,
	}
}

// Mul composes two transforms: aff.Mul(o).Applied(x) == aff.Applied(o.Applied(x)).
func (aff AffineTransform1D) Mul(o AffineTransform1D) AffineTransform1D {
	return AffineTransform1D{
		Offset: aff.Scale*o.Offset + aff.Offset,
		Scale:  aff.Scale * o.Scale,
	}
}

// Inverted returns the inverse transform. A zero-scale transform is not
// invertible.
func (aff AffineTransform1D) Inverted() (AffineTransform1D, error) {
	if aff.Scale.IsZero() {
		return AffineTransform1D{}, fmt.Errorf("inverting transform %v: %w", aff, ErrDivisionByZero)
	}
	return AffineTransform1D{
		Offset: -aff.Offset / aff.Scale,
		Scale:  1 / aff.Scale,
	}, nil
}

// AppliedToInterval maps an interval through the transform. A negative scale
// reverses the endpoints so the result stays ordered.
func (aff AffineTransform1D) AppliedToInterval(ci ContinuousInterval) ContinuousInterval {
	a := aff.Applied(ci.Start)
	b := aff.Applied(ci.End)
	if b < a {
		a, b = b, a
	}
	return ContinuousInterval{Start: a, End: b}
}

// IsIdentity reports whether the transform is the identity within epsilon.
func (aff AffineTransform1D) IsIdentity() bool {
	return aff.Scale.Eql(1) && aff.Offset.IsZero()
}

func (aff AffineTransform1D) IsNaN() bool {
	return aff.Offset.IsNaN() || aff.Scale.IsNaN()
}
