package timewarp

import (
	"fmt"
	"math"
)

// ControlPoint pairs an input ordinate with an output ordinate. It is the
// atomic unit every curve in this package is built from: a knot of a linear
// curve, or one of the four control points of a Bézier segment.
//
// ControlPoint is an immutable value type.
type ControlPoint struct {
	In  Ordinate
	Out Ordinate
}

// Cp returns the control point (in, out).
func Cp(in, out float64) ControlPoint {
	return ControlPoint{In: Ordinate(in), Out: Ordinate(out)}
}

func (p ControlPoint) String() string {
	return fmt.Sprintf("(%v, %v)", p.In, p.Out)
}

// Eql reports component-wise epsilon equality.
func (p ControlPoint) Eql(o ControlPoint) bool {
	return p.In.Eql(o.In) && p.Out.Eql(o.Out)
}

func (p ControlPoint) Add(o ControlPoint) ControlPoint {
	return ControlPoint{In: p.In + o.In, Out: p.Out + o.Out}
}

func (p ControlPoint) Sub(o ControlPoint) ControlPoint {
	return ControlPoint{In: p.In - o.In, Out: p.Out - o.Out}
}

// Mul multiplies component-wise.
func (p ControlPoint) Mul(o ControlPoint) ControlPoint {
	return ControlPoint{In: p.In * o.In, Out: p.Out * o.Out}
}

// MulScalar scales both components by s.
func (p ControlPoint) MulScalar(s float64) ControlPoint {
	return ControlPoint{In: p.In * Ordinate(s), Out: p.Out * Ordinate(s)}
}

// Div divides component-wise. Either component of o being epsilon-zero is a
// degenerate-value error.
func (p ControlPoint) Div(o ControlPoint) (ControlPoint, error) {
	if o.In.IsZero() || o.Out.IsZero() {
		return ControlPoint{}, fmt.Errorf("dividing control point %v by %v: %w", p, o, ErrDivisionByZero)
	}
	return ControlPoint{In: p.In / o.In, Out: p.Out / o.Out}, nil
}

// Lerp linearly interpolates between p and o.
//
// At t == 1 the result is exactly o; de Casteljau reduction relies on the
// boundary values being reproduced without round-off.
func (p ControlPoint) Lerp(o ControlPoint, t float64) ControlPoint {
	s := Ordinate(1.0 - t)
	u := Ordinate(t)
	return ControlPoint{
		In:  p.In*s + o.In*u,
		Out: p.Out*s + o.Out*u,
	}
}

// Midpoint returns the midpoint of p and o.
func (p ControlPoint) Midpoint(o ControlPoint) ControlPoint {
	return ControlPoint{
		In:  0.5 * (p.In + o.In),
		Out: 0.5 * (p.Out + o.Out),
	}
}

// Distance returns the euclidean distance between p and o.
func (p ControlPoint) Distance(o ControlPoint) Ordinate {
	return Ordinate(math.Hypot(float64(p.In-o.In), float64(p.Out-o.Out)))
}

// Hypot2 returns the squared distance of p from the origin.
func (p ControlPoint) Hypot2() Ordinate {
	return p.In*p.In + p.Out*p.Out
}

// Cross returns the cross product of p and o interpreted as vectors.
//
// This is the signed area of the parallelogram they span, used by the
// inflection-point test.
func (p ControlPoint) Cross(o ControlPoint) Ordinate {
	return p.In*o.Out - p.Out*o.In
}

// Normalized returns p scaled to unit length. A zero-length point is a
// degenerate-value error.
func (p ControlPoint) Normalized() (ControlPoint, error) {
	h := math.Hypot(float64(p.In), float64(p.Out))
	if Ordinate(h).IsZero() {
		return ControlPoint{}, fmt.Errorf("normalizing zero-length control point: %w", ErrDivisionByZero)
	}
	return p.MulScalar(1 / h), nil
}

func (p ControlPoint) IsInf() bool {
	return p.In.IsInf() || p.Out.IsInf()
}

func (p ControlPoint) IsNaN() bool {
	return p.In.IsNaN() || p.Out.IsNaN()
}
