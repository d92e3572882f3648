package timewarp

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance applied to all ordinate comparisons.
//
// Composing mappings across many layers of editorial nesting accumulates
// floating-point round-off; comparing ordinates with raw equality would make
// right-met boundaries drift apart. Every comparison in this package goes
// through this epsilon.
const Epsilon = 1e-9

// dblEpsilon is the smallest x > 0 such that 1 + x != 1 in float64
// arithmetic. Root finding terminates when a bracket shrinks below twice
// this value.
const dblEpsilon = 2.220446049250313e-16

// Ordinate is a scalar coordinate in either the input or the output space of
// a mapping. Arithmetic uses the ordinary operators; all comparisons must go
// through the epsilon methods.
type Ordinate float64

// Ord returns v as an ordinate.
func Ord(v float64) Ordinate {
	return Ordinate(v)
}

func (o Ordinate) String() string {
	return fmt.Sprintf("%g", float64(o))
}

// Eql reports whether o and t are equal within [Epsilon].
func (o Ordinate) Eql(t Ordinate) bool {
	return math.Abs(float64(o-t)) <= Epsilon
}

// Lt reports whether o is less than t by more than [Epsilon].
func (o Ordinate) Lt(t Ordinate) bool {
	return o < t && !o.Eql(t)
}

// LtEql reports whether o is less than or epsilon-equal to t.
func (o Ordinate) LtEql(t Ordinate) bool {
	return o < t || o.Eql(t)
}

// Gt reports whether o is greater than t by more than [Epsilon].
func (o Ordinate) Gt(t Ordinate) bool {
	return o > t && !o.Eql(t)
}

// GtEql reports whether o is greater than or epsilon-equal to t.
func (o Ordinate) GtEql(t Ordinate) bool {
	return o > t || o.Eql(t)
}

// IsZero reports whether o is within [Epsilon] of zero.
func (o Ordinate) IsZero() bool {
	return math.Abs(float64(o)) <= Epsilon
}

func (o Ordinate) IsInf() bool {
	return math.IsInf(float64(o), 0)
}

func (o Ordinate) IsNaN() bool {
	return math.IsNaN(float64(o))
}

func (o Ordinate) Add(t Ordinate) Ordinate { return o + t }
func (o Ordinate) Sub(t Ordinate) Ordinate { return o - t }
func (o Ordinate) Mul(t Ordinate) Ordinate { return o * t }

// Div divides o by t. Dividing by an epsilon-zero denominator is a
// degenerate-value error.
func (o Ordinate) Div(t Ordinate) (Ordinate, error) {
	if t.IsZero() {
		return 0, fmt.Errorf("dividing ordinate %v: %w", o, ErrDivisionByZero)
	}
	return o / t, nil
}

func (o Ordinate) Abs() Ordinate {
	return Ordinate(math.Abs(float64(o)))
}

func (o Ordinate) Min(t Ordinate) Ordinate {
	return Ordinate(math.Min(float64(o), float64(t)))
}

func (o Ordinate) Max(t Ordinate) Ordinate {
	return Ordinate(math.Max(float64(o), float64(t)))
}
