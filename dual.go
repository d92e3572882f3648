package timewarp

import (
	"fmt"
)

// Dual is a dual number: a function value paired with its derivative at the
// same point. Running ordinary arithmetic over duals propagates derivatives
// by the product and quotient rules, so curve evaluation yields tangents
// without symbolic differentiation.
type Dual struct {
	Real float64
	Inf  float64
}

// DualOf returns r as a constant dual (zero derivative).
func DualOf(r float64) Dual {
	return Dual{Real: r}
}

// DualVar returns r as the variable of differentiation (unit derivative).
func DualVar(r float64) Dual {
	return Dual{Real: r, Inf: 1}
}

func (d Dual) Add(o Dual) Dual {
	return Dual{Real: d.Real + o.Real, Inf: d.Inf + o.Inf}
}

func (d Dual) Sub(o Dual) Dual {
	return Dual{Real: d.Real - o.Real, Inf: d.Inf - o.Inf}
}

// Mul multiplies by the product rule: (a, a')·(b, b') = (ab, ab' + a'b).
func (d Dual) Mul(o Dual) Dual {
	return Dual{
		Real: d.Real * o.Real,
		Inf:  d.Real*o.Inf + d.Inf*o.Real,
	}
}

// Div divides by the quotient rule. Dividing by an epsilon-zero real part is
// a degenerate-value error.
func (d Dual) Div(o Dual) (Dual, error) {
	if Ordinate(o.Real).IsZero() {
		return Dual{}, fmt.Errorf("dividing dual %v: %w", d, ErrDivisionByZero)
	}
	return Dual{
		Real: d.Real / o.Real,
		Inf:  (d.Inf*o.Real - d.Real*o.Inf) / (o.Real * o.Real),
	}, nil
}

func (d Dual) String() string {
	return fmt.Sprintf("(%g+%gε)", d.Real, d.Inf)
}

// DualPoint carries a control point and its component-wise derivative. It is
// the dual-number analogue of [ControlPoint], used by the de Casteljau
// reduction to evaluate a segment and its tangent in one pass.
type DualPoint struct {
	Real ControlPoint
	Inf  ControlPoint
}

// DualPointOf returns p as a constant dual point.
func DualPointOf(p ControlPoint) DualPoint {
	return DualPoint{Real: p}
}

func (d DualPoint) Add(o DualPoint) DualPoint {
	return DualPoint{Real: d.Real.Add(o.Real), Inf: d.Inf.Add(o.Inf)}
}

func (d DualPoint) Sub(o DualPoint) DualPoint {
	return DualPoint{Real: d.Real.Sub(o.Real), Inf: d.Inf.Sub(o.Inf)}
}

// MulDual scales the point by a dual scalar, applying the product rule to
// both components.
func (d DualPoint) MulDual(u Dual) DualPoint {
	return DualPoint{
		Real: d.Real.MulScalar(u.Real),
		Inf:  d.Real.MulScalar(u.Inf).Add(d.Inf.MulScalar(u.Real)),
	}
}

// LerpDual interpolates between d and o at the dual parameter u.
func (d DualPoint) LerpDual(o DualPoint, u Dual) DualPoint {
	one := DualOf(1)
	return d.MulDual(one.Sub(u)).Add(o.MulDual(u))
}
