package timewarp

import (
	"math"
)

// CurveOrder classifies the effective polynomial degree of a cubic Bézier
// segment. Downstream algorithms special-case low orders to avoid dividing
// by vanishing coefficients during inversion.
type CurveOrder int

const (
	// OrderDegenerate is a segment whose polynomial is constant.
	OrderDegenerate CurveOrder = iota
	OrderLinear
	OrderQuadratic
	OrderCubic
)

// segmentReduce4 performs one de Casteljau step over four control points,
// linearly interpolating each adjacent pair at parameter u.
func segmentReduce4(u float64, p0, p1, p2, p3 ControlPoint) (ControlPoint, ControlPoint, ControlPoint) {
	return p0.Lerp(p1, u), p1.Lerp(p2, u), p2.Lerp(p3, u)
}

func segmentReduce3(u float64, p0, p1, p2 ControlPoint) (ControlPoint, ControlPoint) {
	return p0.Lerp(p1, u), p1.Lerp(p2, u)
}

func segmentReduce2(u float64, p0, p1 ControlPoint) ControlPoint {
	return p0.Lerp(p1, u)
}

// Dual-number overloads of the reduction steps. Evaluating with the
// parameter as the variable of differentiation yields the tangent of the
// evaluated point with respect to u in the same pass.

func segmentReduce4Dual(u Dual, p0, p1, p2, p3 DualPoint) (DualPoint, DualPoint, DualPoint) {
	return p0.LerpDual(p1, u), p1.LerpDual(p2, u), p2.LerpDual(p3, u)
}

func segmentReduce3Dual(u Dual, p0, p1, p2 DualPoint) (DualPoint, DualPoint) {
	return p0.LerpDual(p1, u), p1.LerpDual(p2, u)
}

func segmentReduce2Dual(u Dual, p0, p1 DualPoint) DualPoint {
	return p0.LerpDual(p1, u)
}

// EvaluateBezier0 evaluates a cubic Bézier whose first control value is
// fixed at zero:
//
//	B(u) = u³p3 − 3u²(u−1)p2 + 3u(u−1)²p1
//
// Root finding operates on this form after shifting a segment so that its
// first control value is zero.
func EvaluateBezier0(u, p1, p2, p3 float64) float64 {
	omu := u - 1
	return u*u*u*p3 - 3*u*u*omu*p2 + 3*u*omu*omu*p1
}

// findUMaxIterations bounds the Illinois iteration. The bracket at least
// halves every other step, so 45 iterations exhaust double precision.
const findUMaxIterations = 45

// FindU finds u in [0, 1] with B(u) = x for the zero-based cubic
// (0, p1, p2, p3), which must be monotonically nondecreasing. Callers are
// responsible for pre-splitting non-monotonic segments on their critical
// points.
//
// Boundary policy: x <= 0 yields 0, x >= p3 yields 1.
//
// The root finder is the Illinois method, a modified regula falsi: keep a
// bracketing pair, step to the secant estimate, and when the new sample
// falls on the same side as the retained bound twice in a row, halve that
// bound's weight so the bracket is guaranteed to shrink. Iteration stops at
// a tie, when the bracket width drops below 2·dblEpsilon, or after
// [findUMaxIterations] steps, returning the bound with the smaller residual.
func FindU(x, p1, p2, p3 float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= p3 {
		return 1
	}

	u1, u2 := 0.0, 1.0
	x1 := -x      // residual at u = 0, where B = 0
	x2 := p3 - x  // residual at u = 1, where B = p3
	side := 0

	for iter := 0; iter < findUMaxIterations; iter++ {
		u3 := u2 - x2*(u2-u1)/(x2-x1)
		x3 := EvaluateBezier0(u3, p1, p2, p3) - x
		if x3 == 0 {
			return u3
		}
		if x2*x3 < 0 {
			// x3 brackets with the retained upper bound; rotate.
			u1, x1 = u2, x2
			side = 0
		} else if side == 1 {
			// Same side twice in a row: halve the stale bound's weight.
			x1 *= 0.5
		} else {
			side = 1
		}
		u2, x2 = u3, x3
		if math.Abs(u2-u1) < 2*dblEpsilon {
			return u2
		}
	}

	tracer().Debugf("findU exhausted %d iterations at x=%g", findUMaxIterations, x)
	if math.Abs(x1) < math.Abs(x2) {
		return u1
	}
	return u2
}

// ActualOrder classifies the cubic through the control values p0..p3 by
// testing the cubic, then the quadratic, then the linear polynomial
// coefficient against epsilon, in that order.
func ActualOrder(p0, p1, p2, p3 float64) CurveOrder {
	a := p3 - 3*p2 + 3*p1 - p0
	b := 3*p2 - 6*p1 + 3*p0
	c := 3*p1 - 3*p0
	switch {
	case !Ordinate(a).IsZero():
		return OrderCubic
	case !Ordinate(b).IsZero():
		return OrderQuadratic
	case !Ordinate(c).IsZero():
		return OrderLinear
	default:
		return OrderDegenerate
	}
}

// SolveQuadratic finds real roots of c0 + c1·x + c2·x² = 0.
//
// The function tries to be numerically robust: a nearly linear equation is
// solved as linear, ignoring the quadratic term, and in the fully degenerate
// case where every x satisfies the equation a single 0 is returned.
func SolveQuadratic(c0, c1, c2 float64) ([2]float64, int) {
	sc0 := c0 / c2
	sc1 := c1 / c2
	if math.IsInf(sc0, 0) || math.IsInf(sc1, 0) {
		// c2 is zero or very small, treat as a linear equation
		root := -c0 / c1
		if !math.IsInf(root, 0) {
			return [2]float64{root}, 1
		} else if c0 == 0.0 && c1 == 0.0 {
			return [2]float64{0}, 1
		}
		return [2]float64{}, 0
	}
	arg := sc1*sc1 - 4.0*sc0
	var root1 float64
	if math.IsInf(arg, 0) {
		// sc1 * sc1 likely overflowed. Find one root using sc1·x + x² = 0,
		// the other as sc0 / root1.
		root1 = -sc1
	} else {
		if arg < 0.0 {
			return [2]float64{}, 0
		} else if arg == 0.0 {
			return [2]float64{-0.5 * sc1}, 1
		}
		// See https://math.stackexchange.com/questions/866331
		root1 = -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	}
	root2 := sc0 / root1
	if !math.IsInf(root2, 0) {
		if root2 > root1 {
			return [2]float64{root1, root2}, 2
		}
		return [2]float64{root2, root1}, 2
	}
	return [2]float64{root1}, 1
}
