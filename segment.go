package timewarp

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// maxLinearizeDepth caps recursive adaptive subdivision. Each level halves
// the parameter interval; numerically flat-but-not-linear inputs would
// otherwise recurse without bound for pathological tolerances.
const maxLinearizeDepth = 20

// BezierSegment is one cubic Bézier piece, defined by four control points
// with P0.In <= P3.In.
//
// A segment is not guaranteed monotonic by construction, in either axis.
// Monotonicity is established by [BezierSegment.SplitOnCriticalPoints]
// before a segment is treated as invertible.
type BezierSegment struct {
	P0 ControlPoint
	P1 ControlPoint
	P2 ControlPoint
	P3 ControlPoint
}

// Seg returns the segment through the four control points.
func Seg(p0, p1, p2, p3 ControlPoint) BezierSegment {
	return BezierSegment{P0: p0, P1: p1, P2: p2, P3: p3}
}

// LinearSegment returns the cubic that traces the straight line from p0 to
// p3, with interior control points at the thirds.
func LinearSegment(p0, p3 ControlPoint) BezierSegment {
	return BezierSegment{
		P0: p0,
		P1: p0.Lerp(p3, 1.0/3.0),
		P2: p0.Lerp(p3, 2.0/3.0),
		P3: p3,
	}
}

func (s BezierSegment) String() string {
	return fmt.Sprintf("bezier{%v %v %v %v}", s.P0, s.P1, s.P2, s.P3)
}

func (s BezierSegment) Points() [4]ControlPoint {
	return [4]ControlPoint{s.P0, s.P1, s.P2, s.P3}
}

func (s BezierSegment) IsNaN() bool {
	return s.P0.IsNaN() || s.P1.IsNaN() || s.P2.IsNaN() || s.P3.IsNaN()
}

// Eval evaluates the segment at parameter u by three-level de Casteljau
// reduction: cubic to quadratic to linear to point.
//
// The boundaries are exact: Eval(0) == P0 and Eval(1) == P3. Parameters
// outside [0, 1] clamp to the corresponding endpoint.
func (s BezierSegment) Eval(u float64) ControlPoint {
	if u <= 0 {
		return s.P0
	}
	if u >= 1 {
		return s.P3
	}
	a, b, c := segmentReduce4(u, s.P0, s.P1, s.P2, s.P3)
	d, e := segmentReduce3(u, a, b, c)
	return segmentReduce2(u, d, e)
}

// EvalDual evaluates the segment at u with the parameter as the variable of
// differentiation. The result's Real is the evaluated point and its Inf is
// the tangent vector at u.
func (s BezierSegment) EvalDual(u float64) DualPoint {
	du := DualVar(u)
	p0 := DualPointOf(s.P0)
	p1 := DualPointOf(s.P1)
	p2 := DualPointOf(s.P2)
	p3 := DualPointOf(s.P3)
	a, b, c := segmentReduce4Dual(du, p0, p1, p2, p3)
	d, e := segmentReduce3Dual(du, a, b, c)
	return segmentReduce2Dual(du, d, e)
}

// ExtentsInput returns the input interval [P0.In, P3.In).
func (s BezierSegment) ExtentsInput() ContinuousInterval {
	return ContinuousInterval{Start: s.P0.In, End: s.P3.In}
}

// ExtentsOutput returns the output range of the segment over u in [0, 1],
// sampling the endpoints and the interior output-axis extrema.
func (s BezierSegment) ExtentsOutput() ContinuousInterval {
	lo := s.P0.Out.Min(s.P3.Out)
	hi := s.P0.Out.Max(s.P3.Out)
	d0 := float64(s.P1.Out - s.P0.Out)
	d1 := float64(s.P2.Out - s.P1.Out)
	d2 := float64(s.P3.Out - s.P2.Out)
	roots, n := SolveQuadratic(d0, 2*(d1-d0), d0-2*d1+d2)
	for _, t := range roots[:n] {
		if t > 0 && t < 1 {
			v := s.Eval(t).Out
			lo, hi = lo.Min(v), hi.Max(v)
		}
	}
	return ContinuousInterval{Start: lo, End: hi}
}

// FindUForInput finds the parameter at which the segment's input coordinate
// equals x. The segment is shifted so its input starts at zero and the
// zero-based root finder does the rest. The segment must be monotonic in
// input.
func (s BezierSegment) FindUForInput(x Ordinate) float64 {
	return FindU(
		float64(x-s.P0.In),
		float64(s.P1.In-s.P0.In),
		float64(s.P2.In-s.P0.In),
		float64(s.P3.In-s.P0.In),
	)
}

// FindUForOutput finds the parameter at which the segment's output
// coordinate equals y. The segment must be monotonically nondecreasing in
// output.
func (s BezierSegment) FindUForOutput(y Ordinate) float64 {
	return FindU(
		float64(y-s.P0.Out),
		float64(s.P1.Out-s.P0.Out),
		float64(s.P2.Out-s.P0.Out),
		float64(s.P3.Out-s.P0.Out),
	)
}

// OutputAtInput evaluates the segment at the input ordinate x.
func (s BezierSegment) OutputAtInput(x Ordinate) Ordinate {
	return s.Eval(s.FindUForInput(x)).Out
}

// OrderInput classifies the effective polynomial degree of the input
// coordinate over u.
func (s BezierSegment) OrderInput() CurveOrder {
	return ActualOrder(float64(s.P0.In), float64(s.P1.In), float64(s.P2.In), float64(s.P3.In))
}

// OrderOutput classifies the effective polynomial degree of the output
// coordinate over u.
func (s BezierSegment) OrderOutput() CurveOrder {
	return ActualOrder(float64(s.P0.Out), float64(s.P1.Out), float64(s.P2.Out), float64(s.P3.Out))
}

// SplitAt subdivides the segment exactly at parameter u using de Casteljau,
// returning the two halves, which share the evaluated point at u.
//
// A u within epsilon of either boundary is an expected condition in
// iterative algorithms and yields ok == false with the segment unchanged,
// so callers never receive a sliver piece.
func (s BezierSegment) SplitAt(u float64) (left, right BezierSegment, ok bool) {
	if u < Epsilon || u > 1-Epsilon {
		return s, s, false
	}
	q0, q1, q2 := segmentReduce4(u, s.P0, s.P1, s.P2, s.P3)
	r0, r1 := segmentReduce3(u, q0, q1, q2)
	mid := segmentReduce2(u, r0, r1)
	left = BezierSegment{P0: s.P0, P1: q0, P2: r0, P3: mid}
	right = BezierSegment{P0: mid, P1: r1, P2: q2, P3: s.P3}
	return left, right, true
}

// Extrema returns the interior parameters at which either coordinate of the
// hodograph (the derivative Bézier, one degree lower) crosses zero, in
// increasing order. Up to four extrema can occur on a cubic.
func (s BezierSegment) Extrema() ([4]float64, int) {
	var out [4]float64
	var outN int
	oneCoord := func(d0, d1, d2 float64) {
		a := d0 - 2*d1 + d2
		b := 2 * (d1 - d0)
		c := d0
		roots, n := SolveQuadratic(c, b, a)
		for _, t := range roots[:n] {
			if t > 0.0 && t < 1.0 {
				out[outN] = t
				outN++
			}
		}
	}
	d0 := s.P1.Sub(s.P0)
	d1 := s.P2.Sub(s.P1)
	d2 := s.P3.Sub(s.P2)
	oneCoord(float64(d0.In), float64(d1.In), float64(d2.In))
	oneCoord(float64(d0.Out), float64(d1.Out), float64(d2.Out))
	sort.Float64s(out[:outN])
	return out, outN
}

// Inflections returns up to two interior inflection parameters, found by
// the aligned-curve cubic-coefficient test.
func (s BezierSegment) Inflections() ([2]float64, int) {
	a := s.P1.Sub(s.P0)
	b := s.P2.Sub(s.P1).Sub(a)
	c := s.P3.Sub(s.P0).Sub(s.P2.Sub(s.P1).MulScalar(3))
	roots, n := SolveQuadratic(float64(a.Cross(b)), float64(a.Cross(c)), float64(b.Cross(c)))
	var out [2]float64
	var outN int
	for _, t := range roots[:n] {
		if t > 0 && t < 1 {
			out[outN] = t
			outN++
		}
	}
	return out, outN
}

// criticalPoints returns the sorted, deduplicated union of the segment's
// extrema and inflection parameters, interior only.
func (s BezierSegment) criticalPoints() []float64 {
	ex, exN := s.Extrema()
	infl, inflN := s.Inflections()
	pts := make([]float64, 0, exN+inflN)
	pts = append(pts, ex[:exN]...)
	pts = append(pts, infl[:inflN]...)
	sort.Float64s(pts)
	return slices.CompactFunc(pts, func(a, b float64) bool {
		return math.Abs(a-b) <= Epsilon
	})
}

// SplitOnCriticalPoints subdivides the segment at every extremum and
// inflection point, so that every returned sub-segment is monotonic in both
// coordinates. This is the precondition the parameter inversion in
// [BezierSegment.FindUForInput] requires.
func (s BezierSegment) SplitOnCriticalPoints() []BezierSegment {
	pts := s.criticalPoints()
	if len(pts) == 0 {
		return []BezierSegment{s}
	}
	out := make([]BezierSegment, 0, len(pts)+1)
	rest := s
	prev := 0.0
	for _, t := range pts {
		// Re-express t in the parameter space of the remaining piece.
		local := (t - prev) / (1 - prev)
		left, right, ok := rest.SplitAt(local)
		if !ok {
			continue
		}
		out = append(out, left)
		rest = right
		prev = t
	}
	return append(out, rest)
}

// IsApproximatelyLinear reports whether the segment deviates from the
// straight line through its endpoints by no more than the tolerance,
// using the deviation vectors u = 3·P1 − 2·P0 − P3 and v = 3·P2 − 2·P3 − P0.
func (s BezierSegment) IsApproximatelyLinear(tolerance float64) bool {
	u := s.P1.MulScalar(3).Sub(s.P0.MulScalar(2)).Sub(s.P3)
	v := s.P2.MulScalar(3).Sub(s.P3.MulScalar(2)).Sub(s.P0)
	return float64(u.Hypot2().Max(v.Hypot2())) <= tolerance
}

// Linearize approximates the segment by a polyline within the tolerance,
// returning its knots. Subdivision is adaptive: a segment that is not yet
// linear enough is split at u = 0.5 and both halves recurse, concatenating
// the knot lists without the duplicated shared midpoint.
func (s BezierSegment) Linearize(tolerance float64) []ControlPoint {
	return s.linearize(tolerance, 0)
}

func (s BezierSegment) linearize(tolerance float64, depth int) []ControlPoint {
	if depth >= maxLinearizeDepth || s.IsApproximatelyLinear(tolerance) {
		return []ControlPoint{s.P0, s.P3}
	}
	left, right, ok := s.SplitAt(0.5)
	if !ok {
		return []ControlPoint{s.P0, s.P3}
	}
	knots := left.linearize(tolerance, depth+1)
	return append(knots, right.linearize(tolerance, depth+1)[1:]...)
}
