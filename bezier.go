package timewarp

import (
	"fmt"
	"slices"
)

// TrimDirection selects which side of a trim ordinate is discarded.
type TrimDirection int

const (
	// TrimBefore discards everything before the trim ordinate, keeping
	// [x, end).
	TrimBefore TrimDirection = iota
	// TrimAfter discards everything at and after the trim ordinate,
	// keeping [start, x).
	TrimAfter
)

// BezierCurve is an ordered sequence of right-met cubic Bézier segments:
// segment i's P3.In equals segment i+1's P0.In, closed on the left and open
// on the right. The curve owns its segment slice; construction copies and
// [BezierCurve.Clone] is a deep copy.
type BezierCurve struct {
	Segments []BezierSegment
}

// BezierCurveFromSegments builds a curve from a copy of the given segments,
// validating the right-met invariant: segments sorted by input ordinate,
// non-overlapping, free of NaN control points.
func BezierCurveFromSegments(segs ...BezierSegment) (BezierCurve, error) {
	for i, seg := range segs {
		if seg.IsNaN() {
			return BezierCurve{}, fmt.Errorf("segment %d has NaN control points: %w", i, ErrInvalidCurve)
		}
		if seg.P3.In.Lt(seg.P0.In) {
			return BezierCurve{}, fmt.Errorf("segment %d input decreases: %w", i, ErrInvalidCurve)
		}
		if i > 0 && !segs[i-1].P3.In.Eql(seg.P0.In) {
			return BezierCurve{}, fmt.Errorf("segments %d and %d are not right-met: %w", i-1, i, ErrInvalidCurve)
		}
	}
	return BezierCurve{Segments: slices.Clone(segs)}, nil
}

// Clone returns a deep copy of the curve.
func (c BezierCurve) Clone() BezierCurve {
	return BezierCurve{Segments: slices.Clone(c.Segments)}
}

func (c BezierCurve) IsEmpty() bool {
	return len(c.Segments) == 0
}

func (c BezierCurve) IsNaN() bool {
	for _, seg := range c.Segments {
		if seg.IsNaN() {
			return true
		}
	}
	return false
}

// FindSegmentIndex returns the index of the segment whose half-open input
// interval contains x, by linear scan. Editorial curves carry few segments.
func (c BezierCurve) FindSegmentIndex(x Ordinate) (int, bool) {
	for i, seg := range c.Segments {
		if seg.P0.In.LtEql(x) && x < seg.P3.In && !x.Eql(seg.P3.In) {
			return i, true
		}
	}
	return 0, false
}

// ExtentsInput returns the curve's input domain, from the first segment's
// start to the last segment's end.
func (c BezierCurve) ExtentsInput() ContinuousInterval {
	if len(c.Segments) == 0 {
		return ZeroInterval
	}
	return ContinuousInterval{
		Start: c.Segments[0].P0.In,
		End:   c.Segments[len(c.Segments)-1].P3.In,
	}
}

// ExtentsOutput returns the union of every segment's output range.
func (c BezierCurve) ExtentsOutput() ContinuousInterval {
	if len(c.Segments) == 0 {
		return ZeroInterval
	}
	out := c.Segments[0].ExtentsOutput()
	for _, seg := range c.Segments[1:] {
		out = out.Extend(seg.ExtentsOutput())
	}
	return out
}

// OutputAtInput evaluates the curve at the input ordinate x. The curve's
// own upper endpoint is admitted, evaluating the final segment there;
// anything else outside the domain is an out-of-bounds error.
func (c BezierCurve) OutputAtInput(x Ordinate) (Ordinate, error) {
	if i, ok := c.FindSegmentIndex(x); ok {
		return c.Segments[i].OutputAtInput(x), nil
	}
	if len(c.Segments) > 0 {
		if last := c.Segments[len(c.Segments)-1]; x.Eql(last.P3.In) {
			return last.P3.Out, nil
		}
	}
	return 0, &OutOfBoundsError{Ordinate: x, Bounds: c.ExtentsInput()}
}

// outputAtInputClamped evaluates the curve at x, clamping to the boundary
// control points outside the domain. Projection composes control polygons
// through this, as interior control points may overshoot the domain.
func (c BezierCurve) outputAtInputClamped(x Ordinate) Ordinate {
	if len(c.Segments) == 0 {
		return x
	}
	if x.LtEql(c.Segments[0].P0.In) {
		return c.Segments[0].P0.Out
	}
	if last := c.Segments[len(c.Segments)-1]; x.GtEql(last.P3.In) {
		return last.P3.Out
	}
	i, _ := c.FindSegmentIndex(x)
	return c.Segments[i].OutputAtInput(x)
}

// InputAtOutput finds the input ordinate at which the curve's output equals
// y. The curve must be monotonic in output for the answer to be unique; the
// first segment whose output range brackets y answers.
func (c BezierCurve) InputAtOutput(y Ordinate) (Ordinate, bool) {
	for _, seg := range c.Segments {
		lo := seg.P0.Out.Min(seg.P3.Out)
		hi := seg.P0.Out.Max(seg.P3.Out)
		if lo.LtEql(y) && y.LtEql(hi) {
			u := seg.FindUForOutput(y)
			return seg.Eval(u).In, true
		}
	}
	return 0, false
}

// TransformedOutput returns the curve with the affine transform applied to
// the output coordinate of every control point.
func (c BezierCurve) TransformedOutput(aff AffineTransform1D) BezierCurve {
	segs := make([]BezierSegment, len(c.Segments))
	for i, seg := range c.Segments {
		segs[i] = BezierSegment{
			P0: ControlPoint{In: seg.P0.In, Out: aff.Applied(seg.P0.Out)},
			P1: ControlPoint{In: seg.P1.In, Out: aff.Applied(seg.P1.Out)},
			P2: ControlPoint{In: seg.P2.In, Out: aff.Applied(seg.P2.Out)},
			P3: ControlPoint{In: seg.P3.In, Out: aff.Applied(seg.P3.Out)},
		}
	}
	return BezierCurve{Segments: segs}
}

// TransformedInput returns the curve with the affine transform applied to
// the input coordinate of every control point. A negative scale reverses
// the segment order and each segment's control points so the result stays
// right-met.
func (c BezierCurve) TransformedInput(aff AffineTransform1D) BezierCurve {
	segs := make([]BezierSegment, len(c.Segments))
	for i, seg := range c.Segments {
		segs[i] = BezierSegment{
			P0: ControlPoint{In: aff.Applied(seg.P0.In), Out: seg.P0.Out},
			P1: ControlPoint{In: aff.Applied(seg.P1.In), Out: seg.P1.Out},
			P2: ControlPoint{In: aff.Applied(seg.P2.In), Out: seg.P2.Out},
			P3: ControlPoint{In: aff.Applied(seg.P3.In), Out: seg.P3.Out},
		}
	}
	if aff.Scale < 0 {
		slices.Reverse(segs)
		for i, seg := range segs {
			segs[i] = BezierSegment{P0: seg.P3, P1: seg.P2, P2: seg.P1, P3: seg.P0}
		}
	}
	return BezierCurve{Segments: segs}
}

// SplitAtInputOrdinate splits the segment containing x into two right-met
// segments meeting exactly at x. Splitting at an existing boundary, or
// outside the domain, is a no-op reported by ok == false.
func (c BezierCurve) SplitAtInputOrdinate(x Ordinate) (BezierCurve, bool) {
	i, ok := c.FindSegmentIndex(x)
	if !ok || x.Eql(c.Segments[i].P0.In) {
		return c.Clone(), false
	}
	seg := c.Segments[i]
	left, right, ok := seg.SplitAt(seg.FindUForInput(x))
	if !ok {
		return c.Clone(), false
	}
	// The evaluated split point lands within round-off of x; snap it so the
	// new boundary is exact.
	left.P3.In = x
	right.P0 = left.P3
	segs := make([]BezierSegment, 0, len(c.Segments)+1)
	segs = append(segs, c.Segments[:i]...)
	segs = append(segs, left, right)
	segs = append(segs, c.Segments[i+1:]...)
	return BezierCurve{Segments: segs}, true
}

// SplitAtEachInputOrdinate splits the curve at every given ordinate that
// falls strictly inside a segment.
func (c BezierCurve) SplitAtEachInputOrdinate(xs ...Ordinate) BezierCurve {
	out := c.Clone()
	for _, x := range xs {
		out, _ = out.SplitAtInputOrdinate(x)
	}
	return out
}

// TrimmedFromInputOrdinate discards the curve on one side of x. With
// [TrimBefore] the result covers [x, end); with [TrimAfter] it covers
// [start, x). Trimming at or outside the domain boundary is a no-op
// reported by ok == false.
func (c BezierCurve) TrimmedFromInputOrdinate(x Ordinate, dir TrimDirection) (BezierCurve, bool) {
	ext := c.ExtentsInput()
	if x.LtEql(ext.Start) || x.GtEql(ext.End) {
		return c.Clone(), false
	}
	split, _ := c.SplitAtInputOrdinate(x)
	var segs []BezierSegment
	for _, seg := range split.Segments {
		switch dir {
		case TrimBefore:
			if seg.P0.In.GtEql(x) {
				segs = append(segs, seg)
			}
		case TrimAfter:
			if seg.P3.In.LtEql(x) {
				segs = append(segs, seg)
			}
		}
	}
	return BezierCurve{Segments: segs}, true
}

// TrimmedInInputSpace restricts the curve to the overlap of its input
// domain with bounds. The result's extents equal the clipped bounds
// exactly, with no gaps or overlaps between the surviving segments.
func (c BezierCurve) TrimmedInInputSpace(bounds ContinuousInterval) (BezierCurve, bool) {
	clip, ok := c.ExtentsInput().Intersect(bounds)
	if !ok {
		return BezierCurve{}, false
	}
	out := c.Clone()
	if trimmed, ok := out.TrimmedFromInputOrdinate(clip.Start, TrimBefore); ok {
		out = trimmed
	}
	if trimmed, ok := out.TrimmedFromInputOrdinate(clip.End, TrimAfter); ok {
		out = trimmed
	}
	return out, true
}

// SplitOnCriticalPoints subdivides every segment at its extrema and
// inflection points, guaranteeing each resulting piece is monotonic.
func (c BezierCurve) SplitOnCriticalPoints() BezierCurve {
	var segs []BezierSegment
	for _, seg := range c.Segments {
		segs = append(segs, seg.SplitOnCriticalPoints()...)
	}
	return BezierCurve{Segments: segs}
}

// CanProject reports whether other may be projected through c: other's
// output range must be contained in c's input domain, within epsilon.
func (c BezierCurve) CanProject(other BezierCurve) bool {
	return c.ExtentsInput().ContainsInterval(other.ExtentsOutput())
}

// ProjectCurve composes c with other pointwise over the control polygon:
// each control point of other keeps its input coordinate, and its output
// coordinate is replaced with c evaluated at it. This is a convex-hull
// preserving approximation of the exact composition, not a
// reparameterization.
func (c BezierCurve) ProjectCurve(other BezierCurve) (BezierCurve, error) {
	if !c.CanProject(other) {
		return BezierCurve{}, &OutOfBoundsError{
			Ordinate: other.ExtentsOutput().Start,
			Bounds:   c.ExtentsInput(),
		}
	}
	segs := make([]BezierSegment, len(other.Segments))
	for i, seg := range other.Segments {
		segs[i] = BezierSegment{
			P0: ControlPoint{In: seg.P0.In, Out: c.outputAtInputClamped(seg.P0.Out)},
			P1: ControlPoint{In: seg.P1.In, Out: c.outputAtInputClamped(seg.P1.Out)},
			P2: ControlPoint{In: seg.P2.In, Out: c.outputAtInputClamped(seg.P2.Out)},
			P3: ControlPoint{In: seg.P3.In, Out: c.outputAtInputClamped(seg.P3.Out)},
		}
	}
	return BezierCurve{Segments: segs}, nil
}

// Linearized flattens the curve into one monotonic linear curve: every
// segment is first split on its critical points, guaranteeing each piece is
// monotonic and linearizable, then each piece is adaptively linearized
// within the tolerance.
func (c BezierCurve) Linearized(tolerance float64) (MonotonicLinearCurve, error) {
	split := c.SplitOnCriticalPoints()
	var knots []ControlPoint
	for _, seg := range split.Segments {
		for _, k := range seg.Linearize(tolerance) {
			// Right-met neighbours share a knot; zero-width pieces from
			// critical-point splitting collapse here too.
			if len(knots) > 0 && k.In.LtEql(knots[len(knots)-1].In) {
				continue
			}
			knots = append(knots, k)
		}
	}
	mc, err := MonotonicFromKnots(knots...)
	if err != nil {
		return MonotonicLinearCurve{}, fmt.Errorf("linearizing curve: %w", err)
	}
	return mc, nil
}
