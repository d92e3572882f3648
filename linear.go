package timewarp

import (
	"fmt"
	"slices"
)

// LinearCurve is a piecewise-linear curve over an ordered list of knots.
// The curve owns its knot slice; construction copies and [LinearCurve.Clone]
// is a deep copy.
//
// A LinearCurve makes no monotonicity guarantee. See [MonotonicLinearCurve]
// for the form whose knots strictly increase in input, which is the
// precondition for inverse interpolation.
type LinearCurve struct {
	Knots []ControlPoint
}

// LinearCurveFromKnots builds a curve from a copy of the given knots. Knots
// must be sorted by input ordinate and free of NaN components.
func LinearCurveFromKnots(knots ...ControlPoint) (LinearCurve, error) {
	for i, k := range knots {
		if k.IsNaN() {
			return LinearCurve{}, fmt.Errorf("knot %d is NaN: %w", i, ErrInvalidCurve)
		}
		if i > 0 && k.In.Lt(knots[i-1].In) {
			return LinearCurve{}, fmt.Errorf("knot %d out of order: %w", i, ErrInvalidCurve)
		}
	}
	return LinearCurve{Knots: slices.Clone(knots)}, nil
}

// Clone returns a deep copy of the curve.
func (lc LinearCurve) Clone() LinearCurve {
	return LinearCurve{Knots: slices.Clone(lc.Knots)}
}

// OutputAtInput interpolates the curve at x.
//
// Degenerate cases: a curve with no knots is the identity (output equals
// input); a single knot is a constant. Outside the knot range the boundary
// knot's output is returned.
//
// The bracketing knot pair is found by linear search. Curves in editorial
// use are short, so this is acceptable; knots are sorted, so a binary search
// would be a drop-in optimization.
func (lc LinearCurve) OutputAtInput(x Ordinate) Ordinate {
	switch len(lc.Knots) {
	case 0:
		return x
	case 1:
		return lc.Knots[0].Out
	}
	if x.LtEql(lc.Knots[0].In) {
		return lc.Knots[0].Out
	}
	last := lc.Knots[len(lc.Knots)-1]
	if x.GtEql(last.In) {
		return last.Out
	}
	for i := 0; i < len(lc.Knots)-1; i++ {
		k0, k1 := lc.Knots[i], lc.Knots[i+1]
		if k0.In.LtEql(x) && x.Lt(k1.In) {
			span := k1.In - k0.In
			if span.IsZero() {
				return k0.Out
			}
			return k0.Out + (x-k0.In)/span*(k1.Out-k0.Out)
		}
	}
	return last.Out
}

// InputAtOutput inversely interpolates the curve at y, returning the input
// ordinate of the first knot span whose outputs bracket y. Outside the
// output range the nearest boundary knot's input is returned.
func (lc LinearCurve) InputAtOutput(y Ordinate) Ordinate {
	switch len(lc.Knots) {
	case 0:
		return y
	case 1:
		return lc.Knots[0].In
	}
	for i := 0; i < len(lc.Knots)-1; i++ {
		k0, k1 := lc.Knots[i], lc.Knots[i+1]
		lo, hi := k0.Out.Min(k1.Out), k0.Out.Max(k1.Out)
		if lo.LtEql(y) && y.LtEql(hi) {
			span := k1.Out - k0.Out
			if span.IsZero() {
				return k0.In
			}
			return k0.In + (y-k0.Out)/span*(k1.In-k0.In)
		}
	}
	first, last := lc.Knots[0], lc.Knots[len(lc.Knots)-1]
	if first.Out.LtEql(last.Out) {
		if y.Lt(first.Out) {
			return first.In
		}
		return last.In
	}
	if y.Gt(first.Out) {
		return first.In
	}
	return last.In
}

// ExtentsInput returns the input-space bounding interval of the knots.
func (lc LinearCurve) ExtentsInput() ContinuousInterval {
	if len(lc.Knots) == 0 {
		return ZeroInterval
	}
	lo, hi := lc.Knots[0].In, lc.Knots[0].In
	for _, k := range lc.Knots[1:] {
		lo, hi = lo.Min(k.In), hi.Max(k.In)
	}
	return ContinuousInterval{Start: lo, End: hi}
}

// ExtentsOutput returns the output-space bounding interval of the knots.
func (lc LinearCurve) ExtentsOutput() ContinuousInterval {
	if len(lc.Knots) == 0 {
		return ZeroInterval
	}
	lo, hi := lc.Knots[0].Out, lc.Knots[0].Out
	for _, k := range lc.Knots[1:] {
		lo, hi = lo.Min(k.Out), hi.Max(k.Out)
	}
	return ContinuousInterval{Start: lo, End: hi}
}

func (lc LinearCurve) IsNaN() bool {
	for _, k := range lc.Knots {
		if k.IsNaN() {
			return true
		}
	}
	return false
}

// MonotonicLinearCurve is a [LinearCurve] whose knot inputs strictly
// increase, which makes inverse interpolation well defined and the curve
// invertible.
type MonotonicLinearCurve struct {
	LinearCurve
}

// MonotonicFromKnots builds a monotonic curve from a copy of the given
// knots, validating strict input ordering.
func MonotonicFromKnots(knots ...ControlPoint) (MonotonicLinearCurve, error) {
	lc, err := LinearCurveFromKnots(knots...)
	if err != nil {
		return MonotonicLinearCurve{}, err
	}
	for i := 1; i < len(lc.Knots); i++ {
		if !lc.Knots[i-1].In.Lt(lc.Knots[i].In) {
			return MonotonicLinearCurve{}, fmt.Errorf("knot %d input does not increase: %w", i, ErrNotMonotonic)
		}
	}
	return MonotonicLinearCurve{LinearCurve: lc}, nil
}

// IdentityLinearCurve returns the monotonic curve mapping the interval onto
// itself.
func IdentityLinearCurve(over ContinuousInterval) MonotonicLinearCurve {
	return MonotonicLinearCurve{LinearCurve: LinearCurve{Knots: []ControlPoint{
		{In: over.Start, Out: over.Start},
		{In: over.End, Out: over.End},
	}}}
}

// Clone returns a deep copy of the curve.
func (mc MonotonicLinearCurve) Clone() MonotonicLinearCurve {
	return MonotonicLinearCurve{LinearCurve: mc.LinearCurve.Clone()}
}

// ExtentsInput returns the input interval spanned by the first and last
// knot.
func (mc MonotonicLinearCurve) ExtentsInput() ContinuousInterval {
	if len(mc.Knots) == 0 {
		return ZeroInterval
	}
	return ContinuousInterval{
		Start: mc.Knots[0].In,
		End:   mc.Knots[len(mc.Knots)-1].In,
	}
}

// TrimmedInInputSpace returns a new curve restricted to the overlap of the
// curve's input extents with bounds. Boundary knots are interpolated so the
// result's extents equal the clipped bounds exactly.
func (mc MonotonicLinearCurve) TrimmedInInputSpace(bounds ContinuousInterval) (MonotonicLinearCurve, bool) {
	ext := mc.ExtentsInput()
	clip, ok := ext.Intersect(bounds)
	if !ok || len(mc.Knots) < 2 {
		return MonotonicLinearCurve{}, false
	}
	knots := make([]ControlPoint, 0, len(mc.Knots)+2)
	knots = append(knots, ControlPoint{In: clip.Start, Out: mc.OutputAtInput(clip.Start)})
	for _, k := range mc.Knots {
		if clip.Start.Lt(k.In) && k.In.Lt(clip.End) {
			knots = append(knots, k)
		}
	}
	knots = append(knots, ControlPoint{In: clip.End, Out: mc.OutputAtInput(clip.End)})
	out, err := MonotonicFromKnots(knots...)
	if err != nil {
		return MonotonicLinearCurve{}, false
	}
	return out, true
}

// TransformedOutput returns the curve with the affine transform applied to
// every knot's output ordinate.
func (mc MonotonicLinearCurve) TransformedOutput(aff AffineTransform1D) MonotonicLinearCurve {
	knots := make([]ControlPoint, len(mc.Knots))
	for i, k := range mc.Knots {
		knots[i] = ControlPoint{In: k.In, Out: aff.Applied(k.Out)}
	}
	return MonotonicLinearCurve{LinearCurve: LinearCurve{Knots: knots}}
}

// TransformedInput returns the curve with the affine transform applied to
// every knot's input ordinate. A negative scale reverses the knot order so
// the result's inputs still increase.
func (mc MonotonicLinearCurve) TransformedInput(aff AffineTransform1D) MonotonicLinearCurve {
	knots := make([]ControlPoint, len(mc.Knots))
	for i, k := range mc.Knots {
		knots[i] = ControlPoint{In: aff.Applied(k.In), Out: k.Out}
	}
	if aff.Scale < 0 {
		slices.Reverse(knots)
	}
	return MonotonicLinearCurve{LinearCurve: LinearCurve{Knots: knots}}
}

// Inverted returns the curve with the roles of input and output swapped in
// every knot. This requires the outputs to be strictly monotonic; a
// decreasing curve is reversed so the result's knots increase in input.
func (mc MonotonicLinearCurve) Inverted() (MonotonicLinearCurve, error) {
	knots := make([]ControlPoint, len(mc.Knots))
	for i, k := range mc.Knots {
		knots[i] = ControlPoint{In: k.Out, Out: k.In}
	}
	if len(knots) >= 2 && knots[0].In.Gt(knots[len(knots)-1].In) {
		slices.Reverse(knots)
	}
	out, err := MonotonicFromKnots(knots...)
	if err != nil {
		return MonotonicLinearCurve{}, fmt.Errorf("inverting linear curve: %w", err)
	}
	return out, nil
}
