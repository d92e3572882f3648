package timewarp

import (
	"fmt"
	"slices"
)

// DefaultTolerance is the default linearization tolerance used by
// composition and by [Topology.Linearized] when the caller passes zero.
const DefaultTolerance = 1e-6

// ProjectionAlgorithm selects how a Bézier mapping is projected through
// another curve during composition. Control-point composition is cheap and
// convex-hull preserving but approximates the true composite; linearization
// is the most stable and is the default.
type ProjectionAlgorithm int

const (
	// ProjectionLinearized flattens both curves within the tolerance and
	// composes the resulting piecewise-linear functions exactly.
	ProjectionLinearized ProjectionAlgorithm = iota

	// ProjectionTwoPointApprox composes pointwise over the control
	// polygon, keeping each control point's input coordinate and
	// projecting its output coordinate. Fast, but the approximation error
	// grows with the curvature of the outer curve.
	ProjectionTwoPointApprox

	// ProjectionThreePointApprox splits every segment at its midpoint
	// before composing pointwise, spending one extra sample per segment
	// to tighten the two-point approximation.
	ProjectionThreePointApprox
)

// ProjectionOptions configures [Compose]. The zero value selects
// [ProjectionLinearized] with [DefaultTolerance].
type ProjectionOptions struct {
	Algorithm ProjectionAlgorithm
	// Tolerance bounds the flattening error wherever the algorithm
	// linearizes. Zero means [DefaultTolerance].
	Tolerance float64
}

func (opts ProjectionOptions) tolerance() float64 {
	if opts.Tolerance <= 0 {
		return DefaultTolerance
	}
	return opts.Tolerance
}

// Topology is an ordered, right-met sequence of mappings forming one
// monotonic function over a bounded input domain, with no gaps and no
// overlaps. It is the published, queryable object of this package.
//
// A topology is immutable once built: trimming, splitting, inversion, and
// composition all return new topologies.
type Topology struct {
	mappings []Mapping
}

// NewTopology validates and builds a topology from the given mappings.
// Non-empty mappings must be right-met: each one's input domain ends
// exactly where the next begins. Empty mappings are positional placeholders
// and are skipped by validation.
func NewTopology(mappings ...Mapping) (Topology, error) {
	prev := -1
	for i, m := range mappings {
		if m.Kind() == EmptyKind {
			continue
		}
		ib := m.InputBounds()
		if ib.IsNaN() {
			return Topology{}, fmt.Errorf("mapping %d has NaN bounds: %w", i, ErrInvalidCurve)
		}
		if prev >= 0 && !mappings[prev].InputBounds().End.Eql(ib.Start) {
			return Topology{}, fmt.Errorf("mappings %d and %d are not right-met: %w", prev, i, ErrInvalidCurve)
		}
		prev = i
	}
	cloned := make([]Mapping, len(mappings))
	for i, m := range mappings {
		cloned[i] = m.Clone()
	}
	return Topology{mappings: cloned}, nil
}

// EmptyTopology returns the topology with no domain.
func EmptyTopology() Topology {
	return Topology{mappings: []Mapping{EmptyMapping{}}}
}

// IdentityTopology returns the topology mapping the interval onto itself.
func IdentityTopology(over ContinuousInterval) Topology {
	return Topology{mappings: []Mapping{
		AffineMapping{Transform: IdentityTransform, Bounds: over},
	}}
}

// AffineTopology returns the single-mapping topology applying xform over
// bounds.
func AffineTopology(xform AffineTransform1D, bounds ContinuousInterval) (Topology, error) {
	m, err := NewAffineMapping(xform, bounds)
	if err != nil {
		return Topology{}, err
	}
	return Topology{mappings: []Mapping{m}}, nil
}

// TopologyFromLinearCurve wraps a monotonic linear curve as a topology.
func TopologyFromLinearCurve(curve MonotonicLinearCurve) (Topology, error) {
	m, err := NewLinearMapping(curve)
	if err != nil {
		return Topology{}, err
	}
	return Topology{mappings: []Mapping{m}}, nil
}

// TopologyFromBezierCurve wraps a Bézier curve as a topology.
func TopologyFromBezierCurve(curve BezierCurve) (Topology, error) {
	m, err := NewBezierMapping(curve)
	if err != nil {
		return Topology{}, err
	}
	return Topology{mappings: []Mapping{m}}, nil
}

// Mappings returns a deep copy of the topology's mappings.
func (t Topology) Mappings() []Mapping {
	out := make([]Mapping, len(t.mappings))
	for i, m := range t.mappings {
		out[i] = m.Clone()
	}
	return out
}

func (t Topology) String() string {
	return fmt.Sprintf("topology(%d mappings over %v)", len(t.mappings), t.InputBounds())
}

// IsEmpty reports whether the topology has no non-empty mapping.
func (t Topology) IsEmpty() bool {
	for _, m := range t.mappings {
		if m.Kind() != EmptyKind {
			return false
		}
	}
	return true
}

func (t Topology) firstNonEmpty() (Mapping, bool) {
	for _, m := range t.mappings {
		if m.Kind() != EmptyKind {
			return m, true
		}
	}
	return nil, false
}

func (t Topology) lastNonEmpty() (Mapping, bool) {
	for i := len(t.mappings) - 1; i >= 0; i-- {
		if t.mappings[i].Kind() != EmptyKind {
			return t.mappings[i], true
		}
	}
	return nil, false
}

// InputBounds returns the topology's input domain. The right-met invariant
// guarantees contiguity, so only the first and last mapping matter.
func (t Topology) InputBounds() ContinuousInterval {
	first, ok := t.firstNonEmpty()
	if !ok {
		return ZeroInterval
	}
	last, _ := t.lastNonEmpty()
	return ContinuousInterval{
		Start: first.InputBounds().Start,
		End:   last.InputBounds().End,
	}
}

// OutputBounds returns the union of every mapping's output range.
func (t Topology) OutputBounds() ContinuousInterval {
	var out ContinuousInterval
	seen := false
	for _, m := range t.mappings {
		if m.Kind() == EmptyKind {
			continue
		}
		if !seen {
			out = m.OutputBounds()
			seen = true
			continue
		}
		out = out.Extend(m.OutputBounds())
	}
	return out
}

// ProjectInstantaneous projects the input ordinate x through the topology.
//
// Interior mapping boundaries follow closed-open semantics. The upper
// endpoint of the whole topology is the one deliberate exception: it is
// treated as inclusive, so the final sample of a domain remains queryable.
// Everything else outside the domain is an [ErrOutOfBounds] error.
func (t Topology) ProjectInstantaneous(x Ordinate) (Ordinate, error) {
	bounds := t.InputBounds()
	if bounds.IsEmpty() && !bounds.IsInfinite() {
		return 0, &OutOfBoundsError{Ordinate: x, Bounds: bounds}
	}
	for _, m := range t.mappings {
		if m.Kind() == EmptyKind {
			continue
		}
		if m.InputBounds().Contains(x) {
			return m.ProjectInstantaneous(x)
		}
	}
	if x.Eql(bounds.End) {
		last, _ := t.lastNonEmpty()
		return last.projectInclusive(x), nil
	}
	return 0, &OutOfBoundsError{Ordinate: x, Bounds: bounds}
}

// ProjectInstantaneousInverse projects the output ordinate y backwards
// through the topology without materializing the inverse, answering "which
// input time produced this output time".
func (t Topology) ProjectInstantaneousInverse(y Ordinate) (Ordinate, error) {
	for _, m := range t.mappings {
		if m.Kind() == EmptyKind {
			continue
		}
		if m.OutputBounds().ContainsInclusive(y) {
			if x, ok := m.inputAtOutput(y); ok {
				return x, nil
			}
		}
	}
	return 0, &OutOfBoundsError{Ordinate: y, Bounds: t.OutputBounds()}
}

// ProjectInterval projects an input interval through the topology,
// returning the output range it covers.
func (t Topology) ProjectInterval(ci ContinuousInterval) (ContinuousInterval, error) {
	clip, ok := t.InputBounds().Intersect(ci)
	if !ok {
		return ZeroInterval, &OutOfBoundsError{Ordinate: ci.Start, Bounds: t.InputBounds()}
	}
	trimmed, err := t.TrimmedInInputSpace(clip)
	if err != nil {
		return ZeroInterval, err
	}
	return trimmed.OutputBounds(), nil
}

// Inverted returns the topology with input and output exchanged. Every
// mapping must be invertible: affine pieces need a non-zero scale, curve
// pieces must be monotonic after critical-point splitting.
func (t Topology) Inverted() (Topology, error) {
	var inverted []Mapping
	for _, m := range t.mappings {
		if m.Kind() == EmptyKind {
			continue
		}
		ms, err := m.Inverted()
		if err != nil {
			return Topology{}, err
		}
		for _, im := range ms {
			if im.Kind() != EmptyKind {
				inverted = append(inverted, im)
			}
		}
	}
	if len(inverted) == 0 {
		return EmptyTopology(), nil
	}
	// A decreasing topology inverts into mappings ordered by the original
	// outputs; restore input order.
	slices.SortFunc(inverted, func(a, b Mapping) int {
		as, bs := a.InputBounds().Start, b.InputBounds().Start
		switch {
		case as.Lt(bs):
			return -1
		case as.Gt(bs):
			return 1
		default:
			return 0
		}
	})
	return NewTopology(inverted...)
}

// Linearized returns the topology with every mapping flattened to its
// piecewise-linear approximation within the tolerance (zero means
// [DefaultTolerance]).
func (t Topology) Linearized(tolerance float64) Topology {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	mappings := make([]Mapping, len(t.mappings))
	for i, m := range t.mappings {
		mappings[i] = m.Linearized(tolerance)
	}
	return Topology{mappings: mappings}
}

// TrimmedInInputSpace restricts the topology to bounds. Mappings wholly
// outside become [EmptyMapping] placeholders, preserving positional
// correspondence; mappings wholly inside are untouched; straddling mappings
// are split and the discarded side trimmed away.
func (t Topology) TrimmedInInputSpace(bounds ContinuousInterval) (Topology, error) {
	mappings := make([]Mapping, len(t.mappings))
	for i, m := range t.mappings {
		if m.Kind() == EmptyKind {
			mappings[i] = EmptyMapping{}
			continue
		}
		ib := m.InputBounds()
		clip, ok := ib.Intersect(bounds)
		if !ok {
			mappings[i] = EmptyMapping{}
			continue
		}
		if clip.Eql(ib) {
			mappings[i] = m.Clone()
			continue
		}
		shrunk, ok := m.ShrinkToInputInterval(clip)
		if !ok {
			mappings[i] = EmptyMapping{}
			continue
		}
		mappings[i] = shrunk
	}
	return NewTopology(mappings...)
}

// TrimmedInOutputSpace restricts the topology so its output range lies
// within bounds, trimming each mapping in its own output space.
func (t Topology) TrimmedInOutputSpace(bounds ContinuousInterval) (Topology, error) {
	mappings := make([]Mapping, len(t.mappings))
	for i, m := range t.mappings {
		if m.Kind() == EmptyKind {
			mappings[i] = EmptyMapping{}
			continue
		}
		ob := m.OutputBounds()
		clip, ok := ob.Intersect(bounds)
		if !ok && !(m.Kind() == AffineKind && m.(AffineMapping).IsHeld() && bounds.ContainsInclusive(ob.Start)) {
			mappings[i] = EmptyMapping{}
			continue
		}
		if ok && clip.Eql(ob) {
			mappings[i] = m.Clone()
			continue
		}
		shrunk, okS := m.ShrinkToOutputInterval(bounds)
		if !okS {
			mappings[i] = EmptyMapping{}
			continue
		}
		mappings[i] = shrunk
	}
	return NewTopology(mappings...)
}

// splitAtInputPoints returns the topology with each mapping split at every
// given ordinate falling strictly inside it.
func (t Topology) splitAtInputPoints(xs []Ordinate) Topology {
	mappings := make([]Mapping, 0, len(t.mappings)+len(xs))
	for _, m := range t.mappings {
		pieces := []Mapping{m.Clone()}
		for _, x := range xs {
			var next []Mapping
			for _, p := range pieces {
				if split, ok := p.SplitAtInputPoint(x); ok {
					next = append(next, split...)
				} else {
					next = append(next, p)
				}
			}
			pieces = next
		}
		mappings = append(mappings, pieces...)
	}
	return Topology{mappings: mappings}
}

// ProjectTopology composes the receiver (B→C) with a2b (A→B) into the A→C
// topology, using the default projection options. See [Compose].
func (t Topology) ProjectTopology(a2b Topology) (Topology, error) {
	return Compose(t, a2b, ProjectionOptions{})
}

// Compose builds the A→C topology from b2c (B→C) and a2b (A→B).
//
// If either side is empty, or their shared B-space ranges do not overlap,
// the result is the well-defined empty topology, never an error. Otherwise
// both sides are trimmed to the shared range, a2b is subdivided so each
// piece lands in exactly one b2c mapping, and each pair is composed
// according to its kinds: affine pairs compose exactly; affine against a
// curve transforms the curve's coordinates; curve-through-curve projection
// follows opts.Algorithm.
func Compose(b2c, a2b Topology, opts ProjectionOptions) (Topology, error) {
	if b2c.IsEmpty() || a2b.IsEmpty() {
		return EmptyTopology(), nil
	}
	aOut := a2b.OutputBounds()
	overlap, ok := aOut.Intersect(b2c.InputBounds())
	if !ok {
		// A fully held a-side has a degenerate output range, which never
		// intersects anything. It still composes when the held constant
		// lies in b's domain.
		if aOut.Duration().IsZero() && b2c.InputBounds().ContainsInclusive(aOut.Start) {
			mappings := make([]Mapping, 0, len(a2b.mappings))
			for _, am := range a2b.mappings {
				mappings = append(mappings, composePair(b2c.mappingForOutputOf(am), am, opts))
			}
			return NewTopology(mappings...)
		}
		tracer().Debugf("composing disjoint topologies %v and %v", a2b, b2c)
		return EmptyTopology(), nil
	}

	a, err := a2b.TrimmedInOutputSpace(overlap)
	if err != nil {
		return Topology{}, err
	}
	b, err := b2c.TrimmedInInputSpace(overlap)
	if err != nil {
		return Topology{}, err
	}
	if a.IsEmpty() || b.IsEmpty() {
		return EmptyTopology(), nil
	}

	// Pull every interior b-mapping boundary back through a so each a-piece
	// maps into exactly one b-mapping.
	var cuts []Ordinate
	for _, bm := range b.mappings[:max(len(b.mappings)-1, 0)] {
		if bm.Kind() == EmptyKind {
			continue
		}
		y := bm.InputBounds().End
		for _, am := range a.mappings {
			if am.Kind() == EmptyKind {
				continue
			}
			if x, ok := am.inputAtOutput(y); ok && am.InputBounds().Contains(x) {
				cuts = append(cuts, x)
			}
		}
	}
	aSplit := a.splitAtInputPoints(cuts)

	mappings := make([]Mapping, 0, len(aSplit.mappings))
	for _, am := range aSplit.mappings {
		if am.Kind() == EmptyKind {
			mappings = append(mappings, EmptyMapping{})
			continue
		}
		bm := b.mappingForOutputOf(am)
		mappings = append(mappings, composePair(bm, am, opts))
	}
	return NewTopology(mappings...)
}

// mappingForOutputOf locates the b-side mapping whose input domain covers
// the output range of the a-side piece.
func (t Topology) mappingForOutputOf(am Mapping) Mapping {
	ob := am.OutputBounds()
	probe := ob.Start + ob.Duration()/2
	for _, m := range t.mappings {
		if m.Kind() == EmptyKind {
			continue
		}
		if m.InputBounds().Contains(probe) || m.InputBounds().ContainsInclusive(probe) {
			return m
		}
	}
	return EmptyMapping{}
}

// composePair composes one b-side mapping with one a-side piece whose
// output range lies within the b-side piece's input domain.
func composePair(b, a Mapping, opts ProjectionOptions) Mapping {
	if b.Kind() == EmptyKind || a.Kind() == EmptyKind {
		return EmptyMapping{}
	}

	// A held a-side collapses the composition to a constant: the constant
	// projects through b, and the direction of the hold flips from
	// range-to-ordinate to ordinate-to-range.
	if aa, ok := a.(AffineMapping); ok && aa.IsHeld() {
		return AffineMapping{
			Transform: AffineTransform1D{Offset: b.projectInclusive(aa.Transform.Offset), Scale: 0},
			Bounds:    aa.Bounds,
		}
	}

	switch b := b.(type) {
	case AffineMapping:
		if b.IsHeld() {
			return AffineMapping{
				Transform: b.Transform,
				Bounds:    a.InputBounds(),
			}
		}
		switch a := a.(type) {
		case AffineMapping:
			return AffineMapping{
				Transform: b.Transform.Mul(a.Transform),
				Bounds:    a.Bounds,
			}
		case LinearMapping:
			return LinearMapping{Curve: a.Curve.TransformedOutput(b.Transform)}
		case BezierMapping:
			return BezierMapping{Curve: a.Curve.TransformedOutput(b.Transform)}
		}

	case LinearMapping:
		switch a := a.(type) {
		case AffineMapping:
			// Pull b's breakpoints back into A space; exact.
			inv, err := a.Transform.Inverted()
			if err != nil {
				return EmptyMapping{}
			}
			return LinearMapping{Curve: b.Curve.TransformedInput(inv)}
		case LinearMapping:
			return composeLinearLinear(b.Curve, a.Curve)
		case BezierMapping:
			if opts.Algorithm == ProjectionLinearized {
				alm, ok := a.Linearized(opts.tolerance()).(LinearMapping)
				if !ok {
					return EmptyMapping{}
				}
				return composeLinearLinear(b.Curve, alm.Curve)
			}
			return composeCurveThroughMapping(b, a.Curve, opts)
		}

	case BezierMapping:
		switch a := a.(type) {
		case AffineMapping:
			inv, err := a.Transform.Inverted()
			if err != nil {
				return EmptyMapping{}
			}
			return BezierMapping{Curve: b.Curve.TransformedInput(inv)}
		case LinearMapping:
			if opts.Algorithm == ProjectionLinearized {
				return composeLinearLinear(
					b.Linearized(opts.tolerance()).(LinearMapping).Curve,
					a.Curve,
				)
			}
			return composeCurveThroughMapping(b, linearToBezier(a.Curve), opts)
		case BezierMapping:
			if opts.Algorithm == ProjectionLinearized {
				bl := b.Linearized(opts.tolerance())
				al := a.Linearized(opts.tolerance())
				blm, okB := bl.(LinearMapping)
				alm, okA := al.(LinearMapping)
				if !okB || !okA {
					return EmptyMapping{}
				}
				return composeLinearLinear(blm.Curve, alm.Curve)
			}
			return composeCurveThroughMapping(b, a.Curve, opts)
		}
	}
	return EmptyMapping{}
}

// composeLinearLinear composes two monotonic linear curves exactly: the
// breakpoints are the inner curve's knots plus the pullbacks of the outer
// curve's knots, and each output is outer(inner(x)).
func composeLinearLinear(outer, inner MonotonicLinearCurve) Mapping {
	xs := make([]Ordinate, 0, len(inner.Knots)+len(outer.Knots))
	for _, k := range inner.Knots {
		xs = append(xs, k.In)
	}
	ib := inner.ExtentsInput()
	for _, k := range outer.Knots {
		x := inner.InputAtOutput(k.In)
		if ib.Start.Lt(x) && x.Lt(ib.End) {
			xs = append(xs, x)
		}
	}
	slices.Sort(xs)
	knots := make([]ControlPoint, 0, len(xs))
	for _, x := range xs {
		if len(knots) > 0 && x.LtEql(knots[len(knots)-1].In) {
			continue
		}
		knots = append(knots, ControlPoint{
			In:  x,
			Out: outer.OutputAtInput(inner.OutputAtInput(x)),
		})
	}
	mc, err := MonotonicFromKnots(knots...)
	if err != nil {
		tracer().Errorf("composing linear curves: %v", err)
		return EmptyMapping{}
	}
	return LinearMapping{Curve: mc}
}

// composeCurveThroughMapping projects the inner Bézier curve through the
// outer mapping by control-point composition: each control point keeps its
// input coordinate and its output coordinate is projected through outer.
// The three-point variant splits every segment at its midpoint first,
// spending an extra sample to tighten the fit.
func composeCurveThroughMapping(outer Mapping, inner BezierCurve, opts ProjectionOptions) Mapping {
	curve := inner.SplitOnCriticalPoints()
	if opts.Algorithm == ProjectionThreePointApprox {
		var mids []Ordinate
		for _, seg := range curve.Segments {
			mids = append(mids, seg.Eval(0.5).In)
		}
		curve = curve.SplitAtEachInputOrdinate(mids...)
	}
	segs := make([]BezierSegment, len(curve.Segments))
	for i, seg := range curve.Segments {
		segs[i] = BezierSegment{
			P0: ControlPoint{In: seg.P0.In, Out: outer.projectInclusive(seg.P0.Out)},
			P1: ControlPoint{In: seg.P1.In, Out: outer.projectInclusive(seg.P1.Out)},
			P2: ControlPoint{In: seg.P2.In, Out: outer.projectInclusive(seg.P2.Out)},
			P3: ControlPoint{In: seg.P3.In, Out: outer.projectInclusive(seg.P3.Out)},
		}
	}
	out, err := BezierCurveFromSegments(segs...)
	if err != nil {
		tracer().Errorf("projecting curve through %v mapping: %v", outer.Kind(), err)
		return EmptyMapping{}
	}
	return BezierMapping{Curve: out}
}

// linearToBezier lifts a monotonic linear curve into right-met cubic
// segments with interior control points at the thirds.
func linearToBezier(mc MonotonicLinearCurve) BezierCurve {
	segs := make([]BezierSegment, 0, max(len(mc.Knots)-1, 0))
	for i := 0; i < len(mc.Knots)-1; i++ {
		segs = append(segs, LinearSegment(mc.Knots[i], mc.Knots[i+1]))
	}
	return BezierCurve{Segments: segs}
}
