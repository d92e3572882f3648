package timewarp

import (
	"fmt"
)

// MappingKind discriminates the concrete type of a [Mapping].
type MappingKind uint8

const (
	EmptyKind MappingKind = iota
	AffineKind
	LinearKind
	BezierKind
)

func (k MappingKind) String() string {
	switch k {
	case EmptyKind:
		return "empty"
	case AffineKind:
		return "affine"
	case LinearKind:
		return "linear"
	case BezierKind:
		return "bezier"
	default:
		return fmt.Sprintf("MappingKind(%d)", uint8(k))
	}
}

// Mapping is one piece of a [Topology]: a monotonic function from a
// half-open input interval to an output interval. The concrete kinds are
// [AffineMapping], [LinearMapping], [BezierMapping], and [EmptyMapping];
// the set is closed.
type Mapping interface {
	Kind() MappingKind

	// InputBounds returns the mapping's half-open input domain.
	InputBounds() ContinuousInterval

	// OutputBounds returns the mapping's output range.
	OutputBounds() ContinuousInterval

	// ProjectInstantaneous evaluates the mapping at x, which must lie in
	// the half-open input domain.
	ProjectInstantaneous(x Ordinate) (Ordinate, error)

	// Clone returns a deep copy.
	Clone() Mapping

	// Inverted returns the mapping(s) with input and output exchanged. A
	// non-monotonic Bézier mapping is split on its critical points first;
	// a zero-scale affine mapping is not invertible.
	Inverted() ([]Mapping, error)

	// Linearized returns the mapping flattened to its piecewise-linear
	// approximation within the tolerance.
	Linearized(tolerance float64) Mapping

	// SplitAtInputPoint splits the mapping into two right-met pieces at x.
	// An x at or outside the domain boundary is a no-op with ok == false.
	SplitAtInputPoint(x Ordinate) ([]Mapping, bool)

	// ShrinkToInputInterval restricts the mapping to the overlap of its
	// input domain with the interval, with ok == false on no overlap.
	ShrinkToInputInterval(ci ContinuousInterval) (Mapping, bool)

	// ShrinkToOutputInterval restricts the mapping so its output range
	// lies within the interval, with ok == false on no overlap.
	ShrinkToOutputInterval(ci ContinuousInterval) (Mapping, bool)

	// projectInclusive evaluates at x admitting the exclusive upper
	// endpoint; the topology end-boundary query routes through this.
	projectInclusive(x Ordinate) Ordinate

	// inputAtOutput pulls an output ordinate back to its input ordinate.
	// ok == false when the mapping cannot be inverted at y.
	inputAtOutput(y Ordinate) (Ordinate, bool)
}

// ---------------------------------------------------------------------------
// Empty

// EmptyMapping is the placeholder piece: it has no domain and projects
// nothing. Trimming a topology replaces out-of-range mappings with empty
// ones so callers that index by original position stay aligned.
type EmptyMapping struct{}

func (EmptyMapping) Kind() MappingKind                { return EmptyKind }
func (EmptyMapping) InputBounds() ContinuousInterval  { return ZeroInterval }
func (EmptyMapping) OutputBounds() ContinuousInterval { return ZeroInterval }
func (EmptyMapping) Clone() Mapping                   { return EmptyMapping{} }

func (EmptyMapping) ProjectInstantaneous(x Ordinate) (Ordinate, error) {
	return 0, &OutOfBoundsError{Ordinate: x, Bounds: ZeroInterval}
}

func (EmptyMapping) Inverted() ([]Mapping, error) {
	return []Mapping{EmptyMapping{}}, nil
}

func (EmptyMapping) Linearized(tolerance float64) Mapping { return EmptyMapping{} }

func (EmptyMapping) SplitAtInputPoint(x Ordinate) ([]Mapping, bool) {
	return []Mapping{EmptyMapping{}}, false
}

func (EmptyMapping) ShrinkToInputInterval(ci ContinuousInterval) (Mapping, bool) {
	return EmptyMapping{}, false
}

func (EmptyMapping) ShrinkToOutputInterval(ci ContinuousInterval) (Mapping, bool) {
	return EmptyMapping{}, false
}

func (EmptyMapping) projectInclusive(x Ordinate) Ordinate { return 0 }

func (EmptyMapping) inputAtOutput(y Ordinate) (Ordinate, bool) { return 0, false }

// ---------------------------------------------------------------------------
// Affine

// AffineMapping applies an [AffineTransform1D] over a bounded input domain.
// A zero-scale transform acts as a held (constant) mapping: every input
// projects to the offset.
type AffineMapping struct {
	Transform AffineTransform1D
	Bounds    ContinuousInterval
}

// NewAffineMapping validates and builds an affine mapping.
func NewAffineMapping(xform AffineTransform1D, bounds ContinuousInterval) (AffineMapping, error) {
	if xform.IsNaN() || bounds.IsNaN() {
		return AffineMapping{}, fmt.Errorf("affine mapping with NaN inputs: %w", ErrInvalidCurve)
	}
	return AffineMapping{Transform: xform, Bounds: bounds}, nil
}

// IsHeld reports whether the mapping holds a constant value (zero scale).
func (m AffineMapping) IsHeld() bool {
	return m.Transform.Scale.IsZero()
}

func (m AffineMapping) Kind() MappingKind               { return AffineKind }
func (m AffineMapping) InputBounds() ContinuousInterval { return m.Bounds }
func (m AffineMapping) Clone() Mapping                  { return m }

func (m AffineMapping) OutputBounds() ContinuousInterval {
	return m.Transform.AppliedToInterval(m.Bounds)
}

func (m AffineMapping) ProjectInstantaneous(x Ordinate) (Ordinate, error) {
	if !m.Bounds.Contains(x) {
		return 0, &OutOfBoundsError{Ordinate: x, Bounds: m.Bounds}
	}
	return m.Transform.Applied(x), nil
}

func (m AffineMapping) Inverted() ([]Mapping, error) {
	inv, err := m.Transform.Inverted()
	if err != nil {
		return nil, fmt.Errorf("inverting affine mapping: %w", err)
	}
	return []Mapping{AffineMapping{Transform: inv, Bounds: m.OutputBounds()}}, nil
}

func (m AffineMapping) Linearized(tolerance float64) Mapping {
	if m.Bounds.IsInfinite() {
		// No finite knot list can cover an unbounded domain.
		return m
	}
	lm, err := NewLinearMapping(MonotonicLinearCurve{LinearCurve: LinearCurve{Knots: []ControlPoint{
		{In: m.Bounds.Start, Out: m.Transform.Applied(m.Bounds.Start)},
		{In: m.Bounds.End, Out: m.Transform.Applied(m.Bounds.End)},
	}}})
	if err != nil {
		return m
	}
	return lm
}

func (m AffineMapping) SplitAtInputPoint(x Ordinate) ([]Mapping, bool) {
	if !m.Bounds.Contains(x) || x.Eql(m.Bounds.Start) {
		return []Mapping{m}, false
	}
	return []Mapping{
		AffineMapping{Transform: m.Transform, Bounds: ContinuousInterval{Start: m.Bounds.Start, End: x}},
		AffineMapping{Transform: m.Transform, Bounds: ContinuousInterval{Start: x, End: m.Bounds.End}},
	}, true
}

func (m AffineMapping) ShrinkToInputInterval(ci ContinuousInterval) (Mapping, bool) {
	clip, ok := m.Bounds.Intersect(ci)
	if !ok {
		return EmptyMapping{}, false
	}
	return AffineMapping{Transform: m.Transform, Bounds: clip}, true
}

func (m AffineMapping) ShrinkToOutputInterval(ci ContinuousInterval) (Mapping, bool) {
	if m.IsHeld() {
		if ci.ContainsInclusive(m.Transform.Offset) {
			return m, true
		}
		return EmptyMapping{}, false
	}
	inv, err := m.Transform.Inverted()
	if err != nil {
		return EmptyMapping{}, false
	}
	return m.ShrinkToInputInterval(inv.AppliedToInterval(ci))
}

func (m AffineMapping) projectInclusive(x Ordinate) Ordinate {
	return m.Transform.Applied(x)
}

func (m AffineMapping) inputAtOutput(y Ordinate) (Ordinate, bool) {
	inv, err := m.Transform.Inverted()
	if err != nil {
		return 0, false
	}
	return inv.Applied(y), true
}

// ---------------------------------------------------------------------------
// Linear

// LinearMapping wraps a [MonotonicLinearCurve] as a topology piece.
type LinearMapping struct {
	Curve MonotonicLinearCurve
}

// NewLinearMapping validates and builds a linear mapping.
func NewLinearMapping(curve MonotonicLinearCurve) (LinearMapping, error) {
	if curve.IsNaN() {
		return LinearMapping{}, fmt.Errorf("linear mapping with NaN knots: %w", ErrInvalidCurve)
	}
	return LinearMapping{Curve: curve.Clone()}, nil
}

func (m LinearMapping) Kind() MappingKind { return LinearKind }

func (m LinearMapping) InputBounds() ContinuousInterval { return m.Curve.ExtentsInput() }

func (m LinearMapping) OutputBounds() ContinuousInterval { return m.Curve.ExtentsOutput() }

func (m LinearMapping) Clone() Mapping {
	return LinearMapping{Curve: m.Curve.Clone()}
}

func (m LinearMapping) ProjectInstantaneous(x Ordinate) (Ordinate, error) {
	if !m.InputBounds().Contains(x) {
		return 0, &OutOfBoundsError{Ordinate: x, Bounds: m.InputBounds()}
	}
	return m.Curve.OutputAtInput(x), nil
}

func (m LinearMapping) Inverted() ([]Mapping, error) {
	inv, err := m.Curve.Inverted()
	if err != nil {
		return nil, err
	}
	return []Mapping{LinearMapping{Curve: inv}}, nil
}

func (m LinearMapping) Linearized(tolerance float64) Mapping {
	return m.Clone()
}

func (m LinearMapping) SplitAtInputPoint(x Ordinate) ([]Mapping, bool) {
	bounds := m.InputBounds()
	if !bounds.Contains(x) || x.Eql(bounds.Start) {
		return []Mapping{m}, false
	}
	left, okL := m.Curve.TrimmedInInputSpace(ContinuousInterval{Start: bounds.Start, End: x})
	right, okR := m.Curve.TrimmedInInputSpace(ContinuousInterval{Start: x, End: bounds.End})
	if !okL || !okR {
		return []Mapping{m}, false
	}
	return []Mapping{LinearMapping{Curve: left}, LinearMapping{Curve: right}}, true
}

func (m LinearMapping) ShrinkToInputInterval(ci ContinuousInterval) (Mapping, bool) {
	trimmed, ok := m.Curve.TrimmedInInputSpace(ci)
	if !ok {
		return EmptyMapping{}, false
	}
	return LinearMapping{Curve: trimmed}, true
}

func (m LinearMapping) ShrinkToOutputInterval(ci ContinuousInterval) (Mapping, bool) {
	a := m.Curve.InputAtOutput(ci.Start)
	b := m.Curve.InputAtOutput(ci.End)
	if b < a {
		a, b = b, a
	}
	return m.ShrinkToInputInterval(ContinuousInterval{Start: a, End: b})
}

func (m LinearMapping) projectInclusive(x Ordinate) Ordinate {
	return m.Curve.OutputAtInput(x)
}

func (m LinearMapping) inputAtOutput(y Ordinate) (Ordinate, bool) {
	if !m.OutputBounds().ContainsInclusive(y) {
		return 0, false
	}
	return m.Curve.InputAtOutput(y), true
}

// ---------------------------------------------------------------------------
// Bezier

// BezierMapping wraps a [BezierCurve] as a topology piece.
type BezierMapping struct {
	Curve BezierCurve
}

// NewBezierMapping validates and builds a Bézier mapping.
func NewBezierMapping(curve BezierCurve) (BezierMapping, error) {
	if curve.IsNaN() {
		return BezierMapping{}, fmt.Errorf("bezier mapping with NaN control points: %w", ErrInvalidCurve)
	}
	return BezierMapping{Curve: curve.Clone()}, nil
}

func (m BezierMapping) Kind() MappingKind { return BezierKind }

func (m BezierMapping) InputBounds() ContinuousInterval { return m.Curve.ExtentsInput() }

func (m BezierMapping) OutputBounds() ContinuousInterval { return m.Curve.ExtentsOutput() }

func (m BezierMapping) Clone() Mapping {
	return BezierMapping{Curve: m.Curve.Clone()}
}

func (m BezierMapping) ProjectInstantaneous(x Ordinate) (Ordinate, error) {
	if !m.InputBounds().Contains(x) {
		return 0, &OutOfBoundsError{Ordinate: x, Bounds: m.InputBounds()}
	}
	return m.Curve.OutputAtInput(x)
}

// Inverted swaps the roles of input and output in every control point. The
// curve is split on its critical points first, so each piece is monotonic;
// a curve whose output is not monotonic overall has no single-valued
// inverse and fails with [ErrNotMonotonic].
func (m BezierMapping) Inverted() ([]Mapping, error) {
	split := m.Curve.SplitOnCriticalPoints()
	segs := make([]BezierSegment, 0, len(split.Segments))
	for _, seg := range split.Segments {
		is := BezierSegment{
			P0: ControlPoint{In: seg.P0.Out, Out: seg.P0.In},
			P1: ControlPoint{In: seg.P1.Out, Out: seg.P1.In},
			P2: ControlPoint{In: seg.P2.Out, Out: seg.P2.In},
			P3: ControlPoint{In: seg.P3.Out, Out: seg.P3.In},
		}
		if is.P3.In.Lt(is.P0.In) {
			is = BezierSegment{P0: is.P3, P1: is.P2, P2: is.P1, P3: is.P0}
		}
		if is.P0.In.Eql(is.P3.In) {
			// A held stretch has no single-valued inverse piece.
			continue
		}
		segs = append(segs, is)
	}
	if len(segs) > 1 && segs[0].P0.In.Gt(segs[len(segs)-1].P0.In) {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}
	inv, err := BezierCurveFromSegments(segs...)
	if err != nil {
		return nil, fmt.Errorf("inverting bezier mapping: %w", ErrNotMonotonic)
	}
	return []Mapping{BezierMapping{Curve: inv}}, nil
}

func (m BezierMapping) Linearized(tolerance float64) Mapping {
	lin, err := m.Curve.Linearized(tolerance)
	if err != nil {
		tracer().Errorf("linearizing bezier mapping: %v", err)
		return m.Clone()
	}
	return LinearMapping{Curve: lin}
}

func (m BezierMapping) SplitAtInputPoint(x Ordinate) ([]Mapping, bool) {
	bounds := m.InputBounds()
	if !bounds.Contains(x) || x.Eql(bounds.Start) {
		return []Mapping{m}, false
	}
	left, okL := m.Curve.TrimmedInInputSpace(ContinuousInterval{Start: bounds.Start, End: x})
	right, okR := m.Curve.TrimmedInInputSpace(ContinuousInterval{Start: x, End: bounds.End})
	if !okL || !okR {
		return []Mapping{m}, false
	}
	return []Mapping{BezierMapping{Curve: left}, BezierMapping{Curve: right}}, true
}

func (m BezierMapping) ShrinkToInputInterval(ci ContinuousInterval) (Mapping, bool) {
	trimmed, ok := m.Curve.TrimmedInInputSpace(ci)
	if !ok || trimmed.IsEmpty() {
		return EmptyMapping{}, false
	}
	return BezierMapping{Curve: trimmed}, true
}

func (m BezierMapping) ShrinkToOutputInterval(ci ContinuousInterval) (Mapping, bool) {
	a, okA := m.Curve.InputAtOutput(ci.Start)
	b, okB := m.Curve.InputAtOutput(ci.End)
	bounds := m.InputBounds()
	if !okA {
		a = bounds.Start
	}
	if !okB {
		b = bounds.End
	}
	if b < a {
		a, b = b, a
	}
	return m.ShrinkToInputInterval(ContinuousInterval{Start: a, End: b})
}

func (m BezierMapping) projectInclusive(x Ordinate) Ordinate {
	return m.Curve.outputAtInputClamped(x)
}

func (m BezierMapping) inputAtOutput(y Ordinate) (Ordinate, bool) {
	return m.Curve.InputAtOutput(y)
}
