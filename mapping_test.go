package timewarp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineMappingProjection(t *testing.T) {
	m, err := NewAffineMapping(TransformOf(1, 2), Interval(0, 10))
	require.NoError(t, err)

	got, err := m.ProjectInstantaneous(3)
	require.NoError(t, err)
	assertOrdNear(t, got, 7, 1e-9)

	// The input domain is half-open.
	_, err = m.ProjectInstantaneous(10)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	ob := m.OutputBounds()
	assertOrdNear(t, ob.Start, 1, 1e-9)
	assertOrdNear(t, ob.End, 21, 1e-9)
}

func TestHeldMappingProjectsConstant(t *testing.T) {
	held, err := NewAffineMapping(TransformOf(5, 0), Interval(0, 10))
	require.NoError(t, err)
	require.True(t, held.IsHeld())

	for _, x := range []Ordinate{0, 4.2, 9.99} {
		got, err := held.ProjectInstantaneous(x)
		require.NoError(t, err)
		assertOrdNear(t, got, 5, 1e-9)
	}

	// A held mapping collapses its whole domain to one value and has no
	// inverse.
	_, err = held.Inverted()
	assert.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestAffineMappingInverted(t *testing.T) {
	m, err := NewAffineMapping(TransformOf(1, 2), Interval(0, 10))
	require.NoError(t, err)

	ms, err := m.Inverted()
	require.NoError(t, err)
	require.Len(t, ms, 1)

	ib := ms[0].InputBounds()
	assertOrdNear(t, ib.Start, 1, 1e-9)
	assertOrdNear(t, ib.End, 21, 1e-9)

	got, err := ms[0].ProjectInstantaneous(7)
	require.NoError(t, err)
	assertOrdNear(t, got, 3, 1e-9)
}

func TestAffineMappingShrink(t *testing.T) {
	m, err := NewAffineMapping(TransformOf(0, 2), Interval(0, 10))
	require.NoError(t, err)

	in, ok := m.ShrinkToInputInterval(Interval(2, 4))
	require.True(t, ok)
	diff(t, Interval(2, 4), in.InputBounds())

	out, ok := m.ShrinkToOutputInterval(Interval(4, 8))
	require.True(t, ok)
	diff(t, Interval(2, 4), out.InputBounds())

	_, ok = m.ShrinkToInputInterval(Interval(20, 30))
	assert.False(t, ok)
}

func TestLinearMappingRoundTrip(t *testing.T) {
	mc, err := MonotonicFromKnots(Cp(0, 0), Cp(1, 2), Cp(2, 4))
	require.NoError(t, err)
	m, err := NewLinearMapping(mc)
	require.NoError(t, err)

	got, err := m.ProjectInstantaneous(0.5)
	require.NoError(t, err)
	assertOrdNear(t, got, 1, 1e-9)

	ms, err := m.Inverted()
	require.NoError(t, err)
	require.Len(t, ms, 1)
	got, err = ms[0].ProjectInstantaneous(1)
	require.NoError(t, err)
	assertOrdNear(t, got, 0.5, 1e-9)
}

func TestLinearMappingSplit(t *testing.T) {
	mc, err := MonotonicFromKnots(Cp(0, 0), Cp(2, 4))
	require.NoError(t, err)
	m, err := NewLinearMapping(mc)
	require.NoError(t, err)

	pieces, ok := m.SplitAtInputPoint(1)
	require.True(t, ok)
	require.Len(t, pieces, 2)
	diff(t, Interval(0, 1), pieces[0].InputBounds())
	diff(t, Interval(1, 2), pieces[1].InputBounds())

	// Splitting at a domain boundary is a no-op.
	_, ok = m.SplitAtInputPoint(0)
	assert.False(t, ok)
	_, ok = m.SplitAtInputPoint(2)
	assert.False(t, ok)
}

func TestBezierMappingProjection(t *testing.T) {
	c, err := BezierCurveFromSegments(Seg(Cp(0, 0), Cp(1, 0.5), Cp(2, 2.5), Cp(3, 3)))
	require.NoError(t, err)
	m, err := NewBezierMapping(c)
	require.NoError(t, err)

	got, err := m.ProjectInstantaneous(1.5)
	require.NoError(t, err)
	assertOrdNear(t, got, 1.5, 1e-9)

	_, err = m.ProjectInstantaneous(3)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestBezierMappingInverted(t *testing.T) {
	// A monotonic s-curve inverts cleanly; the inverse undoes the forward
	// projection.
	c, err := BezierCurveFromSegments(Seg(Cp(0, 0), Cp(1, 0.5), Cp(2, 2.5), Cp(3, 3)))
	require.NoError(t, err)
	m, err := NewBezierMapping(c)
	require.NoError(t, err)

	ms, err := m.Inverted()
	require.NoError(t, err)
	require.Len(t, ms, 1)
	inv := ms[0]

	for _, x := range []Ordinate{0.5, 1.5, 2.5} {
		y, err := m.ProjectInstantaneous(x)
		require.NoError(t, err)
		back, err := inv.ProjectInstantaneous(y)
		require.NoError(t, err)
		assertOrdNear(t, back, x, 1e-6)
	}
}

func TestBezierMappingInvertedNonMonotonic(t *testing.T) {
	// The output rises then falls; no single-valued inverse exists.
	c, err := BezierCurveFromSegments(Seg(Cp(0, 0), Cp(1, 4), Cp(2, 4), Cp(3, 0)))
	require.NoError(t, err)
	m, err := NewBezierMapping(c)
	require.NoError(t, err)

	_, err = m.Inverted()
	assert.True(t, errors.Is(err, ErrNotMonotonic))
}

func TestBezierMappingLinearized(t *testing.T) {
	c, err := BezierCurveFromSegments(Seg(Cp(0, 0), Cp(1, 0), Cp(2, 3), Cp(3, 3)))
	require.NoError(t, err)
	m, err := NewBezierMapping(c)
	require.NoError(t, err)

	lin := m.Linearized(1e-3)
	require.Equal(t, LinearKind, lin.Kind())

	for _, x := range []Ordinate{0.3, 1.5, 2.7} {
		want, err := m.ProjectInstantaneous(x)
		require.NoError(t, err)
		got, err := lin.ProjectInstantaneous(x)
		require.NoError(t, err)
		assert.InDelta(t, float64(want), float64(got), 0.05)
	}
}

func TestEmptyMapping(t *testing.T) {
	var m Mapping = EmptyMapping{}
	assert.Equal(t, EmptyKind, m.Kind())
	assert.True(t, m.InputBounds().IsEmpty())

	_, err := m.ProjectInstantaneous(0)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	_, ok := m.ShrinkToInputInterval(InfiniteInterval)
	assert.False(t, ok)
}

func TestMappingKindString(t *testing.T) {
	assert.Equal(t, "empty", EmptyKind.String())
	assert.Equal(t, "affine", AffineKind.String())
	assert.Equal(t, "linear", LinearKind.String())
	assert.Equal(t, "bezier", BezierKind.String())
}
