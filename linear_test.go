package timewarp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearCurveInterpolation(t *testing.T) {
	lc, err := LinearCurveFromKnots(Cp(0, 0), Cp(1, 2), Cp(2, 4))
	require.NoError(t, err)

	assertOrdNear(t, lc.OutputAtInput(0.5), 1.0, 1e-9)
	assertOrdNear(t, lc.OutputAtInput(1.5), 3.0, 1e-9)
	assertOrdNear(t, lc.InputAtOutput(1.0), 0.5, 1e-9)
	assertOrdNear(t, lc.InputAtOutput(3.0), 1.5, 1e-9)
}

func TestLinearCurveBoundaryClamp(t *testing.T) {
	lc, err := LinearCurveFromKnots(Cp(0, 0), Cp(2, 4))
	require.NoError(t, err)

	assertOrdNear(t, lc.OutputAtInput(-1), 0, 1e-9)
	assertOrdNear(t, lc.OutputAtInput(5), 4, 1e-9)
	assertOrdNear(t, lc.InputAtOutput(-1), 0, 1e-9)
	assertOrdNear(t, lc.InputAtOutput(9), 2, 1e-9)
}

func TestLinearCurveDegenerateFallbacks(t *testing.T) {
	// No knots: identity.
	empty := LinearCurve{}
	assertOrdNear(t, empty.OutputAtInput(3.5), 3.5, 1e-9)
	assertOrdNear(t, empty.InputAtOutput(-2), -2, 1e-9)

	// One knot: constant output.
	point, err := LinearCurveFromKnots(Cp(1, 7))
	require.NoError(t, err)
	assertOrdNear(t, point.OutputAtInput(0), 7, 1e-9)
	assertOrdNear(t, point.OutputAtInput(100), 7, 1e-9)
}

func TestLinearCurveExtents(t *testing.T) {
	lc, err := LinearCurveFromKnots(Cp(0, 1), Cp(1, 5), Cp(2, 3))
	require.NoError(t, err)

	in := lc.ExtentsInput()
	assertOrdNear(t, in.Start, 0, 1e-9)
	assertOrdNear(t, in.End, 2, 1e-9)

	out := lc.ExtentsOutput()
	assertOrdNear(t, out.Start, 1, 1e-9)
	assertOrdNear(t, out.End, 5, 1e-9)
}

func TestMonotonicFromKnotsRejectsDecrease(t *testing.T) {
	_, err := MonotonicFromKnots(Cp(0, 0), Cp(2, 1), Cp(1, 2))
	assert.True(t, errors.Is(err, ErrNotMonotonic))

	_, err = MonotonicFromKnots(Cp(0, 0), Cp(0, 1))
	assert.True(t, errors.Is(err, ErrNotMonotonic))
}

func TestMonotonicTrim(t *testing.T) {
	mc, err := MonotonicFromKnots(Cp(0, 0), Cp(1, 2), Cp(2, 4))
	require.NoError(t, err)

	trimmed, ok := mc.TrimmedInInputSpace(Interval(0.5, 1.5))
	require.True(t, ok)

	ext := trimmed.ExtentsInput()
	assertOrdNear(t, ext.Start, 0.5, 1e-9)
	assertOrdNear(t, ext.End, 1.5, 1e-9)
	assertOrdNear(t, trimmed.OutputAtInput(0.5), 1.0, 1e-9)
	assertOrdNear(t, trimmed.OutputAtInput(1.25), 2.5, 1e-9)

	_, ok = mc.TrimmedInInputSpace(Interval(5, 9))
	assert.False(t, ok)
}

func TestMonotonicTransformedOutput(t *testing.T) {
	mc, err := MonotonicFromKnots(Cp(0, 0), Cp(1, 1))
	require.NoError(t, err)

	scaled := mc.TransformedOutput(TransformOf(10, 2))
	assertOrdNear(t, scaled.OutputAtInput(0.5), 11, 1e-9)
}

func TestMonotonicTransformedInput(t *testing.T) {
	mc, err := MonotonicFromKnots(Cp(0, 0), Cp(1, 1))
	require.NoError(t, err)

	// Input x maps through the curve at 2x + 1.
	shifted := mc.TransformedInput(TransformOf(1, 2))
	ext := shifted.ExtentsInput()
	assertOrdNear(t, ext.Start, 1, 1e-9)
	assertOrdNear(t, ext.End, 3, 1e-9)
	assertOrdNear(t, shifted.OutputAtInput(2), 0.5, 1e-9)

	// A negative scale reverses the knots, the curve stays increasing.
	flipped := mc.TransformedInput(TransformOf(0, -1))
	ext = flipped.ExtentsInput()
	assertOrdNear(t, ext.Start, -1, 1e-9)
	assertOrdNear(t, ext.End, 0, 1e-9)
	assertOrdNear(t, flipped.OutputAtInput(-0.25), 0.25, 1e-9)
}

func TestMonotonicInverted(t *testing.T) {
	mc, err := MonotonicFromKnots(Cp(0, 0), Cp(1, 2), Cp(2, 4))
	require.NoError(t, err)

	inv, err := mc.Inverted()
	require.NoError(t, err)
	assertOrdNear(t, inv.OutputAtInput(2), 1, 1e-9)
	assertOrdNear(t, inv.OutputAtInput(mc.OutputAtInput(1.5)), 1.5, 1e-9)
}

func TestIdentityLinearCurve(t *testing.T) {
	id := IdentityLinearCurve(Interval(2, 6))
	assertOrdNear(t, id.OutputAtInput(3.5), 3.5, 1e-9)
	ext := id.ExtentsInput()
	assertOrdNear(t, ext.Start, 2, 1e-9)
	assertOrdNear(t, ext.End, 6, 1e-9)
}
