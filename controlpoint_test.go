package timewarp

import (
	"errors"
	"testing"
)

func TestControlPointArithmetic(t *testing.T) {
	a := Cp(1, 2)
	b := Cp(3, 5)
	diff(t, Cp(4, 7), a.Add(b))
	diff(t, Cp(-2, -3), a.Sub(b))
	diff(t, Cp(3, 10), a.Mul(b))
	diff(t, Cp(2, 4), a.MulScalar(2))

	q, err := b.Div(a)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Cp(3, 2.5), q)

	if _, err := a.Div(Cp(0, 1)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("got %v, expected division by zero", err)
	}
}

func TestControlPointLerpBoundariesExact(t *testing.T) {
	a := Cp(0.1, 0.3)
	b := Cp(0.7, 0.9)
	if a.Lerp(b, 0) != a {
		t.Error("lerp at 0 must reproduce the first point exactly")
	}
	if a.Lerp(b, 1) != b {
		t.Error("lerp at 1 must reproduce the second point exactly")
	}
	diff(t, Cp(0.4, 0.6), a.Lerp(b, 0.5))
}

func TestControlPointDistance(t *testing.T) {
	assertOrdNear(t, 5, Cp(0, 0).Distance(Cp(3, 4)), 1e-12)
	assertOrdNear(t, 25, Cp(3, 4).Hypot2(), 1e-12)
}

func TestControlPointNormalized(t *testing.T) {
	n, err := Cp(3, 4).Normalized()
	if err != nil {
		t.Fatal(err)
	}
	assertCpNear(t, Cp(0.6, 0.8), n, 1e-12)

	if _, err := Cp(0, 0).Normalized(); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("got %v, expected division by zero", err)
	}
}

func TestControlPointCross(t *testing.T) {
	assertOrdNear(t, 1, Cp(1, 0).Cross(Cp(0, 1)), 1e-12)
	assertOrdNear(t, 0, Cp(2, 2).Cross(Cp(1, 1)), 1e-12)
}
