package timewarp

import (
	"testing"
)

func TestDualProductRule(t *testing.T) {
	// d/dx (x * x) at x = 3 is 6.
	x := DualVar(3)
	sq := x.Mul(x)
	diff(t, Dual{Real: 9, Inf: 6}, sq)

	// d/dx (5 * x) is 5.
	five := DualOf(5)
	diff(t, Dual{Real: 15, Inf: 5}, five.Mul(x))
}

func TestDualSumRule(t *testing.T) {
	x := DualVar(2)
	diff(t, Dual{Real: 9, Inf: 1}, x.Add(DualOf(7)))
	diff(t, Dual{Real: -5, Inf: 1}, x.Sub(DualOf(7)))
}

func TestDualQuotientRule(t *testing.T) {
	// d/dx (1 / x) at x = 2 is -1/4.
	x := DualVar(2)
	q, err := DualOf(1).Div(x)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Dual{Real: 0.5, Inf: -0.25}, q)

	if _, err := DualOf(1).Div(DualOf(0)); err == nil {
		t.Error("expected division by zero error")
	}
}

func TestDualPointLerpDerivative(t *testing.T) {
	// The derivative of lerp(a, b, u) with respect to u is b - a.
	a := DualPointOf(Cp(0, 0))
	b := DualPointOf(Cp(4, 8))
	got := a.LerpDual(b, DualVar(0.25))
	diff(t, Cp(1, 2), got.Real)
	diff(t, Cp(4, 8), got.Inf)
}
