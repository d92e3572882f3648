package timewarp

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func assertOrdNear(t *testing.T, want, got Ordinate, epsilon float64) {
	t.Helper()
	if math.Abs(float64(want-got)) > epsilon {
		t.Fatalf("got %v, expected %v", got, want)
	}
}

func assertCpNear(t *testing.T, want, got ControlPoint, epsilon float64) {
	t.Helper()
	if float64(want.Distance(got)) > epsilon {
		t.Fatalf("got %v, expected %v", got, want)
	}
}
