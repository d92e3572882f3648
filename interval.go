package timewarp

import (
	"fmt"
	"math"
)

// ContinuousInterval is a half-open interval of ordinates: Start is
// inclusive, End is exclusive. Either endpoint may be infinite.
//
// Invariant: Start <= End, except for the explicitly empty interval.
type ContinuousInterval struct {
	Start Ordinate
	End   Ordinate
}

// ZeroInterval is the empty interval at the origin.
var ZeroInterval = ContinuousInterval{}

// InfiniteInterval covers the entire ordinate line.
var InfiniteInterval = ContinuousInterval{
	Start: Ordinate(math.Inf(-1)),
	End:   Ordinate(math.Inf(1)),
}

// Interval returns the half-open interval [start, end).
func Interval(start, end float64) ContinuousInterval {
	return ContinuousInterval{Start: Ordinate(start), End: Ordinate(end)}
}

func (ci ContinuousInterval) String() string {
	return fmt.Sprintf("[%v, %v)", ci.Start, ci.End)
}

// Eql reports whether both endpoints are epsilon-equal.
func (ci ContinuousInterval) Eql(o ContinuousInterval) bool {
	return ci.Start.Eql(o.Start) && ci.End.Eql(o.End)
}

// Duration returns the width of the interval.
func (ci ContinuousInterval) Duration() Ordinate {
	return ci.End - ci.Start
}

// IsEmpty reports whether the interval contains no ordinates.
func (ci ContinuousInterval) IsEmpty() bool {
	return ci.End.LtEql(ci.Start)
}

// IsInfinite reports whether either endpoint is infinite.
func (ci ContinuousInterval) IsInfinite() bool {
	return ci.Start.IsInf() || ci.End.IsInf()
}

// Contains reports whether x lies in [Start, End), with epsilon at the
// closed endpoint only.
func (ci ContinuousInterval) Contains(x Ordinate) bool {
	return ci.Start.LtEql(x) && x < ci.End && !x.Eql(ci.End)
}

// ContainsInclusive reports whether x lies in [Start, End], admitting the
// exclusive upper endpoint. The outermost boundary of a topology is queried
// this way.
func (ci ContinuousInterval) ContainsInclusive(x Ordinate) bool {
	return ci.Start.LtEql(x) && x.LtEql(ci.End)
}

// ContainsInterval reports whether o lies entirely within ci, within
// epsilon at both ends.
func (ci ContinuousInterval) ContainsInterval(o ContinuousInterval) bool {
	return ci.Start.LtEql(o.Start) && o.End.LtEql(ci.End)
}

// Overlaps reports whether the two intervals share a non-empty range.
func (ci ContinuousInterval) Overlaps(o ContinuousInterval) bool {
	_, ok := ci.Intersect(o)
	return ok
}

// Intersect returns the overlap of the two intervals, or false if they are
// disjoint or the overlap is empty.
func (ci ContinuousInterval) Intersect(o ContinuousInterval) (ContinuousInterval, bool) {
	out := ContinuousInterval{
		Start: ci.Start.Max(o.Start),
		End:   ci.End.Min(o.End),
	}
	if out.IsEmpty() {
		return ZeroInterval, false
	}
	return out, true
}

// Extend returns the smallest interval covering both ci and o.
func (ci ContinuousInterval) Extend(o ContinuousInterval) ContinuousInterval {
	if ci.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return ci
	}
	return ContinuousInterval{
		Start: ci.Start.Min(o.Start),
		End:   ci.End.Max(o.End),
	}
}

func (ci ContinuousInterval) IsNaN() bool {
	return ci.Start.IsNaN() || ci.End.IsNaN()
}
