// Package timewarp implements the temporal-projection algebra that underlies
// editorial timelines: piecewise mappings from one time coordinate space
// (a clip's media, a track, a stack, a timeline) onto another, with exact
// composition, inversion, trimming, and querying.
//
// # Ordinates and intervals
//
// Time coordinates are [Ordinate] values, double-precision scalars whose
// comparisons all go through a fixed epsilon to tolerate the round-off that
// accumulates through many layers of composition. Domains are
// [ContinuousInterval] values, closed on the left and open on the right;
// adjacent pieces of a mapping are "right-met": they share a boundary
// ordinate exactly, with no gap and no overlap.
//
// # Curves
//
// Three families of primitive describe how output time varies with input
// time:
//
//   - [AffineTransform1D], a scale and offset;
//   - [LinearCurve] and [MonotonicLinearCurve], piecewise-linear knot lists;
//   - [BezierCurve], an ordered sequence of right-met cubic Bézier segments
//     ([BezierSegment]).
//
// Bézier evaluation uses de Casteljau reduction, with a dual-number variant
// ([Dual], [DualPoint]) that carries the tangent through the same pass.
// Parameter inversion uses the Illinois method, a modified regula falsi,
// which requires monotonic segments; [BezierSegment.SplitOnCriticalPoints]
// subdivides a segment at its extrema and inflection points so that every
// piece is monotonic. Adaptive subdivision ([BezierCurve.Linearized])
// flattens curves to within a tolerance.
//
// # Topologies
//
// A [Topology] assembles an ordered, right-met sequence of heterogeneous
// [Mapping] values (affine, linear, Bézier, or empty) into one monotonic
// function over a bounded input domain. Topologies compose: if a2b maps
// space A to space B and b2c maps B to C, then [Compose] produces the A→C
// topology. They also invert, trim in either coordinate space, and project
// single ordinates or whole intervals.
//
// All operations are pure: inputs are never mutated, results are newly
// allocated, and independent topologies may be evaluated concurrently
// without synchronization.
package timewarp
