// Package contour extracts isolines from a structured scalar grid with
// marching squares.
//
// What:
//
//   - Levels: the level set, explicit (at most MaxLevels) or generated from an
//     interval as the multiples covering the data range.
//   - Extract: traces every level, chains cell segments into polylines and
//     returns them in geographic coordinates, ordered by level.
//
// Algorithm:
//
//   - A corner is above a level when its value is strictly greater. The four
//     above/below flags (sw=1, se=2, ne=4, nw=8) select the cell's segments;
//     segments are oriented with the above region on their left, so chaining
//     always joins an end to a start.
//   - Saddle cells (5 and 10) use the average of the four corners: above the
//     level the two high corners are joined through the centre, otherwise they
//     are separated.
//   - Segment endpoints are keyed by the grid edge they cross, so chaining is
//     exact; crossing positions are interpolated only when a polyline is
//     emitted.
//   - Polylines returning to their start are closed (first point repeated);
//     those reaching the grid boundary stay open.
//
// Complexity: O(L * ni * nj) time, O(ni * nj) memory per level in flight.
//
// Errors:
//
//   - errs.ErrInvalidConfiguration: bad interval, tolerance or level list.
//   - errs.ErrEmptyGrid: fewer than 2 samples along an axis.
package contour
