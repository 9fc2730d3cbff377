// Package grid is the Grid/Projection Adapter consumed by the contour,
// label and thinning stages.
//
// What:
//
//   - Adapter: dimensions, sample values, grid-native projected coordinates,
//     the projected<->geographic transform and the zoom classification of
//     grid indices.
//   - Scalar: an immutable rectilinear grid implementing Adapter, with either a
//     LatLon (identity) or Mercator (EPSG:3857 metres) native projection.
//   - MercatorCoord / LngLat: normalised web-mercator map coordinates, the space
//     every vertex bundle is expressed in.
//
// Layout:
//
//	Values are row-major with i varying fastest: value(i, j) = values[i + j*ni].
//	NaN marks a missing sample.
//
// Errors:
//
//   - errs.ErrEmptyGrid: ni or nj below 2.
//   - errs.ErrInvalidConfiguration: len(values) != ni*nj, degenerate bounds.
package grid
