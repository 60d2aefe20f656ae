// Package geo provides the geometric primitives used by the eddy track
// engine: contour polygon construction, intersection-over-union overlap
// scoring, spherical distances and longitude wrapping helpers.
package geo

import (
	"github.com/ctessum/geom"
)

// ContourPolygon builds a single-ring polygon from parallel coordinate
// slices. The ring is closed implicitly by the clipping library; a trailing
// duplicate of the first vertex is tolerated.
func ContourPolygon(x, y []float64) geom.Polygon {
	ring := make([]geom.Point, len(x))
	for i := range x {
		ring[i] = geom.Point{X: x[i], Y: y[i]}
	}
	return geom.Polygon{ring}
}

// OverlapRatio returns intersection area over union area for two polygons,
// in [0, 1]. Degenerate (zero-area) polygons overlap nothing.
func OverlapRatio(a, b geom.Polygon) float64 {
	areaA := a.Area()
	areaB := b.Area()
	if areaA == 0 || areaB == 0 {
		return 0
	}
	isect := a.Intersection(b)
	if isect == nil {
		return 0
	}
	inter := isect.Area()
	if inter <= 0 {
		return 0
	}
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// OverlapRatios scores one polygon against an ordered batch of candidates.
// The result keeps candidate order so callers can arg-max over it.
func OverlapRatios(p geom.Polygon, candidates []geom.Polygon) []float64 {
	ratios := make([]float64, len(candidates))
	for i, c := range candidates {
		ratios[i] = OverlapRatio(p, c)
	}
	return ratios
}
