// Package spatial holds the planar geometry engine: ring utilities, the
// convex hull, the within/contains/intersects predicates, bounds,
// web-mercator projection and geodesic circles.
//
// All functions are pure. Inputs are never modified.
package spatial

import "github.com/mohammed-shakir/georelate/pkg/geom"

// CloseRing returns a copy of ring whose last position equals its first.
func CloseRing(ring []geom.Position) []geom.Position {
	if len(ring) == 0 {
		return []geom.Position{}
	}
	out := geom.CloneLine(ring)
	if !out[0].Equal(out[len(out)-1]) {
		out = append(out, out[0].Clone())
	}
	return out
}

// IsClockwise reports the winding of ring by the shoelace sum. Degenerate
// rings with zero area count as clockwise.
func IsClockwise(ring []geom.Position) bool {
	var total float64
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		total += (b.X() - a.X()) * (b.Y() + a.Y())
	}
	return total >= 0
}

// PointInRing is an even-odd ray cast. Points on an edge may land on either
// side.
func PointInRing(ring []geom.Position, p geom.Position) bool {
	if len(p) < 2 {
		return false
	}
	px, py := p.X(), p.Y()
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].X(), ring[i].Y()
		xj, yj := ring[j].X(), ring[j].Y()
		if ((yi <= py && py < yj) || (yj <= py && py < yi)) &&
			px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PolygonContainsPoint is true when p lies in the shell and in none of the
// holes.
func PolygonContainsPoint(rings [][]geom.Position, p geom.Position) bool {
	if len(rings) == 0 || !PointInRing(rings[0], p) {
		return false
	}
	for _, hole := range rings[1:] {
		if PointInRing(hole, p) {
			return false
		}
	}
	return true
}

// SegmentsIntersect reports whether segment a1-a2 meets b1-b2. Parallel
// segments, colinear overlaps included, never intersect.
func SegmentsIntersect(a1, a2, b1, b2 geom.Position) bool {
	uaT := (b2.X()-b1.X())*(a1.Y()-b1.Y()) - (b2.Y()-b1.Y())*(a1.X()-b1.X())
	ubT := (a2.X()-a1.X())*(a1.Y()-b1.Y()) - (a2.Y()-a1.Y())*(a1.X()-b1.X())
	uB := (b2.Y()-b1.Y())*(a2.X()-a1.X()) - (b2.X()-b1.X())*(a2.Y()-a1.Y())
	if uB == 0 {
		return false
	}
	ua, ub := uaT/uB, ubT/uB
	return ua >= 0 && ua <= 1 && ub >= 0 && ub <= 1
}

// LinesIntersect tests every edge of a against every edge of b.
func LinesIntersect(a, b []geom.Position) bool {
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if SegmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

// AnyLinesIntersect is LinesIntersect over every pair of lines.
func AnyLinesIntersect(a, b [][]geom.Position) bool {
	for _, la := range a {
		for _, lb := range b {
			if LinesIntersect(la, lb) {
				return true
			}
		}
	}
	return false
}

func closeRings(rings [][]geom.Position) [][]geom.Position {
	out := make([][]geom.Position, len(rings))
	for i, r := range rings {
		out[i] = CloseRing(r)
	}
	return out
}
