package spatial

import (
	"slices"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

// Within reports whether a lies inside b. Features on either side are
// replaced by their geometry; a feature without geometry is never within
// anything. Pairs without a rule are false.
func Within(a, b geom.Geometry) bool {
	a, b = geom.Unwrap(a), geom.Unwrap(b)
	if a == nil || b == nil {
		return false
	}
	switch bt := b.(type) {
	case *geom.Point:
		if at, ok := a.(*geom.Point); ok {
			return pointsEqual(at.Coordinates, bt.Coordinates)
		}
	case *geom.MultiPoint:
		if at, ok := a.(*geom.Point); ok {
			return onVertex(at.Coordinates, bt.Coordinates)
		}
	case *geom.LineString:
		if at, ok := a.(*geom.Point); ok {
			return onVertex(at.Coordinates, bt.Coordinates)
		}
	case *geom.MultiLineString:
		if at, ok := a.(*geom.Point); ok {
			for _, line := range bt.Coordinates {
				if onVertex(at.Coordinates, line) {
					return true
				}
			}
		}
	case *geom.Polygon:
		return withinPolygon(a, bt.Coordinates)
	case *geom.MultiPolygon:
		return withinMultiPolygon(a, bt.Coordinates)
	}
	return false
}

// Contains reports whether b lies inside a.
func Contains(a, b geom.Geometry) bool {
	return Within(b, a)
}

// withinDefined lists the kind pairs Within has a rule for.
func withinDefined(a, b geom.Kind) bool {
	switch b {
	case geom.KindPoint, geom.KindMultiPoint, geom.KindLineString, geom.KindMultiLineString:
		return a == geom.KindPoint
	case geom.KindPolygon, geom.KindMultiPolygon:
		switch a {
		case geom.KindPoint, geom.KindMultiPoint, geom.KindLineString,
			geom.KindMultiLineString, geom.KindPolygon, geom.KindMultiPolygon:
			return true
		}
	}
	return false
}

func pointsEqual(a, b geom.Position) bool {
	return len(a) >= 2 && a.Equal(b)
}

func onVertex(p geom.Position, line []geom.Position) bool {
	for _, v := range line {
		if pointsEqual(p, v) {
			return true
		}
	}
	return false
}

func withinPolygon(a geom.Geometry, rings [][]geom.Position) bool {
	switch at := a.(type) {
	case *geom.Point:
		return PolygonContainsPoint(rings, at.Coordinates)
	case *geom.MultiPoint:
		return allContained(at.Coordinates, rings)
	case *geom.LineString:
		return allContained(at.Coordinates, rings)
	case *geom.MultiLineString:
		if len(at.Coordinates) == 0 {
			return false
		}
		for _, line := range at.Coordinates {
			if !allContained(line, rings) {
				return false
			}
		}
		return true
	case *geom.Polygon:
		return polygonWithinPolygon(at.Coordinates, rings)
	case *geom.MultiPolygon:
		if len(at.Coordinates) == 0 {
			return false
		}
		for _, poly := range at.Coordinates {
			if !polygonWithinPolygon(poly, rings) {
				return false
			}
		}
		return true
	}
	return false
}

func withinMultiPolygon(a geom.Geometry, polys [][][]geom.Position) bool {
	switch at := a.(type) {
	case *geom.MultiLineString:
		if len(at.Coordinates) == 0 {
			return false
		}
		for _, line := range at.Coordinates {
			if !withinMultiPolygon(&geom.LineString{Coordinates: line}, polys) {
				return false
			}
		}
		return true
	case *geom.MultiPolygon:
		if len(at.Coordinates) == 0 {
			return false
		}
		for _, poly := range at.Coordinates {
			if !withinMultiPolygon(&geom.Polygon{Coordinates: poly}, polys) {
				return false
			}
		}
		return true
	}
	for _, rings := range polys {
		if withinPolygon(a, rings) {
			return true
		}
	}
	return false
}

func allContained(points []geom.Position, rings [][]geom.Position) bool {
	if len(points) == 0 {
		return false
	}
	for _, p := range points {
		if !PolygonContainsPoint(rings, p) {
			return false
		}
	}
	return true
}

// polygonWithinPolygon treats identical polygons as within each other.
// Otherwise a must start inside b and no edge of a may cross an edge of b.
func polygonWithinPolygon(a, b [][]geom.Position) bool {
	if len(a) == 0 || len(b) == 0 || len(a[0]) == 0 {
		return false
	}
	if ringSetsEqual(a, b) {
		return true
	}
	if !PolygonContainsPoint(b, a[0][0]) {
		return false
	}
	return !AnyLinesIntersect(closeRings(a), closeRings(b))
}

// ringSetsEqual compares rings pairwise as unordered sets of positions.
func ringSetsEqual(a, b [][]geom.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameVertices(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameVertices(a, b []geom.Position) bool {
	if len(a) != len(b) {
		return false
	}
	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.SortFunc(sa, hullOrder)
	slices.SortFunc(sb, hullOrder)
	for i := range sa {
		if !sa[i].Equal(sb[i]) {
			return false
		}
	}
	return true
}
