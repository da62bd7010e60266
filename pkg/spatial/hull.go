package spatial

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

// orders by x descending, then y descending
func hullOrder(a, b geom.Position) int {
	if c := cmp.Compare(b.X(), a.X()); c != 0 {
		return c
	}
	return cmp.Compare(b.Y(), a.Y())
}

// -1, 0 or 1 for a right turn, straight line or left turn through p, q, r
func turn(p, q, r geom.Position) int {
	return cmp.Compare((q.X()-p.X())*(r.Y()-p.Y())-(r.X()-p.X())*(q.Y()-p.Y()), 0)
}

func sqDist(p, q geom.Position) float64 {
	dx, dy := q.X()-p.X(), q.Y()-p.Y()
	return dx*dx + dy*dy
}

func nextHullPoint(points []geom.Position, p geom.Position) geom.Position {
	q := p
	for _, r := range points {
		t := turn(p, q, r)
		if t == -1 || (t == 0 && sqDist(p, r) > sqDist(p, q)) {
			q = r
		}
	}
	return q
}

// CoordinateConvexHull runs a Jarvis march over points and returns the hull
// vertices, starting at the point with the greatest x (then y). The result
// is not closed.
func CoordinateConvexHull(points []geom.Position) []geom.Position {
	switch len(points) {
	case 0:
		return []geom.Position{}
	case 1:
		return []geom.Position{points[0].Clone()}
	}
	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, hullOrder)

	hull := []geom.Position{sorted[0]}
	for i := 0; i < len(hull); i++ {
		q := nextHullPoint(sorted, hull[i])
		if q.Equal(hull[0]) {
			break
		}
		hull = append(hull, q)
		// float noise can keep the march from closing
		if len(hull) > len(sorted) {
			break
		}
	}
	return geom.CloneLine(hull)
}

// ConvexHull returns the hull of g as a single-ring polygon. It returns nil
// without error for points and for inputs whose hull has fewer than three
// distinct vertices.
func ConvexHull(g geom.Geometry) (*geom.Polygon, error) {
	var pts []geom.Position
	switch t := g.(type) {
	case *geom.Point:
		return nil, nil
	case *geom.MultiPoint:
		pts = t.Coordinates
	case *geom.LineString:
		pts = t.Coordinates
	case *geom.Polygon:
		for _, r := range t.Coordinates {
			pts = append(pts, r...)
		}
	case *geom.MultiLineString:
		for _, l := range t.Coordinates {
			pts = append(pts, l...)
		}
	case *geom.MultiPolygon:
		for _, p := range t.Coordinates {
			for _, r := range p {
				pts = append(pts, r...)
			}
		}
	case *geom.Feature:
		if t == nil || t.Geometry == nil {
			return nil, nil
		}
		return ConvexHull(t.Geometry)
	case *geom.GeometryCollection, *geom.FeatureCollection:
		pts = geom.Positions(t)
	default:
		return nil, fmt.Errorf("convex hull: %w", geom.ErrUnknownKind)
	}
	if len(pts) < 3 {
		return nil, nil
	}
	// collinear or repeated inputs leave fewer than three hull vertices
	hull := CloseRing(CoordinateConvexHull(pts))
	if len(hull) < 4 {
		return nil, nil
	}
	return &geom.Polygon{Coordinates: [][]geom.Position{hull}}, nil
}

// IsConvex reports whether consecutive triples of points all turn the same
// way. Straight triples are ignored.
func IsConvex(points []geom.Position) bool {
	sign := 0
	for i := 0; i+2 < len(points); i++ {
		p1, p2, p3 := points[i], points[i+1], points[i+2]
		vx, vy := p2.X()-p1.X(), p2.Y()-p1.Y()
		res := p3.X()*vy - p3.Y()*vx + vx*p1.Y() - vy*p1.X()
		s := cmp.Compare(res, 0)
		if s == 0 {
			continue
		}
		if sign == 0 {
			sign = s
		} else if s != sign {
			return false
		}
	}
	return true
}
