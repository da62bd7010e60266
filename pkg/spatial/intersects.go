package spatial

import (
	"github.com/mohammed-shakir/georelate/pkg/diag"
	"github.com/mohammed-shakir/georelate/pkg/geom"
)

// Intersects reports whether a and b share any point: either lies within the
// other or their edges cross. Pairs the engine cannot decide are reported to
// diag and treated as disjoint.
func Intersects(a, b geom.Geometry) bool {
	a, b = geom.Unwrap(a), geom.Unwrap(b)
	if a == nil || b == nil {
		return false
	}
	if Within(a, b) || Within(b, a) {
		return true
	}
	la, okA := lineWork(a)
	lb, okB := lineWork(b)
	if okA && okB {
		return AnyLinesIntersect(la, lb)
	}
	ka, kb := a.Kind(), b.Kind()
	if !withinDefined(ka, kb) && !withinDefined(kb, ka) {
		diag.Warn(diag.CodeUnsupportedPair, "intersection is not supported for this pair",
			"a", ka.String(), "b", kb.String())
	}
	return false
}

// lineWork returns the raw lines of kinds that have edges.
func lineWork(g geom.Geometry) ([][]geom.Position, bool) {
	switch t := g.(type) {
	case *geom.LineString:
		return [][]geom.Position{t.Coordinates}, true
	case *geom.MultiLineString:
		return t.Coordinates, true
	case *geom.Polygon:
		return t.Coordinates, true
	case *geom.MultiPolygon:
		var out [][]geom.Position
		for _, p := range t.Coordinates {
			out = append(out, p...)
		}
		return out, true
	}
	return nil, false
}
