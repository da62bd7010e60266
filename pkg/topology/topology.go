// Package topology converts between flat ring lists, where nesting is implied
// by winding, and grouped polygons with an explicit shell and holes.
//
// In a flat list clockwise rings are shells and counter-clockwise rings are
// holes. Grouped output uses the opposite winding: shells counter-clockwise,
// holes clockwise. Rings with fewer than four positions after closing are
// dropped everywhere.
package topology

import (
	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/spatial"
)

const minRingSize = 4

// GroupRings assigns every hole in rings to a shell and returns a Polygon
// when exactly one shell results, a MultiPolygon otherwise.
//
// Holes are taken last-in first-out. Each one goes to the most recently
// added shell that contains its first vertex without crossing it. Holes that
// fit no shell go to the most recently added shell they cross; failing that
// they become shells of their own.
func GroupRings(rings [][]geom.Position) geom.Geometry {
	var groups [][][]geom.Position
	var holes [][]geom.Position

	for _, r := range rings {
		c := spatial.CloseRing(r)
		if len(c) < minRingSize {
			continue
		}
		if spatial.IsClockwise(c) {
			groups = append(groups, [][]geom.Position{geom.Reversed(c)})
		} else {
			holes = append(holes, geom.Reversed(c))
		}
	}

	var loose [][]geom.Position
	for len(holes) > 0 {
		hole := holes[len(holes)-1]
		holes = holes[:len(holes)-1]
		if i := lastShell(groups, func(shell []geom.Position) bool {
			return nests(shell, hole)
		}); i >= 0 {
			groups[i] = append(groups[i], hole)
			continue
		}
		loose = append(loose, hole)
	}

	for len(loose) > 0 {
		hole := loose[len(loose)-1]
		loose = loose[:len(loose)-1]
		if i := lastShell(groups, func(shell []geom.Position) bool {
			return spatial.LinesIntersect(shell, hole)
		}); i >= 0 {
			groups[i] = append(groups[i], hole)
			continue
		}
		groups = append(groups, [][]geom.Position{geom.Reversed(hole)})
	}

	if len(groups) == 1 {
		return &geom.Polygon{Coordinates: groups[0]}
	}
	if groups == nil {
		groups = [][][]geom.Position{}
	}
	return &geom.MultiPolygon{Coordinates: groups}
}

// lastShell scans groups from the newest and returns the index of the first
// shell accepted by ok, or -1.
func lastShell(groups [][][]geom.Position, ok func([]geom.Position) bool) int {
	for i := len(groups) - 1; i >= 0; i-- {
		if ok(groups[i][0]) {
			return i
		}
	}
	return -1
}

func nests(shell, hole []geom.Position) bool {
	return spatial.PointInRing(shell, hole[0]) && !spatial.LinesIntersect(shell, hole)
}

// OrientRings prepares a grouped polygon for the flat form: the shell is
// wound clockwise and every hole counter-clockwise. An invalid shell yields
// no rings.
func OrientRings(polygon [][]geom.Position) [][]geom.Position {
	out := [][]geom.Position{}
	if len(polygon) == 0 {
		return out
	}
	shell := spatial.CloseRing(polygon[0])
	if len(shell) < minRingSize {
		return out
	}
	if !spatial.IsClockwise(shell) {
		shell = geom.Reversed(shell)
	}
	out = append(out, shell)

	for _, r := range polygon[1:] {
		hole := spatial.CloseRing(r)
		if len(hole) < minRingSize {
			continue
		}
		if spatial.IsClockwise(hole) {
			hole = geom.Reversed(hole)
		}
		out = append(out, hole)
	}
	return out
}

// FlattenMultiPolygon orients each polygon and appends its rings in reverse
// order, so every shell follows its holes.
func FlattenMultiPolygon(polys [][][]geom.Position) [][]geom.Position {
	out := [][]geom.Position{}
	for _, p := range polys {
		oriented := OrientRings(p)
		for i := len(oriented) - 1; i >= 0; i-- {
			out = append(out, oriented[i])
		}
	}
	return out
}
