package topology

import (
	"testing"

	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/spatial"
)

func ring(xy ...float64) []geom.Position {
	out := make([]geom.Position, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geom.Position{xy[i], xy[i+1]})
	}
	return out
}

func sameRing(a, b []geom.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

var (
	kansasShell = ring(-100.74, 39.95, -94.50, 39.92, -94.42, 34.89, -100.79, 34.86, -100.74, 39.95)
	holeA       = ring(-99.69, 39.34, -99.69, 38.0, -98.0, 38.0, -98.0, 39.34, -99.69, 39.34)
	holeB       = ring(-97.5, 39.0, -97.5, 37.5, -96.0, 37.5, -96.0, 39.0, -97.5, 39.0)
	holeC       = ring(-99.5, 36.5, -99.5, 35.5, -96.0, 35.5, -96.0, 36.5, -99.5, 36.5)
)

func TestGroupRings_ShellWithNestedHoles(t *testing.T) {
	in := [][]geom.Position{kansasShell, holeA, holeB, holeC}
	g := GroupRings(in)
	poly, ok := g.(*geom.Polygon)
	if !ok {
		t.Fatalf("got %T want *geom.Polygon", g)
	}
	if len(poly.Coordinates) != 4 {
		t.Fatalf("rings got %d want 4", len(poly.Coordinates))
	}
	if !sameRing(poly.Coordinates[0], geom.Reversed(kansasShell)) {
		t.Fatalf("shell got %v", poly.Coordinates[0])
	}
	// holes are taken from the end of the input first
	for i, want := range [][]geom.Position{holeC, holeB, holeA} {
		if !sameRing(poly.Coordinates[i+1], geom.Reversed(want)) {
			t.Fatalf("hole %d got %v want %v", i, poly.Coordinates[i+1], geom.Reversed(want))
		}
	}
	if !sameRing(in[0], kansasShell) || len(in) != 4 {
		t.Fatalf("input modified")
	}
}

func TestGroupRings_DisjointShells(t *testing.T) {
	a := ring(0, 0, 0, 1, 1, 1, 1, 0, 0, 0)
	b := ring(5, 5, 5, 6, 6, 6, 6, 5, 5, 5)
	g := GroupRings([][]geom.Position{a, b})
	mp, ok := g.(*geom.MultiPolygon)
	if !ok {
		t.Fatalf("got %T want *geom.MultiPolygon", g)
	}
	if len(mp.Coordinates) != 2 || len(mp.Coordinates[0]) != 1 || len(mp.Coordinates[1]) != 1 {
		t.Fatalf("unexpected grouping %v", mp.Coordinates)
	}
}

func TestGroupRings_LaterShellWinsTie(t *testing.T) {
	first := ring(0, 0, 0, 10, 10, 10, 10, 0, 0, 0)
	second := ring(2, 2, 2, 12, 12, 12, 12, 2, 2, 2)
	hole := ring(4, 4, 6, 4, 6, 6, 4, 6, 4, 4)
	mp := GroupRings([][]geom.Position{first, second, hole}).(*geom.MultiPolygon)
	if len(mp.Coordinates[0]) != 1 {
		t.Fatalf("first shell got %d rings want 1", len(mp.Coordinates[0]))
	}
	if len(mp.Coordinates[1]) != 2 {
		t.Fatalf("second shell got %d rings want 2", len(mp.Coordinates[1]))
	}

	// the order of the shells decides, not their geometry
	swapped := GroupRings([][]geom.Position{second, first, hole}).(*geom.MultiPolygon)
	if len(swapped.Coordinates[1]) != 2 || !sameRing(swapped.Coordinates[1][0], geom.Reversed(first)) {
		t.Fatalf("hole should follow the later shell, got %v", swapped.Coordinates)
	}
}

func TestGroupRings_CrossingHoleFallsBackToIntersection(t *testing.T) {
	shell := ring(0, 0, 0, 10, 10, 10, 10, 0, 0, 0)
	hole := ring(12, 12, 8, 12, 8, 8, 12, 8, 12, 12)
	if spatial.IsClockwise(hole) {
		t.Fatalf("fixture hole must be counter-clockwise")
	}
	g := GroupRings([][]geom.Position{shell, hole})
	poly, ok := g.(*geom.Polygon)
	if !ok || len(poly.Coordinates) != 2 {
		t.Fatalf("got %#v want polygon with 2 rings", g)
	}
}

func TestGroupRings_OrphanHoleBecomesShell(t *testing.T) {
	shell := ring(0, 0, 0, 1, 1, 1, 1, 0, 0, 0)
	orphan := ring(20, 20, 21, 20, 21, 21, 20, 21, 20, 20)
	mp := GroupRings([][]geom.Position{shell, orphan}).(*geom.MultiPolygon)
	if len(mp.Coordinates) != 2 {
		t.Fatalf("got %d groups want 2", len(mp.Coordinates))
	}
	if !sameRing(mp.Coordinates[1][0], orphan) {
		t.Fatalf("orphan got %v want %v", mp.Coordinates[1][0], orphan)
	}
}

func TestGroupRings_DropsInvalidAndHandlesEmpty(t *testing.T) {
	g := GroupRings([][]geom.Position{ring(0, 0, 1, 1), {}})
	mp, ok := g.(*geom.MultiPolygon)
	if !ok || len(mp.Coordinates) != 0 {
		t.Fatalf("got %#v want empty multipolygon", g)
	}
	// an open ring is closed before use
	open := ring(41.83, 71.01, 56.95, 33.75, 21.79, 36.56)
	poly := GroupRings([][]geom.Position{open}).(*geom.Polygon)
	want := ring(41.83, 71.01, 21.79, 36.56, 56.95, 33.75, 41.83, 71.01)
	if !sameRing(poly.Coordinates[0], want) {
		t.Fatalf("got %v want %v", poly.Coordinates[0], want)
	}
}

func TestGroupRings_WindingOfGroups(t *testing.T) {
	poly := GroupRings([][]geom.Position{kansasShell, holeA, holeB}).(*geom.Polygon)
	if spatial.IsClockwise(poly.Coordinates[0]) {
		t.Fatalf("grouped shell should be counter-clockwise")
	}
	for _, h := range poly.Coordinates[1:] {
		if !spatial.IsClockwise(h) {
			t.Fatalf("grouped hole should be clockwise")
		}
		if !spatial.PointInRing(poly.Coordinates[0], h[0]) {
			t.Fatalf("hole vertex outside shell")
		}
		if spatial.PointInRing(h, poly.Coordinates[0][0]) {
			t.Fatalf("shell vertex inside hole")
		}
	}
}

func TestOrientRings(t *testing.T) {
	ccwShell := ring(0, 0, 10, 0, 10, 10, 0, 10, 0, 0)
	cwHole := ring(2, 2, 2, 4, 4, 4, 4, 2, 2, 2)
	out := OrientRings([][]geom.Position{ccwShell, cwHole, ring(1, 1)})
	if len(out) != 2 {
		t.Fatalf("got %d rings want 2", len(out))
	}
	if !spatial.IsClockwise(out[0]) || spatial.IsClockwise(out[1]) {
		t.Fatalf("wrong winding: %v", out)
	}
	if !sameRing(ccwShell, ring(0, 0, 10, 0, 10, 10, 0, 10, 0, 0)) {
		t.Fatalf("input modified")
	}
	if got := OrientRings([][]geom.Position{ring(0, 0, 1, 1)}); len(got) != 0 {
		t.Fatalf("invalid shell got %v want none", got)
	}
}

func TestFlattenThenGroup_RoundTrip(t *testing.T) {
	grouped := GroupRings([][]geom.Position{kansasShell, holeA, holeB, holeC}).(*geom.Polygon)
	other := geom.Reversed(ring(0, 0, 0, 1, 1, 1, 1, 0, 0, 0))
	flat := FlattenMultiPolygon([][][]geom.Position{grouped.Coordinates, {other}, {}})
	if len(flat) != 5 {
		t.Fatalf("flat got %d rings want 5", len(flat))
	}
	if !spatial.IsClockwise(flat[3]) {
		t.Fatalf("shell should follow its holes: %v", flat[3])
	}

	back := GroupRings(flat).(*geom.MultiPolygon)
	if len(back.Coordinates) != 2 {
		t.Fatalf("groups got %d want 2", len(back.Coordinates))
	}
	if len(back.Coordinates[0]) != 4 || len(back.Coordinates[1]) != 1 {
		t.Fatalf("membership changed: %d and %d rings", len(back.Coordinates[0]), len(back.Coordinates[1]))
	}
	for i := range grouped.Coordinates {
		if !sameRing(back.Coordinates[0][i], grouped.Coordinates[i]) {
			t.Fatalf("ring %d got %v want %v", i, back.Coordinates[0][i], grouped.Coordinates[i])
		}
	}
}
