package spatial

import (
	"testing"

	"github.com/mohammed-shakir/georelate/pkg/diag"
	"github.com/mohammed-shakir/georelate/pkg/geom"
)

func TestIntersects_LineWork(t *testing.T) {
	mls := &geom.MultiLineString{Coordinates: [][]geom.Position{ring(0, 0, 10, 10, 20, 0)}}
	poly := &geom.Polygon{Coordinates: [][]geom.Position{ring(0, 0, 0, 5, 5, 5, 5, 0, 0, 0)}}
	cases := []struct {
		name string
		a, b geom.Geometry
		want bool
	}{
		{"mls x linestring", mls, &geom.LineString{Coordinates: ring(0, 10, 15, 5)}, true},
		{"mls x polygon", mls, &geom.Polygon{Coordinates: [][]geom.Position{ring(0, 5, 10, 5, 10, 0, 0, 0)}}, true},
		{"mls x multipolygon", mls, &geom.MultiPolygon{Coordinates: [][][]geom.Position{{ring(0, 5, 10, 5, 10, 0, 0, 0)}}}, true},
		{"polygon x itself", poly, poly, true},
		{"polygon x overlapping polygon", poly, &geom.Polygon{Coordinates: [][]geom.Position{ring(1, 1, 11, 1, 11, 6, 1, 6)}}, true},
		{"multipolygon x polygon reversed", &geom.MultiPolygon{Coordinates: [][][]geom.Position{{ring(1, 1, 11, 1, 11, 6, 1, 6, 1, 1)}}}, poly, true},
		{"disjoint multipolygons", &geom.MultiPolygon{Coordinates: [][][]geom.Position{{ring(48.5, -122.5, 50, -123, 48.5, -122.5)}}},
			&geom.MultiPolygon{Coordinates: [][][]geom.Position{{ring(1, 2, 3, 4, 5, 6)}}}, false},
		{"point in polygon", pt(1, 1), poly, true},
		{"polygon around point", poly, pt(1, 1), true},
		{"point outside polygon", pt(50, 50), poly, false},
	}
	for _, c := range cases {
		if got := Intersects(c.a, c.b); got != c.want {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestIntersects_MultiPolygonComponentCrossing(t *testing.T) {
	mp := &geom.MultiPolygon{Coordinates: [][][]geom.Position{
		{ring(102, 2, 103, 2, 103, 3, 102, 3, 102, 2)},
		{ring(100, 0, 101, 0, 101, 1, 100, 1, 100, 0)},
	}}
	across := &geom.Polygon{Coordinates: [][]geom.Position{ring(102.5, 1.5, 103.5, 1.5, 103.5, 3.5, 102.5, 3.5, 102.5, 1.5)}}
	if !Intersects(mp, across) {
		t.Fatalf("polygon crossing a component should intersect")
	}
	far := &geom.Polygon{Coordinates: [][]geom.Position{ring(110, 10, 111, 10, 111, 11, 110, 11, 110, 10)}}
	if Intersects(mp, far) {
		t.Fatalf("distant polygon should not intersect")
	}
}

func TestIntersects_UnsupportedPairWarns(t *testing.T) {
	var codes []diag.Code
	diag.SetHook(func(c diag.Code) { codes = append(codes, c) })
	t.Cleanup(func() { diag.SetHook(nil) })

	a := &geom.MultiPoint{Coordinates: ring(0, 0, 1, 1)}
	b := &geom.MultiPoint{Coordinates: ring(0, 0, 2, 2)}
	if Intersects(a, b) {
		t.Fatalf("unsupported pair should be false")
	}
	if len(codes) != 1 || codes[0] != diag.CodeUnsupportedPair {
		t.Fatalf("got %v want one unsupported_pair warning", codes)
	}

	codes = nil
	if Intersects(pt(50, 50), &geom.LineString{Coordinates: ring(0, 0, 1, 1)}) {
		t.Fatalf("point off line should be false")
	}
	if len(codes) != 0 {
		t.Fatalf("supported pair should not warn, got %v", codes)
	}
}

func TestIntersects_Features(t *testing.T) {
	poly := &geom.Feature{Geometry: &geom.Polygon{Coordinates: [][]geom.Position{ring(0, 0, 0, 5, 5, 5, 5, 0, 0, 0)}}}
	if !Intersects(&geom.Feature{Geometry: pt(1, 1)}, poly) {
		t.Fatalf("features should be unwrapped")
	}
	if Intersects(&geom.Feature{}, poly) {
		t.Fatalf("feature without geometry intersects nothing")
	}
}
