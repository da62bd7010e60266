package arcgis

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mohammed-shakir/georelate/pkg/diag"
	"github.com/mohammed-shakir/georelate/pkg/geom"
)

func mustParse(t *testing.T, in string, opts ...Option) geom.Geometry {
	t.Helper()
	g, err := ParseString(in, opts...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return g
}

func sameLines(a, b [][]geom.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if !a[i][j].Equal(b[i][j]) {
				return false
			}
		}
	}
	return true
}

func TestParse_Point(t *testing.T) {
	p := mustParse(t, `{"x":-66.796875,"y":20.0390625,"z":1,"spatialReference":{"wkid":4326}}`).(*geom.Point)
	if !p.Coordinates.Equal(geom.Position{-66.796875, 20.0390625, 1}) {
		t.Fatalf("got %v", p.Coordinates)
	}
	null := mustParse(t, `{"x":0,"y":0}`).(*geom.Point)
	if !null.Coordinates.Equal(geom.Position{0, 0}) {
		t.Fatalf("null island got %v", null.Coordinates)
	}
}

func TestParse_PathsAndPoints(t *testing.T) {
	if g := mustParse(t, `{"paths":[[[6.6,49.2],[-2.1,49.3]]]}`); g.Kind() != geom.KindLineString {
		t.Fatalf("one path got %v want LineString", g.Kind())
	}
	if g := mustParse(t, `{"paths":[[[1,2],[3,4]],[[5,6],[7,8]]]}`); g.Kind() != geom.KindMultiLineString {
		t.Fatalf("two paths got %v want MultiLineString", g.Kind())
	}
	mp := mustParse(t, `{"points":[[41.8,71.0],[56.9,33.7]]}`).(*geom.MultiPoint)
	if len(mp.Coordinates) != 2 {
		t.Fatalf("points got %v", mp.Coordinates)
	}
}

func TestParse_RingsAreReconstructed(t *testing.T) {
	poly := mustParse(t, `{"rings":[[[41.8359375,71.015625],[56.953125,33.75],[21.796875,36.5625],[41.8359375,71.015625]]],"spatialReference":{"wkid":4326}}`).(*geom.Polygon)
	want := [][]geom.Position{{{41.8359375, 71.015625}, {21.796875, 36.5625}, {56.953125, 33.75}, {41.8359375, 71.015625}}}
	if !sameLines(poly.Coordinates, want) {
		t.Fatalf("got %v want %v", poly.Coordinates, want)
	}

	stripped := mustParse(t, `{"rings":[
		[[-122.63,45.52],[-122.57,45.53],[-122.52,45.50],[-122.49,45.48],[-122.64,45.49],[-122.63,45.52],[-122.63,45.52]],
		[[-83,35],[-74,35],[-83,35]]
	]}`).(*geom.Polygon)
	if len(stripped.Coordinates) != 1 || len(stripped.Coordinates[0]) != 7 {
		t.Fatalf("invalid ring not stripped: %v", stripped.Coordinates)
	}

	outside := mustParse(t, `{"rings":[
		[[-122.45,45.63],[-122.45,45.68],[-122.39,45.68],[-122.39,45.63],[-122.45,45.63]],
		[[-122.46,45.64],[-122.4,45.64],[-122.4,45.66],[-122.46,45.66],[-122.46,45.64]]
	]}`).(*geom.Polygon)
	wantOutside := [][]geom.Position{
		{{-122.45, 45.63}, {-122.39, 45.63}, {-122.39, 45.68}, {-122.45, 45.68}, {-122.45, 45.63}},
		{{-122.46, 45.64}, {-122.46, 45.66}, {-122.4, 45.66}, {-122.4, 45.64}, {-122.46, 45.64}},
	}
	if !sameLines(outside.Coordinates, wantOutside) {
		t.Fatalf("crossing hole got %v want %v", outside.Coordinates, wantOutside)
	}
}

func TestParse_Extent(t *testing.T) {
	poly := mustParse(t, `{"xmax":-35.5078125,"ymax":41.244772343082076,"xmin":-13.7109375,"ymin":54.36775852406841,"spatialReference":{"wkid":4326}}`).(*geom.Polygon)
	want := [][]geom.Position{{
		{-35.5078125, 41.244772343082076}, {-13.7109375, 41.244772343082076},
		{-13.7109375, 54.36775852406841}, {-35.5078125, 54.36775852406841},
		{-35.5078125, 41.244772343082076},
	}}
	if !sameLines(poly.Coordinates, want) {
		t.Fatalf("got %v want %v", poly.Coordinates, want)
	}
}

func TestParse_FeatureIDs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		opts []Option
		want any
	}{
		{"objectid", `{"geometry":{"x":1,"y":2},"attributes":{"OBJECTID":123}}`, nil, float64(123)},
		{"fid", `{"geometry":{"x":1,"y":2},"attributes":{"FID":"abc"}}`, nil, "abc"},
		{"custom wins", `{"geometry":{"x":1,"y":2},"attributes":{"OBJECTID":1,"myId":"x9"}}`, []Option{WithIDAttribute("myId")}, "x9"},
		{"non scalar skipped", `{"geometry":{"x":1,"y":2},"attributes":{"OBJECTID":{"a":1}}}`, nil, nil},
		{"no attributes", `{"geometry":{"x":1,"y":2}}`, nil, nil},
	}
	for _, c := range cases {
		f := mustParse(t, c.in, c.opts...).(*geom.Feature)
		if f.ID != c.want {
			t.Fatalf("%s: id got %v want %v", c.name, f.ID, c.want)
		}
		if f.Geometry == nil || f.Geometry.Kind() != geom.KindPoint {
			t.Fatalf("%s: geometry got %v", c.name, f.Geometry)
		}
	}
}

func TestParse_FeatureWithoutValidGeometry(t *testing.T) {
	f := mustParse(t, `{"geometry":{"x":"NaN","y":"NaN"},"attributes":{"foo":"bar"}}`).(*geom.Feature)
	if f.Geometry != nil {
		t.Fatalf("geometry got %v want nil", f.Geometry)
	}
	if f.Properties["foo"] != "bar" {
		t.Fatalf("properties got %v", f.Properties)
	}
}

func TestParse_FeatureSet(t *testing.T) {
	fc := mustParse(t, `{"features":[
		{"geometry":{"rings":[[[0,0],[0,1],[1,1],[1,0],[0,0]]]},"attributes":{"OBJECTID":1}},
		{"geometry":{"paths":[[[0,0],[1,1]]]},"attributes":{"OBJECTID":2}}
	]}`).(*geom.FeatureCollection)
	if len(fc.Features) != 2 {
		t.Fatalf("features got %d want 2", len(fc.Features))
	}
	if fc.Features[0].Geometry.Kind() != geom.KindPolygon || fc.Features[1].ID != float64(2) {
		t.Fatalf("unexpected features %+v %+v", fc.Features[0], fc.Features[1])
	}
}

func TestParse_WarnsOnForeignSpatialReference(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	diag.SetLogger(&zl)
	t.Cleanup(func() { diag.SetLogger(nil) })

	p := mustParse(t, `{"x":-13580978,"y":5621521,"spatialReference":{"wkid":102100}}`)
	if p.Kind() != geom.KindPoint {
		t.Fatalf("conversion should continue, got %v", p.Kind())
	}
	if !strings.Contains(buf.String(), "102100") {
		t.Fatalf("expected a warning naming the wkid, got %q", buf.String())
	}

	buf.Reset()
	mustParse(t, `{"x":1,"y":2,"spatialReference":{"wkid":4326}}`)
	if buf.Len() != 0 {
		t.Fatalf("unexpected warning %q", buf.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := ParseString(`{"x":`); err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if _, err := ParseString(`[1,2]`); err == nil {
		t.Fatalf("expected error for non-object input")
	}
	if g := mustParse(t, `{"foo":1}`); g != nil {
		t.Fatalf("unrecognized object got %v want nil", g)
	}
}

func toJSON(t *testing.T, g geom.Geometry, opts ...Option) map[string]any {
	t.Helper()
	b, err := Marshal(g, opts...)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	return out
}

func TestMarshal_PolygonWithHole(t *testing.T) {
	poly := &geom.Polygon{Coordinates: [][]geom.Position{
		{{100, 0}, {101, 0}, {101, 1}, {100, 1}, {100, 0}},
		{{100.2, 0.2}, {100.8, 0.2}, {100.8, 0.8}, {100.2, 0.8}, {100.2, 0.2}},
	}}
	b, err := Marshal(poly)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"rings":[[[100,0],[100,1],[101,1],[101,0],[100,0]],[[100.2,0.2],[100.8,0.2],[100.8,0.8],[100.2,0.8],[100.2,0.2]]],"spatialReference":{"wkid":4326}}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
	if poly.Coordinates[0][1][0] != 101 {
		t.Fatalf("input modified")
	}
}

func TestMarshal_MultiPolygonWithHoles(t *testing.T) {
	mp := &geom.MultiPolygon{Coordinates: [][][]geom.Position{
		{{{102, 2}, {103, 2}, {103, 3}, {102, 3}, {102, 2}}},
		{
			{{100, 0}, {101, 0}, {101, 1}, {100, 1}, {100, 0}},
			{{100.2, 0.2}, {100.8, 0.2}, {100.8, 0.8}, {100.2, 0.8}, {100.2, 0.2}},
		},
	}}
	b, err := Marshal(mp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"rings":[[[102,2],[102,3],[103,3],[103,2],[102,2]],[[100.2,0.2],[100.8,0.2],[100.8,0.8],[100.2,0.8],[100.2,0.2]],[[100,0],[100,1],[101,1],[101,0],[100,0]]],"spatialReference":{"wkid":4326}}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}
}

func TestMarshal_PointsAndLines(t *testing.T) {
	p := toJSON(t, &geom.Point{Coordinates: geom.Position{-58.7, 47.2, 3}})
	if p["x"] != -58.7 || p["y"] != 47.2 || p["z"] != float64(3) {
		t.Fatalf("point got %v", p)
	}
	ls := toJSON(t, &geom.LineString{Coordinates: []geom.Position{{1, 2, 3}, {4, 5, 6}}})
	if ls["hasZ"] != true || len(ls["paths"].([]any)) != 1 {
		t.Fatalf("linestring got %v", ls)
	}
	mp := toJSON(t, &geom.MultiPoint{Coordinates: []geom.Position{{1, 2}}})
	if _, ok := mp["hasZ"]; ok {
		t.Fatalf("2d multipoint should not carry hasZ: %v", mp)
	}
}

func TestMarshal_FeatureAndCollections(t *testing.T) {
	f := &geom.Feature{
		ID:         "f1",
		Geometry:   &geom.Point{Coordinates: geom.Position{1, 2}},
		Properties: map[string]any{"name": "a"},
	}
	out := toJSON(t, f, WithIDAttribute("myId"))
	attrs := out["attributes"].(map[string]any)
	if attrs["myId"] != "f1" || attrs["name"] != "a" {
		t.Fatalf("attributes got %v", attrs)
	}
	if _, ok := f.Properties["myId"]; ok {
		t.Fatalf("feature properties modified")
	}

	bare := toJSON(t, &geom.Feature{})
	if _, ok := bare["geometry"]; ok {
		t.Fatalf("empty feature should have no geometry: %v", bare)
	}
	if len(bare["attributes"].(map[string]any)) != 0 {
		t.Fatalf("empty feature should have empty attributes: %v", bare)
	}

	b, err := Marshal(&geom.GeometryCollection{Geometries: []geom.Geometry{
		&geom.Point{Coordinates: geom.Position{1, 2}},
		&geom.LineString{Coordinates: []geom.Position{{0, 0}, {1, 1}}},
	}})
	if err != nil {
		t.Fatalf("marshal collection: %v", err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(b, &arr); err != nil || len(arr) != 2 {
		t.Fatalf("collection got %s (%v)", b, err)
	}

	def := toJSON(t, &geom.Feature{ID: float64(7)})
	if def["attributes"].(map[string]any)["OBJECTID"] != float64(7) {
		t.Fatalf("default id attribute not used: %v", def)
	}
}

func TestRoundTrip_RingsKeepMembership(t *testing.T) {
	in := `{"rings":[
		[[-100.74,39.95],[-94.50,39.92],[-94.42,34.89],[-100.79,34.86],[-100.74,39.95]],
		[[-99.69,39.34],[-99.69,38.0],[-98.0,38.0],[-98.0,39.34],[-99.69,39.34]],
		[[0,0],[0,1],[1,1],[1,0],[0,0]]
	]}`
	first := mustParse(t, in).(*geom.MultiPolygon)
	b, err := Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := mustParse(t, string(b)).(*geom.MultiPolygon)
	if len(second.Coordinates) != len(first.Coordinates) {
		t.Fatalf("groups got %d want %d", len(second.Coordinates), len(first.Coordinates))
	}
	for i := range first.Coordinates {
		if !sameLines(first.Coordinates[i], second.Coordinates[i]) {
			t.Fatalf("group %d changed: %v vs %v", i, first.Coordinates[i], second.Coordinates[i])
		}
	}
}
