// Package geom defines the GeoJSON-shaped geometry model shared by the
// spatial engine and the format adapters.
package geom

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a geometry kind cannot be handled.
var ErrUnknownKind = errors.New("unknown geometry kind")

type Kind uint8

const (
	KindUnknown Kind = iota
	KindPoint
	KindMultiPoint
	KindLineString
	KindMultiLineString
	KindPolygon
	KindMultiPolygon
	KindGeometryCollection
	KindFeature
	KindFeatureCollection
)

var kindNames = [...]string{
	KindUnknown:            "Unknown",
	KindPoint:              "Point",
	KindMultiPoint:         "MultiPoint",
	KindLineString:         "LineString",
	KindMultiLineString:    "MultiLineString",
	KindPolygon:            "Polygon",
	KindMultiPolygon:       "MultiPolygon",
	KindGeometryCollection: "GeometryCollection",
	KindFeature:            "Feature",
	KindFeatureCollection:  "FeatureCollection",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind maps a GeoJSON "type" member to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if k != int(KindUnknown) && name == s {
			return Kind(k), nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Geometry is implemented only by the types in this package.
type Geometry interface {
	Kind() Kind
	geometry()
}

// KindOf returns KindUnknown for a nil geometry.
func KindOf(g Geometry) Kind {
	if g == nil {
		return KindUnknown
	}
	return g.Kind()
}

type Point struct {
	Coordinates Position
}

type MultiPoint struct {
	Coordinates []Position
}

type LineString struct {
	Coordinates []Position
}

type MultiLineString struct {
	Coordinates [][]Position
}

// Polygon holds the shell at index 0 followed by its holes.
type Polygon struct {
	Coordinates [][]Position
}

type MultiPolygon struct {
	Coordinates [][][]Position
}

type GeometryCollection struct {
	Geometries []Geometry
}

// Feature wraps an optional geometry. ID is nil, a string or a float64.
type Feature struct {
	ID         any
	Geometry   Geometry
	Properties map[string]any
}

type FeatureCollection struct {
	Features []*Feature
}

func (*Point) Kind() Kind              { return KindPoint }
func (*MultiPoint) Kind() Kind         { return KindMultiPoint }
func (*LineString) Kind() Kind         { return KindLineString }
func (*MultiLineString) Kind() Kind    { return KindMultiLineString }
func (*Polygon) Kind() Kind            { return KindPolygon }
func (*MultiPolygon) Kind() Kind       { return KindMultiPolygon }
func (*GeometryCollection) Kind() Kind { return KindGeometryCollection }
func (*Feature) Kind() Kind            { return KindFeature }
func (*FeatureCollection) Kind() Kind  { return KindFeatureCollection }

func (*Point) geometry()              {}
func (*MultiPoint) geometry()         {}
func (*LineString) geometry()         {}
func (*MultiLineString) geometry()    {}
func (*Polygon) geometry()            {}
func (*MultiPolygon) geometry()       {}
func (*GeometryCollection) geometry() {}
func (*Feature) geometry()            {}
func (*FeatureCollection) geometry()  {}

// Unwrap returns the geometry inside a feature, or g itself.
// A feature without geometry unwraps to nil.
func Unwrap(g Geometry) Geometry {
	if f, ok := g.(*Feature); ok {
		if f == nil {
			return nil
		}
		return f.Geometry
	}
	return g
}

// Clone returns a deep copy of g. Feature properties are copied shallowly.
func Clone(g Geometry) Geometry {
	switch t := g.(type) {
	case *Point:
		return &Point{Coordinates: t.Coordinates.Clone()}
	case *MultiPoint:
		return &MultiPoint{Coordinates: CloneLine(t.Coordinates)}
	case *LineString:
		return &LineString{Coordinates: CloneLine(t.Coordinates)}
	case *MultiLineString:
		return &MultiLineString{Coordinates: CloneLines(t.Coordinates)}
	case *Polygon:
		return &Polygon{Coordinates: CloneLines(t.Coordinates)}
	case *MultiPolygon:
		out := make([][][]Position, len(t.Coordinates))
		for i, p := range t.Coordinates {
			out[i] = CloneLines(p)
		}
		return &MultiPolygon{Coordinates: out}
	case *GeometryCollection:
		out := make([]Geometry, len(t.Geometries))
		for i, m := range t.Geometries {
			out[i] = Clone(m)
		}
		return &GeometryCollection{Geometries: out}
	case *Feature:
		return cloneFeature(t)
	case *FeatureCollection:
		out := make([]*Feature, len(t.Features))
		for i, f := range t.Features {
			out[i] = cloneFeature(f)
		}
		return &FeatureCollection{Features: out}
	default:
		return nil
	}
}

func cloneFeature(f *Feature) *Feature {
	if f == nil {
		return nil
	}
	out := &Feature{ID: f.ID}
	if f.Geometry != nil {
		out.Geometry = Clone(f.Geometry)
	}
	if f.Properties != nil {
		out.Properties = make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			out.Properties[k] = v
		}
	}
	return out
}
