package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Decode parses a GeoJSON geometry, Feature or FeatureCollection.
// Non-numeric ordinates are skipped and positions left with fewer than two
// ordinates are dropped.
func Decode(data []byte) (Geometry, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parse geojson: invalid json")
	}
	return decodeValue(gjson.ParseBytes(data))
}

// DecodeString is Decode for string input.
func DecodeString(s string) (Geometry, error) {
	return Decode([]byte(s))
}

func decodeValue(v gjson.Result) (Geometry, error) {
	if !v.IsObject() {
		return nil, errors.New("parse geojson: expected an object")
	}
	kind, err := ParseKind(v.Get("type").String())
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	coords := v.Get("coordinates")
	switch kind {
	case KindPoint:
		p := positionFrom(coords)
		if len(p) < 2 {
			p = nil
		}
		return &Point{Coordinates: p}, nil
	case KindMultiPoint:
		return &MultiPoint{Coordinates: lineFrom(coords)}, nil
	case KindLineString:
		return &LineString{Coordinates: lineFrom(coords)}, nil
	case KindMultiLineString:
		return &MultiLineString{Coordinates: linesFrom(coords)}, nil
	case KindPolygon:
		return &Polygon{Coordinates: linesFrom(coords)}, nil
	case KindMultiPolygon:
		var polys [][][]Position
		coords.ForEach(func(_, p gjson.Result) bool {
			polys = append(polys, linesFrom(p))
			return true
		})
		return &MultiPolygon{Coordinates: polys}, nil
	case KindGeometryCollection:
		gc := &GeometryCollection{}
		var ferr error
		v.Get("geometries").ForEach(func(_, m gjson.Result) bool {
			g, err := decodeValue(m)
			if err != nil {
				ferr = err
				return false
			}
			gc.Geometries = append(gc.Geometries, g)
			return true
		})
		if ferr != nil {
			return nil, ferr
		}
		return gc, nil
	case KindFeature:
		return decodeFeature(v)
	case KindFeatureCollection:
		fc := &FeatureCollection{}
		var ferr error
		v.Get("features").ForEach(func(_, m gjson.Result) bool {
			f, err := decodeFeature(m)
			if err != nil {
				ferr = err
				return false
			}
			fc.Features = append(fc.Features, f)
			return true
		})
		if ferr != nil {
			return nil, ferr
		}
		return fc, nil
	}
	return nil, fmt.Errorf("parse geojson: %w: %s", ErrUnknownKind, kind)
}

func decodeFeature(v gjson.Result) (*Feature, error) {
	if v.Get("type").String() != "Feature" {
		return nil, fmt.Errorf("parse geojson: expected Feature, got %q", v.Get("type").String())
	}
	f := &Feature{}
	switch id := v.Get("id"); id.Type {
	case gjson.Number:
		f.ID = id.Float()
	case gjson.String:
		f.ID = id.String()
	}
	if g := v.Get("geometry"); g.Exists() && g.Type != gjson.Null {
		inner, err := decodeValue(g)
		if err != nil {
			return nil, err
		}
		f.Geometry = inner
	}
	if props := v.Get("properties"); props.IsObject() {
		if m, ok := props.Value().(map[string]any); ok {
			f.Properties = m
		}
	}
	return f, nil
}

func positionFrom(r gjson.Result) Position {
	if !r.IsArray() {
		return nil
	}
	var p Position
	r.ForEach(func(_, n gjson.Result) bool {
		if n.Type == gjson.Number {
			p = append(p, n.Float())
		}
		return true
	})
	return p
}

func lineFrom(r gjson.Result) []Position {
	var out []Position
	r.ForEach(func(_, v gjson.Result) bool {
		if p := positionFrom(v); len(p) >= 2 {
			out = append(out, p)
		}
		return true
	})
	return out
}

func linesFrom(r gjson.Result) [][]Position {
	var out [][]Position
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, lineFrom(v))
		return true
	})
	return out
}

// Encode renders g as GeoJSON.
func Encode(g Geometry) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("encode geojson: %w", ErrUnknownKind)
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return b, nil
}

type coordsJSON[T any] struct {
	Type        string `json:"type"`
	Coordinates T      `json:"coordinates"`
}

func orEmpty[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

func (p *Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordsJSON[Position]{"Point", orEmpty(p.Coordinates)})
}

func (m *MultiPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordsJSON[[]Position]{"MultiPoint", orEmpty(m.Coordinates)})
}

func (l *LineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordsJSON[[]Position]{"LineString", orEmpty(l.Coordinates)})
}

func (m *MultiLineString) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordsJSON[[][]Position]{"MultiLineString", orEmpty(m.Coordinates)})
}

func (p *Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordsJSON[[][]Position]{"Polygon", orEmpty(p.Coordinates)})
}

func (m *MultiPolygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordsJSON[[][][]Position]{"MultiPolygon", orEmpty(m.Coordinates)})
}

func (c *GeometryCollection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string     `json:"type"`
		Geometries []Geometry `json:"geometries"`
	}{"GeometryCollection", orEmpty(c.Geometries)})
}

func (f *Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string         `json:"type"`
		ID         any            `json:"id,omitempty"`
		Geometry   Geometry       `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}{"Feature", f.ID, f.Geometry, f.Properties})
}

func (c *FeatureCollection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string     `json:"type"`
		Features []*Feature `json:"features"`
	}{"FeatureCollection", orEmpty(c.Features)})
}
