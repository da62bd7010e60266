// Package arcgis converts between ArcGIS JSON geometries and the geom model.
//
// ArcGIS polygons carry a flat list of rings where winding marks shells and
// holes; reading and writing them goes through the topology package.
package arcgis

import (
	"errors"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/mohammed-shakir/georelate/pkg/diag"
	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/topology"
)

const (
	DefaultIDAttribute = "OBJECTID"
	DefaultWKID        = 4326
)

type options struct {
	idAttribute string
}

type Option func(*options)

// WithIDAttribute names the attribute holding the feature id. On input it is
// tried before OBJECTID and FID; on output it receives the feature id.
func WithIDAttribute(name string) Option {
	return func(o *options) { o.idAttribute = name }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Parse reads an ArcGIS JSON geometry, feature or feature set. Members are
// checked in a fixed order and a later match replaces an earlier one:
// features, x/y, points, paths, rings, extent, then geometry/attributes.
// Objects matching none of them decode to nil.
func Parse(data []byte, opts ...Option) (geom.Geometry, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parse arcgis: invalid json")
	}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return nil, errors.New("parse arcgis: expected an object")
	}
	return parseValue(v, buildOptions(opts)), nil
}

func parseValue(v gjson.Result, o options) geom.Geometry {
	var g geom.Geometry

	if fs := v.Get("features"); fs.IsArray() {
		fc := &geom.FeatureCollection{Features: []*geom.Feature{}}
		fs.ForEach(func(_, f gjson.Result) bool {
			fc.Features = append(fc.Features, parseFeature(f, o))
			return true
		})
		g = fc
	}

	if x, y := v.Get("x"), v.Get("y"); x.Type == gjson.Number && y.Type == gjson.Number {
		p := geom.Position{x.Float(), y.Float()}
		if z := v.Get("z"); z.Type == gjson.Number {
			p = append(p, z.Float())
		}
		g = &geom.Point{Coordinates: p}
	}

	if pts := v.Get("points"); pts.IsArray() {
		g = &geom.MultiPoint{Coordinates: lineFrom(pts)}
	}

	if paths := v.Get("paths"); paths.IsArray() {
		lines := linesFrom(paths)
		if len(lines) == 1 {
			g = &geom.LineString{Coordinates: lines[0]}
		} else {
			g = &geom.MultiLineString{Coordinates: lines}
		}
	}

	if rings := v.Get("rings"); rings.IsArray() {
		g = topology.GroupRings(linesFrom(rings))
	}

	if ext, ok := extent(v); ok {
		g = ext
	}

	if present(v.Get("geometry")) || present(v.Get("attributes")) {
		g = parseFeature(v, o)
	}

	if wkid := v.Get("spatialReference.wkid"); wkid.Type == gjson.Number && wkid.Int() != 0 && wkid.Int() != DefaultWKID {
		diag.Warn(diag.CodeNonDefaultCRS, "object converted in non-standard crs",
			"wkid", strconv.FormatInt(wkid.Int(), 10))
	}
	return g
}

func present(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

func extent(v gjson.Result) (*geom.Polygon, bool) {
	xmin, ymin := v.Get("xmin"), v.Get("ymin")
	xmax, ymax := v.Get("xmax"), v.Get("ymax")
	for _, r := range []gjson.Result{xmin, ymin, xmax, ymax} {
		if r.Type != gjson.Number {
			return nil, false
		}
	}
	x0, y0, x1, y1 := xmin.Float(), ymin.Float(), xmax.Float(), ymax.Float()
	return &geom.Polygon{Coordinates: [][]geom.Position{{
		{x1, y1}, {x0, y1}, {x0, y0}, {x1, y0}, {x1, y1},
	}}}, true
}

func parseFeature(v gjson.Result, o options) *geom.Feature {
	f := &geom.Feature{}
	if g := v.Get("geometry"); g.IsObject() {
		f.Geometry = parseValue(g, o)
	}
	if attrs := v.Get("attributes"); attrs.IsObject() {
		props, _ := attrs.Value().(map[string]any)
		f.Properties = props
		f.ID = featureID(props, o.idAttribute)
	}
	return f
}

// featureID returns the first string or number among the id attribute,
// OBJECTID and FID.
func featureID(attrs map[string]any, idAttribute string) any {
	keys := []string{DefaultIDAttribute, "FID"}
	if idAttribute != "" {
		keys = append([]string{idAttribute}, keys...)
	}
	for _, k := range keys {
		switch id := attrs[k].(type) {
		case string, float64:
			return id
		}
	}
	return nil
}

func positionFrom(r gjson.Result) geom.Position {
	var p geom.Position
	r.ForEach(func(_, n gjson.Result) bool {
		if n.Type == gjson.Number {
			p = append(p, n.Float())
		}
		return true
	})
	return p
}

func lineFrom(r gjson.Result) []geom.Position {
	out := []geom.Position{}
	r.ForEach(func(_, v gjson.Result) bool {
		if p := positionFrom(v); len(p) >= 2 {
			out = append(out, p)
		}
		return true
	})
	return out
}

func linesFrom(r gjson.Result) [][]geom.Position {
	out := [][]geom.Position{}
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, lineFrom(v))
		return true
	})
	return out
}

// ParseString is Parse for string input.
func ParseString(s string, opts ...Option) (geom.Geometry, error) {
	return Parse([]byte(s), opts...)
}
