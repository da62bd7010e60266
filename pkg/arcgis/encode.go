package arcgis

import (
	"encoding/json"
	"fmt"

	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/topology"
)

// FromGeometry builds the ArcGIS JSON value for g: an object for geometries
// and features, an array for collections. Every geometry is tagged with the
// WGS84 spatial reference.
func FromGeometry(g geom.Geometry, opts ...Option) (any, error) {
	o := buildOptions(opts)
	if o.idAttribute == "" {
		o.idAttribute = DefaultIDAttribute
	}
	return fromGeometry(g, o)
}

func fromGeometry(g geom.Geometry, o options) (any, error) {
	out := map[string]any{}
	switch t := g.(type) {
	case *geom.Point:
		if len(t.Coordinates) >= 2 {
			out["x"], out["y"] = t.Coordinates[0], t.Coordinates[1]
			if len(t.Coordinates) > 2 {
				out["z"] = t.Coordinates[2]
			}
		} else {
			out["x"], out["y"] = nil, nil
		}
	case *geom.MultiPoint:
		out["points"] = geom.CloneLine(orEmpty(t.Coordinates))
		setHasZ(out, t.Coordinates)
	case *geom.LineString:
		out["paths"] = [][]geom.Position{geom.CloneLine(orEmpty(t.Coordinates))}
		setHasZ(out, t.Coordinates)
	case *geom.MultiLineString:
		out["paths"] = geom.CloneLines(orEmpty(t.Coordinates))
		if len(t.Coordinates) > 0 {
			setHasZ(out, t.Coordinates[0])
		}
	case *geom.Polygon:
		out["rings"] = topology.OrientRings(t.Coordinates)
		if len(t.Coordinates) > 0 {
			setHasZ(out, t.Coordinates[0])
		}
	case *geom.MultiPolygon:
		out["rings"] = topology.FlattenMultiPolygon(t.Coordinates)
		if len(t.Coordinates) > 0 && len(t.Coordinates[0]) > 0 {
			setHasZ(out, t.Coordinates[0][0])
		}
	case *geom.Feature:
		return fromFeature(t, o)
	case *geom.FeatureCollection:
		arr := make([]any, 0, len(t.Features))
		for _, f := range t.Features {
			v, err := fromFeature(f, o)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case *geom.GeometryCollection:
		arr := make([]any, 0, len(t.Geometries))
		for _, m := range t.Geometries {
			v, err := fromGeometry(m, o)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("encode arcgis: %w", geom.ErrUnknownKind)
	}
	out["spatialReference"] = map[string]any{"wkid": DefaultWKID}
	return out, nil
}

func fromFeature(f *geom.Feature, o options) (map[string]any, error) {
	out := map[string]any{}
	if f == nil {
		out["attributes"] = map[string]any{}
		return out, nil
	}
	if f.Geometry != nil {
		g, err := fromGeometry(f.Geometry, o)
		if err != nil {
			return nil, err
		}
		out["geometry"] = g
	}
	attrs := make(map[string]any, len(f.Properties)+1)
	for k, v := range f.Properties {
		attrs[k] = v
	}
	if f.ID != nil {
		attrs[o.idAttribute] = f.ID
	}
	out["attributes"] = attrs
	return out, nil
}

func setHasZ(out map[string]any, line []geom.Position) {
	if len(line) > 0 && len(line[0]) > 2 {
		out["hasZ"] = true
	}
}

func orEmpty[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}

// Marshal renders g as ArcGIS JSON.
func Marshal(g geom.Geometry, opts ...Option) ([]byte, error) {
	v, err := FromGeometry(g, opts...)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode arcgis: %w", err)
	}
	return b, nil
}
