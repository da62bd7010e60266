package spatial

import (
	"math"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

const (
	EarthRadius = 6378137.0

	// latitudes beyond this are clamped before projecting
	maxMercatorLat = 89.99999
)

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

// PositionToMercator projects a WGS84 lng/lat position to web mercator.
// Ordinates past x and y are kept as is.
func PositionToMercator(p geom.Position) geom.Position {
	if len(p) < 2 {
		return p.Clone()
	}
	lat := math.Max(math.Min(p.Y(), maxMercatorLat), -maxMercatorLat)
	sin := math.Sin(degToRad(lat))
	out := geom.Position{
		degToRad(p.X()) * EarthRadius,
		EarthRadius / 2 * math.Log((1+sin)/(1-sin)),
	}
	return append(out, p[2:]...)
}

// PositionToGeographic is the inverse of PositionToMercator, with longitude
// wrapped into [-180, 180).
func PositionToGeographic(p geom.Position) geom.Position {
	if len(p) < 2 {
		return p.Clone()
	}
	lng := radToDeg(p.X() / EarthRadius)
	out := geom.Position{
		lng - math.Floor((lng+180)/360)*360,
		radToDeg(math.Pi/2 - 2*math.Atan(math.Exp(-p.Y()/EarthRadius))),
	}
	return append(out, p[2:]...)
}

// ToMercator returns a copy of g with every position projected.
func ToMercator(g geom.Geometry) geom.Geometry {
	return convert(g, PositionToMercator)
}

// ToGeographic returns a copy of g with every position unprojected.
func ToGeographic(g geom.Geometry) geom.Geometry {
	return convert(g, PositionToGeographic)
}

func convertLine(line []geom.Position, fn func(geom.Position) geom.Position) []geom.Position {
	if line == nil {
		return nil
	}
	out := make([]geom.Position, len(line))
	for i, p := range line {
		out[i] = fn(p)
	}
	return out
}

func convertLines(lines [][]geom.Position, fn func(geom.Position) geom.Position) [][]geom.Position {
	if lines == nil {
		return nil
	}
	out := make([][]geom.Position, len(lines))
	for i, l := range lines {
		out[i] = convertLine(l, fn)
	}
	return out
}

func convert(g geom.Geometry, fn func(geom.Position) geom.Position) geom.Geometry {
	switch t := g.(type) {
	case *geom.Point:
		if len(t.Coordinates) == 0 {
			return &geom.Point{}
		}
		return &geom.Point{Coordinates: fn(t.Coordinates)}
	case *geom.MultiPoint:
		return &geom.MultiPoint{Coordinates: convertLine(t.Coordinates, fn)}
	case *geom.LineString:
		return &geom.LineString{Coordinates: convertLine(t.Coordinates, fn)}
	case *geom.MultiLineString:
		return &geom.MultiLineString{Coordinates: convertLines(t.Coordinates, fn)}
	case *geom.Polygon:
		return &geom.Polygon{Coordinates: convertLines(t.Coordinates, fn)}
	case *geom.MultiPolygon:
		out := make([][][]geom.Position, len(t.Coordinates))
		for i, p := range t.Coordinates {
			out[i] = convertLines(p, fn)
		}
		return &geom.MultiPolygon{Coordinates: out}
	case *geom.GeometryCollection:
		out := make([]geom.Geometry, len(t.Geometries))
		for i, m := range t.Geometries {
			out[i] = convert(m, fn)
		}
		return &geom.GeometryCollection{Geometries: out}
	case *geom.Feature:
		if t == nil {
			return nil
		}
		f := geom.Clone(t).(*geom.Feature)
		if t.Geometry != nil {
			f.Geometry = convert(t.Geometry, fn)
		}
		return f
	case *geom.FeatureCollection:
		out := make([]*geom.Feature, len(t.Features))
		for i, f := range t.Features {
			if f != nil {
				out[i] = convert(f, fn).(*geom.Feature)
			}
		}
		return &geom.FeatureCollection{Features: out}
	}
	return nil
}
