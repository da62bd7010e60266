package spatial

import (
	"fmt"
	"math"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

// BBox is [xmin, ymin, xmax, ymax].
type BBox [4]float64

type Envelope struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type bboxAcc struct {
	b  BBox
	ok bool
}

func (a *bboxAcc) add(p geom.Position) {
	if len(p) < 2 {
		return
	}
	if !a.ok {
		a.b = BBox{p.X(), p.Y(), p.X(), p.Y()}
		a.ok = true
		return
	}
	a.b[0] = math.Min(a.b[0], p.X())
	a.b[1] = math.Min(a.b[1], p.Y())
	a.b[2] = math.Max(a.b[2], p.X())
	a.b[3] = math.Max(a.b[3], p.Y())
}

// CalculateBounds returns the bounding box of g, recursing into collections.
// It returns nil when g has no positions, e.g. a feature without geometry.
func CalculateBounds(g geom.Geometry) (*BBox, error) {
	var acc bboxAcc
	if err := accumulate(&acc, g); err != nil {
		return nil, err
	}
	if !acc.ok {
		return nil, nil
	}
	return &acc.b, nil
}

func accumulate(acc *bboxAcc, g geom.Geometry) error {
	switch t := g.(type) {
	case *geom.Point:
		acc.add(t.Coordinates)
	case *geom.MultiPoint, *geom.LineString, *geom.MultiLineString, *geom.Polygon, *geom.MultiPolygon:
		for _, p := range geom.Positions(t) {
			acc.add(p)
		}
	case *geom.Feature:
		if t != nil && t.Geometry != nil {
			return accumulate(acc, t.Geometry)
		}
	case *geom.GeometryCollection:
		for _, m := range t.Geometries {
			if err := accumulate(acc, m); err != nil {
				return err
			}
		}
	case *geom.FeatureCollection:
		for _, f := range t.Features {
			if f == nil {
				continue
			}
			if err := accumulate(acc, f); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("calculate bounds: %w", geom.ErrUnknownKind)
	}
	return nil
}

// CalculateEnvelope returns the origin and size of the bounds of g.
func CalculateEnvelope(g geom.Geometry) (*Envelope, error) {
	b, err := CalculateBounds(g)
	if err != nil || b == nil {
		return nil, err
	}
	return &Envelope{
		X: b[0],
		Y: b[1],
		W: math.Abs(b[0] - b[2]),
		H: math.Abs(b[1] - b[3]),
	}, nil
}
