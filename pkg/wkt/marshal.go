package wkt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

type marshalOptions struct {
	layout *Layout
}

type MarshalOption func(*marshalOptions)

// WithLayout forces the dimension tag. Without it the tag follows the arity
// of each geometry's first position.
func WithLayout(l Layout) MarshalOption {
	return func(o *marshalOptions) { o.layout = &l }
}

// Marshal renders g as WKT. Rings are written as stored, without closing
// them. Features and feature collections are rejected.
func Marshal(g geom.Geometry, opts ...MarshalOption) (string, error) {
	var o marshalOptions
	for _, fn := range opts {
		fn(&o)
	}
	var b strings.Builder
	if err := writeGeometry(&b, g, o); err != nil {
		return "", fmt.Errorf("marshal wkt: %w", err)
	}
	return b.String(), nil
}

func writeGeometry(b *strings.Builder, g geom.Geometry, o marshalOptions) error {
	if g == nil {
		return ErrUnsupportedType
	}
	switch t := g.(type) {
	case *geom.Point:
		writeHeader(b, "POINT", g, o)
		if len(t.Coordinates) == 0 {
			b.WriteString(" EMPTY")
			return nil
		}
		b.WriteString(" (")
		writePosition(b, t.Coordinates)
		b.WriteByte(')')
	case *geom.MultiPoint:
		writeHeader(b, "MULTIPOINT", g, o)
		writeLine(b, t.Coordinates)
	case *geom.LineString:
		writeHeader(b, "LINESTRING", g, o)
		writeLine(b, t.Coordinates)
	case *geom.MultiLineString:
		writeHeader(b, "MULTILINESTRING", g, o)
		writeLines(b, t.Coordinates)
	case *geom.Polygon:
		writeHeader(b, "POLYGON", g, o)
		writeLines(b, t.Coordinates)
	case *geom.MultiPolygon:
		writeHeader(b, "MULTIPOLYGON", g, o)
		if len(t.Coordinates) == 0 {
			b.WriteString(" EMPTY")
			return nil
		}
		b.WriteString(" (")
		for i, poly := range t.Coordinates {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRingList(b, poly)
		}
		b.WriteByte(')')
	case *geom.GeometryCollection:
		if len(t.Geometries) == 0 {
			b.WriteString("GEOMETRYCOLLECTION EMPTY")
			return nil
		}
		b.WriteString("GEOMETRYCOLLECTION(")
		for i, m := range t.Geometries {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeGeometry(b, m, o); err != nil {
				return err
			}
		}
		b.WriteByte(')')
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, g.Kind())
	}
	return nil
}

func writeHeader(b *strings.Builder, name string, g geom.Geometry, o marshalOptions) {
	b.WriteString(name)
	layout := layoutForDims(geom.Dims(g))
	if o.layout != nil {
		layout = *o.layout
	}
	if tag := layout.Tag(); tag != "" {
		b.WriteByte(' ')
		b.WriteString(tag)
	}
}

func writePosition(b *strings.Builder, p geom.Position) {
	for i, v := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
}

// writeLine writes " (x y, x y)" or " EMPTY".
func writeLine(b *strings.Builder, line []geom.Position) {
	if len(line) == 0 {
		b.WriteString(" EMPTY")
		return
	}
	b.WriteString(" (")
	writePositions(b, line)
	b.WriteByte(')')
}

func writeLines(b *strings.Builder, lines [][]geom.Position) {
	if len(lines) == 0 {
		b.WriteString(" EMPTY")
		return
	}
	b.WriteByte(' ')
	writeRingList(b, lines)
}

// writeRingList writes "((x y, ...), (x y, ...))".
func writeRingList(b *strings.Builder, lines [][]geom.Position) {
	b.WriteByte('(')
	for i, l := range lines {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		writePositions(b, l)
		b.WriteByte(')')
	}
	b.WriteByte(')')
}

func writePositions(b *strings.Builder, line []geom.Position) {
	for i, p := range line {
		if i > 0 {
			b.WriteString(", ")
		}
		writePosition(b, p)
	}
}
