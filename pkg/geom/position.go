package geom

// Position is an ordered x, y and optional z and m.
type Position []float64

func (p Position) X() float64 { return p[0] }
func (p Position) Y() float64 { return p[1] }

// Equal is exact ordinate-wise equality; positions of different arity differ.
func (p Position) Equal(o Position) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Position) Clone() Position {
	if p == nil {
		return nil
	}
	out := make(Position, len(p))
	copy(out, p)
	return out
}

func CloneLine(line []Position) []Position {
	if line == nil {
		return nil
	}
	out := make([]Position, len(line))
	for i, p := range line {
		out[i] = p.Clone()
	}
	return out
}

func CloneLines(lines [][]Position) [][]Position {
	if lines == nil {
		return nil
	}
	out := make([][]Position, len(lines))
	for i, l := range lines {
		out[i] = CloneLine(l)
	}
	return out
}

// Reversed returns a reversed copy of line.
func Reversed(line []Position) []Position {
	n := len(line)
	out := make([]Position, n)
	for i, p := range line {
		out[n-1-i] = p.Clone()
	}
	return out
}

// Positions flattens every position of g in document order.
func Positions(g Geometry) []Position {
	var out []Position
	switch t := g.(type) {
	case *Point:
		if len(t.Coordinates) > 0 {
			out = append(out, t.Coordinates)
		}
	case *MultiPoint:
		out = append(out, t.Coordinates...)
	case *LineString:
		out = append(out, t.Coordinates...)
	case *MultiLineString:
		for _, l := range t.Coordinates {
			out = append(out, l...)
		}
	case *Polygon:
		for _, r := range t.Coordinates {
			out = append(out, r...)
		}
	case *MultiPolygon:
		for _, p := range t.Coordinates {
			for _, r := range p {
				out = append(out, r...)
			}
		}
	case *GeometryCollection:
		for _, m := range t.Geometries {
			out = append(out, Positions(m)...)
		}
	case *Feature:
		if t != nil && t.Geometry != nil {
			out = append(out, Positions(t.Geometry)...)
		}
	case *FeatureCollection:
		for _, f := range t.Features {
			if f != nil {
				out = append(out, Positions(f)...)
			}
		}
	}
	return out
}

// Dims reports the arity of the first position of g, or 0 when it has none.
func Dims(g Geometry) int {
	ps := Positions(g)
	if len(ps) == 0 {
		return 0
	}
	return len(ps[0])
}
