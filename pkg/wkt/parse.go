// Package wkt reads and writes Well-Known Text.
package wkt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/georelate/pkg/geom"
)

var (
	ErrSyntax          = errors.New("wkt syntax error")
	ErrUnsupportedType = errors.New("wkt: unsupported geometry type")
)

// Layout names the ordinates carried by each position.
type Layout uint8

const (
	XY Layout = iota
	XYZ
	XYM
	XYZM
)

// Tag is the dimension keyword written after the type name.
func (l Layout) Tag() string {
	switch l {
	case XYZ:
		return "Z"
	case XYM:
		return "M"
	case XYZM:
		return "ZM"
	}
	return ""
}

func (l Layout) String() string {
	if l == XY {
		return "XY"
	}
	return "XY" + l.Tag()
}

func layoutForDims(n int) Layout {
	switch {
	case n >= 4:
		return XYZM
	case n == 3:
		return XYZ
	}
	return XY
}

// Parse reads a WKT geometry. Keywords are case-insensitive and positions
// keep every ordinate written, two to four.
func Parse(s string) (geom.Geometry, error) {
	g, _, err := ParseWithLayout(s)
	return g, err
}

// ParseWithLayout is Parse that also reports the layout named by the
// dimension tag. Untagged input reports the layout implied by the arity of
// its first position.
func ParseWithLayout(s string) (geom.Geometry, Layout, error) {
	p := &parser{input: s}
	g, layout, tagged, err := p.parseGeometry()
	if err != nil {
		return nil, XY, fmt.Errorf("parse wkt: %w", err)
	}
	p.skipWhitespace()
	if p.pos < len(p.input) {
		return nil, XY, fmt.Errorf("parse wkt: %w", p.errorf("unexpected trailing input"))
	}
	if !tagged {
		layout = layoutForDims(geom.Dims(g))
	}
	return g, layout, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseGeometry() (geom.Geometry, Layout, bool, error) {
	word := strings.ToUpper(p.readWord())
	if word == "" {
		return nil, XY, false, p.errorf("expected geometry type")
	}

	layout, tagged := XY, false
	switch strings.ToUpper(p.peekWord()) {
	case "Z":
		layout, tagged = XYZ, true
	case "M":
		layout, tagged = XYM, true
	case "ZM":
		layout, tagged = XYZM, true
	}
	if tagged {
		p.readWord()
	}

	empty := false
	if strings.ToUpper(p.peekWord()) == "EMPTY" {
		p.readWord()
		empty = true
	}

	var g geom.Geometry
	var err error
	switch word {
	case "POINT":
		if empty {
			return &geom.Point{}, layout, tagged, nil
		}
		g, err = p.parsePoint()
	case "LINESTRING":
		if empty {
			return &geom.LineString{Coordinates: []geom.Position{}}, layout, tagged, nil
		}
		var line []geom.Position
		line, err = p.readPositionList()
		g = &geom.LineString{Coordinates: line}
	case "POLYGON":
		if empty {
			return &geom.Polygon{Coordinates: [][]geom.Position{}}, layout, tagged, nil
		}
		var rings [][]geom.Position
		rings, err = p.readLineList()
		g = &geom.Polygon{Coordinates: rings}
	case "MULTIPOINT":
		if empty {
			return &geom.MultiPoint{Coordinates: []geom.Position{}}, layout, tagged, nil
		}
		g, err = p.parseMultiPoint()
	case "MULTILINESTRING":
		if empty {
			return &geom.MultiLineString{Coordinates: [][]geom.Position{}}, layout, tagged, nil
		}
		var lines [][]geom.Position
		lines, err = p.readLineList()
		g = &geom.MultiLineString{Coordinates: lines}
	case "MULTIPOLYGON":
		if empty {
			return &geom.MultiPolygon{Coordinates: [][][]geom.Position{}}, layout, tagged, nil
		}
		g, err = p.parseMultiPolygon()
	case "GEOMETRYCOLLECTION":
		if empty {
			return &geom.GeometryCollection{Geometries: []geom.Geometry{}}, layout, tagged, nil
		}
		g, err = p.parseCollection()
	default:
		return nil, XY, false, fmt.Errorf("%w: %s", ErrUnsupportedType, word)
	}
	if err != nil {
		return nil, XY, false, err
	}
	return g, layout, tagged, nil
}

func (p *parser) parsePoint() (geom.Geometry, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	pos, err := p.readPosition()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return &geom.Point{Coordinates: pos}, nil
}

// members may be bare positions or wrapped in parentheses
func (p *parser) parseMultiPoint() (geom.Geometry, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	mp := &geom.MultiPoint{Coordinates: []geom.Position{}}
	for {
		wrapped := p.consume('(')
		pos, err := p.readPosition()
		if err != nil {
			return nil, err
		}
		if wrapped {
			if err := p.expect(')'); err != nil {
				return nil, err
			}
		}
		mp.Coordinates = append(mp.Coordinates, pos)
		if !p.consume(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return mp, nil
}

func (p *parser) parseMultiPolygon() (geom.Geometry, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	mp := &geom.MultiPolygon{Coordinates: [][][]geom.Position{}}
	for {
		rings, err := p.readLineList()
		if err != nil {
			return nil, err
		}
		mp.Coordinates = append(mp.Coordinates, rings)
		if !p.consume(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return mp, nil
}

func (p *parser) parseCollection() (geom.Geometry, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	gc := &geom.GeometryCollection{Geometries: []geom.Geometry{}}
	for {
		g, _, _, err := p.parseGeometry()
		if err != nil {
			return nil, err
		}
		gc.Geometries = append(gc.Geometries, g)
		if !p.consume(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return gc, nil
}

// readLineList reads ((x y, ...), (x y, ...)).
func (p *parser) readLineList() ([][]geom.Position, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var out [][]geom.Position
	for {
		line, err := p.readPositionList()
		if err != nil {
			return nil, err
		}
		out = append(out, line)
		if !p.consume(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return out, nil
}

// readPositionList reads (x y, x y, ...).
func (p *parser) readPositionList() ([]geom.Position, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var out []geom.Position
	for {
		pos, err := p.readPosition()
		if err != nil {
			return nil, err
		}
		out = append(out, pos)
		if !p.consume(',') {
			break
		}
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) readPosition() (geom.Position, error) {
	var pos geom.Position
	for len(pos) < 4 {
		s := p.readNumber()
		if s == "" {
			break
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", s)
		}
		pos = append(pos, f)
	}
	if len(pos) < 2 {
		return nil, p.errorf("expected at least two ordinates")
	}
	return pos, nil
}

func (p *parser) readNumber() string {
	p.skipWhitespace()
	start := p.pos
	if p.pos < len(p.input) && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
		p.pos++
	}
	digits := false
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		digits = digits || isDigit(p.input[p.pos])
		p.pos++
	}
	if !digits {
		p.pos = start
		return ""
	}
	if p.pos < len(p.input) && (p.input[p.pos] == 'e' || p.input[p.pos] == 'E') {
		mark := p.pos
		p.pos++
		if p.pos < len(p.input) && (p.input[p.pos] == '-' || p.input[p.pos] == '+') {
			p.pos++
		}
		expDigits := false
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			expDigits = true
			p.pos++
		}
		if !expDigits {
			p.pos = mark
		}
	}
	return p.input[start:p.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (p *parser) readWord() string {
	p.skipWhitespace()
	start := p.pos
	for p.pos < len(p.input) && isLetter(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) peekWord() string {
	saved := p.pos
	w := p.readWord()
	p.pos = saved
	return w
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consume(c byte) bool {
	p.skipWhitespace()
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte) error {
	if !p.consume(c) {
		return p.errorf("expected %q", c)
	}
	return nil
}
