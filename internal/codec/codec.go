// Package codec decodes and encodes geometries in the three wire formats the
// service and CLI accept.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammed-shakir/georelate/pkg/arcgis"
	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/wkt"
)

type Format string

const (
	GeoJSON Format = "geojson"
	ArcGIS  Format = "arcgis"
	WKT     Format = "wkt"
)

// ErrBadInput marks errors caused by the caller's input.
var ErrBadInput = errors.New("bad input")

// ParseFormat accepts a format name case-insensitively; empty means GeoJSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return GeoJSON, nil
	case GeoJSON, ArcGIS, WKT:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrBadInput, s)
}

func (f Format) ContentType() string {
	if f == WKT {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

type Codec struct {
	// IDAttribute names the ArcGIS feature id attribute.
	IDAttribute string
}

func (c Codec) idAttribute() string {
	if c.IDAttribute == "" {
		return arcgis.DefaultIDAttribute
	}
	return c.IDAttribute
}

// Decode reads body in format f. Every failure wraps ErrBadInput; unknown
// geometry types also wrap geom.ErrUnknownKind or wkt.ErrUnsupportedType.
func (c Codec) Decode(f Format, body []byte) (geom.Geometry, error) {
	var (
		g   geom.Geometry
		err error
	)
	switch f {
	case ArcGIS:
		g, err = arcgis.Parse(body, arcgis.WithIDAttribute(c.idAttribute()))
		if err == nil && g == nil {
			err = errors.New("object is not an arcgis geometry")
		}
	case WKT:
		g, err = wkt.Parse(string(body))
	default:
		g, err = geom.Decode(body)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadInput, err)
	}
	return g, nil
}

func (c Codec) Encode(f Format, g geom.Geometry) ([]byte, error) {
	switch f {
	case ArcGIS:
		return arcgis.Marshal(g, arcgis.WithIDAttribute(c.idAttribute()))
	case WKT:
		s, err := wkt.Marshal(g)
		return []byte(s), err
	}
	return geom.Encode(g)
}

// Convert decodes body in from and encodes the result in to. WKT to WKT
// keeps the dimension layout of the input, so M ordinates stay M.
func (c Codec) Convert(from, to Format, body []byte) (geom.Geometry, []byte, error) {
	if from == WKT && to == WKT {
		g, layout, err := wkt.ParseWithLayout(string(body))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrBadInput, err)
		}
		s, err := wkt.Marshal(g, wkt.WithLayout(layout))
		if err != nil {
			return nil, nil, err
		}
		return g, []byte(s), nil
	}
	g, err := c.Decode(from, body)
	if err != nil {
		return nil, nil, err
	}
	b, err := c.Encode(to, g)
	if err != nil {
		return nil, nil, err
	}
	return g, b, nil
}

// EncodeValue embeds g in a JSON document: WKT becomes a string, the other
// formats stay objects.
func (c Codec) EncodeValue(f Format, g geom.Geometry) (json.RawMessage, error) {
	b, err := c.Encode(f, g)
	if err != nil {
		return nil, err
	}
	if f == WKT {
		return json.Marshal(string(b))
	}
	return b, nil
}
