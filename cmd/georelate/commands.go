package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/pretty"

	"github.com/mohammed-shakir/georelate/internal/codec"
	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/spatial"
)

type InputOption struct {
	Input string `short:"i" long:"in" description:"Input file path. Reads from stdin if empty or '-'"`
}

type convertCmd struct {
	app *app
	InputOption
	From string `long:"from" choice:"geojson" choice:"arcgis" choice:"wkt" default:"geojson" description:"Input format"`
	To   string `long:"to" choice:"geojson" choice:"arcgis" choice:"wkt" default:"geojson" description:"Output format"`
}

func (c *convertCmd) Execute([]string) error {
	from, err := codec.ParseFormat(c.From)
	if err != nil {
		return err
	}
	to, err := codec.ParseFormat(c.To)
	if err != nil {
		return err
	}
	in, err := c.app.read(c.Input)
	if err != nil {
		return err
	}
	_, b, err := c.app.codec().Convert(from, to, in)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return c.app.emit(to, b)
}

type relateCmd struct {
	app    *app
	Op     string `long:"op" choice:"within" choice:"contains" choice:"intersects" required:"true" description:"Predicate"`
	Format string `short:"f" long:"format" choice:"geojson" choice:"arcgis" choice:"wkt" default:"geojson" description:"Format of both inputs"`
	Args   struct {
		A string `positional-arg-name:"A"`
		B string `positional-arg-name:"B"`
	} `positional-args:"yes" required:"yes"`
}

func (c *relateCmd) Execute([]string) error {
	if c.Args.A == "-" && c.Args.B == "-" {
		return fmt.Errorf("relate: %w: only one input may be stdin", codec.ErrBadInput)
	}
	a, err := c.app.load(c.Args.A, c.Format)
	if err != nil {
		return err
	}
	b, err := c.app.load(c.Args.B, c.Format)
	if err != nil {
		return err
	}
	var res bool
	switch c.Op {
	case "within":
		res = spatial.Within(a, b)
	case "contains":
		res = spatial.Contains(a, b)
	default:
		res = spatial.Intersects(a, b)
	}
	_, err = fmt.Fprintln(c.app.stdout, res)
	return err
}

type hullCmd struct {
	app *app
	InputOption
	Format string `short:"f" long:"format" choice:"geojson" choice:"arcgis" choice:"wkt" default:"geojson" description:"Input and output format"`
}

func (c *hullCmd) Execute([]string) error {
	g, err := c.app.load(c.Input, c.Format)
	if err != nil {
		return err
	}
	poly, err := spatial.ConvexHull(g)
	if err != nil {
		return fmt.Errorf("hull: %w", err)
	}
	f, _ := codec.ParseFormat(c.Format)
	if poly == nil {
		return c.app.emit(codec.GeoJSON, []byte("null"))
	}
	b, err := c.app.codec().Encode(f, poly)
	if err != nil {
		return fmt.Errorf("hull: %w", err)
	}
	return c.app.emit(f, b)
}

type boundsCmd struct {
	app *app
	InputOption
	Format string `short:"f" long:"format" choice:"geojson" choice:"arcgis" choice:"wkt" default:"geojson" description:"Input format"`
}

func (c *boundsCmd) Execute([]string) error {
	g, err := c.app.load(c.Input, c.Format)
	if err != nil {
		return err
	}
	bb, err := spatial.CalculateBounds(g)
	if err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	env, err := spatial.CalculateEnvelope(g)
	if err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	b, err := json.Marshal(struct {
		BBox     *spatial.BBox     `json:"bbox"`
		Envelope *spatial.Envelope `json:"envelope"`
	}{bb, env})
	if err != nil {
		return fmt.Errorf("bounds: %w", err)
	}
	return c.app.emit(codec.GeoJSON, b)
}

func (a *app) read(path string) ([]byte, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func (a *app) load(path, format string) (geom.Geometry, error) {
	f, err := codec.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	b, err := a.read(path)
	if err != nil {
		return nil, err
	}
	g, err := a.codec().Decode(f, b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return g, nil
}

// emit writes b followed by a newline, indenting JSON when --pretty is set.
func (a *app) emit(f codec.Format, b []byte) error {
	if f != codec.WKT && a.opts.Pretty {
		b = pretty.Pretty(b)
	} else {
		b = append(b, '\n')
	}
	_, err := a.stdout.Write(b)
	return err
}
