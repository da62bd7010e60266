package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/mohammed-shakir/georelate/internal/cache/keys"
	"github.com/mohammed-shakir/georelate/internal/codec"
	mylog "github.com/mohammed-shakir/georelate/internal/logger"
	"github.com/mohammed-shakir/georelate/internal/observability"
	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/spatial"
)

const jsonType = "application/json"

type opFunc func(ctx context.Context, rec *opRecord) ([]byte, string, error)

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, op string, fn opFunc) {
	ctx := mylog.WithOp(r.Context(), op)
	rec := opRecord{op: op, from: string(codec.GeoJSON), start: time.Now()}
	b, ct, err := fn(ctx, &rec)
	h.finish(ctx, rec, err)
	if err != nil {
		writeError(w, err)
		return
	}
	write(w, ct, b, rec.cached)
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "convert", func(ctx context.Context, rec *opRecord) ([]byte, string, error) {
		q := r.URL.Query()
		from, err := codec.ParseFormat(q.Get("from"))
		if err != nil {
			return nil, "", err
		}
		to, err := codec.ParseFormat(q.Get("to"))
		if err != nil {
			return nil, "", err
		}
		rec.from, rec.to = string(from), string(to)

		body, err := readBody(r)
		if err != nil {
			return nil, "", err
		}
		out, err := h.cached(ctx, rec, keys.Key("convert", string(from), body, string(to)), func() ([]byte, []string, error) {
			g, b, err := h.codec.Convert(from, to, body)
			if err != nil {
				return nil, nil, err
			}
			return b, kindsOf(g), nil
		})
		return out, to.ContentType(), err
	})
}

var predicates = map[string]func(a, b geom.Geometry) bool{
	"within":     spatial.Within,
	"contains":   spatial.Contains,
	"intersects": spatial.Intersects,
}

type relateResponse struct {
	Op     string `json:"op"`
	Result bool   `json:"result"`
}

func (h *Handler) relate(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "relate", func(ctx context.Context, rec *opRecord) ([]byte, string, error) {
		body, err := readBody(r)
		if err != nil {
			return nil, "", err
		}
		if !gjson.ValidBytes(body) {
			return nil, "", badInput("invalid json")
		}
		doc := gjson.ParseBytes(body)
		op := strings.ToLower(strings.TrimSpace(doc.Get("op").String()))
		pred, ok := predicates[op]
		if !ok {
			return nil, "", badInput("unknown op %q", doc.Get("op").String())
		}
		f, err := codec.ParseFormat(doc.Get("format").String())
		if err != nil {
			return nil, "", err
		}
		rec.from, rec.to = string(f), op

		out, err := h.cached(ctx, rec, keys.Key("relate", "json", body, string(f)), func() ([]byte, []string, error) {
			a, err := h.operand(f, doc.Get("a"))
			if err != nil {
				return nil, nil, err
			}
			b, err := h.operand(f, doc.Get("b"))
			if err != nil {
				return nil, nil, err
			}
			out, err := json.Marshal(relateResponse{Op: op, Result: pred(a, b)})
			return out, kindsOf(a, b), err
		})
		if err != nil {
			return nil, "", err
		}
		res := gjson.GetBytes(out, "result").Bool()
		rec.result = &res
		observability.ObservePredicate(op, res)
		return out, jsonType, nil
	})
}

// operand decodes one side of a relate request: a JSON value, or a string
// holding WKT.
func (h *Handler) operand(f codec.Format, v gjson.Result) (geom.Geometry, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return nil, badInput("missing operand")
	}
	if f == codec.WKT {
		if v.Type != gjson.String {
			return nil, badInput("wkt operand must be a string")
		}
		return h.codec.Decode(f, []byte(v.String()))
	}
	return h.codec.Decode(f, []byte(v.Raw))
}

type hullResponse struct {
	Hull   json.RawMessage `json:"hull"`
	Convex bool            `json:"convex"`
}

func (h *Handler) hull(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "hull", func(ctx context.Context, rec *opRecord) ([]byte, string, error) {
		f, body, err := formatAndBody(r, rec)
		if err != nil {
			return nil, "", err
		}
		out, err := h.cached(ctx, rec, keys.Key("hull", string(f), body), func() ([]byte, []string, error) {
			g, err := h.codec.Decode(f, body)
			if err != nil {
				return nil, nil, err
			}
			poly, err := spatial.ConvexHull(g)
			if err != nil {
				return nil, nil, err
			}
			resp := hullResponse{Hull: json.RawMessage("null"), Convex: spatial.IsConvex(geom.Positions(g))}
			if poly != nil {
				if resp.Hull, err = h.codec.EncodeValue(f, poly); err != nil {
					return nil, nil, err
				}
			}
			out, err := json.Marshal(resp)
			return out, kindsOf(g), err
		})
		return out, jsonType, err
	})
}

type boundsResponse struct {
	BBox     *spatial.BBox     `json:"bbox"`
	Envelope *spatial.Envelope `json:"envelope"`
}

func (h *Handler) bounds(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "bounds", func(ctx context.Context, rec *opRecord) ([]byte, string, error) {
		f, body, err := formatAndBody(r, rec)
		if err != nil {
			return nil, "", err
		}
		out, err := h.cached(ctx, rec, keys.Key("bounds", string(f), body), func() ([]byte, []string, error) {
			g, err := h.codec.Decode(f, body)
			if err != nil {
				return nil, nil, err
			}
			bb, err := spatial.CalculateBounds(g)
			if err != nil {
				return nil, nil, err
			}
			env, err := spatial.CalculateEnvelope(g)
			if err != nil {
				return nil, nil, err
			}
			out, err := json.Marshal(boundsResponse{BBox: bb, Envelope: env})
			return out, kindsOf(g), err
		})
		return out, jsonType, err
	})
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "project", func(ctx context.Context, rec *opRecord) ([]byte, string, error) {
		to := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("to")))
		var convert func(geom.Geometry) geom.Geometry
		switch to {
		case "mercator":
			convert = spatial.ToMercator
		case "geographic":
			convert = spatial.ToGeographic
		default:
			return nil, "", badInput("to must be mercator or geographic, got %q", to)
		}
		rec.to = to

		f, body, err := formatAndBody(r, rec)
		if err != nil {
			return nil, "", err
		}
		out, err := h.cached(ctx, rec, keys.Key("project", string(f), body, to), func() ([]byte, []string, error) {
			g, err := h.codec.Decode(f, body)
			if err != nil {
				return nil, nil, err
			}
			out, err := h.codec.Encode(f, convert(g))
			return out, kindsOf(g), err
		})
		return out, f.ContentType(), err
	})
}

func (h *Handler) circle(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "circle", func(_ context.Context, rec *opRecord) ([]byte, string, error) {
		q := r.URL.Query()
		lng, err := floatParam(q.Get("lng"), true)
		if err != nil {
			return nil, "", badInput("lng: %v", err)
		}
		lat, err := floatParam(q.Get("lat"), true)
		if err != nil {
			return nil, "", badInput("lat: %v", err)
		}
		radius, err := floatParam(q.Get("radius"), false)
		if err != nil {
			return nil, "", badInput("radius: %v", err)
		}
		steps := 0
		if s := strings.TrimSpace(q.Get("steps")); s != "" {
			if steps, err = strconv.Atoi(s); err != nil {
				return nil, "", badInput("steps: %v", err)
			}
		}

		f, err := spatial.ToCircle(geom.Position{lng, lat}, radius, steps)
		if err != nil {
			return nil, "", err
		}
		rec.kinds = kindsOf(f)
		b, err := geom.Encode(f)
		return b, jsonType, err
	})
}

func formatAndBody(r *http.Request, rec *opRecord) (codec.Format, []byte, error) {
	f, err := codec.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return "", nil, err
	}
	rec.from = string(f)
	body, err := readBody(r)
	if err != nil {
		return "", nil, err
	}
	return f, body, nil
}

func floatParam(s string, required bool) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if required {
			return 0, errMissing
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotANumber
	}
	return v, nil
}
