// Package api serves the geometry conversions and spatial predicates over
// HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/georelate/internal/cache"
	"github.com/mohammed-shakir/georelate/internal/codec"
	"github.com/mohammed-shakir/georelate/internal/events"
	"github.com/mohammed-shakir/georelate/internal/observability"
	"github.com/mohammed-shakir/georelate/pkg/geom"
	"github.com/mohammed-shakir/georelate/pkg/spatial"
	"github.com/mohammed-shakir/georelate/pkg/wkt"
)

type Options struct {
	Logger *slog.Logger
	// Cache may be nil to disable result caching.
	Cache *cache.Cache
	// Events may be nil to disable operation events.
	Events      events.Sink
	IDAttribute string
}

type Handler struct {
	log    *slog.Logger
	cache  *cache.Cache
	events events.Sink
	codec  codec.Codec
}

func New(opts Options) *Handler {
	h := &Handler{
		log:    opts.Logger,
		cache:  opts.Cache,
		events: opts.Events,
		codec:  codec.Codec{IDAttribute: opts.IDAttribute},
	}
	if h.log == nil {
		h.log = slog.New(slog.DiscardHandler)
	}
	if h.events == nil {
		h.events = events.Nop{}
	}
	return h
}

// Routes mounts the /v1 endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Post("/convert", h.instrument("/v1/convert", h.convert))
		r.Post("/relate", h.instrument("/v1/relate", h.relate))
		r.Post("/hull", h.instrument("/v1/hull", h.hull))
		r.Post("/bounds", h.instrument("/v1/bounds", h.bounds))
		r.Post("/project", h.instrument("/v1/project", h.project))
		r.Get("/circle", h.instrument("/v1/circle", h.circle))
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (h *Handler) instrument(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		fn(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

// opRecord collects what one served operation reports to metrics and events.
type opRecord struct {
	op, from, to string
	kinds        []string
	result       *bool
	cached       bool
	start        time.Time
}

func (h *Handler) finish(ctx context.Context, rec opRecord, err error) {
	d := time.Since(rec.start)
	observability.ObserveOp(rec.op, rec.from, err, d.Seconds())
	if err != nil {
		h.log.WarnContext(ctx, "operation failed", "err", err)
		return
	}
	h.events.Publish(events.Event{
		Op:         rec.op,
		From:       rec.from,
		To:         rec.to,
		Kinds:      rec.kinds,
		Result:     rec.result,
		Cached:     rec.cached,
		DurationMS: float64(d.Microseconds()) / 1000,
	})
}

// computeFunc returns an encoded result and the kinds of the inputs it was
// computed from.
type computeFunc func() ([]byte, []string, error)

// cached serves fn through the result cache. Entries are stored as
// "<kind,kind>\n<result>" so a hit still reports the input kinds.
func (h *Handler) cached(ctx context.Context, rec *opRecord, key string, fn computeFunc) ([]byte, error) {
	compute := func() ([]byte, error) {
		out, kinds, err := fn()
		if err != nil {
			return nil, err
		}
		entry := make([]byte, 0, len(out)+16)
		entry = append(entry, strings.Join(kinds, ",")...)
		entry = append(entry, '\n')
		return append(entry, out...), nil
	}

	var (
		entry []byte
		hit   bool
		err   error
	)
	if h.cache == nil {
		entry, err = compute()
	} else {
		entry, hit, err = h.cache.GetOrCompute(ctx, key, compute)
	}
	if err != nil {
		return nil, err
	}
	head, out, ok := bytes.Cut(entry, []byte{'\n'})
	if !ok {
		return nil, fmt.Errorf("cache entry for %s op is malformed", rec.op)
	}
	if len(head) > 0 {
		rec.kinds = strings.Split(string(head), ",")
	}
	rec.cached = hit
	return out, nil
}

func readBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, badInput("empty request body")
	}
	return b, nil
}

var (
	errMissing    = errors.New("required")
	errNotANumber = errors.New("not a number")
)

func badInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", codec.ErrBadInput, fmt.Sprintf(format, args...))
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, geom.ErrUnknownKind), errors.Is(err, wkt.ErrUnsupportedType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, codec.ErrBadInput), errors.Is(err, spatial.ErrCircleParams):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	http.Error(w, msg, code)
}

func write(w http.ResponseWriter, contentType string, b []byte, cached bool) {
	w.Header().Set("Content-Type", contentType)
	if cached {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func kindsOf(gs ...geom.Geometry) []string {
	out := make([]string, 0, len(gs))
	for _, g := range gs {
		out = append(out, geom.KindOf(g).String())
	}
	return out
}
