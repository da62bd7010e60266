// Package diag is the warning channel for conditions that do not stop a
// conversion or predicate: unsupported relationship pairs and foreign
// spatial references. Warnings go to a zerolog logger and an optional hook.
package diag

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

type Code string

const (
	CodeUnsupportedPair Code = "unsupported_pair"
	CodeNonDefaultCRS   Code = "non_default_crs"
)

// Hook observes every warning, e.g. to count them.
type Hook func(code Code)

var (
	sink atomic.Pointer[zerolog.Logger]
	hook atomic.Pointer[Hook]
)

func init() {
	nop := zerolog.Nop()
	sink.Store(&nop)
}

// SetLogger routes warnings to l. A nil logger silences them.
func SetLogger(l *zerolog.Logger) {
	if l == nil {
		nop := zerolog.Nop()
		l = &nop
	}
	sink.Store(l)
}

// SetHook installs h; nil removes it.
func SetHook(h Hook) {
	if h == nil {
		hook.Store(nil)
		return
	}
	hook.Store(&h)
}

// Warn emits a warning with optional string fields given as key, value pairs.
func Warn(code Code, msg string, kv ...string) {
	if h := hook.Load(); h != nil {
		(*h)(code)
	}
	ev := sink.Load().Warn().Str("diag", string(code))
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Str(kv[i], kv[i+1])
	}
	ev.Msg(msg)
}
