// Package keys derives result-cache keys from an operation and its input.
package keys

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/tidwall/pretty"
)

const Prefix = "gr"

// Key returns "gr:<op>:<params...>:h=<xxhash64>" for an operation over body.
// JSON bodies are compacted and WKT bodies have whitespace collapsed before
// hashing, so layout differences map to the same key.
func Key(op, format string, body []byte, params ...string) string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteByte(':')
	b.WriteString(sanitize(op))
	for _, p := range append([]string{format}, params...) {
		b.WriteByte(':')
		b.WriteString(sanitize(p))
	}
	fmt.Fprintf(&b, ":h=%016x", xxhash.Sum64(normalize(format, body)))
	return b.String()
}

func normalize(format string, body []byte) []byte {
	if strings.EqualFold(format, "wkt") {
		return []byte(strings.ToUpper(collapseASCIIWhitespace(string(body))))
	}
	return pretty.Ugly(body)
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "-"
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := r
		if !(isAlphaNum(r) || r == '_' || r == '-' || r == '.') {
			out = '-'
		}
		if out == '-' && prev == '-' {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

// converts any run of ASCII whitespace to a single space.
func collapseASCIIWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wasWS := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if !wasWS {
				b.WriteByte(' ')
				wasWS = true
			}
			continue
		}
		b.WriteRune(r)
		wasWS = false
	}
	return strings.TrimSpace(b.String())
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9')
}
