package biomass

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// The registry hashes metadata documents serialized with sorted keys, ", "
// and ": " separators, floats in shortest round-trip form with a mandatory
// fractional part or exponent, and non-ASCII text escaped as \uXXXX.
// canonicalWriter reproduces that byte stream so that a locally computed
// URI equals the one the registry pins.
type canonicalWriter struct {
	b strings.Builder
}

func (w *canonicalWriter) float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("cannot encode %v", f)
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		w.b.WriteString(strconv.FormatFloat(f, 'e', -1, 64))
		return nil
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	w.b.WriteString(s)
	return nil
}

func (w *canonicalWriter) uint(u uint64) {
	w.b.WriteString(strconv.FormatUint(u, 10))
}

func (w *canonicalWriter) string(s string) {
	w.b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch r {
		case '"':
			w.b.WriteString(`\"`)
		case '\\':
			w.b.WriteString(`\\`)
		case '\n':
			w.b.WriteString(`\n`)
		case '\r':
			w.b.WriteString(`\r`)
		case '\t':
			w.b.WriteString(`\t`)
		case '\b':
			w.b.WriteString(`\b`)
		case '\f':
			w.b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r >= 0x7f && r <= 0xffff):
				fmt.Fprintf(&w.b, `\u%04x`, r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(&w.b, `\u%04x\u%04x`, r1, r2)
			default:
				w.b.WriteRune(r)
			}
		}
	}
	w.b.WriteByte('"')
}

func (w *canonicalWriter) strings(list []string) {
	w.b.WriteByte('[')
	for i, s := range list {
		if i > 0 {
			w.b.WriteString(", ")
		}
		w.string(s)
	}
	w.b.WriteByte(']')
}

func (w *canonicalWriter) key(name string, first bool) {
	if !first {
		w.b.WriteString(", ")
	}
	w.string(name)
	w.b.WriteString(": ")
}
