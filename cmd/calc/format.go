package main

import (
	"strings"

	"github.com/zephyrtronium/calc"
)

// prefixes are the literal prefixes of the supported output bases.
var prefixes = map[int]string{2: "0b", 8: "0o", 10: "", 16: "0x"}

func validBase(base int) bool {
	_, ok := prefixes[base]
	return ok
}

// format renders r for output. Whole numbers use the given base with the
// prefix that would read them back; decimals are always base 10. Inexact
// results are marked with ≈.
func format(r calc.Number, base int) string {
	s := r.String()
	if r.IsInt() && base != 10 {
		s = r.Text(base)
		if neg := strings.HasPrefix(s, "-"); neg {
			s = "-" + prefixes[base] + s[1:]
		} else {
			s = prefixes[base] + s
		}
	}
	if r.Inexact() {
		return "≈ " + s
	}
	return s
}
