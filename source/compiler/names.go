package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Logo names aren't case-sensitive and may contain almost anything, so to make a Go
// identifier out of one we fold it and then write every rune which isn't an ASCII letter or
// digit as _xHH_, HH being the hex of the rune. The underscore is escaped too, which keeps
// the mapping one-to-one.

const ENTRY = "logoEntry"

func RoutineName(name string) string {
	return "logo_" + escape(name)
}

func labelName(name string) string {
	return "tag_" + escape(name)
}

func escape(name string) string {
	var sb strings.Builder
	for _, r := range cases.Fold().String(name) {
		if r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			continue
		}
		fmt.Fprintf(&sb, "_x%02X_", r)
	}
	return sb.String()
}

func fold(name string) string {
	return cases.Fold().String(name)
}
