// Package textkey normalises menu names for comparison and for ids.
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips accents, so "Té", "te" and "TÉ" compare equal.
func Fold(s string) string {
	// transform chains keep state; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}

// Equal reports whether a and b name the same thing after folding.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Slug turns a display name into an ascii id: "Cappuccino Vainilla" becomes
// "cappuccino-vainilla".
func Slug(s string) string {
	folded := Fold(s)
	var b strings.Builder
	dash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
