package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Fold trims s, composes it to NFC and case-folds it, so that Vietnamese
// names typed with different input methods compare equal.
func Fold(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Loose is Fold with diacritics removed ("Đường" and "duong" match).
func Loose(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, Fold(s))
	if err != nil {
		return Fold(s)
	}
	return strings.NewReplacer("đ", "d", "Đ", "d").Replace(out)
}

// Contains reports whether needle occurs in haystack, ignoring case and
// diacritics. An empty needle matches everything.
func Contains(haystack, needle string) bool {
	return strings.Contains(Loose(haystack), Loose(needle))
}
