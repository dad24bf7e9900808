// Package normalize canonicalizes free-text arguments before they reach
// cache keys or traversal parameters. Two spellings that differ only in
// case, surrounding space, or diacritics normalize to the same value.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Clean trims surrounding whitespace, lowercases, and applies NFC so
// composed and decomposed spellings of the same accent compare equal.
func Clean(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// Fold applies Clean and strips combining marks, so "Pelé" and "pele"
// fold to the same string. Used for cache keys and fuzzy matching.
func Fold(s string) string {
	out, _, err := transform.String(foldChain, Clean(s))
	if err != nil {
		return Clean(s)
	}
	return out
}
