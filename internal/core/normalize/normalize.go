// Package normalize canonicalizes Arabic name strings so that orthographic
// variants of the same name compare equal.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// isDiacritic reports Arabic combining marks: Quranic annotation signs,
// harakat/tanween/shadda/sukun and the superscript alef.
func isDiacritic(r rune) bool {
	switch {
	case r >= '\u0610' && r <= '\u061A':
		return true
	case r >= '\u064B' && r <= '\u065F':
		return true
	case r == '\u0670':
		return true
	case r >= '\u06D6' && r <= '\u06ED':
		return unicode.Is(unicode.Mn, r)
	}
	return false
}

func unifyLetter(r rune) rune {
	switch r {
	case 'أ', 'إ', 'آ':
		return 'ا'
	case 'ؤ':
		return 'و'
	case 'ئ':
		return 'ي'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	}
	return r
}

func newTransformer() transform.Transformer {
	return transform.Chain(
		runes.Remove(runes.Predicate(isDiacritic)),
		runes.Map(unifyLetter),
	)
}

// Normalize trims, strips diacritics, unifies hamza/taa marbouta/alef maksura
// variants, collapses whitespace and case-folds. It never fails and is
// idempotent.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	out, _, err := transform.String(newTransformer(), text)
	if err != nil {
		out = text
	}

	out = strings.Join(strings.Fields(out), " ")

	// Casers carry state, so one per call.
	return cases.Fold().String(out)
}

// Equal compares two names after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
