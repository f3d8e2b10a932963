package textmatch

import (
	"unicode"
	"unicode/utf8"
)

// FoldIndex locates the next case-insensitive occurrence of phrase in text
// at or after byte offset from. Offsets are byte positions into the original
// text; matching compares rune by rune under simple case folding, so case
// mappings that change encoded length (Turkish İ, the Kelvin sign) never
// shift the reported span.
func FoldIndex(text, phrase string, from int) (start, end int, ok bool) {
	if phrase == "" || from > len(text) {
		return 0, 0, false
	}
	for i := from; i < len(text); i++ {
		if !utf8.RuneStart(text[i]) {
			continue
		}
		if n, matched := foldPrefix(text[i:], phrase); matched {
			return i, i + n, true
		}
	}
	return 0, 0, false
}

// foldPrefix reports whether text begins with phrase under case folding and
// how many bytes of text the match consumed.
func foldPrefix(text, phrase string) (int, bool) {
	consumed := 0
	for len(phrase) > 0 {
		if consumed >= len(text) {
			return 0, false
		}
		tr, tn := utf8.DecodeRuneInString(text[consumed:])
		pr, pn := utf8.DecodeRuneInString(phrase)
		if !foldEqual(tr, pr) {
			return 0, false
		}
		consumed += tn
		phrase = phrase[pn:]
	}
	return consumed, true
}

// foldEqual compares two runes under Unicode simple folding.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}
