package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// Normalize prepares text for comparison: Unicode NFC composition plus case
// folding. Offsets into the normalized form are only valid against other
// normalized strings.
func Normalize(text string) string {
	return foldCaser.String(norm.NFC.String(text))
}

// Fold lowercases via full Unicode case folding without recomposition.
func Fold(text string) string {
	return foldCaser.String(text)
}

// Tokenize splits text into folded tokens on non-letter/digit boundaries.
// Unlike search tokenizers, short tokens are kept: chat text leans on words
// like "du" and "ich".
func Tokenize(text string) []string {
	folded := Fold(text)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
