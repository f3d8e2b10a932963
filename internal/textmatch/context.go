package textmatch

import "strings"

// ExtractContext returns a symmetric window of contextWords words around the
// word containing the byte offset, with the target word marked. Word
// positions are located via cumulative boundaries so repeated words resolve
// to the right occurrence.
func ExtractContext(text string, offset, contextWords int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	type bounds struct{ start, end int }
	positions := make([]bounds, 0, len(words))
	cursor := 0
	for _, word := range words {
		start := strings.Index(text[cursor:], word) + cursor
		end := start + len(word)
		positions = append(positions, bounds{start, end})
		cursor = end
	}

	target := 0
	for i, p := range positions {
		if p.start <= offset && offset <= p.end {
			target = i
			break
		}
		if p.start > offset {
			break
		}
		target = i
	}

	lo := target - contextWords
	if lo < 0 {
		lo = 0
	}
	hi := target + contextWords + 1
	if hi > len(words) {
		hi = len(words)
	}

	window := make([]string, hi-lo)
	copy(window, words[lo:hi])
	window[target-lo] = "**" + window[target-lo] + "**"
	return strings.Join(window, " ")
}
