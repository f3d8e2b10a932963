package textmatch

import (
	"sort"
	"strings"
)

// Similarity returns the best of several string-similarity metrics for two
// phrases, in [0,1]. Using the maximum keeps fuzzy matching robust to word
// reordering and partial overlap; when the specialized metrics degenerate,
// the result is exactly the normalized edit-distance ratio.
func Similarity(a, b string) float64 {
	a = Fold(strings.TrimSpace(a))
	b = Fold(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	best := EditRatio(a, b)
	if partial := partialRatio(a, b); partial > best {
		best = partial
	}
	if tokenSort := tokenSortRatio(a, b); tokenSort > best {
		best = tokenSort
	}
	return best
}

// EditRatio is the normalized Levenshtein similarity: 1 - distance/maxLen.
func EditRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// partialRatio slides the shorter string across the longer one and returns
// the best window edit ratio, so a phrase embedded in a longer sentence
// still scores high.
func partialRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	if len(ra) == len(rb) {
		return EditRatio(string(ra), string(rb))
	}

	best := 0.0
	for start := 0; start+len(ra) <= len(rb); start++ {
		window := rb[start : start+len(ra)]
		if ratio := EditRatio(string(ra), string(window)); ratio > best {
			best = ratio
			if best == 1 {
				break
			}
		}
	}
	return best
}

// tokenSortRatio compares the two strings with their tokens sorted, making
// the metric insensitive to word order.
func tokenSortRatio(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	sort.Strings(ta)
	sort.Strings(tb)
	return EditRatio(strings.Join(ta, " "), strings.Join(tb, " "))
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
