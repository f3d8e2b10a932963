// Package matcher locates marker occurrences in text chunks.
//
// Three engines run over each chunk: exact substring search over marker
// keywords and examples (confidence 1.0), case-insensitive regex patterns
// (confidence 0.9), and fuzzy sliding-window matching over multi-word
// examples (confidence equal to the measured similarity). Overlapping hits
// are resolved by confidence so a phrase is never counted twice.
package matcher
