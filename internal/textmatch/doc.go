// Package textmatch provides the string machinery behind marker matching:
// text normalization, token fingerprints, fuzzy similarity metrics, greedy
// span selection, regex compilation caching, and context extraction.
//
// Similarity is the maximum of three metrics (full edit ratio, best-window
// partial ratio, token-order-insensitive ratio) so matches survive
// reordering and partial overlap. All caches tolerate concurrent readers and
// redundant recomputation; none require external locking.
package textmatch
