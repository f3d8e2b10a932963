// Package embedding provides optional semantic text embeddings used to
// group near-duplicate marker hits and compare example phrases beyond
// surface similarity. The OpenAI-backed client is opt-in; analysis runs
// fully without it.
package embedding
