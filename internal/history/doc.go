// Package history persists analysis runs in a local SQLite database so
// repeated analyses of the same conversation can be compared over time.
package history
