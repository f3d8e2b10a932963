// Package marker defines marker categories, definitions, and matches, and
// owns the registry of marker definitions used by the matcher.
//
// The registry is read-mostly: definitions are loaded once from YAML files
// into an immutable, versioned Snapshot. Reloading builds a fresh snapshot
// and swaps it atomically, so analyses already holding a snapshot are never
// affected by concurrent reloads. Duplicate marker IDs are rejected at load
// time; malformed entries are skipped and reported as diagnostics rather
// than aborting the load. The only fatal condition is a registry with no
// readable source at all.
package marker
