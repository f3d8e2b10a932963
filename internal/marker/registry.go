package marker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// Snapshot is an immutable view of the marker registry. Pipeline calls hold
// one snapshot for their whole run; reloads never mutate an existing
// snapshot.
type Snapshot struct {
	version  int64
	markers  []Definition
	byID     map[string]*Definition
	checksum string
}

// NewSnapshot builds a snapshot from definitions. Duplicate IDs are rejected:
// the registry enforces one canonical entry per marker id.
func NewSnapshot(version int64, defs []Definition) (*Snapshot, error) {
	byID := make(map[string]*Definition, len(defs))
	markers := make([]Definition, len(defs))
	copy(markers, defs)
	sort.Slice(markers, func(i, j int) bool { return markers[i].ID < markers[j].ID })

	for i := range markers {
		id := markers[i].ID
		if id == "" {
			return nil, fmt.Errorf("marker without id at position %d", i)
		}
		if _, exists := byID[id]; exists {
			return nil, fmt.Errorf("duplicate marker id %q", id)
		}
		byID[id] = &markers[i]
	}

	return &Snapshot{
		version:  version,
		markers:  markers,
		byID:     byID,
		checksum: checksumDefinitions(markers),
	}, nil
}

// Version returns the registry generation this snapshot was built from.
func (s *Snapshot) Version() int64 { return s.version }

// Checksum returns a content hash over all definitions, used to detect
// duplicate or drifted marker files at load time.
func (s *Snapshot) Checksum() string { return s.checksum }

// Len returns the number of definitions, active or not.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.markers)
}

// Active returns the active definitions in ID order.
func (s *Snapshot) Active() []Definition {
	if s == nil {
		return nil
	}
	active := make([]Definition, 0, len(s.markers))
	for _, d := range s.markers {
		if d.Active {
			active = append(active, d)
		}
	}
	return active
}

// All returns every definition in ID order.
func (s *Snapshot) All() []Definition {
	if s == nil {
		return nil
	}
	out := make([]Definition, len(s.markers))
	copy(out, s.markers)
	return out
}

// Get looks up a definition by id.
func (s *Snapshot) Get(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	d, ok := s.byID[id]
	if !ok {
		return Definition{}, false
	}
	return *d, true
}

func checksumDefinitions(defs []Definition) string {
	h := sha256.New()
	for _, d := range defs {
		fmt.Fprintf(h, "%s|%s|%s|%g|%t\n", d.ID, d.Category, d.Severity, d.Weight, d.Active)
		fmt.Fprintln(h, strings.Join(d.Patterns, "\x1f"))
		fmt.Fprintln(h, strings.Join(d.Keywords, "\x1f"))
		fmt.Fprintln(h, strings.Join(d.Examples, "\x1f"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Registry holds the current snapshot and swaps in replacements atomically.
// Safe for concurrent use without locks.
type Registry struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
}

// NewRegistry creates a registry seeded with the provided definitions.
// An empty definition list is valid and simply yields zero matches.
func NewRegistry(defs []Definition) (*Registry, error) {
	r := &Registry{}
	if err := r.Replace(defs); err != nil {
		return nil, err
	}
	return r, nil
}

// Snapshot returns the current immutable snapshot.
func (r *Registry) Snapshot() *Snapshot {
	return r.current.Load()
}

// Replace builds a new snapshot from defs and swaps it in. In-flight
// analyses keep whatever snapshot they already hold.
func (r *Registry) Replace(defs []Definition) error {
	version := r.version.Add(1)
	snap, err := NewSnapshot(version, defs)
	if err != nil {
		return err
	}
	r.current.Store(snap)
	return nil
}
