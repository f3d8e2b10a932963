package marker

import "testing"

func testDefinitions() []Definition {
	return []Definition{
		{ID: "gaslighting_basic", Name: "Gaslighting", Category: CategoryGaslighting, Severity: SeverityHigh, Weight: 2, Active: true},
		{ID: "money_request", Name: "Money Request", Category: CategoryFraud, Severity: SeverityCritical, Weight: 3, Active: true},
		{ID: "retired_marker", Name: "Retired", Category: CategoryManipulation, Severity: SeverityLow, Weight: 1, Active: false},
	}
}

func TestSnapshotRejectsDuplicateIDs(t *testing.T) {
	defs := testDefinitions()
	defs = append(defs, Definition{ID: "money_request", Active: true})
	if _, err := NewSnapshot(1, defs); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestSnapshotActiveFiltersInactive(t *testing.T) {
	snap, err := NewSnapshot(1, testDefinitions())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	active := snap.Active()
	if len(active) != 2 {
		t.Fatalf("active count = %d, want 2", len(active))
	}
	for _, d := range active {
		if d.ID == "retired_marker" {
			t.Error("inactive marker present in Active()")
		}
	}
}

func TestRegistryReplaceBumpsVersionAndKeepsOldSnapshot(t *testing.T) {
	reg, err := NewRegistry(testDefinitions())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	before := reg.Snapshot()
	if before.Version() != 1 {
		t.Errorf("initial version = %d, want 1", before.Version())
	}

	if err := reg.Replace(testDefinitions()[:1]); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	after := reg.Snapshot()
	if after.Version() != 2 {
		t.Errorf("version after replace = %d, want 2", after.Version())
	}
	// The snapshot captured before the swap is untouched.
	if before.Len() != 3 {
		t.Errorf("old snapshot len = %d, want 3", before.Len())
	}
	if after.Len() != 1 {
		t.Errorf("new snapshot len = %d, want 1", after.Len())
	}
}

func TestSnapshotChecksumDetectsDrift(t *testing.T) {
	a, err := NewSnapshot(1, testDefinitions())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	b, err := NewSnapshot(2, testDefinitions())
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if a.Checksum() != b.Checksum() {
		t.Error("identical definitions should share a checksum")
	}

	drifted := testDefinitions()
	drifted[0].Weight = 5
	c, err := NewSnapshot(3, drifted)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if a.Checksum() == c.Checksum() {
		t.Error("weight change should alter the checksum")
	}
}

func TestEmptyRegistryIsValid(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry(nil): %v", err)
	}
	if got := reg.Snapshot().Len(); got != 0 {
		t.Errorf("len = %d, want 0", got)
	}
	if active := reg.Snapshot().Active(); len(active) != 0 {
		t.Errorf("active = %d, want 0", len(active))
	}
}
