package marker

import (
	"os"
	"path/filepath"
	"testing"

	"chatmark/internal/logging"
)

const sampleMarkers = `markers:
  - id: gaslighting_denial
    name: Gaslighting Denial
    category: gaslighting
    severity: high
    examples:
      - "das hast du dir nur eingebildet"
      - "das habe ich nie gesagt"
    weight: 2.5
  - id: money_urgent
    category: scam
    severity: critical
    patterns:
      - '(?i)brauche\s+dringend\s+geld'
    keywords:
      - "western union"
  - id: ""
    category: fraud
  - id: bad_category
    category: astrology
  - id: bad_weight
    weight: 42.0
`

func TestParseDefinitionsSkipsInvalidEntries(t *testing.T) {
	defs, issues, err := ParseDefinitions([]byte(sampleMarkers), "sample.yaml")
	if err != nil {
		t.Fatalf("ParseDefinitions: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("definitions = %d, want 2", len(defs))
	}
	if len(issues) != 3 {
		t.Fatalf("issues = %d, want 3 (missing id, bad category, bad weight)", len(issues))
	}

	byID := map[string]Definition{}
	for _, d := range defs {
		byID[d.ID] = d
	}

	gas := byID["gaslighting_denial"]
	if gas.Category != CategoryGaslighting || gas.Severity != SeverityHigh {
		t.Errorf("unexpected gaslighting definition: %+v", gas)
	}
	if gas.Weight != 2.5 {
		t.Errorf("weight = %g, want 2.5", gas.Weight)
	}
	if !gas.Active {
		t.Error("active should default to true")
	}

	money := byID["money_urgent"]
	if money.Category != CategoryFraud {
		t.Errorf("alias scam should resolve to fraud, got %q", money.Category)
	}
	if money.Name != "money_urgent" {
		t.Errorf("name should default to id, got %q", money.Name)
	}
	if money.Weight != 1.0 {
		t.Errorf("omitted weight should default to 1.0, got %g", money.Weight)
	}
}

func TestParseDefinitionsRejectsGarbage(t *testing.T) {
	if _, _, err := ParseDefinitions([]byte("markers: {not: [valid"), "broken.yaml"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadDirsSkipsBrokenFilesAndDedupes(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	write("a.yaml", "markers:\n  - id: alpha\n    category: fraud\n")
	write("b.yaml", "markers:\n  - id: alpha\n    category: fraud\n  - id: beta\n    category: empathy\n")
	write("broken.yaml", "markers: [unclosed")
	write("notes.txt", "ignored")

	result, err := LoadDirs([]string{dir}, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadDirs: %v", err)
	}
	if len(result.Definitions) != 2 {
		t.Fatalf("definitions = %d, want 2 (alpha deduped)", len(result.Definitions))
	}
	if len(result.Issues) < 2 {
		t.Errorf("issues = %d, want at least 2 (broken file, duplicate)", len(result.Issues))
	}
}

func TestLoadDirsMissingDirectoryYieldsEmptyRegistry(t *testing.T) {
	result, err := LoadDirs([]string{filepath.Join(t.TempDir(), "absent")}, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadDirs: %v", err)
	}
	if len(result.Definitions) != 0 {
		t.Errorf("definitions = %d, want 0", len(result.Definitions))
	}
}
