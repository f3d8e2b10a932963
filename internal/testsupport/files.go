package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMarkerFile places a YAML marker file into the config's first marker
// directory and returns its path.
func WriteMarkerFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	WriteFile(t, path, content)
	return path
}

// SampleTranscript is a short WhatsApp-style conversation covering several
// speakers, a time gap, and phrases that trip the default test markers.
const SampleTranscript = `12.05.2024, 14:30 - Anna: Du bildest dir das nur ein, das habe ich nie gesagt.
12.05.2024, 14:32 - Ben: Ich bin mir ziemlich sicher, dass du das gesagt hast.
12.05.2024, 16:45 - Anna: Kannst du mir Geld schicken? Es ist ein Notfall.
12.05.2024, 16:50 - Ben: Das klingt komisch. Lass uns erst telefonieren.
`
