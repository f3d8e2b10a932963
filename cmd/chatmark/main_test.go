package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"chatmark/internal/config"
	"chatmark/internal/testsupport"
)

const testMarkers = `markers:
  - id: gaslighting_denial
    name: Reality denial
    category: gaslighting
    severity: high
    keywords:
      - bildest dir das nur ein
    weight: 3
  - id: fraud_money_request
    name: Money request
    category: fraud
    severity: critical
    patterns:
      - geld\s+(schicken|senden)
    weight: 4
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	transcript string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	testsupport.WriteMarkerFile(t, cfg.Paths.MarkerDirs[0], "test.yaml", testMarkers)

	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	transcript := filepath.Join(base, "chat.txt")
	testsupport.WriteFile(t, transcript, testsupport.SampleTranscript)

	return &cliTestEnv{cfg: cfg, configPath: configPath, transcript: transcript}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCommand(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCommand(t, env, "analyze", env.transcript)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	for _, want := range []string{"Risk level", "Chunks", "Matches"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "GREEN") {
		t.Errorf("gaslighting plus fraud markers should not stay green:\n%s", out)
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCommand(t, env, "analyze", "--json", env.transcript)
	if err != nil {
		t.Fatalf("analyze --json: %v", err)
	}
	if !strings.Contains(out, `"RunID"`) {
		t.Fatalf("JSON output missing run id:\n%.400s", out)
	}
}

func TestAnalyzeCommandExportCSV(t *testing.T) {
	env := setupCLITestEnv(t)
	exportPath := filepath.Join(testsupport.BaseDir(env.cfg), "export.csv")

	_, _, err := runCommand(t, env, "analyze", "--export-csv", exportPath, env.transcript)
	if err != nil {
		t.Fatalf("analyze --export-csv: %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "timestamp,") {
		t.Fatalf("unexpected export header: %.80s", data)
	}
	if !strings.Contains(string(data), "markers_total") {
		t.Error("export missing marker series")
	}
}

func TestAnalyzeCommandRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCommand(t, env, "analyze", "--format", "carrier-pigeon", env.transcript)
	if err == nil || !strings.Contains(err.Error(), "unknown transcript format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestAnalyzeCommandArchivesRun(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory())

	out, _, err := runCommand(t, env, "analyze", env.transcript)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "Archived run") {
		t.Fatalf("expected archive confirmation:\n%s", out)
	}

	listOut, _, err := runCommand(t, env, "history", "list")
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	if !strings.Contains(listOut, "yellow") && !strings.Contains(listOut, "blinking") && !strings.Contains(listOut, "red") {
		t.Fatalf("archived run missing from listing:\n%s", listOut)
	}
}

func TestHistoryCommandsRequireEnabledHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCommand(t, env, "history", "list")
	if err == nil || !strings.Contains(err.Error(), "history is disabled") {
		t.Fatalf("expected disabled-history error, got %v", err)
	}
}

func TestMarkersListCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCommand(t, env, "markers", "list")
	if err != nil {
		t.Fatalf("markers list: %v", err)
	}
	for _, want := range []string{"gaslighting_denial", "fraud_money_request", "critical"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestMarkersValidateReportsSkippedEntries(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteMarkerFile(t, env.cfg.Paths.MarkerDirs[0], "broken.yaml",
		"markers:\n  - name: missing id\n")

	out, _, err := runCommand(t, env, "markers", "validate")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "skipped:") {
		t.Fatalf("expected skipped entry detail:\n%s", out)
	}
}

func TestSimilarCommandRequiresEmbedding(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCommand(t, env, "similar", "Geld schicken", env.transcript)
	if err == nil || !strings.Contains(err.Error(), "embedding is disabled") {
		t.Fatalf("expected disabled-embedding error, got %v", err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(testsupport.BaseDir(env.cfg), "fresh", "config.toml")

	out, _, err := runCommand(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, _, err := runCommand(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
