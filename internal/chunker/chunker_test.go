package chunker

import (
	"strings"
	"testing"
	"time"

	"chatmark/internal/config"
)

func testConfig() config.Chunking {
	return config.Default().Chunking
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Format
	}{
		{"whatsapp", "12.05.2024, 14:30 - Anna: Hallo", FormatWhatsApp},
		{"telegram", "[12.05.2024 14:30:05] Anna: Hallo", FormatTelegram},
		{"generic", "Anna: Hallo\nBen: Hi", FormatGeneric},
		{"plain", "Nur ein Absatz ohne Struktur.", FormatPlain},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.text); got != tc.want {
				t.Fatalf("DetectFormat = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestChunkWhatsAppSpeakerAndTimeGap(t *testing.T) {
	text := "12.05.2024, 14:30 - Anna: Hallo\n" +
		"12.05.2024, 15:30 - Ben: Hi, wie geht's?\n"

	c := New(testConfig(), nil)
	result := c.Chunk(text, FormatAuto)

	if result.Format != FormatWhatsApp {
		t.Fatalf("format = %s, want whatsapp", result.Format)
	}
	if len(result.Chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for speaker change plus one hour gap, got %d", len(result.Chunks))
	}
	if len(result.Speakers) != 2 {
		t.Fatalf("expected 2 speakers, got %d", len(result.Speakers))
	}

	first := result.Chunks[0]
	if first.Speaker == nil || first.Speaker.Name != "Anna" {
		t.Fatalf("first chunk speaker = %+v, want Anna", first.Speaker)
	}
	want := time.Date(2024, 5, 12, 14, 30, 0, 0, time.UTC)
	if !first.Timestamp.Equal(want) {
		t.Fatalf("first chunk timestamp = %s, want %s", first.Timestamp, want)
	}
}

func TestChunkLinksNeighbors(t *testing.T) {
	text := "Anna: eins\nBen: zwei\nAnna: drei\n"
	c := New(testConfig(), nil)
	result := c.Chunk(text, FormatGeneric)

	if len(result.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(result.Chunks))
	}
	if result.Chunks[0].PrevChunkID != "" {
		t.Fatal("first chunk must have no predecessor")
	}
	if result.Chunks[0].NextChunkID != result.Chunks[1].ID {
		t.Fatal("first chunk next id mismatch")
	}
	if result.Chunks[1].PrevChunkID != result.Chunks[0].ID {
		t.Fatal("middle chunk prev id mismatch")
	}
	if result.Chunks[2].NextChunkID != "" {
		t.Fatal("last chunk must have no successor")
	}
}

func TestChunkPlainTextFallback(t *testing.T) {
	text := "Ein freier Text ohne jede Chat-Struktur, nur Prosa."
	c := New(testConfig(), nil)
	result := c.Chunk(text, FormatAuto)

	if len(result.Chunks) != 1 {
		t.Fatalf("expected single fallback chunk, got %d", len(result.Chunks))
	}
	if result.Chunks[0].Type != TypeParagraph {
		t.Fatalf("fallback chunk type = %s, want paragraph", result.Chunks[0].Type)
	}
}

func TestChunkContinuationLines(t *testing.T) {
	text := "12.05.2024, 14:30 - Anna: erste Zeile\n" +
		"zweite Zeile ohne Header\n" +
		"12.05.2024, 14:31 - Ben: ok\n"

	c := New(testConfig(), nil)
	result := c.Chunk(text, FormatWhatsApp)

	if len(result.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(result.Chunks))
	}
	if !strings.Contains(result.Chunks[0].Text, "zweite Zeile ohne Header") {
		t.Fatalf("continuation line lost: %q", result.Chunks[0].Text)
	}
}

func TestChunkMaxSizeSplitsSameSpeaker(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChunkSize = 40
	cfg.ChunkBySpeaker = false
	cfg.ChunkByTime = false

	long := strings.Repeat("bla ", 10)
	text := "Anna: " + long + "\nAnna: " + long + "\n"
	c := New(cfg, nil)
	result := c.Chunk(text, FormatGeneric)

	if len(result.Chunks) < 2 {
		t.Fatalf("expected size ceiling to split, got %d chunks", len(result.Chunks))
	}
}

func TestChunkTimeGapDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.ChunkByTime = false
	cfg.ChunkBySpeaker = false

	text := "12.05.2024, 14:30 - Anna: Hallo\n" +
		"13.05.2024, 14:30 - Anna: Hallo nochmal\n"
	c := New(cfg, nil)
	result := c.Chunk(text, FormatWhatsApp)

	if len(result.Chunks) != 1 {
		t.Fatalf("expected one chunk with gap splitting disabled, got %d", len(result.Chunks))
	}
	if result.Chunks[0].MessageCount != 2 {
		t.Fatalf("message count = %d, want 2", result.Chunks[0].MessageCount)
	}
}

func TestChunkUnparseableTimestampReported(t *testing.T) {
	text := "99.99.9999, 14:30 - Anna: Hallo\n"
	c := New(testConfig(), nil)
	result := c.Chunk(text, FormatWhatsApp)

	if len(result.Issues) == 0 {
		t.Fatal("expected an issue for the unparseable timestamp")
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("message must survive a bad timestamp, got %d chunks", len(result.Chunks))
	}
	if !result.Chunks[0].Timestamp.IsZero() {
		t.Fatal("timestamp must stay zero when unparseable")
	}
}

func TestStatistics(t *testing.T) {
	text := "12.05.2024, 14:30 - Anna: eins zwei drei\n" +
		"12.05.2024, 16:30 - Ben: vier fuenf\n"
	c := New(testConfig(), nil)
	result := c.Chunk(text, FormatWhatsApp)

	stats := result.Statistics
	if stats.TotalChunks != len(result.Chunks) {
		t.Fatalf("total chunks = %d, want %d", stats.TotalChunks, len(result.Chunks))
	}
	if stats.TimeSpanHours != 2 {
		t.Fatalf("time span = %f hours, want 2", stats.TimeSpanHours)
	}
	if _, ok := stats.SpeakerStats["Anna"]; !ok {
		t.Fatal("missing speaker stats for Anna")
	}
	if stats.TotalWords == 0 {
		t.Fatal("expected nonzero word count")
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []string{
		"12.05.2024, 14:30",
		"12.05.2024 14:30:05",
		"12/05/2024 14:30",
		"2024-05-12 14:30:00",
		"2024-05-12T14:30:00",
	}
	for _, raw := range tests {
		if _, ok := parseTimestamp(raw); !ok {
			t.Errorf("parseTimestamp(%q) failed", raw)
		}
	}
	if _, ok := parseTimestamp("gestern"); ok {
		t.Error("expected failure for non-timestamp text")
	}
}
