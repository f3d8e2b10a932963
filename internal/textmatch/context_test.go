package textmatch

import (
	"strings"
	"testing"
)

func TestExtractContextMiddle(t *testing.T) {
	text := "eins zwei drei vier fuenf sechs sieben"
	offset := strings.Index(text, "vier")
	got := ExtractContext(text, offset, 2)
	want := "zwei drei **vier** fuenf sechs"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractContextClampsAtStart(t *testing.T) {
	text := "eins zwei drei vier"
	got := ExtractContext(text, 0, 3)
	want := "**eins** zwei drei vier"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractContextClampsAtEnd(t *testing.T) {
	text := "eins zwei drei vier"
	offset := strings.Index(text, "vier")
	got := ExtractContext(text, offset, 3)
	want := "eins zwei drei **vier**"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractContextRepeatedWords(t *testing.T) {
	text := "nein nein nein doch"
	// Offset points at the third "nein".
	offset := strings.LastIndex(text, "nein")
	got := ExtractContext(text, offset, 1)
	want := "nein **nein** doch"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractContextEmpty(t *testing.T) {
	if got := ExtractContext("   ", 0, 5); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}
