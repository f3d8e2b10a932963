package textmatch

import (
	"reflect"
	"testing"
)

func TestFoldHandlesUmlauts(t *testing.T) {
	if got := Fold("FÜHLST DU DICH"); got != "fühlst du dich" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeComposesAndFolds(t *testing.T) {
	// "u" followed by combining diaeresis composes to the same form as "ü".
	decomposed := "FÜHLEN"
	if got := Normalize(decomposed); got != "fühlen" {
		t.Fatalf("got %q", got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Du bist schuld!", []string{"du", "bist", "schuld"}},
		{"ich... ich weiß nicht", []string{"ich", "ich", "weiß", "nicht"}},
		{"um 14:30 Uhr", []string{"um", "14", "30", "uhr"}},
		{"", nil},
	}
	for _, tc := range tests {
		got := Tokenize(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
