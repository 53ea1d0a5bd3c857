package similarity

import (
	"math"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"jon", "john", 1},
		{"john", "jane", 3},
		{"flaw", "lawn", 2},
		{"héllo", "hello", 1},
		{"same", "same", 0},
	}
	for _, tc := range tests {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Levenshtein(tc.b, tc.a); got != tc.want {
			t.Errorf("Levenshtein(%q, %q) not symmetric: %d", tc.b, tc.a, got)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"jon", "john", 0.75},
		{"john", "john", 1},
		{"abc", "xyz", 0},
		{"john", "jane", 0.25},
	}
	for _, tc := range tests {
		if got := Ratio(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %f, want %f", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestBest_UsesWords(t *testing.T) {
	// "enginer" vs the whole title is far; vs the word "engineer" it is close.
	whole := Ratio("enginer", "software engineer")
	best := Best("Enginer", "Software Engineer")
	if best <= whole {
		t.Fatalf("Best should prefer word similarity: best=%f whole=%f", best, whole)
	}
	if math.Abs(best-0.875) > 1e-9 {
		t.Errorf("Best = %f, want 0.875", best)
	}
}

func TestBest_CaseInsensitive(t *testing.T) {
	if got := Best("JOHN", "john"); got != 1 {
		t.Errorf("Best = %f, want 1", got)
	}
}

func TestWords(t *testing.T) {
	got := Words("john.doe@acme.io")
	want := []string{"john", "doe", "acme", "io"}
	if len(got) != len(want) {
		t.Fatalf("Words = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
