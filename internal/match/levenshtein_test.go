package match

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
		{"name", "name", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Email", "email", 1},
		{"createdat", "updatedat", 3},
		{"nickname", "nickanme", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			if got := Levenshtein(tt.a, tt.b); got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}

			if got := Levenshtein(tt.b, tt.a); got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "", 0},
		{"abcd", "abce", 0.75},
		{"ab", "cd", 0},
	}

	for _, tt := range tests {
		if got := Similarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIdentSimilarity(t *testing.T) {
	if got := IdentSimilarity("OrderID", "order_id"); got != 1 {
		t.Errorf("IdentSimilarity(OrderID, order_id) = %v, want 1", got)
	}

	if got := IdentSimilarity("Name", "Email"); got >= 0.5 {
		t.Errorf("IdentSimilarity(Name, Email) = %v, want < 0.5", got)
	}
}

func BenchmarkLevenshtein(b *testing.B) {
	for b.Loop() {
		Levenshtein("registrationTimestamp", "registeredAt")
	}
}
