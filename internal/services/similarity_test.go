package services

import "testing"

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"macdo", "mcdo", 1},
		{"flaw", "lawn", 2},
		{"même", "même", 0},
	}
	for _, c := range cases {
		if got := Levenshtein(c.a, c.b); got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Levenshtein(c.b, c.a); got != c.want {
			t.Errorf("Levenshtein(%q, %q) = %d, want %d", c.b, c.a, got, c.want)
		}
	}
}

func TestAreSimilar(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"mcdo", "macdo", true},       // distance 1 on short strings
		{"coca", "coca cola", true},   // prefix
		{"éclair", "eclair", true},    // deep forms equal
		{"Coooca Cola", "coca cola", true},
		{"pizza", "salade", false},
		{"mcdo", "kfc", false},
		{"frites", "frite", true},
	}
	for _, c := range cases {
		if got := AreSimilar(c.a, c.b); got != c.want {
			t.Errorf("AreSimilar(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
		if got := AreSimilar(c.b, c.a); got != c.want {
			t.Errorf("AreSimilar(%q, %q) = %v, want %v", c.b, c.a, got, c.want)
		}
	}
}

func TestFindMatchingAnswer(t *testing.T) {
	existing := []AnswerCount{
		{Text: "mcdo", Count: 10},
		{Text: "kfc", Count: 2},
	}
	if got := FindMatchingAnswer("macdo", existing); got != "mcdo" {
		t.Fatalf("got %q, want mcdo", got)
	}
	if got := FindMatchingAnswer("sushi", existing); got != "" {
		t.Fatalf("got %q, want no match", got)
	}
}

func TestFindMatchingAnswerPrefersFrequent(t *testing.T) {
	// Both stored texts would match; the bigger bucket wins.
	existing := []AnswerCount{
		{Text: "frites", Count: 1},
		{Text: "frite", Count: 9},
	}
	if got := FindMatchingAnswer("frites", existing); got != "frite" {
		t.Fatalf("got %q, want frite", got)
	}
}

func TestFindMatchingAnswerEmpty(t *testing.T) {
	if got := FindMatchingAnswer("pizza", nil); got != "" {
		t.Fatalf("got %q, want no match", got)
	}
}
