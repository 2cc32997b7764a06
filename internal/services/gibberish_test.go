package services

import "testing"

func TestIsGibberishRejects(t *testing.T) {
	cases := []struct {
		in     string
		reason string
	}{
		{"ok", "too short"},
		{"a", "too short"},
		{"xxxxx", "single repeated character"},
		{"bcdfg", "no vowel"},
		{"jsp", "no vowel"},
		{"qsdfjklm", "no vowel"},
		{"strftz", "long consonant run"},
		{"aaabbb", "triple letter run"},
		{"hahaha", "repeated block"},
		{"ababab", "repeated block"},
		{"aeaeaeae", "repeated block"},
		{"aabbaabbaa", "low character diversity"},
	}
	for _, c := range cases {
		if !IsGibberish(c.in) {
			t.Errorf("IsGibberish(%q) = false, want true (%s)", c.in, c.reason)
		}
	}
}

func TestIsGibberishAccepts(t *testing.T) {
	inputs := []string{
		"pizza",
		"mcdo",
		"frite",
		"banana",
		"coca cola",
		"azerty",
		"pâtes carbonara",
		"sushi",
		"fromage blanc",
	}
	for _, in := range inputs {
		if IsGibberish(in) {
			t.Errorf("IsGibberish(%q) = true, want false", in)
		}
	}
}

func TestIsGibberishIgnoresSeparators(t *testing.T) {
	// Separators do not break up the letter-pattern scan.
	if !IsGibberish("x-x-x-x") {
		t.Fatal("separator-padded repeat should still read as noise")
	}
	// But a real hyphenated answer stays valid.
	if IsGibberish("coca-cola") {
		t.Fatal("coca-cola should not read as noise")
	}
}
