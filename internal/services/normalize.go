package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Leading French article tokens stripped once from the front of an answer,
// longest first so "de la " wins over "la ".
var leadingArticles = []string{
	"de la ", "de l'", "du ", "des ", "les ", "le ", "la ", "l'", "un ", "une ",
}

// Trailing filler/laughter tokens stripped once from the end of an answer.
var trailingFillers = []string{"lol", "mdr", "ptdr", "haha", "xd"}

// NormalizeLight produces the canonical storage form of a raw answer:
// lowercase, emoji and symbols outside the allow-set removed, whitespace
// collapsed, one leading article and one trailing laugh token stripped.
// The result may be empty; length bounds are the caller's concern.
//
// Because the article strip runs at most once per call, the function is
// stable on realistic answers but not on degenerate ones like "la la land",
// where a second call would strip another article. The single-pass reading
// wins: stored answers go through exactly one call.
func NormalizeLight(raw string) string {
	s := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 0xE0 && r <= 0xFF && r != 0xF7: // Latin-1 accented lowercase, minus '÷'
			b.WriteRune(r)
		case r == '\'' || r == '’': // straight or curly apostrophe
			b.WriteByte('\'')
		case r == '-':
			b.WriteByte('-')
		}
		// Everything else (emoji, pictographs, joiners, variation selectors,
		// stray symbols) is dropped.
	}
	s = strings.Join(strings.Fields(b.String()), " ")

	for _, art := range leadingArticles {
		if strings.HasPrefix(s, art) {
			s = s[len(art):]
			break
		}
	}

	for _, filler := range trailingFillers {
		if s == filler {
			s = ""
			break
		}
		if strings.HasSuffix(s, " "+filler) {
			s = strings.TrimSpace(s[:len(s)-len(filler)])
			break
		}
	}
	return strings.TrimSpace(s)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeDeep produces the comparison-only key used for similarity checks:
// lowercased, diacritics removed, non-alphanumerics stripped and runs of
// identical characters collapsed. It is never stored. The order matters:
// decomposition must precede stripping (accented letters would otherwise be
// dropped as non-ASCII) and run-collapsing must come last.
func NormalizeDeep(s string) string {
	s = strings.ToLower(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune = -1
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			continue
		}
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
