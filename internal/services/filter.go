package services

import "strings"

// ContainsBannedWord reports whether the normalized text equals or contains
// any banned word. Matching is plain substring containment, so a short banned
// word can match inside an unrelated longer word; that false-positive risk is
// accepted behaviour, not a bug.
func ContainsBannedWord(normalized string, banned []string) bool {
	text := strings.ToLower(strings.TrimSpace(normalized))
	if text == "" {
		return false
	}
	for _, w := range banned {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if text == w || strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// ApplyCorrections rewrites the text through the rule list in order. A rule
// replaces the whole text when it matches exactly, otherwise every substring
// occurrence. Rules apply sequentially, so a later rule sees (and may rewrite)
// the output of an earlier one.
func ApplyCorrections(normalized string, rules []Correction) string {
	text := strings.ToLower(normalized)
	for _, rule := range rules {
		wrong := strings.ToLower(strings.TrimSpace(rule.Wrong))
		if wrong == "" {
			continue
		}
		// Lowercase the replacement too: the output must stay a valid
		// normalized (lowercase) answer for the rules that follow.
		correct := strings.ToLower(rule.Correct)
		if text == wrong {
			text = correct
			continue
		}
		text = strings.ReplaceAll(text, wrong, correct)
	}
	return strings.TrimSpace(text)
}
