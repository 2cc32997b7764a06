package services

import "sort"

// Levenshtein computes the classic unit-cost edit distance between two
// strings using a single-row sweep.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	// Keep the row sized to the shorter string.
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := row[0] // row[i-1][j-1]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			diag := prev
			prev = row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = minInt(diag+cost, minInt(row[j]+1, row[j-1]+1))
		}
	}
	return row[len(rb)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func isPrefixEither(a, b string) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	return b[:len(a)] == a
}

// AreSimilar is the permissive comparison used at export time. Two answers
// are similar when their deep forms are equal, one is a prefix of the other,
// or their edit distance stays under a length-scaled threshold (1 for short
// strings, 30% of the longer length otherwise).
func AreSimilar(a, b string) bool {
	da, db := NormalizeDeep(a), NormalizeDeep(b)
	if da == db {
		return true
	}
	if isPrefixEither(da, db) {
		return true
	}
	maxLen := maxInt(len(da), len(db))
	dist := Levenshtein(da, db)
	if maxLen <= 5 {
		return dist <= 1
	}
	return dist <= (3*maxLen)/10
}

// FindMatchingAnswer decides whether a new answer collapses into one already
// recorded for the same question. Candidates are tried most-frequent first so
// a near-duplicate merges into the biggest existing bucket; the 0.2 distance
// ratio is deliberately stricter than the export-time threshold because a bad
// live merge is visible to respondents. Returns the matched stored text, or
// "" when the answer is genuinely new.
func FindMatchingAnswer(newText string, existing []AnswerCount) string {
	candidates := make([]AnswerCount, len(existing))
	copy(candidates, existing)
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Count > candidates[j].Count })

	dn := NormalizeDeep(newText)
	for _, cand := range candidates {
		dc := NormalizeDeep(cand.Text)
		if dn == dc || isPrefixEither(dn, dc) {
			return cand.Text
		}
		maxLen := maxInt(len(dn), len(dc))
		if maxLen == 0 {
			continue
		}
		if float64(Levenshtein(dn, dc))/float64(maxLen) <= 0.2 {
			return cand.Text
		}
	}
	return ""
}
