package services

import "strings"

const vowels = "aeiouyàâäéèêëîïôöùûüÿ"

func isVowel(r rune) bool { return strings.ContainsRune(vowels, r) }

// isConsonant restricts to the plain ASCII consonant range; accented letters
// and digits never count toward consonant runs.
func isConsonant(r rune) bool {
	return r >= 'b' && r <= 'z' && !isVowel(r)
}

// IsGibberish flags strings unlikely to be real answers: keyboard mashes,
// repeated characters, vowel-less noise, low-diversity spam. Input is assumed
// light-normalized. Heuristic by design; occasional false positives are the
// accepted cost of an anonymous, unmoderated input stream.
func IsGibberish(normalized string) bool {
	// Letter-pattern checks run on a "tight" form without separators.
	tight := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\'', '-':
			return -1
		}
		return r
	}, normalized)
	rs := []rune(tight)
	n := len(rs)

	if n < 3 {
		return true
	}
	if allSameRune(rs) {
		return true
	}
	if !strings.ContainsAny(tight, vowels) {
		return true
	}

	// Scan once for consecutive-character patterns.
	consRun := 0
	sameRun := 1
	for i, r := range rs {
		if isConsonant(r) {
			consRun++
			if consRun >= 5 {
				return true
			}
		} else {
			consRun = 0
		}
		if i > 0 && r == rs[i-1] {
			sameRun++
			if sameRun >= 3 && (isConsonant(r) || isVowel(r)) {
				return true
			}
		} else {
			sameRun = 1
		}
	}

	freq := map[rune]int{}
	for _, r := range rs {
		freq[r]++
	}
	if n >= 5 {
		most := 0
		for _, c := range freq {
			if c > most {
				most = c
			}
		}
		if most*2 > n {
			return true
		}
	}

	if hasRepeatedPrefix(rs) {
		return true
	}

	if n > 8 && len(freq) <= n/3 {
		return true
	}
	return false
}

func allSameRune(rs []rune) bool {
	for _, r := range rs[1:] {
		if r != rs[0] {
			return false
		}
	}
	return true
}

// hasRepeatedPrefix reports whether the string starts with a block of 1-3
// characters repeated 3 or more times contiguously ("hahaha", "ababab").
func hasRepeatedPrefix(rs []rune) bool {
	for plen := 1; plen <= 3; plen++ {
		if len(rs) < 3*plen {
			continue
		}
		reps := 1
		for reps*plen+plen <= len(rs) && string(rs[reps*plen:(reps+1)*plen]) == string(rs[:plen]) {
			reps++
		}
		if reps >= 3 {
			return true
		}
	}
	return false
}
