package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Verdict int

const (
	Wrong Verdict = iota
	Close
	Correct
)

// Characters dropped from answers before comparison: separators first, then
// the punctuation players tend to type anyway.
const strippedChars = " ,-_;:?./+=\"'(!)"

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts an answer to its canonical comparable form: lowercase,
// accents folded away, separators and punctuation removed.
func Normalize(input string) string {
	if input == "" {
		return ""
	}
	lowered := strings.ToLower(input)
	if folded, _, err := transform.String(deaccent, lowered); err == nil {
		lowered = folded
	}
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(strippedChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Grade compares a submitted answer against the canonical (already
// normalized) answer. Both sides of the edit-distance comparison are
// normalized, so accents, case and punctuation never count against a player.
func Grade(submitted, canonical string, closeThreshold int) Verdict {
	normalized := Normalize(submitted)
	if normalized == canonical {
		return Correct
	}
	if levenshtein(normalized, canonical) <= closeThreshold {
		return Close
	}
	return Wrong
}

// levenshtein computes the edit distance between two strings, rune-wise, with
// a rolling two-row DP table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
