// Package similarity implements character-level normalized edit-distance similarity.
package similarity

import (
	"strings"
	"unicode"
)

// Levenshtein returns the rune-level edit distance between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	// Two rows over the shorter string.
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

// Ratio returns 1 - levenshtein(a,b)/max(len(a),len(b)) in [0,1].
// Two empty strings are identical (1.0). Inputs are compared as given.
func Ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Best returns the highest Ratio of term against the whole value and against each
// alphanumeric word of value. Both sides are lower-cased.
func Best(term, value string) float64 {
	term = strings.ToLower(term)
	value = strings.ToLower(value)
	best := Ratio(term, value)
	if best == 1 {
		return best
	}
	words := Words(value)
	if len(words) < 2 {
		return best
	}
	for _, w := range words {
		if r := Ratio(term, w); r > best {
			best = r
		}
	}
	return best
}

// Words splits s on every rune that is neither a letter nor a digit.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
