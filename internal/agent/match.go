package agent

import (
	"strconv"
	"strings"

	model "omniauction/internal/models"
)

// fuzzyCutoff is the minimum Levenshtein similarity for a fuzzy name match.
const fuzzyCutoff = 0.6

// resolveProduct decides which listed product a command refers to. The
// strategies run in order and the first hit wins: ordinal reference
// ("item 2"), exact substring of a listed name, a listed-name word longer
// than three characters, then fuzzy nearest-name matching. The command is
// expected to be lowercase already.
func resolveProduct(command string, listed []model.ProductSummary) (model.ProductSummary, bool) {
	if len(listed) == 0 {
		return model.ProductSummary{}, false
	}

	if p, ok := resolveOrdinal(command, listed); ok {
		return p, true
	}

	for _, p := range listed {
		if strings.Contains(command, strings.ToLower(p.Name)) {
			return p, true
		}
	}

	// Partial match: any sufficiently long word from a product name.
	for _, p := range listed {
		for _, term := range strings.Fields(strings.ToLower(p.Name)) {
			if len(term) > 3 && strings.Contains(command, term) {
				return p, true
			}
		}
	}

	return resolveFuzzy(command, listed)
}

// resolveOrdinal handles "item 2" and "number 2" style references into the
// last-listed set (1-based).
func resolveOrdinal(command string, listed []model.ProductSummary) (model.ProductSummary, bool) {
	tokens := strings.Fields(command)
	for i, token := range tokens {
		if token != "item" && token != "number" {
			continue
		}
		if i+1 >= len(tokens) {
			continue
		}
		n, err := strconv.Atoi(strings.Trim(tokens[i+1], ".,!?"))
		if err != nil {
			continue
		}
		if n >= 1 && n <= len(listed) {
			return listed[n-1], true
		}
	}
	return model.ProductSummary{}, false
}

// resolveFuzzy compares each command word against the listed product names
// and returns the single best candidate at or above the similarity cutoff.
func resolveFuzzy(command string, listed []model.ProductSummary) (model.ProductSummary, bool) {
	best := model.ProductSummary{}
	bestScore := fuzzyCutoff

	for _, word := range strings.Fields(command) {
		if len(word) <= 3 {
			continue
		}
		for _, p := range listed {
			score := similarity(word, strings.ToLower(p.Name))
			if score >= bestScore {
				best = p
				bestScore = score
			}
		}
	}

	return best, best.ProductID != ""
}

// similarity maps Levenshtein distance onto [0,1]: identical strings score 1.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between two strings: the minimum
// number of single-character insertions, deletions, or substitutions needed
// to turn one into the other.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
