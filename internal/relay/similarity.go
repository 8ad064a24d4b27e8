package relay

import (
	"regexp"
	"strings"
)

// Scorer rates topical similarity between two question texts in [0, 1].
// Scores only tag records as related; they never gate correlation or
// routing.
type Scorer interface {
	Score(a, b string) float64
}

// tokenRe tokenizes question texts across scripts.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// KeywordOverlap is the default Scorer: Jaccard overlap of the word sets,
// ignoring words shorter than 3 runes.
type KeywordOverlap struct{}

// Score implements Scorer.
func (KeywordOverlap) Score(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for w := range ta {
		if tb[w] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokenize(text string) map[string]bool {
	words := tokenRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if len([]rune(w)) < 3 {
			continue
		}
		set[w] = true
	}
	return set
}
