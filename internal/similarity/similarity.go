// Package similarity scores a guess against the target word. The first matching
// rule wins: exact match, shared subcategory, shared category, strong relation,
// weak relation, and finally a capped lexical blend.
package similarity

import (
	"math"

	"semord/internal/corpus"
)

// Tier scores for the semantic rules.
const (
	Exact           = 1.0
	SameSubcategory = 0.95
	SameCategory    = 0.85
	StrongRelation  = 0.70
	WeakRelation    = 0.40

	// LexicalCap keeps lexical closeness below the weakest semantic tier.
	LexicalCap = 0.25
)

// Rule identifies which scoring rule produced a similarity.
type Rule string

const (
	RuleExact       Rule = "exact"
	RuleSubcategory Rule = "subcategory"
	RuleCategory    Rule = "category"
	RuleStrong      Rule = "strong"
	RuleWeak        Rule = "weak"
	RuleLexical     Rule = "lexical"
)

// Band is the coarse label shown to players.
type Band string

const (
	BandPerfect       Band = "Perfect"
	BandVeryClose     Band = "VeryClose"
	BandClose         Band = "Close"
	BandSomewhatClose Band = "SomewhatClose"
	BandFar           Band = "Far"
)

var bandLabels = map[Band]string{
	BandPerfect:       "Perfekt!",
	BandVeryClose:     "Väldigt nära!",
	BandClose:         "Nära",
	BandSomewhatClose: "Ganska nära",
	BandFar:           "Långt borta",
}

// Label returns the Swedish display text for the band.
func (b Band) Label() string {
	return bandLabels[b]
}

// Result is the outcome of scoring one guess.
type Result struct {
	Similarity float64
	Band       Band
	Rule       Rule
}

// Score compares guess with target. Both words are normalized first; dictionary
// validation is the caller's job.
func Score(c *corpus.Corpus, guess, target string) Result {
	sim, rule := score(c, corpus.Normalize(guess), corpus.Normalize(target))
	return Result{Similarity: sim, Band: Classify(sim), Rule: rule}
}

func score(c *corpus.Corpus, guess, target string) (float64, Rule) {
	if guess == target {
		return Exact, RuleExact
	}
	if sim, rule, ok := semantic(c, guess, target); ok {
		return sim, rule
	}
	return Lexical(guess, target), RuleLexical
}

// semantic applies the category rules using the first declared membership of each word.
func semantic(c *corpus.Corpus, guess, target string) (float64, Rule, bool) {
	if c == nil {
		return 0, "", false
	}
	g, ok := c.FirstMembership(guess)
	if !ok {
		return 0, "", false
	}
	t, ok := c.FirstMembership(target)
	if !ok {
		return 0, "", false
	}

	graph := c.Graph()
	switch {
	case g.Category == t.Category && g.Subcategory != "" && g.Subcategory == t.Subcategory:
		return SameSubcategory, RuleSubcategory, true
	case g.Category == t.Category:
		return SameCategory, RuleCategory, true
	case graph.StronglyRelated(t.Category, g.Category):
		return StrongRelation, RuleStrong, true
	case graph.WeaklyRelated(t.Category, g.Category):
		return WeakRelation, RuleWeak, true
	}
	return 0, "", false
}

// Lexical blends edit distance and shared letters, scaled and capped at LexicalCap.
func Lexical(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 0
	}
	distance := 1 - float64(levenshtein(ra, rb))/float64(maxLen)
	letters := float64(commonLetters(ra, rb)) / float64(maxLen)
	raw := (0.6*distance + 0.4*letters) * 0.3
	return math.Max(0, math.Min(LexicalCap, raw))
}

// Classify maps a similarity to its band regardless of the rule that produced it.
func Classify(similarity float64) Band {
	switch {
	case similarity == Exact:
		return BandPerfect
	case similarity >= 0.8:
		return BandVeryClose
	case similarity >= 0.6:
		return BandClose
	case similarity >= 0.4:
		return BandSomewhatClose
	default:
		return BandFar
	}
}

func levenshtein(a, b []rune) int {
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
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// commonLetters counts the multiset overlap of letters.
func commonLetters(a, b []rune) int {
	counts := make(map[rune]int, len(a))
	for _, r := range a {
		counts[r]++
	}
	common := 0
	for _, r := range b {
		if counts[r] > 0 {
			counts[r]--
			common++
		}
	}
	return common
}
