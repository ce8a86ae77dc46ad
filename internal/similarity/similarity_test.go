package similarity

import (
	"math"
	"testing"

	"semord/internal/corpus"
)

const epsilon = 1e-9

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.Default()
	if err != nil {
		t.Fatalf("loading corpus: %v", err)
	}
	return c
}

func TestScoreRules(t *testing.T) {
	c := testCorpus(t)
	tests := []struct {
		guess, target string
		want          float64
		band          Band
		rule          Rule
	}{
		{"hund", "hund", 1.0, BandPerfect, RuleExact},
		{" Hund ", "HUND", 1.0, BandPerfect, RuleExact},
		{"hund", "kanin", 0.95, BandVeryClose, RuleSubcategory},
		{"hund", "björn", 0.85, BandVeryClose, RuleCategory},
		{"regn", "skog", 0.70, BandClose, RuleStrong},
		{"sjö", "ost", 0.40, BandSomewhatClose, RuleWeak},
		{"hatt", "katt", 0.225, BandFar, RuleLexical},
	}
	for _, tt := range tests {
		got := Score(c, tt.guess, tt.target)
		if math.Abs(got.Similarity-tt.want) > epsilon || got.Band != tt.band || got.Rule != tt.rule {
			t.Errorf("Score(%q, %q) = %+v, want {%v %s %s}", tt.guess, tt.target, got, tt.want, tt.band, tt.rule)
		}
	}
}

func TestRelationsAreLookedUpFromTarget(t *testing.T) {
	c := testCorpus(t)
	// Relations are directional and only the target category's lists count:
	// mat lists natur as weak, natur lists neither mat relation.
	if got := Score(c, "skog", "ost"); got.Rule != RuleWeak {
		t.Errorf("Score(skog, ost) = %+v, want weak relation", got)
	}
	if got := Score(c, "ost", "skog"); got.Rule != RuleLexical {
		t.Errorf("Score(ost, skog) = %+v, want lexical fallback", got)
	}
	// djur and väder are both related to natur but not to each other.
	if got := Score(c, "hund", "regn"); got.Rule != RuleLexical {
		t.Errorf("Score(hund, regn) = %+v, want lexical fallback", got)
	}
}

func TestScoreIsReflexiveForEveryWord(t *testing.T) {
	c := testCorpus(t)
	for _, w := range c.Words() {
		if got := Score(c, w, w); got.Similarity != 1.0 || got.Band != BandPerfect {
			t.Fatalf("Score(%q, %q) = %+v", w, w, got)
		}
	}
}

func TestLexicalFallbackIsCapped(t *testing.T) {
	c := testCorpus(t)
	words := c.Words()
	for i := 0; i < len(words); i += 7 {
		for j := 3; j < len(words); j += 53 {
			got := Score(c, words[i], words[j])
			if got.Rule != RuleLexical {
				continue
			}
			if got.Similarity < 0 || got.Similarity > LexicalCap {
				t.Fatalf("Score(%q, %q) = %v outside [0, %v]", words[i], words[j], got.Similarity, LexicalCap)
			}
		}
	}
}

func TestLexical(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 0},
		{"bär", "bar", 0.2},
		{"abc", "xyz", 0},
		{"katt", "hatt", 0.225},
	}
	for _, tt := range tests {
		if got := Lexical(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
			t.Errorf("Lexical(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"kitten", "sitting", 3},
		{"sol", "", 3},
		{"måne", "mane", 1},
	}
	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCommonLetters(t *testing.T) {
	if got := commonLetters([]rune("aab"), []rune("abb")); got != 2 {
		t.Errorf("commonLetters(aab, abb) = %d, want 2", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sim  float64
		want Band
	}{
		{1.0, BandPerfect},
		{0.99, BandVeryClose},
		{0.8, BandVeryClose},
		{0.79, BandClose},
		{0.6, BandClose},
		{0.4, BandSomewhatClose},
		{0.39, BandFar},
		{0, BandFar},
	}
	for _, tt := range tests {
		if got := Classify(tt.sim); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.sim, got, tt.want)
		}
	}
}

func TestBandLabel(t *testing.T) {
	if BandPerfect.Label() != "Perfekt!" || BandFar.Label() != "Långt borta" {
		t.Errorf("unexpected labels: %q %q", BandPerfect.Label(), BandFar.Label())
	}
}
