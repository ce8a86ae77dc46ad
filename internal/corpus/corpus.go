// Package corpus holds the static Swedish dictionary, its category taxonomy and the
// directed relation graph between categories. A Corpus is built once at startup and
// is safe for concurrent reads afterwards.
package corpus

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
)

//go:embed data/swedish.json
var embeddedSwedish []byte

// SubCategory is a named, fine-grained word group inside a Category.
type SubCategory struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// Category is a coarse semantic group. Subcategories are kept in declaration order.
type Category struct {
	Name          string        `json:"name"`
	Words         []string      `json:"words"`
	SubCategories []SubCategory `json:"subCategories"`
}

// Relation lists the categories a category relates to, in one direction only.
type Relation struct {
	From string   `json:"from"`
	To   []string `json:"to"`
}

// WordList is the on-disk representation of a corpus. Arrays are used throughout so
// that declaration order survives decoding.
type WordList struct {
	Words           []string   `json:"words"`
	Categories      []Category `json:"categories"`
	StrongRelations []Relation `json:"strongRelations"`
	WeakRelations   []Relation `json:"weakRelations"`
}

// RelationGraph holds the sparse, asymmetric strong and weak adjacency maps.
type RelationGraph struct {
	Strong map[string][]string
	Weak   map[string][]string
}

// StronglyRelated reports whether from has a strong edge to to.
func (g RelationGraph) StronglyRelated(from, to string) bool {
	return lo.Contains(g.Strong[from], to)
}

// WeaklyRelated reports whether from has a weak edge to to.
func (g RelationGraph) WeaklyRelated(from, to string) bool {
	return lo.Contains(g.Weak[from], to)
}

// Membership is one (category, subcategory) pair a word belongs to.
// Subcategory is empty when the word is only in the category's own list.
type Membership struct {
	Category    string
	Subcategory string
}

// LookupResult reports whether a normalized word is in the dictionary.
type LookupResult struct {
	InDictionary bool
	Normalized   string
}

// Corpus is the read-only dictionary and taxonomy.
type Corpus struct {
	words      []string
	dictionary map[string]struct{}
	categories []Category
	members    map[string][]Membership
	graph      RelationGraph
}

// Default returns the embedded Swedish corpus.
func Default() (*Corpus, error) {
	return Parse(embeddedSwedish)
}

// LoadFile reads a corpus from a JSON file on disk.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON word list.
func Parse(data []byte) (*Corpus, error) {
	var wl WordList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("decoding corpus: %w", err)
	}
	return New(wl)
}

// New builds a Corpus from an in-memory word list. Words are normalized, but the
// dictionary order (duplicates included) is preserved because the daily selector
// indexes into it.
func New(wl WordList) (*Corpus, error) {
	if err := Validate(wl); err != nil {
		return nil, err
	}

	c := &Corpus{
		words:      lo.Map(wl.Words, func(w string, _ int) string { return Normalize(w) }),
		categories: wl.Categories,
		members:    make(map[string][]Membership),
		graph: RelationGraph{
			Strong: relationMap(wl.StrongRelations),
			Weak:   relationMap(wl.WeakRelations),
		},
	}
	c.dictionary = make(map[string]struct{}, len(c.words))
	lo.ForEach(c.words, func(w string, _ int) {
		c.dictionary[w] = struct{}{}
	})

	for _, cat := range wl.Categories {
		seen := make(map[string]struct{})
		add := func(word, sub string) {
			word = Normalize(word)
			if _, ok := seen[word]; ok {
				return
			}
			seen[word] = struct{}{}
			c.members[word] = append(c.members[word], Membership{Category: cat.Name, Subcategory: sub})
		}
		// The category's own list first, each word tagged with its first declared subcategory.
		for _, w := range cat.Words {
			add(w, firstSubCategory(cat, w))
		}
		for _, sub := range cat.SubCategories {
			for _, w := range sub.Words {
				add(w, sub.Name)
			}
		}
	}
	return c, nil
}

// Validate checks the structural rules a word list must satisfy.
func Validate(wl WordList) error {
	if len(wl.Words) == 0 {
		return errors.New("corpus has no words")
	}
	names := make(map[string]struct{}, len(wl.Categories))
	for i, cat := range wl.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("category %d has no name", i)
		}
		if _, dup := names[cat.Name]; dup {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		names[cat.Name] = struct{}{}
	}
	for _, rel := range append(append([]Relation{}, wl.StrongRelations...), wl.WeakRelations...) {
		if _, ok := names[rel.From]; !ok {
			return fmt.Errorf("relation from unknown category %q", rel.From)
		}
		for _, to := range rel.To {
			if _, ok := names[to]; !ok {
				return fmt.Errorf("relation %q -> unknown category %q", rel.From, to)
			}
		}
	}
	return nil
}

// Normalize lower-cases and trims a word.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Lookup reports whether the word is in the dictionary. It never fails.
func (c *Corpus) Lookup(word string) LookupResult {
	n := Normalize(word)
	_, ok := c.dictionary[n]
	return LookupResult{InDictionary: ok && n != "", Normalized: n}
}

// CategoriesOf returns every membership of word in taxonomy declaration order.
func (c *Corpus) CategoriesOf(word string) []Membership {
	return c.members[Normalize(word)]
}

// FirstMembership returns the first declared membership of word, if any.
func (c *Corpus) FirstMembership(word string) (Membership, bool) {
	m := c.CategoriesOf(word)
	if len(m) == 0 {
		return Membership{}, false
	}
	return m[0], true
}

// Graph returns the category relation graph.
func (c *Corpus) Graph() RelationGraph { return c.graph }

// Categories returns the taxonomy in declaration order.
func (c *Corpus) Categories() []Category { return c.categories }

// Len is the length of the fixed dictionary ordering.
func (c *Corpus) Len() int { return len(c.words) }

// At returns the i-th word of the fixed dictionary ordering.
func (c *Corpus) At(i int) string { return c.words[i] }

// Words returns a copy of the fixed dictionary ordering.
func (c *Corpus) Words() []string {
	return append([]string(nil), c.words...)
}

// Size is the number of distinct dictionary words.
func (c *Corpus) Size() int { return len(c.dictionary) }

func firstSubCategory(cat Category, word string) string {
	word = Normalize(word)
	sub, ok := lo.Find(cat.SubCategories, func(s SubCategory) bool {
		return lo.ContainsBy(s.Words, func(w string) bool { return Normalize(w) == word })
	})
	if !ok {
		return ""
	}
	return sub.Name
}

func relationMap(rels []Relation) map[string][]string {
	m := make(map[string][]string, len(rels))
	for _, r := range rels {
		m[r.From] = append(m[r.From], r.To...)
	}
	return m
}
