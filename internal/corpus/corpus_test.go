package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func mustDefault(t *testing.T) *Corpus {
	t.Helper()
	c, err := Default()
	if err != nil {
		t.Fatalf("loading embedded corpus: %v", err)
	}
	return c
}

func TestLookup(t *testing.T) {
	c := mustDefault(t)
	tests := []struct {
		input      string
		want       bool
		normalized string
	}{
		{"hund", true, "hund"},
		{"  HUND ", true, "hund"},
		{"Kärlek", true, "kärlek"},
		{"hamster", false, "hamster"},
		{"qwerty", false, "qwerty"},
		{"", false, ""},
		{"   ", false, ""},
	}
	for _, tt := range tests {
		got := c.Lookup(tt.input)
		if got.InDictionary != tt.want || got.Normalized != tt.normalized {
			t.Errorf("Lookup(%q) = %+v, want {%v %q}", tt.input, got, tt.want, tt.normalized)
		}
	}
}

func TestCategoriesOfDeclarationOrder(t *testing.T) {
	c := mustDefault(t)

	// fisk is declared under mat (livsmedel) before djur.
	got := c.CategoriesOf("fisk")
	if len(got) != 2 {
		t.Fatalf("expected 2 memberships for fisk, got %+v", got)
	}
	if got[0] != (Membership{Category: "mat", Subcategory: "livsmedel"}) {
		t.Errorf("first membership = %+v", got[0])
	}
	if got[1] != (Membership{Category: "djur"}) {
		t.Errorf("second membership = %+v", got[1])
	}

	first, ok := c.FirstMembership("kanin")
	if !ok || first.Category != "djur" || first.Subcategory != "husdjur" {
		t.Errorf("FirstMembership(kanin) = %+v, %v", first, ok)
	}

	if m := c.CategoriesOf("dator"); len(m) != 0 {
		t.Errorf("expected no memberships for dator, got %+v", m)
	}
}

func TestSubcategoryOnlyWordsBelongToCategory(t *testing.T) {
	c := mustDefault(t)
	m, ok := c.FirstMembership("stol")
	if !ok {
		t.Fatal("expected stol to have a membership")
	}
	if m.Category != "kök" || m.Subcategory != "möbler" {
		t.Errorf("FirstMembership(stol) = %+v", m)
	}
}

func TestRelationGraphIsDirected(t *testing.T) {
	g := mustDefault(t).Graph()
	if !g.StronglyRelated("mat", "kök") {
		t.Error("expected mat -> kök strong edge")
	}
	if !g.WeaklyRelated("sport", "känslor") {
		t.Error("expected sport -> känslor weak edge")
	}
	if g.WeaklyRelated("känslor", "sport") {
		t.Error("weak relation must not be mirrored")
	}
	if g.StronglyRelated("sport", "mat") {
		t.Error("absent entries imply no relation")
	}
}

func TestWordsKeepsDuplicatesAndOrder(t *testing.T) {
	c := mustDefault(t)
	if c.Len() <= c.Size() {
		t.Errorf("expected the fixed ordering (%d) to keep duplicates beyond %d distinct words", c.Len(), c.Size())
	}
	if c.At(0) != "solstråle" {
		t.Errorf("At(0) = %q, want solstråle", c.At(0))
	}
	words := c.Words()
	words[0] = "mutated"
	if c.At(0) != "solstråle" {
		t.Error("Words must return a copy")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		wl      WordList
		wantErr bool
	}{
		{"empty", WordList{}, true},
		{"unnamed category", WordList{Words: []string{"a"}, Categories: []Category{{Name: " "}}}, true},
		{"duplicate category", WordList{Words: []string{"a"}, Categories: []Category{{Name: "x"}, {Name: "x"}}}, true},
		{"unknown relation source", WordList{Words: []string{"a"}, StrongRelations: []Relation{{From: "x"}}}, true},
		{"unknown relation target", WordList{
			Words:         []string{"a"},
			Categories:    []Category{{Name: "x"}},
			WeakRelations: []Relation{{From: "x", To: []string{"y"}}},
		}, true},
		{"ok", WordList{Words: []string{"a"}, Categories: []Category{{Name: "x", Words: []string{"a"}}}}, false},
	}
	for _, tt := range tests {
		err := Validate(tt.wl)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	data := `{"words":["Äpple","päron"],"categories":[{"name":"frukt","words":["äpple","päron"],"subCategories":[]}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing corpus: %v", err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.At(0) != "äpple" {
		t.Errorf("expected normalized first word, got %q", c.At(0))
	}
	if !c.Lookup("PÄRON").InDictionary {
		t.Error("expected päron in dictionary")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Parse([]byte("{")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
