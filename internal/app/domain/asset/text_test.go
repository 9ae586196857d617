package asset

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Low-Poly  Knights, knights & UI/UX 2D")
	want := []string{"low", "poly", "knights", "ui", "ux", "2d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if len(Tokenize(" ,;- ")) != 0 {
		t.Fatalf("expected no tokens from punctuation")
	}
}

func TestTokenMatcher(t *testing.T) {
	a := Asset{
		Title:       "Dungeon Tileset",
		Description: "Hand-painted walls and floors",
		Tags:        []string{"pixel-art", "rpg"},
	}
	m := TokenMatcher{}

	cases := map[string]bool{
		"dungeon":        true,
		"FLOORS":         true,
		"pixel":          true,
		"space rpg":      true,
		"spaceship":      false,
		"tile":           false,
		"painted sci-fi": true,
		"!!!":            false,
		"  ...  ":        false,
		"   ":            true,
	}
	for query, want := range cases {
		if got := m.Matches(a, query); got != want {
			t.Errorf("Matches(%q) = %v, want %v", query, got, want)
		}
	}
}

func TestAssetHelpers(t *testing.T) {
	a := Asset{Engine: "Unity", Engines: []string{"Godot"}, Tags: []string{"x"}}
	if !a.SupportsEngine("Unity") || !a.SupportsEngine("Godot") || a.SupportsEngine("Blender") {
		t.Fatalf("unexpected engine support for %#v", a)
	}
	if a.DisplayCategory() != Uncategorized {
		t.Fatalf("empty category should display as %q", Uncategorized)
	}
	if !IsValidCategory("UI/UX") || IsValidCategory("ui/ux") {
		t.Fatalf("category matching must be exact")
	}

	cp := a.Clone()
	cp.Tags[0] = "y"
	if a.Tags[0] != "x" {
		t.Fatalf("clone aliases tags")
	}
}
