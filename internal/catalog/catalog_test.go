package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWords(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write words file: %v", err)
	}

	return path
}

func TestLoad(t *testing.T) {
	path := writeWords(t, `{
		"categories": [
			{"name": "Food", "words": [
				{"secret": "Pizza", "impostor": "Lasagna"},
				{"secret": "Sushi", "impostor": "Sashimi"}
			]},
			{"name": "Animals", "words": [
				{"secret": "Lion", "impostor": "Tiger"}
			]}
		]
	}`)

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load should succeed, got: %v", err)
	}

	if len(cat.Categories) != 2 {
		t.Fatalf("want 2 categories, got %d", len(cat.Categories))
	}

	if cat.Categories[0].Words[0].Secret != "Pizza" {
		t.Fatalf("unexpected secret word: %q", cat.Categories[0].Words[0].Secret)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("load of missing file should fail")
	}
}

func TestLoad_EmptyCatalog(t *testing.T) {
	path := writeWords(t, `{"categories": []}`)

	if _, err := Load(path); err == nil {
		t.Fatalf("empty catalog should be rejected")
	}
}

func TestLoad_CategoryWithoutWords(t *testing.T) {
	path := writeWords(t, `{"categories": [{"name": "Food", "words": []}]}`)

	if _, err := Load(path); err == nil {
		t.Fatalf("category without word pairs should be rejected")
	}
}

func TestRandomPair_StaysInCatalog(t *testing.T) {
	cat := &Catalog{
		Categories: []Category{
			{Name: "Food", Words: []WordPair{
				{Secret: "Pizza", Impostor: "Lasagna"},
				{Secret: "Sushi", Impostor: "Sashimi"},
			}},
			{Name: "Animals", Words: []WordPair{
				{Secret: "Lion", Impostor: "Tiger"},
			}},
		},
	}

	known := map[string]string{
		"Pizza": "Lasagna",
		"Sushi": "Sashimi",
		"Lion":  "Tiger",
	}

	for range 50 {
		name, pair := cat.RandomPair()

		if name != "Food" && name != "Animals" {
			t.Fatalf("unknown category: %q", name)
		}

		impostor, ok := known[pair.Secret]
		if !ok {
			t.Fatalf("unknown secret word: %q", pair.Secret)
		}

		if pair.Impostor != impostor {
			t.Fatalf("pair mismatch: %q/%q", pair.Secret, pair.Impostor)
		}
	}
}
