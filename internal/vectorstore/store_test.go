package vectorstore

import (
	"strings"
	"testing"
)

func TestContextTexts_PrefixesSource(t *testing.T) {
	snippets := []Snippet{
		{Text: "Pan artesanal.", Title: "catalogo", Breadcrumb: "Productos > Panadería"},
		{Text: "Sin metadatos."},
	}
	texts := ContextTexts(snippets)
	if len(texts) != 2 {
		t.Fatalf("expected 2 texts, got %d", len(texts))
	}
	if !strings.HasPrefix(texts[0], "[catalogo > Productos > Panadería]\n") {
		t.Errorf("expected source prefix, got %q", texts[0])
	}
	if !strings.Contains(texts[0], "Pan artesanal.") {
		t.Errorf("expected snippet text, got %q", texts[0])
	}
	if texts[1] != "Sin metadatos." {
		t.Errorf("expected bare text without prefix, got %q", texts[1])
	}
}

func TestContextTexts_Empty(t *testing.T) {
	if texts := ContextTexts(nil); len(texts) != 0 {
		t.Fatalf("expected no texts, got %d", len(texts))
	}
}
