package parser

import (
	"strings"
	"testing"
)

func TestTextParser_ParagraphSplitting(t *testing.T) {
	input := "Primer párrafo línea uno.\nPrimer párrafo línea dos.\n\nSegundo párrafo.\n\nTercero."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "servicios.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "servicios" {
		t.Errorf("expected title %q, got %q", "servicios", doc.Title)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}

	want := []string{
		"Primer párrafo línea uno.\nPrimer párrafo línea dos.",
		"Segundo párrafo.",
		"Tercero.",
	}
	for i, w := range want {
		if doc.Sections[i].Text != w {
			t.Errorf("section[%d]: expected %q, got %q", i, w, doc.Sections[i].Text)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected 0 sections for empty input, got %d", len(doc.Sections))
	}
}

func TestTextParser_WhitespaceOnlyLinesAreBlank(t *testing.T) {
	input := "Uno.\n   \nDos.\n\n\n\nTres."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
}
