package chunker

import (
	"strings"
	"testing"

	"github.com/dcortezh/propgen/internal/document"
)

func TestSplit_SmallSectionFitsOneChunk(t *testing.T) {
	doc := &document.Doc{
		Title: "Pequeño",
		Sections: []*document.Section{
			{
				Title: "Sección",
				Text:  strings.Repeat("palabra ", 200),
			},
		},
	}

	chunks := Split(doc, Config{Size: 1500, Overlap: 200, Min: 50})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if !strings.Contains(chunks[0].Text, "palabra") {
		t.Errorf("unexpected chunk text %q", chunks[0].Text)
	}
}

func TestSplit_LargeSectionIsSplit(t *testing.T) {
	largeText := strings.Repeat("El rápido zorro marrón salta sobre el perro perezoso. ", 300)
	doc := &document.Doc{
		Title: "Grande",
		Sections: []*document.Section{
			{Title: "Sección grande", Text: largeText},
		},
	}

	cfg := Config{Size: 500, Overlap: 50, Min: 10}
	chunks := Split(doc, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		// Sentence boundaries allow slight overflow, but never 2x.
		if tokens := EstimateTokens(c.Text); tokens > cfg.Size*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.Size)
		}
	}
}

func TestSplit_BreadcrumbPropagation(t *testing.T) {
	doc := &document.Doc{
		Title: "Doc",
		Sections: []*document.Section{
			{
				Title: "Servicios",
				Children: []*document.Section{
					{
						Title: "Marketing digital",
						Text:  strings.Repeat("contenido ", 200),
					},
				},
			},
		},
	}

	chunks := Split(doc, Config{Size: 2000, Overlap: 100, Min: 50})
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	want := []string{"Servicios", "Marketing digital"}
	got := chunks[0].Breadcrumb
	if len(got) != len(want) {
		t.Fatalf("expected breadcrumb %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("breadcrumb[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplit_TinySectionsDropped(t *testing.T) {
	doc := &document.Doc{
		Sections: []*document.Section{
			{Text: "corto"},
			{Text: strings.Repeat("suficiente ", 100)},
		},
	}
	chunks := Split(doc, Config{Size: 1000, Overlap: 100, Min: 50})
	if len(chunks) != 1 {
		t.Fatalf("expected tiny section dropped, got %d chunks", len(chunks))
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text: expected 0, got %d", got)
	}
	if got := EstimateTokens("x"); got < 1 {
		t.Errorf("single word: expected at least 1, got %d", got)
	}
	hundred := strings.Repeat("palabra ", 100)
	got := EstimateTokens(hundred)
	if got < 100 || got > 150 {
		t.Errorf("100 words: expected ~133 tokens, got %d", got)
	}
}
