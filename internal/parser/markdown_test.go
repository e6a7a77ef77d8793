package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Servicios

Texto introductorio.

## Marketing digital

Contenido de marketing.

### Redes sociales

Contenido de redes.

## Consultoría

Contenido de consultoría.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "servicios.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "servicios" {
		t.Errorf("expected title %q, got %q", "servicios", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 top-level section (h1), got %d", len(doc.Sections))
	}

	h1 := doc.Sections[0]
	if h1.Title != "Servicios" {
		t.Errorf("expected h1 title %q, got %q", "Servicios", h1.Title)
	}
	if !strings.Contains(h1.Text, "Texto introductorio.") {
		t.Errorf("expected h1 text to contain intro, got %q", h1.Text)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}

	mkt := h1.Children[0]
	if mkt.Title != "Marketing digital" {
		t.Errorf("expected %q, got %q", "Marketing digital", mkt.Title)
	}
	if !strings.Contains(mkt.Text, "Contenido de marketing.") {
		t.Errorf("expected marketing text, got %q", mkt.Text)
	}
	if len(mkt.Children) != 1 || mkt.Children[0].Title != "Redes sociales" {
		t.Fatalf("expected one h3 child %q, got %+v", "Redes sociales", mkt.Children)
	}

	if h1.Children[1].Title != "Consultoría" {
		t.Errorf("expected %q, got %q", "Consultoría", h1.Children[1].Title)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Texto plano sin encabezados.\n\nOtro párrafo."
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 collapsed section, got %d", len(doc.Sections))
	}
	if !strings.Contains(doc.Sections[0].Text, "Texto plano sin encabezados.") {
		t.Errorf("expected collapsed text, got %q", doc.Sections[0].Text)
	}
}

func TestMarkdownParser_MultilineParagraph(t *testing.T) {
	input := "# Nota\n\nPrimera línea del párrafo\nsegunda línea del mismo párrafo\ntercera línea.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "nota.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(doc.Sections))
	}
	text := doc.Sections[0].Text
	for _, want := range []string{"Primera línea", "segunda línea", "tercera línea."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected text to contain %q, got %q", want, text)
		}
	}
}

func TestMarkdownParser_SkippedHeadingLevels(t *testing.T) {
	input := "# Uno\n\n### Salto\n\nContenido.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "salto.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(doc.Sections))
	}
	h1 := doc.Sections[0]
	if len(h1.Children) != 1 || h1.Children[0].Title != "Salto" {
		t.Fatalf("expected h3 nested under h1, got %+v", h1.Children)
	}
}

func TestHTMLParser_HeadingsAndText(t *testing.T) {
	input := `<html><head><title>Catálogo</title></head><body>
<h1>Productos</h1>
<p>Texto general.</p>
<h2>Panadería</h2>
<p>Pan artesanal.</p>
<script>ignored()</script>
</body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "catalogo.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Catálogo" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 top-level section, got %d", len(doc.Sections))
	}
	h1 := doc.Sections[0]
	if h1.Title != "Productos" || !strings.Contains(h1.Text, "Texto general.") {
		t.Errorf("unexpected h1 section: %+v", h1)
	}
	if len(h1.Children) != 1 || h1.Children[0].Title != "Panadería" {
		t.Fatalf("expected h2 child, got %+v", h1.Children)
	}
	if strings.Contains(h1.Text+h1.Children[0].Text, "ignored") {
		t.Errorf("script content leaked into text")
	}
}

func TestCSVParser_RowBatches(t *testing.T) {
	input := "producto,precio\npan,2\ncafé,3\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "precios.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 batch section, got %d", len(doc.Sections))
	}
	text := doc.Sections[0].Text
	for _, want := range []string{"Headers: producto, precio", "producto: pan", "precio: 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected text to contain %q, got %q", want, text)
		}
	}
}

func TestForFile_Dispatch(t *testing.T) {
	for _, name := range []string{"a.txt", "b.md", "c.csv", "d.html", "e.pdf", "f.docx"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("ForFile(%q): unexpected error: %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}
	if _, err := ForFile("x.exe"); err == nil {
		t.Errorf("expected error for unsupported extension")
	}
	if IsSupportedExtension("x.exe") {
		t.Errorf("IsSupportedExtension(.exe) = true")
	}
}
