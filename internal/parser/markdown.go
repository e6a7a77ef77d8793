package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dcortezh/propgen/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Doc, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	title := strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown")
	b := newSectionBuilder(title)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.Heading(h.Level, string(h.Text(src)))
			continue
		}
		b.Text(markdownText(n, src))
	}

	return &document.Doc{Title: title, Sections: b.Sections()}, nil
}

// markdownText collects the plain text of a non-heading goldmark node.
// Blocks with source lines report those directly; container blocks (lists,
// quotes) recurse into their children.
func markdownText(n ast.Node, src []byte) string {
	if t, ok := n.(*ast.Text); ok {
		return string(t.Value(src))
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			var buf bytes.Buffer
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				buf.Write(line.Value(src))
			}
			return strings.TrimSpace(buf.String())
		}
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := markdownText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
