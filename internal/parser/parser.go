// Package parser turns raw knowledge-base files into document trees.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dcortezh/propgen/internal/document"
)

// Parser converts raw file bytes into a document.Doc.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Doc, error)
}

// SupportedExtensions lists the file types the knowledge base accepts.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks whether a filename can be parsed.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// sectionBuilder assembles a section tree from a stream of headings and
// text blocks. Headings nest by level; text accumulates on the most
// recently opened section.
type sectionBuilder struct {
	root  *document.Section
	stack []builderEntry
	text  strings.Builder
}

type builderEntry struct {
	section *document.Section
	level   int
}

func newSectionBuilder(title string) *sectionBuilder {
	root := &document.Section{Title: title}
	return &sectionBuilder{
		root:  root,
		stack: []builderEntry{{section: root, level: 0}},
	}
}

// Heading flushes pending text and opens a section at the given level.
func (b *sectionBuilder) Heading(level int, title string) {
	b.flush()
	section := &document.Section{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].section
	parent.Children = append(parent.Children, section)
	b.stack = append(b.stack, builderEntry{section: section, level: level})
}

// Text accumulates a block of body text under the current section.
func (b *sectionBuilder) Text(t string) {
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *sectionBuilder) flush() {
	t := strings.TrimSpace(b.text.String())
	if t != "" {
		top := b.stack[len(b.stack)-1].section
		if top.Text != "" {
			top.Text += "\n\n" + t
		} else {
			top.Text = t
		}
	}
	b.text.Reset()
}

// Sections flushes pending text and returns the assembled tree. A
// document with no headings collapses into a single text section.
func (b *sectionBuilder) Sections() []*document.Section {
	b.flush()
	if len(b.root.Children) == 0 && b.root.Text != "" {
		return []*document.Section{{Text: b.root.Text}}
	}
	return b.root.Children
}
