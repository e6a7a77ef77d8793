package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dcortezh/propgen/internal/document"
)

// TextParser handles plain text files. Blank lines separate paragraphs;
// each paragraph becomes its own section.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Doc, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc := &document.Doc{
		Title: strings.TrimSuffix(filename, ".txt"),
	}
	for _, para := range paragraphs {
		doc.Sections = append(doc.Sections, &document.Section{Text: para})
	}
	return doc, nil
}
