// Package formatter converts the constrained plain-text proposal format
// produced by the model into HTML blocks: headings, paragraphs, and
// nested lists.
package formatter

import (
	"regexp"
	"strings"
)

// Textual conventions the generator is instructed to follow.
const (
	// TitlePrefix marks the single top-level title line of a proposal.
	TitlePrefix = "Propuesta de Crecimiento"

	// strategyMarker introduces a strategy heading, e.g.
	// "- Estrategia 1: Presencia digital".
	strategyMarker = "- Estrategia"

	bulletMarker = "- "
)

var (
	// Numbered section headings: "1. Descripción General".
	sectionRe = regexp.MustCompile(`^\d+\. `)

	// Activity bullets get their label emphasized:
	// "Actividad 2: Lanzar campaña" -> "<strong>Actividad 2:</strong> ...".
	activityRe = regexp.MustCompile(`^(Actividad \d+:)\s*(.*)$`)
)

// Format renders proposal text as an HTML fragment. It is a total
// function: any line that matches no structural convention becomes a
// paragraph, blank lines are dropped, and every list or item opened is
// closed exactly once, in LIFO order, by end of input.
func Format(text string) string {
	f := &renderer{}

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, TitlePrefix):
			// A new document root: any open list context ends here.
			f.closeAll()
			f.emit("<h1>" + trimmed + "</h1>")

		case sectionRe.MatchString(trimmed):
			f.closeAll()
			f.emit("<h2>" + trimmed + "</h2>")

		case strings.HasPrefix(trimmed, strategyMarker):
			f.closeAll()
			f.emit("<h3>" + strategyTitle(trimmed) + "</h3>")

		case strings.HasPrefix(trimmed, bulletMarker):
			f.item(raw, trimmed)

		default:
			f.closeAll()
			f.emit("<p>" + trimmed + "</p>")
		}
	}

	f.closeAll()
	return f.out.String()
}

// renderer holds the output buffer and the stack of open list contexts.
// lists[i] records whether the <ul> at depth i+1 has an item still open;
// rootItem tracks a deferred item outside any list (nesting level zero).
type renderer struct {
	out      strings.Builder
	lists    []bool
	rootItem bool
}

func (f *renderer) emit(s string) {
	f.out.WriteString(s)
}

// item handles a bullet line: computes its nesting level from the extra
// indentation beyond the dash position (two spaces per level), reconciles
// the stack to that level, and opens the item. Closing is deferred to the
// next structural event.
func (f *renderer) item(raw, trimmed string) {
	content := strings.TrimPrefix(trimmed, bulletMarker)
	if m := activityRe.FindStringSubmatch(content); m != nil {
		content = "<strong>" + m[1] + "</strong>"
		if m[2] != "" {
			content += " " + m[2]
		}
	}

	indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
	level := (indent - strings.Index(trimmed, "-")) / 2
	if level < 0 {
		level = 0
	}

	for len(f.lists) > level {
		f.closeTop()
	}
	for len(f.lists) < level {
		f.emit("<ul>")
		f.lists = append(f.lists, false)
	}

	if level == 0 {
		if f.rootItem {
			f.emit("</li>")
		}
		f.emit("<li>" + content)
		f.rootItem = true
		return
	}
	if f.lists[level-1] {
		f.emit("</li>")
	}
	f.emit("<li>" + content)
	f.lists[level-1] = true
}

// closeTop closes the innermost open list, finishing its open item first.
func (f *renderer) closeTop() {
	if f.lists[len(f.lists)-1] {
		f.emit("</li>")
	}
	f.emit("</ul>")
	f.lists = f.lists[:len(f.lists)-1]
}

// closeAll unwinds every open list context, innermost first.
func (f *renderer) closeAll() {
	for len(f.lists) > 0 {
		f.closeTop()
	}
	if f.rootItem {
		f.emit("</li>")
		f.rootItem = false
	}
}

// strategyTitle extracts the heading text from a strategy line. The text
// after the first ": " is the heading; a line without one falls back to
// whatever follows the marker.
func strategyTitle(trimmed string) string {
	if i := strings.Index(trimmed, ": "); i >= 0 {
		return trimmed[i+2:]
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, strategyMarker))
}
