// Package document defines the parsed representation of a knowledge-base
// source document and the chunks derived from it.
package document

// Doc is the root of a parsed source document.
type Doc struct {
	Title    string     // From metadata or filename.
	Sections []*Section // Top-level sections.
}

// Section is a recursive part of a document.
type Section struct {
	Title    string     // Heading text (empty for bare text sections).
	Text     string     // Body text (may be empty for container sections).
	Page     int        // Source page, 0 if not applicable.
	Children []*Section
}

// Chunk is a sized text segment with enough structural context to be
// stored and retrieved on its own.
type Chunk struct {
	Text       string
	Index      int      // Sequence number within the document.
	Breadcrumb []string // Heading path, e.g. ["Servicios", "Marketing digital"].
	PageStart  int
	PageEnd    int
}
