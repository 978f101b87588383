// Package corpus holds the page-numbered document text that sections are
// detected in and ranked from.
package corpus

import "fmt"

// Page is the extracted text of one physical page.
type Page struct {
	Number int    // 1-based physical page number
	Text   string // Raw text as produced by the extractor
}

// Document is an ordered sequence of pages from one input file.
type Document struct {
	ID    string // Document identifier (usually the filename)
	Pages []Page // Insertion order = page order
}

// Corpus maps document identifiers to documents, preserving insertion order.
// It is built once per run and treated as read-only afterwards.
type Corpus struct {
	order []string
	docs  map[string]*Document
}

func New() *Corpus {
	return &Corpus{docs: make(map[string]*Document)}
}

// Add appends a document. Adding an existing ID replaces its pages but keeps
// its original position.
func (c *Corpus) Add(id string, pages []Page) {
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = &Document{ID: id, Pages: pages}
}

// AddText is a convenience for building a corpus from raw page strings; page
// numbers start at 1.
func (c *Corpus) AddText(id string, pages ...string) {
	out := make([]Page, len(pages))
	for i, t := range pages {
		out[i] = Page{Number: i + 1, Text: t}
	}
	c.Add(id, out)
}

// IDs returns document identifiers in insertion order.
func (c *Corpus) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Documents returns documents in insertion order.
func (c *Corpus) Documents() []*Document {
	out := make([]*Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.docs[id])
	}
	return out
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.order) }

// Lookup returns the text of the given document page.
func (c *Corpus) Lookup(id string, page int) (string, error) {
	doc, ok := c.docs[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrDocumentNotFound, id)
	}
	for _, p := range doc.Pages {
		if p.Number == page {
			return p.Text, nil
		}
	}
	return "", fmt.Errorf("%w: %q page %d", ErrPageNotFound, id, page)
}
