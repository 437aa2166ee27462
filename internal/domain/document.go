package domain

import "fmt"

// Well-known metadata keys populated by the seed loader.
const (
	MetaTitle    = "title"
	MetaRegion   = "region"
	MetaDomain   = "domain"
	MetaCategory = "category"
	MetaSource   = "source"
)

// RegionAll is the wildcard region value. The transport layer maps it to "no filter".
const RegionAll = "All"

// Document is an indexed SOP document. Immutable after indexing; owned by the store.
type Document struct {
	ID       string
	Text     string
	Metadata map[string]string
	Vector   []float32
}

// NewDocument validates and creates a Document. The metadata map is copied so the
// caller cannot mutate the stored document afterwards.
func NewDocument(id, text string, metadata map[string]string, vector []float32) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if text == "" {
		return Document{}, fmt.Errorf("document text is required")
	}
	return Document{
		ID:       id,
		Text:     text,
		Metadata: cloneMetadata(metadata),
		Vector:   vector,
	}, nil
}

// MatchesFilter reports whether the document metadata satisfies the filter:
// every filter key must be present with an exactly equal value (case-sensitive).
// A nil or empty filter matches everything.
func (d *Document) MatchesFilter(filter map[string]string) bool {
	for k, v := range filter {
		if d.Metadata[k] != v {
			return false
		}
	}
	return true
}

// Title returns the title metadata or a placeholder when absent.
func (d *Document) Title() string {
	if t := d.Metadata[MetaTitle]; t != "" {
		return t
	}
	return "Unknown Title"
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
