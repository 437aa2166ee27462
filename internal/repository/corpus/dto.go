package corpus

import (
	"encoding/binary"
	"math"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Reserved hash field names; everything else is document metadata.
const (
	fieldText   = "__text"
	fieldVector = "__vector"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *domain.Document) map[string]string {
	m := make(map[string]string, 2+len(doc.Metadata))
	m[fieldText] = doc.Text
	m[fieldVector] = vectorToString(doc.Vector)
	for k, v := range doc.Metadata {
		m[k] = v
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
func parseHashFields(id string, m map[string]string) domain.Document {
	doc := domain.Document{ID: id, Metadata: make(map[string]string)}
	for k, v := range m {
		switch k {
		case fieldText:
			doc.Text = v
		case fieldVector:
			doc.Vector = stringToVector(v)
		default:
			doc.Metadata[k] = v
		}
	}
	return doc
}

func vectorToString(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func stringToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
