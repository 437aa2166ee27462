// Package notes is the demo in-memory field-note store. Notes survive only as
// long as the process; production deployments would replace this with a database.
package notes

import (
	"strconv"
	"sync"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Repo stores field notes keyed by incrementing ids.
type Repo struct {
	mu    sync.RWMutex
	notes map[string]domain.FieldNote
	next  int
}

// New creates a note repository.
func New() *Repo {
	return &Repo{notes: make(map[string]domain.FieldNote)}
}

// Create stores a note and assigns it the next id.
func (r *Repo) Create(text string) domain.FieldNote {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	note := domain.FieldNote{ID: strconv.Itoa(r.next), Text: text}
	r.notes[note.ID] = note
	return note
}

// Get returns a note by id.
func (r *Repo) Get(id string) (domain.FieldNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[id]
	if !ok {
		return domain.FieldNote{}, domain.ErrNoteNotFound
	}
	return note, nil
}
