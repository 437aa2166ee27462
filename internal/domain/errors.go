package domain

import "errors"

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoteNotFound signals a missing field note.
	ErrNoteNotFound = errors.New("note not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch within one store.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrModelProviderError signals a chat-completion provider failure.
	ErrModelProviderError = errors.New("model provider error")
)
