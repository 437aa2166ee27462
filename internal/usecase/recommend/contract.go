package recommend

import (
	"context"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// DocumentReader resolves grounding documents by id.
type DocumentReader interface {
	Get(ctx context.Context, id string) (domain.Document, error)
}

// ChatCompleter invokes the language model. A nil ChatCompleter in the service
// means no credentials are configured (fallback-only operating mode).
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
