// Package corpus is the Redis-backed document store. Documents live as hashes
// under <prefix>doc:<id> with an FT HNSW vector index; similarity scores are
// derived from the index's cosine distance (distance scoring strategy).
package corpus

import (
	"context"
	"fmt"

	"github.com/agrifield/sopadvisor/internal/db"
	"github.com/agrifield/sopadvisor/internal/domain"
)

// store is the consumer interface for the corpus repository (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, filter map[string]string) (int, error)
	Ping(ctx context.Context) error
}

// scanPageSize bounds one FT.SEARCH page during full-corpus scans.
const scanPageSize = 200

// Repo implements the document store contract on a Redis vector index.
type Repo struct {
	store  store
	prefix string
	dim    int
}

// New creates a Redis-backed corpus repository.
func New(s store, keyPrefix string, dim int) *Repo {
	return &Repo{store: s, prefix: keyPrefix, dim: dim}
}

// Strategy declares how this backend scores candidates.
func (r *Repo) Strategy() domain.ScoringStrategy {
	return domain.StrategyDistance
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.docPrefix()},
		Fields: []db.IndexField{
			{Name: fieldText, Type: db.IndexFieldText},
			{Name: domain.MetaTitle, Type: db.IndexFieldTag, TagCaseSensitive: true},
			{Name: domain.MetaRegion, Type: db.IndexFieldTag, TagCaseSensitive: true},
			{Name: domain.MetaDomain, Type: db.IndexFieldTag, TagCaseSensitive: true},
			{Name: domain.MetaCategory, Type: db.IndexFieldTag, TagCaseSensitive: true},
			{Name: domain.MetaSource, Type: db.IndexFieldTag, TagCaseSensitive: true},
			{
				Name:           fieldVector,
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDim:      r.dim,
				VectorDistance: db.DistanceCosine,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Insert stores a document. Duplicate ids are last-write-wins: the old hash is
// deleted first so stale metadata fields cannot survive the overwrite.
func (r *Repo) Insert(ctx context.Context, doc domain.Document) (string, error) {
	if r.dim > 0 && len(doc.Vector) != r.dim {
		return "", fmt.Errorf(
			"document %s: got %d dimensions, want %d: %w",
			doc.ID, len(doc.Vector), r.dim, domain.ErrVectorDimMismatch,
		)
	}

	key := r.docKey(doc.ID)
	if err := r.store.Del(ctx, key); err != nil {
		return "", fmt.Errorf("del %s: %w", key, err)
	}
	if err := r.store.HSet(ctx, key, buildHashFields(&doc)); err != nil {
		return "", fmt.Errorf("hset %s: %w", key, err)
	}
	return doc.ID, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Document, error) {
	m, err := r.store.HGetAll(ctx, r.docKey(id))
	if err != nil {
		return domain.Document{}, fmt.Errorf("hgetall %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return parseHashFields(id, m), nil
}

// Scan returns all documents matching the filter, paging through the index.
func (r *Repo) Scan(ctx context.Context, filter map[string]string) ([]domain.Document, error) {
	var docs []domain.Document
	offset := 0

	for {
		sr, err := r.store.SearchList(ctx, &db.ListQuery{
			IndexName: r.indexName(),
			Filter:    filter,
			Offset:    offset,
			Limit:     scanPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("search list: %w", err)
		}
		if sr == nil || len(sr.Entries) == 0 {
			break
		}

		for _, entry := range sr.Entries {
			docs = append(docs, parseHashFields(r.docID(entry.Key), entry.Fields))
		}

		offset += len(sr.Entries)
		if offset >= sr.Total {
			break
		}
	}

	return docs, nil
}

// Count returns the number of documents in the store.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), nil)
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

// Query returns the top-k candidates for the vector under the filter, ranked by
// the index. RawScore = 100 - distance*100, unclamped.
func (r *Repo) Query(
	ctx context.Context, vector []float32, filter map[string]string, k int,
) ([]domain.Candidate, error) {
	if r.dim > 0 && len(vector) != r.dim {
		return nil, fmt.Errorf(
			"query vector: got %d dimensions, want %d: %w",
			len(vector), r.dim, domain.ErrVectorDimMismatch,
		)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: r.indexName(),
		Filter:    filter,
		Vector:    vector,
		K:         k,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	candidates := make([]domain.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		candidates = append(candidates, domain.Candidate{
			Doc:      parseHashFields(r.docID(entry.Key), entry.Fields),
			RawScore: domain.DistanceScore(entry.Distance),
		})
	}
	return candidates, nil
}

// Ping checks store availability for health reporting.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repo) indexName() string {
	return r.prefix + "doc:idx"
}

func (r *Repo) docPrefix() string {
	return r.prefix + "doc:"
}

func (r *Repo) docKey(id string) string {
	return r.docPrefix() + id
}

func (r *Repo) docID(key string) string {
	if len(key) > len(r.docPrefix()) {
		return key[len(r.docPrefix()):]
	}
	return key
}
