package corpusmem

import (
	"context"
	"errors"
	"testing"

	"github.com/agrifield/sopadvisor/internal/domain"
)

func mustDoc(t *testing.T, id, text string, meta map[string]string, vec []float32) domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(id, text, meta, vec)
	if err != nil {
		t.Fatalf("NewDocument(%s): %v", id, err)
	}
	return doc
}

func TestInsertAndGet(t *testing.T) {
	repo := New(3)
	ctx := context.Background()

	doc := mustDoc(t, "d1", "aphid control", map[string]string{domain.MetaRegion: "Europe"}, []float32{1, 0, 0})
	id, err := repo.Insert(ctx, doc)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id != "d1" {
		t.Errorf("Insert returned id %q, want d1", id)
	}

	got, err := repo.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "aphid control" {
		t.Errorf("Get text = %q", got.Text)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(0)
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrDocumentNotFound", err)
	}
}

func TestInsert_DimMismatch(t *testing.T) {
	repo := New(3)
	doc := mustDoc(t, "d1", "text", nil, []float32{1, 0})
	_, err := repo.Insert(context.Background(), doc)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("Insert error = %v, want ErrVectorDimMismatch", err)
	}
}

func TestInsert_DuplicateLastWriteWins(t *testing.T) {
	repo := New(0)
	ctx := context.Background()

	first := mustDoc(t, "d1", "old text", nil, []float32{1})
	second := mustDoc(t, "d2", "other", nil, []float32{1})
	replacement := mustDoc(t, "d1", "new text", nil, []float32{1})

	for _, d := range []domain.Document{first, second, replacement} {
		if _, err := repo.Insert(ctx, d); err != nil {
			t.Fatalf("Insert(%s): %v", d.ID, err)
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2 after replacing d1", count)
	}

	got, err := repo.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "new text" {
		t.Errorf("Get text = %q, want new text", got.Text)
	}

	// Replacement keeps insertion position so ordering stays stable.
	docs, err := repo.Scan(ctx, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if docs[0].ID != "d1" || docs[1].ID != "d2" {
		t.Errorf("Scan order = [%s %s], want [d1 d2]", docs[0].ID, docs[1].ID)
	}
}

func TestScan_Filter(t *testing.T) {
	repo := New(0)
	ctx := context.Background()

	docs := []domain.Document{
		mustDoc(t, "eu", "text", map[string]string{domain.MetaRegion: "Europe"}, []float32{1}),
		mustDoc(t, "na", "text", map[string]string{domain.MetaRegion: "North America"}, []float32{1}),
		mustDoc(t, "all", "text", map[string]string{domain.MetaRegion: "All"}, []float32{1}),
	}
	for _, d := range docs {
		if _, err := repo.Insert(ctx, d); err != nil {
			t.Fatalf("Insert(%s): %v", d.ID, err)
		}
	}

	europe, err := repo.Scan(ctx, map[string]string{domain.MetaRegion: "Europe"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(europe) != 1 || europe[0].ID != "eu" {
		t.Errorf("filtered scan = %v, want only eu", ids(europe))
	}

	all, err := repo.Scan(ctx, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unfiltered scan returned %d documents, want 3", len(all))
	}
}

func TestQuery_ScoresAllEligible(t *testing.T) {
	repo := New(2)
	ctx := context.Background()

	near := mustDoc(t, "near", "very close", nil, []float32{1, 0})
	far := mustDoc(t, "far", "orthogonal", nil, []float32{0, 1})
	for _, d := range []domain.Document{near, far} {
		if _, err := repo.Insert(ctx, d); err != nil {
			t.Fatalf("Insert(%s): %v", d.ID, err)
		}
	}

	candidates, err := repo.Query(ctx, []float32{1, 0}, nil, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// Truncation to k belongs to the ranker, not the store.
	if len(candidates) != 2 {
		t.Fatalf("Query returned %d candidates, want 2", len(candidates))
	}
	if candidates[0].Doc.ID != "near" {
		t.Errorf("insertion order broken: first candidate %s", candidates[0].Doc.ID)
	}
	if candidates[0].RawScore <= candidates[1].RawScore {
		t.Errorf("near score %v should exceed far score %v", candidates[0].RawScore, candidates[1].RawScore)
	}
}

func TestQuery_FilterExcludes(t *testing.T) {
	repo := New(0)
	ctx := context.Background()

	eu := mustDoc(t, "eu", "text", map[string]string{domain.MetaRegion: "Europe"}, []float32{1})
	na := mustDoc(t, "na", "text", map[string]string{domain.MetaRegion: "North America"}, []float32{1})
	for _, d := range []domain.Document{eu, na} {
		if _, err := repo.Insert(ctx, d); err != nil {
			t.Fatalf("Insert(%s): %v", d.ID, err)
		}
	}

	candidates, err := repo.Query(ctx, []float32{1}, map[string]string{domain.MetaRegion: "Europe"}, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Doc.ID != "eu" {
		t.Errorf("filtered query returned wrong candidates")
	}
}

func TestQuery_EmptyStore(t *testing.T) {
	repo := New(0)
	candidates, err := repo.Query(context.Background(), []float32{1}, nil, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("empty store returned %d candidates", len(candidates))
	}
}

func TestQuery_DimMismatch(t *testing.T) {
	repo := New(3)
	_, err := repo.Query(context.Background(), []float32{1}, nil, 5)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("Query error = %v, want ErrVectorDimMismatch", err)
	}
}

func TestStrategy(t *testing.T) {
	repo := New(0)
	if repo.Strategy() != domain.StrategyCosine {
		t.Errorf("Strategy = %v, want cosine", repo.Strategy())
	}
}

func ids(docs []domain.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
