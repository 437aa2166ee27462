package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// --- Mocks ---

type indexedDoc struct {
	id       string
	text     string
	metadata map[string]string
}

type mockIndexer struct {
	count   int
	indexed []indexedDoc
}

func (m *mockIndexer) Index(_ context.Context, id, text string, metadata map[string]string) (string, error) {
	m.indexed = append(m.indexed, indexedDoc{id: id, text: text, metadata: metadata})
	return id, nil
}

func (m *mockIndexer) Count(_ context.Context) (int, error) {
	return m.count, nil
}

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
}

// --- Tests ---

func TestRun_IndexesDocuments(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "sops.json", `{
		"documents": [
			{"id": "sop-1", "text": "aphid control", "title": "Aphids", "region": "Europe", "domain": "arable", "category": "pest"},
			{"id": "sop-2", "text": "irrigation", "title": "Drip"}
		]
	}`)

	idx := &mockIndexer{}
	if err := Run(context.Background(), dir, idx, zap.NewNop()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(idx.indexed) != 2 {
		t.Fatalf("indexed %d documents, want 2", len(idx.indexed))
	}

	first := idx.indexed[0]
	if first.metadata[domain.MetaRegion] != "Europe" {
		t.Errorf("region = %q", first.metadata[domain.MetaRegion])
	}
	if first.metadata[domain.MetaSource] != "sops.json" {
		t.Errorf("source = %q", first.metadata[domain.MetaSource])
	}

	// Missing region defaults to the wildcard.
	second := idx.indexed[1]
	if second.metadata[domain.MetaRegion] != domain.RegionAll {
		t.Errorf("defaulted region = %q, want %q", second.metadata[domain.MetaRegion], domain.RegionAll)
	}
}

func TestRun_SkipsPopulatedStore(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "sops.json", `{"documents": [{"id": "sop-1", "text": "t"}]}`)

	idx := &mockIndexer{count: 5}
	if err := Run(context.Background(), dir, idx, zap.NewNop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(idx.indexed) != 0 {
		t.Errorf("populated store was re-seeded: %d documents", len(idx.indexed))
	}
}

func TestRun_SkipsBrokenFileAndRecords(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "broken.json", `{not valid json`)
	writeSeedFile(t, dir, "mixed.json", `{
		"documents": [
			{"id": "", "text": "missing id"},
			{"id": "no-text"},
			{"id": "ok", "text": "valid record"}
		]
	}`)

	idx := &mockIndexer{}
	if err := Run(context.Background(), dir, idx, zap.NewNop()); err != nil {
		t.Fatalf("Run must not fail on broken inputs: %v", err)
	}
	if len(idx.indexed) != 1 || idx.indexed[0].id != "ok" {
		t.Errorf("indexed = %+v, want only the valid record", idx.indexed)
	}
}

func TestRun_EmptyDir(t *testing.T) {
	idx := &mockIndexer{}
	if err := Run(context.Background(), t.TempDir(), idx, zap.NewNop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(idx.indexed) != 0 {
		t.Errorf("indexed %d documents from an empty dir", len(idx.indexed))
	}
}
