// Package seed loads SOP documents from JSON files into the store at startup.
// Loading is best-effort: a broken file or record is skipped and logged, never
// fatal. Seeding only runs against an empty store, so restarts are idempotent.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/domain"
)

// Indexer is the consumer contract for seeding.
type Indexer interface {
	Index(ctx context.Context, id, text string, metadata map[string]string) (string, error)
	Count(ctx context.Context) (int, error)
}

type seedFile struct {
	Documents []seedDocument `json:"documents"`
}

type seedDocument struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Title    string `json:"title"`
	Region   string `json:"region"`
	Domain   string `json:"domain"`
	Category string `json:"category"`
}

// Run seeds the store from dir/*.json when the store is empty.
func Run(ctx context.Context, dir string, idx Indexer, logger *zap.Logger) error {
	count, err := idx.Count(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		logger.Info("Store already populated, skipping seed", zap.Int("documents", count))
		return nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("glob seed files: %w", err)
	}

	var indexed int
	for _, path := range files {
		indexed += loadFile(ctx, path, idx, logger)
	}

	logger.Info("Seed data indexed",
		zap.Int("files", len(files)),
		zap.Int("documents", indexed),
	)
	return nil
}

// loadFile indexes one seed file and returns how many documents succeeded.
func loadFile(ctx context.Context, path string, idx Indexer, logger *zap.Logger) int {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		logger.Warn("Failed to read seed file", zap.String("file", path), zap.Error(err))
		return 0
	}

	var sf seedFile
	if err := json.Unmarshal(data, &sf); err != nil {
		logger.Warn("Failed to parse seed file", zap.String("file", path), zap.Error(err))
		return 0
	}

	var indexed int
	for _, doc := range sf.Documents {
		if doc.ID == "" || doc.Text == "" {
			logger.Warn("Skipping seed record without id or text", zap.String("file", path))
			continue
		}

		region := doc.Region
		if region == "" {
			region = domain.RegionAll
		}
		metadata := map[string]string{
			domain.MetaTitle:    doc.Title,
			domain.MetaRegion:   region,
			domain.MetaDomain:   doc.Domain,
			domain.MetaCategory: doc.Category,
			domain.MetaSource:   filepath.Base(path),
		}

		if _, err := idx.Index(ctx, doc.ID, doc.Text, metadata); err != nil {
			logger.Warn("Failed to index seed record",
				zap.String("file", path),
				zap.String("doc_id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		indexed++
	}
	return indexed
}
