package corpus

import (
	"context"

	"github.com/agrifield/sopadvisor/internal/db"
)

// mockStore implements the consumer store interface in memory.
type mockStore struct {
	hashes     map[string]map[string]string
	indexes    map[string]bool
	knnResult  *db.SearchResult
	knnErr     error
	lastKNN    *db.KNNQuery
	countValue int
	pingErr    error
	delCalls   []string
}

func newMockStore() *mockStore {
	return &mockStore{
		hashes:  make(map[string]map[string]string),
		indexes: make(map[string]bool),
	}
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	m.hashes[key] = fields
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if h, ok := m.hashes[key]; ok {
		return h, nil
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	m.delCalls = append(m.delCalls, key)
	delete(m.hashes, key)
	return nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.indexes[def.Name] = true
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, name string) (bool, error) {
	return m.indexes[name], nil
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastKNN = q
	return m.knnResult, m.knnErr
}

func (m *mockStore) SearchList(_ context.Context, _ *db.ListQuery) (*db.SearchResult, error) {
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(_ context.Context, _ string, _ map[string]string) (int, error) {
	return m.countValue, nil
}

func (m *mockStore) Ping(_ context.Context) error {
	return m.pingErr
}
