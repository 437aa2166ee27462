package chi

import (
	"context"
	"net/http/httptest"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/agrifield/sopadvisor/internal/domain"
	answeruc "github.com/agrifield/sopadvisor/internal/usecase/answer"
	healthuc "github.com/agrifield/sopadvisor/internal/usecase/health"
)

// --- Mocks ---

type mockNotes struct {
	created []string
	note    domain.FieldNote
	err     error
}

func (m *mockNotes) Create(text string) domain.FieldNote {
	m.created = append(m.created, text)
	return domain.FieldNote{ID: "1", Text: text}
}

func (m *mockNotes) Get(_ string) (domain.FieldNote, error) {
	return m.note, m.err
}

type mockSearcher struct {
	matches    []domain.Match
	err        error
	lastQuery  string
	lastFilter map[string]string
}

func (m *mockSearcher) Search(
	_ context.Context, query string, _ int, filter map[string]string,
) ([]domain.Match, error) {
	m.lastQuery = query
	m.lastFilter = filter
	return m.matches, m.err
}

type mockGenerator struct {
	rec       domain.Recommendation
	lastNote  string
	lastDocID string
}

func (m *mockGenerator) Generate(_ context.Context, noteText, docID string) domain.Recommendation {
	m.lastNote = noteText
	m.lastDocID = docID
	return m.rec
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Helpers ---

type testEnv struct {
	notes    *mockNotes
	searcher *mockSearcher
	gen      *mockGenerator
	pinger   *mockPinger
	srv      *httptest.Server
}

func newTestEnv() *testEnv {
	env := &testEnv{
		notes:    &mockNotes{},
		searcher: &mockSearcher{},
		gen:      &mockGenerator{},
		pinger:   &mockPinger{},
	}

	answerSvc := answeruc.New(env.searcher, env.gen)
	healthSvc := healthuc.New(env.pinger, nil)
	server := NewServer(env.notes, env.searcher, env.gen, answerSvc, healthSvc, zap.NewNop())

	r := chirouter.NewRouter()
	server.Routes(r)
	env.srv = httptest.NewServer(r)
	return env
}

func (e *testEnv) close() {
	e.srv.Close()
}
