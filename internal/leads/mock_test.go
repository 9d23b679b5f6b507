package leads

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// memStore is an in-memory store that counts Save calls, so tests can assert
// that rejected operations never touch persistence.
type memStore struct {
	leads []model.Lead
	runs  []model.PipelineRun
	saves int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) Load(_ context.Context) ([]model.Lead, error) {
	return append([]model.Lead(nil), s.leads...), nil
}

func (s *memStore) Save(_ context.Context, leads []model.Lead) error {
	s.saves++
	s.leads = append([]model.Lead(nil), leads...)
	return nil
}

func (s *memStore) RecordRun(_ context.Context, run model.PipelineRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *memStore) ListRuns(_ context.Context, limit int) ([]model.PipelineRun, error) {
	out := make([]model.PipelineRun, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		out = append(out, s.runs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *memStore) Migrate(_ context.Context) error { return nil }

func (s *memStore) Close() error { return nil }

type mockTransport struct {
	mock.Mock
}

func (m *mockTransport) Send(ctx context.Context, recipient, text string) error {
	args := m.Called(ctx, recipient, text)
	return args.Error(0)
}
