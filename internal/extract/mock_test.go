package extract

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/glance/internal/llm"
	"github.com/sells-group/glance/internal/vector"
)

// --- LLM Mock ---

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// --- Vector Searcher Mock ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query, namespace string, k int) ([]vector.Passage, error) {
	args := m.Called(ctx, query, namespace, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vector.Passage), args.Error(1)
}
