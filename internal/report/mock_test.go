package report

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/glance/internal/llm"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, req llm.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
