package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/glance/internal/model"
)

// --- Service Mock ---

type mockService struct {
	mock.Mock
}

func (m *mockService) Analyze(ctx context.Context, env model.QueryEnvelope) (*model.AnalysisResponse, error) {
	args := m.Called(ctx, env)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResponse), args.Error(1)
}

func (m *mockService) Profile(ctx context.Context, firmName string) (*model.ProfileResponse, error) {
	args := m.Called(ctx, firmName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProfileResponse), args.Error(1)
}

func (m *mockService) FirmTicker(ctx context.Context, firmName string) (*model.FirmTicker, error) {
	args := m.Called(ctx, firmName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FirmTicker), args.Error(1)
}
