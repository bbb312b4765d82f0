package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/glance/internal/model"
)

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, env model.QueryEnvelope) model.Extraction {
	args := m.Called(ctx, env)
	return args.Get(0).(model.Extraction)
}

func (m *mockExtractor) Profile(ctx context.Context, firmName string) model.Extraction {
	args := m.Called(ctx, firmName)
	return args.Get(0).(model.Extraction)
}

func (m *mockExtractor) Ticker(ctx context.Context, firmName string) model.Extraction {
	args := m.Called(ctx, firmName)
	return args.Get(0).(model.Extraction)
}

// --- Retriever Mock ---

type mockRetriever struct {
	mock.Mock
}

func (m *mockRetriever) Retrieve(ctx context.Context, e model.Extraction, namespace string) model.RetrievalSet {
	args := m.Called(ctx, e, namespace)
	return args.Get(0).(model.RetrievalSet)
}

func (m *mockRetriever) Financials(ctx context.Context, ticker string) (model.FinancialSnapshot, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(model.FinancialSnapshot), args.Error(1)
}

func (m *mockRetriever) YearlySales(ctx context.Context, ticker string) ([]model.YearlySales, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.YearlySales), args.Error(1)
}

func (m *mockRetriever) WebSearch(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

// --- Composer Mock ---

type mockComposer struct {
	mock.Mock
}

func (m *mockComposer) Compose(ctx context.Context, query string, e model.Extraction, set model.RetrievalSet) (string, error) {
	args := m.Called(ctx, query, e, set)
	return args.String(0), args.Error(1)
}

func (m *mockComposer) Overview(ctx context.Context, snap model.FinancialSnapshot, companyName, news string) string {
	args := m.Called(ctx, snap, companyName, news)
	return args.String(0)
}
