package retrieval

import (
	"context"
	"time"

	"github.com/piquette/finance-go/datetime"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/glance/internal/vector"
	"github.com/sells-group/glance/pkg/yahoo"
)

// --- Yahoo Mock ---

type mockYahoo struct {
	mock.Mock
}

func (m *mockYahoo) Quote(ctx context.Context, symbol string) (*yahoo.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*yahoo.Quote), args.Error(1)
}

func (m *mockYahoo) History(ctx context.Context, symbol string, start, end time.Time, interval datetime.Interval) ([]yahoo.Bar, error) {
	args := m.Called(ctx, symbol, start, end, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]yahoo.Bar), args.Error(1)
}

func (m *mockYahoo) Summary(ctx context.Context, symbol string) (*yahoo.Summary, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*yahoo.Summary), args.Error(1)
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
