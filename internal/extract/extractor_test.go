package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/glance/internal/llm"
	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/vector"
)

func TestExtract_TagAnswer(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Stage == "extract" && !req.JSON &&
			req.Temperature != nil && *req.Temperature == 0 &&
			strings.Contains(req.Messages[0].Content, "What is Infosys worth?") &&
			strings.Contains(req.Messages[0].Content, "INFY.NS - Infosys Limited")
	})).Return("Ticker: INFY.NS\nCompany Name: Infosys Limited\nLQ1 - Infosys quarterly results announcement - LQ1", nil)

	x := New(m, nil, nil, Options{})
	e := x.Extract(context.Background(), model.QueryEnvelope{Message: "What is Infosys worth?", Namespace: "abc123"})

	assert.Equal(t, "INFY.NS", e.Ticker)
	assert.Equal(t, "Infosys Limited", e.CompanyName)
	assert.Equal(t, "Infosys quarterly results announcement", e.Queries.LatestNews)
	m.AssertExpectations(t)
}

func TestExtract_LLMErrorYieldsSentinels(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	e := New(m, nil, nil, Options{}).Extract(context.Background(), model.QueryEnvelope{Message: "Infosys"})
	assert.Equal(t, model.NewExtraction(), e)
}

func TestExtract_UnparseableYieldsSentinels(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).Return("I am not sure which company you mean.", nil)

	e := New(m, nil, nil, Options{}).Extract(context.Background(), model.QueryEnvelope{Message: "hmm"})
	assert.Equal(t, model.NewExtraction(), e)
}

func TestExtract_DocumentHint(t *testing.T) {
	m := &mockLLM{}
	s := &mockSearcher{}
	s.On("Search", mock.Anything, "Infosys Limited", "abc123", 4).
		Return([]vector.Passage{{Text: "Infosys Limited annual report 2024"}}, nil)
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return strings.Contains(req.Messages[0].Content, "Infosys Limited annual report 2024")
	})).Return("Ticker: INFY.NS", nil)

	x := New(m, nil, s, Options{DocumentHint: true})
	e := x.Extract(context.Background(), model.QueryEnvelope{Message: "Infosys", Namespace: "abc123"})

	assert.Equal(t, "INFY.NS", e.Ticker)
	s.AssertExpectations(t)
	m.AssertExpectations(t)
}

func TestExtract_DocumentHintFailureIsSoft(t *testing.T) {
	m := &mockLLM{}
	s := &mockSearcher{}
	s.On("Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("namespace not found"))
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return !strings.Contains(req.Messages[0].Content, "Text from the user's document")
	})).Return("Ticker: TCS.NS", nil)

	e := New(m, nil, s, Options{DocumentHint: true}).Extract(context.Background(), model.QueryEnvelope{Message: "TCS", Namespace: "ns"})
	assert.Equal(t, "TCS.NS", e.Ticker)
	m.AssertExpectations(t)
}

func TestExtract_DocumentHintSkippedWithoutNamespace(t *testing.T) {
	m := &mockLLM{}
	s := &mockSearcher{}
	m.On("Generate", mock.Anything, mock.Anything).Return("Ticker: TCS.NS", nil)

	New(m, nil, s, Options{DocumentHint: true}).Extract(context.Background(), model.QueryEnvelope{Message: "TCS"})
	s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtract_Structured(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool { return req.JSON })).
		Return(`{"companyName": "Wipro Limited", "ticker": "WIPRO.NS", "queries": {"EQ1": "rupee depreciation impact on exporters"}}`, nil)

	e := New(m, nil, nil, Options{Structured: true}).Extract(context.Background(), model.QueryEnvelope{Message: "Wipro"})
	assert.Equal(t, "WIPRO.NS", e.Ticker)
	assert.Equal(t, "Wipro Limited", e.CompanyName)
	assert.Equal(t, "rupee depreciation impact on exporters", e.Queries.Economic1)
}

func TestExtract_StructuredFallsBackToTags(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).
		Return("Ticker: WIPRO.NS\nCompany Name: Wipro Limited\nIW2 - IT outsourcing pricing trends - IW2", nil)

	e := New(m, nil, nil, Options{Structured: true}).Extract(context.Background(), model.QueryEnvelope{Message: "Wipro"})
	assert.Equal(t, "WIPRO.NS", e.Ticker)
	assert.Equal(t, "IT outsourcing pricing trends", e.Queries.Industry2)
}

func TestExtract_CustomTable(t *testing.T) {
	m := &mockLLM{}
	table := Table{{Ticker: "ZOMATO.NS", Name: "Zomato Limited"}}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		p := req.Messages[0].Content
		return strings.Contains(p, "ZOMATO.NS - Zomato Limited") && !strings.Contains(p, "INFY.NS")
	})).Return("Ticker: ZOMATO.NS", nil)

	e := New(m, table, nil, Options{}).Extract(context.Background(), model.QueryEnvelope{Message: "Zomato"})
	assert.Equal(t, "ZOMATO.NS", e.Ticker)
}

func TestProfile(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool {
		return req.Stage == "profile" && strings.Contains(req.Messages[0].Content, "competitor")
	})).Return("Company Name: HDFC Bank Limited\nTicker: HDFCBANK.NS\nCompetitor Name: ICICI Bank Limited\nCompetitor Ticker: ICICIBANK.NS", nil)

	e := New(m, nil, nil, Options{}).Profile(context.Background(), "HDFC Bank")
	assert.Equal(t, "HDFCBANK.NS", e.Ticker)
	assert.Equal(t, "ICICI Bank Limited", e.CompetitorName)
	assert.Equal(t, "ICICIBANK.NS", e.CompetitorTicker)
	assert.Equal(t, model.SubQueries{}, e.Queries)
}

func TestTicker(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.MatchedBy(func(req llm.Request) bool { return req.Stage == "ticker" })).
		Return("Company Name: Titan Company Limited\nTicker: TITAN.NS", nil)

	e := New(m, nil, nil, Options{}).Ticker(context.Background(), "Titan")
	assert.Equal(t, "TITAN.NS", e.Ticker)
	assert.Equal(t, "Titan Company Limited", e.CompanyName)
}

func TestTicker_Error(t *testing.T) {
	m := &mockLLM{}
	m.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("boom"))

	e := New(m, nil, nil, Options{}).Ticker(context.Background(), "Titan")
	assert.Equal(t, model.NewExtraction(), e)
}
