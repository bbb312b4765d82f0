package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/glance/internal/config"
	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/pipeline"
)

func newTestServer(svc Service) *Server {
	return New(svc, config.ServerConfig{CORSOrigins: []string{"*"}})
}

func do(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func pe(v float64) *float64 { return &v }

func sampleResponse() *model.AnalysisResponse {
	return &model.AnalysisResponse{
		Ticker:          "INFY.NS",
		CompanyName:     "Infosys Limited",
		FinancialRatios: model.FinancialRatios{PERatio: pe(24.5)},
		YearlySales:     []model.YearlySales{{Date: "2024-03-31", Sales: 1.5e12}},
		Narrative:       "## Verdict\nFairly valued.",
	}
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&mockService{}), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(&mockService{})
	do(t, s, http.MethodGet, "/health", "", nil)

	rec := do(t, s, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "glance_http_requests_total")
}

func TestMessage_JSON(t *testing.T) {
	svc := &mockService{}
	svc.On("Analyze", mock.Anything, model.QueryEnvelope{Message: "Infosys", Namespace: "abc123"}).
		Return(sampleResponse(), nil)

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/message",
		`{"message":"Infosys","documentNamespace":"abc123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INFY.NS", body["ticker"])
	assert.Equal(t, "Infosys Limited", body["companyName"])
	assert.Equal(t, "## Verdict\nFairly valued.", body["narrative"])
	assert.NotContains(t, body, "competitorName")
	ratios := body["financialRatios"].(map[string]any)
	assert.Equal(t, 24.5, ratios["peRatio"])
	assert.Nil(t, ratios["roe"])
	svc.AssertExpectations(t)
}

func TestMessage_FileIDAlias(t *testing.T) {
	svc := &mockService{}
	svc.On("Analyze", mock.Anything, model.QueryEnvelope{Message: "Infosys", Namespace: "f-1"}).
		Return(sampleResponse(), nil)

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/message", `{"message":"Infosys","fileId":"f-1"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestMessage_SSE(t *testing.T) {
	svc := &mockService{}
	svc.On("Analyze", mock.Anything, mock.Anything).Return(sampleResponse(), nil)

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/message", `{"message":"Infosys","documentNamespace":"abc123"}`,
		map[string]string{"Accept": "text/event-stream"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	events := strings.Split(strings.TrimSuffix(rec.Body.String(), "\n\n"), "\n\n")
	require.Len(t, events, 2)
	assert.Equal(t, "data: ## Verdict\ndata: Fairly valued.", events[0])
	assert.True(t, strings.HasPrefix(events[1], "event: done\ndata: {"))
	assert.Contains(t, events[1], `"ticker":"INFY.NS"`)
}

func TestMessage_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{"documentNamespace":"abc"}`},
		{"empty message", `{"message":"","documentNamespace":"abc"}`},
		{"wrong type", `{"message":42,"documentNamespace":"abc"}`},
		{"missing namespace", `{"message":"Infosys"}`},
		{"empty namespace", `{"message":"Infosys","documentNamespace":""}`},
		{"empty file id", `{"message":"Infosys","fileId":""}`},
		{"namespace wrong type", `{"message":"Infosys","documentNamespace":7}`},
		{"not json", `message=hi`},
		{"not an object", `["Infosys"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			rec := do(t, newTestServer(svc), http.MethodPost, "/api/message", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
		})
	}
}

func TestMessage_BlankMessageIsBadRequest(t *testing.T) {
	svc := &mockService{}
	svc.On("Analyze", mock.Anything, mock.Anything).Return(nil, pipeline.ErrEmptyMessage)

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/message", `{"message":"   ","documentNamespace":"abc"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"message is required"}`, rec.Body.String())
}

func TestMessage_PipelineErrorIsGeneric(t *testing.T) {
	svc := &mockService{}
	svc.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("report: generate narrative: quota exceeded"))

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/message", `{"message":"Infosys","documentNamespace":"abc"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "quota")
}

type panicService struct{ *mockService }

func (*panicService) Analyze(context.Context, model.QueryEnvelope) (*model.AnalysisResponse, error) {
	panic("boom")
}

func TestMessage_PanicRecovered(t *testing.T) {
	rec := do(t, newTestServer(&panicService{mockService: &mockService{}}), http.MethodPost, "/api/message", `{"message":"Infosys","documentNamespace":"abc"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProfile(t *testing.T) {
	svc := &mockService{}
	svc.On("Profile", mock.Anything, "HDFC Bank").Return(&model.ProfileResponse{
		CompanyName:           "HDFC Bank Limited",
		Ticker:                "HDFCBANK.NS",
		CompetitorName:        "ICICI Bank Limited",
		CompetitorTicker:      "ICICIBANK.NS",
		YearlySales:           []model.YearlySales{},
		CompetitorYearlySales: []model.YearlySales{},
		Overview:              "Steady.",
	}, nil)

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/ticker", `{"firmName":"HDFC Bank"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body model.ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ICICIBANK.NS", body.CompetitorTicker)
	assert.Equal(t, "Steady.", body.Overview)
}

func TestFirmTicker(t *testing.T) {
	svc := &mockService{}
	svc.On("FirmTicker", mock.Anything, "Wipro").Return(&model.FirmTicker{CompanyName: "Wipro Limited", Ticker: "WIPRO.NS"}, nil)

	rec := do(t, newTestServer(svc), http.MethodPost, "/api/firm-ticker", `{"firmName":"Wipro"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"companyName":"Wipro Limited","ticker":"WIPRO.NS"}`, rec.Body.String())

	rec = do(t, newTestServer(svc), http.MethodPost, "/api/firm-ticker", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	svc := &mockService{}
	svc.On("FirmTicker", mock.Anything, mock.Anything).Return(&model.FirmTicker{}, nil)
	s := New(svc, config.ServerConfig{RateLimit: 0.001, RateBurst: 1})

	first := do(t, s, http.MethodPost, "/api/firm-ticker", `{"firmName":"Wipro"}`, nil)
	second := do(t, s, http.MethodPost, "/api/firm-ticker", `{"firmName":"Wipro"}`, nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	health := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	rec := do(t, newTestServer(&mockService{}), http.MethodGet, "/health", "", map[string]string{"X-Request-ID": "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	rec := do(t, newTestServer(&mockService{}), http.MethodOptions, "/api/message", "", map[string]string{
		"Origin":                        "https://app.example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(&mockService{}), http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
