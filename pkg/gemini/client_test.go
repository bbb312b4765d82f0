package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient(context.Background(), Config{APIKey: "test-key"}, WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return c
}

func TestGenerateContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent"), r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Contains(t, body, "systemInstruction")
		gen := body["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", gen["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Ticker: INFY.NS\n"}, {"text": "Company Name: Infosys Limited"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 9}
		}`)) //nolint:errcheck
	})

	resp, err := c.GenerateContent(context.Background(), GenerateRequest{
		Model:            "gemini-2.5-flash",
		System:           "extract tickers",
		Contents:         []Content{{Role: "user", Text: "Infosys"}},
		MaxOutputTokens:  256,
		ResponseMIMEType: "application/json",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ticker: INFY.NS\nCompany Name: Infosys Limited", resp.Text)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, int32(12), resp.Usage.PromptTokens)
	assert.Equal(t, int32(9), resp.Usage.CandidateTokens)
}

func TestGenerateContent_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`)) //nolint:errcheck
	})

	_, err := c.GenerateContent(context.Background(), GenerateRequest{
		Model:    "gemini-2.5-flash",
		Contents: []Content{{Role: "user", Text: "x"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini: generate content")
}

func TestFromSDKResponse_Empty(t *testing.T) {
	assert.Empty(t, fromSDKResponse(nil).Text)
	assert.Empty(t, fromSDKResponse(&genai.GenerateContentResponse{}).Text)

	resp := fromSDKResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	})
	assert.Empty(t, resp.Text)
	assert.Equal(t, "SAFETY", resp.FinishReason)
}

func TestFromSDKResponse_SkipsThoughts(t *testing.T) {
	resp := fromSDKResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "answer"},
			}},
		}},
	})
	assert.Equal(t, "answer", resp.Text)
}
