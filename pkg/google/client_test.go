package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/glance/internal/resilience"
)

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("key"))
		assert.Equal(t, "engine-1", q.Get("cx"))
		assert.Equal(t, "Indian IT services outlook", q.Get("q"))
		assert.Equal(t, "3", q.Get("num"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Items: []Item{
				{Title: "IT outlook", Link: "https://example.com/a", Snippet: "Revenue growth  slows\nin FY25."},
				{Title: "Deal wins", Link: "https://example.com/b", HTMLSnippet: "<b>Large</b> deal wins &amp; margins"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("test-key", "engine-1", WithBaseURL(srv.URL), WithNum(3))
	resp, err := client.Search(context.Background(), "Indian IT services outlook")

	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Revenue growth slows in FY25.", resp.Items[0].Text())
	assert.Equal(t, "Large deal wins & margins", resp.Items[1].Text())
	assert.Equal(t, "https://example.com/b", resp.Items[1].Link)
}

func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"searchInformation":{"totalResults":"0"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "cx", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestSearch_TransientStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "cx", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "q")

	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
	assert.Contains(t, err.Error(), "google: unexpected status 429")
}

func TestSearch_PermanentStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient("test-key", "cx", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "q")

	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestSearch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "cx", WithBaseURL(srv.URL))
	_, err := client.Search(context.Background(), "q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "google: unmarshal response")
}

func TestItemText_Empty(t *testing.T) {
	assert.Empty(t, Item{}.Text())
}

func TestWithNum_IgnoresOutOfRange(t *testing.T) {
	c := NewClient("k", "cx", WithNum(50)).(*httpClient)
	assert.Equal(t, 5, c.num)
}
