// Package ollama embeds query text with a local Ollama server.
package ollama

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/rotisserie/eris"
)

// Client defines the Ollama operations used by the service.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type apiClient struct {
	api   *api.Client
	model string
}

// NewClient creates an embedding client for host (e.g. http://localhost:11434).
func NewClient(host, model string) (Client, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, eris.Wrap(err, "ollama: parse host")
	}
	hc := &http.Client{Timeout: 30 * time.Second}
	return &apiClient{api: api.NewClient(u, hc), model: model}, nil
}

func (c *apiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  c.model,
		Prompt: text,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "ollama: embed with %s", c.model)
	}
	if len(resp.Embedding) == 0 {
		return nil, eris.New("ollama: empty embedding")
	}

	out := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		out[i] = float32(v)
	}
	return out, nil
}
