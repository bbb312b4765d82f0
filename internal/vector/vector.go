// Package vector answers "top-K passages for this text in this namespace"
// by embedding the query and searching a vector store.
package vector

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/glance/pkg/gemini"
	"github.com/sells-group/glance/pkg/pgvector"
	"github.com/sells-group/glance/pkg/qdrant"
)

// Passage is one retrieved chunk of stored document text.
type Passage struct {
	Text   string
	Source string
	Score  float32
}

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store searches stored vectors within a namespace.
type Store interface {
	Search(ctx context.Context, vec []float32, namespace string, k int) ([]Passage, error)
}

// Searcher finds passages similar to free text.
type Searcher interface {
	Search(ctx context.Context, query, namespace string, k int) ([]Passage, error)
}

type searcher struct {
	embedder Embedder
	store    Store
}

// NewSearcher composes an embedder and a store.
func NewSearcher(e Embedder, s Store) Searcher {
	return &searcher{embedder: e, store: s}
}

func (s *searcher) Search(ctx context.Context, query, namespace string, k int) ([]Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, eris.New("vector: empty query")
	}
	if k <= 0 {
		k = 1
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "vector: embed query")
	}

	passages, err := s.store.Search(ctx, vec, namespace, k)
	if err != nil {
		return nil, eris.Wrap(err, "vector: search store")
	}
	return passages, nil
}

// Join concatenates passage texts, one per line, skipping blanks.
func Join(passages []Passage) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

type geminiEmbedder struct {
	client gemini.Client
	model  string
}

// GeminiEmbedder embeds with a Gemini embedding model.
func GeminiEmbedder(client gemini.Client, model string) Embedder {
	return &geminiEmbedder{client: client, model: model}
}

func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return g.client.EmbedContent(ctx, g.model, text)
}

type qdrantStore struct {
	client qdrant.Client
}

// QdrantStore adapts a Qdrant client.
func QdrantStore(client qdrant.Client) Store {
	return &qdrantStore{client: client}
}

func (q *qdrantStore) Search(ctx context.Context, vec []float32, namespace string, k int) ([]Passage, error) {
	points, err := q.client.Search(ctx, vec, namespace, k)
	if err != nil {
		return nil, err
	}
	out := make([]Passage, len(points))
	for i, p := range points {
		out[i] = Passage{Text: p.Text, Source: p.Source, Score: p.Score}
	}
	return out, nil
}

type pgStore struct {
	store *pgvector.Store
}

// PGVectorStore adapts a pgvector table.
func PGVectorStore(store *pgvector.Store) Store {
	return &pgStore{store: store}
}

func (p *pgStore) Search(ctx context.Context, vec []float32, namespace string, k int) ([]Passage, error) {
	rows, err := p.store.Search(ctx, vec, namespace, k)
	if err != nil {
		return nil, err
	}
	out := make([]Passage, len(rows))
	for i, r := range rows {
		out[i] = Passage{Text: r.Text, Source: r.Source, Score: r.Score}
	}
	return out, nil
}
