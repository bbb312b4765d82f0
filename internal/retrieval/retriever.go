// Package retrieval fans the extracted sub-queries out to web search, the
// vector store and the financial-data API, and collects one slot per call.
package retrieval

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/monitoring"
	"github.com/sells-group/glance/internal/vector"
	"github.com/sells-group/glance/pkg/google"
	"github.com/sells-group/glance/pkg/yahoo"
)

// DefaultFallback fills a slot that has no retrieved value.
const DefaultFallback = "No results available."

// Fallback reasons.
const (
	ReasonEmptyQuery = "empty sub-query"
	ReasonNoTicker   = "no ticker"
	ReasonNoResults  = "no results"
)

// Source names the collaborator a route calls.
type Source string

const (
	SourceWeb       Source = "web"
	SourceDocument  Source = "document"
	SourceKnowledge Source = "knowledge"
)

// Route binds a tag to the report section it feeds and the collaborator
// that answers it.
type Route struct {
	Tag      model.Tag
	Category model.Category
	Source   Source
}

// Routes lists every routed tag in declared order. The company query is
// extracted but not routed.
var Routes = []Route{
	{model.TagRAG1, model.CategoryKnowledge, SourceKnowledge},
	{model.TagRAG2, model.CategoryKnowledge, SourceKnowledge},
	{model.TagIndustry1, model.CategoryIndustry, SourceWeb},
	{model.TagIndustry2, model.CategoryIndustry, SourceWeb},
	{model.TagEconomic1, model.CategoryDocument, SourceDocument},
	{model.TagEconomic2, model.CategoryDocument, SourceDocument},
	{model.TagLatestNews, model.CategoryNews, SourceWeb},
	{model.TagQuestion1, model.CategoryQuestion, SourceWeb},
	{model.TagQuestion2, model.CategoryQuestion, SourceWeb},
	{model.TagQuestion3, model.CategoryQuestion, SourceWeb},
}

// Options tunes the retriever.
type Options struct {
	// CallTimeout bounds each collaborator call.
	CallTimeout time.Duration
	Fallback    string
	// TopK is the number of passages per vector search.
	TopK               int
	KnowledgeNamespace string
	// MaxChars truncates formatted web results.
	MaxChars int
}

// Retriever runs the fan-out. It holds no per-request state and is safe
// for concurrent use.
type Retriever struct {
	web    google.Client
	docs   vector.Searcher
	quotes yahoo.Client
	opts   Options
	now    func() time.Time
}

// New creates a Retriever. Zero options take the service defaults.
func New(web google.Client, docs vector.Searcher, quotes yahoo.Client, opts Options) *Retriever {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 20 * time.Second
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}
	if opts.TopK <= 0 {
		opts.TopK = 1
	}
	if opts.KnowledgeNamespace == "" {
		opts.KnowledgeNamespace = "Fundamentals"
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = 1000
	}
	return &Retriever{web: web, docs: docs, quotes: quotes, opts: opts, now: time.Now}
}

// Retrieve issues every routed sub-query and the fundamentals lookup at
// once and waits for all of them. A failed call fills its slot with the
// fallback; it never aborts its siblings. The fan-out is detached from the
// caller's cancellation and bounded only by the per-call timeout.
func (r *Retriever) Retrieve(ctx context.Context, e model.Extraction, namespace string) model.RetrievalSet {
	start := time.Now()
	defer monitoring.ObserveStage("retrieve", start)

	ctx = context.WithoutCancel(ctx)
	set := model.RetrievalSet{Queries: make([]model.Slot, len(Routes))}

	var g errgroup.Group
	g.Go(func() error {
		set.Fundamentals, set.Financials = r.fundamentals(ctx, e.Ticker)
		return nil
	})
	for i, route := range Routes {
		query := strings.TrimSpace(e.Queries.Get(route.Tag))
		g.Go(func() error {
			set.Queries[i] = r.slot(ctx, route, query, namespace)
			return nil
		})
	}
	_ = g.Wait()

	if n := set.Failed(); n > 0 {
		zap.L().Info("retrieval: completed with fallbacks", zap.Int("failed", n), zap.Int("slots", len(set.Queries)+1))
	}
	return set
}

func (r *Retriever) slot(ctx context.Context, route Route, query, namespace string) model.Slot {
	s := model.Slot{Tag: route.Tag, Category: route.Category, Query: query}
	if query == "" {
		return r.fallback(s, model.SlotSkipped, ReasonEmptyQuery)
	}

	text, err := r.fetch(ctx, route.Source, query, namespace)
	if err != nil {
		zap.L().Warn("retrieval: sub-query failed",
			zap.String("tag", string(route.Tag)),
			zap.String("source", string(route.Source)),
			zap.Error(err),
		)
		return r.fallback(s, model.SlotFailed, err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return r.fallback(s, model.SlotFailed, ReasonNoResults)
	}

	s.Status = model.SlotOK
	s.Text = text
	return s
}

func (r *Retriever) fetch(ctx context.Context, src Source, query, namespace string) (string, error) {
	switch src {
	case SourceWeb:
		return r.WebSearch(ctx, query)
	case SourceDocument:
		return r.vectorSearch(ctx, "vector_document", query, namespace)
	case SourceKnowledge:
		return r.vectorSearch(ctx, "vector_knowledge", query, r.opts.KnowledgeNamespace)
	}
	return "", eris.Errorf("retrieval: unknown source %q", src)
}

// WebSearch runs one web search and formats the snippets.
func (r *Retriever) WebSearch(ctx context.Context, query string) (string, error) {
	resp, err := observe(ctx, r.opts.CallTimeout, "web_search", func(ctx context.Context) (*google.SearchResponse, error) {
		return r.web.Search(ctx, query)
	})
	if err != nil {
		return "", eris.Wrap(err, "retrieval: web search")
	}
	return FormatSnippets(resp.Items, r.opts.MaxChars), nil
}

func (r *Retriever) vectorSearch(ctx context.Context, kind, query, namespace string) (string, error) {
	if r.docs == nil {
		return "", eris.New("retrieval: no vector store configured")
	}
	passages, err := observe(ctx, r.opts.CallTimeout, kind, func(ctx context.Context) ([]vector.Passage, error) {
		return r.docs.Search(ctx, query, namespace, r.opts.TopK)
	})
	if err != nil {
		return "", eris.Wrapf(err, "retrieval: vector search in %s", namespace)
	}
	return vector.Join(passages), nil
}

func (r *Retriever) fundamentals(ctx context.Context, ticker string) (model.Slot, model.FinancialSnapshot) {
	s := model.Slot{Category: model.CategoryFundamentals, Query: ticker}
	if !model.Known(ticker) {
		return r.fallback(s, model.SlotSkipped, ReasonNoTicker), model.FinancialSnapshot{Ticker: ticker}
	}

	snap, err := r.Financials(ctx, ticker)
	if err != nil {
		zap.L().Warn("retrieval: fundamentals failed", zap.String("ticker", ticker), zap.Error(err))
		return r.fallback(s, model.SlotFailed, err.Error()), snap
	}
	if snap.Ratios.Empty() && len(snap.YearlySales) == 0 {
		return r.fallback(s, model.SlotFailed, ReasonNoResults), snap
	}

	s.Status = model.SlotOK
	s.Text = FormatFinancials(snap)
	return s, snap
}

func (r *Retriever) fallback(s model.Slot, status model.SlotStatus, reason string) model.Slot {
	s.Status = status
	s.Text = r.opts.Fallback
	s.Reason = reason
	monitoring.Fallbacks.WithLabelValues(string(s.Category), string(status)).Inc()
	return s
}
