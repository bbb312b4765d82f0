package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/glance/internal/extract"
	"github.com/sells-group/glance/internal/llm"
	"github.com/sells-group/glance/internal/pipeline"
	"github.com/sells-group/glance/internal/report"
	"github.com/sells-group/glance/internal/retrieval"
	"github.com/sells-group/glance/internal/vector"
	anthropicpkg "github.com/sells-group/glance/pkg/anthropic"
	"github.com/sells-group/glance/pkg/gemini"
	"github.com/sells-group/glance/pkg/google"
	"github.com/sells-group/glance/pkg/ollama"
	"github.com/sells-group/glance/pkg/pgvector"
	"github.com/sells-group/glance/pkg/qdrant"
	"github.com/sells-group/glance/pkg/yahoo"
)

// pipelineEnv holds the pipeline and the resources it must release.
type pipelineEnv struct {
	Pipeline *pipeline.Pipeline
	closers  []func()
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	for i := len(pe.closers) - 1; i >= 0; i-- {
		pe.closers[i]()
	}
}

// initPipeline validates the config for mode, builds every collaborator
// client and wires the pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	env := &pipelineEnv{}

	var geminiClient gemini.Client
	if cfg.LLM.Provider == "gemini" || (mode != "ticker" && cfg.Embedding.Provider == "gemini") {
		gc, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:   cfg.Gemini.Key,
			Backend:  cfg.Gemini.Backend,
			Project:  cfg.Gemini.Project,
			Location: cfg.Gemini.Location,
		})
		if err != nil {
			return nil, eris.Wrap(err, "init gemini")
		}
		geminiClient = gc
	}

	extractLLM, reportLLM := initLLMs(geminiClient)

	var searcher vector.Searcher
	if mode != "ticker" {
		s, err := initSearcher(ctx, env, geminiClient)
		if err != nil {
			env.Close()
			return nil, err
		}
		searcher = s
	}

	table := extract.DefaultTable()
	if cfg.Extraction.TickersFile != "" {
		t, err := extract.LoadTable(cfg.Extraction.TickersFile)
		if err != nil {
			env.Close()
			return nil, eris.Wrap(err, "load tickers")
		}
		table = t
		zap.L().Info("ticker table loaded", zap.String("path", cfg.Extraction.TickersFile), zap.Int("entries", len(t)))
	}

	var hints vector.Searcher
	if cfg.Extraction.DocumentHint {
		hints = searcher
	}
	extractor := extract.New(extractLLM, table, hints, extract.Options{
		Structured:   cfg.Extraction.Structured,
		DocumentHint: cfg.Extraction.DocumentHint,
		HintTopK:     cfg.Extraction.HintTopK,
		MaxTokens:    cfg.Extraction.MaxTokens,
	})

	web := google.NewClient(cfg.Search.Key, cfg.Search.EngineID,
		google.WithBaseURL(cfg.Search.BaseURL),
		google.WithNum(cfg.Search.Num),
	)
	quotes := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
		yahoo.WithTimeout(time.Duration(cfg.Yahoo.TimeoutSecs)*time.Second),
	)
	retriever := retrieval.New(web, searcher, quotes, retrieval.Options{
		CallTimeout:        time.Duration(cfg.Retrieval.CallTimeoutSecs) * time.Second,
		Fallback:           cfg.Retrieval.Fallback,
		TopK:               cfg.Vector.TopK,
		KnowledgeNamespace: cfg.Vector.KnowledgeNamespace,
		MaxChars:           cfg.Search.MaxChars,
	})

	composer := report.New(reportLLM, report.Options{
		Market:    cfg.Report.Market,
		Benchmark: cfg.Report.Benchmark,
		MaxTokens: cfg.Report.MaxTokens,
	})

	env.Pipeline = pipeline.New(extractor, retriever, composer)

	zap.L().Info("pipeline ready",
		zap.String("mode", mode),
		zap.String("llm", cfg.LLM.Provider),
		zap.Bool("vector_search", searcher != nil),
		zap.Bool("structured_extraction", cfg.Extraction.Structured),
	)
	return env, nil
}

// initLLMs returns the extraction and report clients. Both share one
// provider but may use different models.
func initLLMs(geminiClient gemini.Client) (llm.Client, llm.Client) {
	if cfg.LLM.Provider == "anthropic" {
		ac := anthropicpkg.NewClient(cfg.Anthropic.Key)
		return llm.NewAnthropic(ac, cfg.Anthropic.ExtractionModel), llm.NewAnthropic(ac, cfg.Anthropic.ReportModel)
	}
	return llm.NewGemini(geminiClient, cfg.Gemini.ExtractionModel), llm.NewGemini(geminiClient, cfg.Gemini.ReportModel)
}

// initSearcher builds the embedder and vector store for the configured
// backends and registers their cleanup on env.
func initSearcher(ctx context.Context, env *pipelineEnv, geminiClient gemini.Client) (vector.Searcher, error) {
	var embedder vector.Embedder
	switch cfg.Embedding.Provider {
	case "ollama":
		oc, err := ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Model)
		if err != nil {
			return nil, eris.Wrap(err, "init ollama")
		}
		embedder = oc
	default:
		embedder = vector.GeminiEmbedder(geminiClient, cfg.Gemini.EmbeddingModel)
	}

	var store vector.Store
	switch cfg.Vector.Backend {
	case "pgvector":
		pg, err := pgvector.Connect(ctx, cfg.PGVector.DatabaseURL, cfg.PGVector.Table)
		if err != nil {
			return nil, eris.Wrap(err, "init pgvector")
		}
		env.closers = append(env.closers, func() { _ = pg.Close() })
		store = vector.PGVectorStore(pg)
	default:
		qc, err := qdrant.NewClient(qdrant.Config{
			Host:       cfg.Qdrant.Host,
			Port:       cfg.Qdrant.Port,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			TLS:        cfg.Qdrant.TLS,
		})
		if err != nil {
			return nil, eris.Wrap(err, "init qdrant")
		}
		env.closers = append(env.closers, func() { _ = qc.Close() })
		store = vector.QdrantStore(qc)
	}

	return vector.NewSearcher(embedder, store), nil
}
