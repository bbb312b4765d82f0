// Package extract turns a user's message into a ticker, company name and
// the sub-queries that drive retrieval.
package extract

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/glance/internal/llm"
	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/monitoring"
	"github.com/sells-group/glance/internal/vector"
)

// Options tunes the extractor.
type Options struct {
	// Structured asks for a JSON answer instead of labelled lines.
	Structured bool
	// DocumentHint adds passages from the request's document to the prompt.
	DocumentHint bool
	HintTopK     int
	MaxTokens    int
}

// Extractor runs the extraction prompt. It never fails: an LLM error or an
// unreadable answer yields the all-sentinel extraction.
type Extractor struct {
	llm   llm.Client
	table Table
	hints vector.Searcher
	opts  Options
}

// New creates an Extractor. hints may be nil, which disables the document hint.
func New(client llm.Client, table Table, hints vector.Searcher, opts Options) *Extractor {
	if len(table) == 0 {
		table = DefaultTable()
	}
	if opts.HintTopK <= 0 {
		opts.HintTopK = 4
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	return &Extractor{llm: client, table: table, hints: hints, opts: opts}
}

// Extract reads the company, ticker, competitor and sub-queries from the
// request message.
func (x *Extractor) Extract(ctx context.Context, env model.QueryEnvelope) model.Extraction {
	log := zap.L().With(zap.String("stage", "extract"), zap.String("namespace", env.Namespace))
	start := time.Now()
	defer monitoring.ObserveStage("extract", start)

	hint := x.documentHint(ctx, env)

	mode := "tags"
	req := llm.UserPrompt("extract", extractSystemPrompt, buildAnalysisPrompt(env.Message, hint, x.table), x.opts.MaxTokens)
	if x.opts.Structured {
		mode = "structured"
		req = llm.UserPrompt("extract", extractSystemPrompt, buildStructuredPrompt(env.Message, hint, x.table), x.opts.MaxTokens)
		req.JSON = true
	}
	req.Temperature = llm.Temperature(0)

	text, err := x.generate(ctx, req)
	if err != nil {
		log.Warn("extract: llm call failed, using sentinel extraction", zap.Error(err))
		monitoring.Extractions.WithLabelValues(mode, "error").Inc()
		return model.NewExtraction()
	}

	var e model.Extraction
	if x.opts.Structured {
		e, err = ParseStructured(text)
		if err != nil {
			log.Debug("extract: structured answer rejected, parsing tags", zap.Error(err))
			monitoring.Extractions.WithLabelValues(mode, "fallback").Inc()
			e = Parse(text)
		}
	} else {
		e = Parse(text)
	}

	x.observe(log, mode, e)
	return e
}

// Profile reads the company, ticker and one competitor for a firm name.
func (x *Extractor) Profile(ctx context.Context, firmName string) model.Extraction {
	return x.lookup(ctx, "profile", buildProfilePrompt(firmName, x.table))
}

// Ticker reads only the company name and ticker for a firm name.
func (x *Extractor) Ticker(ctx context.Context, firmName string) model.Extraction {
	return x.lookup(ctx, "ticker", buildTickerPrompt(firmName, x.table))
}

func (x *Extractor) lookup(ctx context.Context, mode, prompt string) model.Extraction {
	log := zap.L().With(zap.String("stage", mode))

	req := llm.UserPrompt(mode, extractSystemPrompt, prompt, x.opts.MaxTokens)
	req.Temperature = llm.Temperature(0)

	text, err := x.generate(ctx, req)
	if err != nil {
		log.Warn("extract: llm call failed, using sentinel extraction", zap.Error(err))
		monitoring.Extractions.WithLabelValues(mode, "error").Inc()
		return model.NewExtraction()
	}

	e := model.NewExtraction()
	ParseFields(text, &e)
	x.observe(log, mode, e)
	return e
}

func (x *Extractor) generate(ctx context.Context, req llm.Request) (string, error) {
	start := time.Now()
	text, err := x.llm.Generate(ctx, req)
	monitoring.ObserveCall("llm_"+req.Stage, start, err)
	return text, err
}

func (x *Extractor) observe(log *zap.Logger, mode string, e model.Extraction) {
	outcome := "ok"
	if !e.HasTicker() {
		outcome = "sentinel"
	}
	monitoring.Extractions.WithLabelValues(mode, outcome).Inc()

	if e.HasTicker() && !x.table.Contains(e.Ticker) {
		log.Debug("extract: ticker not in reference table", zap.String("ticker", e.Ticker))
	}
	log.Info("extract: completed",
		zap.String("ticker", e.Ticker),
		zap.String("company", e.CompanyName),
		zap.String("competitor_ticker", e.CompetitorTicker),
	)
}

// documentHint searches the request's document for the company named in
// the message. Any failure yields no hint.
func (x *Extractor) documentHint(ctx context.Context, env model.QueryEnvelope) string {
	if !x.opts.DocumentHint || x.hints == nil || strings.TrimSpace(env.Namespace) == "" {
		return ""
	}

	start := time.Now()
	passages, err := x.hints.Search(ctx, env.Message+" Limited", env.Namespace, x.opts.HintTopK)
	monitoring.ObserveCall("vector_hint", start, err)
	if err != nil {
		zap.L().Debug("extract: document hint unavailable", zap.Error(err))
		return ""
	}
	return vector.Join(passages)
}

// Parse reads a labelled-line answer with tagged sub-queries.
func Parse(text string) model.Extraction {
	e := model.NewExtraction()
	ParseFields(text, &e)
	e.Queries = ParseTags(text)
	return e
}
