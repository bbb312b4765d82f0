// Package pipeline runs the request stages: extraction, fan-out retrieval
// and report composition.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/monitoring"
)

// ErrEmptyMessage is returned when the request carries no message.
var ErrEmptyMessage = eris.New("pipeline: message is required")

// ErrEmptyFirmName is returned when a lookup carries no firm name.
var ErrEmptyFirmName = eris.New("pipeline: firm name is required")

// Extractor reads the structured fields out of a message or firm name.
type Extractor interface {
	Extract(ctx context.Context, env model.QueryEnvelope) model.Extraction
	Profile(ctx context.Context, firmName string) model.Extraction
	Ticker(ctx context.Context, firmName string) model.Extraction
}

// Retriever runs the fan-out and the single-purpose lookups.
type Retriever interface {
	Retrieve(ctx context.Context, e model.Extraction, namespace string) model.RetrievalSet
	Financials(ctx context.Context, ticker string) (model.FinancialSnapshot, error)
	YearlySales(ctx context.Context, ticker string) ([]model.YearlySales, error)
	WebSearch(ctx context.Context, query string) (string, error)
}

// Composer writes the narrative and the profile overview.
type Composer interface {
	Compose(ctx context.Context, query string, e model.Extraction, set model.RetrievalSet) (string, error)
	Overview(ctx context.Context, snap model.FinancialSnapshot, companyName, news string) string
}

// Pipeline wires the stages together. It keeps no state between requests.
type Pipeline struct {
	extractor Extractor
	retriever Retriever
	composer  Composer
}

// New creates a Pipeline from its collaborators.
func New(x Extractor, r Retriever, c Composer) *Pipeline {
	return &Pipeline{extractor: x, retriever: r, composer: c}
}

// Analyze runs extraction, retrieval and composition for one request.
// Only a composer failure is returned as an error; every other failure
// degrades to sentinel or fallback values.
func (p *Pipeline) Analyze(ctx context.Context, env model.QueryEnvelope) (*model.AnalysisResponse, error) {
	if strings.TrimSpace(env.Message) == "" {
		return nil, ErrEmptyMessage
	}

	log := zap.L().With(zap.String("namespace", env.Namespace))
	start := time.Now()
	defer monitoring.ObserveStage("analyze", start)

	var e model.Extraction
	_ = p.trackPhase(log, "extract", func() error {
		e = p.extractor.Extract(ctx, env)
		return nil
	})

	var set model.RetrievalSet
	_ = p.trackPhase(log, "retrieve", func() error {
		set = p.retriever.Retrieve(ctx, e, env.Namespace)
		return nil
	})

	var narrative string
	err := p.trackPhase(log, "compose", func() error {
		var cerr error
		narrative, cerr = p.composer.Compose(ctx, env.Message, e, set)
		return cerr
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: compose report")
	}

	resp := &model.AnalysisResponse{
		Ticker:          e.Ticker,
		CompanyName:     e.CompanyName,
		FinancialRatios: set.Financials.Ratios,
		YearlySales:     set.Financials.YearlySales,
		Narrative:       narrative,
		Retrieval:       set,
	}
	if model.Known(e.CompetitorName) {
		resp.CompetitorName = e.CompetitorName
	}
	if model.Known(e.CompetitorTicker) {
		resp.CompetitorTicker = e.CompetitorTicker
	}
	if resp.YearlySales == nil {
		resp.YearlySales = []model.YearlySales{}
	}

	log.Info("pipeline: analysis complete",
		zap.String("ticker", resp.Ticker),
		zap.Int("failed_slots", set.Failed()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return resp, nil
}

// Profile looks up a company, its competitor, both sales histories, the
// latest news and a short overview. Lookups are independent and soft.
func (p *Pipeline) Profile(ctx context.Context, firmName string) (*model.ProfileResponse, error) {
	if strings.TrimSpace(firmName) == "" {
		return nil, ErrEmptyFirmName
	}

	log := zap.L().With(zap.String("firm", firmName))
	start := time.Now()
	defer monitoring.ObserveStage("profile", start)

	e := p.extractor.Profile(ctx, firmName)
	resp := &model.ProfileResponse{
		CompanyName:           e.CompanyName,
		Ticker:                e.Ticker,
		CompetitorName:        e.CompetitorName,
		CompetitorTicker:      e.CompetitorTicker,
		YearlySales:           []model.YearlySales{},
		CompetitorYearlySales: []model.YearlySales{},
	}

	fanout := context.WithoutCancel(ctx)
	var snap model.FinancialSnapshot

	var g errgroup.Group
	if e.HasTicker() {
		g.Go(func() error {
			s, err := p.retriever.Financials(fanout, e.Ticker)
			if err != nil {
				log.Warn("pipeline: company financials unavailable", zap.Error(err))
			}
			snap = s
			return nil
		})
	}
	if e.HasCompetitor() {
		g.Go(func() error {
			sales, err := p.retriever.YearlySales(fanout, e.CompetitorTicker)
			if err != nil {
				log.Warn("pipeline: competitor sales unavailable", zap.Error(err))
				return nil
			}
			resp.CompetitorYearlySales = sales
			return nil
		})
	}
	if model.Known(e.CompanyName) {
		g.Go(func() error {
			news, err := p.retriever.WebSearch(fanout, "Latest News about "+e.CompanyName)
			if err != nil {
				log.Warn("pipeline: news search failed", zap.Error(err))
				return nil
			}
			resp.News = news
			return nil
		})
	}
	_ = g.Wait()

	resp.FinancialRatios = snap.Ratios
	if len(snap.YearlySales) > 0 {
		resp.YearlySales = snap.YearlySales
	}
	if snap.Ticker == "" {
		snap.Ticker = e.Ticker
	}
	resp.Overview = p.composer.Overview(ctx, snap, e.CompanyName, resp.News)

	log.Info("pipeline: profile complete",
		zap.String("ticker", resp.Ticker),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return resp, nil
}

// FirmTicker resolves a firm name to its company name and ticker.
func (p *Pipeline) FirmTicker(ctx context.Context, firmName string) (*model.FirmTicker, error) {
	if strings.TrimSpace(firmName) == "" {
		return nil, ErrEmptyFirmName
	}
	e := p.extractor.Ticker(ctx, firmName)
	return &model.FirmTicker{CompanyName: e.CompanyName, Ticker: e.Ticker}, nil
}

// trackPhase runs fn and logs its duration and outcome.
func (p *Pipeline) trackPhase(log *zap.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	duration := time.Since(start).Milliseconds()

	if err != nil {
		log.Error("pipeline: phase failed",
			zap.String("phase", name),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
		return err
	}
	log.Debug("pipeline: phase complete",
		zap.String("phase", name),
		zap.Int64("duration_ms", duration),
	)
	return nil
}
