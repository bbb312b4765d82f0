package retrieval

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/piquette/finance-go/datetime"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/monitoring"
	"github.com/sells-group/glance/pkg/yahoo"
)

// cagrMonths is the number of trailing monthly closes the CAGR spans.
const cagrMonths = 36

// ThreeYearCAGR returns the compound annual growth rate, in percent, between
// the first and last of the trailing 36 closes. It is nil with fewer than
// 36 points or a non-positive start.
func ThreeYearCAGR(closes []float64) *float64 {
	if len(closes) < cagrMonths {
		return nil
	}
	window := closes[len(closes)-cagrMonths:]
	first, last := window[0], window[len(window)-1]
	if first <= 0 || last < 0 {
		return nil
	}
	v := (math.Pow(last/first, 1.0/3.0) - 1) * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Financials fetches the quote, the statement summary and the monthly
// history for ticker concurrently. Each part fails on its own; the error is
// set only when no part succeeded.
func (r *Retriever) Financials(ctx context.Context, ticker string) (model.FinancialSnapshot, error) {
	snap := model.FinancialSnapshot{Ticker: ticker}
	log := zap.L().With(zap.String("ticker", ticker))

	var (
		quote   *yahoo.Quote
		summary *yahoo.Summary
		bars    []yahoo.Bar
		errs    [3]error
	)

	var g errgroup.Group
	g.Go(func() error {
		quote, errs[0] = observe(ctx, r.opts.CallTimeout, "yahoo_quote", func(ctx context.Context) (*yahoo.Quote, error) {
			return r.quotes.Quote(ctx, ticker)
		})
		return nil
	})
	g.Go(func() error {
		summary, errs[1] = r.summary(ctx, ticker)
		return nil
	})
	g.Go(func() error {
		end := r.now()
		start := end.AddDate(0, -(cagrMonths + 1), 0)
		bars, errs[2] = r.history(ctx, ticker, start, end)
		return nil
	})
	_ = g.Wait()

	if quote != nil {
		snap.Ratios.PERatio = model.Float(quote.TrailingPE)
		snap.Ratios.ForwardPE = model.Float(quote.ForwardPE)
		snap.Ratios.MarketCap = model.Float(quote.MarketCap)
		snap.Ratios.DividendYield = model.Float(quote.DividendYield)
	} else {
		log.Warn("retrieval: quote unavailable", zap.Error(errs[0]))
	}

	if summary != nil {
		snap.Ratios.QuickRatio = model.Float(summary.QuickRatio)
		snap.Ratios.CurrentRatio = model.Float(summary.CurrentRatio)
		snap.Ratios.DebtToEquity = model.Float(summary.DebtToEquity)
		snap.Ratios.ROE = model.Float(summary.ReturnOnEquity)
		snap.YearlySales = yearlySales(summary.Statements)
	} else {
		log.Warn("retrieval: statement summary unavailable", zap.Error(errs[1]))
	}

	if errs[2] == nil {
		snap.Ratios.ThreeYearCAGR = ThreeYearCAGR(adjustedCloses(bars))
	} else {
		log.Warn("retrieval: price history unavailable", zap.Error(errs[2]))
	}

	if errs[0] != nil && errs[1] != nil && errs[2] != nil {
		return snap, eris.Wrapf(errs[0], "retrieval: financials %s", ticker)
	}
	return snap, nil
}

// YearlySales fetches only the income-statement history for ticker.
func (r *Retriever) YearlySales(ctx context.Context, ticker string) ([]model.YearlySales, error) {
	summary, err := r.summary(ctx, ticker)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieval: yearly sales %s", ticker)
	}
	return yearlySales(summary.Statements), nil
}

func (r *Retriever) summary(ctx context.Context, ticker string) (*yahoo.Summary, error) {
	return observe(ctx, r.opts.CallTimeout, "yahoo_summary", func(ctx context.Context) (*yahoo.Summary, error) {
		return r.quotes.Summary(ctx, ticker)
	})
}

func (r *Retriever) history(ctx context.Context, ticker string, start, end time.Time) ([]yahoo.Bar, error) {
	return observe(ctx, r.opts.CallTimeout, "yahoo_history", func(ctx context.Context) ([]yahoo.Bar, error) {
		return r.quotes.History(ctx, ticker, start, end, datetime.OneMonth)
	})
}

// yearlySales orders statements oldest first and drops empty revenue.
func yearlySales(statements []yahoo.Statement) []model.YearlySales {
	out := make([]model.YearlySales, 0, len(statements))
	for _, s := range statements {
		if s.TotalRevenue == 0 {
			continue
		}
		out = append(out, model.YearlySales{Date: s.EndDate, Sales: s.TotalRevenue})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// adjustedCloses prefers the adjusted close and falls back to the close.
func adjustedCloses(bars []yahoo.Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		v := b.AdjClose
		if v == 0 {
			v = b.Close
		}
		out = append(out, v)
	}
	return out
}

// observe wraps a collaborator call with the per-call timeout and metrics.
func observe[T any](ctx context.Context, timeout time.Duration, kind string, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	v, err := fn(callCtx)
	monitoring.ObserveCall(kind, start, err)
	return v, err
}
