// Package yahoo reads quotes, price history and statement summaries from
// Yahoo Finance.
package yahoo

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/rotisserie/eris"

	"github.com/sells-group/glance/internal/resilience"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// ErrNotFound is returned when Yahoo has no data for the symbol.
var ErrNotFound = eris.New("yahoo: symbol not found")

// Client defines the Yahoo Finance operations used by the service.
type Client interface {
	Quote(ctx context.Context, symbol string) (*Quote, error)
	History(ctx context.Context, symbol string, start, end time.Time, interval datetime.Interval) ([]Bar, error)
	Summary(ctx context.Context, symbol string) (*Summary, error)
}

// Quote holds the point-in-time fields of an equity quote. Zero means the
// field was not reported.
type Quote struct {
	Symbol        string
	Name          string
	Price         float64
	MarketCap     float64
	TrailingPE    float64
	ForwardPE     float64
	DividendYield float64
}

// Bar is one interval of price history.
type Bar struct {
	Time     time.Time
	Close    float64
	AdjClose float64
}

// Summary holds balance-sheet ratios and the annual income statements.
type Summary struct {
	QuickRatio     float64
	CurrentRatio   float64
	DebtToEquity   float64
	ReturnOnEquity float64
	Statements     []Statement
}

// Statement is one annual income statement.
type Statement struct {
	EndDate      string
	TotalRevenue float64
}

// Option configures the client.
type Option func(*client)

// WithBaseURL overrides the quoteSummary base URL.
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.rest.SetBaseURL(url)
	}
}

// WithTimeout sets the quoteSummary request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.rest.SetTimeout(d)
	}
}

type client struct {
	rest *resty.Client

	// finance-go calls, replaceable in tests.
	equityFn  func(symbol string) (*finance.Equity, error)
	historyFn func(params *chart.Params) ([]Bar, error)
}

// NewClient creates a Yahoo Finance client.
func NewClient(opts ...Option) Client {
	c := &client{
		rest: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(15*time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (compatible; glance/1.0)").
			SetHeader("Accept", "application/json"),
		equityFn:  equity.Get,
		historyFn: chartHistory,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	type result struct {
		eq  *finance.Equity
		err error
	}
	ch := make(chan result, 1)
	go func() {
		eq, err := c.equityFn(symbol)
		ch <- result{eq, err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "yahoo: quote %s", symbol)
	case r = <-ch:
	}
	if r.err != nil {
		return nil, eris.Wrapf(r.err, "yahoo: quote %s", symbol)
	}
	if r.eq == nil {
		return nil, eris.Wrapf(ErrNotFound, "yahoo: quote %s", symbol)
	}

	name := r.eq.LongName
	if name == "" {
		name = r.eq.ShortName
	}
	return &Quote{
		Symbol:        r.eq.Symbol,
		Name:          name,
		Price:         r.eq.RegularMarketPrice,
		MarketCap:     float64(r.eq.MarketCap),
		TrailingPE:    r.eq.TrailingPE,
		ForwardPE:     r.eq.ForwardPE,
		DividendYield: r.eq.TrailingAnnualDividendYield,
	}, nil
}

func (c *client) History(ctx context.Context, symbol string, start, end time.Time, interval datetime.Interval) ([]Bar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: interval,
	}

	type result struct {
		bars []Bar
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		bars, err := c.historyFn(params)
		ch <- result{bars, err}
	}()

	select {
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "yahoo: history %s", symbol)
	case r := <-ch:
		if r.err != nil {
			return nil, eris.Wrapf(r.err, "yahoo: history %s", symbol)
		}
		return r.bars, nil
	}
}

func chartHistory(params *chart.Params) ([]Bar, error) {
	iter := chart.Get(params)

	var bars []Bar
	for iter.Next() {
		b := iter.Bar()
		cl, _ := b.Close.Float64()
		adj, _ := b.AdjClose.Float64()
		bars = append(bars, Bar{
			Time:     time.Unix(int64(b.Timestamp), 0).UTC(),
			Close:    cl,
			AdjClose: adj,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

type rawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type summaryEnvelope struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				QuickRatio     rawValue `json:"quickRatio"`
				CurrentRatio   rawValue `json:"currentRatio"`
				DebtToEquity   rawValue `json:"debtToEquity"`
				ReturnOnEquity rawValue `json:"returnOnEquity"`
			} `json:"financialData"`
			IncomeStatementHistory struct {
				Statements []struct {
					EndDate      rawValue `json:"endDate"`
					TotalRevenue rawValue `json:"totalRevenue"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (c *client) Summary(ctx context.Context, symbol string) (*Summary, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParam("modules", "financialData,incomeStatementHistory").
		Get("/v10/finance/quoteSummary/{symbol}")
	if err != nil {
		return nil, eris.Wrapf(err, "yahoo: summary %s", symbol)
	}

	var env summaryEnvelope
	if jerr := json.Unmarshal(resp.Body(), &env); jerr != nil && resp.StatusCode() == http.StatusOK {
		return nil, eris.Wrapf(jerr, "yahoo: unmarshal summary %s", symbol)
	}

	if resp.StatusCode() == http.StatusNotFound ||
		(env.QuoteSummary.Error != nil && strings.EqualFold(env.QuoteSummary.Error.Code, "Not Found")) {
		return nil, eris.Wrapf(ErrNotFound, "yahoo: summary %s", symbol)
	}
	if resp.StatusCode() != http.StatusOK {
		err := eris.Errorf("yahoo: unexpected status %d: %s", resp.StatusCode(), resp.String())
		if resilience.IsTransientHTTPStatus(resp.StatusCode()) {
			return nil, resilience.NewTransientError(err, resp.StatusCode())
		}
		return nil, err
	}
	if len(env.QuoteSummary.Result) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "yahoo: summary %s", symbol)
	}

	r := env.QuoteSummary.Result[0]
	out := &Summary{
		QuickRatio:     r.FinancialData.QuickRatio.Raw,
		CurrentRatio:   r.FinancialData.CurrentRatio.Raw,
		DebtToEquity:   r.FinancialData.DebtToEquity.Raw,
		ReturnOnEquity: r.FinancialData.ReturnOnEquity.Raw,
	}
	for _, s := range r.IncomeStatementHistory.Statements {
		date := s.EndDate.Fmt
		if date == "" && s.EndDate.Raw > 0 {
			date = time.Unix(int64(s.EndDate.Raw), 0).UTC().Format("2006-01-02")
		}
		out.Statements = append(out.Statements, Statement{
			EndDate:      date,
			TotalRevenue: s.TotalRevenue.Raw,
		})
	}
	return out, nil
}
