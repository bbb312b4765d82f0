// Package report assembles the retrieved material into one prompt and asks
// the LLM for the narrative.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/glance/internal/llm"
	"github.com/sells-group/glance/internal/model"
	"github.com/sells-group/glance/internal/monitoring"
)

const systemPrompt = `You are a financial analyst specializing in fundamental analysis of stocks. Using the information provided, generate a comprehensive fundamental analysis report for the stock that answers the user's question. The report should be well-structured and informative, in markdown. Address the user's original query directly with clear analysis. Highlight the data points that lead to your conclusions. Perform the analysis and give definitive answers rather than suggesting approaches. Build up to a conclusion that answers the user's question.

The knowledge base segments are written for the American market. Adapt them to the %[1]s context, avoiding references to Benjamin Graham, NASDAQ or DJI, and use %[2]s as the benchmark instead. Do not include warnings or disclaimers.`

const overviewPrompt = `Generate a 30-word detailed financial overview for the following company based on the provided financial data and latest news:

Company Name: %s
%s

Latest News: %s`

// Options configures market conventions and output size.
type Options struct {
	Market    string
	Benchmark string
	MaxTokens int
}

// Composer makes the single report LLM call.
type Composer struct {
	llm  llm.Client
	opts Options
}

// New creates a Composer.
func New(client llm.Client, opts Options) *Composer {
	if opts.Market == "" {
		opts.Market = "Indian"
	}
	if opts.Benchmark == "" {
		opts.Benchmark = "Nifty"
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 4096
	}
	return &Composer{llm: client, opts: opts}
}

// Compose returns the narrative for the query. An LLM error is returned to
// the caller; an empty answer becomes model.NoResponse.
func (c *Composer) Compose(ctx context.Context, query string, e model.Extraction, set model.RetrievalSet) (string, error) {
	start := time.Now()
	defer monitoring.ObserveStage("compose", start)

	req := llm.UserPrompt("report", c.System(), BuildContext(query, e, set, c.opts), c.opts.MaxTokens)

	callStart := time.Now()
	text, err := c.llm.Generate(ctx, req)
	monitoring.ObserveCall("llm_report", callStart, err)
	if err != nil {
		return "", eris.Wrap(err, "report: generate narrative")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		zap.L().Warn("report: empty narrative", zap.String("ticker", e.Ticker))
		return model.NoResponse, nil
	}
	return text, nil
}

// Overview asks for a short summary of a company profile. Failures yield
// an empty overview.
func (c *Composer) Overview(ctx context.Context, snap model.FinancialSnapshot, companyName, news string) string {
	prompt := fmt.Sprintf(overviewPrompt, companyName, FormatRatios(snap), news)
	req := llm.UserPrompt("overview", "", prompt, 256)

	start := time.Now()
	text, err := c.llm.Generate(ctx, req)
	monitoring.ObserveCall("llm_overview", start, err)
	if err != nil {
		zap.L().Warn("report: overview failed", zap.String("company", companyName), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}

// System returns the system instruction for the configured market.
func (c *Composer) System() string {
	return fmt.Sprintf(systemPrompt, c.opts.Market, c.opts.Benchmark)
}
