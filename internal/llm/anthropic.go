package llm

import (
	"context"

	"github.com/sells-group/glance/internal/cost"
	"github.com/sells-group/glance/internal/monitoring"
	"github.com/sells-group/glance/pkg/anthropic"
)

type anthropicClient struct {
	client anthropic.Client
	model  string
	calc   *cost.Calculator
}

// NewAnthropic returns a Client that generates with the given Claude model.
// Request.JSON is ignored; the prompt carries the format instruction.
func NewAnthropic(client anthropic.Client, model string) Client {
	return &anthropicClient{client: client, model: model, calc: cost.NewCalculator(cost.DefaultRates())}
}

func (a *anthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	mr := anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: req.Temperature,
	}
	if req.System != "" {
		mr.System = anthropic.CachedSystem(req.System)
	}
	for _, m := range req.Messages {
		mr.Messages = append(mr.Messages, anthropic.Message{Role: string(m.Role), Content: m.Content})
	}

	resp, err := a.client.CreateMessage(ctx, mr)
	if err != nil {
		return "", err
	}
	u := cost.Usage{
		Input:      resp.Usage.InputTokens,
		Output:     resp.Usage.OutputTokens,
		CacheWrite: resp.Usage.CacheCreationInputTokens,
		CacheRead:  resp.Usage.CacheReadInputTokens,
	}
	usd := a.calc.Tokens(a.model, u)
	resp.Usage.LogCost(a.model, req.Stage, usd)
	monitoring.ObserveUsage("anthropic", req.Stage, u.Input, u.Output, usd)
	return resp.Text(), nil
}
