package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/glance/internal/cost"
	"github.com/sells-group/glance/internal/monitoring"
	"github.com/sells-group/glance/pkg/gemini"
)

type geminiClient struct {
	client gemini.Client
	model  string
	calc   *cost.Calculator
}

// NewGemini returns a Client that generates with the given Gemini model.
func NewGemini(client gemini.Client, model string) Client {
	return &geminiClient{client: client, model: model, calc: cost.NewCalculator(cost.DefaultRates())}
}

func (g *geminiClient) Generate(ctx context.Context, req Request) (string, error) {
	gr := gemini.GenerateRequest{
		Model:           g.model,
		System:          req.System,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		gr.Temperature = &t
	}
	if req.JSON {
		gr.ResponseMIMEType = "application/json"
	}
	for _, m := range req.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		gr.Contents = append(gr.Contents, gemini.Content{Role: role, Text: m.Content})
	}

	resp, err := g.client.GenerateContent(ctx, gr)
	if err != nil {
		return "", err
	}

	u := cost.Usage{Input: int64(resp.Usage.PromptTokens), Output: int64(resp.Usage.CandidateTokens)}
	usd := g.calc.Tokens(g.model, u)
	monitoring.ObserveUsage("gemini", req.Stage, u.Input, u.Output, usd)

	zap.L().Debug("llm: generation complete",
		zap.String("provider", "gemini"),
		zap.String("model", g.model),
		zap.String("stage", req.Stage),
		zap.String("finish_reason", resp.FinishReason),
		zap.Int32("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int32("output_tokens", resp.Usage.CandidateTokens),
		zap.Float64("estimated_cost_usd", usd),
	)
	return resp.Text, nil
}
