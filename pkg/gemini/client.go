// Package gemini wraps the Google Gen AI SDK for text generation and
// embeddings against either the Gemini API or Vertex AI.
package gemini

import (
	"context"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// Client defines the Gemini operations used by the service.
type Client interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	EmbedContent(ctx context.Context, model, text string) ([]float32, error)
}

// Backend values accepted by Config.
const (
	BackendAPI    = "api"
	BackendVertex = "vertex"
)

// Config selects the backend and credentials.
type Config struct {
	APIKey   string
	Backend  string
	Project  string
	Location string
}

// Content is one role-tagged turn. Role is "user" or "model".
type Content struct {
	Role string
	Text string
}

// GenerateRequest is our own request type for GenerateContent.
type GenerateRequest struct {
	Model            string
	System           string
	Contents         []Content
	MaxOutputTokens  int32
	Temperature      *float32
	ResponseMIMEType string
}

// GenerateResponse is our own response type from GenerateContent.
type GenerateResponse struct {
	Text         string
	FinishReason string
	Usage        TokenUsage
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	PromptTokens    int32
	CandidateTokens int32
}

// Option configures the client.
type Option func(*genai.ClientConfig)

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *genai.ClientConfig) {
		c.HTTPClient = hc
	}
}

type sdkClient struct {
	client *genai.Client
}

// NewClient creates a Gemini client for the configured backend.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (Client, error) {
	cc := &genai.ClientConfig{}
	switch cfg.Backend {
	case BackendVertex:
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	default:
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}
	for _, o := range opts {
		o(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return &sdkClient{client: client}, nil
}

func (c *sdkClient) GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, m := range req.Contents {
		role := genai.Role(genai.RoleUser)
		if m.Role == "model" {
			role = genai.Role(genai.RoleModel)
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature:      req.Temperature,
		MaxOutputTokens:  req.MaxOutputTokens,
		ResponseMIMEType: req.ResponseMIMEType,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.Role(genai.RoleUser))
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	return fromSDKResponse(result), nil
}

func (c *sdkClient) EmbedContent(ctx context.Context, model, text string) ([]float32, error) {
	result, err := c.client.Models.EmbedContent(ctx, model, genai.Text(text), nil)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: embed content")
	}
	if len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, eris.New("gemini: no embedding returned")
	}
	return result.Embeddings[0].Values, nil
}

// fromSDKResponse joins the text parts of the first candidate. A response
// with no candidates yields empty text, not an error.
func fromSDKResponse(result *genai.GenerateContentResponse) *GenerateResponse {
	out := &GenerateResponse{}
	if result == nil {
		return out
	}
	if result.UsageMetadata != nil {
		out.Usage = TokenUsage{
			PromptTokens:    result.UsageMetadata.PromptTokenCount,
			CandidateTokens: result.UsageMetadata.CandidatesTokenCount,
		}
	}
	if len(result.Candidates) == 0 || result.Candidates[0] == nil {
		return out
	}

	cand := result.Candidates[0]
	out.FinishReason = string(cand.FinishReason)
	if cand.Content == nil {
		return out
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	out.Text = b.String()
	return out
}
