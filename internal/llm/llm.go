// Package llm adapts the vendor SDK clients to a single text-generation
// contract: role-tagged messages in, text out.
package llm

import (
	"context"
)

// Role tags a message in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged turn.
type Message struct {
	Role    Role
	Content string
}

// Request is a provider-neutral generation request.
type Request struct {
	System      string
	Messages    []Message
	MaxTokens   int
	Temperature *float64
	// JSON asks the provider for a JSON document where it supports
	// constrained output. Providers without support ignore it.
	JSON bool
	// Stage labels the call in logs and metrics.
	Stage string
}

// Client generates text. An empty string with a nil error means the
// provider answered with nothing usable.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// UserPrompt builds a single-turn request.
func UserPrompt(stage, system, prompt string, maxTokens int) Request {
	return Request{
		Stage:     stage,
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens: maxTokens,
	}
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(v float64) *float64 { return &v }
