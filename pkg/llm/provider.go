// Package llm abstracts the text-completion backends used by the shopping
// advisor.
package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one provider-agnostic chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Option tunes a single request.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider's default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ResolveOptions applies opts over the given defaults.
func ResolveOptions(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider is implemented by every completion backend.
type LLMProvider interface {
	// Chat sends the conversation and returns the model's reply.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single user prompt.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Unavailable is a provider whose every call fails with Err. It stands in
// when no backend could be configured so the rest of the service still runs.
type Unavailable struct {
	Err error
}

func (u Unavailable) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", u.Err
}

func (u Unavailable) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return "", u.Err
}
