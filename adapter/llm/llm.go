// Package llm provides reasoning-engine adapters for ragkit.
//
// The pipeline performs two blocking round trips per query (tool decision,
// then answer synthesis), so the adapter contract is a single synchronous
// Complete call: prompt in, raw text out. There is no streaming and no
// structured-output guarantee; the agent parses responses tolerantly.
//
// Transport failures (network, auth, rate limits) are returned unmodified;
// retry and timeout policy belongs to the middleware package, never to the
// adapters or the agent core.
package llm

import "context"

// LLM is the minimal reasoning-engine contract.
//
// Example:
//
//	engine := llm.NewOpenAILLM("sk-...", "gpt-4o")
//	text, err := engine.Complete(ctx, prompt, llm.WithTemperature(0.2))
type LLM interface {
	// Complete sends a prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string, opts ...CallOption) (string, error)

	// Model returns the model identifier for this instance.
	Model() string
}

// CallOptions holds provider-specific options for LLM calls.
type CallOptions struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64

	// Extra carries provider-specific options by name.
	Extra map[string]interface{}
}

// CallOption is a functional option for configuring LLM calls.
type CallOption func(*CallOptions)

// WithTemperature sets the sampling temperature (typically 0.0-2.0).
func WithTemperature(temperature float64) CallOption {
	return func(opts *CallOptions) {
		opts.Temperature = &temperature
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(maxTokens int) CallOption {
	return func(opts *CallOptions) {
		opts.MaxTokens = &maxTokens
	}
}

// WithTopP sets the nucleus sampling parameter.
func WithTopP(topP float64) CallOption {
	return func(opts *CallOptions) {
		opts.TopP = &topP
	}
}

// WithExtra adds a provider-specific option.
func WithExtra(key string, value interface{}) CallOption {
	return func(opts *CallOptions) {
		if opts.Extra == nil {
			opts.Extra = make(map[string]interface{})
		}
		opts.Extra[key] = value
	}
}

// BuildCallOptions creates CallOptions from functional options.
func BuildCallOptions(opts ...CallOption) *CallOptions {
	options := &CallOptions{
		Extra: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
