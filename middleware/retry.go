// Package middleware provides reusable decorators for reasoning engines.
//
// The pipeline core deliberately carries no retry or timeout policy of its
// own; wrap the engine with these decorators to add it at construction time.
package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/ragkit/ragkit-go/adapter/llm"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial attempt).
	// Default: 3
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	// Default: 100ms
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	// Default: 10s
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	// Default: 2.0
	BackoffMultiplier float64

	// ShouldRetry determines if an error should trigger a retry.
	// If nil, all errors trigger retries.
	ShouldRetry func(error) bool
}

// DefaultRetryConfig returns a retry config with sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryLLM wraps a reasoning engine with retry logic.
//
// Example:
//
//	engine := middleware.NewRetryLLM(
//	    llm.NewOpenAILLM(apiKey, "gpt-4o"),
//	    middleware.DefaultRetryConfig(),
//	)
type RetryLLM struct {
	inner  llm.LLM
	config RetryConfig
}

var _ llm.LLM = (*RetryLLM)(nil)

// NewRetryLLM creates a new retry decorator.
func NewRetryLLM(inner llm.LLM, config RetryConfig) *RetryLLM {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 100 * time.Millisecond
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 10 * time.Second
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	return &RetryLLM{
		inner:  inner,
		config: config,
	}
}

// Model returns the model identifier of the wrapped engine.
func (r *RetryLLM) Model() string {
	return r.inner.Model()
}

// Complete calls the wrapped engine, retrying with exponential backoff.
func (r *RetryLLM) Complete(ctx context.Context, prompt string, opts ...llm.CallOption) (string, error) {
	var lastErr error
	backoff := r.config.InitialBackoff

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		response, err := r.inner.Complete(ctx, prompt, opts...)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if r.config.ShouldRetry != nil && !r.config.ShouldRetry(err) {
			return "", fmt.Errorf("non-retryable error on attempt %d/%d: %w", attempt, r.config.MaxAttempts, err)
		}

		if attempt == r.config.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * r.config.BackoffMultiplier)
			if backoff > r.config.MaxBackoff {
				backoff = r.config.MaxBackoff
			}
		}
	}

	return "", fmt.Errorf("max retry attempts (%d) exceeded: %w", r.config.MaxAttempts, lastErr)
}
