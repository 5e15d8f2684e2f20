package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/ragkit/ragkit-go/adapter/llm"
)

// TimeoutConfig configures timeout behavior.
type TimeoutConfig struct {
	// Timeout is the per-call timeout duration.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultTimeoutConfig returns a timeout config with sensible defaults.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Timeout: 30 * time.Second,
	}
}

// TimeoutError is returned when a call exceeds the configured timeout.
type TimeoutError struct {
	Model   string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("call to model '%s' timed out after %v", e.Model, e.Timeout)
}

// TimeoutLLM wraps a reasoning engine with a per-call deadline.
//
// The call runs in a goroutine so the deadline is enforced even for adapters
// that do not respect context cancellation.
//
// Example:
//
//	engine := middleware.NewTimeoutLLM(
//	    llm.NewOllamaLLM("llama3", ""),
//	    middleware.TimeoutConfig{Timeout: 10 * time.Second},
//	)
type TimeoutLLM struct {
	inner  llm.LLM
	config TimeoutConfig
}

var _ llm.LLM = (*TimeoutLLM)(nil)

// NewTimeoutLLM creates a new timeout decorator.
func NewTimeoutLLM(inner llm.LLM, config TimeoutConfig) *TimeoutLLM {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &TimeoutLLM{
		inner:  inner,
		config: config,
	}
}

// Model returns the model identifier of the wrapped engine.
func (t *TimeoutLLM) Model() string {
	return t.inner.Model()
}

// Complete calls the wrapped engine, failing with *TimeoutError if the call
// does not return within the configured timeout.
func (t *TimeoutLLM) Complete(ctx context.Context, prompt string, opts ...llm.CallOption) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}

	// Buffered so the goroutine never leaks when the deadline fires first.
	done := make(chan result, 1)

	go func() {
		text, err := t.inner.Complete(timeoutCtx, prompt, opts...)
		done <- result{text, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if timeoutCtx.Err() == context.DeadlineExceeded {
				return "", &TimeoutError{Model: t.Model(), Timeout: t.config.Timeout}
			}
			return "", res.err
		}
		return res.text, nil

	case <-timeoutCtx.Done():
		return "", &TimeoutError{Model: t.Model(), Timeout: t.config.Timeout}
	}
}
