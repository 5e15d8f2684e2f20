package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ragkit/ragkit-go/adapter/llm"
)

// flakyLLM fails a fixed number of times before succeeding.
type flakyLLM struct {
	failures int
	calls    int
	delay    time.Duration
}

func (f *flakyLLM) Complete(ctx context.Context, prompt string, opts ...llm.CallOption) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.calls <= f.failures {
		return "", errors.New("transient failure")
	}
	return "ok", nil
}

func (f *flakyLLM) Model() string { return "flaky" }

func TestRetryLLMSucceedsAfterTransientFailures(t *testing.T) {
	inner := &flakyLLM{failures: 2}
	engine := NewRetryLLM(inner, RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})

	text, err := engine.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ok" {
		t.Errorf("expected ok, got %q", text)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryLLMExhaustsAttempts(t *testing.T) {
	inner := &flakyLLM{failures: 10}
	engine := NewRetryLLM(inner, RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})

	_, err := engine.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !strings.Contains(err.Error(), "max retry attempts") {
		t.Errorf("unexpected error: %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", inner.calls)
	}
}

func TestRetryLLMNonRetryableError(t *testing.T) {
	inner := &flakyLLM{failures: 10}
	engine := NewRetryLLM(inner, RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		ShouldRetry:    func(error) bool { return false },
	})

	_, err := engine.Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 1 {
		t.Errorf("expected a single attempt for non-retryable error, got %d", inner.calls)
	}
}

func TestTimeoutLLMPassesThrough(t *testing.T) {
	inner := &flakyLLM{}
	engine := NewTimeoutLLM(inner, TimeoutConfig{Timeout: time.Second})

	text, err := engine.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ok" {
		t.Errorf("expected ok, got %q", text)
	}
}

func TestTimeoutLLMDeadline(t *testing.T) {
	inner := &flakyLLM{delay: 200 * time.Millisecond}
	engine := NewTimeoutLLM(inner, TimeoutConfig{Timeout: 10 * time.Millisecond})

	_, err := engine.Complete(context.Background(), "prompt")
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if timeoutErr.Model != "flaky" {
		t.Errorf("expected model name in error, got %q", timeoutErr.Model)
	}
}

func TestDecoratorsCompose(t *testing.T) {
	inner := &flakyLLM{failures: 1}
	engine := NewRetryLLM(
		NewTimeoutLLM(inner, TimeoutConfig{Timeout: time.Second}),
		RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond},
	)

	text, err := engine.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ok" {
		t.Errorf("expected ok, got %q", text)
	}
	if engine.Model() != "flaky" {
		t.Errorf("expected model passthrough, got %q", engine.Model())
	}
}
