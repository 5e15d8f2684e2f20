package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ragkit/ragkit-go/ragkit"
)

// stubPipeline returns a canned result or error.
type stubPipeline struct {
	result *ragkit.Result
	err    error
	calls  int
}

func (s *stubPipeline) Process(ctx context.Context, query string) (*ragkit.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestTracingPipelinePassesThrough(t *testing.T) {
	want := &ragkit.Result{
		QueryRecord: ragkit.QueryRecord{
			ToolChosen: "direct_answer",
			Reply:      "Paris.",
			WordCount:  1,
		},
	}
	inner := &stubPipeline{result: want}
	wrapped := NewTracingPipeline(inner, "")

	got, err := wrapped.Process(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got != want {
		t.Error("expected result passed through unmodified")
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestTracingPipelinePropagatesError(t *testing.T) {
	inner := &stubPipeline{err: errors.New("engine down")}
	wrapped := NewTracingPipeline(inner, "custom.span")

	_, err := wrapped.Process(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "engine down") {
		t.Fatalf("expected inner error, got %v", err)
	}
}

func TestMetricsPipelinePassesThrough(t *testing.T) {
	want := &ragkit.Result{
		QueryRecord: ragkit.QueryRecord{ToolChosen: "retrieve_context"},
	}
	inner := &stubPipeline{result: want}
	wrapped, err := NewMetricsPipeline(inner)
	if err != nil {
		t.Fatalf("NewMetricsPipeline failed: %v", err)
	}

	got, err := wrapped.Process(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got != want {
		t.Error("expected result passed through unmodified")
	}
}

func TestMetricsPipelinePropagatesError(t *testing.T) {
	inner := &stubPipeline{err: errors.New("engine down")}
	wrapped, err := NewMetricsPipeline(inner)
	if err != nil {
		t.Fatalf("NewMetricsPipeline failed: %v", err)
	}

	if _, err := wrapped.Process(context.Background(), "anything"); err == nil {
		t.Fatal("expected inner error")
	}
}

func TestTraceContextHandlerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	handler := NewTraceContextHandler(slog.NewTextHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Info("no active span")

	out := buf.String()
	if strings.Contains(out, "trace_id") {
		t.Errorf("expected no trace_id without an active span, got %q", out)
	}
	if !strings.Contains(out, "no active span") {
		t.Errorf("expected message in output, got %q", out)
	}
}
