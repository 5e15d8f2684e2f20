package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ragkit/ragkit-go/ragkit"
)

// scriptedRetriever returns fixed documents or a fixed error.
type scriptedRetriever struct {
	docs      []ragkit.Document
	err       error
	lastQuery string
}

func (r *scriptedRetriever) Search(ctx context.Context, query string) ([]ragkit.Document, error) {
	r.lastQuery = query
	if r.err != nil {
		return nil, r.err
	}
	return r.docs, nil
}

func TestRetrieveContext_FormatsRankedHits(t *testing.T) {
	retriever := &scriptedRetriever{docs: []ragkit.Document{
		{Text: "Backpropagation computes gradients.", Source: "ML Book", Score: 0.91},
		{Text: "Gradient descent minimizes loss.", Source: "ML Book", Score: 0.84},
	}}
	tool := NewRetrieveContext(retriever)

	out, err := tool.Execute(context.Background(), map[string]string{"query": "how are networks trained"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if retriever.lastQuery != "how are networks trained" {
		t.Errorf("retriever received query %q", retriever.lastQuery)
	}

	blocks := strings.Split(out, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %q", len(blocks), out)
	}
	if !strings.HasPrefix(blocks[0], "[Source: ML Book | Score: 0.91]\n") {
		t.Errorf("unexpected block header: %q", blocks[0])
	}
	if !strings.Contains(blocks[1], "Gradient descent minimizes loss.") {
		t.Errorf("second block missing document text: %q", blocks[1])
	}
}

func TestRetrieveContext_EmptyResultYieldsEmptyString(t *testing.T) {
	tool := NewRetrieveContext(&scriptedRetriever{})

	out, err := tool.Execute(context.Background(), map[string]string{"query": "anything"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output for zero hits, got %q", out)
	}
}

func TestRetrieveContext_WrapsCollaboratorFailure(t *testing.T) {
	cause := errors.New("index unavailable")
	tool := NewRetrieveContext(&scriptedRetriever{err: cause})

	_, err := tool.Execute(context.Background(), map[string]string{"query": "refund policy"})
	if err == nil {
		t.Fatal("expected error")
	}

	var retrievalErr *ragkit.RetrievalError
	if !errors.As(err, &retrievalErr) {
		t.Fatalf("expected *ragkit.RetrievalError, got %T", err)
	}
	if retrievalErr.Query != "refund policy" {
		t.Errorf("expected query in error, got %q", retrievalErr.Query)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestDirectAnswer_ReturnsEmptyMarker(t *testing.T) {
	tool := NewDirectAnswer()

	out, err := tool.Execute(context.Background(), map[string]string{"query": "what is 2+2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "" {
		t.Errorf("direct answer tool must return empty output, got %q", out)
	}
}
