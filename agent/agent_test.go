package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ragkit/ragkit-go/adapter/llm"
	"github.com/ragkit/ragkit-go/ragkit"
	"github.com/ragkit/ragkit-go/tools"
)

// fakeLLM returns queued responses in order and records every prompt.
type fakeLLM struct {
	responses []string
	errs      []error
	prompts   []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, opts ...llm.CallOption) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if call < len(f.errs) && f.errs[call] != nil {
		return "", fmt.Errorf("llm call failed: %w", f.errs[call])
	}
	if call < len(f.responses) {
		return f.responses[call], nil
	}
	return "", nil
}

func (f *fakeLLM) Model() string { return "fake" }

// stubRetriever returns a fixed document set, or an error.
type stubRetriever struct {
	docs []ragkit.Document
	err  error
}

func (r *stubRetriever) Search(ctx context.Context, query string) ([]ragkit.Document, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.docs, nil
}

func newTestAgent(t *testing.T, engine *fakeLLM, retriever ragkit.Retriever) *Agent {
	t.Helper()
	if retriever == nil {
		retriever = &stubRetriever{}
	}
	a, err := New(Options{
		LLM:   engine,
		Tools: tools.NewDefaultRegistry(retriever),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestProcessDirectAnswerHappyPath(t *testing.T) {
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"general knowledge","tool_choice":"direct_answer","tool_input":{"query":"What is the capital of France?"}}`,
		`{"reply":"Paris.","word_count":1}`,
	}}
	a := newTestAgent(t, engine, nil)

	result, err := a.Process(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ToolChosen != tools.DirectAnswerName {
		t.Errorf("expected tool %q, got %q", tools.DirectAnswerName, result.ToolChosen)
	}
	if result.RetrievedContext != nil {
		t.Errorf("expected no retrieved context, got %q", *result.RetrievedContext)
	}
	if result.Reply != "Paris." {
		t.Errorf("expected reply %q, got %q", "Paris.", result.Reply)
	}
	if result.WordCount != 1 {
		t.Errorf("expected word count 1, got %d", result.WordCount)
	}
	if len(result.ConversationHistory) != 1 {
		t.Errorf("expected 1 history record, got %d", len(result.ConversationHistory))
	}
}

func TestProcessRetrievalFeedsSynthesisPrompt(t *testing.T) {
	const knownContext = "Refunds are issued within 14 days per section 4."
	retriever := &stubRetriever{docs: []ragkit.Document{
		{Text: knownContext, Source: "policy.md", Score: 0.93},
	}}
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"needs policy details","tool_choice":"retrieve_context","tool_input":{"query":"refund policy section 4"}}`,
		`{"reply":"Refunds are issued within 14 days.","word_count":6}`,
	}}
	a := newTestAgent(t, engine, retriever)

	result, err := a.Process(context.Background(), "Explain the refund policy in section 4")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ToolChosen != tools.RetrieveContextName {
		t.Fatalf("expected tool %q, got %q", tools.RetrieveContextName, result.ToolChosen)
	}
	if result.RetrievedContext == nil {
		t.Fatal("expected retrieved context to be present")
	}
	if !strings.Contains(*result.RetrievedContext, knownContext) {
		t.Errorf("retrieved context missing document text: %q", *result.RetrievedContext)
	}

	if len(engine.prompts) != 2 {
		t.Fatalf("expected 2 engine calls, got %d", len(engine.prompts))
	}
	if !strings.Contains(engine.prompts[1], knownContext) {
		t.Error("synthesis prompt does not contain the retrieved document text")
	}
}

func TestProcessEmptyQuery(t *testing.T) {
	engine := &fakeLLM{}
	a := newTestAgent(t, engine, nil)

	for _, query := range []string{"", "   ", "\n\t"} {
		_, err := a.Process(context.Background(), query)
		if !errors.Is(err, ragkit.ErrEmptyQuery) {
			t.Errorf("Process(%q): expected ErrEmptyQuery, got %v", query, err)
		}
	}
	if len(engine.prompts) != 0 {
		t.Errorf("expected no engine calls for empty queries, got %d", len(engine.prompts))
	}

	records, err := a.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}
}

func TestProcessProseDecisionFallsBack(t *testing.T) {
	engine := &fakeLLM{responses: []string{
		"I think the retrieval tool would be best for this question.",
		`{"reply":"Answered anyway.","word_count":2}`,
	}}
	a := newTestAgent(t, engine, nil)

	result, err := a.Process(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ToolChosen != tools.DirectAnswerName {
		t.Errorf("expected fallback to %q, got %q", tools.DirectAnswerName, result.ToolChosen)
	}
	if result.ToolReasoning != fallbackReasoning {
		t.Errorf("expected fallback reasoning %q, got %q", fallbackReasoning, result.ToolReasoning)
	}
	if len(result.ConversationHistory) != 1 {
		t.Errorf("expected exactly one history record, got %d", len(result.ConversationHistory))
	}
}

func TestProcessUnregisteredToolFallsBack(t *testing.T) {
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"sounds useful","tool_choice":"web_search","tool_input":{"query":"anything"}}`,
		`{"reply":"ok","word_count":1}`,
	}}
	a := newTestAgent(t, engine, nil)

	result, err := a.Process(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ToolChosen != tools.DirectAnswerName {
		t.Errorf("expected fallback to %q, got %q", tools.DirectAnswerName, result.ToolChosen)
	}
	if !strings.Contains(result.ToolReasoning, fallbackReasoning) {
		t.Errorf("expected reasoning to contain fallback marker, got %q", result.ToolReasoning)
	}
}

func TestProcessCaseInsensitiveToolChoice(t *testing.T) {
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"r","tool_choice":"Direct_Answer","tool_input":{"query":"q"}}`,
		`{"reply":"ok","word_count":1}`,
	}}
	a := newTestAgent(t, engine, nil)

	result, err := a.Process(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.ToolChosen != tools.DirectAnswerName {
		t.Errorf("expected canonical name %q, got %q", tools.DirectAnswerName, result.ToolChosen)
	}
	if result.ToolReasoning != "r" {
		t.Errorf("expected engine reasoning kept, got %q", result.ToolReasoning)
	}
}

func TestProcessMalformedSynthesisFallsBackToRawReply(t *testing.T) {
	const rawSynthesis = "Paris is the capital of France, of course."
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"r","tool_choice":"direct_answer","tool_input":{"query":"q"}}`,
		rawSynthesis,
	}}
	a := newTestAgent(t, engine, nil)

	result, err := a.Process(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if result.Reply != rawSynthesis {
		t.Errorf("expected raw response as reply, got %q", result.Reply)
	}
	if want := len(strings.Fields(rawSynthesis)); result.WordCount != want {
		t.Errorf("expected locally computed word count %d, got %d", want, result.WordCount)
	}
}

func TestProcessRetrievalErrorAppendsNothing(t *testing.T) {
	retriever := &stubRetriever{err: errors.New("vector store offline")}
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"r","tool_choice":"retrieve_context","tool_input":{"query":"q"}}`,
	}}
	a := newTestAgent(t, engine, retriever)

	_, err := a.Process(context.Background(), "anything")
	var retrievalErr *ragkit.RetrievalError
	if !errors.As(err, &retrievalErr) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}

	records, err := a.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no history record after retrieval failure, got %d", len(records))
	}
}

func TestProcessTransportErrorAppendsNothing(t *testing.T) {
	engine := &fakeLLM{errs: []error{errors.New("rate limited")}}
	a := newTestAgent(t, engine, nil)

	_, err := a.Process(context.Background(), "anything")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected transport error, got %v", err)
	}

	records, err := a.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no history record after transport failure, got %d", len(records))
	}
}

func TestHistoryGrowsInCallOrder(t *testing.T) {
	const n = 4
	responses := make([]string, 0, 2*n)
	for i := 0; i < n; i++ {
		responses = append(responses,
			fmt.Sprintf(`{"reasoning":"r","tool_choice":"direct_answer","tool_input":{"query":"q%d"}}`, i),
			fmt.Sprintf(`{"reply":"reply %d","word_count":2}`, i),
		)
	}
	engine := &fakeLLM{responses: responses}
	a := newTestAgent(t, engine, nil)

	for i := 0; i < n; i++ {
		if _, err := a.Process(context.Background(), fmt.Sprintf("question %d", i)); err != nil {
			t.Fatalf("Process %d failed: %v", i, err)
		}
	}

	records, err := a.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != n {
		t.Fatalf("expected %d records, got %d", n, len(records))
	}
	for i, record := range records {
		if record.Query != fmt.Sprintf("question %d", i) {
			t.Errorf("record %d out of order: query %q", i, record.Query)
		}
	}
}

func TestClearHistory(t *testing.T) {
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"r","tool_choice":"direct_answer","tool_input":{"query":"q"}}`,
		`{"reply":"ok","word_count":1}`,
	}}
	a := newTestAgent(t, engine, nil)

	if _, err := a.Process(context.Background(), "anything"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if err := a.ClearHistory(context.Background()); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}

	records, err := a.History(context.Background())
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history after clear, got %d records", len(records))
	}
}

func TestDecisionPromptEnumeratesToolsInOrder(t *testing.T) {
	engine := &fakeLLM{responses: []string{
		`{"reasoning":"r","tool_choice":"direct_answer","tool_input":{"query":"q"}}`,
		`{"reply":"ok","word_count":1}`,
	}}
	a := newTestAgent(t, engine, nil)

	if _, err := a.Process(context.Background(), "anything"); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	prompt := engine.prompts[0]
	retrieveIdx := strings.Index(prompt, tools.RetrieveContextName)
	directIdx := strings.Index(prompt, tools.DirectAnswerName)
	if retrieveIdx < 0 || directIdx < 0 {
		t.Fatal("decision prompt missing tool names")
	}
	if retrieveIdx > directIdx {
		t.Error("decision prompt does not enumerate tools in registration order")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{Tools: tools.NewDefaultRegistry(&stubRetriever{})}); err == nil {
		t.Error("expected error when LLM is nil")
	}
	if _, err := New(Options{LLM: &fakeLLM{}}); err == nil {
		t.Error("expected error when registry is nil")
	}
	registry := tools.NewRegistry()
	if _, err := New(Options{LLM: &fakeLLM{}, Tools: registry}); err == nil {
		t.Error("expected error when registry lacks the direct-answer tool")
	}
}
