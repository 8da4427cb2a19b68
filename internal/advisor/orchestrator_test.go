package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/embedding"
	"github.com/wealthpilot/advisor/internal/fallback"
	"github.com/wealthpilot/advisor/internal/guardrail"
	"github.com/wealthpilot/advisor/internal/models"
)

type fakeLLM struct {
	available bool
	reply     string
	err       error

	generateCalls int
	chatCalls     int
	lastPrompt    string
	lastSystem    string
	lastTurns     []models.ConversationTurn
}

func (f *fakeLLM) Generate(ctx context.Context, prompt, system string) (string, error) {
	f.generateCalls++
	f.lastPrompt = prompt
	f.lastSystem = system
	return f.reply, f.err
}

func (f *fakeLLM) Chat(ctx context.Context, turns []models.ConversationTurn) (string, error) {
	f.chatCalls++
	f.lastTurns = turns
	return f.reply, f.err
}

func (f *fakeLLM) IsAvailable(ctx context.Context) bool { return f.available }

func (f *fakeLLM) Model() string { return "test-model" }

func newTestOrchestrator(t *testing.T, llm LanguageModel, docs ...models.KnowledgeDocument) *Orchestrator {
	t.Helper()
	embedder := embedding.NewMockEmbedder(64)
	store := seededStore(t, embedder, docs...)
	logger := zap.NewNop()
	return NewOrchestrator(Options{
		Embedder:  embedder,
		Store:     store,
		LLM:       llm,
		Guard:     guardrail.NewFilter(nil),
		Fallback:  fallback.NewEngine(nil, logger),
		Assembler: NewContextAssembler(embedder, store, nil, 3, 0.3, nil, logger),
		Logger:    logger,
	})
}

func TestAnswerWithModel(t *testing.T) {
	llm := &fakeLLM{available: true, reply: "Invest steadily over time."}
	o := newTestOrchestrator(t, llm,
		models.KnowledgeDocument{ID: "doc_a", Text: "Rupee cost averaging smooths entry points."},
	)

	result, err := o.Answer(context.Background(), "Rupee cost averaging smooths entry points.", nil, nil, true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !result.UsedModel {
		t.Fatal("expected model-backed answer")
	}
	if result.ID == "" {
		t.Fatal("expected answer id")
	}
	if !strings.Contains(result.Text, "Invest steadily over time.") {
		t.Fatalf("model reply missing from answer:\n%s", result.Text)
	}
	if !strings.Contains(result.Text, "**Disclaimer**") {
		t.Fatal("disclaimer missing from answer text")
	}
	if len(result.SourceIDs) != 1 || result.SourceIDs[0] != "doc_a" {
		t.Fatalf("unexpected sources %v", result.SourceIDs)
	}
	if llm.generateCalls != 1 || llm.chatCalls != 0 {
		t.Fatalf("expected one generate call, got generate=%d chat=%d", llm.generateCalls, llm.chatCalls)
	}
	if !strings.Contains(llm.lastPrompt, "Context Information:") {
		t.Fatal("expected augmented prompt framing")
	}
	if !strings.Contains(llm.lastSystem, "not a licensed financial advisor") {
		t.Fatal("expected advisor persona system prompt")
	}
}

func TestAnswerFallsBackWhenModelDown(t *testing.T) {
	llm := &fakeLLM{available: false}
	o := newTestOrchestrator(t, llm)

	result, err := o.Answer(context.Background(), "suggest mutual funds", nil, nil, true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.UsedModel {
		t.Fatal("expected fallback answer")
	}
	if !strings.Contains(result.Text, "Mutual Fund Recommendations") {
		t.Fatalf("expected deterministic fund answer:\n%s", result.Text)
	}
	if llm.generateCalls != 0 || llm.chatCalls != 0 {
		t.Fatal("model must not be called when unavailable")
	}
	if len(result.SourceIDs) != 0 {
		t.Fatalf("fallback answers carry no sources, got %v", result.SourceIDs)
	}
}

func TestAnswerFallsBackOnMidCallFailure(t *testing.T) {
	llm := &fakeLLM{available: true, err: errors.New("connection reset")}
	o := newTestOrchestrator(t, llm)

	result, err := o.Answer(context.Background(), "suggest mutual funds", nil, nil, true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.UsedModel {
		t.Fatal("expected fallback after mid-call failure")
	}
	if !strings.Contains(result.Text, "Mutual Fund Recommendations") {
		t.Fatal("expected deterministic answer after failure")
	}
}

func TestAnswerFallsBackOnEmptyReply(t *testing.T) {
	llm := &fakeLLM{available: true, reply: ""}
	o := newTestOrchestrator(t, llm,
		models.KnowledgeDocument{ID: "doc_a", Text: "Rupee cost averaging smooths entry points."},
	)

	result, err := o.Answer(context.Background(), "Rupee cost averaging smooths entry points.", nil, nil, true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.UsedModel {
		t.Fatal("empty reply must count as a failed call")
	}
	if len(result.SourceIDs) != 0 {
		t.Fatalf("fallback answers carry no sources, got %v", result.SourceIDs)
	}
	if result.Text == "" {
		t.Fatal("expected deterministic answer text")
	}
}

func TestAnswerMarketDataToggle(t *testing.T) {
	embedder := embedding.NewMockEmbedder(64)
	store := seededStore(t, embedder)
	logger := zap.NewNop()
	market := &fakeMarket{contexts: map[string]string{
		"AAPL": "Market data for AAPL:\nCurrent Price: $189.41",
	}}
	o := NewOrchestrator(Options{
		Embedder:  embedder,
		Store:     store,
		Guard:     guardrail.NewFilter(nil),
		Fallback:  fallback.NewEngine(nil, logger),
		Assembler: NewContextAssembler(embedder, store, market, 3, 0.3, nil, logger),
		Logger:    logger,
	})

	if _, err := o.Answer(context.Background(), "should I buy AAPL", nil, nil, false); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if len(market.calls) != 0 {
		t.Fatalf("market must not be queried when disabled, got %v", market.calls)
	}

	if _, err := o.Answer(context.Background(), "should I buy AAPL", nil, nil, true); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if len(market.calls) != 1 || market.calls[0] != "AAPL" {
		t.Fatalf("expected one AAPL lookup, got %v", market.calls)
	}
}

func TestAnswerBlockedTopicShortCircuits(t *testing.T) {
	llm := &fakeLLM{available: true, reply: "should not be used"}
	o := newTestOrchestrator(t, llm)

	result, err := o.Answer(context.Background(), "how do I run a ponzi scheme", nil, nil, true)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.UsedModel {
		t.Fatal("blocked queries never use the model")
	}
	if !strings.Contains(result.Text, "I cannot provide advice on topics related to 'ponzi'") {
		t.Fatalf("expected refusal text:\n%s", result.Text)
	}
	if llm.generateCalls != 0 || llm.chatCalls != 0 {
		t.Fatal("model must not be called for blocked queries")
	}
	if result.Disclaimer == "" {
		t.Fatal("refusals still carry the disclaimer")
	}
}

func TestAnswerWindowsHistory(t *testing.T) {
	llm := &fakeLLM{available: true, reply: "ok"}
	o := newTestOrchestrator(t, llm)

	history := make([]models.ConversationTurn, 10)
	for i := range history {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		history[i] = models.ConversationTurn{Role: role, Text: "turn"}
	}

	if _, err := o.Answer(context.Background(), "what about bonds", nil, history, true); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if llm.chatCalls != 1 || llm.generateCalls != 0 {
		t.Fatalf("expected chat path, got generate=%d chat=%d", llm.generateCalls, llm.chatCalls)
	}
	// system + last 6 history turns + current question
	if len(llm.lastTurns) != 8 {
		t.Fatalf("expected 8 turns, got %d", len(llm.lastTurns))
	}
	if llm.lastTurns[0].Role != models.RoleSystem {
		t.Fatal("first turn must be the system prompt")
	}
	if llm.lastTurns[7].Role != models.RoleUser {
		t.Fatal("last turn must be the current question")
	}
}

func TestInitializeKnowledgeBase(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	count, err := o.InitializeKnowledgeBase(context.Background(), false)
	if err != nil {
		t.Fatalf("InitializeKnowledgeBase failed: %v", err)
	}
	if count != 17 {
		t.Fatalf("expected 17 built-in documents, got %d", count)
	}

	ready := o.IsReady(context.Background())
	if !ready.VectorStoreReady {
		t.Fatal("store should be ready after init")
	}
	if ready.KnowledgeBaseDocuments != 17 {
		t.Fatalf("expected 17 documents, got %d", ready.KnowledgeBaseDocuments)
	}
}

func TestInitializeKnowledgeBaseIdempotent(t *testing.T) {
	o := newTestOrchestrator(t, nil)
	ctx := context.Background()

	if _, err := o.InitializeKnowledgeBase(ctx, false); err != nil {
		t.Fatal(err)
	}
	if _, err := o.InitializeKnowledgeBase(ctx, true); err != nil {
		t.Fatal(err)
	}
	ready := o.IsReady(ctx)
	if ready.KnowledgeBaseDocuments != 17 {
		t.Fatalf("re-init duplicated documents: %d", ready.KnowledgeBaseDocuments)
	}
}

func TestIsReadyDegraded(t *testing.T) {
	llm := &fakeLLM{available: false}
	o := newTestOrchestrator(t, llm)

	ready := o.IsReady(context.Background())
	if ready.LLMReady {
		t.Fatal("llm should not be ready")
	}
	if ready.AllReady {
		t.Fatal("all_ready must require every component")
	}
}

func TestSuggestions(t *testing.T) {
	o := newTestOrchestrator(t, nil)

	base := o.Suggestions(nil)
	if len(base) != 5 {
		t.Fatalf("expected 5 base suggestions, got %d", len(base))
	}

	profile := &models.UserProfile{
		Age:              28,
		RiskTolerance:    models.RiskAggressive,
		HasEmergencyFund: false,
	}
	got := o.Suggestions(profile)
	if got[0] != "How do I build an emergency fund?" {
		t.Fatalf("emergency fund suggestion should lead, got %q", got[0])
	}
	if len(got) > 8 {
		t.Fatalf("suggestions must be capped at 8, got %d", len(got))
	}
	var hasGrowth, hasYoung bool
	for _, s := range got {
		if strings.Contains(s, "high-growth") {
			hasGrowth = true
		}
		if strings.Contains(s, "young investors") {
			hasYoung = true
		}
	}
	if !hasGrowth || !hasYoung {
		t.Fatalf("missing personalized suggestions: %v", got)
	}
}
