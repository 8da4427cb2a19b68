package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/advisor"
	"github.com/wealthpilot/advisor/internal/config"
	"github.com/wealthpilot/advisor/internal/embedding"
	"github.com/wealthpilot/advisor/internal/fallback"
	"github.com/wealthpilot/advisor/internal/guardrail"
	"github.com/wealthpilot/advisor/internal/knowledge"
	"github.com/wealthpilot/advisor/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	embedder := embedding.NewMockEmbedder(64)
	store, err := knowledge.NewMemoryStore(embedder.Dimensions())
	if err != nil {
		t.Fatalf("NewMemoryStore failed: %v", err)
	}
	logger := zap.NewNop()
	guard := guardrail.NewFilter(nil)
	orchestrator := advisor.NewOrchestrator(advisor.Options{
		Embedder:  embedder,
		Store:     store,
		Guard:     guard,
		Fallback:  fallback.NewEngine(nil, logger),
		Assembler: advisor.NewContextAssembler(embedder, store, nil, 3, 0.3, nil, logger),
		Logger:    logger,
	})
	return NewServer(orchestrator, guard, &config.ServerConfig{Port: 8080}, logger)
}

func TestHandleChat(t *testing.T) {
	srv := newTestServer(t)

	body, _ := json.Marshal(ChatRequest{
		Message: "suggest mutual funds",
		Profile: &models.UserProfile{RiskTolerance: models.RiskConservative, MonthlyInvestment: 20000},
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var out models.AnswerResult
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.ID == "" {
		t.Error("expected answer id")
	}
	if out.UsedModel {
		t.Error("no model wired, answer must be deterministic")
	}
	if !strings.Contains(out.Text, "Mutual Fund Recommendations") {
		t.Errorf("unexpected answer text: %q", out.Text)
	}
	if out.Disclaimer == "" {
		t.Error("expected disclaimer")
	}
}

func TestHandleChatEmptyMessage(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"  "}`))
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleChatInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["error"] == "" {
		t.Error("expected error message")
	}
}

func TestHandleKnowledgeInit(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/knowledge/init", nil)
	w := httptest.NewRecorder()
	srv.handleKnowledgeInit(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}
	var out map[string]int
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["documents"] != 17 {
		t.Errorf("documents: got %d, want 17", out["documents"])
	}
}

func TestHandleReady(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/knowledge/init", nil)
	srv.handleKnowledgeInit(httptest.NewRecorder(), r)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil)
	w := httptest.NewRecorder()
	srv.handleReady(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out advisor.Readiness
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.VectorStoreReady {
		t.Error("vector store should be ready after init")
	}
	if out.KnowledgeBaseDocuments != 17 {
		t.Errorf("documents: got %d, want 17", out.KnowledgeBaseDocuments)
	}
	if out.LLMReady || out.AllReady {
		t.Error("llm is not wired, readiness must be degraded")
	}
}

func TestHandleSuggestions(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/suggestions", nil)
	w := httptest.NewRecorder()
	srv.handleSuggestions(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Suggestions) != 5 {
		t.Errorf("base suggestions: got %d, want 5", len(out.Suggestions))
	}
}

func TestHandleSuggestionsWithProfile(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/suggestions?risk_tolerance=aggressive&age=28&has_emergency_fund=false", nil)
	w := httptest.NewRecorder()
	srv.handleSuggestions(w, r)
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Suggestions) == 0 || out.Suggestions[0] != "How do I build an emergency fund?" {
		t.Errorf("suggestions: got %v", out.Suggestions)
	}
	if len(out.Suggestions) > 8 {
		t.Errorf("suggestions capped at 8, got %d", len(out.Suggestions))
	}
}

func TestHandleValidate(t *testing.T) {
	srv := newTestServer(t)

	body := `{"text":"This fund has guaranteed returns and you can't lose."}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/validate", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleValidate(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out guardrail.Report
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.IsValid {
		t.Error("text naming a blocked topic must be invalid")
	}
	if len(out.Issues) == 0 {
		t.Error("expected issues")
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body: %s", w.Body.String())
	}
}

func TestRouterRoutes(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health via router: got %d", resp.StatusCode)
	}

	resp2, err := http.Post(ts.URL+"/api/v1/chat", "application/json", strings.NewReader(`{"message":"hello"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("chat via router: got %d", resp2.StatusCode)
	}
}
