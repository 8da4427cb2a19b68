// Package advisor composes guardrails, retrieval, market data, and answer
// generation into the single "answer this question" operation.
package advisor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/embedding"
	"github.com/wealthpilot/advisor/internal/guardrail"
	"github.com/wealthpilot/advisor/internal/knowledge"
	"github.com/wealthpilot/advisor/internal/models"
)

// systemPrompt establishes the advisor persona for model-backed answers.
const systemPrompt = `You are an AI-powered Financial Advisor assistant. Your role is to provide
personalized, data-driven financial guidance based on the user's profile, goals, and current market conditions.

Guidelines:
1. Always consider the user's risk tolerance, age, income, and financial goals when giving advice
2. Use the provided market data and knowledge base to support your recommendations
3. Be specific and actionable in your advice
4. Explain the reasoning behind your recommendations
5. Include relevant disclaimers about investment risks
6. Never guarantee returns or make promises about market performance
7. If you don't have enough information, ask clarifying questions

Remember: You are an educational tool, not a licensed financial advisor. Always recommend
consulting with qualified professionals for major financial decisions.`

// historyWindow caps how many prior turns are sent to the model.
const historyWindow = 6

const augmentedPromptFormat = `Context Information:
%s

---

User Question: %s

Please provide a helpful, personalized response based on the context above.`

// LanguageModel is the slice of the inference client the orchestrator needs.
type LanguageModel interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
	Chat(ctx context.Context, turns []models.ConversationTurn) (string, error)
	IsAvailable(ctx context.Context) bool
	Model() string
}

// FallbackResponder produces deterministic answers when no model is usable.
type FallbackResponder interface {
	Respond(ctx context.Context, message string, profile *models.UserProfile) string
}

// Readiness reports component health for the ready endpoint and status
// command.
type Readiness struct {
	LLMReady               bool   `json:"llm_ready"`
	VectorStoreReady       bool   `json:"vector_store_ready"`
	KnowledgeBaseDocuments uint64 `json:"knowledge_base_documents"`
	AllReady               bool   `json:"all_ready"`
}

// Options wires the orchestrator's collaborators. LLM and the assembler's
// market client may be nil; Store, Embedder, Guard, and Fallback are required.
type Options struct {
	Embedder  embedding.Embedder
	Store     knowledge.Store
	LLM       LanguageModel
	Guard     *guardrail.Filter
	Fallback  FallbackResponder
	Assembler *ContextAssembler
	CorpusDir string
	Logger    *zap.Logger
}

// Orchestrator answers advisory questions, degrading from model-backed to
// deterministic generation as collaborators become unavailable.
type Orchestrator struct {
	embedder  embedding.Embedder
	store     knowledge.Store
	llm       LanguageModel
	guard     *guardrail.Filter
	fallback  FallbackResponder
	assembler *ContextAssembler
	corpusDir string
	logger    *zap.Logger

	// initMu serializes knowledge base (re)initialization between the
	// watcher, the init endpoint, and the CLI.
	initMu sync.Mutex
}

// NewOrchestrator creates the orchestrator from its collaborators.
func NewOrchestrator(opts Options) *Orchestrator {
	return &Orchestrator{
		embedder:  opts.Embedder,
		store:     opts.Store,
		llm:       opts.LLM,
		guard:     opts.Guard,
		fallback:  opts.Fallback,
		assembler: opts.Assembler,
		corpusDir: opts.CorpusDir,
		logger:    opts.Logger,
	}
}

// Answer runs the full pipeline for one question. It only errors on internal
// invariant violations; collaborator outages degrade the answer instead.
// includeMarketData controls whether live market blocks are assembled into
// the context.
func (o *Orchestrator) Answer(ctx context.Context, question string, profile *models.UserProfile, history []models.ConversationTurn, includeMarketData bool) (*models.AnswerResult, error) {
	result := &models.AnswerResult{
		ID:         uuid.NewString(),
		Disclaimer: o.guard.Disclaimer(),
		SourceIDs:  []string{},
	}

	clean, refusal, blocked := o.guard.SanitizeQuery(question)
	if blocked {
		o.logger.Info("query blocked by guardrail")
		result.Text = o.guard.SanitizeResponse(refusal)
		return result, nil
	}

	contextText, sourceIDs := o.assembler.Build(ctx, clean, profile, includeMarketData)

	var text string
	if o.llm != nil && o.llm.IsAvailable(ctx) {
		prompt := clean
		if contextText != "" {
			prompt = fmt.Sprintf(augmentedPromptFormat, contextText, clean)
		}
		generated, err := o.callModel(ctx, prompt, history)
		switch {
		case err != nil:
			o.logger.Warn("inference failed, falling back", zap.Error(err))
		case generated == "":
			o.logger.Warn("inference returned empty reply, falling back")
		default:
			text = generated
			result.UsedModel = true
			result.SourceIDs = sourceIDs
		}
	}
	if text == "" {
		text = o.fallback.Respond(ctx, clean, profile)
		result.UsedModel = false
	}

	result.Text = o.guard.SanitizeResponse(text)
	return result, nil
}

func (o *Orchestrator) callModel(ctx context.Context, prompt string, history []models.ConversationTurn) (string, error) {
	if len(history) == 0 {
		return o.llm.Generate(ctx, prompt, systemPrompt)
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	turns := make([]models.ConversationTurn, 0, len(history)+2)
	turns = append(turns, models.ConversationTurn{Role: models.RoleSystem, Text: systemPrompt})
	turns = append(turns, history...)
	turns = append(turns, models.ConversationTurn{Role: models.RoleUser, Text: prompt})
	return o.llm.Chat(ctx, turns)
}

// InitializeKnowledgeBase embeds and upserts the full corpus (built-in plus
// any corpus directory) and returns the document count. With recreate set,
// the collection is dropped first.
func (o *Orchestrator) InitializeKnowledgeBase(ctx context.Context, recreate bool) (int, error) {
	o.initMu.Lock()
	defer o.initMu.Unlock()

	docs := knowledge.DefaultCorpus()
	if o.corpusDir != "" {
		extra, err := knowledge.LoadCorpusDir(o.corpusDir)
		if err != nil {
			return 0, fmt.Errorf("load corpus dir: %w", err)
		}
		docs = append(docs, extra...)
	}

	if err := o.store.EnsureCollection(ctx, recreate); err != nil {
		return 0, fmt.Errorf("ensure collection: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := o.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed corpus: %w", err)
	}
	if err := o.store.UpsertBatch(ctx, docs, vectors); err != nil {
		return 0, fmt.Errorf("upsert corpus: %w", err)
	}

	o.logger.Info("knowledge base initialized", zap.Int("documents", len(docs)))
	return len(docs), nil
}

// IsReady reports collaborator health. A down vector store or model runtime
// is a degraded state, never an error.
func (o *Orchestrator) IsReady(ctx context.Context) Readiness {
	var r Readiness
	if o.llm != nil {
		r.LLMReady = o.llm.IsAvailable(ctx)
	}
	stats, err := o.store.Stats(ctx)
	if err != nil {
		o.logger.Warn("vector store unreachable", zap.Error(err))
	} else {
		r.VectorStoreReady = stats.Exists
		r.KnowledgeBaseDocuments = stats.Count
	}
	r.AllReady = r.LLMReady && r.VectorStoreReady
	return r
}

// Suggestions returns profile-aware suggested questions, at most eight.
func (o *Orchestrator) Suggestions(profile *models.UserProfile) []string {
	suggestions := []string{
		"How should I allocate my investments based on my risk profile?",
		"What's the difference between mutual funds and ETFs?",
		"How much should I save for retirement?",
		"Should I pay off debt or invest first?",
		"What are the best tax-saving investment options?",
	}
	if profile != nil {
		if !profile.HasEmergencyFund {
			suggestions = append([]string{"How do I build an emergency fund?"}, suggestions...)
		}
		switch profile.RiskTolerance {
		case models.RiskConservative:
			suggestions = append(suggestions, "What are safe investment options for conservative investors?")
		case models.RiskAggressive:
			suggestions = append(suggestions, "What high-growth investment options should I consider?")
		}
		if profile.Age > 0 && profile.Age < 35 {
			suggestions = append(suggestions, "How should young investors approach wealth building?")
		} else if profile.Age > 50 {
			suggestions = append(suggestions, "How should I plan for retirement in the next 10-15 years?")
		}
	}
	if len(suggestions) > 8 {
		suggestions = suggestions[:8]
	}
	return suggestions
}
