package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/embedding"
	"github.com/wealthpilot/advisor/internal/knowledge"
	"github.com/wealthpilot/advisor/internal/models"
	"github.com/wealthpilot/advisor/pkg/utils"
)

// blockSeparator joins context blocks in the augmented prompt.
const blockSeparator = "\n\n---\n\n"

// MarketData is the slice of the market client the assembler needs.
type MarketData interface {
	FormatContext(ctx context.Context, symbol string) (string, bool)
}

// ContextAssembler builds the retrieval-augmented context for a query:
// profile block, knowledge snippets, live market data. Every sub-step
// failure degrades to an omitted block; assembly itself never fails.
type ContextAssembler struct {
	embedder        embedding.Embedder
	store           knowledge.Store
	market          MarketData
	topK            int
	scoreThreshold  float32
	extraStopWords  []string
	logger          *zap.Logger
}

// NewContextAssembler creates an assembler. market may be nil, which
// disables market-data blocks.
func NewContextAssembler(
	embedder embedding.Embedder,
	store knowledge.Store,
	market MarketData,
	topK int,
	scoreThreshold float32,
	extraStopWords []string,
	logger *zap.Logger,
) *ContextAssembler {
	return &ContextAssembler{
		embedder:       embedder,
		store:          store,
		market:         market,
		topK:           topK,
		scoreThreshold: scoreThreshold,
		extraStopWords: extraStopWords,
		logger:         logger,
	}
}

// Build returns the context for query and the IDs of the knowledge snippets
// it includes. An empty context means the query should be sent unmodified.
func (a *ContextAssembler) Build(ctx context.Context, query string, profile *models.UserProfile, includeMarketData bool) (string, []string) {
	var blocks []string
	var sourceIDs []string

	if profile != nil {
		blocks = append(blocks, profileBlock(profile))
	}

	snippets := a.retrieve(ctx, query)
	if len(snippets) > 0 {
		var b strings.Builder
		b.WriteString("Relevant Financial Knowledge:\n")
		for _, s := range snippets {
			b.WriteString("\n")
			b.WriteString(s.Text)
			b.WriteString("\n")
			sourceIDs = append(sourceIDs, s.DocumentID)
		}
		blocks = append(blocks, b.String())
	}

	if includeMarketData && a.market != nil {
		for _, symbol := range ExtractSymbols(query, a.extraStopWords) {
			text, ok := a.market.FormatContext(ctx, symbol)
			if ok {
				blocks = append(blocks, text)
			}
		}
	}

	return strings.Join(blocks, blockSeparator), sourceIDs
}

func (a *ContextAssembler) retrieve(ctx context.Context, query string) []models.RetrievedSnippet {
	vector, err := a.embedder.Embed(ctx, query)
	if err != nil {
		a.logger.Warn("query embedding failed", zap.Error(err))
		return nil
	}
	snippets, err := a.store.Search(ctx, vector, a.topK, a.scoreThreshold)
	if err != nil {
		a.logger.Warn("knowledge search failed", zap.Error(err))
		return nil
	}
	a.logger.Debug("knowledge retrieved",
		zap.String("query", utils.Truncate(query, 80)),
		zap.Int("snippets", len(snippets)))
	return snippets
}

func profileBlock(p *models.UserProfile) string {
	goals := make([]string, len(p.Goals))
	for i, g := range p.Goals {
		goals[i] = string(g)
	}
	return fmt.Sprintf(`User Profile:
- Age: %d
- Annual Income: $%s
- Risk Tolerance: %s
- Investment Horizon: %d years
- Financial Goals: %s
- Current Savings: $%s
- Monthly Investment Capacity: $%s`,
		p.Age,
		utils.GroupThousands(int64(p.AnnualIncome)),
		p.RiskToleranceOrDefault(),
		p.InvestmentHorizon,
		strings.Join(goals, ", "),
		utils.GroupThousands(int64(p.CurrentSavings)),
		utils.GroupThousands(int64(p.MonthlyInvestment)))
}
