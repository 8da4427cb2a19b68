package fallback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/models"
)

type fakeSentiment struct {
	items []models.NewsItem
	err   error
}

func (f *fakeSentiment) NewsSentiment(ctx context.Context, tickers string) ([]models.NewsItem, error) {
	return f.items, f.err
}

func bullishSentiment() *fakeSentiment {
	return &fakeSentiment{items: []models.NewsItem{
		{SentimentScore: 0.3}, {SentimentScore: 0.25},
	}}
}

func TestRespondStockRecommendation(t *testing.T) {
	e := NewEngine(bullishSentiment(), zap.NewNop())
	profile := &models.UserProfile{RiskTolerance: models.RiskAggressive}

	out := e.Respond(context.Background(), "can you recommend some stocks?", profile)
	if !strings.Contains(out, "Stock Recommendations for Aggressive Investors") {
		t.Fatalf("expected aggressive stock table, got:\n%s", out[:120])
	}
	if !strings.Contains(out, "Market Sentiment: BULLISH") {
		t.Fatal("expected bullish sentiment banner")
	}
	if !strings.Contains(out, "Trent") {
		t.Fatal("expected growth stock picks")
	}
}

func TestRespondFundRecommendationSplitsAmounts(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	profile := &models.UserProfile{
		RiskTolerance:     models.RiskConservative,
		MonthlyInvestment: 20000,
	}

	out := e.Respond(context.Background(), "which mutual funds are best for me?", profile)
	if !strings.Contains(out, "Mutual Fund Recommendations for Conservative Investors") {
		t.Fatal("expected conservative fund table")
	}
	// 60/25/15 split of Rs.20,000
	for _, want := range []string{"Rs.20,000/month SIP", "Rs.12,000/month", "Rs.5,000/month", "Rs.3,000/month"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing amount %q", want)
		}
	}
}

func TestRespondFundDefaultsMonthlyInvestment(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	out := e.Respond(context.Background(), "suggest mutual funds", nil)
	if !strings.Contains(out, "Rs.10,000/month SIP") {
		t.Fatal("expected default monthly investment of Rs.10,000")
	}
	if !strings.Contains(out, "Moderate Risk Investors") {
		t.Fatal("expected moderate tier for nil profile")
	}
}

func TestRespondGenericInvestmentGivesBoth(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	out := e.Respond(context.Background(), "how should I invest my savings?", nil)
	if !strings.Contains(out, "Stock Recommendations for Moderate Risk Investors") {
		t.Fatal("expected stock section")
	}
	if !strings.Contains(out, "Mutual Fund Recommendations for Moderate Risk Investors") {
		t.Fatal("expected fund section")
	}
	if !strings.Contains(out, "start with mutual fund SIPs") {
		t.Fatal("expected combined closing tip")
	}
}

func TestRespondBareStockQuery(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	out := e.Respond(context.Background(), "stocks", nil)
	if !strings.Contains(out, "Stock Recommendations for Moderate Risk Investors") {
		t.Fatalf("bare stock query not routed to stock table:\n%s", out[:100])
	}
}

func TestRespondHowToSave(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	out := e.Respond(context.Background(), "how can I save more money each month?", nil)
	if !strings.Contains(out, "The 50/30/20 Rule") {
		t.Fatal("expected budgeting content for saving question")
	}
}

func TestRespondTopicPersonalized(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	profile := &models.UserProfile{RiskTolerance: models.RiskConservative}
	out := e.Respond(context.Background(), "do I need an emergency fund?", profile)
	if !strings.Contains(out, "Emergency Fund Guide") {
		t.Fatal("expected emergency fund topic")
	}
	if !strings.Contains(out, "Based on your conservative risk profile") {
		t.Fatal("expected personalization line")
	}
	if !strings.Contains(out, "debt instruments and stable investments") {
		t.Fatal("expected conservative personalization text")
	}
}

func TestRespondGreetingVerbatim(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	profile := &models.UserProfile{RiskTolerance: models.RiskAggressive}
	out := e.Respond(context.Background(), "hello", profile)
	if !strings.Contains(out, "Hello! I'm your AI Financial Advisor.") {
		t.Fatal("expected greeting content")
	}
	if strings.Contains(out, "Based on your") {
		t.Fatal("greetings must not be personalized")
	}
}

func TestRespondDefaultMenu(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	profile := &models.UserProfile{
		RiskTolerance:     models.RiskModerate,
		InvestmentHorizon: 10,
	}
	out := e.Respond(context.Background(), "tell me a joke about cats", profile)
	if !strings.Contains(out, `I understand you're asking about: "tell me a joke about cats"`) {
		t.Fatal("expected echo of the question")
	}
	if !strings.Contains(out, "Risk Tolerance: Moderate") {
		t.Fatal("expected profile summary")
	}
	if !strings.Contains(out, "Investment Horizon: 10 years") {
		t.Fatal("expected horizon line")
	}
	if !strings.Contains(out, "Suggested Allocation (risk score 6/10): 60% stocks / 30% bonds / 10% cash") {
		t.Fatalf("expected allocation line, got:\n%s", out)
	}
}

func TestRespondDefaultMenuWithoutProfile(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	out := e.Respond(context.Background(), "tell me a joke about cats", nil)
	if !strings.Contains(out, "Complete your profile for personalized advice") {
		t.Fatal("expected profile prompt")
	}
	if strings.Contains(out, "Suggested Allocation") {
		t.Fatal("allocation line requires a profile")
	}
}

func TestRespondNeverEmpty(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	for _, msg := range []string{"", "???", "xyzzy", "what about gold", "hi", "help"} {
		if out := e.Respond(context.Background(), msg, nil); out == "" {
			t.Errorf("empty response for %q", msg)
		}
	}
}

func TestMarketSentimentBands(t *testing.T) {
	tests := []struct {
		name   string
		source SentimentSource
		want   string
	}{
		{"bullish", bullishSentiment(), "BULLISH"},
		{"bearish", &fakeSentiment{items: []models.NewsItem{{SentimentScore: -0.4}}}, "BEARISH"},
		{"neutral", &fakeSentiment{items: []models.NewsItem{{SentimentScore: 0.05}, {SentimentScore: -0.1}}}, "NEUTRAL"},
		{"no scores", &fakeSentiment{items: []models.NewsItem{{Title: "x"}}}, "Data unavailable"},
		{"error", &fakeSentiment{err: errors.New("boom")}, "Unable to fetch"},
		{"nil source", nil, "Unable to fetch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.source, zap.NewNop())
			banner := e.marketSentiment(context.Background())
			if !strings.Contains(banner, tt.want) {
				t.Errorf("banner %q does not contain %q", banner, tt.want)
			}
		})
	}
}

func TestRecommendationBeatsTopicLookup(t *testing.T) {
	e := NewEngine(nil, zap.NewNop())
	// contains both "sip" (topic) and a fund recommendation intent
	out := e.Respond(context.Background(), "suggest sip funds for me", nil)
	if !strings.Contains(out, "Mutual Fund Recommendations") {
		t.Fatal("recommendation rule should win over topic lookup")
	}
}
