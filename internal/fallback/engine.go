// Package fallback produces deterministic advisory answers when no language
// model is reachable. Rules are evaluated in priority order and the engine
// always returns an answer.
package fallback

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/models"
)

// SentimentSource supplies recent market news for the sentiment banner on
// stock recommendations. A nil source disables the banner.
type SentimentSource interface {
	NewsSentiment(ctx context.Context, tickers string) ([]models.NewsItem, error)
}

// Engine matches user messages against an ordered rule list. Earlier rules
// win, so recommendation intents take precedence over topic lookups.
type Engine struct {
	sentiment SentimentSource
	logger    *zap.Logger
	rules     []rule
}

type request struct {
	message string
	lower   string
	profile *models.UserProfile
}

type rule struct {
	name    string
	match   func(req request) bool
	respond func(ctx context.Context, e *Engine, req request) string
}

// NewEngine creates a fallback engine. sentiment may be nil.
func NewEngine(sentiment SentimentSource, logger *zap.Logger) *Engine {
	e := &Engine{sentiment: sentiment, logger: logger}
	e.rules = []rule{
		{name: "stock_recommendation", match: matchStockRecommendation, respond: respondStocks},
		{name: "fund_recommendation", match: matchFundRecommendation, respond: respondFunds},
		{name: "generic_investment", match: matchGenericInvestment, respond: respondCombined},
		{name: "bare_stock_query", match: matchBareStockQuery, respond: respondStocks},
		{name: "how_to_question", match: matchHowToQuestion, respond: respondHowTo},
		{name: "topic_lookup", match: matchTopic, respond: respondTopic},
	}
	return e
}

// Respond returns a deterministic answer for message. It never fails; the
// final rule is a catch-all capability menu.
func (e *Engine) Respond(ctx context.Context, message string, profile *models.UserProfile) string {
	req := request{
		message: message,
		lower:   strings.ToLower(message),
		profile: profile,
	}
	for _, r := range e.rules {
		if r.match(req) {
			e.logger.Debug("fallback rule matched", zap.String("rule", r.name))
			return r.respond(ctx, e, req)
		}
	}
	e.logger.Debug("fallback rule matched", zap.String("rule", "default"))
	return e.defaultResponse(req)
}

var stockKeywords = []string{
	"stock", "stocks", "share", "shares", "equity", "equities",
	"nifty", "sensex", "bse", "nse", "bluechip", "blue chip",
	"large cap", "mid cap", "small cap", "largecap", "midcap", "smallcap",
}

var recommendationTriggers = []string{
	"recommend", "recommendation", "recommendations", "suggest", "suggestion", "suggestions",
	"give me", "tell me", "show me", "list", "which", "what", "best", "top",
	"should i buy", "to buy", "to invest", "for investment", "good",
}

var fundKeywords = []string{
	"mutual fund", "mutual funds", "mf", "sip", "funds",
	"index fund", "elss", "debt fund", "equity fund", "hybrid fund",
	"flexi cap", "large cap fund", "mid cap fund", "small cap fund",
}

var genericInvestmentTriggers = []string{
	"where should i invest", "how should i invest", "investment recommendation",
	"investment suggestions", "what to invest", "where to invest", "how to invest",
	"start investing", "begin investing", "investment options", "invest my money",
}

var bareStockPatterns = []string{"stock", "stocks", "share", "shares", "equity"}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func matchStockRecommendation(req request) bool {
	return containsAny(req.lower, stockKeywords) && containsAny(req.lower, recommendationTriggers)
}

func matchFundRecommendation(req request) bool {
	return containsAny(req.lower, fundKeywords) && containsAny(req.lower, recommendationTriggers)
}

func matchGenericInvestment(req request) bool {
	return containsAny(req.lower, genericInvestmentTriggers)
}

func matchBareStockQuery(req request) bool {
	trimmed := strings.TrimSpace(req.lower)
	for _, p := range bareStockPatterns {
		if trimmed == p || strings.HasPrefix(trimmed, p+" ") ||
			strings.Contains(req.lower, p+" recommendation") || strings.Contains(req.lower, p+" suggest") {
			return true
		}
	}
	return false
}

func matchHowToQuestion(req request) bool {
	if !containsAny(req.lower, []string{"how to", "how do i", "how can i", "how should"}) {
		return false
	}
	return strings.Contains(req.lower, "save") ||
		strings.Contains(req.lower, "invest") ||
		strings.Contains(req.lower, "retire") ||
		containsAny(req.lower, []string{"stock", "stocks", "share", "equity"})
}

func respondStocks(ctx context.Context, e *Engine, req request) string {
	return stockRecommendations(req.profile.RiskToleranceOrDefault(), e.marketSentiment(ctx))
}

func respondFunds(ctx context.Context, e *Engine, req request) string {
	return fundRecommendations(req.profile.RiskToleranceOrDefault(), req.profile.MonthlyInvestmentOrDefault())
}

func respondCombined(ctx context.Context, e *Engine, req request) string {
	risk := req.profile.RiskToleranceOrDefault()
	return fmt.Sprintf(`Based on your **%s** risk profile, here are my complete investment recommendations:

%s

---

%s

---

**Investment Tip**: For beginners, start with mutual fund SIPs before moving to direct equity.`,
		risk,
		stockRecommendations(risk, e.marketSentiment(ctx)),
		fundRecommendations(risk, req.profile.MonthlyInvestmentOrDefault()))
}

func respondHowTo(ctx context.Context, e *Engine, req request) string {
	switch {
	case strings.Contains(req.lower, "save"):
		return topicText("budget")
	case strings.Contains(req.lower, "invest"):
		return respondFunds(ctx, e, req)
	case strings.Contains(req.lower, "retire"):
		return topicText("retirement")
	default:
		return respondStocks(ctx, e, req)
	}
}

// marketSentiment summarizes recent financial news into a one-line banner.
// Failures degrade to an unavailable notice, never an error.
func (e *Engine) marketSentiment(ctx context.Context) string {
	if e.sentiment == nil {
		return "**Market Sentiment:** Unable to fetch"
	}
	news, err := e.sentiment.NewsSentiment(ctx, "")
	if err != nil {
		e.logger.Warn("sentiment lookup failed", zap.Error(err))
		return "**Market Sentiment:** Unable to fetch"
	}
	var sum float64
	var n int
	for _, item := range news {
		if item.SentimentScore != 0 {
			sum += item.SentimentScore
			n++
		}
	}
	if n == 0 {
		return "**Market Sentiment:** Data unavailable"
	}
	avg := sum / float64(n)
	switch {
	case avg > 0.15:
		return "**Market Sentiment: BULLISH** - Positive news flow in financial markets"
	case avg < -0.15:
		return "**Market Sentiment: BEARISH** - Negative news flow, consider defensive positions"
	default:
		return "**Market Sentiment: NEUTRAL** - Mixed signals in the market"
	}
}

func (e *Engine) defaultResponse(req request) string {
	riskInfo := "Complete your profile for personalized advice"
	var horizonLine, allocationLine string
	if req.profile != nil {
		if req.profile.RiskTolerance != "" {
			riskInfo = fmt.Sprintf("Risk Tolerance: %s", titleCase(string(req.profile.RiskTolerance)))
			alloc := req.profile.RecommendedAllocation()
			allocationLine = fmt.Sprintf("\n- Suggested Allocation (risk score %d/10): %d%% stocks / %d%% bonds / %d%% cash",
				req.profile.RiskScore(), alloc.Stocks, alloc.Bonds, alloc.Cash)
		}
		if req.profile.InvestmentHorizon > 0 {
			horizonLine = fmt.Sprintf("\n- Investment Horizon: %d years", req.profile.InvestmentHorizon)
		}
	}
	return fmt.Sprintf(`I understand you're asking about: "%s"

Here's how I can help you with financial planning:

**Topics I Can Assist With:**
- **Stock Recommendations** - Ask "Give me stock recommendations"
- **Mutual Fund Recommendations** - Ask "Recommend mutual funds for me"
- **Investment Planning** - SIPs, portfolio allocation
- **Goal Planning** - Retirement, education, home purchase
- **Tax Saving** - Section 80C investments

**Your Profile:**
- %s%s%s

**Try asking:**
- "Give me stock recommendations"
- "Which mutual funds should I invest in?"
- "How should I plan for retirement?"
- "What are the best tax saving options?"

I'm here to help with all your financial questions!`, req.message, riskInfo, horizonLine, allocationLine)
}
