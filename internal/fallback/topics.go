package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/wealthpilot/advisor/internal/models"
)

// topicEntry pairs a substring keyword with canned educational content.
// Entries are matched in order, first hit wins, so broader keywords come
// before greetings.
type topicEntry struct {
	keyword  string
	text     string
	greeting bool
}

func matchTopic(req request) bool {
	return findTopic(req.lower) != nil
}

func respondTopic(_ context.Context, _ *Engine, req request) string {
	entry := findTopic(req.lower)
	text := entry.text
	if entry.greeting || req.profile == nil || !req.profile.RiskTolerance.Valid() {
		return text
	}
	text += fmt.Sprintf("\n\n**Based on your %s risk profile**, ", req.profile.RiskTolerance)
	switch req.profile.RiskTolerance {
	case models.RiskConservative:
		text += "I recommend focusing more on debt instruments and stable investments."
	case models.RiskAggressive:
		text += "you can consider higher equity allocation for better growth potential."
	default:
		text += "a balanced approach with mix of equity and debt would suit you well."
	}
	return text
}

func findTopic(lower string) *topicEntry {
	for i := range topicEntries {
		if strings.Contains(lower, topicEntries[i].keyword) {
			return &topicEntries[i]
		}
	}
	return nil
}

// topicText returns the content for a known keyword. Used by question
// routing rules that map directly to a topic.
func topicText(keyword string) string {
	for i := range topicEntries {
		if topicEntries[i].keyword == keyword {
			return topicEntries[i].text
		}
	}
	return ""
}

var topicEntries = []topicEntry{
	{keyword: "investment", text: `**Investment Basics:**

Based on your query about investments, here are key principles:

1. **Diversification**: Never put all eggs in one basket. Spread investments across:
   - Equity (stocks, mutual funds) - for growth
   - Debt (bonds, FDs) - for stability
   - Gold - for hedge against inflation

2. **Asset Allocation by Risk Profile**:
   - Conservative: 30% Equity, 60% Debt, 10% Gold
   - Moderate: 50% Equity, 40% Debt, 10% Gold
   - Aggressive: 70% Equity, 20% Debt, 10% Gold

3. **Investment Options in India**:
   - Mutual Funds (SIP recommended)
   - Stocks (direct equity)
   - Fixed Deposits
   - PPF/NPS for retirement
   - ELSS for tax saving`},
	{keyword: "sip", text: `**Systematic Investment Plan (SIP):**

SIP is one of the best ways to invest in mutual funds:

1. **Benefits**:
   - Rupee cost averaging - buy more units when prices are low
   - Disciplined investing habit
   - Power of compounding over time
   - Start with as little as Rs.500/month

2. **How to Start**:
   - Choose funds based on your goals and risk profile
   - Set up auto-debit from your bank account
   - Stay invested for at least 5-7 years

3. **SIP vs Lumpsum**:
   - SIP is better for volatile markets
   - Reduces timing risk
   - Ideal for salaried individuals`},
	{keyword: "mutual fund", text: `**Mutual Funds Guide:**

Types of Mutual Funds:

1. **By Asset Class**:
   - Equity Funds: High risk, high return potential
   - Debt Funds: Lower risk, stable returns
   - Hybrid Funds: Mix of equity and debt

2. **By Investment Strategy**:
   - Large Cap: Invest in top 100 companies
   - Mid Cap: Companies ranked 101-250
   - Small Cap: Higher growth potential, higher risk
   - Index Funds: Track market indices, low cost

3. **Key Metrics to Check**:
   - Expense Ratio (lower is better)
   - Past performance (3-5 year returns)
   - Fund manager track record
   - AUM (Assets Under Management)`},
	{keyword: "retirement", text: `**Retirement Planning:**

Key Steps for Retirement Planning:

1. **Calculate Your Retirement Corpus**:
   - Estimate monthly expenses in retirement
   - Account for inflation (6-7% per year)
   - Plan for 25-30 years post-retirement

2. **Investment Options**:
   - NPS (National Pension System): Tax benefits up to Rs.2 lakh
   - PPF: 15-year lock-in, tax-free returns
   - EPF: If you're employed
   - Equity mutual funds for long-term growth

3. **Rule of Thumb**:
   - Start early to leverage compounding
   - Invest 15-20% of income for retirement
   - Gradually shift to debt as you age`},
	{keyword: "tax", text: `**Tax Saving Strategies:**

Tax Saving Options under Section 80C (up to Rs.1.5 lakh):

1. **Investment Options**:
   - ELSS Mutual Funds: 3-year lock-in, equity exposure
   - PPF: 15-year lock-in, guaranteed returns
   - Life Insurance Premium
   - 5-year Tax Saving FD

2. **Additional Deductions**:
   - Section 80CCD(1B): Additional Rs.50,000 for NPS
   - Section 80D: Health Insurance Premium
   - Section 24: Home Loan Interest (up to Rs.2 lakh)

3. **Tax-Efficient Investing**:
   - Hold equity for >1 year for LTCG benefits
   - Use tax-loss harvesting
   - Invest in tax-free bonds`},
	{keyword: "emergency fund", text: `**Emergency Fund Guide:**

An emergency fund is crucial financial safety net:

1. **How Much to Save**:
   - 3-6 months of monthly expenses
   - More if you have dependents or unstable income

2. **Where to Keep**:
   - Savings Account (instant access)
   - Liquid Mutual Funds (slightly better returns)
   - Fixed Deposits (for portion not needed immediately)

3. **Building Your Fund**:
   - Prioritize this before investing
   - Save 10-15% of income until target reached
   - Don't use for non-emergencies`},
	{keyword: "budget", text: `**Budgeting Basics:**

The 50/30/20 Rule:

1. **50% - Needs**:
   - Rent/EMI
   - Groceries
   - Utilities
   - Insurance

2. **30% - Wants**:
   - Entertainment
   - Dining out
   - Shopping
   - Travel

3. **20% - Savings & Investments**:
   - Emergency fund
   - Retirement savings
   - Goal-based investments

**Tips**:
- Track every expense
- Review and adjust monthly
- Automate savings and investments`},
	{keyword: "goal", text: `**Goal-Based Financial Planning:**

How to Plan for Financial Goals:

1. **Short-term Goals (< 3 years)**:
   - Vacation, gadgets, wedding
   - Use: FDs, Liquid Funds, Debt Funds

2. **Medium-term Goals (3-7 years)**:
   - Car, down payment, education
   - Use: Balanced/Hybrid Funds, Conservative Equity

3. **Long-term Goals (> 7 years)**:
   - Retirement, child's higher education
   - Use: Equity Funds, SIPs in diversified funds

**Goal Planning Steps**:
- Define specific amount needed
- Set target date
- Calculate monthly investment required
- Choose appropriate investment vehicle
- Review and adjust annually`},
	{keyword: "hello", greeting: true, text: `Hello! I'm your AI Financial Advisor. I'm here to help you with:

- **Investment Planning**: Mutual funds, stocks, SIPs
- **Budgeting**: Track expenses, save more
- **Goal Planning**: Retirement, education, home purchase
- **Tax Saving**: Section 80C investments and more

What would you like to know about today?`},
	{keyword: "hi", greeting: true, text: `Hi there! Welcome to your personal financial advisor. I can help you with:

- Investment recommendations based on your risk profile
- Budget planning and expense tracking
- Retirement and goal-based planning
- Tax-saving investment strategies

What's on your mind today?`},
	{keyword: "help", greeting: true, text: `**How I Can Help You:**

I'm your AI Financial Advisor. Here are some things you can ask me:

**Investment Questions:**
- "How should I start investing?"
- "What is SIP and how does it work?"
- "Which mutual funds should I invest in?"

**Planning Questions:**
- "How much do I need for retirement?"
- "How should I plan for my child's education?"
- "What's the 50/30/20 budget rule?"

**Tax Questions:**
- "How can I save taxes under 80C?"
- "What is ELSS?"
- "What are tax-free investment options?"

Just type your question and I'll do my best to help!`},
}
