// Package models defines core data structures for profiles, knowledge
// documents, market data, conversation turns, and advisory answers.
package models

// RiskTolerance classifies how much volatility an investor accepts.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// Valid reports whether r is one of the known tiers.
func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

// Goal is a financial goal a user is saving toward.
type Goal string

const (
	GoalRetirement     Goal = "retirement"
	GoalEmergencyFund  Goal = "emergency_fund"
	GoalHomePurchase   Goal = "home_purchase"
	GoalEducation      Goal = "education"
	GoalWealthBuilding Goal = "wealth_building"
	GoalDebtPayoff     Goal = "debt_payoff"
	GoalTravel         Goal = "travel"
	GoalOther          Goal = "other"
)

// UserProfile is a read-only view of the user's financial situation, owned by
// the external user-management service. The pipeline never mutates it.
type UserProfile struct {
	Name                 string        `json:"name,omitempty"`
	Age                  int           `json:"age"`
	AnnualIncome         float64       `json:"annual_income"`
	CurrentSavings       float64       `json:"current_savings"`
	MonthlyInvestment    float64       `json:"monthly_investment"`
	DebtAmount           float64       `json:"debt_amount"`
	RiskTolerance        RiskTolerance `json:"risk_tolerance"`
	InvestmentHorizon    int           `json:"investment_horizon"` // years
	Goals                []Goal        `json:"goals,omitempty"`
	HasEmergencyFund     bool          `json:"has_emergency_fund"`
	HasRetirementAccount bool          `json:"has_retirement_account"`
}

// RiskToleranceOrDefault returns the profile's risk tolerance, or moderate
// when the profile is nil or the value is unset/unknown.
func (p *UserProfile) RiskToleranceOrDefault() RiskTolerance {
	if p == nil || !p.RiskTolerance.Valid() {
		return RiskModerate
	}
	return p.RiskTolerance
}

// MonthlyInvestmentOrDefault returns the monthly investable amount, or 10000
// currency units when the profile is nil or the amount is unset.
func (p *UserProfile) MonthlyInvestmentOrDefault() float64 {
	if p == nil || p.MonthlyInvestment <= 0 {
		return 10000
	}
	return p.MonthlyInvestment
}

// RiskScore computes a 1-10 score from age, tolerance, horizon, emergency
// fund, and debt load. Higher means more capacity for risk.
func (p *UserProfile) RiskScore() int {
	score := 5

	switch {
	case p.Age < 30:
		score += 2
	case p.Age < 40:
		score++
	case p.Age > 55:
		score -= 2
	case p.Age > 45:
		score--
	}

	switch p.RiskTolerance {
	case RiskConservative:
		score -= 2
	case RiskAggressive:
		score += 2
	}

	if p.InvestmentHorizon > 15 {
		score++
	} else if p.InvestmentHorizon < 5 {
		score -= 2
	}

	if !p.HasEmergencyFund {
		score--
	}

	income := p.AnnualIncome
	if income < 1 {
		income = 1
	}
	debtRatio := p.DebtAmount / income
	if debtRatio > 0.5 {
		score -= 2
	} else if debtRatio > 0.3 {
		score--
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// Allocation is a percentage split across asset classes (sums to 100).
type Allocation struct {
	Stocks int `json:"stocks"`
	Bonds  int `json:"bonds"`
	Cash   int `json:"cash"`
}

// RecommendedAllocation maps the risk score to a stock/bond/cash split.
func (p *UserProfile) RecommendedAllocation() Allocation {
	score := p.RiskScore()
	switch {
	case score <= 3:
		return Allocation{Stocks: 30, Bonds: 60, Cash: 10}
	case score <= 6:
		return Allocation{Stocks: 60, Bonds: 30, Cash: 10}
	default:
		return Allocation{Stocks: 80, Bonds: 15, Cash: 5}
	}
}

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationTurn is one message in a chat transcript. Transcripts are owned
// by the external chat-history service; the pipeline consumes a read-only
// window and returns new turns for the caller to persist.
type ConversationTurn struct {
	Role string `json:"role"`
	Text string `json:"content"`
}
