package models

// Quote is a real-time stock quote. Fetched live per request, never cached.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    string  `json:"change_percent"`
	Volume           int64   `json:"volume"`
	LatestTradingDay string  `json:"latest_trading_day"`
}

// CompanyOverview holds fundamental company data.
type CompanyOverview struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Sector        string `json:"sector"`
	Industry      string `json:"industry"`
	MarketCap     string `json:"market_cap"`
	PERatio       string `json:"pe_ratio"`
	DividendYield string `json:"dividend_yield"`
	WeekHigh52    string `json:"52_week_high"`
	WeekLow52     string `json:"52_week_low"`
}

// NewsItem is one news article with sentiment scoring.
type NewsItem struct {
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Source         string  `json:"source"`
	URL            string  `json:"url"`
	SentimentScore float64 `json:"sentiment_score"`
	SentimentLabel string  `json:"sentiment_label"`
	Published      string  `json:"published"`
}

// IndicatorValue is one dated technical-indicator reading.
type IndicatorValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// TechnicalIndicator holds recent values of one indicator for a symbol.
type TechnicalIndicator struct {
	Symbol    string           `json:"symbol"`
	Indicator string           `json:"indicator"`
	Values    []IndicatorValue `json:"values"`
}
