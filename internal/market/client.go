// Package market fetches live stock data from the Alpha Vantage HTTP API.
// All lookups are best effort: a symbol with no data yields nil, not an
// error, and callers degrade to knowledge-only answers on failure.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/wealthpilot/advisor/internal/models"
)

const (
	// DefaultBaseURL is the Alpha Vantage query endpoint.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	requestTimeout = 30 * time.Second

	// maxRetries counts retries after the first attempt, so each lookup
	// makes at most three requests.
	maxRetries      = 2
	initialInterval = 2 * time.Second
	maxInterval     = 10 * time.Second
)

// Client calls the Alpha Vantage API with retry on transient failures and a
// circuit breaker that sheds load once the upstream looks down.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger

	newBackOff func() backoff.BackOff
}

// NewClient creates a market data client. baseURL falls back to
// DefaultBaseURL when empty.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "alpha-vantage",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("market data circuit state changed",
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
		logger: logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initialInterval
			b.MaxInterval = maxInterval
			return b
		},
	}
}

// fetch performs one API call with retries. Transport errors and 5xx
// responses are retried; anything else fails immediately.
func (c *Client) fetch(ctx context.Context, params url.Values) (map[string]json.RawMessage, error) {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	var payload map[string]json.RawMessage
	op := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, fmt.Errorf("market data request: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode >= http.StatusInternalServerError {
				return nil, fmt.Errorf("market data API status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return nil, backoff.Permanent(fmt.Errorf("market data API status %d", resp.StatusCode))
			}
			var m map[string]json.RawMessage
			if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
				return nil, backoff.Permanent(fmt.Errorf("decode market data response: %w", err))
			}
			return m, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			return err
		}
		payload = result.(map[string]json.RawMessage)
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return payload, nil
}

// Quote returns the real-time quote for symbol, or nil when the API has no
// data (unknown symbol, rate limit notice).
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	data, err := c.fetch(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	})
	if err != nil {
		return nil, err
	}
	raw, ok := data["Global Quote"]
	if !ok {
		return nil, nil
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil, nil
	}
	return &models.Quote{
		Symbol:           fields["01. symbol"],
		Price:            parseFloat(fields["05. price"]),
		Change:           parseFloat(fields["09. change"]),
		ChangePercent:    orDefault(fields["10. change percent"], "0%"),
		Volume:           parseInt(fields["06. volume"]),
		LatestTradingDay: fields["07. latest trading day"],
	}, nil
}

// CompanyOverview returns fundamental data for symbol, or nil when absent.
func (c *Client) CompanyOverview(ctx context.Context, symbol string) (*models.CompanyOverview, error) {
	data, err := c.fetch(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {symbol},
	})
	if err != nil {
		return nil, err
	}
	if _, ok := data["Symbol"]; !ok {
		return nil, nil
	}
	overview := &models.CompanyOverview{
		Symbol:        stringField(data, "Symbol"),
		Name:          stringField(data, "Name"),
		Description:   stringField(data, "Description"),
		Sector:        stringField(data, "Sector"),
		Industry:      stringField(data, "Industry"),
		MarketCap:     stringField(data, "MarketCapitalization"),
		PERatio:       stringField(data, "PERatio"),
		DividendYield: stringField(data, "DividendYield"),
		WeekHigh52:    stringField(data, "52WeekHigh"),
		WeekLow52:     stringField(data, "52WeekLow"),
	}
	return overview, nil
}

// NewsSentiment returns up to five recent articles with sentiment scores.
// tickers is a comma-separated symbol list; empty means market-wide news.
func (c *Client) NewsSentiment(ctx context.Context, tickers string) ([]models.NewsItem, error) {
	params := url.Values{
		"function": {"NEWS_SENTIMENT"},
		"topics":   {"financial_markets"},
		"limit":    {"10"},
	}
	if tickers != "" {
		params.Set("tickers", tickers)
	}
	data, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	raw, ok := data["feed"]
	if !ok {
		return nil, nil
	}
	var feed []struct {
		Title          string  `json:"title"`
		Summary        string  `json:"summary"`
		Source         string  `json:"source"`
		URL            string  `json:"url"`
		SentimentScore float64 `json:"overall_sentiment_score"`
		SentimentLabel string  `json:"overall_sentiment_label"`
		Published      string  `json:"time_published"`
	}
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, nil
	}
	if len(feed) > 5 {
		feed = feed[:5]
	}
	items := make([]models.NewsItem, len(feed))
	for i, f := range feed {
		items[i] = models.NewsItem{
			Title:          f.Title,
			Summary:        f.Summary,
			Source:         f.Source,
			URL:            f.URL,
			SentimentScore: f.SentimentScore,
			SentimentLabel: f.SentimentLabel,
			Published:      f.Published,
		}
	}
	return items, nil
}

// TechnicalIndicator returns up to ten recent readings of an indicator,
// newest first. indicator is an Alpha Vantage function name such as RSI.
func (c *Client) TechnicalIndicator(ctx context.Context, symbol, indicator string) (*models.TechnicalIndicator, error) {
	data, err := c.fetch(ctx, url.Values{
		"function":    {indicator},
		"symbol":      {symbol},
		"interval":    {"daily"},
		"time_period": {"14"},
		"series_type": {"close"},
	})
	if err != nil {
		return nil, err
	}
	raw, ok := data["Technical Analysis: "+indicator]
	if !ok {
		return nil, nil
	}
	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, nil
	}
	dates := make([]string, 0, len(series))
	for date := range series {
		dates = append(dates, date)
	}
	// newest first
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > 10 {
		dates = dates[:10]
	}
	result := &models.TechnicalIndicator{
		Symbol:    symbol,
		Indicator: indicator,
		Values:    make([]models.IndicatorValue, len(dates)),
	}
	for i, date := range dates {
		result.Values[i] = models.IndicatorValue{
			Date:  date,
			Value: parseFloat(series[date][indicator]),
		}
	}
	return result, nil
}

// FormatContext composes a prompt-ready market summary for symbol. The bool
// reports whether any live data was found.
func (c *Client) FormatContext(ctx context.Context, symbol string) (string, bool) {
	var parts []string

	quote, err := c.Quote(ctx, symbol)
	if err != nil {
		c.logger.Warn("quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else if quote != nil {
		parts = append(parts, fmt.Sprintf("Current Price: $%.2f (%s change)", quote.Price, quote.ChangePercent))
	}

	overview, err := c.CompanyOverview(ctx, symbol)
	if err != nil {
		c.logger.Warn("overview lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else if overview != nil {
		parts = append(parts, fmt.Sprintf("Company: %s (%s)", overview.Name, overview.Sector))
		if hasValue(overview.PERatio) {
			parts = append(parts, fmt.Sprintf("P/E Ratio: %s", overview.PERatio))
		}
		if hasValue(overview.DividendYield) {
			parts = append(parts, fmt.Sprintf("Dividend Yield: %s%%", overview.DividendYield))
		}
	}

	rsi, err := c.TechnicalIndicator(ctx, symbol, "RSI")
	if err != nil {
		c.logger.Warn("indicator lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else if rsi != nil && len(rsi.Values) > 0 {
		parts = append(parts, fmt.Sprintf("RSI (14): %.2f", rsi.Values[0].Value))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Unable to fetch market data for %s", symbol), false
	}
	return fmt.Sprintf("Market data for %s:\n%s", symbol, strings.Join(parts, "\n")), true
}

func stringField(data map[string]json.RawMessage, key string) string {
	raw, ok := data[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func hasValue(s string) bool {
	return s != "" && s != "None" && s != "-"
}
