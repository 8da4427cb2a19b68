package advisor

import (
	"regexp"
	"strings"
)

// symbolPattern matches candidate ticker symbols: 2-5 uppercase letters on
// word boundaries.
var symbolPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// symbolStopWords are uppercase tokens that look like tickers but are common
// words or financial abbreviations.
var symbolStopWords = []string{
	"THE", "AND", "OR", "FOR", "TO", "IN", "OF", "IS", "IT", "ON", "AT", "BY",
	"AN", "IF", "SO", "MY", "UP", "DO", "GO", "NO", "BE", "AS", "WE", "US",
	"AM", "PM", "VS", "ETF", "IRA", "USD", "RSI", "SMA", "EMA",
}

// maxSymbols caps how many tickers a single query can trigger market lookups
// for.
const maxSymbols = 3

// ExtractSymbols returns up to three distinct ticker candidates from text in
// order of first appearance. extraStopWords extends the built-in stop list.
func ExtractSymbols(text string, extraStopWords []string) []string {
	stop := make(map[string]struct{}, len(symbolStopWords)+len(extraStopWords))
	for _, w := range symbolStopWords {
		stop[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w != "" {
			stop[w] = struct{}{}
		}
	}

	var symbols []string
	seen := make(map[string]struct{})
	for _, match := range symbolPattern.FindAllString(text, -1) {
		if _, skip := stop[match]; skip {
			continue
		}
		if _, dup := seen[match]; dup {
			continue
		}
		seen[match] = struct{}{}
		symbols = append(symbols, match)
		if len(symbols) == maxSymbols {
			break
		}
	}
	return symbols
}
