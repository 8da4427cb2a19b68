// Package guardrail enforces compliance boundaries on advisory queries and
// responses: blocked topics are refused up front, risky language gets a
// warning, and every outgoing answer carries a disclaimer.
package guardrail

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Disclaimer is appended to responses that do not already carry one.
const Disclaimer = `---
**Disclaimer**: This is AI-generated financial guidance for educational purposes only.
It does not constitute professional financial advice, investment recommendations, or
an offer to buy or sell any securities. Past performance does not guarantee future results.
All investments carry risk, including potential loss of principal.
Please consult with a qualified financial advisor before making any investment decisions.`

const riskWarning = "**Important Risk Warning**: All investments carry inherent risks. The statements above should not be interpreted as guarantees of future performance."

// maxQueryLength caps sanitized user input.
const maxQueryLength = 5000

// Issue severities.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Issue types.
const (
	IssueRiskyLanguage = "risky_language"
	IssueBlockedTopic  = "blocked_topic"
)

var blockedTopics = []string{
	"guaranteed returns",
	"get rich quick",
	"insider trading",
	"pump and dump",
	"ponzi",
	"pyramid scheme",
}

var riskyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)guarantee.*return`),
	regexp.MustCompile(`(?i)100%.*safe`),
	regexp.MustCompile(`(?i)can't lose`),
	regexp.MustCompile(`(?i)risk.?free.*profit`),
	regexp.MustCompile(`(?i)double.*money.*fast`),
}

var disclaimerKeywords = []string{"disclaimer", "not financial advice", "consult", "professional advisor"}

var strippedChars = strings.NewReplacer("<", "", ">", "", "\x00", "")

// Issue is one compliance finding in a response.
type Issue struct {
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}

// Report is the result of validating a response. IsValid is false only when
// an error-severity issue is present.
type Report struct {
	IsValid bool    `json:"is_valid"`
	Issues  []Issue `json:"issues"`
}

// Filter applies query and response guardrails. The zero topic list is the
// built-in set; extra topics extend it.
type Filter struct {
	topics []string
}

// NewFilter creates a filter, blocking the built-in topics plus any extras.
func NewFilter(extraTopics []string) *Filter {
	topics := make([]string, 0, len(blockedTopics)+len(extraTopics))
	topics = append(topics, blockedTopics...)
	for _, t := range extraTopics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			topics = append(topics, t)
		}
	}
	return &Filter{topics: topics}
}

// SanitizeQuery cleans user input and checks it against blocked topics. When
// a topic matches, blocked is true and refusal holds the message to return
// instead of answering.
func (f *Filter) SanitizeQuery(query string) (clean, refusal string, blocked bool) {
	clean = strippedChars.Replace(query)
	if len(clean) > maxQueryLength {
		// Cut on a rune boundary so the cap never emits invalid UTF-8.
		cut := maxQueryLength
		for cut > 0 && !utf8.RuneStart(clean[cut]) {
			cut--
		}
		clean = clean[:cut]
	}
	clean = strings.TrimSpace(clean)

	lower := strings.ToLower(clean)
	for _, topic := range f.topics {
		if strings.Contains(lower, topic) {
			refusal = fmt.Sprintf("I cannot provide advice on topics related to '%s'. Please ask about legitimate investment strategies and financial planning.", topic)
			return clean, refusal, true
		}
	}
	return clean, "", false
}

// SanitizeResponse appends a risk warning when risky language is present and
// a disclaimer when none is detected. Applying it twice changes nothing.
func (f *Filter) SanitizeResponse(response string) string {
	if containsRiskyLanguage(response) && !strings.Contains(response, riskWarning) {
		response = response + "\n\n" + riskWarning + "\n"
	}
	if !hasDisclaimer(response) {
		response = response + "\n" + Disclaimer
	}
	return response
}

// Validate reports compliance issues without modifying the response. Risky
// language is a warning; a blocked topic in the output is an error.
func (f *Filter) Validate(response string) Report {
	var issues []Issue
	for _, pattern := range riskyPatterns {
		if pattern.MatchString(response) {
			issues = append(issues, Issue{
				Type:     IssueRiskyLanguage,
				Detail:   pattern.String(),
				Severity: SeverityWarning,
			})
		}
	}
	lower := strings.ToLower(response)
	for _, topic := range f.topics {
		if strings.Contains(lower, topic) {
			issues = append(issues, Issue{
				Type:     IssueBlockedTopic,
				Detail:   topic,
				Severity: SeverityError,
			})
		}
	}
	report := Report{IsValid: true, Issues: issues}
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			report.IsValid = false
			break
		}
	}
	return report
}

// Disclaimer returns the standard disclaimer text.
func (f *Filter) Disclaimer() string {
	return Disclaimer
}

func containsRiskyLanguage(text string) bool {
	for _, pattern := range riskyPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func hasDisclaimer(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range disclaimerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
