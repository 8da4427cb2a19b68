package guardrail

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeQueryClean(t *testing.T) {
	f := NewFilter(nil)
	clean, refusal, blocked := f.SanitizeQuery("  how should I invest $500 a month?  ")
	if blocked {
		t.Fatalf("benign query blocked: %s", refusal)
	}
	if clean != "how should I invest $500 a month?" {
		t.Fatalf("unexpected clean query %q", clean)
	}
}

func TestSanitizeQueryStripsInjectionChars(t *testing.T) {
	f := NewFilter(nil)
	clean, _, blocked := f.SanitizeQuery("tell me about <script>bonds</script>\x00 now")
	if blocked {
		t.Fatal("unexpected block")
	}
	if strings.ContainsAny(clean, "<>\x00") {
		t.Fatalf("injection characters survived: %q", clean)
	}
	if !strings.Contains(clean, "scriptbonds") {
		t.Fatalf("unexpected clean query %q", clean)
	}
}

func TestSanitizeQueryCapsLength(t *testing.T) {
	f := NewFilter(nil)
	clean, _, _ := f.SanitizeQuery(strings.Repeat("a", 6000))
	if len(clean) != 5000 {
		t.Fatalf("expected 5000 chars, got %d", len(clean))
	}
}

func TestSanitizeQueryCapKeepsValidUTF8(t *testing.T) {
	f := NewFilter(nil)
	// Three-byte runes do not divide 5000, so a byte cut would split one.
	clean, _, _ := f.SanitizeQuery(strings.Repeat("€", 2000))
	if !utf8.ValidString(clean) {
		t.Fatal("truncated query is not valid UTF-8")
	}
	if len(clean) > 5000 {
		t.Fatalf("expected at most 5000 bytes, got %d", len(clean))
	}
	if len(clean) != 4998 {
		t.Fatalf("expected cut on the last full rune at 4998 bytes, got %d", len(clean))
	}
}

func TestSanitizeQueryBlockedTopics(t *testing.T) {
	f := NewFilter(nil)
	tests := []struct {
		query string
		topic string
	}{
		{"how do I get GUARANTEED RETURNS", "guaranteed returns"},
		{"best get rich quick scheme", "get rich quick"},
		{"is insider trading profitable", "insider trading"},
		{"explain a Ponzi setup", "ponzi"},
	}
	for _, tt := range tests {
		_, refusal, blocked := f.SanitizeQuery(tt.query)
		if !blocked {
			t.Errorf("query %q not blocked", tt.query)
			continue
		}
		if !strings.Contains(refusal, "'"+tt.topic+"'") {
			t.Errorf("refusal does not name topic %q: %s", tt.topic, refusal)
		}
	}
}

func TestSanitizeQueryExtraTopics(t *testing.T) {
	f := NewFilter([]string{"Crypto Presale"})
	_, _, blocked := f.SanitizeQuery("should I join this crypto presale?")
	if !blocked {
		t.Fatal("extra topic not blocked")
	}
}

func TestSanitizeResponseAddsDisclaimer(t *testing.T) {
	f := NewFilter(nil)
	out := f.SanitizeResponse("Stocks can grow over the long term.")
	if !strings.Contains(out, "**Disclaimer**") {
		t.Fatal("disclaimer missing")
	}
	if strings.Contains(out, "Important Risk Warning") {
		t.Fatal("risk warning added without risky language")
	}
}

func TestSanitizeResponseSkipsExistingDisclaimer(t *testing.T) {
	f := NewFilter(nil)
	out := f.SanitizeResponse("This is not financial advice, just education.")
	if strings.Contains(out, "**Disclaimer**") {
		t.Fatal("disclaimer duplicated")
	}
}

func TestSanitizeResponseRiskyLanguage(t *testing.T) {
	f := NewFilter(nil)
	out := f.SanitizeResponse("This fund will guarantee a 12% return every year.")
	if !strings.Contains(out, "Important Risk Warning") {
		t.Fatal("risk warning missing for risky language")
	}
}

func TestSanitizeResponseIdempotent(t *testing.T) {
	f := NewFilter(nil)
	once := f.SanitizeResponse("You can't lose with this strategy.")
	twice := f.SanitizeResponse(once)
	if once != twice {
		t.Fatalf("second application changed output:\n%q\nvs\n%q", once, twice)
	}
	if strings.Count(twice, "Important Risk Warning") != 1 {
		t.Fatal("risk warning duplicated")
	}
	if strings.Count(twice, "**Disclaimer**") != 1 {
		t.Fatal("disclaimer duplicated")
	}
}

func TestValidateSeverities(t *testing.T) {
	f := NewFilter(nil)

	report := f.Validate("A risk-free profit on this ponzi play.")
	if report.IsValid {
		t.Fatal("expected invalid report for blocked topic")
	}
	var warnings, errors int
	for _, issue := range report.Issues {
		switch issue.Severity {
		case SeverityWarning:
			warnings++
			if issue.Type != IssueRiskyLanguage {
				t.Errorf("unexpected warning type %s", issue.Type)
			}
		case SeverityError:
			errors++
			if issue.Type != IssueBlockedTopic {
				t.Errorf("unexpected error type %s", issue.Type)
			}
		}
	}
	if warnings == 0 || errors == 0 {
		t.Fatalf("expected both warning and error issues, got %+v", report.Issues)
	}
}

func TestValidateCleanResponse(t *testing.T) {
	f := NewFilter(nil)
	report := f.Validate("Diversify across asset classes and rebalance annually.")
	if !report.IsValid || len(report.Issues) != 0 {
		t.Fatalf("expected clean report, got %+v", report)
	}
}

func TestValidateWarningOnlyStaysValid(t *testing.T) {
	f := NewFilter(nil)
	report := f.Validate("Nothing can guarantee a return in markets.")
	if !report.IsValid {
		t.Fatal("warning-only report should stay valid")
	}
	if len(report.Issues) != 1 || report.Issues[0].Severity != SeverityWarning {
		t.Fatalf("unexpected issues %+v", report.Issues)
	}
}

func TestDisclaimerText(t *testing.T) {
	f := NewFilter(nil)
	d := f.Disclaimer()
	if !strings.Contains(d, "educational purposes only") {
		t.Fatal("unexpected disclaimer text")
	}
}
