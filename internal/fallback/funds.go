package fallback

import (
	"fmt"

	"github.com/wealthpilot/advisor/internal/models"
	"github.com/wealthpilot/advisor/pkg/utils"
)

// fundRecommendations returns the curated SIP portfolio for a risk tier with
// monthly amounts split across fund categories.
func fundRecommendations(risk models.RiskTolerance, monthly float64) string {
	amt := func(fraction float64) string {
		return utils.FormatAmount(monthly * fraction)
	}
	switch risk {
	case models.RiskConservative:
		return fmt.Sprintf(conservativeFunds,
			utils.FormatAmount(monthly), amt(0.6), amt(0.25), amt(0.15),
			amt(0.6), amt(0.25), amt(0.15))
	case models.RiskAggressive:
		return fmt.Sprintf(aggressiveFunds,
			utils.FormatAmount(monthly), amt(0.4), amt(0.35), amt(0.25),
			amt(0.4), amt(0.35), amt(0.25))
	default:
		return fmt.Sprintf(moderateFunds,
			utils.FormatAmount(monthly), amt(0.35), amt(0.3), amt(0.2), amt(0.15),
			amt(0.35), amt(0.3), amt(0.2), amt(0.15))
	}
}

const conservativeFunds = `**Mutual Fund Recommendations for Conservative Investors**

Based on your profile, here's a **%s/month SIP** portfolio:

---

### Debt Funds (60%% - %s/month)

| Fund Name | Category | 3Y Returns | Expense Ratio | Rating |
|-----------|----------|------------|---------------|--------|
| **HDFC Short Term Debt Fund** | Short Duration | 6.8%% | 0.35%% | 5/5 |
| **ICICI Pru Corporate Bond Fund** | Corporate Bond | 7.2%% | 0.36%% | 5/5 |
| **SBI Magnum Gilt Fund** | Gilt | 6.5%% | 0.46%% | 4/5 |

---

### Balanced Advantage Funds (25%% - %s/month)

| Fund Name | Category | 3Y Returns | Equity:Debt | Why Recommended |
|-----------|----------|------------|-------------|-----------------|
| **ICICI Pru Balanced Advantage** | BAF | 11.2%% | Dynamic | Auto rebalancing |
| **HDFC Balanced Advantage** | BAF | 12.8%% | Dynamic | Consistent performer |

---

### Large Cap Equity (15%% - %s/month)

| Fund Name | Category | 3Y Returns | Risk | Best For |
|-----------|----------|------------|------|----------|
| **UTI Nifty 50 Index Fund** | Index | 12.5%% | Low | Core holding |
| **HDFC Index Nifty 50** | Index | 12.3%% | Low | Low cost |

---

### Investment Plan:

**Monthly Allocation:**
- Debt Funds: %s
- BAF Funds: %s
- Large Cap: %s

**Expected Returns**: 8-10%% p.a. | **Investment Horizon**: 3-5 years

**Note**: Returns are not guaranteed. Check fund ratings on Value Research/Morningstar.`

const aggressiveFunds = `**Mutual Fund Recommendations for Aggressive Investors**

Based on your profile, here's a **%s/month SIP** portfolio:

---

### Small & Mid Cap Funds (40%% - %s/month)

| Fund Name | Category | 3Y Returns | Risk | Star Rating |
|-----------|----------|------------|------|-------------|
| **Quant Small Cap Fund** | Small Cap | 35.2%% | Very High | 5/5 |
| **Nippon India Small Cap** | Small Cap | 32.1%% | Very High | 5/5 |
| **Kotak Emerging Equity** | Mid Cap | 23.1%% | High | 5/5 |

---

### Flexi/Multi Cap Funds (35%% - %s/month)

| Fund Name | Category | 3Y Returns | Style | Why Buy |
|-----------|----------|------------|-------|---------|
| **Parag Parikh Flexi Cap** | Flexi Cap | 19.8%% | Value | International exposure |
| **Quant Active Fund** | Multi Cap | 28.4%% | Momentum | High alpha generator |
| **HDFC Flexi Cap** | Flexi Cap | 18.5%% | Blend | Proven track record |

---

### Sectoral/Thematic Funds (25%% - %s/month)

| Fund Name | Theme | 3Y Returns | Risk | Rationale |
|-----------|-------|------------|------|-----------|
| **ICICI Pru Technology** | IT/Tech | 18.2%% | High | Digital India play |
| **Nippon India Pharma** | Healthcare | 15.8%% | Medium | Defensive + growth |
| **Invesco India PSU Equity** | PSU | 42.5%% | High | Govt capex beneficiary |

---

### Investment Plan:

**Monthly Allocation:**
- Small/Mid Cap: %s
- Flexi Cap: %s
- Sectoral: %s

**Expected Returns**: 15-20%% p.a. | **Investment Horizon**: 7+ years

**Warning**: High volatility expected. Don't panic during 20-30%% corrections!`

const moderateFunds = `**Mutual Fund Recommendations for Moderate Risk Investors**

Based on your profile, here's a **%s/month SIP** portfolio:

---

### Large Cap Core (35%% - %s/month)

| Fund Name | Category | 3Y Returns | Expense | Rating |
|-----------|----------|------------|---------|--------|
| **Mirae Asset Large Cap** | Large Cap | 14.2%% | 0.52%% | 5/5 |
| **UTI Nifty 50 Index Fund** | Index | 12.5%% | 0.18%% | 5/5 |
| **Canara Robeco Bluechip** | Large Cap | 14.8%% | 0.43%% | 5/5 |

---

### Flexi Cap (30%% - %s/month)

| Fund Name | Category | 3Y Returns | Style | Key Strength |
|-----------|----------|------------|-------|--------------|
| **Parag Parikh Flexi Cap** | Flexi Cap | 19.8%% | Value | International + Quality |
| **HDFC Flexi Cap Fund** | Flexi Cap | 18.5%% | Blend | Large AUM, consistent |

---

### Mid Cap Growth (20%% - %s/month)

| Fund Name | Category | 3Y Returns | Risk | Opportunity |
|-----------|----------|------------|------|-------------|
| **Kotak Emerging Equity** | Mid Cap | 23.1%% | Moderate-High | Quality midcaps |
| **Axis Mid Cap Fund** | Mid Cap | 20.5%% | Moderate-High | Growth focused |

---

### Debt Stability (15%% - %s/month)

| Fund Name | Category | 3Y Returns | Safety | Purpose |
|-----------|----------|------------|--------|---------|
| **HDFC Short Term Debt** | Short Duration | 6.8%% | High | Stability anchor |
| **ICICI Pru Corporate Bond** | Corporate Bond | 7.2%% | High | Better than FD |

---

### Investment Plan:

**Monthly Allocation:**
- Large Cap: %s
- Flexi Cap: %s
- Mid Cap: %s
- Debt: %s

**Expected Returns**: 12-14%% p.a. | **Investment Horizon**: 5-7 years

**Pro Tip**: Increase SIP by 10%% every year for better wealth creation!`
