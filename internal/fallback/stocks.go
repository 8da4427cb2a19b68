package fallback

import (
	"fmt"

	"github.com/wealthpilot/advisor/internal/models"
)

// stockRecommendations returns the curated stock portfolio for a risk tier
// with the current market sentiment banner.
func stockRecommendations(risk models.RiskTolerance, sentiment string) string {
	switch risk {
	case models.RiskConservative:
		return fmt.Sprintf(conservativeStocks, sentiment)
	case models.RiskAggressive:
		return fmt.Sprintf(aggressiveStocks, sentiment)
	default:
		return fmt.Sprintf(moderateStocks, sentiment)
	}
}

const conservativeStocks = `**Stock Recommendations for Conservative Investors**

%s

Based on your **conservative** risk profile, here are my top stock picks:

---

### Large Cap Blue Chips (70%% of equity allocation)

| Stock | Sector | Why Recommended | Current View |
|-------|--------|-----------------|--------------|
| **HDFC Bank** | Banking | India's largest private bank, consistent 15-18%% RoE | Strong Buy |
| **TCS** | IT Services | Market leader, stable 4%%+ dividend yield | Buy on dips |
| **Hindustan Unilever** | FMCG | Defensive play, 50+ brands, rural recovery | Hold |
| **Asian Paints** | Paints | 50%%+ market share, pricing power | Accumulate |
| **Nestle India** | FMCG | Premium valuations but recession-proof | SIP recommended |

---

### High Dividend Yield Stocks (30%% of equity allocation)

| Stock | Dividend Yield | Sector | Investment Rationale |
|-------|----------------|--------|---------------------|
| **ITC** | ~4.0%% | FMCG/Hotels | Re-rating in progress, FMCG growth |
| **Coal India** | ~7-8%% | Mining | High dividend, energy security play |
| **Power Grid** | ~5.0%% | Power | Steady cash flows, government backing |
| **ONGC** | ~5.5%% | Oil & Gas | Dividend aristocrat, crude hedge |

---

### Investment Strategy for You:

1. **Entry Strategy**: Start SIP in these stocks via direct equity or ETFs
2. **Allocation**: 70%% in blue chips, 30%% in dividend stocks
3. **Time Horizon**: Minimum 3-5 years
4. **Rebalancing**: Review quarterly, rebalance annually
5. **Risk Management**: Focus only on Nifty 50 companies, avoid mid/small caps

**Expected Returns**: 10-12%% CAGR with lower volatility

---

**Disclaimer**: These recommendations are based on current market analysis. Past performance doesn't guarantee future returns. Consult a SEBI-registered advisor.`

const aggressiveStocks = `**Stock Recommendations for Aggressive Investors**

%s

Based on your **aggressive** risk profile, here are high-growth stock picks:

---

### Growth Stocks (40%% allocation)

| Stock | Sector | Growth Potential | Risk Level |
|-------|--------|------------------|------------|
| **Trent** | Retail | Zudio expansion, 40%%+ revenue growth | Medium-High |
| **Zomato** | Food Tech | Market leader, path to profitability | High |
| **Dixon Tech** | Electronics | PLI benefits, Apple manufacturing | Medium |
| **Persistent Systems** | IT | Digital transformation, deal wins | Medium |
| **Polycab** | Cables | Infrastructure boom beneficiary | Medium |

---

### Mid Cap Gems (35%% allocation)

| Stock | Sector | Investment Thesis | Upside Potential |
|-------|--------|-------------------|------------------|
| **KEI Industries** | Cables | Real estate revival, export growth | 25-30%% |
| **Astral Ltd** | Pipes | Building materials leader, brand strength | 20-25%% |
| **APL Apollo** | Steel Tubes | Infrastructure play, market leader | 25-30%% |
| **KPIT Technologies** | Auto Tech | EV transition, T25 partnerships | 30-40%% |
| **Cyient DLM** | Electronics | Defense + aerospace growth | 35-45%% |

---

### High Risk-High Reward (25%% allocation)

| Stock | Sector | Risk Level | Potential Return |
|-------|--------|------------|------------------|
| **Zomato** | Food Delivery | High | 40-50%% in 2 years |
| **PB Fintech (PolicyBazaar)** | Fintech | Very High | 50-60%% if profitable |
| **Delhivery** | Logistics | High | 30-40%% |
| **Paytm** | Fintech | Very High | Turnaround play |

---

### Investment Strategy for You:

1. **Entry Strategy**: Deploy 50%% now, 50%% on 5-10%% corrections
2. **Position Sizing**: Max 5%% in any single stock
3. **Stop Loss**: Set 15-20%% stop loss on all positions
4. **Time Horizon**: 5-7 years minimum
5. **Review**: Monthly performance review

**Expected Returns**: 18-25%% CAGR with high volatility

---

**Warning**: These are high-risk recommendations. Only invest money you can afford to lose.`

const moderateStocks = `**Stock Recommendations for Moderate Risk Investors**

%s

Based on your **moderate** risk profile, here's a balanced portfolio:

---

### Core Holdings - Large Caps (50%% allocation)

| Stock | Sector | Investment Thesis | Current View |
|-------|--------|-------------------|--------------|
| **Reliance Industries** | Conglomerate | Jio + Retail growth, refinery cash cow | Strong Buy |
| **ICICI Bank** | Banking | Best-in-class asset quality, digital leader | Buy |
| **Infosys** | IT Services | Large deal wins, AI investments | Accumulate |
| **Bharti Airtel** | Telecom | 5G rollout, ARPU improvement | Buy |
| **L&T** | Infrastructure | Rs.4L Cr order book, execution king | Buy on dips |

---

### Growth Allocation - Mid Caps (30%% allocation)

| Stock | Sector | Growth Driver | Target Upside |
|-------|--------|---------------|---------------|
| **Tata Elxsi** | IT Services | Auto tech, media & broadcast | 20-25%% |
| **Coforge** | IT Services | Strong deal pipeline, BFS focus | 15-20%% |
| **Oberoi Realty** | Real Estate | Mumbai luxury segment leader | 25-30%% |
| **Max Healthcare** | Healthcare | Hospital expansion, occupancy up | 20-25%% |
| **Tube Investments** | Auto Ancillary | EV components, CG Power stake | 25-30%% |

---

### Tactical/Thematic Picks (20%% allocation)

| Stock | Sector | Investment Thesis | Timeline |
|-------|--------|-------------------|----------|
| **Tata Motors** | Auto | EV leader in India, JLR turnaround | 2-3 years |
| **SBI** | Banking | Valuations attractive, NIM stable | 1-2 years |
| **NTPC** | Power | Green energy transition, RE capacity | 3-5 years |
| **HAL** | Defense | Order book visibility, indigenization | 2-3 years |

---

### Investment Strategy for You:

1. **Entry Strategy**: Start with 50%% in large caps via SIP
2. **Mid Cap Addition**: Add mid caps over 6-month period
3. **Cash Reserve**: Keep 10%% cash for buying opportunities
4. **Rebalancing**: Quarterly review, annual rebalancing
5. **Stop Loss**: 12-15%% for mid caps, trailing for large caps

**Expected Returns**: 14-18%% CAGR with moderate volatility

---

**Disclaimer**: Invest based on your financial goals. Consult a SEBI-registered advisor for personalized advice.`
