package analytics

import (
	"fmt"
	"sort"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// ReturnRatesParams optionally narrows the analysis to one category.
type ReturnRatesParams struct {
	Category string
}

// CategoryReturnRate is the per-category return breakdown row.
// RevenueLost sums the amounts of returned rows; this is the one place
// in the engine where returned-row revenue is summed instead of excluded.
type CategoryReturnRate struct {
	Category          string  `json:"category"`
	TotalTransactions int     `json:"total_transactions"`
	ReturnedCount     int     `json:"returned_count"`
	ReturnRatePercent float64 `json:"return_rate_percent"`
	RevenueLost       float64 `json:"revenue_lost_to_returns"`
}

// ReturnRatesResult is the success payload of get_return_rates.
type ReturnRatesResult struct {
	Header
	Data                  []CategoryReturnRate `json:"data"`
	OverallReturnRate     float64              `json:"overall_return_rate"`
	HighestReturnCategory string               `json:"highest_return_category"`
	TotalRevenueLost      float64              `json:"total_revenue_lost"`
	Meta                  Meta                 `json:"metadata"`
}

// ReturnRates computes return rates by product category. Returns count
// toward both numerator and denominator; no rows are excluded.
func (e *Engine) ReturnRates(p ReturnRatesParams) Envelope {
	if p.Category != "" && !domain.Categories.Contains(p.Category) {
		return invalidInput(
			fmt.Sprintf("Invalid category: %s", p.Category),
			fmt.Sprintf("Valid categories are: %v", domain.Categories.Values()))
	}

	filters := map[string]string{}
	if p.Category != "" {
		filters["category"] = p.Category
	}

	type agg struct {
		total    int
		returned int
		lost     float64
	}
	groups := map[string]*agg{}
	totalTxn := 0
	totalReturned := 0
	var totalLost float64
	for _, t := range e.snap.Transactions() {
		if p.Category != "" && t.Category != p.Category {
			continue
		}
		g := groups[t.Category]
		if g == nil {
			g = &agg{}
			groups[t.Category] = g
		}
		g.total++
		totalTxn++
		if t.Returned {
			g.returned++
			g.lost += t.Amount
			totalReturned++
			totalLost += t.Amount
		}
	}

	if totalTxn == 0 {
		return noData("No transactions found.", "Check category spelling")
	}

	rate := func(g *agg) float64 { return 100 * float64(g.returned) / float64(g.total) }

	keys := sortedKeys(groups)
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rate(groups[keys[i]]), rate(groups[keys[j]])
		if ri != rj {
			return ri > rj
		}
		return keys[i] < keys[j]
	})

	data := make([]CategoryReturnRate, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		data = append(data, CategoryReturnRate{
			Category:          k,
			TotalTransactions: g.total,
			ReturnedCount:     g.returned,
			ReturnRatePercent: round1(rate(g)),
			RevenueLost:       round2(g.lost),
		})
	}

	overall := 100 * float64(totalReturned) / float64(totalTxn)
	highest := data[0]

	return success(&ReturnRatesResult{
		Header: Header{
			Tool: ToolReturnRates,
			Summary: fmt.Sprintf(
				"Overall return rate is %.1f%%. %s has the highest return rate at %.1f%%. Total revenue lost to returns: %s.",
				overall, title(highest.Category), highest.ReturnRatePercent, money(totalLost)),
		},
		Data:                  data,
		OverallReturnRate:     round1(overall),
		HighestReturnCategory: highest.Category,
		TotalRevenueLost:      round2(totalLost),
		Meta:                  e.meta(e.anchor.DataStart, e.anchor.DataEnd, filters, totalTxn),
	})
}
