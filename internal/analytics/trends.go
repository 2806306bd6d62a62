package analytics

import (
	"fmt"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// minTrendMonths is the smallest number of monthly buckets that can
// support a trend classification; below it the trend is "stable".
const minTrendMonths = 4

// RevenueTrendsParams optionally narrows the trend to one category.
type RevenueTrendsParams struct {
	Category string
}

// MonthlyRevenue is one calendar-month bucket of non-returned
// transactions.
type MonthlyRevenue struct {
	Month               string  `json:"month"`
	TotalRevenue        float64 `json:"total_revenue"`
	TransactionCount    int     `json:"transaction_count"`
	UniqueCustomers     int     `json:"unique_customers"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

// RevenueTrendsResult is the success payload of get_revenue_trends.
type RevenueTrendsResult struct {
	Header
	Data         []MonthlyRevenue `json:"data"`
	BestMonth    string           `json:"best_month"`
	WorstMonth   string           `json:"worst_month"`
	OverallTrend string           `json:"overall_trend"`
	Meta         Meta             `json:"metadata"`
}

// RevenueTrends buckets revenue by calendar month and classifies the
// overall direction by comparing the average monthly revenue of the
// chronological first half against the second half, with a ±10%
// threshold. Fewer than four months is reported as "stable" rather
// than an error.
func (e *Engine) RevenueTrends(p RevenueTrendsParams) Envelope {
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
		revenue   float64
		count     int
		customers map[string]bool
	}
	groups := map[string]*agg{}
	records := 0
	for _, t := range e.snap.Transactions() {
		if t.Returned {
			continue
		}
		if p.Category != "" && t.Category != p.Category {
			continue
		}
		month := t.Date.Format("2006-01")
		g := groups[month]
		if g == nil {
			g = &agg{customers: map[string]bool{}}
			groups[month] = g
		}
		g.revenue += t.Amount
		g.count++
		g.customers[t.CustomerID] = true
		records++
	}

	if records == 0 {
		return noData("No transactions found matching the specified filters.",
			"Check category spelling")
	}

	// YYYY-MM labels sort chronologically as strings.
	months := sortedKeys(groups)

	data := make([]MonthlyRevenue, 0, len(months))
	best, worst := months[0], months[0]
	for _, m := range months {
		g := groups[m]
		data = append(data, MonthlyRevenue{
			Month:               m,
			TotalRevenue:        round2(g.revenue),
			TransactionCount:    g.count,
			UniqueCustomers:     len(g.customers),
			AvgTransactionValue: round2(g.revenue / float64(g.count)),
		})
		if g.revenue > groups[best].revenue {
			best = m
		}
		if g.revenue < groups[worst].revenue {
			worst = m
		}
	}

	trend := "stable"
	if len(months) >= minTrendMonths {
		mid := len(months) / 2
		var firstHalf, secondHalf float64
		for _, m := range months[:mid] {
			firstHalf += groups[m].revenue
		}
		for _, m := range months[mid:] {
			secondHalf += groups[m].revenue
		}
		firstAvg := firstHalf / float64(mid)
		secondAvg := secondHalf / float64(len(months)-mid)
		switch {
		case firstAvg > 0 && secondAvg > firstAvg*1.10:
			trend = "growing"
		case firstAvg > 0 && secondAvg < firstAvg*0.90:
			trend = "declining"
		case firstAvg == 0 && secondAvg > 0:
			trend = "growing"
		}
	}

	return success(&RevenueTrendsResult{
		Header: Header{
			Tool: ToolRevenueTrends,
			Summary: fmt.Sprintf(
				"Revenue across %d months is %s. Best month was %s with %s; worst was %s with %s.",
				len(months), trend, best, money(groups[best].revenue), worst, money(groups[worst].revenue)),
		},
		Data:         data,
		BestMonth:    best,
		WorstMonth:   worst,
		OverallTrend: trend,
		Meta:         e.meta(e.anchor.DataStart, e.anchor.DataEnd, filters, records),
	})
}
