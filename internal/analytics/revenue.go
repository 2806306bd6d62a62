package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/commerce-insights/internal/dataset"
	"github.com/dvloznov/commerce-insights/internal/domain"
)

// RevenueByCategoryParams filters the revenue-by-category breakdown.
// All fields are optional; empty means "no filter".
type RevenueByCategoryParams struct {
	StartDate  string   // YYYY-MM-DD, inclusive
	EndDate    string   // YYYY-MM-DD, inclusive
	Categories []string // allow-list of categories
}

// CategoryRevenue is the per-category breakdown row.
type CategoryRevenue struct {
	Category            string  `json:"category"`
	TotalRevenue        float64 `json:"total_revenue"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	PercentageOfTotal   float64 `json:"percentage_of_total"`
}

// RevenueByCategoryResult is the success payload of get_revenue_by_category.
type RevenueByCategoryResult struct {
	Header
	Data         []CategoryRevenue `json:"data"`
	TotalRevenue float64           `json:"total_revenue"`
	TopCategory  string            `json:"top_category"`
	Meta         Meta              `json:"metadata"`
}

// RevenueByCategory computes total revenue broken down by product
// category, excluding returned items.
func (e *Engine) RevenueByCategory(p RevenueByCategoryParams) Envelope {
	// Validate everything before touching the data.
	rangeStart := e.anchor.DataStart
	rangeEnd := e.anchor.DataEnd

	if p.StartDate != "" {
		start, err := time.Parse(dataset.DateFormat, p.StartDate)
		if err != nil {
			return invalidInput(
				fmt.Sprintf("Invalid start_date format: %s. Use YYYY-MM-DD.", p.StartDate),
				"Use format like '2024-01-01'")
		}
		rangeStart = start
	}
	if p.EndDate != "" {
		end, err := time.Parse(dataset.DateFormat, p.EndDate)
		if err != nil {
			return invalidInput(
				fmt.Sprintf("Invalid end_date format: %s. Use YYYY-MM-DD.", p.EndDate),
				"Use format like '2024-12-31'")
		}
		rangeEnd = end
	}

	filters := map[string]string{}
	allowed := map[string]bool{}
	if len(p.Categories) > 0 {
		var invalid []string
		for _, c := range p.Categories {
			if !domain.Categories.Contains(c) {
				invalid = append(invalid, c)
			}
			allowed[c] = true
		}
		if len(invalid) > 0 {
			return invalidInput(
				fmt.Sprintf("Invalid categories: %v", invalid),
				fmt.Sprintf("Valid categories are: %v", domain.Categories.Values()))
		}
		filters["categories"] = strings.Join(p.Categories, ",")
	}

	type agg struct {
		revenue float64
		count   int
	}
	groups := map[string]*agg{}
	records := 0
	for _, t := range e.snap.Transactions() {
		if t.Returned {
			continue
		}
		if p.StartDate != "" && t.Date.Before(rangeStart) {
			continue
		}
		if p.EndDate != "" && t.Date.After(rangeEnd) {
			continue
		}
		if len(allowed) > 0 && !allowed[t.Category] {
			continue
		}
		g := groups[t.Category]
		if g == nil {
			g = &agg{}
			groups[t.Category] = g
		}
		g.revenue += t.Amount
		g.count++
		records++
	}

	if records == 0 {
		return noData("No transactions found matching the specified filters.",
			"Try a broader date range",
			"Check category spelling",
			"Use explain_capabilities to see valid options")
	}

	var total float64
	for _, g := range groups {
		total += g.revenue
	}

	keys := sortedKeys(groups)
	sortByRevenueDesc(keys, func(k string) float64 { return groups[k].revenue })

	data := make([]CategoryRevenue, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		data = append(data, CategoryRevenue{
			Category:            k,
			TotalRevenue:        round2(g.revenue),
			TransactionCount:    g.count,
			AvgTransactionValue: round2(g.revenue / float64(g.count)),
			PercentageOfTotal:   round1(100 * g.revenue / total),
		})
	}

	top := data[0]
	return success(&RevenueByCategoryResult{
		Header: Header{
			Tool: ToolRevenueByCategory,
			Summary: fmt.Sprintf(
				"Total revenue of %s across %d categories. %s is the top performer with %s (%.1f%% of total).",
				money(total), len(data), title(top.Category), money(top.TotalRevenue), top.PercentageOfTotal),
		},
		Data:         data,
		TotalRevenue: round2(total),
		TopCategory:  top.Category,
		Meta:         e.meta(rangeStart, rangeEnd, filters, records),
	})
}
