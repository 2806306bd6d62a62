package analytics

import (
	"fmt"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// PaymentMethodParams optionally narrows the analysis by category or
// customer region.
type PaymentMethodParams struct {
	Category string
	Region   string
}

// PaymentMethodMetrics is the per-method usage row. UsageCount and the
// return rate cover every transaction; revenue and the average cover
// non-returned rows only.
type PaymentMethodMetrics struct {
	PaymentMethod       string  `json:"payment_method"`
	UsageCount          int     `json:"usage_count"`
	ReturnedCount       int     `json:"returned_count"`
	TotalRevenue        float64 `json:"total_revenue"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	UsagePercent        float64 `json:"usage_percent"`
	ReturnRatePercent   float64 `json:"return_rate_percent"`
}

// PaymentMethodResult is the success payload of get_payment_method_analysis.
type PaymentMethodResult struct {
	Header
	Data              []PaymentMethodMetrics `json:"data"`
	MostPopularMethod string                 `json:"most_popular_method"`
	HighestAvgValue   string                 `json:"highest_avg_value_method"`
	Meta              Meta                   `json:"metadata"`
}

// PaymentMethodAnalysis breaks down transaction volume and revenue by
// payment method. A region filter requires the customer join, so rows
// without a matched customer are dropped when it is set.
func (e *Engine) PaymentMethodAnalysis(p PaymentMethodParams) Envelope {
	if p.Category != "" && !domain.Categories.Contains(p.Category) {
		return invalidInput(
			fmt.Sprintf("Invalid category: %s", p.Category),
			fmt.Sprintf("Valid categories are: %v", domain.Categories.Values()))
	}
	if p.Region != "" && !domain.Regions.Contains(p.Region) {
		return invalidInput(
			fmt.Sprintf("Invalid region: %s", p.Region),
			fmt.Sprintf("Valid regions are: %v", domain.Regions.Values()))
	}

	filters := map[string]string{}
	if p.Category != "" {
		filters["category"] = p.Category
	}
	if p.Region != "" {
		filters["region"] = p.Region
	}

	type agg struct {
		count    int
		returned int
		revenue  float64
	}
	groups := map[string]*agg{}
	records := 0
	for _, row := range e.snap.Merged() {
		if p.Category != "" && row.Category != p.Category {
			continue
		}
		if p.Region != "" && (!row.HasCustomer || row.Region != p.Region) {
			continue
		}
		g := groups[row.PaymentMethod]
		if g == nil {
			g = &agg{}
			groups[row.PaymentMethod] = g
		}
		g.count++
		records++
		if row.Returned {
			g.returned++
		} else {
			g.revenue += row.Amount
		}
	}

	if records == 0 {
		return noData("No transactions found matching the specified filters.",
			"Try removing filters", "Check category/region spelling")
	}

	keys := sortedKeys(groups)
	sortByCountDesc(keys, func(k string) int { return groups[k].count })

	data := make([]PaymentMethodMetrics, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		avg := 0.0
		if kept := g.count - g.returned; kept > 0 {
			avg = g.revenue / float64(kept)
		}
		data = append(data, PaymentMethodMetrics{
			PaymentMethod:       k,
			UsageCount:          g.count,
			ReturnedCount:       g.returned,
			TotalRevenue:        round2(g.revenue),
			AvgTransactionValue: round2(avg),
			UsagePercent:        round1(100 * float64(g.count) / float64(records)),
			ReturnRatePercent:   round1(100 * float64(g.returned) / float64(g.count)),
		})
	}

	mostPopular := data[0]
	highestAvg := data[0]
	for _, m := range data[1:] {
		if m.AvgTransactionValue > highestAvg.AvgTransactionValue {
			highestAvg = m
		}
	}

	return success(&PaymentMethodResult{
		Header: Header{
			Tool: ToolPaymentMethods,
			Summary: fmt.Sprintf(
				"%s is the most used payment method (%d transactions, %.1f%% of volume). %s has the highest average transaction value at %s.",
				title(mostPopular.PaymentMethod), mostPopular.UsageCount, mostPopular.UsagePercent,
				title(highestAvg.PaymentMethod), money(highestAvg.AvgTransactionValue)),
		},
		Data:              data,
		MostPopularMethod: mostPopular.PaymentMethod,
		HighestAvgValue:   highestAvg.PaymentMethod,
		Meta:              e.meta(e.anchor.DataStart, e.anchor.DataEnd, filters, records),
	})
}
