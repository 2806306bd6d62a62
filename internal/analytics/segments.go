package analytics

import (
	"fmt"
	"strings"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// SegmentComparisonParams optionally narrows the comparison to one region.
type SegmentComparisonParams struct {
	Region string
}

// SegmentMetrics is the per-segment performance row. Transaction count
// and the return rate include returned rows; revenue and the averages
// cover non-returned rows only.
type SegmentMetrics struct {
	Segment             string  `json:"segment"`
	TotalRevenue        float64 `json:"total_revenue"`
	CustomerCount       int     `json:"customer_count"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	AvgTxnsPerCustomer  float64 `json:"avg_transactions_per_customer"`
	ReturnRatePercent   float64 `json:"return_rate_percent"`
	PercentageOfRevenue float64 `json:"percentage_of_revenue"`
}

// SegmentComparisonResult is the success payload of get_segment_comparison.
type SegmentComparisonResult struct {
	Header
	Data                    []SegmentMetrics `json:"data"`
	TopSegment              string           `json:"top_segment"`
	MostValuablePerCustomer string           `json:"most_valuable_per_customer"`
	Meta                    Meta             `json:"metadata"`
}

// SegmentComparison compares performance across customer segments.
// Only rows with a matched customer participate.
func (e *Engine) SegmentComparison(p SegmentComparisonParams) Envelope {
	if p.Region != "" && !domain.Regions.Contains(p.Region) {
		return invalidInput(
			fmt.Sprintf("Invalid region: %s", p.Region),
			fmt.Sprintf("Valid regions are: %v", domain.Regions.Values()))
	}

	filters := map[string]string{}
	if p.Region != "" {
		filters["region"] = p.Region
	}

	type agg struct {
		revenue   float64
		txns      int
		returned  int
		customers map[string]bool
	}
	groups := map[string]*agg{}
	records := 0
	for _, row := range e.snap.Merged() {
		if !row.HasCustomer {
			continue
		}
		if p.Region != "" && row.Region != p.Region {
			continue
		}
		g := groups[row.Segment]
		if g == nil {
			g = &agg{customers: map[string]bool{}}
			groups[row.Segment] = g
		}
		g.txns++
		g.customers[row.CustomerID] = true
		records++
		if row.Returned {
			g.returned++
		} else {
			g.revenue += row.Amount
		}
	}

	if len(groups) == 0 {
		return noData("No transactions found matching the specified filters.",
			"Try removing filters", "Check region spelling")
	}

	var totalRev float64
	for _, g := range groups {
		totalRev += g.revenue
	}

	keys := sortedKeys(groups)
	sortByRevenueDesc(keys, func(k string) float64 { return groups[k].revenue })

	data := make([]SegmentMetrics, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		avg := 0.0
		if kept := g.txns - g.returned; kept > 0 {
			avg = g.revenue / float64(kept)
		}
		pct := 0.0
		if totalRev > 0 {
			pct = 100 * g.revenue / totalRev
		}
		n := float64(len(g.customers))
		data = append(data, SegmentMetrics{
			Segment:             k,
			TotalRevenue:        round2(g.revenue),
			CustomerCount:       len(g.customers),
			TransactionCount:    g.txns,
			AvgTransactionValue: round2(avg),
			AvgTxnsPerCustomer:  round1(float64(g.txns) / n),
			ReturnRatePercent:   round1(100 * float64(g.returned) / float64(g.txns)),
			PercentageOfRevenue: round1(pct),
		})
	}

	top := data[0]
	perCustomer := data[0]
	perCustomerAvg := avgRevenuePerCustomer(top)
	for _, s := range data[1:] {
		if a := avgRevenuePerCustomer(s); a > perCustomerAvg {
			perCustomerAvg = a
			perCustomer = s
		}
	}

	return success(&SegmentComparisonResult{
		Header: Header{
			Tool: ToolSegmentComparison,
			Summary: fmt.Sprintf(
				"%s segment leads with %s (%.1f%% of revenue). %s customers spend the most per head at %s.",
				strings.ToUpper(top.Segment), money(top.TotalRevenue), top.PercentageOfRevenue,
				strings.ToUpper(perCustomer.Segment), money(perCustomerAvg)),
		},
		Data:                    data,
		TopSegment:              top.Segment,
		MostValuablePerCustomer: perCustomer.Segment,
		Meta:                    e.meta(e.anchor.DataStart, e.anchor.DataEnd, filters, records),
	})
}

func avgRevenuePerCustomer(s SegmentMetrics) float64 {
	if s.CustomerCount == 0 {
		return 0
	}
	return s.TotalRevenue / float64(s.CustomerCount)
}
