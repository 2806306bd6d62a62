package analytics

import (
	"fmt"
	"sort"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// Bounds for the CustomerLTV top_n parameter.
const (
	MinTopN = 1
	MaxTopN = 50
	// DefaultTopN applies when the caller omits top_n.
	DefaultTopN = 10
)

// CustomerLTVParams selects and filters the lifetime-value ranking.
type CustomerLTVParams struct {
	TopN    int    // number of customers to return, 1..50
	Region  string // optional region filter
	Segment string // optional segment filter
}

// CustomerLTV is one ranked customer.
type CustomerLTV struct {
	CustomerID          string  `json:"customer_id"`
	TotalSpent          float64 `json:"total_spent"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	Region              string  `json:"region"`
	Segment             string  `json:"segment"`
	Rank                int     `json:"rank"`
}

// CustomerLTVResult is the success payload of get_customer_ltv.
type CustomerLTVResult struct {
	Header
	Data []CustomerLTV `json:"data"`
	// AverageLTV and TotalCustomersAnalyzed cover the full filtered
	// population, not just the returned top-N rows.
	AverageLTV             float64 `json:"average_ltv"`
	TotalCustomersAnalyzed int     `json:"total_customers_analyzed"`
	Meta                   Meta    `json:"metadata"`
}

// CustomerLTVRanking ranks customers by total non-returned spend.
func (e *Engine) CustomerLTVRanking(p CustomerLTVParams) Envelope {
	if p.TopN < MinTopN || p.TopN > MaxTopN {
		return invalidInput(
			fmt.Sprintf("top_n must be between %d and %d, got %d", MinTopN, MaxTopN, p.TopN),
			"Use a value like 10 or 20")
	}
	if p.Region != "" && !domain.Regions.Contains(p.Region) {
		return invalidInput(
			fmt.Sprintf("Invalid region: %s", p.Region),
			fmt.Sprintf("Valid regions are: %v", domain.Regions.Values()))
	}
	if p.Segment != "" && !domain.Segments.Contains(p.Segment) {
		return invalidInput(
			fmt.Sprintf("Invalid segment: %s", p.Segment),
			fmt.Sprintf("Valid segments are: %v", domain.Segments.Values()))
	}

	filters := map[string]string{}
	if p.Region != "" {
		filters["region"] = p.Region
	}
	if p.Segment != "" {
		filters["segment"] = p.Segment
	}

	type agg struct {
		spent   float64
		count   int
		region  string
		segment string
	}
	groups := map[string]*agg{}
	for _, row := range e.snap.Merged() {
		if row.Returned || !row.HasCustomer {
			continue
		}
		if p.Region != "" && row.Region != p.Region {
			continue
		}
		if p.Segment != "" && row.Segment != p.Segment {
			continue
		}
		g := groups[row.CustomerID]
		if g == nil {
			g = &agg{region: row.Region, segment: row.Segment}
			groups[row.CustomerID] = g
		}
		g.spent += row.Amount
		g.count++
	}

	if len(groups) == 0 {
		return noData("No customers found matching the specified filters.",
			"Try removing filters", "Check region/segment spelling")
	}

	ids := sortedKeys(groups)
	sort.SliceStable(ids, func(i, j int) bool {
		si, sj := groups[ids[i]].spent, groups[ids[j]].spent
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})

	var sumSpent float64
	for _, g := range groups {
		sumSpent += g.spent
	}
	averageLTV := sumSpent / float64(len(groups))

	n := p.TopN
	if n > len(ids) {
		n = len(ids)
	}
	data := make([]CustomerLTV, 0, n)
	for i := 0; i < n; i++ {
		g := groups[ids[i]]
		data = append(data, CustomerLTV{
			CustomerID:          ids[i],
			TotalSpent:          round2(g.spent),
			TransactionCount:    g.count,
			AvgTransactionValue: round2(g.spent / float64(g.count)),
			Region:              g.region,
			Segment:             g.segment,
			Rank:                i + 1,
		})
	}

	first := data[0]
	return success(&CustomerLTVResult{
		Header: Header{
			Tool: ToolCustomerLTV,
			Summary: fmt.Sprintf(
				"Top %d customers by lifetime value. #1 is %s with %s from %d transactions. Average LTV across %d customers is %s.",
				len(data), first.CustomerID, money(first.TotalSpent), first.TransactionCount,
				len(groups), money(averageLTV)),
		},
		Data:                   data,
		AverageLTV:             round2(averageLTV),
		TotalCustomersAnalyzed: len(groups),
		Meta:                   e.meta(e.anchor.DataStart, e.anchor.DataEnd, filters, len(data)),
	})
}
