package analytics

import (
	"fmt"
)

// RegionMetrics is the per-region comparison row. AvgTransactionValue
// is computed over non-returned transactions only and reported as 0
// when a region has none.
type RegionMetrics struct {
	Region              string  `json:"region"`
	TotalRevenue        float64 `json:"total_revenue"`
	CustomerCount       int     `json:"customer_count"`
	TransactionCount    int     `json:"transaction_count"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
	ReturnRatePercent   float64 `json:"return_rate_percent"`
}

// CompareRegionsResult is the success payload of compare_regions.
type CompareRegionsResult struct {
	Header
	Data                 []RegionMetrics `json:"data"`
	TopRegionByRevenue   string          `json:"top_region_by_revenue"`
	TopRegionByCustomers string          `json:"top_region_by_customers"`
	Meta                 Meta            `json:"metadata"`
}

// CompareRegions compares business performance across all regions.
func (e *Engine) CompareRegions() Envelope {
	type agg struct {
		revenue   float64
		txns      int
		returned  int
		customers map[string]bool
	}
	groups := map[string]*agg{}
	records := 0
	for _, row := range e.snap.Merged() {
		records++
		if !row.HasCustomer {
			continue
		}
		g := groups[row.Region]
		if g == nil {
			g = &agg{customers: map[string]bool{}}
			groups[row.Region] = g
		}
		g.txns++
		g.customers[row.CustomerID] = true
		if row.Returned {
			g.returned++
		} else {
			g.revenue += row.Amount
		}
	}

	if len(groups) == 0 {
		return noData("No transactions are linked to a known customer.",
			"Check the customers table")
	}

	keys := sortedKeys(groups)
	sortByRevenueDesc(keys, func(k string) float64 { return groups[k].revenue })

	data := make([]RegionMetrics, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		avg := 0.0
		if kept := g.txns - g.returned; kept > 0 {
			avg = g.revenue / float64(kept)
		}
		data = append(data, RegionMetrics{
			Region:              k,
			TotalRevenue:        round2(g.revenue),
			CustomerCount:       len(g.customers),
			TransactionCount:    g.txns,
			AvgTransactionValue: round2(avg),
			ReturnRatePercent:   round1(100 * float64(g.returned) / float64(g.txns)),
		})
	}

	topByRevenue := data[0].Region
	topByCustomers := data[0].Region
	maxCustomers := data[0].CustomerCount
	for _, r := range data[1:] {
		if r.CustomerCount > maxCustomers {
			maxCustomers = r.CustomerCount
			topByCustomers = r.Region
		}
	}

	return success(&CompareRegionsResult{
		Header: Header{
			Tool: ToolCompareRegions,
			Summary: fmt.Sprintf(
				"%s leads in revenue with %s. %s has the most customers (%d).",
				title(topByRevenue), money(data[0].TotalRevenue), title(topByCustomers), maxCustomers),
		},
		Data:                 data,
		TopRegionByRevenue:   topByRevenue,
		TopRegionByCustomers: topByCustomers,
		Meta:                 e.meta(e.anchor.DataStart, e.anchor.DataEnd, nil, records),
	})
}
