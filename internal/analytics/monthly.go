package analytics

import (
	"fmt"
	"time"
)

// PeriodMetrics describes one calendar-month window. Revenue and the
// average exclude returned rows; UniqueCustomers counts distinct
// customer references among the non-returned rows.
type PeriodMetrics struct {
	PeriodLabel         string  `json:"period_label"`
	Start               string  `json:"start"`
	End                 string  `json:"end"`
	TotalRevenue        float64 `json:"total_revenue"`
	TransactionCount    int     `json:"transaction_count"`
	UniqueCustomers     int     `json:"unique_customers"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

// MonthOverMonthResult is the success payload of get_month_over_month.
type MonthOverMonthResult struct {
	Header
	CurrentMonth         PeriodMetrics `json:"current_month"`
	PreviousMonth        PeriodMetrics `json:"previous_month"`
	RevenueChangePercent float64       `json:"revenue_change_percent"`
	TransactionChangePct float64       `json:"transaction_change_percent"`
	Trend                string        `json:"trend"`
	Meta                 Meta          `json:"metadata"`
}

// MonthOverMonth compares the month containing the most recent
// transaction against the calendar month before it. Both windows come
// from the data anchor; the wall clock is never consulted.
func (e *Engine) MonthOverMonth() Envelope {
	type window struct {
		revenue   float64
		count     int
		customers map[string]bool
	}
	cur := window{customers: map[string]bool{}}
	prev := window{customers: map[string]bool{}}
	for _, t := range e.snap.Transactions() {
		if t.Returned {
			continue
		}
		switch {
		case e.anchor.InCurrentMonth(t.Date):
			cur.revenue += t.Amount
			cur.count++
			cur.customers[t.CustomerID] = true
		case e.anchor.InPrevMonth(t.Date):
			prev.revenue += t.Amount
			prev.count++
			prev.customers[t.CustomerID] = true
		}
	}

	revChange := changePercent(prev.revenue, cur.revenue)
	txnChange := changePercent(float64(prev.count), float64(cur.count))

	// ±5% deadband keeps the label from flipping on noise near zero.
	trend := "stable"
	switch {
	case revChange > 5:
		trend = "growth"
	case revChange < -5:
		trend = "decline"
	}

	period := func(label string, start, end time.Time, w window) PeriodMetrics {
		avg := 0.0
		if w.count > 0 {
			avg = w.revenue / float64(w.count)
		}
		return PeriodMetrics{
			PeriodLabel:         label,
			Start:               start.Format("2006-01-02"),
			End:                 end.Format("2006-01-02"),
			TotalRevenue:        round2(w.revenue),
			TransactionCount:    w.count,
			UniqueCustomers:     len(w.customers),
			AvgTransactionValue: round2(avg),
		}
	}

	return success(&MonthOverMonthResult{
		Header: Header{
			Tool: ToolMonthOverMonth,
			Summary: fmt.Sprintf(
				"Revenue shows %s month over month: %s this month vs %s last month (%+.1f%%). Transactions changed by %+.1f%%.",
				trend, money(cur.revenue), money(prev.revenue), revChange, txnChange),
		},
		CurrentMonth:         period("current_month", e.anchor.CurrentMonthStart, e.anchor.CurrentMonthEnd, cur),
		PreviousMonth:        period("previous_month", e.anchor.PrevMonthStart, e.anchor.PrevMonthEnd, prev),
		RevenueChangePercent: round1(revChange),
		TransactionChangePct: round1(txnChange),
		Trend:                trend,
		Meta: e.meta(e.anchor.PrevMonthStart, e.anchor.CurrentMonthEnd, nil,
			cur.count+prev.count),
	})
}

// changePercent handles the zero-previous cases: growth from nothing is
// reported as +100%, and nothing-to-nothing as 0%.
func changePercent(prev, cur float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return 100 * (cur - prev) / prev
}
