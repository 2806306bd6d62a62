package analytics

import (
	"fmt"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// DataOverviewResult is the success payload of get_data_overview.
// The vocabulary lists are the known domain enumerations, not values
// observed in the data.
type DataOverviewResult struct {
	Header
	DateRangeStart   string   `json:"date_range_start"`
	DateRangeEnd     string   `json:"date_range_end"`
	TransactionCount int      `json:"transaction_count"`
	CustomerCount    int      `json:"customer_count"`
	Categories       []string `json:"categories"`
	Regions          []string `json:"regions"`
	Segments         []string `json:"segments"`
	PaymentMethods   []string `json:"payment_methods"`
	Meta             Meta     `json:"metadata"`
}

// DataOverview reports the dataset span, row counts, and domain
// vocabulary. It takes no parameters and cannot fail.
func (e *Engine) DataOverview() Envelope {
	txns := e.snap.TransactionCount()
	custs := e.snap.CustomerCount()
	start := e.anchor.DataStart.Format("2006-01-02")
	end := e.anchor.DataEnd.Format("2006-01-02")

	return success(&DataOverviewResult{
		Header: Header{
			Tool: ToolDataOverview,
			Summary: fmt.Sprintf(
				"Dataset covers %s to %s with %d transactions from %d customers across %d categories and %d regions.",
				start, end, txns, custs,
				len(domain.Categories.Values()), len(domain.Regions.Values())),
		},
		DateRangeStart:   start,
		DateRangeEnd:     end,
		TransactionCount: txns,
		CustomerCount:    custs,
		Categories:       domain.Categories.Values(),
		Regions:          domain.Regions.Values(),
		Segments:         domain.Segments.Values(),
		PaymentMethods:   domain.PaymentMethods.Values(),
		Meta:             e.meta(e.anchor.DataStart, e.anchor.DataEnd, nil, txns),
	})
}
