package analytics

import (
	"fmt"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// Stable operation identifiers. These are the names callers dispatch
// on, the values of the tool_used response field, and the function
// names exposed to the model, so they must never change.
const (
	ToolRevenueByCategory = "get_revenue_by_category"
	ToolCustomerLTV       = "get_customer_ltv"
	ToolReturnRates       = "get_return_rates"
	ToolCompareRegions    = "compare_regions"
	ToolMonthOverMonth    = "get_month_over_month"
	ToolPaymentMethods    = "get_payment_method_analysis"
	ToolSegmentComparison = "get_segment_comparison"
	ToolRevenueTrends     = "get_revenue_trends"
	ToolDataOverview      = "get_data_overview"
	ToolCapabilities      = "explain_capabilities"
)

// ParamSpec describes one operation parameter for schema generation
// and the capability listing.
type ParamSpec struct {
	Name        string
	Type        string // "string", "integer" or "array"
	Description string
	Enum        []string
}

// Descriptor is one registered operation: its public identity plus an
// adapter that extracts loose-typed arguments and calls the typed
// method.
type Descriptor struct {
	Name             string
	Description      string
	ExampleQuestions []string
	Params           []ParamSpec
	Invoke           func(*Engine, map[string]any) Envelope
}

// Registry returns every operation in dispatch order. The capability
// listing and the agent's function declarations are both derived from
// it, so the self-description cannot drift from the operation set.
func Registry() []Descriptor {
	return []Descriptor{
		{
			Name:        ToolRevenueByCategory,
			Description: "Total revenue broken down by product category, with optional date range and category filters. Excludes returned items.",
			ExampleQuestions: []string{
				"What was our revenue by category last month?",
				"How much did electronics make in Q1?",
			},
			Params: []ParamSpec{
				{Name: "start_date", Type: "string", Description: "Start date (inclusive) in YYYY-MM-DD format"},
				{Name: "end_date", Type: "string", Description: "End date (inclusive) in YYYY-MM-DD format"},
				{Name: "categories", Type: "array", Description: "Restrict to these categories", Enum: domain.Categories.Values()},
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.RevenueByCategory(RevenueByCategoryParams{
					StartDate:  stringArg(args, "start_date"),
					EndDate:    stringArg(args, "end_date"),
					Categories: stringSliceArg(args, "categories"),
				})
			},
		},
		{
			Name:        ToolCustomerLTV,
			Description: "Top customers ranked by lifetime value (total non-returned spend), with optional region and segment filters.",
			ExampleQuestions: []string{
				"Who are our top 10 customers?",
				"Show me the most valuable VIP customers in the west",
			},
			Params: []ParamSpec{
				{Name: "top_n", Type: "integer", Description: fmt.Sprintf("Number of customers to return (%d-%d, default %d)", MinTopN, MaxTopN, DefaultTopN)},
				{Name: "region", Type: "string", Description: "Restrict to one region", Enum: domain.Regions.Values()},
				{Name: "segment", Type: "string", Description: "Restrict to one segment", Enum: domain.Segments.Values()},
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.CustomerLTVRanking(CustomerLTVParams{
					TopN:    intArg(args, "top_n", DefaultTopN),
					Region:  stringArg(args, "region"),
					Segment: stringArg(args, "segment"),
				})
			},
		},
		{
			Name:        ToolReturnRates,
			Description: "Return rates and revenue lost to returns by product category.",
			ExampleQuestions: []string{
				"Which category has the most returns?",
				"How much revenue are we losing to returns?",
			},
			Params: []ParamSpec{
				{Name: "category", Type: "string", Description: "Restrict to one category", Enum: domain.Categories.Values()},
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.ReturnRates(ReturnRatesParams{Category: stringArg(args, "category")})
			},
		},
		{
			Name:        ToolCompareRegions,
			Description: "Side-by-side comparison of revenue, customers, transaction volume and return rates across all regions.",
			ExampleQuestions: []string{
				"How do the regions compare?",
				"Which region makes the most money?",
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.CompareRegions()
			},
		},
		{
			Name:        ToolMonthOverMonth,
			Description: "Compares the most recent month in the data against the month before it: revenue, transactions and trend direction.",
			ExampleQuestions: []string{
				"How did this month compare to last month?",
				"Are we growing month over month?",
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.MonthOverMonth()
			},
		},
		{
			Name:        ToolPaymentMethods,
			Description: "Usage, revenue and return rates by payment method, with optional category and region filters.",
			ExampleQuestions: []string{
				"What payment methods do customers prefer?",
				"Which payment method has the highest average order value?",
			},
			Params: []ParamSpec{
				{Name: "category", Type: "string", Description: "Restrict to one category", Enum: domain.Categories.Values()},
				{Name: "region", Type: "string", Description: "Restrict to one region", Enum: domain.Regions.Values()},
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.PaymentMethodAnalysis(PaymentMethodParams{
					Category: stringArg(args, "category"),
					Region:   stringArg(args, "region"),
				})
			},
		},
		{
			Name:        ToolSegmentComparison,
			Description: "Compares revenue and customer behavior across customer segments, with an optional region filter.",
			ExampleQuestions: []string{
				"How do VIP customers compare to regular ones?",
				"Which segment drives the most revenue?",
			},
			Params: []ParamSpec{
				{Name: "region", Type: "string", Description: "Restrict to one region", Enum: domain.Regions.Values()},
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.SegmentComparison(SegmentComparisonParams{Region: stringArg(args, "region")})
			},
		},
		{
			Name:        ToolRevenueTrends,
			Description: "Monthly revenue over the whole dataset with best/worst months and an overall trend classification, optionally for one category.",
			ExampleQuestions: []string{
				"How is revenue trending?",
				"Show me monthly revenue for electronics",
			},
			Params: []ParamSpec{
				{Name: "category", Type: "string", Description: "Restrict to one category", Enum: domain.Categories.Values()},
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.RevenueTrends(RevenueTrendsParams{Category: stringArg(args, "category")})
			},
		},
		{
			Name:        ToolDataOverview,
			Description: "Dataset summary: date span, row counts and the known categories, regions, segments and payment methods.",
			ExampleQuestions: []string{
				"What data do we have?",
				"What date range does the data cover?",
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.DataOverview()
			},
		},
		{
			Name:        ToolCapabilities,
			Description: "Lists every available analytics operation with its parameters and example questions.",
			ExampleQuestions: []string{
				"What can you do?",
				"What questions can I ask?",
			},
			Invoke: func(e *Engine, args map[string]any) Envelope {
				return e.Capabilities()
			},
		},
	}
}

// Lookup finds a descriptor by operation name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range Registry() {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Dispatch invokes the named operation with loose-typed arguments.
// Unknown names yield an invalid_input envelope so transport layers
// can surface them uniformly.
func Dispatch(e *Engine, name string, args map[string]any) Envelope {
	d, ok := Lookup(name)
	if !ok {
		return invalidInput(
			fmt.Sprintf("Unknown operation: %s", name),
			"Use explain_capabilities to list available operations")
	}
	return d.Invoke(e, args)
}
