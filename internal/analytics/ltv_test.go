package analytics

import (
	"testing"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

func ltvFixture(t *testing.T) *Engine {
	t.Helper()
	custs := []domain.Customer{
		cust("C1", "north", "vip"),
		cust("C2", "north", "regular"),
		cust("C3", "south", "regular"),
		cust("C4", "east", "new"),
		cust("C5", "west", "vip"),
	}
	txns := []domain.Transaction{
		tx(t, "T1", "C1", "2024-05-01", "electronics", 500),
		tx(t, "T2", "C1", "2024-05-10", "electronics", 300),
		tx(t, "T3", "C2", "2024-05-02", "clothing", 400),
		tx(t, "T4", "C3", "2024-05-03", "home", 250),
		tx(t, "T5", "C4", "2024-05-04", "grocery", 100),
		tx(t, "T6", "C5", "2024-05-05", "sports", 650),
		returned(tx(t, "T7", "C4", "2024-05-06", "electronics", 9000)),
		tx(t, "T8", "GHOST", "2024-05-07", "grocery", 77),
	}
	return newTestEngine(t, txns, custs)
}

func TestCustomerLTVRanking(t *testing.T) {
	e := ltvFixture(t)

	result := requireSuccess[CustomerLTVResult](t, e.CustomerLTVRanking(CustomerLTVParams{TopN: 3}))

	if len(result.Data) != 3 {
		t.Fatalf("got %d rows, want 3", len(result.Data))
	}
	for i, row := range result.Data {
		if row.Rank != i+1 {
			t.Errorf("row %d rank = %d, want %d", i, row.Rank, i+1)
		}
		if i > 0 && row.TotalSpent > result.Data[i-1].TotalSpent {
			t.Errorf("TotalSpent increases at rank %d", row.Rank)
		}
	}

	if result.Data[0].CustomerID != "C1" || result.Data[0].TotalSpent != 800 {
		t.Errorf("rank 1 = %s/%v, want C1/800", result.Data[0].CustomerID, result.Data[0].TotalSpent)
	}
	if result.Data[1].CustomerID != "C5" {
		t.Errorf("rank 2 = %s, want C5", result.Data[1].CustomerID)
	}

	// Population stats cover all 5 matched customers, not the top 3.
	// The returned row and the unmatched GHOST row contribute nothing.
	if result.TotalCustomersAnalyzed != 5 {
		t.Errorf("TotalCustomersAnalyzed = %d, want 5", result.TotalCustomersAnalyzed)
	}
	wantAvg := (800.0 + 400 + 250 + 100 + 650) / 5
	if !approxEqual(result.AverageLTV, wantAvg, 0.01) {
		t.Errorf("AverageLTV = %v, want %v", result.AverageLTV, wantAvg)
	}
	if result.Meta.RecordCount != 3 {
		t.Errorf("RecordCount = %d, want 3 (rows returned)", result.Meta.RecordCount)
	}
}

func TestCustomerLTVBounds(t *testing.T) {
	e := ltvFixture(t)

	for _, n := range []int{0, 51, -3} {
		env := e.CustomerLTVRanking(CustomerLTVParams{TopN: n})
		requireError(t, env, ErrorInvalidInput)
	}

	for _, n := range []int{1, 50} {
		result := requireSuccess[CustomerLTVResult](t, e.CustomerLTVRanking(CustomerLTVParams{TopN: n}))
		want := n
		if want > 5 {
			want = 5 // only 5 qualifying customers exist
		}
		if len(result.Data) != want {
			t.Errorf("top_n=%d returned %d rows, want %d", n, len(result.Data), want)
		}
	}
}

func TestCustomerLTVFilters(t *testing.T) {
	e := ltvFixture(t)

	t.Run("region", func(t *testing.T) {
		result := requireSuccess[CustomerLTVResult](t, e.CustomerLTVRanking(CustomerLTVParams{TopN: 10, Region: "north"}))
		if result.TotalCustomersAnalyzed != 2 {
			t.Errorf("north customers = %d, want 2", result.TotalCustomersAnalyzed)
		}
		for _, row := range result.Data {
			if row.Region != "north" {
				t.Errorf("row %s region = %q, want north", row.CustomerID, row.Region)
			}
		}
		if result.Meta.FiltersApplied["region"] != "north" {
			t.Errorf("filters_applied = %v, want region=north", result.Meta.FiltersApplied)
		}
	})

	t.Run("segment", func(t *testing.T) {
		result := requireSuccess[CustomerLTVResult](t, e.CustomerLTVRanking(CustomerLTVParams{TopN: 10, Segment: "vip"}))
		if result.TotalCustomersAnalyzed != 2 {
			t.Errorf("vip customers = %d, want 2", result.TotalCustomersAnalyzed)
		}
	})

	t.Run("invalid enums", func(t *testing.T) {
		requireError(t, e.CustomerLTVRanking(CustomerLTVParams{TopN: 10, Region: "midwest"}), ErrorInvalidInput)
		requireError(t, e.CustomerLTVRanking(CustomerLTVParams{TopN: 10, Segment: "platinum"}), ErrorInvalidInput)
	})

	t.Run("empty result", func(t *testing.T) {
		// Valid combination that matches nobody.
		env := e.CustomerLTVRanking(CustomerLTVParams{TopN: 10, Region: "south", Segment: "vip"})
		requireError(t, env, ErrorNoData)
	})
}
