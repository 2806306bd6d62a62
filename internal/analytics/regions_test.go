package analytics

import (
	"testing"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

func TestCompareRegions(t *testing.T) {
	custs := []domain.Customer{
		cust("C1", "north", "vip"),
		cust("C2", "north", "regular"),
		cust("C3", "south", "new"),
	}
	txns := []domain.Transaction{
		tx(t, "T1", "C1", "2024-05-01", "electronics", 1000),
		tx(t, "T2", "C2", "2024-05-02", "clothing", 500),
		returned(tx(t, "T3", "C1", "2024-05-03", "home", 200)),
		tx(t, "T4", "C3", "2024-05-04", "grocery", 300),
		tx(t, "T5", "GHOST", "2024-05-05", "sports", 9999), // no matching customer
	}
	e := newTestEngine(t, txns, custs)

	result := requireSuccess[CompareRegionsResult](t, e.CompareRegions())

	if len(result.Data) != 2 {
		t.Fatalf("got %d regions, want 2", len(result.Data))
	}

	north := result.Data[0]
	if north.Region != "north" {
		t.Fatalf("first region = %q, want north (highest revenue)", north.Region)
	}
	if north.TotalRevenue != 1500 {
		t.Errorf("north revenue = %v, want 1500 (return excluded)", north.TotalRevenue)
	}
	if north.CustomerCount != 2 {
		t.Errorf("north customers = %d, want 2", north.CustomerCount)
	}
	if north.TransactionCount != 3 {
		t.Errorf("north transactions = %d, want 3 (return included)", north.TransactionCount)
	}
	if want := round2(1500.0 / 2); north.AvgTransactionValue != want {
		t.Errorf("north avg = %v, want %v", north.AvgTransactionValue, want)
	}
	if want := round1(100.0 / 3); north.ReturnRatePercent != want {
		t.Errorf("north return rate = %v, want %v", north.ReturnRatePercent, want)
	}

	if result.TopRegionByRevenue != "north" {
		t.Errorf("TopRegionByRevenue = %q, want north", result.TopRegionByRevenue)
	}
	if result.TopRegionByCustomers != "north" {
		t.Errorf("TopRegionByCustomers = %q, want north", result.TopRegionByCustomers)
	}

	// The unmatched GHOST transaction still counts toward record_count.
	if result.Meta.RecordCount != 5 {
		t.Errorf("RecordCount = %d, want 5", result.Meta.RecordCount)
	}
}

func TestCompareRegionsAllReturnedRegion(t *testing.T) {
	// Every east transaction is returned: the average must be 0, not a
	// division-by-zero artifact.
	custs := []domain.Customer{
		cust("C1", "east", "regular"),
		cust("C2", "west", "regular"),
	}
	txns := []domain.Transaction{
		returned(tx(t, "T1", "C1", "2024-05-01", "home", 100)),
		returned(tx(t, "T2", "C1", "2024-05-02", "home", 150)),
		tx(t, "T3", "C2", "2024-05-03", "grocery", 40),
	}
	e := newTestEngine(t, txns, custs)

	result := requireSuccess[CompareRegionsResult](t, e.CompareRegions())

	var east *RegionMetrics
	for i := range result.Data {
		if result.Data[i].Region == "east" {
			east = &result.Data[i]
		}
	}
	if east == nil {
		t.Fatal("east region missing from results")
	}
	if east.AvgTransactionValue != 0 {
		t.Errorf("east avg = %v, want 0", east.AvgTransactionValue)
	}
	if east.TotalRevenue != 0 {
		t.Errorf("east revenue = %v, want 0", east.TotalRevenue)
	}
	if east.ReturnRatePercent != 100 {
		t.Errorf("east return rate = %v, want 100", east.ReturnRatePercent)
	}
}

func TestCompareRegionsNoMatchedCustomers(t *testing.T) {
	txns := []domain.Transaction{
		tx(t, "T1", "GHOST", "2024-05-01", "grocery", 10),
	}
	e := newTestEngine(t, txns, nil)
	requireError(t, e.CompareRegions(), ErrorNoData)
}
