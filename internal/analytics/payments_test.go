package analytics

import (
	"testing"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

func paymentsFixture(t *testing.T) *Engine {
	t.Helper()
	custs := []domain.Customer{
		cust("C1", "north", "vip"),
		cust("C2", "south", "regular"),
	}
	// credit_card: 3 uses, avg 100; paypal: 2 uses, avg 500.
	txns := []domain.Transaction{
		withPayment(tx(t, "T1", "C1", "2024-05-01", "grocery", 100), "credit_card"),
		withPayment(tx(t, "T2", "C1", "2024-05-02", "grocery", 100), "credit_card"),
		withPayment(returned(tx(t, "T3", "C2", "2024-05-03", "grocery", 900)), "credit_card"),
		withPayment(tx(t, "T4", "C2", "2024-05-04", "electronics", 500), "paypal"),
		withPayment(tx(t, "T5", "GHOST", "2024-05-05", "electronics", 500), "paypal"),
	}
	return newTestEngine(t, txns, custs)
}

func TestPaymentMethodAnalysis(t *testing.T) {
	e := paymentsFixture(t)

	result := requireSuccess[PaymentMethodResult](t, e.PaymentMethodAnalysis(PaymentMethodParams{}))

	if len(result.Data) != 2 {
		t.Fatalf("got %d methods, want 2", len(result.Data))
	}

	cc := result.Data[0]
	if cc.PaymentMethod != "credit_card" {
		t.Fatalf("first method = %q, want credit_card (most used)", cc.PaymentMethod)
	}
	if cc.UsageCount != 3 || cc.ReturnedCount != 1 {
		t.Errorf("credit_card counts = %d/%d, want 3/1", cc.UsageCount, cc.ReturnedCount)
	}
	if cc.TotalRevenue != 200 {
		t.Errorf("credit_card revenue = %v, want 200 (return excluded)", cc.TotalRevenue)
	}
	if cc.AvgTransactionValue != 100 {
		t.Errorf("credit_card avg = %v, want 100", cc.AvgTransactionValue)
	}
	if cc.UsagePercent != 60 {
		t.Errorf("credit_card usage = %v%%, want 60", cc.UsagePercent)
	}

	// Popularity and average value rank independently.
	if result.MostPopularMethod != "credit_card" {
		t.Errorf("MostPopularMethod = %q, want credit_card", result.MostPopularMethod)
	}
	if result.HighestAvgValue != "paypal" {
		t.Errorf("HighestAvgValue = %q, want paypal", result.HighestAvgValue)
	}
}

func TestPaymentMethodFilters(t *testing.T) {
	e := paymentsFixture(t)

	t.Run("category", func(t *testing.T) {
		result := requireSuccess[PaymentMethodResult](t, e.PaymentMethodAnalysis(PaymentMethodParams{Category: "electronics"}))
		if len(result.Data) != 1 || result.Data[0].PaymentMethod != "paypal" {
			t.Fatalf("filtered data = %+v, want only paypal", result.Data)
		}
		if result.Data[0].UsageCount != 2 {
			t.Errorf("paypal usage = %d, want 2", result.Data[0].UsageCount)
		}
	})

	t.Run("region drops unmatched customers", func(t *testing.T) {
		result := requireSuccess[PaymentMethodResult](t, e.PaymentMethodAnalysis(PaymentMethodParams{Region: "south"}))
		// C2's two rows only; the GHOST paypal row has no region.
		total := 0
		for _, m := range result.Data {
			total += m.UsageCount
		}
		if total != 2 {
			t.Errorf("south transactions = %d, want 2", total)
		}
	})

	t.Run("validation", func(t *testing.T) {
		requireError(t, e.PaymentMethodAnalysis(PaymentMethodParams{Category: "toys"}), ErrorInvalidInput)
		requireError(t, e.PaymentMethodAnalysis(PaymentMethodParams{Region: "midwest"}), ErrorInvalidInput)
	})

	t.Run("no data", func(t *testing.T) {
		env := e.PaymentMethodAnalysis(PaymentMethodParams{Category: "sports"})
		requireError(t, env, ErrorNoData)
	})
}
