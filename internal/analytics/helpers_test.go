package analytics

import (
	"testing"
	"time"

	"github.com/dvloznov/commerce-insights/internal/dataset"
	"github.com/dvloznov/commerce-insights/internal/domain"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dataset.DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// tx builds a minimal transaction; tests override what they care about.
func tx(t *testing.T, id, customer, date, category string, amount float64) domain.Transaction {
	t.Helper()
	return domain.Transaction{
		TransactionID: id,
		CustomerID:    customer,
		Date:          day(t, date),
		Category:      category,
		ProductName:   category + " item",
		Amount:        amount,
		Quantity:      1,
		PaymentMethod: "credit_card",
	}
}

func returned(txn domain.Transaction) domain.Transaction {
	txn.Returned = true
	return txn
}

func withPayment(txn domain.Transaction, method string) domain.Transaction {
	txn.PaymentMethod = method
	return txn
}

func cust(id, region, segment string) domain.Customer {
	return domain.Customer{
		CustomerID: id,
		Region:     region,
		SignupDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Segment:    segment,
	}
}

func newTestEngine(t *testing.T, txns []domain.Transaction, custs []domain.Customer) *Engine {
	t.Helper()
	snap, err := dataset.FromRows(txns, custs)
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return New(snap)
}

func requireSuccess[T any](t *testing.T, env Envelope) *T {
	t.Helper()
	if !env.OK() {
		t.Fatalf("expected success, got %s: %s", env.Err.Type, env.Err.Message)
	}
	result, ok := env.Result.(*T)
	if !ok {
		t.Fatalf("unexpected payload type %T", env.Result)
	}
	return result
}

func requireError(t *testing.T, env Envelope, wantType ErrorType) *Error {
	t.Helper()
	if env.OK() {
		t.Fatalf("expected %s error, got success payload %T", wantType, env.Result)
	}
	if env.Err.Type != wantType {
		t.Fatalf("error type = %s, want %s (message: %s)", env.Err.Type, wantType, env.Err.Message)
	}
	if len(env.Err.Suggestions) == 0 {
		t.Error("error envelope carries no suggestions")
	}
	return env.Err
}

func approxEqual(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
