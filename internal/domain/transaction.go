package domain

import (
	"time"
)

// Transaction is one immutable row of the transactions table.
// Rows are loaded once at startup and never mutated in place; callers
// that need a working set receive copies from the dataset snapshot.
type Transaction struct {
	TransactionID string    // unique, e.g. "TXN-000123"
	CustomerID    string    // references Customer.CustomerID
	Date          time.Time // parsed from "transaction_date" (YYYY-MM-DD)
	Category      string    // one of Categories
	ProductName   string
	Amount        float64 // monetary amount, >= 0
	Quantity      int     // units sold, >= 1
	PaymentMethod string  // one of PaymentMethods
	Returned      bool    // returned items are excluded from revenue sums
}

// Customer is one immutable row of the customers table.
type Customer struct {
	CustomerID string // unique, e.g. "CUST-0042"
	Region     string // one of Regions
	SignupDate time.Time
	Segment    string // one of Segments
}

// MergedRow is a transaction left-joined with its customer attributes.
// HasCustomer is false when the transaction references an unknown
// customer; the customer fields are then empty.
type MergedRow struct {
	Transaction
	Region      string
	Segment     string
	HasCustomer bool
}
