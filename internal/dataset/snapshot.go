// Package dataset loads the two input tables once, validates their
// schema, and exposes immutable snapshots plus a dataset-anchored date
// context. All "current time" semantics in the system derive from the
// snapshot's maximum transaction date, never from the wall clock.
package dataset

import (
	"github.com/dvloznov/commerce-insights/internal/domain"
)

// Snapshot is the immutable in-memory pairing of the transaction and
// customer tables for one process lifetime. Accessors hand out copies
// so a caller's incidental mutation cannot corrupt shared state.
type Snapshot struct {
	transactions []domain.Transaction
	customers    []domain.Customer
	byCustomer   map[string]domain.Customer
	anchor       Anchor
}

func newSnapshot(txns []domain.Transaction, custs []domain.Customer) *Snapshot {
	idx := make(map[string]domain.Customer, len(custs))
	for _, c := range custs {
		idx[c.CustomerID] = c
	}
	return &Snapshot{
		transactions: txns,
		customers:    custs,
		byCustomer:   idx,
		anchor:       computeAnchor(txns),
	}
}

// Transactions returns a mutation-safe copy of the transaction table.
func (s *Snapshot) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Customers returns a mutation-safe copy of the customer table.
func (s *Snapshot) Customers() []domain.Customer {
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Merged returns transactions left-joined with customer attributes on
// customer ID. Transactions without a matching customer are kept with
// empty customer fields and HasCustomer=false.
func (s *Snapshot) Merged() []domain.MergedRow {
	out := make([]domain.MergedRow, 0, len(s.transactions))
	for _, t := range s.transactions {
		row := domain.MergedRow{Transaction: t}
		if c, ok := s.byCustomer[t.CustomerID]; ok {
			row.Region = c.Region
			row.Segment = c.Segment
			row.HasCustomer = true
		}
		out = append(out, row)
	}
	return out
}

// Anchor returns the dataset-derived date context.
func (s *Snapshot) Anchor() Anchor {
	return s.anchor
}

// TransactionCount is the total number of transaction rows.
func (s *Snapshot) TransactionCount() int {
	return len(s.transactions)
}

// CustomerCount is the total number of customer rows.
func (s *Snapshot) CustomerCount() int {
	return len(s.customers)
}
