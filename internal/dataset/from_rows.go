package dataset

import (
	"fmt"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// FromRows builds a snapshot directly from in-memory rows. Used by the
// BigQuery source and by tests that construct isolated fixtures.
func FromRows(txns []domain.Transaction, custs []domain.Customer) (*Snapshot, error) {
	if len(txns) == 0 {
		return nil, fmt.Errorf("transactions table has no rows")
	}
	return newSnapshot(txns, custs), nil
}
