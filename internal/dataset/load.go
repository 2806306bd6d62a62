package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// Fatal load-time errors. Operations never see these; a process whose
// dataset failed to load cannot serve any operation.
var (
	// ErrDataNotFound indicates a required table file is absent.
	ErrDataNotFound = errors.New("dataset file not found")

	// ErrSchema indicates a required column is missing from a table.
	ErrSchema = errors.New("dataset schema error")
)

const (
	// TransactionsFile is the expected transactions table filename.
	TransactionsFile = "transactions.csv"
	// CustomersFile is the expected customers table filename.
	CustomersFile = "customers.csv"
)

var requiredTransactionColumns = []string{
	"transaction_id",
	"customer_id",
	"transaction_date",
	"category",
	"product_name",
	"amount",
	"quantity",
	"payment_method",
	"is_returned",
}

var requiredCustomerColumns = []string{
	"customer_id",
	"region",
	"signup_date",
	"customer_segment",
}

// Load reads both tables from dir and returns an immutable snapshot.
// A missing file fails with ErrDataNotFound, a missing column with
// ErrSchema, and any unparsable cell fails the whole load: per-row
// recovery would silently skew every aggregate downstream.
func Load(dir string) (*Snapshot, error) {
	txnFile, err := os.Open(filepath.Join(dir, TransactionsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s in %s", ErrDataNotFound, TransactionsFile, dir)
		}
		return nil, fmt.Errorf("open %s: %w", TransactionsFile, err)
	}
	defer txnFile.Close()

	custFile, err := os.Open(filepath.Join(dir, CustomersFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s in %s", ErrDataNotFound, CustomersFile, dir)
		}
		return nil, fmt.Errorf("open %s: %w", CustomersFile, err)
	}
	defer custFile.Close()

	return loadFromReaders(txnFile, custFile)
}

// loadFromReaders parses both tables from already-open readers. The
// GCS source reuses this after fetching the objects.
func loadFromReaders(txnReader, custReader io.Reader) (*Snapshot, error) {
	txns, err := parseTransactions(txnReader)
	if err != nil {
		return nil, err
	}
	custs, err := parseCustomers(custReader)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%s has no data rows", TransactionsFile)
	}
	return newSnapshot(txns, custs), nil
}

func parseTransactions(r io.Reader) ([]domain.Transaction, error) {
	records, idx, err := readTable(r, TransactionsFile, requiredTransactionColumns)
	if err != nil {
		return nil, err
	}

	txns := make([]domain.Transaction, 0, len(records))
	for i, rec := range records {
		rowNum := i + 2 // 1-based, after the header line

		date, err := time.Parse(DateFormat, rec[idx["transaction_date"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid transaction_date %q: %w",
				TransactionsFile, rowNum, rec[idx["transaction_date"]], err)
		}
		amount, err := strconv.ParseFloat(rec[idx["amount"]], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid amount %q: %w",
				TransactionsFile, rowNum, rec[idx["amount"]], err)
		}
		quantity, err := strconv.Atoi(rec[idx["quantity"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid quantity %q: %w",
				TransactionsFile, rowNum, rec[idx["quantity"]], err)
		}
		returned, err := strconv.ParseBool(strings.ToLower(rec[idx["is_returned"]]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid is_returned %q: %w",
				TransactionsFile, rowNum, rec[idx["is_returned"]], err)
		}

		txns = append(txns, domain.Transaction{
			TransactionID: rec[idx["transaction_id"]],
			CustomerID:    rec[idx["customer_id"]],
			Date:          date,
			Category:      rec[idx["category"]],
			ProductName:   rec[idx["product_name"]],
			Amount:        amount,
			Quantity:      quantity,
			PaymentMethod: rec[idx["payment_method"]],
			Returned:      returned,
		})
	}
	return txns, nil
}

func parseCustomers(r io.Reader) ([]domain.Customer, error) {
	records, idx, err := readTable(r, CustomersFile, requiredCustomerColumns)
	if err != nil {
		return nil, err
	}

	custs := make([]domain.Customer, 0, len(records))
	for i, rec := range records {
		rowNum := i + 2

		signup, err := time.Parse(DateFormat, rec[idx["signup_date"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid signup_date %q: %w",
				CustomersFile, rowNum, rec[idx["signup_date"]], err)
		}

		custs = append(custs, domain.Customer{
			CustomerID: rec[idx["customer_id"]],
			Region:     rec[idx["region"]],
			SignupDate: signup,
			Segment:    rec[idx["customer_segment"]],
		})
	}
	return custs, nil
}

// readTable reads a whole CSV table, verifies the required columns are
// present, and returns the data records plus a column-name index.
func readTable(r io.Reader, name string, required []string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: %s is empty", ErrSchema, name)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, col := range rows[0] {
		idx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s missing columns %v", ErrSchema, name, missing)
	}

	return rows[1:], idx, nil
}
