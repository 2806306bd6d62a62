package dataset

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// transactionRow maps one row of the BigQuery transactions table.
type transactionRow struct {
	TransactionID string     `bigquery:"transaction_id"`
	CustomerID    string     `bigquery:"customer_id"`
	Date          civil.Date `bigquery:"transaction_date"`
	Category      string     `bigquery:"category"`
	ProductName   string     `bigquery:"product_name"`
	Amount        float64    `bigquery:"amount"`
	Quantity      int64      `bigquery:"quantity"`
	PaymentMethod string     `bigquery:"payment_method"`
	Returned      bool       `bigquery:"is_returned"`
}

// customerRow maps one row of the BigQuery customers table.
type customerRow struct {
	CustomerID string     `bigquery:"customer_id"`
	Region     string     `bigquery:"region"`
	SignupDate civil.Date `bigquery:"signup_date"`
	Segment    string     `bigquery:"customer_segment"`
}

// LoadFromBigQuery reads both tables from the given project/dataset
// into a snapshot. This is a read-only input source; the engine never
// writes back.
func LoadFromBigQuery(ctx context.Context, project, datasetID string) (*Snapshot, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("LoadFromBigQuery: bigquery client: %w", err)
	}
	defer client.Close()

	txns, err := queryTransactions(ctx, client, datasetID)
	if err != nil {
		return nil, err
	}
	custs, err := queryCustomers(ctx, client, datasetID)
	if err != nil {
		return nil, err
	}

	return FromRows(txns, custs)
}

func queryTransactions(ctx context.Context, client *bigquery.Client, datasetID string) ([]domain.Transaction, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			customer_id,
			transaction_date,
			category,
			product_name,
			amount,
			quantity,
			payment_method,
			is_returned
		FROM %s.transactions
		ORDER BY transaction_id
	`, datasetID))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryTransactions: running query: %w", err)
	}

	var txns []domain.Transaction
	for {
		var row transactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("queryTransactions: reading row: %w", err)
		}
		txns = append(txns, domain.Transaction{
			TransactionID: row.TransactionID,
			CustomerID:    row.CustomerID,
			Date:          row.Date.In(time.UTC),
			Category:      row.Category,
			ProductName:   row.ProductName,
			Amount:        row.Amount,
			Quantity:      int(row.Quantity),
			PaymentMethod: row.PaymentMethod,
			Returned:      row.Returned,
		})
	}
	return txns, nil
}

func queryCustomers(ctx context.Context, client *bigquery.Client, datasetID string) ([]domain.Customer, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			customer_id,
			region,
			signup_date,
			customer_segment
		FROM %s.customers
		ORDER BY customer_id
	`, datasetID))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryCustomers: running query: %w", err)
	}

	var custs []domain.Customer
	for {
		var row customerRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("queryCustomers: reading row: %w", err)
		}
		custs = append(custs, domain.Customer{
			CustomerID: row.CustomerID,
			Region:     row.Region,
			SignupDate: row.SignupDate.In(time.UTC),
			Segment:    row.Segment,
		})
	}
	return custs, nil
}
