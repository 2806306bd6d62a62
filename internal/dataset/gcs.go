package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// LoadFromGCS fetches transactions.csv and customers.csv from the
// given bucket and parses them the same way as the local loader.
// It assumes Application Default Credentials are configured.
func LoadFromGCS(ctx context.Context, bucket string) (*Snapshot, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	txnBytes, err := fetchObject(ctx, client, bucket, TransactionsFile)
	if err != nil {
		return nil, err
	}
	custBytes, err := fetchObject(ctx, client, bucket, CustomersFile)
	if err != nil {
		return nil, err
	}

	return loadFromReaders(bytes.NewReader(txnBytes), bytes.NewReader(custBytes))
}

func fetchObject(ctx context.Context, client *storage.Client, bucket, object string) ([]byte, error) {
	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: gs://%s/%s", ErrDataNotFound, bucket, object)
		}
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}
