// Package datagen produces synthetic but realistic transaction and
// customer tables for demos and tests. Generation is fully seeded:
// the same Config always yields byte-identical CSV files.
package datagen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

// Config controls the generator. EndDate fixes the most recent
// possible transaction date so generated datasets have a stable
// anchor; the wall clock is never consulted.
type Config struct {
	Seed         int64
	Customers    int
	Transactions int
	EndDate      time.Time
}

// DefaultConfig matches the canonical demo dataset shape.
func DefaultConfig(endDate time.Time) Config {
	return Config{
		Seed:         42,
		Customers:    200,
		Transactions: 5000,
		EndDate:      endDate,
	}
}

var basePrices = map[string]float64{
	"electronics": 150,
	"clothing":    50,
	"home":        40,
	"grocery":     25,
	"sports":      60,
}

var segmentWeights = map[string]int{
	"new":     30,
	"regular": 50,
	"vip":     20,
}

const returnProbability = 0.08

// Generate produces the two tables. Transaction dates span the 12
// months ending at cfg.EndDate, weighted toward recent days; customer
// signup dates fall 6 months to 2 years before the end date.
func Generate(cfg Config) ([]domain.Transaction, []domain.Customer) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	regions := domain.Regions.Values()
	categories := domain.Categories.Values()
	methods := domain.PaymentMethods.Values()

	custs := make([]domain.Customer, 0, cfg.Customers)
	for i := 0; i < cfg.Customers; i++ {
		signupOffset := 180 + rng.Intn(551) // 180..730 days back
		custs = append(custs, domain.Customer{
			CustomerID: fmt.Sprintf("CUST-%04d", i),
			Region:     regions[rng.Intn(len(regions))],
			SignupDate: cfg.EndDate.AddDate(0, 0, -signupOffset),
			Segment:    weightedSegment(rng),
		})
	}

	txns := make([]domain.Transaction, 0, cfg.Transactions)
	for i := 0; i < cfg.Transactions; i++ {
		cust := custs[rng.Intn(len(custs))]
		category := categories[rng.Intn(len(categories))]
		quantity := 1 + rng.Intn(3)
		unitPrice := math.Round(basePrices[category]*(0.5+1.5*rng.Float64())*100) / 100

		daysAgo := int(triangular(rng, 0, 365, 60))
		txns = append(txns, domain.Transaction{
			TransactionID: fmt.Sprintf("TXN-%06d", i),
			CustomerID:    cust.CustomerID,
			Date:          cfg.EndDate.AddDate(0, 0, -daysAgo),
			Category:      category,
			ProductName:   fmt.Sprintf("%s Item %d", titleCase(category), 1+rng.Intn(20)),
			Amount:        math.Round(unitPrice*float64(quantity)*100) / 100,
			Quantity:      quantity,
			PaymentMethod: methods[rng.Intn(len(methods))],
			Returned:      rng.Float64() < returnProbability,
		})
	}

	return txns, custs
}

// WriteFiles generates per cfg and writes transactions.csv and
// customers.csv into dir, creating it if needed.
func WriteFiles(cfg Config, dir string) error {
	txns, custs := Generate(cfg)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeCustomers(filepath.Join(dir, "customers.csv"), custs); err != nil {
		return err
	}
	return writeTransactions(filepath.Join(dir, "transactions.csv"), txns)
}

func writeCustomers(path string, custs []domain.Customer) error {
	rows := [][]string{{"customer_id", "region", "signup_date", "customer_segment"}}
	for _, c := range custs {
		rows = append(rows, []string{
			c.CustomerID,
			c.Region,
			c.SignupDate.Format("2006-01-02"),
			c.Segment,
		})
	}
	return writeCSV(path, rows)
}

func writeTransactions(path string, txns []domain.Transaction) error {
	rows := [][]string{{
		"transaction_id", "customer_id", "transaction_date", "category",
		"product_name", "amount", "quantity", "payment_method", "is_returned",
	}}
	for _, t := range txns {
		rows = append(rows, []string{
			t.TransactionID,
			t.CustomerID,
			t.Date.Format("2006-01-02"),
			t.Category,
			t.ProductName,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			strconv.Itoa(t.Quantity),
			t.PaymentMethod,
			strconv.FormatBool(t.Returned),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// triangular samples a triangular distribution on [low, high] with
// the given mode, so most transactions land near the recent end.
func triangular(rng *rand.Rand, low, high, mode float64) float64 {
	u := rng.Float64()
	c := (mode - low) / (high - low)
	if u < c {
		return low + math.Sqrt(u*(high-low)*(mode-low))
	}
	return high - math.Sqrt((1-u)*(high-low)*(high-mode))
}

func weightedSegment(rng *rand.Rand) string {
	total := 0
	for _, w := range segmentWeights {
		total += w
	}
	n := rng.Intn(total)
	// Fixed iteration order keeps the draw deterministic for a seed.
	for _, seg := range []string{"new", "regular", "vip"} {
		n -= segmentWeights[seg]
		if n < 0 {
			return seg
		}
	}
	return "regular"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
