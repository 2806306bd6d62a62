package main

import (
	"flag"
	"time"

	"github.com/dvloznov/commerce-insights/internal/datagen"
	"github.com/dvloznov/commerce-insights/internal/dataset"
	"github.com/dvloznov/commerce-insights/internal/logger"
)

func main() {
	var (
		out          = flag.String("out", ".", "output directory for the CSV files")
		seed         = flag.Int64("seed", 42, "random seed")
		customers    = flag.Int("customers", 200, "number of customers to generate")
		transactions = flag.Int("transactions", 5000, "number of transactions to generate")
		endDate      = flag.String("end-date", "", "latest transaction date, YYYY-MM-DD (default: today)")
	)
	flag.Parse()

	log := logger.New()

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if *endDate != "" {
		parsed, err := time.Parse(dataset.DateFormat, *endDate)
		if err != nil {
			log.Fatal().Err(err).Str("end_date", *endDate).Msg("Invalid -end-date")
		}
		end = parsed
	}

	cfg := datagen.Config{
		Seed:         *seed,
		Customers:    *customers,
		Transactions: *transactions,
		EndDate:      end,
	}

	if err := datagen.WriteFiles(cfg, *out); err != nil {
		log.Fatal().Err(err).Msg("Generation failed")
	}

	log.Info().
		Int("customers", cfg.Customers).
		Int("transactions", cfg.Transactions).
		Str("end_date", end.Format(dataset.DateFormat)).
		Str("out", *out).
		Msg("Sample data generated")
}
