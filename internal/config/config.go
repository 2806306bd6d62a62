// Package config loads application settings from the environment.
// A .env file in the working directory is honored when present so
// local runs do not need exported variables.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Dataset source kinds.
const (
	SourceLocal    = "local"
	SourceGCS      = "gcs"
	SourceBigQuery = "bigquery"
)

// Settings holds everything the binaries read from the environment.
type Settings struct {
	// DataDir is the directory holding transactions.csv and
	// customers.csv when DataSource is "local".
	DataDir string

	// DataSource selects where the two tables are loaded from:
	// local (default), gcs, or bigquery.
	DataSource string

	// GCSBucket is the bucket holding the two CSV objects when
	// DataSource is "gcs".
	GCSBucket string

	// BigQuery table coordinates when DataSource is "bigquery".
	BQProject string
	BQDataset string

	// GeminiAPIKey authenticates the agent. Empty disables the
	// agent commands; the analytics engine itself never needs it.
	GeminiAPIKey string

	// ModelID is the Gemini model used by the agent.
	ModelID string

	// Port for the HTTP API server.
	Port string
}

// Load reads settings from the environment, applying defaults.
// Missing .env is not an error.
func Load() Settings {
	_ = godotenv.Load()

	return Settings{
		DataDir:      getenv("DATA_DIR", "."),
		DataSource:   getenv("DATA_SOURCE", SourceLocal),
		GCSBucket:    os.Getenv("GCS_BUCKET"),
		BQProject:    os.Getenv("BQ_PROJECT"),
		BQDataset:    getenv("BQ_DATASET", "commerce"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		ModelID:      getenv("MODEL_ID", "gemini-2.0-flash"),
		Port:         getenv("PORT", "8080"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
