package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/commerce-insights/internal/analytics"
	"github.com/dvloznov/commerce-insights/internal/dataset"
	"github.com/dvloznov/commerce-insights/internal/domain"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	day := func(s string) time.Time {
		d, err := time.Parse(dataset.DateFormat, s)
		if err != nil {
			t.Fatalf("bad test date %q: %v", s, err)
		}
		return d
	}

	txns := []domain.Transaction{
		{TransactionID: "T1", CustomerID: "C1", Date: day("2024-05-01"), Category: "electronics", Amount: 600, Quantity: 1, PaymentMethod: "credit_card"},
		{TransactionID: "T2", CustomerID: "C1", Date: day("2024-05-15"), Category: "grocery", Amount: 40, Quantity: 2, PaymentMethod: "paypal"},
		{TransactionID: "T3", CustomerID: "C2", Date: day("2024-06-10"), Category: "clothing", Amount: 90, Quantity: 1, PaymentMethod: "debit_card"},
	}
	custs := []domain.Customer{
		{CustomerID: "C1", Region: "north", SignupDate: day("2023-02-01"), Segment: "vip"},
		{CustomerID: "C2", Region: "south", SignupDate: day("2023-07-01"), Segment: "new"},
	}

	snap, err := dataset.FromRows(txns, custs)
	if err != nil {
		t.Fatalf("building snapshot: %v", err)
	}
	return Router(analytics.New(snap), zerolog.Nop())
}

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyticsEndpointStatusCodes(t *testing.T) {
	h := testRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"success", "/api/analytics/get_revenue_by_category", http.StatusOK},
		{"success with filters", "/api/analytics/get_revenue_by_category?categories=electronics,grocery", http.StatusOK},
		{"invalid input maps to 400", "/api/analytics/get_customer_ltv?top_n=99", http.StatusBadRequest},
		{"no data maps to 404", "/api/analytics/get_customer_ltv?region=west", http.StatusNotFound},
		{"unknown operation", "/api/analytics/get_weather", http.StatusNotFound},
		{"missing operation name", "/api/analytics/", http.StatusBadRequest},
		{"non-integer top_n", "/api/analytics/get_customer_ltv?top_n=lots", http.StatusBadRequest},
		{"bad date format", "/api/analytics/get_revenue_by_category?start_date=May+1st", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, h, tt.path)
			if rec.Code != tt.wantStatus {
				t.Errorf("GET %s = %d, want %d (body: %s)", tt.path, rec.Code, tt.wantStatus, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestAnalyticsEndpointPayload(t *testing.T) {
	h := testRouter(t)

	rec := doGet(t, h, "/api/analytics/get_revenue_by_category")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var payload struct {
		ToolUsed     string  `json:"tool_used"`
		TotalRevenue float64 `json:"total_revenue"`
		TopCategory  string  `json:"top_category"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}

	if payload.ToolUsed != "get_revenue_by_category" {
		t.Errorf("tool_used = %q", payload.ToolUsed)
	}
	if payload.TotalRevenue != 730 {
		t.Errorf("total_revenue = %v, want 730", payload.TotalRevenue)
	}
	if payload.TopCategory != "electronics" {
		t.Errorf("top_category = %q, want electronics", payload.TopCategory)
	}
}

func TestAnalyticsEndpointQueryParams(t *testing.T) {
	h := testRouter(t)

	rec := doGet(t, h, "/api/analytics/get_customer_ltv?top_n=1&region=north")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var payload struct {
		Data []struct {
			CustomerID string `json:"customer_id"`
			Region     string `json:"region"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].CustomerID != "C1" {
		t.Errorf("data = %+v, want single C1 row", payload.Data)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analytics/get_data_overview", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := testRouter(t)

	rec := doGet(t, h, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if payload["status"] != "healthy" {
		t.Errorf("status = %q", payload["status"])
	}
	if payload["data_as_of"] != "2024-06-10" {
		t.Errorf("data_as_of = %q, want 2024-06-10", payload["data_as_of"])
	}
}
