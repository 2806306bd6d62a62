package dataset

import (
	"testing"
	"time"

	"github.com/dvloznov/commerce-insights/internal/domain"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func txnOn(t *testing.T, date string) domain.Transaction {
	t.Helper()
	return domain.Transaction{
		TransactionID: "TXN-" + date,
		CustomerID:    "CUST-0001",
		Date:          day(t, date),
		Category:      "grocery",
		Amount:        10,
		Quantity:      1,
		PaymentMethod: "paypal",
	}
}

func TestComputeAnchor(t *testing.T) {
	tests := []struct {
		name      string
		dates     []string
		wantStart string
		wantEnd   string
		wantCurMS string
		wantPrevS string
		wantPrevE string
	}{
		{
			name:      "mid month anchor",
			dates:     []string{"2024-03-05", "2024-06-17", "2024-01-20"},
			wantStart: "2024-01-20",
			wantEnd:   "2024-06-17",
			wantCurMS: "2024-06-01",
			wantPrevS: "2024-05-01",
			wantPrevE: "2024-05-31",
		},
		{
			name:      "january wraps to previous year",
			dates:     []string{"2023-11-02", "2024-01-09"},
			wantStart: "2023-11-02",
			wantEnd:   "2024-01-09",
			wantCurMS: "2024-01-01",
			wantPrevS: "2023-12-01",
			wantPrevE: "2023-12-31",
		},
		{
			name:      "march after leap february",
			dates:     []string{"2024-03-31"},
			wantStart: "2024-03-31",
			wantEnd:   "2024-03-31",
			wantCurMS: "2024-03-01",
			wantPrevS: "2024-02-01",
			wantPrevE: "2024-02-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := make([]domain.Transaction, 0, len(tt.dates))
			for _, d := range tt.dates {
				txns = append(txns, txnOn(t, d))
			}
			a := computeAnchor(txns)

			checks := []struct {
				field string
				got   time.Time
				want  string
			}{
				{"DataStart", a.DataStart, tt.wantStart},
				{"DataEnd", a.DataEnd, tt.wantEnd},
				{"CurrentMonthStart", a.CurrentMonthStart, tt.wantCurMS},
				{"CurrentMonthEnd", a.CurrentMonthEnd, tt.wantEnd},
				{"PrevMonthStart", a.PrevMonthStart, tt.wantPrevS},
				{"PrevMonthEnd", a.PrevMonthEnd, tt.wantPrevE},
			}
			for _, c := range checks {
				if got := c.got.Format(DateFormat); got != c.want {
					t.Errorf("%s = %s, want %s", c.field, got, c.want)
				}
			}
		})
	}
}

func TestAnchorWindowMembership(t *testing.T) {
	snap, err := FromRows([]domain.Transaction{
		txnOn(t, "2024-04-03"),
		txnOn(t, "2024-06-17"),
	}, nil)
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	a := snap.Anchor()

	tests := []struct {
		date   string
		inCur  bool
		inPrev bool
	}{
		{"2024-06-01", true, false},
		{"2024-06-17", true, false},
		{"2024-06-18", false, false}, // after the data ends
		{"2024-05-01", false, true},
		{"2024-05-31", false, true},
		{"2024-04-30", false, false},
	}
	for _, tt := range tests {
		d := day(t, tt.date)
		if got := a.InCurrentMonth(d); got != tt.inCur {
			t.Errorf("InCurrentMonth(%s) = %v, want %v", tt.date, got, tt.inCur)
		}
		if got := a.InPrevMonth(d); got != tt.inPrev {
			t.Errorf("InPrevMonth(%s) = %v, want %v", tt.date, got, tt.inPrev)
		}
	}
}
