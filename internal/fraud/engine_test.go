package fraud

import (
	"testing"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/domain"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded() error = %v", err)
	}
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func chargeRow(txn, merchant string, amount float64) domain.JoinedRow {
	return domain.JoinedRow{
		LastName:          "Hansen",
		FirstName:         "Erik",
		AccountState:      "Texas",
		AccountNumber:     "ACCT-001",
		Amount:            amount,
		MerchantNumber:    merchant,
		MerchantName:      "Merchant " + merchant,
		TransactionState:  "Texas",
		TransactionNumber: txn,
	}
}

func TestAmountRule_SeedIsNeverFlagged(t *testing.T) {
	e := testEngine(t)

	// Enormous first charge at a fresh merchant: no history to judge it
	// against, so it seeds the EMA instead.
	e.Process([]domain.JoinedRow{chargeRow("T1", "M1", 1000000)})

	if got := len(e.Findings().Amount()); got != 0 {
		t.Errorf("amount findings = %d, want 0", got)
	}
	if e.Aggregates().Count("M1") != 1 || e.Aggregates().EMA("M1") != 1000000 {
		t.Errorf("seed not committed: count=%d ema=%v",
			e.Aggregates().Count("M1"), e.Aggregates().EMA("M1"))
	}
}

func TestAmountRule_ThresholdBoundaries(t *testing.T) {
	// With EMA seeded at 10.00, multiplier 30 puts the bar at 300.00.
	tests := []struct {
		name    string
		amount  float64
		flagged bool
	}{
		{"just above bar", 301.00, true},
		{"just below bar but above minimum", 299.00, false},
		{"at minimum threshold floor", 100.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine(t)
			e.Process([]domain.JoinedRow{
				chargeRow("T1", "M1", 10.00),
				chargeRow("T2", "M1", tt.amount),
			})

			findings := e.Findings().Amount()
			if tt.flagged {
				if len(findings) != 1 {
					t.Fatalf("amount findings = %d, want 1", len(findings))
				}
				f := findings[0]
				if f.TransactionNumber != "T2" || f.Amount != tt.amount {
					t.Errorf("finding = %+v", f)
				}
				if f.Name != "Erik Hansen" {
					t.Errorf("finding name = %q, want Erik Hansen", f.Name)
				}
				// Flagged charges are excluded from the history.
				if e.Aggregates().EMA("M1") != 10.00 {
					t.Errorf("EMA after flag = %v, want 10.00", e.Aggregates().EMA("M1"))
				}
			} else {
				if len(findings) != 0 {
					t.Fatalf("amount findings = %d, want 0", len(findings))
				}
				// Unflagged charges fold into the history.
				if e.Aggregates().EMA("M1") == 10.00 {
					t.Error("EMA unchanged, expected commit to fold amount in")
				}
			}
		})
	}
}

func TestAmountRule_RefundsAreInvisible(t *testing.T) {
	e := testEngine(t)

	rows := []domain.JoinedRow{
		chargeRow("T1", "M1", -5000.00), // refund, huge magnitude
		chargeRow("T2", "M1", 0),
	}
	e.Process(rows)

	if got := len(e.Findings().Amount()); got != 0 {
		t.Errorf("amount findings = %d, want 0", got)
	}
	if e.Aggregates().Count("M1") != 0 {
		t.Errorf("refunds must not touch the aggregate, count = %d", e.Aggregates().Count("M1"))
	}
}

func TestGeographicRule_FiresIndependently(t *testing.T) {
	e := testEngine(t)

	// Mismatched regions on a refund: exactly one geographic finding and
	// zero amount findings.
	row := chargeRow("T1", "M1", -20.00)
	row.AccountState = "California"
	row.TransactionState = "New York"
	e.Process([]domain.JoinedRow{row})

	if got := len(e.Findings().Amount()); got != 0 {
		t.Errorf("amount findings = %d, want 0", got)
	}
	geo := e.Findings().Geographic()
	if len(geo) != 1 {
		t.Fatalf("geographic findings = %d, want 1", len(geo))
	}
	if geo[0].ExpectedLocation != "California" || geo[0].ActualLocation != "New York" {
		t.Errorf("finding = %+v", geo[0])
	}
	if geo[0].AccountNumber != "ACCT-001" || geo[0].TransactionNumber != "T1" {
		t.Errorf("finding identifiers = %+v", geo[0])
	}
}

func TestGeographicRule_MatchingRegionsProduceNothing(t *testing.T) {
	e := testEngine(t)
	e.Process([]domain.JoinedRow{chargeRow("T1", "M1", 50.00)})
	if got := len(e.Findings().Geographic()); got != 0 {
		t.Errorf("geographic findings = %d, want 0", got)
	}
}

func TestProcess_FindingsKeepRowOrder(t *testing.T) {
	e := testEngine(t)

	mismatch := func(txn string) domain.JoinedRow {
		row := chargeRow(txn, "M9", 10.00)
		row.TransactionState = "New York"
		return row
	}
	e.Process([]domain.JoinedRow{mismatch("T3"), mismatch("T1"), mismatch("T2")})

	geo := e.Findings().Geographic()
	if len(geo) != 3 {
		t.Fatalf("geographic findings = %d, want 3", len(geo))
	}
	want := []string{"T3", "T1", "T2"}
	for i, f := range geo {
		if f.TransactionNumber != want[i] {
			t.Errorf("finding %d = %s, want %s (processing order must be preserved)", i, f.TransactionNumber, want[i])
		}
	}
}

func TestProcess_OrderChangesClassification(t *testing.T) {
	// The EMA is order-sensitive by design: a large charge right after
	// the seed is flagged, but the same charge after history has grown
	// may not be.
	charges := []domain.JoinedRow{
		chargeRow("T1", "M1", 10.00),
		chargeRow("T2", "M1", 301.00),
	}
	e1 := testEngine(t)
	e1.Process(charges)
	if len(e1.Findings().Amount()) != 1 {
		t.Fatal("expected flag when large charge follows small seed")
	}

	reversed := []domain.JoinedRow{
		chargeRow("T2", "M1", 301.00),
		chargeRow("T1", "M1", 10.00),
	}
	e2 := testEngine(t)
	e2.Process(reversed)
	if len(e2.Findings().Amount()) != 0 {
		t.Fatal("expected no flag when large charge is the seed")
	}
}
