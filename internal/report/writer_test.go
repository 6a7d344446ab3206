package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/fraud"
)

func TestWriteAmountReport(t *testing.T) {
	findings := []fraud.AmountFinding{
		{
			Name:              "Erik Hansen",
			AccountNumber:     "ACCT-001",
			TransactionNumber: "T-100",
			MerchantName:      "KWIK E MART",
			Amount:            512.5,
		},
		{
			Name:              "Dana Cruz",
			AccountNumber:     "ACCT-002",
			TransactionNumber: "T-200",
			MerchantName:      "BOB\\'S BURGERS",
			Amount:            301,
		},
	}

	var sb strings.Builder
	if err := WriteAmountReport(&sb, findings); err != nil {
		t.Fatalf("WriteAmountReport() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("report has %d lines, want 3", len(lines))
	}

	header := lines[0]
	for _, col := range []string{"Name", "Account Number", "Transaction Number", "Merchant", "Transaction Amount"} {
		if !strings.Contains(header, col) {
			t.Errorf("header missing column %q: %q", col, header)
		}
	}

	// Columns are left-aligned in 32-character fields.
	if !strings.HasPrefix(lines[1], "Erik Hansen"+strings.Repeat(" ", fieldWidth-len("Erik Hansen"))) {
		t.Errorf("first row not padded to column width: %q", lines[1])
	}
	if got := lines[1][fieldWidth : 2*fieldWidth]; !strings.HasPrefix(got, "ACCT-001") {
		t.Errorf("account column = %q, want ACCT-001 at offset %d", got, fieldWidth)
	}

	// Amounts carry a dollar sign and exactly two decimals.
	if !strings.HasSuffix(lines[1], "$512.50") {
		t.Errorf("row 1 amount = %q, want $512.50 suffix", lines[1])
	}
	if !strings.HasSuffix(lines[2], "$301.00") {
		t.Errorf("row 2 amount = %q, want $301.00 suffix", lines[2])
	}
}

func TestWriteAmountReport_EmptyFindings(t *testing.T) {
	var sb strings.Builder
	if err := WriteAmountReport(&sb, nil); err != nil {
		t.Fatalf("WriteAmountReport() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("empty report has %d lines, want header only", len(lines))
	}
}

func TestWriteGeographicReport(t *testing.T) {
	findings := []fraud.GeographicFinding{
		{
			Name:              "Erik Hansen",
			AccountNumber:     "ACCT-001",
			TransactionNumber: "T-100",
			ExpectedLocation:  "California",
			ActualLocation:    "New York",
		},
	}

	var sb strings.Builder
	if err := WriteGeographicReport(&sb, findings); err != nil {
		t.Fatalf("WriteGeographicReport() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("report has %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Expected Location") || !strings.HasSuffix(lines[0], "Actual Location") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "California") || !strings.HasSuffix(lines[1], "New York") {
		t.Errorf("row = %q", lines[1])
	}
	// The final column is unpadded.
	if strings.HasSuffix(lines[1], " ") {
		t.Errorf("row has trailing padding: %q", lines[1])
	}
}

func TestWriteReportFiles(t *testing.T) {
	findings := fraud.NewFindings()
	findings.AddAmount(fraud.AmountFinding{
		Name:              "Erik Hansen",
		AccountNumber:     "ACCT-001",
		TransactionNumber: "T-100",
		MerchantName:      "KWIK E MART",
		Amount:            301,
	})
	findings.AddGeographic(fraud.GeographicFinding{
		Name:              "Erik Hansen",
		AccountNumber:     "ACCT-001",
		TransactionNumber: "T-101",
		ExpectedLocation:  "Texas",
		ActualLocation:    "Washington",
	})

	dir := t.TempDir()
	amountPath := filepath.Join(dir, "amount_fraud_log.txt")
	geoPath := filepath.Join(dir, "state_fraud_log.txt")

	if err := WriteReportFiles(findings, amountPath, geoPath); err != nil {
		t.Fatalf("WriteReportFiles() error = %v", err)
	}

	amount, err := os.ReadFile(amountPath)
	if err != nil {
		t.Fatalf("reading amount report: %v", err)
	}
	if !strings.Contains(string(amount), "$301.00") {
		t.Errorf("amount report missing finding: %q", amount)
	}

	geo, err := os.ReadFile(geoPath)
	if err != nil {
		t.Fatalf("reading geographic report: %v", err)
	}
	if !strings.Contains(string(geo), "Washington") {
		t.Errorf("geographic report missing finding: %q", geo)
	}
}

func TestWriteReportFiles_NilFindings(t *testing.T) {
	dir := t.TempDir()
	if err := WriteReportFiles(nil, filepath.Join(dir, "a.txt"), filepath.Join(dir, "g.txt")); err == nil {
		t.Error("WriteReportFiles(nil) expected error")
	}
}
