// Package report renders fraud findings as fixed-width plain-text reports.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/fraud"
)

// fieldWidth is the left-aligned column width shared by both reports.
const fieldWidth = 32

func pad(s string) string {
	return fmt.Sprintf("%-*s", fieldWidth, s)
}

// WriteAmountReport writes the amount-fraud report: a header line followed by
// one row per finding, in finding order.
func WriteAmountReport(w io.Writer, findings []fraud.AmountFinding) error {
	header := pad("Name") + pad("Account Number") + pad("Transaction Number") + pad("Merchant") + "Transaction Amount"
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("failed to write amount report header: %w", err)
	}
	for _, f := range findings {
		line := pad(f.Name) + pad(f.AccountNumber) + pad(f.TransactionNumber) + pad(f.MerchantName) + fmt.Sprintf("$%.2f", f.Amount)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write amount report row for transaction %s: %w", f.TransactionNumber, err)
		}
	}
	return nil
}

// WriteGeographicReport writes the geographic-fraud report: a header line
// followed by one row per finding, in finding order.
func WriteGeographicReport(w io.Writer, findings []fraud.GeographicFinding) error {
	header := pad("Name") + pad("Account Number") + pad("Transaction Number") + pad("Expected Location") + "Actual Location"
	if _, err := fmt.Fprintln(w, header); err != nil {
		return fmt.Errorf("failed to write geographic report header: %w", err)
	}
	for _, f := range findings {
		line := pad(f.Name) + pad(f.AccountNumber) + pad(f.TransactionNumber) + pad(f.ExpectedLocation) + f.ActualLocation
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write geographic report row for transaction %s: %w", f.TransactionNumber, err)
		}
	}
	return nil
}

// WriteReportFiles writes both reports to their destination paths. It is only
// called after a fully successful run; a failed run produces no report files.
func WriteReportFiles(findings *fraud.Findings, amountPath, geographicPath string) (err error) {
	if findings == nil {
		return fmt.Errorf("findings cannot be nil")
	}
	if err := writeFile(amountPath, func(w io.Writer) error {
		return WriteAmountReport(w, findings.Amount())
	}); err != nil {
		return err
	}
	return writeFile(geographicPath, func(w io.Writer) error {
		return WriteGeographicReport(w, findings.Geographic())
	})
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close report file %s: %w", path, closeErr)
		}
	}()
	if err = write(f); err != nil {
		return fmt.Errorf("failed to write report file %s: %w", path, err)
	}
	return nil
}
