// Package normalize rewrites raw feed rows into canonical records: dates to
// ISO form, trailing-sign amounts to leading-sign decimals with the charge
// sign convention applied, region codes to full names, and merchant
// descriptions to best-effort merchant name and state.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/domain"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/regions"
)

const (
	feedAccounts     = "accounts"
	feedTransactions = "transactions"
)

// AccountColumns is the required header of the account feed.
var AccountColumns = []string{
	"last_name", "first_name", "street_address", "unit", "city", "state",
	"zip", "dob", "ssn", "email_address", "mobile_number", "account_number",
}

// TransactionColumns is the required header of the transaction feed.
var TransactionColumns = []string{
	"account_number", "transaction_datetime", "transaction_amount",
	"post_date", "merchant_number", "merchant_description", "merchant_name",
	"transaction_state", "merchant_category_code", "transaction_number",
}

// Normalizer performs table-specific field normalization. It holds only the
// region lookup table and performs no I/O, so it is safe for concurrent use.
type Normalizer struct {
	regions *regions.Table
}

// New creates a normalizer backed by the given region lookup table.
func New(table *regions.Table) (*Normalizer, error) {
	if table == nil {
		return nil, fmt.Errorf("region table cannot be nil")
	}
	return &Normalizer{regions: table}, nil
}

// ValidateHeader checks that the parsed header names exactly the expected
// columns, in order. The column shape is established once here and enforced
// per row by the feed reader's field-count check.
func ValidateHeader(columns, expected []string) error {
	if len(columns) != len(expected) {
		return fmt.Errorf("expected %d columns, got %d", len(expected), len(columns))
	}
	for i, want := range expected {
		if columns[i] != want {
			return fmt.Errorf("column %d: expected %q, got %q", i+1, want, columns[i])
		}
	}
	return nil
}

// Account normalizes one account-feed row. The fields slice must align with
// columns; line is used for error context only.
func (n *Normalizer) Account(columns, fields []string, line int) (*domain.AccountRecord, error) {
	if len(fields) != len(columns) {
		return nil, parseErr(feedAccounts, line, "", "", "expected %d fields, got %d", len(columns), len(fields))
	}

	rec := &domain.AccountRecord{}
	for i, name := range columns {
		value := fields[i]
		switch name {
		case "last_name":
			rec.LastName = optional(value)
		case "first_name":
			rec.FirstName = optional(value)
		case "street_address":
			rec.StreetAddress = optional(value)
		case "unit":
			rec.Unit = optional(value)
		case "city":
			rec.City = optional(value)
		case "state":
			full, ok := n.regions.Resolve(value)
			if !ok {
				return nil, parseErr(feedAccounts, line, name, value, "unmapped region code")
			}
			rec.State = optional(full)
		case "zip":
			rec.Zip = optional(value)
		case "dob":
			iso, err := normalizeSlashDate(value)
			if err != nil {
				return nil, parseErr(feedAccounts, line, name, value, "%v", err)
			}
			rec.DOB = optional(iso)
		case "ssn":
			rec.SSN = optional(value)
		case "email_address":
			rec.Email = optional(value)
		case "mobile_number":
			rec.MobileNumber = optional(value)
		case "account_number":
			if value == "" {
				return nil, parseErr(feedAccounts, line, name, value, "account number cannot be empty")
			}
			rec.AccountNumber = value
		default:
			return nil, parseErr(feedAccounts, line, name, value, "unexpected column")
		}
	}
	return rec, nil
}

// Transaction normalizes one transaction-feed row. The feed's merchant_name
// column is ignored; the stored merchant name is always derived from the
// merchant description.
func (n *Normalizer) Transaction(columns, fields []string, line int) (*domain.TransactionRecord, error) {
	if len(fields) != len(columns) {
		return nil, parseErr(feedTransactions, line, "", "", "expected %d fields, got %d", len(columns), len(fields))
	}

	rec := &domain.TransactionRecord{}
	for i, name := range columns {
		value := fields[i]
		switch name {
		case "account_number":
			if value == "" {
				return nil, parseErr(feedTransactions, line, name, value, "account number cannot be empty")
			}
			rec.AccountNumber = value
		case "transaction_datetime":
			iso, err := normalizeCompactDatetime(value)
			if err != nil {
				return nil, parseErr(feedTransactions, line, name, value, "%v", err)
			}
			rec.TransactionDatetime = optional(iso)
		case "transaction_amount":
			amount, err := normalizeAmount(value)
			if err != nil {
				return nil, parseErr(feedTransactions, line, name, value, "%v", err)
			}
			// Business convention, not a typo: feed amounts are credit
			// transactions, so the sign is flipped to make account
			// charges positive and refunds negative.
			rec.Amount = -amount
		case "post_date":
			iso, err := normalizeCompactDate(value)
			if err != nil {
				return nil, parseErr(feedTransactions, line, name, value, "%v", err)
			}
			rec.PostDate = optional(iso)
		case "merchant_number":
			rec.MerchantNumber = optional(value)
		case "merchant_description":
			escaped := escapeQuotes(value)
			rec.MerchantDescription = optional(escaped)
			if escaped != "" {
				merchantName, stateCode := extractMerchant(escaped)
				rec.MerchantName = optional(merchantName)
				// The heuristic is lossy, so an unmapped code is a
				// tolerated miss rather than a hard error.
				if full, ok := n.regions.Resolve(stateCode); ok {
					rec.MerchantState = optional(full)
				}
			}
		case "merchant_name":
			// Derived from merchant_description; feed value discarded.
		case "transaction_state":
			full, ok := n.regions.Resolve(value)
			if !ok {
				return nil, parseErr(feedTransactions, line, name, value, "unmapped region code")
			}
			rec.TransactionState = optional(full)
		case "merchant_category_code":
			rec.MerchantCategoryCode = optional(value)
		case "transaction_number":
			if value == "" {
				return nil, parseErr(feedTransactions, line, name, value, "transaction number cannot be empty")
			}
			rec.TransactionNumber = value
		default:
			return nil, parseErr(feedTransactions, line, name, value, "unexpected column")
		}
	}
	return rec, nil
}

// optional returns nil for empty values so downstream storage writes NULL
// instead of an empty-string literal.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizeSlashDate rewrites MM/DD/YYYY to YYYY-MM-DD. The layout is
// fixed-width: each part must have its exact length, and the date must be a
// real calendar date.
func normalizeSlashDate(value string) (string, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return "", fmt.Errorf("expected MM/DD/YYYY")
	}
	t, err := time.Parse("01/02/2006", value)
	if err != nil {
		return "", fmt.Errorf("invalid calendar date: %w", err)
	}
	return t.Format("2006-01-02"), nil
}

// normalizeCompactDate rewrites MMDDYYYY to YYYY-MM-DD.
func normalizeCompactDate(value string) (string, error) {
	if len(value) != 8 {
		return "", fmt.Errorf("expected MMDDYYYY")
	}
	t, err := time.Parse("01022006", value)
	if err != nil {
		return "", fmt.Errorf("invalid calendar date: %w", err)
	}
	return t.Format("2006-01-02"), nil
}

// normalizeCompactDatetime rewrites "MMDDYYYY HH:MM:SS" to
// "YYYY-MM-DD HH:MM:SS".
func normalizeCompactDatetime(value string) (string, error) {
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 || len(parts[0]) != 8 {
		return "", fmt.Errorf("expected MMDDYYYY HH:MM:SS")
	}
	t, err := time.Parse("01022006 15:04:05", value)
	if err != nil {
		return "", fmt.Errorf("invalid datetime: %w", err)
	}
	return t.Format("2006-01-02 15:04:05"), nil
}

// normalizeAmount rewrites a trailing-sign decimal ("123.45-") to a
// leading-sign value. The sign character must be the last byte.
func normalizeAmount(value string) (float64, error) {
	if len(value) < 2 {
		return 0, fmt.Errorf("expected digits followed by a sign character")
	}
	sign := value[len(value)-1]
	if sign != '+' && sign != '-' {
		return 0, fmt.Errorf("expected trailing + or -, got %q", string(sign))
	}
	magnitude, err := strconv.ParseFloat(value[:len(value)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal: %w", err)
	}
	if magnitude < 0 {
		return 0, fmt.Errorf("sign must be trailing only")
	}
	if sign == '-' {
		return -magnitude, nil
	}
	return magnitude, nil
}
