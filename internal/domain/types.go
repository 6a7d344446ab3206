// Package domain defines the canonical record shapes shared by the
// normalization pipeline, the storage layer, and the fraud engine.
package domain

import "fmt"

// AccountRecord is the canonical form of one account-feed row.
// Nullable text fields are *string so the storage layer can distinguish
// an absent value (stored as SQL NULL) from an empty string.
// Records are immutable after normalization.
type AccountRecord struct {
	LastName      *string
	FirstName     *string
	StreetAddress *string
	Unit          *string
	City          *string
	State         *string // Full region name after lookup, never a short code
	Zip           *string
	DOB           *string // YYYY-MM-DD
	SSN           *string
	Email         *string
	MobileNumber  *string
	AccountNumber string // Unique key, required
}

// TransactionRecord is the canonical form of one transaction-feed row.
// Amount carries the business sign convention: charges against the account
// are positive, credits and refunds are negative.
type TransactionRecord struct {
	AccountNumber        string  // Foreign key into the account feed, required
	TransactionDatetime  *string // YYYY-MM-DD HH:MM:SS
	Amount               float64
	PostDate             *string // YYYY-MM-DD
	MerchantNumber       *string
	MerchantDescription  *string // Raw text with quote characters escaped
	MerchantName         *string // Derived from MerchantDescription
	MerchantState        *string // Derived, full region name; empty when the heuristic misses
	TransactionState     *string // Full region name after lookup
	MerchantCategoryCode *string
	TransactionNumber    string // Unique key, required
}

// JoinedRow is the projection of one account+transaction pair returned by
// the storage collaborator's ordered join. The fraud engine consumes these
// strictly in the order they are produced.
type JoinedRow struct {
	LastName          string
	FirstName         string
	AccountState      string
	AccountNumber     string
	Amount            float64
	MerchantNumber    string
	MerchantName      string
	TransactionState  string
	TransactionNumber string
}

// HolderName returns the account holder's display name as used in reports.
func (r *JoinedRow) HolderName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// NewAccountRecord creates a validated account record. The account number is
// the unique key and must be present; every other field may be absent.
func NewAccountRecord(accountNumber string) (*AccountRecord, error) {
	if accountNumber == "" {
		return nil, fmt.Errorf("account number cannot be empty")
	}
	return &AccountRecord{AccountNumber: accountNumber}, nil
}

// NewTransactionRecord creates a validated transaction record. Both the
// transaction number (unique key) and the account number (join key) must be
// present.
func NewTransactionRecord(transactionNumber, accountNumber string) (*TransactionRecord, error) {
	if transactionNumber == "" {
		return nil, fmt.Errorf("transaction number cannot be empty")
	}
	if accountNumber == "" {
		return nil, fmt.Errorf("account number cannot be empty")
	}
	return &TransactionRecord{
		TransactionNumber: transactionNumber,
		AccountNumber:     accountNumber,
	}, nil
}
