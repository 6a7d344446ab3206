// Package store is the storage collaborator: it persists normalized feed
// records in SQLite and produces the joined, deterministically ordered
// account+transaction stream the fraud engine consumes.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/domain"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/regions"
)

// StorageError wraps a failed storage operation. Any storage failure halts
// the run: the fraud engine requires a complete, consistent dataset and must
// not run against partial state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Store wraps the SQLite database holding the account_info, transactions,
// and region_names tables.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path. Use ":memory:"
// for an ephemeral database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("open %s", path), err)
	}
	// The EMA pass is order-sensitive, so everything runs on one
	// connection in one goroutine.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close", err)
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS account_info (
	last_name      TEXT,
	first_name     TEXT,
	street_address TEXT,
	unit           TEXT,
	city           TEXT,
	state          TEXT,
	zip            TEXT,
	dob            TEXT,
	ssn            TEXT,
	email_address  TEXT,
	mobile_number  TEXT,
	account_number TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS transactions (
	account_number         TEXT NOT NULL,
	transaction_datetime   TEXT,
	transaction_amount     REAL NOT NULL,
	post_date              TEXT,
	merchant_number        TEXT,
	merchant_description   TEXT,
	merchant_name          TEXT,
	merchant_state         TEXT,
	transaction_state      TEXT,
	merchant_category_code TEXT,
	transaction_number     TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS region_names (
	code TEXT PRIMARY KEY,
	name TEXT NOT NULL
);
`

// InitSchema creates the feed and lookup tables if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return storageErr("init schema", err)
	}
	return nil
}

// Reset clears the feed tables so a run starts from a clean load. The region
// lookup table is left in place.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return storageErr("clear transactions", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM account_info`); err != nil {
		return storageErr("clear account_info", err)
	}
	return nil
}

// SeedRegions upserts the region lookup table into region_names.
func (s *Store) SeedRegions(ctx context.Context, table *regions.Table) error {
	if table == nil {
		return fmt.Errorf("region table cannot be nil")
	}
	for code, name := range table.All() {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO region_names (code, name) VALUES (?, ?)
			ON CONFLICT(code) DO UPDATE SET name = excluded.name`,
			code, name)
		if err != nil {
			return storageErr(fmt.Sprintf("seed region %s", code), err)
		}
	}
	return nil
}

// LoadRegions reads the persisted region lookup table back out of the
// database.
func (s *Store) LoadRegions(ctx context.Context) (*regions.Table, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, name FROM region_names`)
	if err != nil {
		return nil, storageErr("load regions", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var code, name string
		if err := rows.Scan(&code, &name); err != nil {
			return nil, storageErr("scan region row", err)
		}
		entries[code] = name
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate region rows", err)
	}

	table, err := regions.NewTable(entries)
	if err != nil {
		return nil, fmt.Errorf("region_names table is invalid: %w", err)
	}
	return table, nil
}

// UpsertAccount inserts or replaces one normalized account record, keyed by
// account number. Nil fields are stored as SQL NULL.
func (s *Store) UpsertAccount(ctx context.Context, rec *domain.AccountRecord) error {
	if rec == nil {
		return fmt.Errorf("account record cannot be nil")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account_info (
			last_name, first_name, street_address, unit, city, state,
			zip, dob, ssn, email_address, mobile_number, account_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_number) DO UPDATE SET
			last_name = excluded.last_name,
			first_name = excluded.first_name,
			street_address = excluded.street_address,
			unit = excluded.unit,
			city = excluded.city,
			state = excluded.state,
			zip = excluded.zip,
			dob = excluded.dob,
			ssn = excluded.ssn,
			email_address = excluded.email_address,
			mobile_number = excluded.mobile_number`,
		rec.LastName, rec.FirstName, rec.StreetAddress, rec.Unit, rec.City,
		rec.State, rec.Zip, rec.DOB, rec.SSN, rec.Email, rec.MobileNumber,
		rec.AccountNumber)
	if err != nil {
		return storageErr(fmt.Sprintf("upsert account %s", rec.AccountNumber), err)
	}
	return nil
}

// UpsertTransaction inserts or replaces one normalized transaction record,
// keyed by transaction number. Nil fields are stored as SQL NULL.
func (s *Store) UpsertTransaction(ctx context.Context, rec *domain.TransactionRecord) error {
	if rec == nil {
		return fmt.Errorf("transaction record cannot be nil")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			account_number, transaction_datetime, transaction_amount,
			post_date, merchant_number, merchant_description,
			merchant_name, merchant_state, transaction_state,
			merchant_category_code, transaction_number
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(transaction_number) DO UPDATE SET
			account_number = excluded.account_number,
			transaction_datetime = excluded.transaction_datetime,
			transaction_amount = excluded.transaction_amount,
			post_date = excluded.post_date,
			merchant_number = excluded.merchant_number,
			merchant_description = excluded.merchant_description,
			merchant_name = excluded.merchant_name,
			merchant_state = excluded.merchant_state,
			transaction_state = excluded.transaction_state,
			merchant_category_code = excluded.merchant_category_code`,
		rec.AccountNumber, rec.TransactionDatetime, rec.Amount, rec.PostDate,
		rec.MerchantNumber, rec.MerchantDescription, rec.MerchantName,
		rec.MerchantState, rec.TransactionState, rec.MerchantCategoryCode,
		rec.TransactionNumber)
	if err != nil {
		return storageErr(fmt.Sprintf("upsert transaction %s", rec.TransactionNumber), err)
	}
	return nil
}

// QueryJoinedOrdered returns every account+transaction pair, inner-joined on
// account number and ordered by transaction number. The ordering pins the
// engine's processing order so repeated runs over the same data classify
// identically.
func (s *Store) QueryJoinedOrdered(ctx context.Context) ([]domain.JoinedRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			COALESCE(a.last_name, ''),
			COALESCE(a.first_name, ''),
			COALESCE(a.state, ''),
			t.account_number,
			t.transaction_amount,
			COALESCE(t.merchant_number, ''),
			COALESCE(t.merchant_name, ''),
			COALESCE(t.transaction_state, ''),
			t.transaction_number
		FROM account_info a
		INNER JOIN transactions t ON t.account_number = a.account_number
		ORDER BY t.transaction_number`)
	if err != nil {
		return nil, storageErr("query joined rows", err)
	}
	defer rows.Close()

	var joined []domain.JoinedRow
	for rows.Next() {
		var row domain.JoinedRow
		if err := rows.Scan(
			&row.LastName, &row.FirstName, &row.AccountState,
			&row.AccountNumber, &row.Amount, &row.MerchantNumber,
			&row.MerchantName, &row.TransactionState, &row.TransactionNumber,
		); err != nil {
			return nil, storageErr("scan joined row", err)
		}
		joined = append(joined, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate joined rows", err)
	}
	return joined, nil
}
