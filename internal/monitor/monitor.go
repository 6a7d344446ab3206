// Package monitor orchestrates a full fraud-monitoring run: feed ingestion
// through normalization into storage, then the rule pass over the joined
// stream, then report writing.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/fraud"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/normalize"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/regions"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/report"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/rowio"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/store"
)

// Config holds everything one run needs.
type Config struct {
	AccountsPath         string
	TransactionsPath     string
	AmountReportPath     string
	GeographicReportPath string
	Engine               *fraud.Config
	Regions              *regions.Table
	Verbose              bool
}

// Stats summarizes a completed run.
type Stats struct {
	RunID              string
	AccountsLoaded     int
	TransactionsLoaded int
	RowsChecked        int
	AmountFindings     int
	GeographicFindings int
}

// Monitor runs the end-to-end pipeline against one storage collaborator.
// A run either completes or aborts on the first parse or storage error; an
// aborted run writes no report files.
type Monitor struct {
	cfg   Config
	store *store.Store
	runID string
}

// New creates a monitor for a single run.
func New(cfg Config, st *store.Store) (*Monitor, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if cfg.AccountsPath == "" || cfg.TransactionsPath == "" {
		return nil, fmt.Errorf("both feed paths are required")
	}
	if cfg.AmountReportPath == "" || cfg.GeographicReportPath == "" {
		return nil, fmt.Errorf("both report paths are required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine config cannot be nil")
	}
	if cfg.Regions == nil {
		return nil, fmt.Errorf("region table cannot be nil")
	}
	return &Monitor{
		cfg:   cfg,
		store: st,
		runID: uuid.NewString(),
	}, nil
}

// RunID returns the identifier tagging this run's log lines.
func (m *Monitor) RunID() string {
	return m.runID
}

// Run executes the full pipeline and returns the findings and run summary.
func (m *Monitor) Run(ctx context.Context) (*fraud.Findings, *Stats, error) {
	stats := &Stats{RunID: m.runID}

	if err := m.store.InitSchema(ctx); err != nil {
		return nil, nil, err
	}
	if err := m.store.Reset(ctx); err != nil {
		return nil, nil, err
	}

	// The database is the source of truth for region names: seed it from
	// the configured table, then read it back for normalization.
	if err := m.store.SeedRegions(ctx, m.cfg.Regions); err != nil {
		return nil, nil, err
	}
	table, err := m.store.LoadRegions(ctx)
	if err != nil {
		return nil, nil, err
	}

	normalizer, err := normalize.New(table)
	if err != nil {
		return nil, nil, err
	}

	stats.AccountsLoaded, err = m.ingestAccounts(ctx, normalizer)
	if err != nil {
		return nil, nil, fmt.Errorf("account feed %s: %w", m.cfg.AccountsPath, err)
	}
	stats.TransactionsLoaded, err = m.ingestTransactions(ctx, normalizer)
	if err != nil {
		return nil, nil, fmt.Errorf("transaction feed %s: %w", m.cfg.TransactionsPath, err)
	}

	rows, err := m.store.QueryJoinedOrdered(ctx)
	if err != nil {
		return nil, nil, err
	}
	stats.RowsChecked = len(rows)

	engine, err := fraud.NewEngine(m.cfg.Engine)
	if err != nil {
		return nil, nil, err
	}
	findings := engine.Process(rows)
	stats.AmountFindings = len(findings.Amount())
	stats.GeographicFindings = len(findings.Geographic())

	if m.cfg.Verbose {
		log.Printf("run %s: checked %d joined rows, %d amount findings, %d geographic findings",
			m.runID, stats.RowsChecked, stats.AmountFindings, stats.GeographicFindings)
	}

	if err := report.WriteReportFiles(findings, m.cfg.AmountReportPath, m.cfg.GeographicReportPath); err != nil {
		return nil, nil, err
	}

	return findings, stats, nil
}

// ingestAccounts normalizes and persists the account feed.
func (m *Monitor) ingestAccounts(ctx context.Context, n *normalize.Normalizer) (int, error) {
	return m.ingestFeed(ctx, m.cfg.AccountsPath, normalize.AccountColumns,
		func(columns, fields []string, line int) error {
			rec, err := n.Account(columns, fields, line)
			if err != nil {
				return err
			}
			return m.store.UpsertAccount(ctx, rec)
		})
}

// ingestTransactions normalizes and persists the transaction feed.
func (m *Monitor) ingestTransactions(ctx context.Context, n *normalize.Normalizer) (int, error) {
	return m.ingestFeed(ctx, m.cfg.TransactionsPath, normalize.TransactionColumns,
		func(columns, fields []string, line int) error {
			rec, err := n.Transaction(columns, fields, line)
			if err != nil {
				return err
			}
			return m.store.UpsertTransaction(ctx, rec)
		})
}

// ingestFeed streams one feed through the row reader, handing each row to
// handle. The header shape is validated once; every row is then checked
// against it by the reader.
func (m *Monitor) ingestFeed(ctx context.Context, path string, expected []string, handle func(columns, fields []string, line int) error) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open feed: %w", err)
	}
	defer f.Close()

	reader := rowio.NewFeedReader(f)
	columns, err := reader.Header()
	if err != nil {
		return 0, err
	}
	if err := normalize.ValidateHeader(columns, expected); err != nil {
		return 0, fmt.Errorf("invalid header: %w", err)
	}

	count := 0
	for {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		fields, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}
		if err := handle(columns, fields, reader.Line()); err != nil {
			return count, err
		}
		count++
	}

	if m.cfg.Verbose {
		log.Printf("run %s: loaded %d rows from %s", m.runID, count, path)
	}
	return count, nil
}
