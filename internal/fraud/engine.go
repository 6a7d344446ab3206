// Package fraud evaluates two independent fraud rules over the joined,
// ordered account+transaction stream.
package fraud

import (
	"fmt"

	"github.com/rumor-ml/commons.systems/fraudmon/internal/domain"
	"github.com/rumor-ml/commons.systems/fraudmon/internal/merchants"
)

// Engine applies both fraud rules to each joined row, in row order. The
// per-merchant aggregate store is the engine's only mutable state, and the
// amount rule's EMA is order-sensitive: processing the same rows in a
// different order yields different classifications. That order dependence is
// intentional; the caller must feed rows in the storage collaborator's pinned
// deterministic order.
//
// Given valid normalized input the engine never fails: a run always
// terminates having produced zero or more findings.
type Engine struct {
	cfg        Config
	aggregates *merchants.Aggregates
	findings   *Findings
}

// NewEngine creates an engine for a single run with fresh aggregate state.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.AmountRule.MinTransactionAmount <= 0 || cfg.AmountRule.ThresholdMultiplier <= 0 {
		return nil, fmt.Errorf("config has not been validated: thresholds must be positive")
	}
	return &Engine{
		cfg:        *cfg,
		aggregates: merchants.New(),
		findings:   NewFindings(),
	}, nil
}

// Process applies both rules to each row in order and returns the finding
// sink. Rows must already be in the pinned deterministic join order.
func (e *Engine) Process(rows []domain.JoinedRow) *Findings {
	for i := range rows {
		e.CheckRow(&rows[i])
	}
	return e.findings
}

// CheckRow evaluates both rules against one joined row.
func (e *Engine) CheckRow(row *domain.JoinedRow) {
	e.checkAmount(row)
	e.checkGeographic(row)
}

// checkAmount applies the amount-anomaly rule. Refunds (amount <= 0) are
// skipped entirely and never touch the merchant aggregate. The first charge
// observed at a merchant seeds the EMA and is never evaluated: there is no
// history to judge it against yet. A flagged charge is excluded from the EMA
// so that fraudulent amounts do not inflate the merchant's history.
func (e *Engine) checkAmount(row *domain.JoinedRow) {
	if row.Amount <= 0 {
		return
	}

	seed, ema := e.aggregates.Observe(row.MerchantNumber, row.Amount)
	if seed {
		e.aggregates.Commit(row.MerchantNumber, row.Amount)
		return
	}

	if row.Amount > e.cfg.AmountRule.MinTransactionAmount &&
		row.Amount > e.cfg.AmountRule.ThresholdMultiplier*ema {
		e.findings.AddAmount(AmountFinding{
			Name:              row.HolderName(),
			AccountNumber:     row.AccountNumber,
			TransactionNumber: row.TransactionNumber,
			MerchantName:      row.MerchantName,
			Amount:            row.Amount,
		})
		return
	}

	e.aggregates.Commit(row.MerchantNumber, row.Amount)
}

// checkGeographic applies the geographic-mismatch rule. It is stateless and
// evaluated on every row regardless of the amount rule's outcome or the
// amount sign.
func (e *Engine) checkGeographic(row *domain.JoinedRow) {
	if row.AccountState == row.TransactionState {
		return
	}
	e.findings.AddGeographic(GeographicFinding{
		Name:              row.HolderName(),
		AccountNumber:     row.AccountNumber,
		TransactionNumber: row.TransactionNumber,
		ExpectedLocation:  row.AccountState,
		ActualLocation:    row.TransactionState,
	})
}

// Findings returns the engine's finding sink.
func (e *Engine) Findings() *Findings {
	return e.findings
}

// Aggregates exposes the merchant aggregate store for inspection in tests.
func (e *Engine) Aggregates() *merchants.Aggregates {
	return e.aggregates
}
