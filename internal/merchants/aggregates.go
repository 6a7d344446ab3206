// Package merchants tracks per-merchant transaction history as an
// exponential moving average (EMA) of charge amounts.
package merchants

import "sort"

// aggregate is the mutable history for one merchant.
type aggregate struct {
	count int
	ema   float64
}

// Aggregates holds the per-merchant transaction count and EMA, keyed by
// merchant number. It is an explicit object owned by its caller, never a
// hidden global, so tests can construct fresh stores with deterministic
// starting state. State is updated strictly in observation order and is
// discarded at the end of a run; it is never persisted.
//
// Not safe for concurrent use: the EMA is order-sensitive, so callers must
// serialize all accesses to a given merchant's aggregate.
type Aggregates struct {
	byMerchant map[string]*aggregate
}

// New creates an empty aggregate store.
func New() *Aggregates {
	return &Aggregates{byMerchant: make(map[string]*aggregate)}
}

// Observe registers one charge at a merchant and returns whether this is the
// first observation (the seed) and the EMA as it stood before this amount is
// folded in. The caller tests the returned EMA against its rule and then
// either calls Commit to fold the amount into the history, or withholds it to
// exclude the amount. Seeds must always be committed.
//
// Amounts that are not charges (zero or negative after normalization) must
// never be passed to Observe or Commit; they do not participate in the
// aggregate at all.
func (a *Aggregates) Observe(merchantNumber string, amount float64) (seed bool, currentEMA float64) {
	agg, ok := a.byMerchant[merchantNumber]
	if !ok {
		agg = &aggregate{}
		a.byMerchant[merchantNumber] = agg
	}
	agg.count++
	return agg.count == 1, agg.ema
}

// Commit folds amount into the merchant's EMA using the smoothing factor
// alpha = 2 / (count + 1), where count includes the observation being
// committed.
func (a *Aggregates) Commit(merchantNumber string, amount float64) {
	agg, ok := a.byMerchant[merchantNumber]
	if !ok || agg.count == 0 {
		// Commit without a prior Observe is a caller bug; recording it
		// would corrupt the alpha schedule, so it is ignored.
		return
	}
	alpha := 2.0 / (float64(agg.count) + 1.0)
	agg.ema = alpha*amount + (1.0-alpha)*agg.ema
}

// Count returns the number of observed charges at a merchant.
func (a *Aggregates) Count(merchantNumber string) int {
	if agg, ok := a.byMerchant[merchantNumber]; ok {
		return agg.count
	}
	return 0
}

// EMA returns the current EMA at a merchant.
func (a *Aggregates) EMA(merchantNumber string) float64 {
	if agg, ok := a.byMerchant[merchantNumber]; ok {
		return agg.ema
	}
	return 0
}

// Merchants returns the observed merchant numbers in sorted order.
func (a *Aggregates) Merchants() []string {
	out := make([]string, 0, len(a.byMerchant))
	for m := range a.byMerchant {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
