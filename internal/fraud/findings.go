package fraud

// AmountFinding reports one charge flagged by the amount-anomaly rule.
type AmountFinding struct {
	Name              string
	AccountNumber     string
	TransactionNumber string
	MerchantName      string
	Amount            float64
}

// GeographicFinding reports one transaction whose region differs from the
// account holder's home region.
type GeographicFinding struct {
	Name              string
	AccountNumber     string
	TransactionNumber string
	ExpectedLocation  string
	ActualLocation    string
}

// Findings collects the findings of both rules in row-processing order, one
// ordered collection per rule. It performs no formatting or I/O; the report
// writer renders it.
type Findings struct {
	amount     []AmountFinding
	geographic []GeographicFinding
}

// NewFindings creates an empty finding sink.
func NewFindings() *Findings {
	return &Findings{
		amount:     []AmountFinding{},
		geographic: []GeographicFinding{},
	}
}

// AddAmount appends an amount finding.
func (f *Findings) AddAmount(finding AmountFinding) {
	f.amount = append(f.amount, finding)
}

// AddGeographic appends a geographic finding.
func (f *Findings) AddGeographic(finding GeographicFinding) {
	f.geographic = append(f.geographic, finding)
}

// Amount returns a defensive copy of the amount findings in processing order.
func (f *Findings) Amount() []AmountFinding {
	return append([]AmountFinding(nil), f.amount...)
}

// Geographic returns a defensive copy of the geographic findings in
// processing order.
func (f *Findings) Geographic() []GeographicFinding {
	return append([]GeographicFinding(nil), f.geographic...)
}

// Total returns the combined number of findings across both rules.
func (f *Findings) Total() int {
	return len(f.amount) + len(f.geographic)
}
