package normalize

import "fmt"

// ParseError describes a malformed field encountered during normalization.
// A ParseError aborts the whole ingestion run; skipping the bad record would
// silently corrupt downstream joins and the merchant EMA history.
type ParseError struct {
	Feed   string // "accounts" or "transactions"
	Line   int    // 1-based line number in the feed, 0 when unknown
	Field  string // column name
	Value  string // offending raw value
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s feed line %d: field %s=%q: %s", e.Feed, e.Line, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s feed: field %s=%q: %s", e.Feed, e.Field, e.Value, e.Reason)
}

func parseErr(feed string, line int, field, value, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Feed:   feed,
		Line:   line,
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	}
}
