// Package rowio reads delimited text feeds row by row. The feeds carry no
// quoting or escaping, so a row is split on the raw delimiter and each field
// is trimmed of surrounding whitespace.
package rowio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DefaultDelimiter is the field separator used by both input feeds.
const DefaultDelimiter = ","

// SplitRow splits a delimited line into raw field values, trimming
// whitespace from each field.
func SplitRow(line, delim string) []string {
	parts := strings.Split(line, delim)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FeedReader iterates over one feed. The header row is parsed once and its
// column count is enforced for every subsequent row, so a malformed row fails
// fast instead of shifting fields into the wrong columns.
type FeedReader struct {
	scanner *bufio.Scanner
	delim   string
	columns []string
	line    int
}

// NewFeedReader creates a reader over r using the default comma delimiter.
func NewFeedReader(r io.Reader) *FeedReader {
	return NewDelimFeedReader(r, DefaultDelimiter)
}

// NewDelimFeedReader creates a reader over r with an explicit delimiter.
func NewDelimFeedReader(r io.Reader, delim string) *FeedReader {
	return &FeedReader{
		scanner: bufio.NewScanner(r),
		delim:   delim,
	}
}

// Header reads and parses the header line, returning the column names.
// It must be called before Next.
func (f *FeedReader) Header() ([]string, error) {
	if f.columns != nil {
		return f.columns, nil
	}
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header line: %w", err)
		}
		return nil, fmt.Errorf("feed is empty: missing header line")
	}
	f.line = 1
	f.columns = SplitRow(f.scanner.Text(), f.delim)
	if len(f.columns) == 1 && f.columns[0] == "" {
		return nil, fmt.Errorf("header line is blank")
	}
	return f.columns, nil
}

// Next returns the fields of the next data row. Blank lines are skipped.
// A row whose field count differs from the header is an error. io.EOF is
// returned after the last row.
func (f *FeedReader) Next() ([]string, error) {
	if f.columns == nil {
		return nil, fmt.Errorf("header has not been parsed")
	}
	for f.scanner.Scan() {
		f.line++
		text := f.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := SplitRow(text, f.delim)
		if len(fields) != len(f.columns) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", f.line, len(f.columns), len(fields))
		}
		return fields, nil
	}
	if err := f.scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	return nil, io.EOF
}

// Line returns the 1-based number of the most recently read line.
func (f *FeedReader) Line() int {
	return f.line
}
