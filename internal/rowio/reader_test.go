package rowio

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func TestSplitRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "whitespace trimmed",
			line: "  a , b ,c  ",
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty fields preserved",
			line: "a,,c",
			want: []string{"a", "", "c"},
		},
		{
			name: "internal spaces kept",
			line: "BOB'S BURGERS <HOUSTON TX,77005",
			want: []string{"BOB'S BURGERS <HOUSTON TX", "77005"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRow(tt.line, DefaultDelimiter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitRow(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestFeedReader_HeaderAndRows(t *testing.T) {
	feed := "col_a, col_b, col_c\n1,2,3\n\n4,5,6\n"
	r := NewFeedReader(strings.NewReader(feed))

	columns, err := r.Header()
	if err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	if !reflect.DeepEqual(columns, []string{"col_a", "col_b", "col_c"}) {
		t.Errorf("Header() = %v", columns)
	}

	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !reflect.DeepEqual(first, []string{"1", "2", "3"}) {
		t.Errorf("first row = %v", first)
	}

	// Blank line between rows is skipped.
	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !reflect.DeepEqual(second, []string{"4", "5", "6"}) {
		t.Errorf("second row = %v", second)
	}

	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after last row error = %v, want io.EOF", err)
	}
}

func TestFeedReader_ColumnCountMismatch(t *testing.T) {
	feed := "a,b,c\n1,2\n"
	r := NewFeedReader(strings.NewReader(feed))

	if _, err := r.Header(); err != nil {
		t.Fatalf("Header() error = %v", err)
	}
	_, err := r.Next()
	if err == nil {
		t.Fatal("Next() expected error for short row")
	}
	if !strings.Contains(err.Error(), "expected 3 fields, got 2") {
		t.Errorf("Next() error = %v, want field count mismatch", err)
	}
}

func TestFeedReader_EmptyFeed(t *testing.T) {
	r := NewFeedReader(strings.NewReader(""))
	if _, err := r.Header(); err == nil {
		t.Error("Header() expected error for empty feed")
	}
}

func TestFeedReader_NextBeforeHeader(t *testing.T) {
	r := NewFeedReader(strings.NewReader("a,b\n1,2\n"))
	if _, err := r.Next(); err == nil {
		t.Error("Next() expected error before Header()")
	}
}
