package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestCenter(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"pads left half of the slack", "run", 11, "    run"},
		{"odd slack rounds the padding down", "scan", 9, "  scan"},
		{"exact width unchanged", "fraud monitor", 13, "fraud monitor"},
		{"wider than width unchanged", "fraud monitor run", 5, "fraud monitor run"},
		{"empty text", "", 4, "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := center(tt.text, tt.width); got != tt.want {
				t.Errorf("center(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestInlineColors_PreserveText(t *testing.T) {
	// With color disabled the helpers must return the input verbatim.
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if got := BlueText("37 rows checked"); got != "37 rows checked" {
		t.Errorf("BlueText() = %q", got)
	}
	if got := YellowText("2 findings"); got != "2 findings" {
		t.Errorf("YellowText() = %q", got)
	}
}

func TestPrintHelpers_DoNotPanic(t *testing.T) {
	Header("fraud monitor")
	Step(2, 5, "normalizing transaction feed")
	Success("reports written")
	Info("using embedded region table")
	Warning("empty transaction feed")
	Error("accounts feed: missing header")
	Plain("run %s finished with %d findings", "b2c1", 2)
}

func TestCenter_FitsHeaderWidth(t *testing.T) {
	centered := center("fraud monitor", headerWidth)
	if len(centered) > headerWidth {
		t.Errorf("centered header text is %d columns, exceeds %d", len(centered), headerWidth)
	}
	if !strings.HasSuffix(centered, "fraud monitor") {
		t.Errorf("centered = %q, padding must be on the left only", centered)
	}
}
