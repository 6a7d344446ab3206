// Package regions provides the read-only lookup table mapping two-letter
// region codes to full region names.
package regions

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var embeddedRegions []byte

// entry is one code/name pair in the YAML table.
type entry struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// tableFile is the top-level YAML structure.
type tableFile struct {
	Regions []entry `yaml:"regions"`
}

// Table maps region short-codes to full names. It is loaded once and
// read-only afterwards, so it is safe for concurrent lookups.
type Table struct {
	names map[string]string
}

var titleCaser = cases.Title(language.AmericanEnglish)

// NewTable creates a table from a code → name map. Codes are uppercased and
// names title-cased so lookups and report output are uniform regardless of
// how the source data was capitalized.
func NewTable(entries map[string]string) (*Table, error) {
	names := make(map[string]string, len(entries))
	for code, name := range entries {
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if len(code) != 2 {
			return nil, fmt.Errorf("region code %q must be exactly two characters", code)
		}
		if name == "" {
			return nil, fmt.Errorf("region %s: name cannot be empty", code)
		}
		if existing, ok := names[code]; ok {
			return nil, fmt.Errorf("duplicate region code %s (%q and %q)", code, existing, name)
		}
		// Normalize single-case names ("california", "TEXAS") without
		// munging mixed-case ones like "District of Columbia".
		if name == strings.ToLower(name) || name == strings.ToUpper(name) {
			name = titleCaser.String(strings.ToLower(name))
		}
		names[code] = name
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("region table cannot be empty")
	}
	return &Table{names: names}, nil
}

// Load parses a YAML region table.
func Load(data []byte) (*Table, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse region table YAML: %w", err)
	}
	entries := make(map[string]string, len(file.Regions))
	for i, e := range file.Regions {
		code := strings.ToUpper(strings.TrimSpace(e.Code))
		if _, ok := entries[code]; ok {
			return nil, fmt.Errorf("region %d: duplicate code %s", i, code)
		}
		entries[code] = e.Name
	}
	return NewTable(entries)
}

// LoadEmbedded loads the embedded default region table.
func LoadEmbedded() (*Table, error) {
	table, err := Load(embeddedRegions)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded region table: %w", err)
	}
	return table, nil
}

// LoadFromFile loads a region table from a filesystem path.
func LoadFromFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read region table file: %w", err)
	}
	table, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load region table from %q: %w", path, err)
	}
	return table, nil
}

// Resolve maps a two-letter code to its full name. The second return value
// reports whether the code is present.
func (t *Table) Resolve(code string) (string, bool) {
	name, ok := t.names[strings.ToUpper(code)]
	return name, ok
}

// Len returns the number of regions in the table.
func (t *Table) Len() int {
	return len(t.names)
}

// Codes returns all region codes in sorted order.
func (t *Table) Codes() []string {
	codes := make([]string, 0, len(t.names))
	for code := range t.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns a copy of the code → name map, for seeding external storage.
func (t *Table) All() map[string]string {
	out := make(map[string]string, len(t.names))
	for code, name := range t.names {
		out[code] = name
	}
	return out
}
